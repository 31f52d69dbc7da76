package markdown

import (
	"regexp"
	"strings"
)

// DefaultTitle is used when the source carries no usable line.
const DefaultTitle = "Untitled"

var (
	h1Line      = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)
	h2Line      = regexp.MustCompile(`(?m)^##[ \t]+(.+)$`)
	leadingHash = regexp.MustCompile(`^#+\s*`)
)

// ExtractTitle picks a page title from Markdown source: the first "# " heading,
// else the first "## " heading, else the first non-empty line without leading
// "#" markers, else DefaultTitle.
func ExtractTitle(src string) string {
	if m := h1Line.FindStringSubmatch(src); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			return t
		}
	}
	if m := h2Line.FindStringSubmatch(src); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			return t
		}
	}
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if t := strings.TrimSpace(leadingHash.ReplaceAllString(line, "")); t != "" {
			return t
		}
	}
	return DefaultTitle
}
