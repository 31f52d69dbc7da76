package markdown

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	fallbackFence   = regexp.MustCompile("(?s)```([\\w+#-]*)[ \\t]*\\n(.*?)\\n?```")
	fallbackHeading = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*$`)
	fallbackImage   = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	fallbackLink    = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	fallbackBold    = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)
	fallbackItalic  = regexp.MustCompile(`\*([^*]+)\*|\b_([^_]+)_\b`)
	fallbackCode    = regexp.MustCompile("`([^`]+)`")
)

// Fallback is a minimal regex converter used when the main converter fails.
// It covers headings, bold, italic, fenced and inline code, images, links and
// paragraph breaks, and never fails.
func Fallback(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")

	var fences []string
	src = fallbackFence.ReplaceAllStringFunc(src, func(m string) string {
		parts := fallbackFence.FindStringSubmatch(m)
		var b strings.Builder
		b.WriteString("<pre><code")
		if parts[1] != "" {
			b.WriteString(` class="language-` + parts[1] + `"`)
		}
		b.WriteString(">")
		b.WriteString(html.EscapeString(parts[2]))
		b.WriteString("</code></pre>")
		fences = append(fences, b.String())
		return fencePlaceholder(len(fences) - 1)
	})

	var out []string
	var para []string
	flush := func() {
		if len(para) > 0 {
			out = append(out, "<p>"+strings.Join(para, "<br>")+"</p>")
			para = nil
		}
	}

	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case strings.HasPrefix(trimmed, "\x00"):
			flush()
			out = append(out, trimmed)
		default:
			if m := fallbackHeading.FindStringSubmatch(trimmed); m != nil {
				flush()
				level := strconv.Itoa(len(m[1]))
				out = append(out, "<h"+level+">"+inline(m[2])+"</h"+level+">")
				continue
			}
			para = append(para, inline(trimmed))
		}
	}
	flush()

	doc := strings.Join(out, "\n")
	for i, f := range fences {
		doc = strings.Replace(doc, fencePlaceholder(i), f, 1)
	}
	return doc
}

func fencePlaceholder(i int) string {
	return "\x00" + strconv.Itoa(i) + "\x00"
}

func inline(s string) string {
	s = html.EscapeString(s)
	s = fallbackCode.ReplaceAllString(s, "<code>$1</code>")
	s = fallbackImage.ReplaceAllString(s, `<img src="$2" alt="$1">`)
	s = fallbackLink.ReplaceAllString(s, `<a href="$2">$1</a>`)
	s = fallbackBold.ReplaceAllString(s, "<strong>$1$2</strong>")
	s = fallbackItalic.ReplaceAllString(s, "<em>$1$2</em>")
	return s
}
