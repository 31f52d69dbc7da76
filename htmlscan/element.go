// Package htmlscan splits the HTML produced by a Markdown converter into an
// ordered list of typed elements. It classifies one logical line at a time with
// a fixed list of rules rather than building a DOM tree: Markdown-derived HTML
// only spans lines for code blocks and a few wrapper tags, which a pre-pass folds
// onto single lines.
package htmlscan

import "strings"

// Tag identifies the kind of a scanned element.
type Tag string

const (
	TagH1         Tag = "h1"
	TagH2         Tag = "h2"
	TagH3         Tag = "h3"
	TagH4         Tag = "h4"
	TagH5         Tag = "h5"
	TagH6         Tag = "h6"
	TagParagraph  Tag = "p"
	TagPre        Tag = "pre"
	TagBlockquote Tag = "blockquote"
	TagListItem   Tag = "li"
	TagTableRow   Tag = "table-row"
	TagImage      Tag = "img"
	TagRule       Tag = "hr"
)

// Attribute keys set by the scanner.
const (
	AttrLanguage = "language"
	AttrSrc      = "src"
	AttrAlt      = "alt"
	AttrTitle    = "title"
	AttrChecked  = "checked"
	AttrHeader   = "header"
)

// Element is one scanned unit of HTML.
type Element struct {
	Tag     Tag
	Content string
	Attrs   map[string]string
	// Cells holds stripped cell text for TagTableRow.
	Cells []string
}

// Attr returns the named attribute, or "" if not set.
func (e Element) Attr(name string) string {
	return e.Attrs[name]
}

// HasAttr reports whether the named attribute is present.
func (e Element) HasAttr(name string) bool {
	_, ok := e.Attrs[name]
	return ok
}

// HeadingLevel returns 1-6 for heading elements and 0 otherwise.
func (e Element) HeadingLevel() int {
	if len(e.Tag) == 2 && e.Tag[0] == 'h' && e.Tag[1] >= '1' && e.Tag[1] <= '6' {
		return int(e.Tag[1] - '0')
	}
	return 0
}

// EscapeCode folds a multi-line code body onto one line. Newlines become the
// two characters `\n`; existing backslashes are doubled so UnescapeCode is exact.
func EscapeCode(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

// UnescapeCode reverses EscapeCode.
func UnescapeCode(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
