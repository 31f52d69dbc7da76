package blocks

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// MaxTextLength is the Notion ceiling for a single rich text content string.
const MaxTextLength = 2000

type inlineTag struct {
	open  string
	close string
	style Style
}

// inlineTags are the single-style pairs recognized by ParseInline.
var inlineTags = []inlineTag{
	{"<strong>", "</strong>", StyleBold},
	{"<em>", "</em>", StyleItalic},
	{"<code>", "</code>", StyleCode},
	{"<del>", "</del>", StyleStrikethrough},
	{"<s>", "</s>", StyleStrikethrough},
}

var (
	anchorOpen = regexp.MustCompile(`^<a\s[^>]*>`)
	anchorHref = regexp.MustCompile(`href="([^"]*)"`)
	lineBreak  = regexp.MustCompile(`^<br\s*/?>`)
	comment    = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// ParseInline converts an inline HTML fragment into an ordered list of rich text runs.
//
// Each recognized element produces exactly one run carrying its single style; tags
// nested inside it are stripped. Characters outside recognized elements accumulate
// into unstyled runs. A fragment without any recognized markup is returned as one
// run with its markup left in place. Adjacent runs of the same style are not merged.
// HTML comments, such as the placeholders left for omitted raw HTML, are dropped.
func ParseInline(fragment string) []RichText {
	fragment = comment.ReplaceAllString(fragment, "")
	if fragment == "" {
		return nil
	}
	if !hasInlineMarkup(fragment) {
		return Plain(html.UnescapeString(fragment))
	}

	var runs []RichText
	var pending strings.Builder
	flush := func() {
		if pending.Len() > 0 {
			runs = append(runs, Plain(html.UnescapeString(pending.String()))...)
			pending.Reset()
		}
	}

	for i := 0; i < len(fragment); {
		if fragment[i] != '<' {
			pending.WriteByte(fragment[i])
			i++
			continue
		}
		rest := fragment[i:]
		if br := lineBreak.FindString(rest); br != "" {
			pending.WriteByte('\n')
			i += len(br)
			continue
		}
		open, closeTag, style, link, ok := matchOpen(rest)
		if !ok {
			pending.WriteByte('<')
			i++
			continue
		}
		end := strings.Index(rest[len(open):], closeTag)
		if end < 0 {
			pending.WriteByte('<')
			i++
			continue
		}
		flush()
		inner := StripTags(rest[len(open) : len(open)+end])
		if inner != "" {
			runs = append(runs, split(RichText{Text: inner, Style: style, Link: link})...)
		}
		i += len(open) + end + len(closeTag)
	}
	flush()
	return runs
}

// matchOpen recognizes an opening inline tag at the start of s.
func matchOpen(s string) (open, closeTag string, style Style, link string, ok bool) {
	for _, t := range inlineTags {
		if strings.HasPrefix(s, t.open) {
			return t.open, t.close, t.style, "", true
		}
	}
	if a := anchorOpen.FindString(s); a != "" {
		if m := anchorHref.FindStringSubmatch(a); m != nil && isHTTPURL(html.UnescapeString(m[1])) {
			link = html.UnescapeString(m[1])
		}
		return a, "</a>", 0, link, true
	}
	return "", "", 0, "", false
}

func hasInlineMarkup(s string) bool {
	for _, t := range inlineTags {
		if strings.Contains(s, t.open) {
			return true
		}
	}
	return strings.Contains(s, "<a ") || strings.Contains(s, "<br")
}

// StripTags removes all markup from an HTML fragment and decodes entities.
func StripTags(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// Plain returns text as unstyled runs, split at MaxTextLength.
func Plain(text string) []RichText {
	if text == "" {
		return nil
	}
	return split(RichText{Text: text})
}

// Styled returns text as runs carrying style, split at MaxTextLength.
func Styled(text string, style Style) []RichText {
	if text == "" {
		return nil
	}
	return split(RichText{Text: text, Style: style})
}

// PlainText concatenates the text of runs.
func PlainText(runs []RichText) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func split(r RichText) []RichText {
	if utf8.RuneCountInString(r.Text) <= MaxTextLength {
		return []RichText{r}
	}
	var out []RichText
	text := []rune(r.Text)
	for len(text) > 0 {
		n := min(len(text), MaxTextLength)
		out = append(out, RichText{Text: string(text[:n]), Style: r.Style, Link: r.Link})
		text = text[n:]
	}
	return out
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
