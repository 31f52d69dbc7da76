package htmlscan

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/agentplexus/mcp-notion/blocks"
)

var (
	imageTag    = regexp.MustCompile(`<img\s[^>]*>`)
	headingLine = regexp.MustCompile(`^<h([1-6])(?:\s[^>]*)?>(.*)</h[1-6]>$`)
	codeLine    = regexp.MustCompile(`^<pre><code(?:\s+class="([^"]*)")?>(.*)</code></pre>$`)
	quoteLine   = regexp.MustCompile(`^<blockquote>(.*)</blockquote>$`)
	listLine    = regexp.MustCompile(`^<li>(.*?)(?:</li>)?$`)
	rowLine     = regexp.MustCompile(`^<tr>(.*)</tr>$`)
	tableLine   = regexp.MustCompile(`^</?(?:table|thead|tbody)>$`)
	ruleLine    = regexp.MustCompile(`^<hr\s*/?>$`)
	paraLine    = regexp.MustCompile(`^<p>(.*)</p>$`)

	tableCell = regexp.MustCompile(`<t([hd])(?:\s[^>]*)?>(.*?)</t[hd]>`)
	taskBox   = regexp.MustCompile(`^<input\s[^>]*type="checkbox"[^>]*>\s*`)
	edgeBreak = regexp.MustCompile(`^(?:\s*<br\s*/?>)+|(?:<br\s*/?>\s*)+$`)

	// nestedBlock matches a code block or a list folded into a quote or list item.
	nestedBlock = regexp.MustCompile(`<pre><code(?:\s+class="([^"]*)")?>(.*?)</code></pre>|<[ou]l(?:\s[^>]*)?>(.*?)</[ou]l>`)
	listTag     = regexp.MustCompile(`</?(?:ul|ol|li)(?:\s[^>]*)?>`)
)

// joined lists the wrapper spans folded onto one line before classification,
// innermost first.
var joined = [][2]string{
	{"<p>", "</p>"},
	{"<li>", "</li>"},
	{"<blockquote>", "</blockquote>"},
	{"<tr>", "</tr>"},
}

// Scan converts an HTML document into an ordered list of elements.
// Lines that match no rule are dropped.
func Scan(doc string) []Element {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	doc = foldCode(doc)
	for _, pair := range joined {
		doc = joinSpans(doc, pair[0], pair[1])
	}

	var elements []Element
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		elements = append(elements, classify(line)...)
	}
	return elements
}

// classify applies the line rules in priority order; the first match wins.
func classify(line string) []Element {
	if imageTag.MatchString(line) {
		return splitImages(line)
	}

	if m := headingLine.FindStringSubmatch(line); m != nil {
		return []Element{{Tag: Tag("h" + m[1]), Content: m[2]}}
	}

	if m := codeLine.FindStringSubmatch(line); m != nil {
		return []Element{codeElement(m[1], m[2])}
	}

	if m := quoteLine.FindStringSubmatch(line); m != nil {
		text, nested := splitNested(m[1])
		return withNested(Element{Tag: TagBlockquote, Content: unwrapParagraphs(text)}, nested)
	}

	if m := listLine.FindStringSubmatch(line); m != nil {
		text, nested := splitNested(m[1])
		return withNested(listItem(text), nested)
	}

	if m := rowLine.FindStringSubmatch(line); m != nil {
		el := Element{Tag: TagTableRow}
		for _, cell := range tableCell.FindAllStringSubmatch(m[1], -1) {
			if cell[1] == "h" && el.Attrs == nil {
				el.Attrs = map[string]string{AttrHeader: "true"}
			}
			el.Cells = append(el.Cells, strings.TrimSpace(blocks.StripTags(cell[2])))
		}
		return []Element{el}
	}

	if tableLine.MatchString(line) {
		return nil
	}

	if ruleLine.MatchString(line) {
		return []Element{{Tag: TagRule}}
	}

	if m := paraLine.FindStringSubmatch(line); m != nil {
		content := strings.TrimSpace(m[1])
		if content == "" {
			return nil
		}
		return []Element{{Tag: TagParagraph, Content: content}}
	}

	if !strings.HasPrefix(line, "<") && !strings.HasSuffix(line, ">") {
		return []Element{{Tag: TagParagraph, Content: line}}
	}
	return nil
}

// splitImages emits one image element per <img> tag. Text around the images
// of a paragraph becomes paragraphs of its own, in document order.
func splitImages(line string) []Element {
	inner, para := line, false
	if m := paraLine.FindStringSubmatch(line); m != nil {
		inner, para = m[1], true
	}

	var out []Element
	last := 0
	for _, loc := range imageTag.FindAllStringIndex(inner, -1) {
		if para {
			out = appendText(out, inner[last:loc[0]])
		}
		out = append(out, Element{Tag: TagImage, Attrs: parseAttrs(inner[loc[0]:loc[1]])})
		last = loc[1]
	}
	if para {
		out = appendText(out, inner[last:])
	}
	return out
}

func appendText(out []Element, fragment string) []Element {
	fragment = strings.TrimSpace(edgeBreak.ReplaceAllString(fragment, ""))
	if strings.TrimSpace(blocks.StripTags(fragment)) == "" {
		return out
	}
	return append(out, Element{Tag: TagParagraph, Content: fragment})
}

func codeElement(class, body string) Element {
	return Element{
		Tag:     TagPre,
		Content: body,
		Attrs:   map[string]string{AttrLanguage: blocks.NormalizeLanguage(class)},
	}
}

func listItem(content string) Element {
	content = unwrapParagraphs(content)
	el := Element{Tag: TagListItem}
	if box := taskBox.FindString(content); box != "" {
		el.Attrs = map[string]string{AttrChecked: "false"}
		if strings.Contains(box, "checked") {
			el.Attrs[AttrChecked] = "true"
		}
		content = content[len(box):]
	}
	el.Content = content
	return el
}

// splitNested pulls code blocks and lists out of a quote or list item body.
// It returns the remaining text and the pulled elements in document order;
// every list item of a pulled list becomes a list item element.
func splitNested(content string) (string, []Element) {
	locs := nestedBlock.FindAllStringSubmatchIndex(content, -1)
	if locs == nil {
		return content, nil
	}

	var (
		rest   strings.Builder
		nested []Element
		last   int
	)
	for _, loc := range locs {
		rest.WriteString(content[last:loc[0]])
		last = loc[1]
		if loc[4] >= 0 {
			class := ""
			if loc[2] >= 0 {
				class = content[loc[2]:loc[3]]
			}
			nested = append(nested, codeElement(class, content[loc[4]:loc[5]]))
			continue
		}
		for _, item := range strings.Split(content[loc[6]:loc[7]], "<li>") {
			item = strings.TrimSpace(listTag.ReplaceAllString(item, ""))
			if item == "" {
				continue
			}
			text, deeper := splitNested(item)
			nested = append(nested, withNested(listItem(text), deeper)...)
		}
	}
	rest.WriteString(content[last:])
	return strings.TrimSpace(listTag.ReplaceAllString(rest.String(), "")), nested
}

// withNested returns el followed by nested. el is left out when its text is
// empty and nested is not.
func withNested(el Element, nested []Element) []Element {
	if len(nested) == 0 {
		return []Element{el}
	}
	if strings.TrimSpace(blocks.StripTags(el.Content)) == "" {
		return nested
	}
	return append([]Element{el}, nested...)
}

// foldCode escapes newlines inside every <pre>...</pre> span.
func foldCode(doc string) string {
	var b strings.Builder
	for {
		start := strings.Index(doc, "<pre")
		if start < 0 {
			break
		}
		end := strings.Index(doc[start:], "</pre>")
		if end < 0 {
			break
		}
		end += start + len("</pre>")
		b.WriteString(doc[:start])
		b.WriteString(EscapeCode(doc[start:end]))
		doc = doc[end:]
	}
	b.WriteString(doc)
	return b.String()
}

// joinSpans folds each open...close span onto one line. A span that contains
// another opening tag is nested; only the inner span is folded.
func joinSpans(doc, open, closeTag string) string {
	var b strings.Builder
	for {
		start := strings.Index(doc, open)
		if start < 0 {
			break
		}
		end := strings.Index(doc[start:], closeTag)
		if end < 0 {
			break
		}
		end += start
		if inner := strings.Index(doc[start+len(open):end], open); inner >= 0 {
			cut := start + len(open) + inner
			b.WriteString(doc[:cut])
			doc = doc[cut:]
			continue
		}
		end += len(closeTag)
		b.WriteString(doc[:start])
		b.WriteString(joinLines(doc[start:end]))
		doc = doc[end:]
	}
	b.WriteString(doc)
	return b.String()
}

// joinLines drops newlines that touch a tag and turns the rest into spaces.
func joinLines(span string) string {
	if !strings.Contains(span, "\n") {
		return span
	}
	var b strings.Builder
	for i := 0; i < len(span); i++ {
		c := span[i]
		if c != '\n' {
			b.WriteByte(c)
			continue
		}
		prevTag := i > 0 && span[i-1] == '>'
		nextTag := i+1 < len(span) && span[i+1] == '<'
		if !prevTag && !nextTag {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// unwrapParagraphs turns <p> wrappers inside a quote or list item into line breaks.
func unwrapParagraphs(s string) string {
	if !strings.Contains(s, "<p>") {
		return s
	}
	s = strings.ReplaceAll(s, "</p><p>", "<br>")
	s = strings.ReplaceAll(s, "<p>", "")
	s = strings.ReplaceAll(s, "</p>", "")
	return strings.TrimSpace(s)
}

// parseAttrs extracts the attributes of a single start tag.
func parseAttrs(tag string) map[string]string {
	attrs := map[string]string{}
	z := html.NewTokenizer(strings.NewReader(tag))
	if tt := z.Next(); tt != html.StartTagToken && tt != html.SelfClosingTagToken {
		return attrs
	}
	_, more := z.TagName()
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return attrs
}
