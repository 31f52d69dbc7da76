// Package builder maps scanned HTML elements to Notion blocks.
package builder

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/agentplexus/mcp-notion/blocks"
	"github.com/agentplexus/mcp-notion/htmlscan"
)

// Callout styling used for images that cannot be embedded.
const (
	UnavailableIcon  = "🖼️"
	UnavailableColor = "gray_background"
)

// Prober reports whether an image URL can be embedded.
type Prober interface {
	Reachable(ctx context.Context, rawURL string) bool
}

// Stats counts what a Build pass produced.
type Stats struct {
	Images            int
	UnreachableImages int
}

// Builder converts elements to blocks. A nil prober skips image verification.
type Builder struct {
	prober Prober
}

// New creates a Builder.
func New(prober Prober) *Builder {
	return &Builder{prober: prober}
}

// BuildAll converts elements in order, probing images one at a time.
func (b *Builder) BuildAll(ctx context.Context, elements []htmlscan.Element) ([]blocks.Block, Stats) {
	var stats Stats
	out := make([]blocks.Block, 0, len(elements))
	for _, el := range elements {
		if el.Tag == htmlscan.TagImage {
			stats.Images++
		}
		block := b.Build(ctx, el)
		if block == nil {
			continue
		}
		if _, ok := block.(*blocks.Callout); ok && el.Tag == htmlscan.TagImage {
			stats.UnreachableImages++
		}
		out = append(out, block)
	}
	return out, stats
}

// Build converts one element. It returns nil for elements that produce no block.
func (b *Builder) Build(ctx context.Context, el htmlscan.Element) blocks.Block {
	switch el.Tag {
	case htmlscan.TagH1, htmlscan.TagH2, htmlscan.TagH3, htmlscan.TagH4, htmlscan.TagH5, htmlscan.TagH6:
		return &blocks.Heading{Level: min(el.HeadingLevel(), 3), RichText: blocks.ParseInline(el.Content)}

	case htmlscan.TagParagraph:
		if strings.TrimSpace(el.Content) == "" {
			return nil
		}
		return &blocks.Paragraph{RichText: blocks.ParseInline(el.Content)}

	case htmlscan.TagPre:
		code := html.UnescapeString(htmlscan.UnescapeCode(el.Content))
		return &blocks.Code{
			Language: blocks.NormalizeLanguage(el.Attr(htmlscan.AttrLanguage)),
			Text:     strings.TrimSuffix(code, "\n"),
		}

	case htmlscan.TagBlockquote:
		return &blocks.Quote{RichText: blocks.ParseInline(el.Content)}

	case htmlscan.TagListItem:
		runs := blocks.ParseInline(el.Content)
		if el.HasAttr(htmlscan.AttrChecked) {
			return &blocks.ToDo{Checked: el.Attr(htmlscan.AttrChecked) == "true", RichText: runs}
		}
		return &blocks.BulletedListItem{RichText: runs}

	case htmlscan.TagTableRow:
		text := "| " + strings.Join(el.Cells, " | ") + " |"
		return &blocks.Paragraph{RichText: blocks.Styled(text, blocks.StyleCode)}

	case htmlscan.TagRule:
		return &blocks.Divider{}

	case htmlscan.TagImage:
		return b.image(ctx, el)

	default:
		return nil
	}
}

func (b *Builder) image(ctx context.Context, el htmlscan.Element) blocks.Block {
	src := strings.TrimSpace(el.Attr(htmlscan.AttrSrc))
	if src == "" {
		return nil
	}
	alt := el.Attr(htmlscan.AttrAlt)

	embeddable := isExternalURL(src)
	if embeddable && b.prober != nil {
		embeddable = b.prober.Reachable(ctx, src)
	}
	if embeddable {
		return &blocks.Image{URL: src, Caption: alt}
	}

	text := "Image unavailable: " + src
	if alt != "" {
		text += "\n" + alt
	}
	return &blocks.Callout{
		Icon:     UnavailableIcon,
		Color:    UnavailableColor,
		RichText: blocks.Plain(text),
	}
}

func isExternalURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
