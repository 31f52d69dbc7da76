// Package markdown converts Markdown source text into HTML using goldmark.
package markdown

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter renders Markdown to HTML.
type Converter interface {
	Convert(src string) (string, error)
}

// Options configures the goldmark engine. It is read only by New.
type Options struct {
	Tables        bool
	Strikethrough bool
	TaskLists     bool
	Linkify       bool
	Emoji         bool
	HardWraps     bool
}

// DefaultOptions enables every extension the block scanner understands.
func DefaultOptions() Options {
	return Options{
		Tables:        true,
		Strikethrough: true,
		TaskLists:     true,
		Linkify:       true,
		Emoji:         true,
		HardWraps:     true,
	}
}

// Goldmark implements Converter with a goldmark engine built once.
// It is safe for concurrent use.
type Goldmark struct {
	md goldmark.Markdown
}

// New builds a Goldmark converter from opts.
func New(opts Options) *Goldmark {
	var exts []goldmark.Extender
	if opts.Tables {
		exts = append(exts, extension.Table)
	}
	if opts.Strikethrough {
		exts = append(exts, extension.Strikethrough)
	}
	if opts.TaskLists {
		exts = append(exts, extension.TaskList)
	}
	if opts.Linkify {
		exts = append(exts, extension.Linkify)
	}
	if opts.Emoji {
		exts = append(exts, emoji.Emoji)
	}

	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}
}

// Convert implements Converter.
func (g *Goldmark) Convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return buf.String(), nil
}

// ToHTML converts src with c, falling back to the regex converter when c fails.
// It always returns HTML.
func ToHTML(c Converter, src string, logger *slog.Logger) string {
	if c != nil {
		out, err := c.Convert(src)
		if err == nil {
			return out
		}
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("Markdown conversion failed, using fallback converter", "error", err)
	}
	return Fallback(src)
}
