// Package pipeline sequences a Markdown to Notion conversion: HTML rendering,
// element scanning, block building, page creation and batched submission.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentplexus/mcp-notion/blocks"
	"github.com/agentplexus/mcp-notion/builder"
	"github.com/agentplexus/mcp-notion/htmlscan"
	"github.com/agentplexus/mcp-notion/markdown"
	"github.com/agentplexus/mcp-notion/metrics"
)

// PageAPI is the subset of the Notion API used by a conversion.
type PageAPI interface {
	Appender
	CreatePage(ctx context.Context, parentID, title string) (string, error)
	ArchivePage(ctx context.Context, pageID string) error
}

// Result reports a conversion. On failure it carries the counts reached so far.
type Result struct {
	Success         bool   `json:"success"`
	PageID          string `json:"pageId"`
	Title           string `json:"title"`
	Timestamp       string `json:"timestamp"`
	BlocksCreated   int    `json:"blocksCreated"`
	ImagesProcessed int    `json:"imagesProcessed"`
	Batches         int    `json:"batches"`
}

// Preview is the outcome of a conversion that stops before any page write.
type Preview struct {
	Title             string
	Blocks            []blocks.Block
	ImagesProcessed   int
	UnreachableImages int
}

// Converter runs conversions against a PageAPI.
type Converter struct {
	api              PageAPI
	md               markdown.Converter
	prober           builder.Prober
	verifyImages     bool
	archiveOnFailure bool
	batchSize        int
	batchDelay       time.Duration
	sleep            func(ctx context.Context, d time.Duration) error
	now              func() time.Time
	logger           *slog.Logger
	recorder         metrics.Recorder
}

// Option configures a Converter.
type Option func(*Converter)

// WithProber enables image verification using p. A nil p disables it.
func WithProber(p builder.Prober) Option {
	return func(c *Converter) {
		c.prober = p
		c.verifyImages = p != nil
	}
}

// WithArchiveOnFailure archives the created page when block submission fails.
func WithArchiveOnFailure(enabled bool) Option {
	return func(c *Converter) {
		c.archiveOnFailure = enabled
	}
}

// WithMarkdown replaces the goldmark converter.
func WithMarkdown(md markdown.Converter) Option {
	return func(c *Converter) {
		c.md = md
	}
}

// WithBatchSize sets the chunk size, capped at MaxBatchSize.
func WithBatchSize(n int) Option {
	return func(c *Converter) {
		if n > 0 && n <= MaxBatchSize {
			c.batchSize = n
		}
	}
}

// WithBatchDelay sets the pause between chunks.
func WithBatchDelay(d time.Duration) Option {
	return func(c *Converter) {
		c.batchDelay = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Converter) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithClock overrides time.Now for the page timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.now = now
	}
}

func withSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Converter) {
		c.sleep = sleep
	}
}

// NewConverter creates a Converter. Image verification is off until WithProber is given.
func NewConverter(api PageAPI, opts ...Option) *Converter {
	c := &Converter{
		api:        api,
		md:         markdown.New(markdown.DefaultOptions()),
		batchSize:  MaxBatchSize,
		batchDelay: BatchDelay,
		sleep:      sleepContext,
		now:        time.Now,
		logger:     slog.Default(),
		recorder:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert creates a sub-page of req.ParentPageID populated from req.Content.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	log := c.logger.With("run_id", uuid.NewString())

	result, err := c.convert(ctx, log, req)

	c.recorder.ObserveConversionDuration(time.Since(start))
	c.recorder.IncConversionOutcome(outcome(err))
	if err != nil {
		log.Error("conversion failed", "page_id", result.PageID, "error", err)
		return result, err
	}
	log.Info("conversion complete",
		"page_id", result.PageID,
		"blocks", result.BlocksCreated,
		"batches", result.Batches,
		"images", result.ImagesProcessed,
	)
	return result, nil
}

func (c *Converter) convert(ctx context.Context, log *slog.Logger, req Request) (*Result, error) {
	result := &Result{}

	if err := req.Validate(); err != nil {
		return result, inputError("convert", err)
	}

	result.Title = strings.TrimSpace(req.Title)
	if result.Title == "" {
		result.Title = markdown.ExtractTitle(req.Content)
	}

	body, stats := c.build(ctx, log, req.Content)
	result.ImagesProcessed = stats.Images
	if err := blocks.Validate(body); err != nil {
		return result, inputError("validate blocks", err)
	}

	now := c.now().UTC()
	result.Timestamp = now.Format(time.RFC3339)

	pageID, err := c.api.CreatePage(ctx, req.ParentPageID, result.Title)
	if err != nil {
		return result, remoteError("create page", err)
	}
	result.PageID = pageID
	log.Info("page created", "page_id", pageID, "title", result.Title)

	all := make([]blocks.Block, 0, len(body)+2)
	all = append(all,
		&blocks.Paragraph{RichText: blocks.Styled("Created from Markdown on "+result.Timestamp, blocks.StyleItalic)},
		&blocks.Divider{},
	)
	all = append(all, body...)

	sub, err := c.batcher().Submit(ctx, pageID, all)
	result.Batches = sub.Batches
	result.BlocksCreated = sub.Accepted
	if err != nil {
		if c.archiveOnFailure {
			if aerr := c.api.ArchivePage(ctx, pageID); aerr != nil {
				log.Warn("archive after failed submission", "page_id", pageID, "error", aerr)
			} else {
				log.Info("archived partially populated page", "page_id", pageID)
			}
		}
		return result, remoteError("submit blocks", err)
	}

	result.Success = true
	return result, nil
}

// Append converts content and appends the blocks to an existing page.
func (c *Converter) Append(ctx context.Context, pageID, content string) (*Result, error) {
	log := c.logger.With("run_id", uuid.NewString(), "page_id", pageID)
	result := &Result{PageID: pageID}

	if err := validateAppend(pageID, content); err != nil {
		return result, inputError("append", err)
	}

	body, stats := c.build(ctx, log, content)
	result.ImagesProcessed = stats.Images
	result.Title = markdown.ExtractTitle(content)
	result.Timestamp = c.now().UTC().Format(time.RFC3339)
	if err := blocks.Validate(body); err != nil {
		return result, inputError("validate blocks", err)
	}

	sub, err := c.batcher().Submit(ctx, pageID, body)
	result.Batches = sub.Batches
	result.BlocksCreated = sub.Accepted
	if err != nil {
		return result, remoteError("submit blocks", err)
	}
	result.Success = true
	log.Info("append complete", "blocks", result.BlocksCreated, "batches", result.Batches)
	return result, nil
}

// Preview converts content without writing to Notion. Image probes still run
// when verification is enabled.
func (c *Converter) Preview(ctx context.Context, content string) (*Preview, error) {
	if err := validateContent(content); err != nil {
		return nil, inputError("preview", err)
	}
	log := c.logger.With("run_id", uuid.NewString())
	body, stats := c.build(ctx, log, content)
	if err := blocks.Validate(body); err != nil {
		return nil, inputError("validate blocks", err)
	}
	return &Preview{
		Title:             markdown.ExtractTitle(content),
		Blocks:            body,
		ImagesProcessed:   stats.Images,
		UnreachableImages: stats.UnreachableImages,
	}, nil
}

func (c *Converter) build(ctx context.Context, log *slog.Logger, content string) ([]blocks.Block, builder.Stats) {
	doc := markdown.ToHTML(c.md, content, log)
	elements := htmlscan.Scan(doc)

	var prober builder.Prober
	if c.verifyImages {
		prober = recordingProber{next: c.prober, recorder: c.recorder}
	}
	body, stats := builder.New(prober).BuildAll(ctx, elements)
	log.Debug("content built", "elements", len(elements), "blocks", len(body), "images", stats.Images)
	return body, stats
}

func (c *Converter) batcher() *Batcher {
	b := NewBatcher(c.api)
	b.size = c.batchSize
	b.delay = c.batchDelay
	b.sleep = c.sleep
	b.logger = c.logger
	b.recorder = c.recorder
	return b
}

type recordingProber struct {
	next     builder.Prober
	recorder metrics.Recorder
}

func (p recordingProber) Reachable(ctx context.Context, rawURL string) bool {
	ok := p.next.Reachable(ctx, rawURL)
	p.recorder.IncImageProbe(ok)
	return ok
}

func outcome(err error) metrics.Outcome {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case KindOf(err) == KindInput:
		return metrics.OutcomeInputError
	default:
		return metrics.OutcomeRemoteError
	}
}
