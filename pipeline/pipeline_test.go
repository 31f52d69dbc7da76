package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentplexus/mcp-notion/blocks"
)

type fakeAPI struct {
	pages     []string
	appends   [][]blocks.Block
	archived  []string
	createErr error
	failBatch int // 1-based; 0 never fails
	short     bool
}

func (f *fakeAPI) CreatePage(_ context.Context, parentID, title string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	id := fmt.Sprintf("page-%d", len(f.pages)+1)
	f.pages = append(f.pages, id)
	return id, nil
}

func (f *fakeAPI) AppendChildren(_ context.Context, _ string, children []blocks.Block) (int, error) {
	f.appends = append(f.appends, children)
	if f.failBatch == len(f.appends) {
		return 0, errors.New("notion API error 500: boom")
	}
	if f.short {
		return len(children) - 1, nil
	}
	return len(children), nil
}

func (f *fakeAPI) ArchivePage(_ context.Context, pageID string) error {
	f.archived = append(f.archived, pageID)
	return nil
}

type fakeProber map[string]bool

func (p fakeProber) Reachable(_ context.Context, u string) bool {
	return p[u]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func countingSleep(n *int) Option {
	return withSleep(func(context.Context, time.Duration) error {
		*n++
		return nil
	})
}

func paragraphs(n int) []blocks.Block {
	out := make([]blocks.Block, n)
	for i := range out {
		out[i] = &blocks.Paragraph{RichText: blocks.Plain(fmt.Sprintf("p%d", i))}
	}
	return out
}

func TestChunk(t *testing.T) {
	chunks := Chunk(paragraphs(252), MaxBatchSize)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[1], 100)
	assert.Len(t, chunks[2], 52)

	assert.Empty(t, Chunk(nil, 100))
	assert.Len(t, Chunk(paragraphs(100), 100), 1)
	assert.Len(t, Chunk(paragraphs(5), 0), 1)
}

func TestBatcherSubmit(t *testing.T) {
	api := &fakeAPI{}
	sleeps := 0
	b := NewBatcher(api)
	b.logger = quietLogger()
	b.sleep = func(_ context.Context, d time.Duration) error {
		assert.Equal(t, BatchDelay, d)
		sleeps++
		return nil
	}

	sub, err := b.Submit(context.Background(), "page-1", paragraphs(252))

	require.NoError(t, err)
	assert.Equal(t, Submission{Batches: 3, Accepted: 252}, sub)
	assert.Equal(t, 2, sleeps)
	require.Len(t, api.appends, 3)
	assert.Equal(t, "p100", blocks.PlainText(api.appends[1][0].(*blocks.Paragraph).RichText))
}

func TestBatcherStopsAtFailedChunk(t *testing.T) {
	api := &fakeAPI{failBatch: 2}
	b := NewBatcher(api)
	b.logger = quietLogger()
	b.sleep = func(context.Context, time.Duration) error { return nil }

	sub, err := b.Submit(context.Background(), "page-1", paragraphs(252))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch 2 of 3")
	assert.Equal(t, 1, sub.Batches)
	assert.Equal(t, 100, sub.Accepted)
	assert.Len(t, api.appends, 2)
}

func TestBatcherAcceptedMismatch(t *testing.T) {
	b := NewBatcher(&fakeAPI{short: true})
	b.logger = quietLogger()

	_, err := b.Submit(context.Background(), "page-1", paragraphs(3))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepted 2 of 3")
}

func TestBatcherSleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Second), context.Canceled)
	assert.NoError(t, sleepContext(context.Background(), 0))
}

func TestConvertBatchesLargeDocument(t *testing.T) {
	var md strings.Builder
	for i := 0; i < 250; i++ {
		fmt.Fprintf(&md, "line %d\n\n", i)
	}
	api := &fakeAPI{}
	sleeps := 0
	c := NewConverter(api, WithLogger(quietLogger()), countingSleep(&sleeps))

	res, err := c.Convert(context.Background(), Request{Content: md.String(), ParentPageID: "root"})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "page-1", res.PageID)
	assert.Equal(t, "line 0", res.Title)
	assert.Equal(t, 252, res.BlocksCreated)
	assert.Equal(t, 3, res.Batches)
	assert.Equal(t, 2, sleeps)

	require.Len(t, api.appends, 3)
	assert.Len(t, api.appends[2], 52)
	assert.IsType(t, &blocks.Paragraph{}, api.appends[0][0])
	assert.IsType(t, &blocks.Divider{}, api.appends[0][1])
	assert.Equal(t, "line 0", blocks.PlainText(api.appends[0][2].(*blocks.Paragraph).RichText))
}

func TestConvertTimestampAndTitle(t *testing.T) {
	api := &fakeAPI{}
	fixed := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	c := NewConverter(api, WithLogger(quietLogger()), WithClock(func() time.Time { return fixed }))

	res, err := c.Convert(context.Background(), Request{Content: "intro\n\n# Real Title\n\nbody", ParentPageID: "root"})

	require.NoError(t, err)
	assert.Equal(t, "Real Title", res.Title)
	assert.Equal(t, "2024-03-01T12:30:00Z", res.Timestamp)
	stamp := api.appends[0][0].(*blocks.Paragraph)
	assert.Equal(t, "Created from Markdown on 2024-03-01T12:30:00Z", blocks.PlainText(stamp.RichText))

	res, err = c.Convert(context.Background(), Request{Content: "# Ignored", Title: " Explicit ", ParentPageID: "root"})
	require.NoError(t, err)
	assert.Equal(t, "Explicit", res.Title)
}

func TestConvertCreatesDistinctPages(t *testing.T) {
	api := &fakeAPI{}
	c := NewConverter(api, WithLogger(quietLogger()))
	req := Request{Content: "# Same\n\ntext", ParentPageID: "root"}

	first, err := c.Convert(context.Background(), req)
	require.NoError(t, err)
	second, err := c.Convert(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.PageID, second.PageID)
	assert.Len(t, api.pages, 2)
}

func TestConvertUnreachableImage(t *testing.T) {
	md := "![one](https://img.test/1.png)\n\n![two](https://img.test/2.png)\n\n![three](https://img.test/3.png)\n"
	api := &fakeAPI{}
	prober := fakeProber{"https://img.test/1.png": true, "https://img.test/3.png": true}
	c := NewConverter(api, WithLogger(quietLogger()), WithProber(prober))

	res, err := c.Convert(context.Background(), Request{Content: md, ParentPageID: "root"})

	require.NoError(t, err)
	assert.Equal(t, 3, res.ImagesProcessed)
	body := api.appends[0][2:]
	require.Len(t, body, 3)
	assert.IsType(t, &blocks.Image{}, body[0])
	callout, ok := body[1].(*blocks.Callout)
	require.True(t, ok)
	assert.Contains(t, blocks.PlainText(callout.RichText), "https://img.test/2.png")
	assert.IsType(t, &blocks.Image{}, body[2])
}

func TestConvertInputErrors(t *testing.T) {
	api := &fakeAPI{}
	c := NewConverter(api, WithLogger(quietLogger()))

	for _, req := range []Request{
		{Content: "   ", ParentPageID: "root"},
		{Content: "# x"},
	} {
		_, err := c.Convert(context.Background(), req)
		var pe *Error
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, KindInput, pe.Kind)
		assert.Equal(t, http.StatusBadRequest, pe.StatusCode())
	}
	assert.Empty(t, api.pages)
}

func TestConvertCreatePageFailure(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("unauthorized")}
	c := NewConverter(api, WithLogger(quietLogger()))

	res, err := c.Convert(context.Background(), Request{Content: "# x", ParentPageID: "root"})

	require.Error(t, err)
	assert.Equal(t, KindRemote, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, err.(*Error).StatusCode())
	assert.Contains(t, err.Error(), "create page: unauthorized")
	assert.False(t, res.Success)
	assert.Empty(t, api.appends)
}

func TestConvertSubmitFailureKeepsPageByDefault(t *testing.T) {
	api := &fakeAPI{failBatch: 1}
	c := NewConverter(api, WithLogger(quietLogger()))

	res, err := c.Convert(context.Background(), Request{Content: "# x", ParentPageID: "root"})

	require.Error(t, err)
	assert.Equal(t, KindRemote, KindOf(err))
	assert.Equal(t, "page-1", res.PageID)
	assert.Empty(t, api.archived)
}

func TestConvertArchiveOnFailure(t *testing.T) {
	api := &fakeAPI{failBatch: 1}
	c := NewConverter(api, WithLogger(quietLogger()), WithArchiveOnFailure(true))

	_, err := c.Convert(context.Background(), Request{Content: "# x", ParentPageID: "root"})

	require.Error(t, err)
	assert.Equal(t, []string{"page-1"}, api.archived)
}

func TestAppend(t *testing.T) {
	api := &fakeAPI{}
	c := NewConverter(api, WithLogger(quietLogger()))

	res, err := c.Append(context.Background(), "page-7", "## More\n\n- a\n- b\n")

	require.NoError(t, err)
	assert.Empty(t, api.pages)
	assert.Equal(t, "page-7", res.PageID)
	assert.Equal(t, 3, res.BlocksCreated)
	assert.IsType(t, &blocks.Heading{}, api.appends[0][0])

	_, err = c.Append(context.Background(), "", "x")
	assert.Equal(t, KindInput, KindOf(err))
}

func TestPreview(t *testing.T) {
	api := &fakeAPI{}
	c := NewConverter(api, WithLogger(quietLogger()))

	p, err := c.Preview(context.Background(), "# Doc\n\n```go\nfmt.Println(1)\n```\n\n![x](/local.png)\n")

	require.NoError(t, err)
	assert.Equal(t, "Doc", p.Title)
	assert.Equal(t, 1, p.ImagesProcessed)
	assert.Equal(t, 1, p.UnreachableImages)
	require.Len(t, p.Blocks, 3)
	assert.Equal(t, "go", p.Blocks[1].(*blocks.Code).Language)
	assert.Empty(t, api.pages)
	assert.Empty(t, api.appends)

	_, err = c.Preview(context.Background(), "")
	assert.Equal(t, KindInput, KindOf(err))
}

func TestErrorFormatting(t *testing.T) {
	err := &Error{Kind: KindRemote, Op: "submit blocks", Err: io.ErrUnexpectedEOF}
	assert.Equal(t, "submit blocks: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, KindRemote, KindOf(errors.New("plain")))
}

func TestPreviewDropsOmittedRawHTML(t *testing.T) {
	c := NewConverter(&fakeAPI{}, WithLogger(quietLogger()))

	p, err := c.Preview(context.Background(), "Hello :smile: and <span>raw</span> text\n\n<div>block</div>\n\nafter\n")

	require.NoError(t, err)
	require.Len(t, p.Blocks, 2)
	first := blocks.PlainText(p.Blocks[0].(*blocks.Paragraph).RichText)
	assert.True(t, strings.HasPrefix(first, "Hello "), first)
	assert.True(t, strings.HasSuffix(first, " and raw text"), first)
	assert.NotContains(t, first, "<!--")
	assert.Equal(t, "after", blocks.PlainText(p.Blocks[1].(*blocks.Paragraph).RichText))
}
