package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agentplexus/mcp-notion/blocks"
	"github.com/agentplexus/mcp-notion/metrics"
)

// Submission limits of the append-children endpoint.
const (
	MaxBatchSize = 100
	BatchDelay   = 200 * time.Millisecond
)

// Appender appends blocks to a page and reports how many were accepted.
type Appender interface {
	AppendChildren(ctx context.Context, parentID string, children []blocks.Block) (int, error)
}

// Chunk splits bs into contiguous slices of at most size blocks.
func Chunk(bs []blocks.Block, size int) [][]blocks.Block {
	if size <= 0 {
		size = MaxBatchSize
	}
	var chunks [][]blocks.Block
	for start := 0; start < len(bs); start += size {
		end := min(start+size, len(bs))
		chunks = append(chunks, bs[start:end])
	}
	return chunks
}

// Submission summarizes a completed Submit call.
type Submission struct {
	Batches  int
	Accepted int
}

// Batcher submits blocks in order, one chunk at a time.
type Batcher struct {
	appender Appender
	size     int
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewBatcher creates a Batcher with the default size and delay.
func NewBatcher(appender Appender) *Batcher {
	return &Batcher{
		appender: appender,
		size:     MaxBatchSize,
		delay:    BatchDelay,
		sleep:    sleepContext,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
}

// Submit appends bs to pageID in chunks, pausing between chunks.
// The first failing chunk aborts the submission; earlier chunks stay on the page.
func (b *Batcher) Submit(ctx context.Context, pageID string, bs []blocks.Block) (Submission, error) {
	var sub Submission
	chunks := Chunk(bs, b.size)
	for i, chunk := range chunks {
		accepted, err := b.appender.AppendChildren(ctx, pageID, chunk)
		if err == nil && accepted != len(chunk) {
			err = fmt.Errorf("remote accepted %d of %d blocks", accepted, len(chunk))
		}
		b.recorder.IncBatch(err == nil)
		if err != nil {
			b.logger.Error("batch failed", "page_id", pageID, "batch", i+1, "size", len(chunk), "error", err)
			return sub, fmt.Errorf("batch %d of %d: %w", i+1, len(chunks), err)
		}
		sub.Batches++
		sub.Accepted += accepted
		b.recorder.AddBlocksSubmitted(accepted)
		b.logger.Debug("batch submitted", "page_id", pageID, "batch", i+1, "size", len(chunk))

		if i < len(chunks)-1 {
			if err := b.sleep(ctx, b.delay); err != nil {
				return sub, err
			}
		}
	}
	return sub, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
