package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/agentplexus/mcp-notion/blocks"
	"github.com/agentplexus/mcp-notion/config"
	"github.com/agentplexus/mcp-notion/mcpserver"
	"github.com/agentplexus/mcp-notion/metrics"
	"github.com/agentplexus/mcp-notion/notion"
	"github.com/agentplexus/mcp-notion/pipeline"
	"github.com/agentplexus/mcp-notion/probe"
)

// CLI definition & global flags.
type CLI struct {
	config.Config
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the MCP server on stdin/stdout"`
	Convert ConvertCmd `cmd:"" help:"Create a Notion page from a Markdown file"`
	Preview PreviewCmd `cmd:"" help:"Print the Notion blocks a Markdown file would produce"`
}

// AfterApply runs after flag parsing; setup logging once.
// Logs go to stderr, stdout carries the MCP transport.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// ServeCmd runs the stdio MCP server.
type ServeCmd struct {
	MetricsAddr string `name:"metrics-addr" env:"METRICS_ADDR" help:"Serve Prometheus metrics on this address (e.g. :9090)"`
}

func (s *ServeCmd) Run(root *CLI) error {
	if err := root.ValidateAPI(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if s.MetricsAddr != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		srv := &http.Server{Addr: s.MetricsAddr, Handler: metrics.HTTPHandler(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", "addr", s.MetricsAddr, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}()
		slog.Info("Serving metrics", "addr", s.MetricsAddr)
	}

	client := newClient(&root.Config)
	conv := newConverter(&root.Config, client, recorder)
	server := mcpserver.New(conv, client, root.ParentPageID).WithLogger(slog.Default())

	slog.Info("Starting MCP server", "name", mcpserver.ServerName, "version", mcpserver.ServerVersion)
	return server.ServeStdio(ctx, os.Stdin, os.Stdout)
}

// ConvertCmd creates one page from a file.
type ConvertCmd struct {
	File  string `arg:"" help:"Markdown file, or - for stdin"`
	Title string `help:"Page title (defaults to the first heading)"`
}

func (c *ConvertCmd) Run(root *CLI) error {
	if err := root.ValidateAPI(); err != nil {
		return err
	}
	content, err := readInput(c.File)
	if err != nil {
		return err
	}

	client := newClient(&root.Config)
	conv := newConverter(&root.Config, client, metrics.NoopRecorder{})
	result, err := conv.Convert(context.Background(), pipeline.Request{
		Content:      content,
		Title:        c.Title,
		ParentPageID: root.ParentPageID,
	})
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, result)
}

// PreviewCmd prints the blocks a file would produce without calling Notion.
type PreviewCmd struct {
	File string `arg:"" help:"Markdown file, or - for stdin"`
	API  bool   `name:"api" help:"Print the exact Notion request payload"`
}

func (p *PreviewCmd) Run(root *CLI) error {
	content, err := readInput(p.File)
	if err != nil {
		return err
	}

	conv := newConverter(&root.Config, nil, metrics.NoopRecorder{})
	preview, err := conv.Preview(context.Background(), content)
	if err != nil {
		return err
	}

	if p.API {
		rendered, err := blocks.Render(preview.Blocks)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, rendered)
	}

	fmt.Fprintf(os.Stdout, "title: %s\nblocks: %d\nimages: %d (%d unavailable)\n",
		preview.Title, len(preview.Blocks), preview.ImagesProcessed, preview.UnreachableImages)
	for i, b := range preview.Blocks {
		fmt.Fprintf(os.Stdout, "%4d  %s\n", i+1, b.BlockType())
	}
	return nil
}

func newClient(cfg *config.Config) *notion.Client {
	return notion.NewClient(
		notion.BearerAuth{Token: cfg.Token},
		notion.WithBaseURL(cfg.BaseURL),
		notion.WithVersion(cfg.APIVersion),
		notion.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)
}

// newConverter wires a pipeline.Converter from cfg. api may be nil for previews.
func newConverter(cfg *config.Config, api pipeline.PageAPI, recorder metrics.Recorder) *pipeline.Converter {
	opts := []pipeline.Option{
		pipeline.WithLogger(slog.Default()),
		pipeline.WithRecorder(recorder),
		pipeline.WithBatchDelay(cfg.BatchDelay),
		pipeline.WithArchiveOnFailure(cfg.ArchiveOnFailure),
	}
	if cfg.VerifyImages {
		checker := probe.New(
			probe.WithHTTPClient(&http.Client{Timeout: cfg.ProbeTimeout}),
			probe.WithLogger(slog.Default()),
		)
		opts = append(opts, pipeline.WithProber(checker))
	}
	return pipeline.NewConverter(api, opts...)
}

func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
