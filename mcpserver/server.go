// Package mcpserver provides an MCP (Model Context Protocol) server for Notion.
// It exposes tools that turn Markdown into Notion pages, append Markdown to
// existing pages, and preview the blocks a document would produce.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/agentplexus/mcp-notion/notion"
	"github.com/agentplexus/mcp-notion/pipeline"
)

// Server is the MCP server for Notion.
type Server struct {
	converter     *pipeline.Converter
	client        *notion.Client
	defaultParent string
	logger        *slog.Logger

	schemaOnce sync.Once
	schemas    map[string]*jsonschema.Schema
	schemaErr  error
}

// New creates a new MCP server. defaultParent is used when a create call
// names no parent page.
func New(converter *pipeline.Converter, client *notion.Client, defaultParent string) *Server {
	return &Server{
		converter:     converter,
		client:        client,
		defaultParent: defaultParent,
		logger:        slog.Default(),
	}
}

// WithLogger returns s logging to l.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	if l != nil {
		s.logger = l
	}
	return s
}

// Tool represents an MCP tool definition.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolResult represents the result of a tool execution.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock represents a content block in an MCP response.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// HandleTool checks the arguments against the tool's input schema and
// dispatches the call to the appropriate handler.
func (s *Server) HandleTool(ctx context.Context, name string, input map[string]interface{}) (*ToolResult, error) {
	schema, err := s.schema(name)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	if input == nil {
		input = map[string]interface{}{}
	}
	if err := validateArguments(schema, name, input); err != nil {
		s.logger.Warn("tool arguments rejected", "tool", name, "error", err)
		return &ToolResult{
			Content: []ContentBlock{{Type: "text", Text: err.Error()}},
			IsError: true,
		}, nil
	}

	var result interface{}

	switch name {
	case "notion_create_page_from_markdown":
		result, err = s.handleCreatePage(ctx, input)
	case "notion_append_markdown":
		result, err = s.handleAppend(ctx, input)
	case "notion_preview_markdown":
		result, err = s.handlePreview(ctx, input)
	case "notion_archive_page":
		result, err = s.handleArchivePage(ctx, input)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}

	if err != nil {
		s.logger.Warn("tool failed", "tool", name, "error", err)
		content := []ContentBlock{{Type: "text", Text: errorText(err)}}
		// Failed conversions still report the page and counts reached.
		if result != nil {
			if text, jerr := json.MarshalIndent(result, "", "  "); jerr == nil {
				content = append(content, ContentBlock{Type: "text", Text: string(text)})
			}
		}
		return &ToolResult{Content: content, IsError: true}, nil
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}

	return &ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(text)}},
	}, nil
}

func errorText(err error) string {
	var pe *pipeline.Error
	if errors.As(err, &pe) {
		return fmt.Sprintf("%s (status %d)", err, pe.StatusCode())
	}
	return err.Error()
}
