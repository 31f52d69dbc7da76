package mcpserver

import (
	"context"
	"fmt"

	"github.com/agentplexus/mcp-notion/blocks"
	"github.com/agentplexus/mcp-notion/pipeline"
)

func (s *Server) handleCreatePage(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	content, _ := input["content"].(string)
	title, _ := input["title"].(string)
	parentID, _ := input["parent_page_id"].(string)
	if parentID == "" {
		parentID = s.defaultParent
	}

	result, err := s.converter.Convert(ctx, pipeline.Request{
		Content:      content,
		Title:        title,
		ParentPageID: parentID,
	})
	if result == nil {
		return nil, err
	}
	return result, err
}

func (s *Server) handleAppend(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	pageID, _ := input["page_id"].(string)
	content, _ := input["content"].(string)

	result, err := s.converter.Append(ctx, pageID, content)
	if result == nil {
		return nil, err
	}
	return result, err
}

func (s *Server) handlePreview(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	content, _ := input["content"].(string)
	format, _ := input["format"].(string)

	preview, err := s.converter.Preview(ctx, content)
	if err != nil {
		return nil, err
	}

	out := map[string]interface{}{
		"title":              preview.Title,
		"block_count":        len(preview.Blocks),
		"images_processed":   preview.ImagesProcessed,
		"unreachable_images": preview.UnreachableImages,
	}

	switch format {
	case "", "summary":
		out["blocks"] = blocksToJSON(preview.Blocks)
	case "api":
		rendered, err := blocks.Render(preview.Blocks)
		if err != nil {
			return nil, err
		}
		out["blocks"] = rendered
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
	return out, nil
}

func (s *Server) handleArchivePage(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	pageID, _ := input["page_id"].(string)

	if err := s.client.ArchivePage(ctx, pageID); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"status":  "archived",
		"page_id": pageID,
	}, nil
}
