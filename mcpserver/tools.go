package mcpserver

// Tools returns the list of available MCP tools.
func (s *Server) Tools() []Tool {
	return []Tool{
		{
			Name:        "notion_create_page_from_markdown",
			Description: "Create a new Notion sub-page from Markdown. Headings, paragraphs, code blocks, quotes, lists, task lists, tables, rules and images are converted to Notion blocks and submitted in batches of 100.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"content": map[string]interface{}{
						"type":        "string",
						"description": "The Markdown document",
					},
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Optional page title. Defaults to the first heading or line of the document",
					},
					"parent_page_id": map[string]interface{}{
						"type":        "string",
						"description": "Optional parent page ID. Defaults to the configured parent page",
					},
				},
				"required": []string{"content"},
			},
		},
		{
			Name:        "notion_append_markdown",
			Description: "Convert Markdown to Notion blocks and append them to the end of an existing page.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"page_id": map[string]interface{}{
						"type":        "string",
						"description": "The Notion page ID",
						"minLength":   1,
					},
					"content": map[string]interface{}{
						"type":        "string",
						"description": "The Markdown to append",
					},
				},
				"required": []string{"page_id", "content"},
			},
		},
		{
			Name:        "notion_preview_markdown",
			Description: "Show the Notion blocks a Markdown document would produce without writing anything to Notion.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"content": map[string]interface{}{
						"type":        "string",
						"description": "The Markdown document",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "summary (default) or api for the exact request payload",
						"enum":        []string{"summary", "api"},
					},
				},
				"required": []string{"content"},
			},
		},
		{
			Name:        "notion_archive_page",
			Description: "Archive (move to trash) a Notion page by ID.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"page_id": map[string]interface{}{
						"type":        "string",
						"description": "The Notion page ID to archive",
						"minLength":   1,
					},
				},
				"required": []string{"page_id"},
			},
		},
	}
}
