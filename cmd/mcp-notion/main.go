// Command mcp-notion runs a Notion MCP server that turns Markdown documents
// into Notion pages. It can also convert or preview a single file directly.
//
// Configuration comes from flags, environment variables, or .env / .env.local:
//   - NOTION_TOKEN: the integration secret
//   - NOTION_PARENT_PAGE_ID: default parent page for new pages
//   - VERIFY_IMAGES, PROBE_TIMEOUT, ARCHIVE_ON_FAILURE, BATCH_DELAY: tuning
//
// Example usage:
//
//	export NOTION_TOKEN=secret_xxx
//	export NOTION_PARENT_PAGE_ID=0123abcd...
//	mcp-notion serve
//	mcp-notion convert README.md --title "Project README"
//	mcp-notion preview README.md
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/agentplexus/mcp-notion/config"
	"github.com/agentplexus/mcp-notion/mcpserver"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("Failed to load .env", "error", err)
		os.Exit(1)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("mcp-notion"),
		kong.Description("Markdown to Notion pages over MCP"),
		kong.UsageOnError(),
		kong.Vars{"version": mcpserver.ServerVersion},
	)
	if err := ctx.Run(&cli); err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
