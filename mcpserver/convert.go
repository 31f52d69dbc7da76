package mcpserver

import (
	"github.com/agentplexus/mcp-notion/blocks"
)

// blocksToJSON converts a slice of blocks.Block to a compact JSON-serializable summary.
func blocksToJSON(bs []blocks.Block) []interface{} {
	result := make([]interface{}, 0, len(bs))
	for _, block := range bs {
		result = append(result, blockToJSON(block))
	}
	return result
}

// blockToJSON converts a single blocks.Block to a compact JSON-serializable summary.
func blockToJSON(block blocks.Block) map[string]interface{} {
	switch b := block.(type) {
	case *blocks.Paragraph:
		return map[string]interface{}{
			"type": b.BlockType(),
			"text": blocks.PlainText(b.RichText),
			"runs": runsToJSON(b.RichText),
		}
	case *blocks.Heading:
		return map[string]interface{}{
			"type":  b.BlockType(),
			"level": b.Level,
			"text":  blocks.PlainText(b.RichText),
		}
	case *blocks.Code:
		return map[string]interface{}{
			"type":     b.BlockType(),
			"language": b.Language,
			"code":     b.Text,
		}
	case *blocks.Quote:
		return map[string]interface{}{
			"type": b.BlockType(),
			"text": blocks.PlainText(b.RichText),
		}
	case *blocks.BulletedListItem:
		return map[string]interface{}{
			"type": b.BlockType(),
			"text": blocks.PlainText(b.RichText),
		}
	case *blocks.ToDo:
		return map[string]interface{}{
			"type":    b.BlockType(),
			"checked": b.Checked,
			"text":    blocks.PlainText(b.RichText),
		}
	case *blocks.Image:
		return map[string]interface{}{
			"type":    b.BlockType(),
			"url":     b.URL,
			"caption": b.Caption,
		}
	case *blocks.Callout:
		return map[string]interface{}{
			"type": b.BlockType(),
			"icon": b.Icon,
			"text": blocks.PlainText(b.RichText),
		}
	case *blocks.Divider:
		return map[string]interface{}{
			"type": b.BlockType(),
		}
	default:
		return map[string]interface{}{
			"type": "unknown",
		}
	}
}

// runsToJSON lists styled or linked runs; plain-only content yields nil.
func runsToJSON(runs []blocks.RichText) []interface{} {
	styled := false
	for _, r := range runs {
		if r.Style != 0 || r.Link != "" {
			styled = true
			break
		}
	}
	if !styled {
		return nil
	}

	out := make([]interface{}, 0, len(runs))
	for _, r := range runs {
		run := map[string]interface{}{"text": r.Text}
		if r.Style.Has(blocks.StyleBold) {
			run["bold"] = true
		}
		if r.Style.Has(blocks.StyleItalic) {
			run["italic"] = true
		}
		if r.Style.Has(blocks.StyleCode) {
			run["code"] = true
		}
		if r.Style.Has(blocks.StyleStrikethrough) {
			run["strikethrough"] = true
		}
		if r.Link != "" {
			run["link"] = r.Link
		}
		out = append(out, run)
	}
	return out
}
