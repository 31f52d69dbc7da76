package blocks

import (
	"fmt"
)

// Render converts blocks to the JSON-serializable child objects of the Notion API.
func Render(blocks []Block) ([]map[string]interface{}, error) {
	out := make([]map[string]interface{}, 0, len(blocks))
	for _, block := range blocks {
		m, err := RenderBlock(block)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// RenderBlock converts a single Block to a Notion block object.
func RenderBlock(block Block) (map[string]interface{}, error) {
	var body map[string]interface{}

	switch b := block.(type) {
	case *Paragraph:
		body = textBody(b.RichText)
	case *Heading:
		if b.Level < 1 || b.Level > 3 {
			return nil, fmt.Errorf("invalid heading level: %d", b.Level)
		}
		body = textBody(b.RichText)
	case *Code:
		body = map[string]interface{}{
			"rich_text": renderRichText(Plain(b.Text)),
			"language":  b.Language,
		}
	case *Quote:
		body = textBody(b.RichText)
	case *BulletedListItem:
		body = textBody(b.RichText)
	case *ToDo:
		body = textBody(b.RichText)
		body["checked"] = b.Checked
	case *Image:
		body = map[string]interface{}{
			"type":     "external",
			"external": map[string]string{"url": b.URL},
		}
		if b.Caption != "" {
			body["caption"] = renderRichText(Plain(b.Caption))
		}
	case *Callout:
		body = textBody(b.RichText)
		body["icon"] = map[string]string{"type": "emoji", "emoji": b.Icon}
		body["color"] = b.Color
	case *Divider:
		body = map[string]interface{}{}
	default:
		return nil, fmt.Errorf("unsupported block type: %T", block)
	}

	return map[string]interface{}{
		"object":          "block",
		"type":            block.BlockType(),
		block.BlockType(): body,
	}, nil
}

func textBody(runs []RichText) map[string]interface{} {
	return map[string]interface{}{"rich_text": renderRichText(runs)}
}

func renderRichText(runs []RichText) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(runs))
	for _, r := range runs {
		text := map[string]interface{}{"content": r.Text}
		if r.Link != "" {
			text["link"] = map[string]string{"url": r.Link}
		}
		out = append(out, map[string]interface{}{
			"type": "text",
			"text": text,
			"annotations": map[string]interface{}{
				"bold":          r.Style.Has(StyleBold),
				"italic":        r.Style.Has(StyleItalic),
				"strikethrough": r.Style.Has(StyleStrikethrough),
				"underline":     false,
				"code":          r.Style.Has(StyleCode),
				"color":         "default",
			},
		})
	}
	return out
}
