// Package blocks provides the typed block model accepted by the Notion page API.
// It includes the rich text run model, the inline HTML tokenizer that produces it,
// code language normalization, rendering to the API's JSON shape, and validation.
package blocks

// Block represents one visual unit on a Notion page.
// The set of implementations is closed; see the variants below.
type Block interface {
	// BlockType returns the Notion type identifier (e.g. "paragraph", "heading_2").
	BlockType() string
	isBlock()
}

// Style is a set of inline annotations applied to a rich text run.
type Style uint8

const (
	StyleBold Style = 1 << iota
	StyleItalic
	StyleCode
	StyleStrikethrough
)

// Has reports whether s contains every flag in f.
func (s Style) Has(f Style) bool { return s&f == f && f != 0 }

// RichText is a span of text carrying a style and an optional link.
type RichText struct {
	Text  string `json:"text"`
	Style Style  `json:"style,omitempty"`
	Link  string `json:"link,omitempty"`
}

// Paragraph represents a plain text paragraph.
type Paragraph struct {
	RichText []RichText `json:"rich_text"`
}

// BlockType implements Block.
func (Paragraph) BlockType() string { return "paragraph" }
func (Paragraph) isBlock()          {}

// Heading represents a heading. Notion supports levels 1-3 only.
type Heading struct {
	Level    int        `json:"level"`
	RichText []RichText `json:"rich_text"`
}

// BlockType implements Block.
func (h Heading) BlockType() string {
	switch h.Level {
	case 1:
		return "heading_1"
	case 2:
		return "heading_2"
	default:
		return "heading_3"
	}
}
func (Heading) isBlock() {}

// Code represents a code block with a canonical language identifier.
type Code struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

// BlockType implements Block.
func (Code) BlockType() string { return "code" }
func (Code) isBlock()          {}

// Quote represents a block quote.
type Quote struct {
	RichText []RichText `json:"rich_text"`
}

// BlockType implements Block.
func (Quote) BlockType() string { return "quote" }
func (Quote) isBlock()          {}

// BulletedListItem represents a list item. Ordered lists are not distinguished.
type BulletedListItem struct {
	RichText []RichText `json:"rich_text"`
}

// BlockType implements Block.
func (BulletedListItem) BlockType() string { return "bulleted_list_item" }
func (BulletedListItem) isBlock()          {}

// ToDo represents a task list item.
type ToDo struct {
	Checked  bool       `json:"checked"`
	RichText []RichText `json:"rich_text"`
}

// BlockType implements Block.
func (ToDo) BlockType() string { return "to_do" }
func (ToDo) isBlock()          {}

// Image represents an externally hosted image.
type Image struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// BlockType implements Block.
func (Image) BlockType() string { return "image" }
func (Image) isBlock()          {}

// Callout represents a highlighted box with an emoji icon.
type Callout struct {
	Icon     string     `json:"icon"`
	Color    string     `json:"color"`
	RichText []RichText `json:"rich_text"`
}

// BlockType implements Block.
func (Callout) BlockType() string { return "callout" }
func (Callout) isBlock()          {}

// Divider represents a horizontal rule.
type Divider struct{}

// BlockType implements Block.
func (Divider) BlockType() string { return "divider" }
func (Divider) isBlock()          {}
