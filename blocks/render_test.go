package blocks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBlock(t *testing.T) {
	tests := []struct {
		name     string
		block    Block
		wantType string
		wantJSON string
	}{
		{
			name:     "paragraph",
			block:    &Paragraph{RichText: []RichText{{Text: "hi", Style: StyleBold}}},
			wantType: "paragraph",
			wantJSON: `{"object":"block","type":"paragraph","paragraph":{"rich_text":[{"type":"text","text":{"content":"hi"},"annotations":{"bold":true,"code":false,"color":"default","italic":false,"strikethrough":false,"underline":false}}]}}`,
		},
		{
			name:     "heading level 2",
			block:    &Heading{Level: 2, RichText: Plain("Title")},
			wantType: "heading_2",
		},
		{
			name:     "code",
			block:    &Code{Language: "go", Text: "x := 1"},
			wantType: "code",
			wantJSON: `{"object":"block","type":"code","code":{"language":"go","rich_text":[{"type":"text","text":{"content":"x := 1"},"annotations":{"bold":false,"code":false,"color":"default","italic":false,"strikethrough":false,"underline":false}}]}}`,
		},
		{
			name:     "image with caption",
			block:    &Image{URL: "https://example.com/a.png", Caption: "alt"},
			wantType: "image",
		},
		{
			name:     "divider",
			block:    &Divider{},
			wantType: "divider",
			wantJSON: `{"object":"block","type":"divider","divider":{}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderBlock(tt.block)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, got["type"])
			assert.Contains(t, got, tt.wantType)
			if tt.wantJSON != "" {
				data, err := json.Marshal(got)
				require.NoError(t, err)
				assert.JSONEq(t, tt.wantJSON, string(data))
			}
		})
	}
}

func TestRenderImage(t *testing.T) {
	got, err := RenderBlock(&Image{URL: "https://example.com/a.png", Caption: "alt"})
	require.NoError(t, err)

	body := got["image"].(map[string]interface{})
	assert.Equal(t, "external", body["type"])
	assert.Equal(t, map[string]string{"url": "https://example.com/a.png"}, body["external"])
	require.Len(t, body["caption"], 1)
}

func TestRenderCalloutAndToDo(t *testing.T) {
	got, err := RenderBlock(&Callout{Icon: "🖼️", Color: "gray_background", RichText: Plain("x")})
	require.NoError(t, err)
	body := got["callout"].(map[string]interface{})
	assert.Equal(t, "gray_background", body["color"])
	assert.Equal(t, map[string]string{"type": "emoji", "emoji": "🖼️"}, body["icon"])

	got, err = RenderBlock(&ToDo{Checked: true, RichText: Plain("done")})
	require.NoError(t, err)
	assert.Equal(t, true, got["to_do"].(map[string]interface{})["checked"])
}

func TestRenderLink(t *testing.T) {
	got, err := RenderBlock(&Paragraph{RichText: []RichText{{Text: "docs", Link: "https://example.com"}}})
	require.NoError(t, err)

	runs := got["paragraph"].(map[string]interface{})["rich_text"].([]map[string]interface{})
	text := runs[0]["text"].(map[string]interface{})
	assert.Equal(t, map[string]string{"url": "https://example.com"}, text["link"])
}

func TestRenderErrors(t *testing.T) {
	_, err := RenderBlock(&Heading{Level: 4})
	assert.Error(t, err)

	_, err = Render([]Block{&Divider{}, Heading{Level: 1}})
	assert.Error(t, err, "value blocks are not rendered")
}

func TestRenderList(t *testing.T) {
	got, err := Render([]Block{&Divider{}, &Quote{RichText: Plain("q")}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "quote", got[1]["type"])
}
