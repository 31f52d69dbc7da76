package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "plain text"},
		{"JS", "javascript"},
		{"js", "javascript"},
		{"jsx", "javascript"},
		{"ts", "typescript"},
		{"TSX", "typescript"},
		{"py", "python"},
		{"rb", "ruby"},
		{"sh", "shell"},
		{"zsh", "shell"},
		{"Bash", "shell"},
		{"bash", "bash"},
		{"yml", "yaml"},
		{"md", "markdown"},
		{"Rust", "rust"},
		{"  Go  ", "go"},
		{"language-python", "python"},
		{"language-ts", "typescript"},
		{"c++", "c++"},
		{"plain text", "plain text"},
		{"brainfuck", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeLanguage(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, SupportedLanguages[got], "result %q must be a supported language", got)
		})
	}
}
