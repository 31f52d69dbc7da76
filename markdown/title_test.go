package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"single h1", "intro\n#  My Title  \n\nbody", "My Title"},
		{"h1 preferred over earlier h2", "## Second\n# First", "First"},
		{"h2 when no h1", "text\n## Section\n", "Section"},
		{"first non-empty line", "\n\n  Just words here\nmore", "Just words here"},
		{"hashes without space are stripped", "###Loose", "Loose"},
		{"h3 is not a title heading", "### Deep\nx", "Deep"},
		{"empty", "  \n\n", DefaultTitle},
		{"only hashes", "###\n", DefaultTitle},
		{"crlf", "# Windows\r\nbody", "Windows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.src))
		})
	}
}
