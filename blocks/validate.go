package blocks

import (
	"fmt"
	"net/url"
	"unicode/utf8"
)

// MaxRichTextRuns is the Notion ceiling for the rich_text array of one block.
const MaxRichTextRuns = 100

// ValidationError represents a block the Notion API would reject.
type ValidationError struct {
	Message string
	Type    string
	Index   int
}

func (e *ValidationError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("validation error: %s (block %d: %s)", e.Message, e.Index, e.Type)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Validate checks every block and returns the first failure.
func Validate(blocks []Block) error {
	for i, b := range blocks {
		if err := ValidateBlock(b); err != nil {
			if ve, ok := err.(*ValidationError); ok {
				ve.Index = i
			}
			return err
		}
	}
	return nil
}

// ValidateBlock checks a single block against the API limits.
func ValidateBlock(block Block) error {
	fail := func(msg string) error {
		return &ValidationError{Message: msg, Type: block.BlockType()}
	}

	switch b := block.(type) {
	case *Paragraph:
		return validateRuns(block, b.RichText)
	case *Heading:
		if b.Level < 1 || b.Level > 3 {
			return fail(fmt.Sprintf("heading level %d out of range", b.Level))
		}
		return validateRuns(block, b.RichText)
	case *Code:
		if !SupportedLanguages[b.Language] {
			return fail(fmt.Sprintf("unsupported language %q", b.Language))
		}
		if n := (utf8.RuneCountInString(b.Text) + MaxTextLength - 1) / MaxTextLength; n > MaxRichTextRuns {
			return fail("code block too long")
		}
		return nil
	case *Quote:
		return validateRuns(block, b.RichText)
	case *BulletedListItem:
		return validateRuns(block, b.RichText)
	case *ToDo:
		return validateRuns(block, b.RichText)
	case *Callout:
		if b.Icon == "" {
			return fail("callout requires an icon")
		}
		return validateRuns(block, b.RichText)
	case *Image:
		u, err := url.Parse(b.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fail(fmt.Sprintf("image URL %q is not an absolute http(s) URL", b.URL))
		}
		return nil
	case *Divider:
		return nil
	default:
		return &ValidationError{Message: fmt.Sprintf("unsupported block type %T", block)}
	}
}

func validateRuns(block Block, runs []RichText) error {
	if len(runs) > MaxRichTextRuns {
		return &ValidationError{Message: fmt.Sprintf("%d rich text runs exceed limit", len(runs)), Type: block.BlockType()}
	}
	for _, r := range runs {
		if utf8.RuneCountInString(r.Text) > MaxTextLength {
			return &ValidationError{Message: "rich text content too long", Type: block.BlockType()}
		}
		if r.Link != "" && !isHTTPURL(r.Link) {
			return &ValidationError{Message: fmt.Sprintf("invalid link %q", r.Link), Type: block.BlockType()}
		}
	}
	return nil
}
