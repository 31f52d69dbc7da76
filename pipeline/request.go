package pipeline

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var errRequired = validation.NewError("notion.markdown.required", "is required")

// Request is the input of Convert.
type Request struct {
	Content      string `json:"content"`
	Title        string `json:"title,omitempty"`
	ParentPageID string `json:"parent_page_id"`
}

// Validate reports every missing field, keyed by its JSON name.
func (r Request) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.By(notBlank)),
		validation.Field(&r.ParentPageID, validation.By(notBlank)),
	)
}

func validateAppend(pageID, content string) error {
	return validation.Errors{
		"content": validation.Validate(content, validation.By(notBlank)),
		"page_id": validation.Validate(pageID, validation.By(notBlank)),
	}.Filter()
}

func validateContent(content string) error {
	return validation.Errors{
		"content": validation.Validate(content, validation.By(notBlank)),
	}.Filter()
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errRequired
	}
	return nil
}
