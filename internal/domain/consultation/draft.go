package consultation

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/consultdesk/internal/domain"
)

// MinTextLength is the minimum trimmed length of a consultation text, in characters.
const MinTextLength = 10

// Draft is validated input for create and update.
type Draft struct {
	text string
}

// NewDraft trims and validates text. Violations are returned as *domain.ValidationError
// keyed by the "text" field.
func NewDraft(text string) (Draft, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Draft{}, domain.NewFieldError("text", "text is required")
	}
	if utf8.RuneCountInString(trimmed) < MinTextLength {
		return Draft{}, domain.NewFieldError("text", "text must be at least 10 characters")
	}
	return Draft{text: trimmed}, nil
}

// Text returns the trimmed text.
func (d Draft) Text() string { return d.text }
