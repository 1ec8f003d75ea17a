package consultation

import (
	"fmt"
	"time"
)

// Consultation is a server-owned free-text record (immutable value object).
type Consultation struct {
	id        int64
	text      string
	createdAt time.Time
	updatedAt time.Time
}

// New validates and creates a Consultation.
// ID must be positive, text non-empty, updatedAt not before createdAt.
func New(id int64, text string, createdAt, updatedAt time.Time) (Consultation, error) {
	if id <= 0 {
		return Consultation{}, fmt.Errorf("consultation id must be positive, got %d", id)
	}
	if text == "" {
		return Consultation{}, fmt.Errorf("consultation %d: text is empty", id)
	}
	if updatedAt.Before(createdAt) {
		return Consultation{}, fmt.Errorf(
			"consultation %d: updated_at %s precedes created_at %s",
			id, updatedAt.Format(time.RFC3339Nano), createdAt.Format(time.RFC3339Nano),
		)
	}
	return Consultation{id: id, text: text, createdAt: createdAt, updatedAt: updatedAt}, nil
}

// Reconstruct creates a Consultation without validation (test fixtures, trusted hydration).
func Reconstruct(id int64, text string, createdAt, updatedAt time.Time) Consultation {
	return Consultation{id: id, text: text, createdAt: createdAt, updatedAt: updatedAt}
}

// ID returns the server-assigned identifier.
func (c Consultation) ID() int64 { return c.id }

// Text returns the consultation body.
func (c Consultation) Text() string { return c.text }

// CreatedAt returns the creation time.
func (c Consultation) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns the last modification time.
func (c Consultation) UpdatedAt() time.Time { return c.updatedAt }

// IsZero reports whether c is the zero value.
func (c Consultation) IsZero() bool { return c.id == 0 }
