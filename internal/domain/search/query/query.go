package query

import (
	"fmt"
	"strings"
)

// Search parameter defaults.
const (
	DefaultPage      = 1
	DefaultPageSize  = 10
	DefaultThreshold = 0.3
)

// Query is a paginated similarity search request.
// Replaced wholesale on every new submission; only the page is derived independently.
type Query struct {
	text      string
	page      int
	pageSize  int
	threshold float64
}

// New validates search parameters. Page must be >= 1 and pageSize > 0.
// The threshold is passed through unmodified; range clamping is the caller's concern.
func New(text string, page, pageSize int, threshold float64) (Query, error) {
	if page < 1 {
		return Query{}, fmt.Errorf("page must be >= 1, got %d", page)
	}
	if pageSize <= 0 {
		return Query{}, fmt.Errorf("page size must be > 0, got %d", pageSize)
	}
	return Query{text: text, page: page, pageSize: pageSize, threshold: threshold}, nil
}

// Default returns a first-page query with the default page size and threshold.
func Default(text string) Query {
	return Query{text: text, page: DefaultPage, pageSize: DefaultPageSize, threshold: DefaultThreshold}
}

// Text returns the query text as entered.
func (q Query) Text() string { return q.text }

// Page returns the 1-based page number.
func (q Query) Page() int { return q.page }

// PageSize returns the number of results per page.
func (q Query) PageSize() int { return q.pageSize }

// Threshold returns the minimum similarity requested from the service.
func (q Query) Threshold() float64 { return q.threshold }

// IsBlank reports whether the text is empty or whitespace-only.
func (q Query) IsBlank() bool { return strings.TrimSpace(q.text) == "" }

// WithPage returns a copy targeting another page. Pages below 1 are raised to 1.
func (q Query) WithPage(page int) Query {
	if page < 1 {
		page = 1
	}
	q.page = page
	return q
}

// WithThreshold returns a copy with another similarity threshold.
func (q Query) WithThreshold(threshold float64) Query {
	q.threshold = threshold
	return q
}

// WithPageSize returns a copy with another page size. Non-positive sizes keep the current one.
func (q Query) WithPageSize(size int) Query {
	if size > 0 {
		q.pageSize = size
	}
	return q
}

// ClampThreshold bounds a user-supplied threshold to [0, 1].
func ClampThreshold(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}
