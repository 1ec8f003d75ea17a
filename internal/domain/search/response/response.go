package response

import (
	"fmt"

	"github.com/kailas-cloud/consultdesk/internal/domain/consultation"
)

// Result is a consultation annotated with its similarity to the query.
type Result struct {
	consultation.Consultation
	similarity float64
}

// NewResult creates a search result.
func NewResult(c consultation.Consultation, similarity float64) Result {
	return Result{Consultation: c, similarity: similarity}
}

// Similarity returns the relevance score in [0, 1]; higher is more relevant.
func (r Result) Similarity() float64 { return r.similarity }

// Response is one page of search results. Replaced atomically, never patched.
type Response struct {
	results    []Result
	total      int
	page       int
	limit      int
	totalPages int
	hasNext    bool
	hasPrev    bool
}

// New builds a response deriving the paging fields from total, page and limit.
func New(results []Result, total, page, limit int) (Response, error) {
	if total < 0 {
		return Response{}, fmt.Errorf("total must be >= 0, got %d", total)
	}
	if page < 1 {
		return Response{}, fmt.Errorf("page must be >= 1, got %d", page)
	}
	if limit <= 0 {
		return Response{}, fmt.Errorf("limit must be > 0, got %d", limit)
	}
	pages := TotalPages(total, limit)
	return Response{
		results:    cloneResults(results),
		total:      total,
		page:       page,
		limit:      limit,
		totalPages: pages,
		hasNext:    page < pages,
		hasPrev:    page > 1,
	}, nil
}

// Reconstruct creates a Response from server-provided fields without validation.
func Reconstruct(
	results []Result, total, page, limit, totalPages int, hasNext, hasPrev bool,
) Response {
	return Response{
		results: cloneResults(results), total: total, page: page, limit: limit,
		totalPages: totalPages, hasNext: hasNext, hasPrev: hasPrev,
	}
}

// Empty is the synthetic response returned for blank queries.
func Empty(limit int) Response {
	return Response{results: []Result{}, page: 1, limit: limit}
}

// TotalPages returns ceil(total / limit), or 0 when limit is not positive.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// CheckInvariants verifies the paging fields agree with each other.
func (r Response) CheckInvariants() error {
	if r.total < 0 || r.page < 1 {
		return fmt.Errorf("invalid paging: total=%d page=%d", r.total, r.page)
	}
	if r.limit > 0 && r.totalPages != TotalPages(r.total, r.limit) {
		return fmt.Errorf("total_pages=%d, want ceil(%d/%d)=%d",
			r.totalPages, r.total, r.limit, TotalPages(r.total, r.limit))
	}
	if r.hasPrev != (r.page > 1) {
		return fmt.Errorf("has_prev=%t inconsistent with page=%d", r.hasPrev, r.page)
	}
	if r.hasNext != (r.page < r.totalPages) {
		return fmt.Errorf("has_next=%t inconsistent with page=%d of %d", r.hasNext, r.page, r.totalPages)
	}
	return nil
}

// Results returns a copy of the ordered results (descending similarity).
func (r Response) Results() []Result { return cloneResults(r.results) }

// Total returns the number of matches across all pages.
func (r Response) Total() int { return r.total }

// Page returns the 1-based page number.
func (r Response) Page() int { return r.page }

// Limit returns the page size used for the request.
func (r Response) Limit() int { return r.limit }

// TotalPages returns the number of pages.
func (r Response) TotalPages() int { return r.totalPages }

// HasNext reports whether a following page exists.
func (r Response) HasNext() bool { return r.hasNext }

// HasPrev reports whether a preceding page exists.
func (r Response) HasPrev() bool { return r.hasPrev }

func cloneResults(in []Result) []Result {
	out := make([]Result, len(in))
	copy(out, in)
	return out
}
