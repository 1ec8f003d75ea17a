package consultdesk

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/consultdesk/internal/domain/search/query"
)

// SearchService runs similarity searches and holds the latest response.
type SearchService struct {
	svc       searchUseCase
	obs       *observer
	pageSize  int
	threshold float64
}

// Search returns the search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc, obs: c.obs, pageSize: c.pageSize, threshold: c.threshold}
}

// Query starts a search for text with the client's default page size and threshold.
func (s *SearchService) Query(text string) *SearchBuilder {
	return &SearchBuilder{
		svc:       s,
		text:      text,
		page:      query.DefaultPage,
		limit:     s.pageSize,
		threshold: s.threshold,
	}
}

// Last returns the most recently applied page, if any.
func (s *SearchService) Last() (SearchPage, bool) {
	st := s.svc.Snapshot()
	if !st.HasResponse {
		return SearchPage{}, false
	}
	return searchPageFromDomain(st.Response), true
}

// Searching reports whether a search is in flight.
func (s *SearchService) Searching() bool { return s.svc.Snapshot().Searching }

// Err returns the error of the last failed search, cleared by the next one.
func (s *SearchService) Err() error { return s.svc.Snapshot().Err }

// Clear drops the held response. Searches still in flight are discarded on arrival.
func (s *SearchService) Clear() {
	s.svc.Clear()
}

// SearchBuilder is a fluent builder for a single search.
type SearchBuilder struct {
	svc       *SearchService
	text      string
	page      int
	limit     int
	threshold float64
}

// Page sets the 1-based page number.
func (b *SearchBuilder) Page(n int) *SearchBuilder {
	b.page = n
	return b
}

// Limit sets the page size.
func (b *SearchBuilder) Limit(n int) *SearchBuilder {
	b.limit = n
	return b
}

// Threshold sets the minimum similarity. Sent as given.
func (b *SearchBuilder) Threshold(t float64) *SearchBuilder {
	b.threshold = t
	return b
}

// Do executes the search. A blank query returns an empty page without a remote call.
func (b *SearchBuilder) Do(ctx context.Context) (_ SearchPage, err error) {
	start := time.Now()
	defer func() { b.svc.obs.observe("search", start, err) }()

	q, err := query.New(b.text, b.page, b.limit, b.threshold)
	if err != nil {
		return SearchPage{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	resp, err := b.svc.svc.Search(ctx, q)
	if err != nil {
		return SearchPage{}, err
	}
	return searchPageFromDomain(resp), nil
}
