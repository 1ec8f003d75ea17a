package search

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/consultdesk/internal/domain"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/query"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/response"
)

// State is a consistent snapshot of the session.
type State struct {
	Response    response.Response
	HasResponse bool
	Searching   bool
	Err         error
}

// Results returns the stored results, or an empty slice before the first search.
func (s State) Results() []response.Result {
	if !s.HasResponse {
		return []response.Result{}
	}
	return s.Response.Results()
}

// Total returns the stored total, or 0 before the first search.
func (s State) Total() int {
	if !s.HasResponse {
		return 0
	}
	return s.Response.Total()
}

// Service holds the most recent search response.
//
// By default the visible response is the last one to complete, regardless of
// issue order. WithOrderedResponses makes the session discard completions older
// than the newest applied one. Completions that arrive after Clear are always
// discarded.
type Service struct {
	api     Transport
	logger  *zap.Logger
	ordered bool

	mu      sync.Mutex
	resp    response.Response
	has     bool
	pending int
	err     error
	gen     uint64 // bumped by Clear
	seq     uint64 // last issued request
	applied uint64 // last applied request
}

// New creates a search session. logger may be nil.
func New(api Transport, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, logger: logger}
}

// WithOrderedResponses enables request fencing.
func (s *Service) WithOrderedResponses(on bool) *Service {
	s.ordered = on
	return s
}

// Search runs q against the remote service and stores the response.
// A blank query returns the synthetic empty response without a remote call and
// leaves the session untouched. The threshold is passed through unmodified.
//
// ErrStaleResponse is returned when the completion was discarded; the session
// state is not modified in that case.
func (s *Service) Search(ctx context.Context, q query.Query) (response.Response, error) {
	if q.IsBlank() {
		return response.Empty(q.PageSize()), nil
	}

	s.mu.Lock()
	gen := s.gen
	s.seq++
	seq := s.seq
	s.pending++
	s.err = nil
	s.mu.Unlock()

	resp, err := s.api.SearchConsultations(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.logger.Debug("search completion discarded after clear", zap.Uint64("seq", seq))
		return response.Response{}, fmt.Errorf("search consultations: %w", domain.ErrStaleResponse)
	}
	s.pending--
	if s.ordered && seq < s.applied {
		s.logger.Debug("out-of-order search completion discarded",
			zap.Uint64("seq", seq), zap.Uint64("applied", s.applied))
		return response.Response{}, fmt.Errorf("search consultations: %w", domain.ErrStaleResponse)
	}
	s.applied = seq

	if err != nil {
		s.err = err
		s.logger.Warn("search failed", zap.Int("page", q.Page()), zap.Error(err))
		return response.Response{}, fmt.Errorf("search consultations: %w", err)
	}

	s.resp = resp
	s.has = true
	s.logger.Debug("search completed",
		zap.Int("page", resp.Page()),
		zap.Int("total", resp.Total()),
		zap.Int("results", len(resp.Results())),
	)
	return resp, nil
}

// Clear discards the stored response, error and pending indicator. In-flight
// requests still complete remotely but their results are dropped.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.resp = response.Response{}
	s.has = false
	s.pending = 0
	s.err = nil
	s.applied = s.seq
}

// Snapshot returns the session state read under one lock.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Response: s.resp, HasResponse: s.has, Searching: s.pending > 0, Err: s.err}
}

// Response returns the stored response; ok is false before the first search.
func (s *Service) Response() (resp response.Response, ok bool) {
	st := s.Snapshot()
	return st.Response, st.HasResponse
}

// Results returns the stored results or an empty slice.
func (s *Service) Results() []response.Result { return s.Snapshot().Results() }

// Total returns the stored total or 0.
func (s *Service) Total() int { return s.Snapshot().Total() }

// Searching reports whether a search is in flight.
func (s *Service) Searching() bool { return s.Snapshot().Searching }

// Err returns the error of the last failed search.
func (s *Service) Err() error { return s.Snapshot().Err }
