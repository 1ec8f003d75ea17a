package records

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/consultdesk/internal/domain/consultation"
)

// Strategy selects how a successful mutation is reconciled into the cached list.
type Strategy string

// Reconciliation strategies.
const (
	// Prepend applies the server's response to the local list (no refetch).
	Prepend Strategy = "prepend"
	// Refetch invalidates and reloads the full list after every mutation.
	Refetch Strategy = "refetch"
)

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool { return s == Prepend || s == Refetch }

// DefaultListLimit matches the service's default listing cap.
const DefaultListLimit = 100

type op int

const (
	opList op = iota
	opCreate
	opUpdate
	opDelete
	opCount
)

var opNames = [opCount]string{"list", "create", "update", "delete"}

// State is a consistent snapshot of the store.
type State struct {
	Items    []consultation.Consultation
	Loaded   bool
	Loading  bool
	Creating bool
	Updating bool
	Deleting bool
	Err      error
}

// Busy reports whether any operation is in flight.
func (s State) Busy() bool { return s.Loading || s.Creating || s.Updating || s.Deleting }

// Service is the local mirror of the server-owned consultation list.
// Each instance owns its own cache; there is no shared registry.
type Service struct {
	api       Transport
	logger    *zap.Logger
	listLimit int
	strategy  Strategy
	fetches   singleflight.Group

	mu     sync.RWMutex
	items  []consultation.Consultation
	loaded bool
	errs   [opCount]error
	busy   [opCount]int

	// mutations counts reconciled mutations. journal holds the merges made
	// while a list fetch was in flight; it is emptied once no fetch is pending.
	mutations uint64
	journal   []mutation
	// fetchSeq numbers list fetches; applied is the newest one whose result is cached.
	fetchSeq uint64
	applied  uint64
}

type mergeFunc func([]consultation.Consultation) []consultation.Consultation

type mutation struct {
	gen   uint64
	merge mergeFunc
}

// New creates a record store. logger may be nil.
func New(api Transport, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:       api,
		logger:    logger,
		listLimit: DefaultListLimit,
		strategy:  Prepend,
	}
}

// WithListLimit sets how many records a (re)fetch requests.
func (s *Service) WithListLimit(limit int) *Service {
	if limit > 0 {
		s.listLimit = limit
	}
	return s
}

// WithStrategy sets the mutation reconciliation strategy.
func (s *Service) WithStrategy(strategy Strategy) *Service {
	if strategy.IsValid() {
		s.strategy = strategy
	}
	return s
}

// Load fetches the list unless it has already been loaded.
func (s *Service) Load(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Invalidate(ctx)
}

// Invalidate discards the cached list and refetches it. Concurrent calls share one request.
func (s *Service) Invalidate(ctx context.Context) error {
	_, err, _ := s.fetches.Do("list", func() (any, error) {
		return nil, s.refetch(ctx)
	})
	return err
}

// refetch replaces the cached list with a fresh listing. A response older than
// the cached one is dropped, and mutations reconciled while the request was in
// flight are replayed on top of it.
func (s *Service) refetch(ctx context.Context) error {
	s.mu.Lock()
	s.busy[opList]++
	s.errs[opList] = nil
	s.fetchSeq++
	seq, since := s.fetchSeq, s.mutations
	s.mu.Unlock()

	items, err := s.api.ListConsultations(ctx, 0, s.listLimit)

	s.mu.Lock()
	s.busy[opList]--
	stale := seq < s.applied
	switch {
	case stale:
		// a newer listing is already cached
	case err != nil:
		s.errs[opList] = err
	default:
		for _, m := range s.journal {
			if m.gen > since {
				items = m.merge(items)
			}
		}
		s.items = items
		s.loaded = true
		s.applied = seq
	}
	if s.busy[opList] == 0 {
		s.journal = nil
	}
	s.mu.Unlock()

	switch {
	case err != nil:
		s.logger.Warn("consultation operation failed", zap.String("op", opNames[opList]), zap.Error(err))
		return fmt.Errorf("list consultations: %w", err)
	case stale:
		s.logger.Debug("stale consultation listing dropped", zap.Uint64("seq", seq))
	default:
		s.logger.Debug("consultations loaded", zap.Int("count", len(items)))
	}
	return nil
}

// List returns the cached records in server order.
func (s *Service) List() []consultation.Consultation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.items)
}

// Get returns a record from the cache, falling back to the remote service.
// Remote hits are not added to the cache.
func (s *Service) Get(ctx context.Context, id int64) (consultation.Consultation, error) {
	s.mu.RLock()
	for _, c := range s.items {
		if c.ID() == id {
			s.mu.RUnlock()
			return c, nil
		}
	}
	s.mu.RUnlock()

	c, err := s.api.GetConsultation(ctx, id)
	if err != nil {
		return consultation.Consultation{}, fmt.Errorf("get consultation: %w", err)
	}
	return c, nil
}

// Create validates text, creates the record remotely and makes it visible in List
// exactly once. Invalid text never reaches the transport.
func (s *Service) Create(ctx context.Context, text string) (consultation.Consultation, error) {
	draft, err := consultation.NewDraft(text)
	if err != nil {
		return consultation.Consultation{}, fmt.Errorf("create consultation: %w", err)
	}

	s.begin(opCreate)
	created, err := s.api.CreateConsultation(ctx, draft.Text())
	if err != nil {
		s.fail(opCreate, err)
		return consultation.Consultation{}, fmt.Errorf("create consultation: %w", err)
	}
	s.done(opCreate)

	s.reconcile(ctx, func(items []consultation.Consultation) []consultation.Consultation {
		return prepend(items, created)
	})
	s.logger.Debug("consultation created", zap.Int64("id", created.ID()))
	return created, nil
}

// Update validates text and replaces the record's text remotely.
func (s *Service) Update(ctx context.Context, id int64, text string) (consultation.Consultation, error) {
	draft, err := consultation.NewDraft(text)
	if err != nil {
		return consultation.Consultation{}, fmt.Errorf("update consultation: %w", err)
	}

	s.begin(opUpdate)
	updated, err := s.api.UpdateConsultation(ctx, id, draft.Text())
	if err != nil {
		s.fail(opUpdate, err)
		return consultation.Consultation{}, fmt.Errorf("update consultation: %w", err)
	}
	s.done(opUpdate)

	s.reconcile(ctx, func(items []consultation.Consultation) []consultation.Consultation {
		return replace(items, updated)
	})
	s.logger.Debug("consultation updated", zap.Int64("id", id))
	return updated, nil
}

// Delete removes the record remotely. Deleting an unknown id surfaces the
// transport's not-found error and leaves the list untouched.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.begin(opDelete)
	if err := s.api.DeleteConsultation(ctx, id); err != nil {
		s.fail(opDelete, err)
		return fmt.Errorf("delete consultation: %w", err)
	}
	s.done(opDelete)

	s.reconcile(ctx, func(items []consultation.Consultation) []consultation.Consultation {
		return remove(items, id)
	})
	s.logger.Debug("consultation deleted", zap.Int64("id", id))
	return nil
}

// reconcile merges a successful mutation. With the prepend strategy the merge
// is applied locally. With the refetch strategy a new listing is requested,
// never joined with one already in flight; if it fails the local merge is
// applied so the caller still sees the mutation.
func (s *Service) reconcile(ctx context.Context, merge mergeFunc) {
	s.mu.Lock()
	s.mutations++
	if s.busy[opList] > 0 {
		s.journal = append(s.journal, mutation{gen: s.mutations, merge: merge})
	}
	if s.strategy != Refetch {
		s.items = merge(s.items)
	}
	s.mu.Unlock()

	if s.strategy != Refetch {
		return
	}
	if err := s.refetch(ctx); err != nil {
		s.mu.Lock()
		s.items = merge(s.items)
		s.mu.Unlock()
	}
}

// Snapshot returns the list, busy flags and aggregate error read under one lock.
func (s *Service) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Items:    clone(s.items),
		Loaded:   s.loaded,
		Loading:  s.busy[opList] > 0,
		Creating: s.busy[opCreate] > 0,
		Updating: s.busy[opUpdate] > 0,
		Deleting: s.busy[opDelete] > 0,
		Err:      s.errLocked(),
	}
}

// Loading reports whether any operation is in flight.
func (s *Service) Loading() bool { return s.Snapshot().Busy() }

// IsLoading reports whether a (re)fetch is in flight.
func (s *Service) IsLoading() bool { return s.busyFor(opList) }

// IsCreating reports whether a create is in flight.
func (s *Service) IsCreating() bool { return s.busyFor(opCreate) }

// IsUpdating reports whether an update is in flight.
func (s *Service) IsUpdating() bool { return s.busyFor(opUpdate) }

// IsDeleting reports whether a delete is in flight.
func (s *Service) IsDeleting() bool { return s.busyFor(opDelete) }

// ErrNotLoaded is returned by Ready before the first successful fetch.
var ErrNotLoaded = errors.New("consultation list not loaded")

// Ready reports whether the cached list is usable: loaded, with no pending list error.
func (s *Service) Ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.errs[opList]; err != nil {
		return err
	}
	if !s.loaded {
		return ErrNotLoaded
	}
	return nil
}

// Err returns the first non-nil error among list, create, update and delete.
func (s *Service) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errLocked()
}

func (s *Service) errLocked() error {
	for _, err := range s.errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) busyFor(o op) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy[o] > 0
}

// begin marks o in flight and clears its previous error.
func (s *Service) begin(o op) {
	s.mu.Lock()
	s.busy[o]++
	s.errs[o] = nil
	s.mu.Unlock()
}

func (s *Service) done(o op) {
	s.mu.Lock()
	s.busy[o]--
	s.mu.Unlock()
}

func (s *Service) fail(o op, err error) {
	s.mu.Lock()
	s.busy[o]--
	s.errs[o] = err
	s.mu.Unlock()
	s.logger.Warn("consultation operation failed", zap.String("op", opNames[o]), zap.Error(err))
}

func clone(in []consultation.Consultation) []consultation.Consultation {
	out := make([]consultation.Consultation, len(in))
	copy(out, in)
	return out
}

// prepend puts c first and drops any other copy with the same id.
func prepend(items []consultation.Consultation, c consultation.Consultation) []consultation.Consultation {
	out := make([]consultation.Consultation, 0, len(items)+1)
	out = append(out, c)
	for _, it := range items {
		if it.ID() != c.ID() {
			out = append(out, it)
		}
	}
	return out
}

func replace(items []consultation.Consultation, c consultation.Consultation) []consultation.Consultation {
	out := clone(items)
	for i := range out {
		if out[i].ID() == c.ID() {
			out[i] = c
		}
	}
	return out
}

func remove(items []consultation.Consultation, id int64) []consultation.Consultation {
	out := make([]consultation.Consultation, 0, len(items))
	for _, it := range items {
		if it.ID() != id {
			out = append(out, it)
		}
	}
	return out
}
