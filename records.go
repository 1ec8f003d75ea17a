package consultdesk

import (
	"context"
	"time"
)

// RecordService works with the locally cached consultation list.
type RecordService struct {
	svc recordsUseCase
	obs *observer
}

// Records returns the record service.
func (c *Client) Records() *RecordService {
	return &RecordService{svc: c.recSvc, obs: c.obs}
}

// Load fetches the list once. Later calls are served from the cache.
func (s *RecordService) Load(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("records.load", start, err) }()
	return s.svc.Load(ctx)
}

// Refresh drops the cache and fetches the list again.
func (s *RecordService) Refresh(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("records.refresh", start, err) }()
	return s.svc.Invalidate(ctx)
}

// List returns the cached records, newest first. Empty until Load succeeds.
func (s *RecordService) List() []Consultation {
	return consultationsFromDomain(s.svc.List())
}

// Get returns a record from the cache, falling back to the service.
func (s *RecordService) Get(ctx context.Context, id int64) (_ Consultation, err error) {
	start := time.Now()
	defer func() { s.obs.observe("records.get", start, err) }()

	c, err := s.svc.Get(ctx, id)
	if err != nil {
		return Consultation{}, err
	}
	return consultationFromDomain(c), nil
}

// Create stores a new record. Text is trimmed and must hold at least 10 characters.
func (s *RecordService) Create(ctx context.Context, text string) (_ Consultation, err error) {
	start := time.Now()
	defer func() { s.obs.observe("records.create", start, err) }()

	c, err := s.svc.Create(ctx, text)
	if err != nil {
		return Consultation{}, err
	}
	return consultationFromDomain(c), nil
}

// Update replaces a record's text.
func (s *RecordService) Update(ctx context.Context, id int64, text string) (_ Consultation, err error) {
	start := time.Now()
	defer func() { s.obs.observe("records.update", start, err) }()

	c, err := s.svc.Update(ctx, id, text)
	if err != nil {
		return Consultation{}, err
	}
	return consultationFromDomain(c), nil
}

// Delete removes a record.
func (s *RecordService) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("records.delete", start, err) }()
	return s.svc.Delete(ctx, id)
}

// State returns the busy flags and the last operation error.
func (s *RecordService) State() RecordState {
	return recordStateFromDomain(s.svc.Snapshot())
}
