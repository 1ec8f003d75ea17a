package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/consultdesk/internal/domain"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/query"
	domview "github.com/kailas-cloud/consultdesk/internal/domain/view"
)

// Controller drives the view state machine. Transitions are computed by the pure
// domview.Transition; the controller runs the resulting effects against the
// record store and search session and commits the new state once they succeed.
// A failed effect leaves the state unchanged.
type Controller struct {
	records  RecordStore
	searches SearchSession
	logger   *zap.Logger

	mu    sync.Mutex
	state domview.State
}

// New creates a controller in list mode with default search parameters.
func New(recs RecordStore, searches SearchSession, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		records:  recs,
		searches: searches,
		logger:   logger,
		state:    domview.Initial(query.DefaultPageSize, query.DefaultThreshold),
	}
}

// WithSearchDefaults sets the page size and the threshold used until the first search.
func (c *Controller) WithSearchDefaults(pageSize int, threshold float64) *Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = domview.Initial(pageSize, threshold)
	return c
}

// State returns the current view state.
func (c *Controller) State() domview.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Display derives what the view shows in the current mode.
func (c *Controller) Display() Display {
	st := c.State()
	return derive(st, c.records.Snapshot(), c.searches.Snapshot())
}

// Dispatch applies e. Rejected events return ErrInvalidTransition. Effect
// errors propagate unchanged and leave the state as it was. A search
// completion discarded by the session is not an error and commits nothing.
func (c *Controller) Dispatch(ctx context.Context, e domview.Event) error {
	_, effects, err := domview.Transition(c.State(), e)
	if err != nil {
		return fmt.Errorf("%s: %w", e.Name(), err)
	}

	for _, eff := range effects {
		if err := c.run(ctx, eff); err != nil {
			if errors.Is(err, domain.ErrStaleResponse) {
				c.logger.Debug("view event superseded", zap.String("event", e.Name()))
				return nil
			}
			return fmt.Errorf("%s: %w", e.Name(), err)
		}
	}

	c.commit(e)
	return nil
}

// commit re-applies e to the latest state, which may have moved while effects ran.
func (c *Controller) commit(e domview.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, _, err := domview.Transition(c.state, e)
	if err != nil {
		c.logger.Info("view transition dropped",
			zap.String("event", e.Name()),
			zap.String("mode", string(c.state.Mode)),
			zap.Error(err),
		)
		return
	}
	c.state = next
}

func (c *Controller) run(ctx context.Context, eff domview.Effect) error {
	switch e := eff.(type) {
	case domview.CreateRecord:
		_, err := c.records.Create(ctx, e.Text)
		return err
	case domview.UpdateRecord:
		_, err := c.records.Update(ctx, e.ID, e.Text)
		return err
	case domview.DeleteRecord:
		return c.records.Delete(ctx, e.ID)
	case domview.ExecuteSearch:
		_, err := c.searches.Search(ctx, e.Query)
		return err
	case domview.ResetSearch:
		c.searches.Clear()
		return nil
	}
	return fmt.Errorf("unsupported effect %T", eff)
}

// Load fetches the record list if it has not been loaded yet.
func (c *Controller) Load(ctx context.Context) error { return c.records.Load(ctx) }

// Refresh refetches the record list.
func (c *Controller) Refresh(ctx context.Context) error { return c.records.Invalidate(ctx) }

// StartCreate opens an empty form.
func (c *Controller) StartCreate(ctx context.Context) error {
	return c.Dispatch(ctx, domview.StartCreate{})
}

// StartEdit opens the form for the record with id, fetching it if it is not cached.
func (c *Controller) StartEdit(ctx context.Context, id int64) error {
	rec, err := c.records.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("start_edit: %w", err)
	}
	return c.Dispatch(ctx, domview.StartEdit{Record: rec})
}

// Submit saves the form: create without an edit target, update with one.
func (c *Controller) Submit(ctx context.Context, text string) error {
	return c.Dispatch(ctx, domview.Submit{Text: text})
}

// Cancel closes the form and returns to the previous mode.
func (c *Controller) Cancel(ctx context.Context) error {
	return c.Dispatch(ctx, domview.Cancel{})
}

// Delete removes a record; the mode is unchanged.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	return c.Dispatch(ctx, domview.Delete{ID: id})
}

// Search starts a new search at page 1. Blank text returns to list mode.
func (c *Controller) Search(ctx context.Context, text string, threshold float64) error {
	return c.Dispatch(ctx, domview.SubmitSearch{Text: text, Threshold: threshold})
}

// Paginate re-issues the current search for another page.
func (c *Controller) Paginate(ctx context.Context, page int) error {
	return c.Dispatch(ctx, domview.Paginate{Page: page})
}

// ClearSearch drops the search results and returns to list mode.
func (c *Controller) ClearSearch(ctx context.Context) error {
	return c.Dispatch(ctx, domview.ClearSearch{})
}
