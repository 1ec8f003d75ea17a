package consultdesk

import (
	"context"
	"time"
)

// ViewService drives the list, form and search modes over the record cache
// and the search session.
//
// Events that the current mode does not accept fail with ErrInvalidTransition
// and leave the view unchanged. A failed remote call also leaves it unchanged.
type ViewService struct {
	svc viewUseCase
	obs *observer
}

// View returns the view service.
func (c *Client) View() *ViewService {
	return &ViewService{svc: c.viewSvc, obs: c.obs}
}

// Display returns the read model of the current view.
func (v *ViewService) Display() Display {
	return displayFromDomain(v.svc.Display())
}

// Mode returns the active mode.
func (v *ViewService) Mode() Mode {
	return Mode(v.svc.Display().Mode)
}

// Load fetches the record list once.
func (v *ViewService) Load(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { v.obs.observe("view.load", start, err) }()
	return v.svc.Load(ctx)
}

// Refresh refetches the record list.
func (v *ViewService) Refresh(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { v.obs.observe("view.refresh", start, err) }()
	return v.svc.Refresh(ctx)
}

// StartCreate opens an empty form.
func (v *ViewService) StartCreate(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { v.obs.observe("view.start_create", start, err) }()
	return v.svc.StartCreate(ctx)
}

// StartEdit opens the form for an existing record.
func (v *ViewService) StartEdit(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { v.obs.observe("view.start_edit", start, err) }()
	return v.svc.StartEdit(ctx, id)
}

// Submit saves the form. On success the view returns to list mode.
func (v *ViewService) Submit(ctx context.Context, text string) (err error) {
	start := time.Now()
	defer func() { v.obs.observe("view.submit", start, err) }()
	return v.svc.Submit(ctx, text)
}

// Cancel closes the form without saving.
func (v *ViewService) Cancel(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { v.obs.observe("view.cancel", start, err) }()
	return v.svc.Cancel(ctx)
}

// Delete removes a record from list or search mode.
func (v *ViewService) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { v.obs.observe("view.delete", start, err) }()
	return v.svc.Delete(ctx, id)
}

// Search submits a new query from page 1. Threshold is clamped to [0, 1].
// A blank text returns to list mode.
func (v *ViewService) Search(ctx context.Context, text string, threshold float64) (err error) {
	start := time.Now()
	defer func() { v.obs.observe("view.search", start, err) }()
	return v.svc.Search(ctx, text, threshold)
}

// Paginate moves the current search to another page.
func (v *ViewService) Paginate(ctx context.Context, page int) (err error) {
	start := time.Now()
	defer func() { v.obs.observe("view.paginate", start, err) }()
	return v.svc.Paginate(ctx, page)
}

// ClearSearch leaves search mode.
func (v *ViewService) ClearSearch(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { v.obs.observe("view.clear_search", start, err) }()
	return v.svc.ClearSearch(ctx)
}
