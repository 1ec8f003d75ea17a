package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/consultdesk/internal/domain"
	"github.com/kailas-cloud/consultdesk/internal/domain/consultation"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/query"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/response"
	domview "github.com/kailas-cloud/consultdesk/internal/domain/view"
	"github.com/kailas-cloud/consultdesk/internal/usecase/records"
	"github.com/kailas-cloud/consultdesk/internal/usecase/search"
)

// --- Mocks ---

type mockRecordsAPI struct {
	nextID    int64
	items     []consultation.Consultation
	createErr error
	creates   int
}

func (m *mockRecordsAPI) ListConsultations(_ context.Context, _, _ int) ([]consultation.Consultation, error) {
	out := make([]consultation.Consultation, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *mockRecordsAPI) GetConsultation(_ context.Context, id int64) (consultation.Consultation, error) {
	for _, it := range m.items {
		if it.ID() == id {
			return it, nil
		}
	}
	return consultation.Consultation{}, domain.NewTransportError(domain.ClassNotFound, 404, "not found")
}

func (m *mockRecordsAPI) CreateConsultation(_ context.Context, text string) (consultation.Consultation, error) {
	m.creates++
	if m.createErr != nil {
		return consultation.Consultation{}, m.createErr
	}
	m.nextID++
	ts := time.Date(2025, 1, 1, 0, 0, int(m.nextID), 0, time.UTC)
	c := consultation.Reconstruct(m.nextID, text, ts, ts)
	m.items = append([]consultation.Consultation{c}, m.items...)
	return c, nil
}

func (m *mockRecordsAPI) UpdateConsultation(_ context.Context, id int64, text string) (consultation.Consultation, error) {
	for i, it := range m.items {
		if it.ID() == id {
			c := consultation.Reconstruct(id, text, it.CreatedAt(), it.UpdatedAt().Add(time.Minute))
			m.items[i] = c
			return c, nil
		}
	}
	return consultation.Consultation{}, domain.NewTransportError(domain.ClassNotFound, 404, "not found")
}

func (m *mockRecordsAPI) DeleteConsultation(_ context.Context, id int64) error {
	for i, it := range m.items {
		if it.ID() == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.NewTransportError(domain.ClassNotFound, 404, "not found")
}

type mockSearchAPI struct {
	total   int
	err     error
	queries []query.Query
}

func (m *mockSearchAPI) SearchConsultations(_ context.Context, q query.Query) (response.Response, error) {
	m.queries = append(m.queries, q)
	if m.err != nil {
		return response.Response{}, m.err
	}
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := consultation.Reconstruct(99, "math tutoring for a middle school student", ts, ts)
	return response.New([]response.Result{response.NewResult(c, 0.82)}, m.total, q.Page(), q.PageSize())
}

type fixture struct {
	recAPI  *mockRecordsAPI
	srchAPI *mockSearchAPI
	ctrl    *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	recAPI := &mockRecordsAPI{}
	srchAPI := &mockSearchAPI{total: 25}
	ctrl := New(records.New(recAPI, nil), search.New(srchAPI, nil), nil)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return &fixture{recAPI: recAPI, srchAPI: srchAPI, ctrl: ctrl}
}

func (f *fixture) mustCreate(t *testing.T, text string) consultation.Consultation {
	t.Helper()
	ctx := context.Background()
	if err := f.ctrl.StartCreate(ctx); err != nil {
		t.Fatalf("StartCreate: %v", err)
	}
	if err := f.ctrl.Submit(ctx, text); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return f.recAPI.items[0]
}

// --- Tests ---

func TestController_InitialState(t *testing.T) {
	f := newFixture(t)
	st := f.ctrl.State()
	if st.Mode != domview.List || st.Page != 1 || st.Threshold != query.DefaultThreshold {
		t.Errorf("initial state = %+v", st)
	}
}

func TestController_CreateEditDeleteScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.mustCreate(t, "This is a test consultation entry")
	d := f.ctrl.Display()
	if d.Mode != domview.List || d.Total != 1 || d.Items[0].Text() != "This is a test consultation entry" {
		t.Fatalf("after create: %+v", d)
	}

	if err := f.ctrl.StartEdit(ctx, created.ID()); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if d := f.ctrl.Display(); d.Mode != domview.Form || d.Editing.ID() != created.ID() {
		t.Fatalf("edit form: %+v", d)
	}
	if err := f.ctrl.Submit(ctx, "Updated consultation text here"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	d = f.ctrl.Display()
	if d.Mode != domview.List || !d.Editing.IsZero() {
		t.Fatalf("after update: %+v", d)
	}
	if d.Items[0].Text() != "Updated consultation text here" ||
		d.Items[0].UpdatedAt().Equal(d.Items[0].CreatedAt()) {
		t.Fatalf("update not reflected: %+v", d.Items[0])
	}

	if err := f.ctrl.Delete(ctx, created.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if d := f.ctrl.Display(); d.Total != 0 || len(d.Items) != 0 {
		t.Fatalf("after delete: %+v", d)
	}
	if err := f.ctrl.Delete(ctx, created.ID()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestController_SubmitFailureKeepsForm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.ctrl.StartCreate(ctx)

	err := f.ctrl.Submit(ctx, "short")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if f.recAPI.creates != 0 {
		t.Error("invalid text reached the transport")
	}
	if f.ctrl.State().Mode != domview.Form {
		t.Errorf("mode = %s, want form after failed submit", f.ctrl.State().Mode)
	}

	f.recAPI.createErr = domain.NewTransportError(domain.ClassServer, 500, "boom")
	if err := f.ctrl.Submit(ctx, "long enough consultation text"); !errors.Is(err, domain.ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
	if f.ctrl.State().Mode != domview.Form {
		t.Error("transport failure must keep the form open")
	}
	if d := f.ctrl.Display(); !errors.Is(d.Err, domain.ErrServer) {
		t.Errorf("display error = %v", d.Err)
	}
}

func TestController_CancelReturnsToPreviousMode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustCreate(t, "consultation about tutoring")

	if err := f.ctrl.Search(ctx, "tutoring", 0.4); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if err := f.ctrl.StartCreate(ctx); err != nil {
		t.Fatalf("StartCreate: %v", err)
	}
	if err := f.ctrl.Cancel(ctx); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if st := f.ctrl.State(); st.Mode != domview.Search || st.SearchText != "tutoring" {
		t.Errorf("state after cancel = %+v", st)
	}
}

func TestController_InvalidTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"submit in list", func() error { return f.ctrl.Submit(ctx, "some long consultation text") }},
		{"cancel in list", func() error { return f.ctrl.Cancel(ctx) }},
		{"paginate in list", func() error { return f.ctrl.Paginate(ctx, 2) }},
		{"clear search in list", func() error { return f.ctrl.ClearSearch(ctx) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			if f.ctrl.State().Mode != domview.List {
				t.Error("state must be unchanged")
			}
		})
	}
	if len(f.srchAPI.queries) != 0 || f.recAPI.creates != 0 {
		t.Error("rejected events must not run effects")
	}
}

func TestController_SearchDisplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustCreate(t, "first consultation note")
	f.mustCreate(t, "second consultation note")

	if err := f.ctrl.Search(ctx, "math tutoring", 0.5); err != nil {
		t.Fatalf("Search: %v", err)
	}
	d := f.ctrl.Display()
	if d.Mode != domview.Search || d.Total != 25 || d.TotalPages != 3 || !d.HasNext || d.HasPrev {
		t.Fatalf("search display = %+v", d)
	}
	if len(d.Items) != 1 || !d.Items[0].Scored || d.Items[0].Similarity != 0.82 {
		t.Fatalf("items = %+v", d.Items)
	}
	q := f.srchAPI.queries[0]
	if q.Text() != "math tutoring" || q.Page() != 1 || q.Threshold() != 0.5 || q.PageSize() != 10 {
		t.Errorf("query = %+v", q)
	}
}

func TestController_SearchThresholdClamped(t *testing.T) {
	f := newFixture(t)
	_ = f.ctrl.Search(context.Background(), "math", 3)
	if got := f.srchAPI.queries[0].Threshold(); got != 1 {
		t.Errorf("threshold = %v, want 1", got)
	}
}

func TestController_PaginationRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.ctrl.Search(ctx, "math tutoring", 0.6); err != nil {
		t.Fatalf("Search: %v", err)
	}

	for _, p := range []int{1, 2, 1} {
		if err := f.ctrl.Paginate(ctx, p); err != nil {
			t.Fatalf("Paginate(%d): %v", p, err)
		}
		if f.ctrl.State().Page != p {
			t.Errorf("page = %d, want %d", f.ctrl.State().Page, p)
		}
	}

	qs := f.srchAPI.queries[1:]
	if qs[0] != qs[2] {
		t.Errorf("paginate(1) must reissue identical parameters: %+v vs %+v", qs[0], qs[2])
	}
	if qs[1].Page() != 2 || qs[1].Text() != "math tutoring" || qs[1].Threshold() != 0.6 {
		t.Errorf("paginate(2) query = %+v", qs[1])
	}
	if d := f.ctrl.Display(); d.Page != 1 {
		t.Errorf("display page = %d", d.Page)
	}
}

func TestController_PaginateInvalidPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.ctrl.Search(ctx, "math", 0.3)

	if err := f.ctrl.Paginate(ctx, 0); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if len(f.srchAPI.queries) != 1 {
		t.Error("invalid page must not reach the transport")
	}
}

func TestController_SearchListSwitchResetsTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustCreate(t, "only consultation in the list")

	_ = f.ctrl.Search(ctx, "math tutoring", 0.3)
	if d := f.ctrl.Display(); d.Total != 25 {
		t.Fatalf("search total = %d", d.Total)
	}

	if err := f.ctrl.ClearSearch(ctx); err != nil {
		t.Fatalf("ClearSearch: %v", err)
	}
	d := f.ctrl.Display()
	if d.Mode != domview.List || d.Total != 1 || d.Page != 1 || d.SearchText != "" {
		t.Fatalf("list display = %+v", d)
	}
	if f.ctrl.searches.Snapshot().HasResponse {
		t.Error("search results must be discarded after clearing")
	}

	// Blank search also returns to list without a remote call.
	_ = f.ctrl.Search(ctx, "math tutoring", 0.3)
	calls := len(f.srchAPI.queries)
	if err := f.ctrl.Search(ctx, "   ", 0.3); err != nil {
		t.Fatalf("blank Search: %v", err)
	}
	if len(f.srchAPI.queries) != calls {
		t.Error("blank search reached the transport")
	}
	if d := f.ctrl.Display(); d.Mode != domview.List || d.Total != 1 {
		t.Fatalf("after blank search: %+v", d)
	}
}

func TestController_SearchFailureKeepsMode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srchAPI.err = domain.NewTransportError(domain.ClassNetwork, 0, "connection refused")

	if err := f.ctrl.Search(ctx, "math", 0.3); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	d := f.ctrl.Display()
	if d.Mode != domview.List {
		t.Errorf("mode = %s, want list", d.Mode)
	}
	if !errors.Is(d.Err, domain.ErrNetwork) {
		t.Errorf("display error = %v", d.Err)
	}
}

func TestController_StartEditUnknownRecord(t *testing.T) {
	f := newFixture(t)
	if err := f.ctrl.StartEdit(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if f.ctrl.State().Mode != domview.List {
		t.Error("state must be unchanged")
	}
}

// gatedSearchAPI holds one search until released once armed.
type gatedSearchAPI struct {
	*mockSearchAPI
	started chan struct{}
	release chan struct{}
}

func (g *gatedSearchAPI) arm() {
	g.started = make(chan struct{})
	g.release = make(chan struct{})
}

func (g *gatedSearchAPI) SearchConsultations(ctx context.Context, q query.Query) (response.Response, error) {
	if g.started != nil {
		started := g.started
		g.started = nil
		close(started)
		<-g.release
	}
	return g.mockSearchAPI.SearchConsultations(ctx, q)
}

func TestController_SearchLandingAfterLeavingSearchIsDiscarded(t *testing.T) {
	cases := []struct {
		name  string
		setup func(ctx context.Context, c *Controller) error
		leave func(ctx context.Context, c *Controller) error
	}{
		{
			name:  "blank search while first search in flight",
			setup: func(context.Context, *Controller) error { return nil },
			leave: func(ctx context.Context, c *Controller) error { return c.Search(ctx, "  ", 0.3) },
		},
		{
			name:  "clear while next search in flight",
			setup: func(ctx context.Context, c *Controller) error { return c.Search(ctx, "math", 0.3) },
			leave: func(ctx context.Context, c *Controller) error { return c.ClearSearch(ctx) },
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &gatedSearchAPI{mockSearchAPI: &mockSearchAPI{total: 25}}
			ctrl := New(records.New(&mockRecordsAPI{}, nil), search.New(api, nil), nil)
			ctx := context.Background()
			if err := ctrl.Load(ctx); err != nil {
				t.Fatalf("Load: %v", err)
			}
			if err := tc.setup(ctx, ctrl); err != nil {
				t.Fatalf("setup: %v", err)
			}

			api.arm()
			release := api.release
			started := api.started
			done := make(chan error, 1)
			go func() { done <- ctrl.Search(ctx, "math tutoring", 0.5) }()
			<-started

			if err := tc.leave(ctx, ctrl); err != nil {
				t.Fatalf("leave search: %v", err)
			}
			close(release)
			if err := <-done; err != nil {
				t.Fatalf("superseded search returned %v, want nil", err)
			}

			d := ctrl.Display()
			if d.Mode != domview.List || d.Total != 0 || d.SearchText != "" {
				t.Errorf("display = %+v, want empty list mode", d)
			}
			if ctrl.searches.Snapshot().HasResponse {
				t.Error("late search response must not be stored")
			}
		})
	}
}
