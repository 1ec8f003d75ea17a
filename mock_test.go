package consultdesk

import (
	"context"

	"github.com/kailas-cloud/consultdesk/internal/domain/consultation"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/query"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/response"
	healthuc "github.com/kailas-cloud/consultdesk/internal/usecase/health"
	"github.com/kailas-cloud/consultdesk/internal/usecase/records"
	searchuc "github.com/kailas-cloud/consultdesk/internal/usecase/search"
	viewuc "github.com/kailas-cloud/consultdesk/internal/usecase/view"
)

// --- recordsUseCase mock ---

type mockRecordsUC struct {
	loadFn       func(ctx context.Context) error
	invalidateFn func(ctx context.Context) error
	listFn       func() []consultation.Consultation
	getFn        func(ctx context.Context, id int64) (consultation.Consultation, error)
	createFn     func(ctx context.Context, text string) (consultation.Consultation, error)
	updateFn     func(ctx context.Context, id int64, text string) (consultation.Consultation, error)
	deleteFn     func(ctx context.Context, id int64) error
	snapshotFn   func() records.State
}

func (m *mockRecordsUC) Load(ctx context.Context) error { return m.loadFn(ctx) }

func (m *mockRecordsUC) Invalidate(ctx context.Context) error { return m.invalidateFn(ctx) }

func (m *mockRecordsUC) List() []consultation.Consultation { return m.listFn() }

func (m *mockRecordsUC) Get(ctx context.Context, id int64) (consultation.Consultation, error) {
	return m.getFn(ctx, id)
}

func (m *mockRecordsUC) Create(ctx context.Context, text string) (consultation.Consultation, error) {
	return m.createFn(ctx, text)
}

func (m *mockRecordsUC) Update(ctx context.Context, id int64, text string) (consultation.Consultation, error) {
	return m.updateFn(ctx, id, text)
}

func (m *mockRecordsUC) Delete(ctx context.Context, id int64) error { return m.deleteFn(ctx, id) }

func (m *mockRecordsUC) Snapshot() records.State { return m.snapshotFn() }

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn   func(ctx context.Context, q query.Query) (response.Response, error)
	clearFn    func()
	snapshotFn func() searchuc.State
}

func (m *mockSearchUC) Search(ctx context.Context, q query.Query) (response.Response, error) {
	return m.searchFn(ctx, q)
}

func (m *mockSearchUC) Clear() { m.clearFn() }

func (m *mockSearchUC) Snapshot() searchuc.State { return m.snapshotFn() }

// --- viewUseCase mock ---

type mockViewUC struct {
	display viewuc.Display
	calls   []string
	err     error

	lastID        int64
	lastText      string
	lastThreshold float64
	lastPage      int
}

func (m *mockViewUC) record(name string) error {
	m.calls = append(m.calls, name)
	return m.err
}

func (m *mockViewUC) Display() viewuc.Display { return m.display }

func (m *mockViewUC) Load(context.Context) error { return m.record("load") }

func (m *mockViewUC) Refresh(context.Context) error { return m.record("refresh") }

func (m *mockViewUC) StartCreate(context.Context) error { return m.record("start_create") }

func (m *mockViewUC) StartEdit(_ context.Context, id int64) error {
	m.lastID = id
	return m.record("start_edit")
}

func (m *mockViewUC) Submit(_ context.Context, text string) error {
	m.lastText = text
	return m.record("submit")
}

func (m *mockViewUC) Cancel(context.Context) error { return m.record("cancel") }

func (m *mockViewUC) Delete(_ context.Context, id int64) error {
	m.lastID = id
	return m.record("delete")
}

func (m *mockViewUC) Search(_ context.Context, text string, threshold float64) error {
	m.lastText = text
	m.lastThreshold = threshold
	return m.record("search")
}

func (m *mockViewUC) Paginate(_ context.Context, page int) error {
	m.lastPage = page
	return m.record("paginate")
}

func (m *mockViewUC) ClearSearch(context.Context) error { return m.record("clear_search") }

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report { return m.checkFn(ctx) }
