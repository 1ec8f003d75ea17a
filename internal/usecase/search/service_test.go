package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/consultdesk/internal/domain"
	"github.com/kailas-cloud/consultdesk/internal/domain/consultation"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/query"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/response"
)

// --- Mocks ---

type mockAPI struct {
	resp    response.Response
	err     error
	called  int
	lastReq query.Query
}

func (m *mockAPI) SearchConsultations(_ context.Context, q query.Query) (response.Response, error) {
	m.called++
	m.lastReq = q
	return m.resp, m.err
}

type reply struct {
	resp response.Response
	err  error
}

// gatedAPI blocks each call until the test releases the reply for its query text.
type gatedAPI struct {
	mu      sync.Mutex
	gates   map[string]chan reply
	started chan string
}

func newGatedAPI(texts ...string) *gatedAPI {
	g := &gatedAPI{gates: make(map[string]chan reply), started: make(chan string, len(texts))}
	for _, t := range texts {
		g.gates[t] = make(chan reply, 1)
	}
	return g
}

func (g *gatedAPI) SearchConsultations(_ context.Context, q query.Query) (response.Response, error) {
	g.mu.Lock()
	gate := g.gates[q.Text()]
	g.mu.Unlock()
	g.started <- q.Text()
	r := <-gate
	return r.resp, r.err
}

func (g *gatedAPI) release(text string, r reply) { g.gates[text] <- r }

func makeResponse(t *testing.T, total, page int, sims ...float64) response.Response {
	t.Helper()
	results := make([]response.Result, len(sims))
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, sim := range sims {
		c := consultation.Reconstruct(int64(i+1), "math tutoring session notes", ts, ts)
		results[i] = response.NewResult(c, sim)
	}
	resp, err := response.New(results, total, page, query.DefaultPageSize)
	if err != nil {
		t.Fatalf("response.New: %v", err)
	}
	return resp
}

// --- Tests ---

func TestSearch_BlankQuerySkipsTransport(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		api := &mockAPI{}
		svc := New(api, nil)

		resp, err := svc.Search(context.Background(), query.Default(text).WithPageSize(25))
		if err != nil {
			t.Fatalf("Search(%q): %v", text, err)
		}
		if api.called != 0 {
			t.Errorf("Search(%q): transport called", text)
		}
		if resp.Total() != 0 || resp.Page() != 1 || resp.Limit() != 25 || resp.TotalPages() != 0 ||
			resp.HasNext() || resp.HasPrev() {
			t.Errorf("Search(%q): unexpected synthetic response %+v", text, resp)
		}
		if resp.Results() == nil || len(resp.Results()) != 0 {
			t.Errorf("Search(%q): results must be an empty list", text)
		}
		if _, ok := svc.Response(); ok {
			t.Errorf("Search(%q): blank query must not store a response", text)
		}
	}
}

func TestSearch_StoresResponse(t *testing.T) {
	api := &mockAPI{resp: makeResponse(t, 20, 2, 0.9, 0.7, 0.5)}
	svc := New(api, nil)

	q := query.Default("math tutoring").WithPage(2).WithThreshold(0.5)
	resp, err := svc.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Page() != 2 || !resp.HasPrev() || resp.HasNext() || resp.TotalPages() != 2 {
		t.Errorf("paging = page %d prev %t next %t pages %d",
			resp.Page(), resp.HasPrev(), resp.HasNext(), resp.TotalPages())
	}
	if api.lastReq.Threshold() != 0.5 || api.lastReq.Page() != 2 {
		t.Errorf("request = %+v", api.lastReq)
	}
	if svc.Total() != 20 || len(svc.Results()) != 3 {
		t.Errorf("stored total=%d results=%d", svc.Total(), len(svc.Results()))
	}
	results := svc.Results()
	for i := 1; i < len(results); i++ {
		if results[i].Similarity() > results[i-1].Similarity() {
			t.Errorf("results must keep descending similarity order")
		}
	}
}

func TestSearch_ThresholdPassedThrough(t *testing.T) {
	api := &mockAPI{resp: makeResponse(t, 0, 1)}
	svc := New(api, nil)

	_, _ = svc.Search(context.Background(), query.Default("anything").WithThreshold(1.7))
	if api.lastReq.Threshold() != 1.7 {
		t.Errorf("threshold = %v, want 1.7 unmodified", api.lastReq.Threshold())
	}
}

func TestSearch_FailureKeepsPriorResponse(t *testing.T) {
	api := &mockAPI{resp: makeResponse(t, 3, 1, 0.8, 0.6, 0.4)}
	svc := New(api, nil)
	ctx := context.Background()
	if _, err := svc.Search(ctx, query.Default("first")); err != nil {
		t.Fatalf("Search: %v", err)
	}

	api.err = domain.NewTransportError(domain.ClassServer, 500, "Search failed")
	_, err := svc.Search(ctx, query.Default("second"))
	if !errors.Is(err, domain.ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
	if !errors.Is(svc.Err(), domain.ErrServer) {
		t.Errorf("Err() = %v", svc.Err())
	}
	if svc.Total() != 3 {
		t.Errorf("prior response must survive a failed search, total = %d", svc.Total())
	}
	if svc.Searching() {
		t.Error("searching flag must be released")
	}

	api.err = nil
	if _, err := svc.Search(ctx, query.Default("third")); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if svc.Err() != nil {
		t.Errorf("error must reset on the next search, got %v", svc.Err())
	}
}

func TestClear_ResetsState(t *testing.T) {
	api := &mockAPI{resp: makeResponse(t, 3, 1, 0.8)}
	svc := New(api, nil)
	_, _ = svc.Search(context.Background(), query.Default("notes"))

	svc.Clear()
	st := svc.Snapshot()
	if st.HasResponse || st.Total() != 0 || len(st.Results()) != 0 || st.Searching || st.Err != nil {
		t.Errorf("state after clear = %+v", st)
	}
}

func TestSearch_CompletionAfterClearDiscarded(t *testing.T) {
	api := newGatedAPI("slow")
	svc := New(api, nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Search(context.Background(), query.Default("slow"))
		done <- err
	}()
	<-api.started
	if !svc.Searching() {
		t.Error("expected searching while request is pending")
	}

	svc.Clear()
	if svc.Searching() {
		t.Error("clear must drop the pending indicator")
	}
	api.release("slow", reply{resp: makeResponse(t, 1, 1, 0.9)})

	if err := <-done; !errors.Is(err, domain.ErrStaleResponse) {
		t.Fatalf("expected ErrStaleResponse, got %v", err)
	}
	if _, ok := svc.Response(); ok {
		t.Error("stale completion must not be stored")
	}
}

func TestSearch_LastCompletionWins(t *testing.T) {
	api := newGatedAPI("older", "newer")
	svc := New(api, nil)
	ctx := context.Background()

	errs := make(chan error, 2)
	go func() { _, err := svc.Search(ctx, query.Default("older")); errs <- err }()
	<-api.started
	go func() { _, err := svc.Search(ctx, query.Default("newer")); errs <- err }()
	<-api.started

	api.release("newer", reply{resp: makeResponse(t, 2, 1, 0.9, 0.8)})
	if err := <-errs; err != nil {
		t.Fatalf("newer: %v", err)
	}
	api.release("older", reply{resp: makeResponse(t, 7, 1, 0.5)})
	if err := <-errs; err != nil {
		t.Fatalf("older: %v", err)
	}

	if svc.Total() != 7 {
		t.Errorf("total = %d, want 7 from the last completion", svc.Total())
	}
}

func TestSearch_OrderedResponsesDiscardOlder(t *testing.T) {
	api := newGatedAPI("older", "newer")
	svc := New(api, nil).WithOrderedResponses(true)
	ctx := context.Background()

	errs := make(chan error, 2)
	go func() { _, err := svc.Search(ctx, query.Default("older")); errs <- err }()
	<-api.started
	go func() { _, err := svc.Search(ctx, query.Default("newer")); errs <- err }()
	<-api.started

	api.release("newer", reply{resp: makeResponse(t, 2, 1, 0.9, 0.8)})
	if err := <-errs; err != nil {
		t.Fatalf("newer: %v", err)
	}
	api.release("older", reply{resp: makeResponse(t, 7, 1, 0.5)})
	if err := <-errs; !errors.Is(err, domain.ErrStaleResponse) {
		t.Fatalf("older: expected ErrStaleResponse, got %v", err)
	}

	if svc.Total() != 2 {
		t.Errorf("total = %d, want 2 from the newest request", svc.Total())
	}
	if svc.Searching() {
		t.Error("searching flag must be released")
	}
}
