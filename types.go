package consultdesk

import (
	"time"

	"github.com/kailas-cloud/consultdesk/internal/domain/consultation"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/response"
	domview "github.com/kailas-cloud/consultdesk/internal/domain/view"
	"github.com/kailas-cloud/consultdesk/internal/usecase/records"
	viewuc "github.com/kailas-cloud/consultdesk/internal/usecase/view"
)

// Consultation is a stored consultation record.
type Consultation struct {
	ID        int64
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SearchHit is a record matched by a similarity search.
type SearchHit struct {
	Consultation
	Similarity float64 // [0, 1], higher is more relevant
}

// SearchPage is one page of search results.
type SearchPage struct {
	Hits       []SearchHit
	Total      int
	Page       int
	Limit      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// CacheStrategy selects how the local cache reconciles after a mutation.
type CacheStrategy string

const (
	// StrategyPrepend merges the server's echo into the cache (new records first).
	StrategyPrepend CacheStrategy = CacheStrategy(records.Prepend)
	// StrategyRefetch re-reads the whole list after every mutation.
	StrategyRefetch CacheStrategy = CacheStrategy(records.Refetch)
)

// RecordState is the cache's busy flags and last operation error.
type RecordState struct {
	Loaded   bool
	Loading  bool
	Creating bool
	Updating bool
	Deleting bool
	Err      error
}

// Mode is the active view mode.
type Mode string

// View modes.
const (
	ModeList   Mode = Mode(domview.List)
	ModeForm   Mode = Mode(domview.Form)
	ModeSearch Mode = Mode(domview.Search)
)

// DisplayItem is one row of the current view. Similarity is set only in search mode.
type DisplayItem struct {
	Consultation
	Similarity float64
	Scored     bool
}

// Display is the read model of the current view.
type Display struct {
	Mode  Mode
	Items []DisplayItem
	Total int

	SearchText string
	Threshold  float64
	Page       int
	TotalPages int
	HasNext    bool
	HasPrev    bool

	// Editing is the record open in the form; nil when creating or not in form mode.
	Editing *Consultation

	Loading   bool
	Creating  bool
	Updating  bool
	Deleting  bool
	Searching bool
	Err       error
}

// --- converters ---

func consultationFromDomain(c consultation.Consultation) Consultation {
	return Consultation{
		ID:        c.ID(),
		Text:      c.Text(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

func consultationsFromDomain(cs []consultation.Consultation) []Consultation {
	out := make([]Consultation, len(cs))
	for i, c := range cs {
		out[i] = consultationFromDomain(c)
	}
	return out
}

func searchPageFromDomain(r response.Response) SearchPage {
	results := r.Results()
	hits := make([]SearchHit, len(results))
	for i, res := range results {
		hits[i] = SearchHit{
			Consultation: consultationFromDomain(res.Consultation),
			Similarity:   res.Similarity(),
		}
	}
	return SearchPage{
		Hits:       hits,
		Total:      r.Total(),
		Page:       r.Page(),
		Limit:      r.Limit(),
		TotalPages: r.TotalPages(),
		HasNext:    r.HasNext(),
		HasPrev:    r.HasPrev(),
	}
}

func recordStateFromDomain(s records.State) RecordState {
	return RecordState{
		Loaded:   s.Loaded,
		Loading:  s.Loading,
		Creating: s.Creating,
		Updating: s.Updating,
		Deleting: s.Deleting,
		Err:      s.Err,
	}
}

func displayFromDomain(d viewuc.Display) Display {
	items := make([]DisplayItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = DisplayItem{
			Consultation: consultationFromDomain(it.Consultation),
			Similarity:   it.Similarity,
			Scored:       it.Scored,
		}
	}
	out := Display{
		Mode:       Mode(d.Mode),
		Items:      items,
		Total:      d.Total,
		SearchText: d.SearchText,
		Threshold:  d.Threshold,
		Page:       d.Page,
		TotalPages: d.TotalPages,
		HasNext:    d.HasNext,
		HasPrev:    d.HasPrev,
		Loading:    d.Loading,
		Creating:   d.Creating,
		Updating:   d.Updating,
		Deleting:   d.Deleting,
		Searching:  d.Searching,
		Err:        d.Err,
	}
	if !d.Editing.IsZero() {
		c := consultationFromDomain(d.Editing)
		out.Editing = &c
	}
	return out
}
