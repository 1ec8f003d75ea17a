package view

import (
	"github.com/kailas-cloud/consultdesk/internal/domain/consultation"
	domview "github.com/kailas-cloud/consultdesk/internal/domain/view"
	"github.com/kailas-cloud/consultdesk/internal/usecase/records"
	"github.com/kailas-cloud/consultdesk/internal/usecase/search"
)

// Item is one displayed record. Similarity is set only for search results.
type Item struct {
	consultation.Consultation
	Similarity float64
	Scored     bool
}

// Display is the derived read model for the current mode.
type Display struct {
	Mode  domview.Mode
	Items []Item
	// Total is the search total in search mode and the cached list length otherwise.
	Total int

	SearchText string
	Threshold  float64
	Page       int
	TotalPages int
	HasNext    bool
	HasPrev    bool

	// Editing is the form's edit target; zero when creating.
	Editing consultation.Consultation

	Loading   bool
	Creating  bool
	Updating  bool
	Deleting  bool
	Searching bool

	// Err is the record store error if any, otherwise the search error.
	Err error
}

func derive(st domview.State, recs records.State, srch search.State) Display {
	d := Display{
		Mode:       st.Mode,
		SearchText: st.SearchText,
		Threshold:  st.Threshold,
		Page:       st.Page,
		Editing:    st.Editing,
		Creating:   recs.Creating,
		Updating:   recs.Updating,
		Deleting:   recs.Deleting,
		Searching:  srch.Searching,
		Loading:    recs.Busy() || srch.Searching,
	}

	d.Err = recs.Err
	if d.Err == nil {
		d.Err = srch.Err
	}

	if st.Mode == domview.Search {
		results := srch.Results()
		d.Items = make([]Item, len(results))
		for i, r := range results {
			d.Items[i] = Item{Consultation: r.Consultation, Similarity: r.Similarity(), Scored: true}
		}
		d.Total = srch.Total()
		if srch.HasResponse {
			d.Page = srch.Response.Page()
			d.TotalPages = srch.Response.TotalPages()
			d.HasNext = srch.Response.HasNext()
			d.HasPrev = srch.Response.HasPrev()
		}
		return d
	}

	d.Items = make([]Item, len(recs.Items))
	for i, c := range recs.Items {
		d.Items[i] = Item{Consultation: c}
	}
	d.Total = len(recs.Items)
	return d
}
