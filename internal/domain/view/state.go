package view

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/consultdesk/internal/domain"
	"github.com/kailas-cloud/consultdesk/internal/domain/consultation"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/query"
)

// State is the controller-owned view state. The current search text and page live
// here, not in the search session, so pagination can reuse them.
type State struct {
	Mode Mode
	// Return is the non-form mode restored by Cancel.
	Return Mode
	// Editing is the edit target; zero when the form creates a new record.
	Editing    consultation.Consultation
	SearchText string
	Page       int
	Threshold  float64
	PageSize   int
}

// Initial returns the start state: list mode, page 1.
func Initial(pageSize int, threshold float64) State {
	if pageSize <= 0 {
		pageSize = query.DefaultPageSize
	}
	return State{
		Mode:      List,
		Return:    List,
		Page:      1,
		Threshold: query.ClampThreshold(threshold),
		PageSize:  pageSize,
	}
}

// IsEditing reports whether the form targets an existing record.
func (s State) IsEditing() bool { return !s.Editing.IsZero() }

// Transition maps (state, event) to the next state and the effects to run.
// It is pure: s is not modified and no I/O happens here.
func Transition(s State, e Event) (State, []Effect, error) {
	switch ev := e.(type) {
	case StartCreate:
		if !s.browsing() {
			return s, nil, invalid(s, e)
		}
		next := s
		next.Return = s.Mode
		next.Mode = Form
		next.Editing = consultation.Consultation{}
		return next, nil, nil

	case StartEdit:
		if !s.browsing() {
			return s, nil, invalid(s, e)
		}
		if ev.Record.IsZero() {
			return s, nil, fmt.Errorf("%w: edit target is empty", domain.ErrInvalidTransition)
		}
		next := s
		next.Return = s.Mode
		next.Mode = Form
		next.Editing = ev.Record
		return next, nil, nil

	case Submit:
		if s.Mode != Form {
			return s, nil, invalid(s, e)
		}
		var eff Effect = CreateRecord{Text: ev.Text}
		if s.IsEditing() {
			eff = UpdateRecord{ID: s.Editing.ID(), Text: ev.Text}
		}
		next := s
		next.Mode = List
		next.Return = List
		next.Editing = consultation.Consultation{}
		return next, []Effect{eff}, nil

	case Cancel:
		if s.Mode != Form {
			return s, nil, invalid(s, e)
		}
		next := s
		next.Mode = s.Return
		if !next.Mode.IsValid() || next.Mode == Form {
			next.Mode = List
		}
		next.Editing = consultation.Consultation{}
		return next, nil, nil

	case Delete:
		return s, []Effect{DeleteRecord{ID: ev.ID}}, nil

	case SubmitSearch:
		if !s.browsing() {
			return s, nil, invalid(s, e)
		}
		next := s
		next.Page = 1
		if strings.TrimSpace(ev.Text) == "" {
			next.Mode = List
			next.SearchText = ""
			return next, []Effect{ResetSearch{}}, nil
		}
		next.Mode = Search
		next.SearchText = ev.Text
		next.Threshold = query.ClampThreshold(ev.Threshold)
		return next, []Effect{ExecuteSearch{Query: next.query()}}, nil

	case Paginate:
		if s.Mode != Search {
			return s, nil, invalid(s, e)
		}
		if strings.TrimSpace(s.SearchText) == "" {
			return s, nil, nil
		}
		if ev.Page < 1 {
			return s, nil, fmt.Errorf("%w: page must be >= 1, got %d", domain.ErrInvalidTransition, ev.Page)
		}
		next := s
		next.Page = ev.Page
		return next, []Effect{ExecuteSearch{Query: next.query()}}, nil

	case ClearSearch:
		if s.Mode != Search {
			return s, nil, invalid(s, e)
		}
		next := s
		next.Mode = List
		next.SearchText = ""
		next.Page = 1
		return next, []Effect{ResetSearch{}}, nil
	}
	return s, nil, fmt.Errorf("%w: unknown event %T", domain.ErrInvalidTransition, e)
}

func (s State) browsing() bool { return s.Mode == List || s.Mode == Search }

func (s State) query() query.Query {
	return query.Default(s.SearchText).
		WithPage(s.Page).
		WithPageSize(s.PageSize).
		WithThreshold(s.Threshold)
}

func invalid(s State, e Event) error {
	return fmt.Errorf("%w: %s not accepted in %s mode", domain.ErrInvalidTransition, e.Name(), s.Mode)
}
