package view

import "github.com/kailas-cloud/consultdesk/internal/domain/search/query"

// Effect is a side effect requested by a transition. Effects are executed by the
// controller, never by Transition itself.
type Effect interface {
	isEffect()
}

// CreateRecord asks the record store to create a consultation.
type CreateRecord struct {
	Text string
}

// UpdateRecord asks the record store to replace a consultation's text.
type UpdateRecord struct {
	ID   int64
	Text string
}

// DeleteRecord asks the record store to remove a consultation.
type DeleteRecord struct {
	ID int64
}

// ExecuteSearch asks the search session to fetch a page.
type ExecuteSearch struct {
	Query query.Query
}

// ResetSearch asks the search session to drop its response.
type ResetSearch struct{}

func (CreateRecord) isEffect()  {}
func (UpdateRecord) isEffect()  {}
func (DeleteRecord) isEffect()  {}
func (ExecuteSearch) isEffect() {}
func (ResetSearch) isEffect()   {}
