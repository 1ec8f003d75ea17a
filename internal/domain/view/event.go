package view

import "github.com/kailas-cloud/consultdesk/internal/domain/consultation"

// Event is a user action fed to the state machine.
type Event interface {
	Name() string
	isEvent()
}

// StartCreate opens an empty form.
type StartCreate struct{}

// StartEdit opens the form on an existing record.
type StartEdit struct {
	Record consultation.Consultation
}

// Submit saves the form: creates, or updates the edit target when one is set.
type Submit struct {
	Text string
}

// Cancel leaves the form without saving.
type Cancel struct{}

// Delete removes a record. Accepted in every mode.
type Delete struct {
	ID int64
}

// SubmitSearch starts a new search, or leaves search mode when Text is blank.
type SubmitSearch struct {
	Text      string
	Threshold float64
}

// Paginate moves the current search to another page.
type Paginate struct {
	Page int
}

// ClearSearch leaves search mode and drops the results.
type ClearSearch struct{}

func (StartCreate) Name() string  { return "start_create" }
func (StartEdit) Name() string    { return "start_edit" }
func (Submit) Name() string       { return "submit" }
func (Cancel) Name() string       { return "cancel" }
func (Delete) Name() string       { return "delete" }
func (SubmitSearch) Name() string { return "search" }
func (Paginate) Name() string     { return "paginate" }
func (ClearSearch) Name() string  { return "clear_search" }

func (StartCreate) isEvent()  {}
func (StartEdit) isEvent()    {}
func (Submit) isEvent()       {}
func (Cancel) isEvent()       {}
func (Delete) isEvent()       {}
func (SubmitSearch) isEvent() {}
func (Paginate) isEvent()     {}
func (ClearSearch) isEvent()  {}
