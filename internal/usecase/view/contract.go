package view

import (
	"context"

	"github.com/kailas-cloud/consultdesk/internal/domain/consultation"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/query"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/response"
	"github.com/kailas-cloud/consultdesk/internal/usecase/records"
	"github.com/kailas-cloud/consultdesk/internal/usecase/search"
)

// RecordStore is the record cache the controller commands.
type RecordStore interface {
	Load(ctx context.Context) error
	Invalidate(ctx context.Context) error
	Get(ctx context.Context, id int64) (consultation.Consultation, error)
	Create(ctx context.Context, text string) (consultation.Consultation, error)
	Update(ctx context.Context, id int64, text string) (consultation.Consultation, error)
	Delete(ctx context.Context, id int64) error
	Snapshot() records.State
}

// SearchSession is the search session the controller commands.
type SearchSession interface {
	Search(ctx context.Context, q query.Query) (response.Response, error)
	Clear()
	Snapshot() search.State
}
