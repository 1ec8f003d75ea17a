package search

import (
	"context"

	"github.com/kailas-cloud/consultdesk/internal/domain/search/query"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/response"
)

// Transport is the remote similarity search contract.
type Transport interface {
	SearchConsultations(ctx context.Context, q query.Query) (response.Response, error)
}
