package records

import (
	"context"

	"github.com/kailas-cloud/consultdesk/internal/domain/consultation"
)

// Transport is the remote contract the record store consumes.
type Transport interface {
	ListConsultations(ctx context.Context, skip, limit int) ([]consultation.Consultation, error)
	GetConsultation(ctx context.Context, id int64) (consultation.Consultation, error)
	CreateConsultation(ctx context.Context, text string) (consultation.Consultation, error)
	UpdateConsultation(ctx context.Context, id int64, text string) (consultation.Consultation, error)
	DeleteConsultation(ctx context.Context, id int64) error
}
