package rest

import (
	"context"
	"net/http"

	"github.com/kailas-cloud/consultdesk/internal/domain/consultation"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/query"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/response"
	"github.com/kailas-cloud/consultdesk/internal/metrics"
)

// ListConsultations handles GET /consultations.
func (c *Client) ListConsultations(ctx context.Context, skip, limit int) ([]consultation.Consultation, error) {
	q, err := formQuery(map[string]any{"skip": skip, "limit": limit})
	if err != nil {
		return nil, err
	}

	var dtos consultationListDTO
	if err := c.do(ctx, "list", http.MethodGet, c.endpoint("/consultations", q), nil, &dtos); err != nil {
		return nil, err
	}

	out := make([]consultation.Consultation, 0, len(dtos))
	for _, d := range dtos {
		rec, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// GetConsultation handles GET /consultations/{id}.
func (c *Client) GetConsultation(ctx context.Context, id int64) (consultation.Consultation, error) {
	p, err := pathID(id)
	if err != nil {
		return consultation.Consultation{}, err
	}
	var dto consultationDTO
	if err := c.do(ctx, "get", http.MethodGet, c.endpoint("/consultations/"+p, nil), nil, &dto); err != nil {
		return consultation.Consultation{}, err
	}
	return dto.toDomain()
}

// CreateConsultation handles POST /consultations.
func (c *Client) CreateConsultation(ctx context.Context, text string) (consultation.Consultation, error) {
	var dto consultationDTO
	err := c.do(ctx, "create", http.MethodPost, c.endpoint("/consultations", nil), textRequest{Text: text}, &dto)
	if err != nil {
		return consultation.Consultation{}, err
	}
	return dto.toDomain()
}

// UpdateConsultation handles PUT /consultations/{id}.
func (c *Client) UpdateConsultation(ctx context.Context, id int64, text string) (consultation.Consultation, error) {
	p, err := pathID(id)
	if err != nil {
		return consultation.Consultation{}, err
	}
	var dto consultationDTO
	err = c.do(ctx, "update", http.MethodPut, c.endpoint("/consultations/"+p, nil), textRequest{Text: text}, &dto)
	if err != nil {
		return consultation.Consultation{}, err
	}
	return dto.toDomain()
}

// DeleteConsultation handles DELETE /consultations/{id}.
func (c *Client) DeleteConsultation(ctx context.Context, id int64) error {
	p, err := pathID(id)
	if err != nil {
		return err
	}
	return c.do(ctx, "delete", http.MethodDelete, c.endpoint("/consultations/"+p, nil), nil, nil)
}

// SearchConsultations handles POST /consultations/search.
func (c *Client) SearchConsultations(ctx context.Context, q query.Query) (response.Response, error) {
	var dto searchResponseDTO
	err := c.do(ctx, "search", http.MethodPost, c.endpoint("/consultations/search", nil), searchRequestFromQuery(q), &dto)
	if err != nil {
		return response.Response{}, err
	}
	resp, err := dto.toDomain()
	if err != nil {
		return response.Response{}, err
	}
	metrics.SearchResultsReturned.Observe(float64(len(dto.Results)))
	return resp, nil
}

// HealthCheck handles GET /health. Any 2xx answer counts as alive.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, c.endpoint("/health", nil), nil, nil)
}
