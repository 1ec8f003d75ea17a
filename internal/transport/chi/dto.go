package chi

import (
	"time"

	viewuc "github.com/kailas-cloud/consultdesk/internal/usecase/view"
)

// errorCode is the machine-readable error code of a console error response.
type errorCode string

const (
	codeBadRequest        errorCode = "bad_request"
	codeUnauthorized      errorCode = "unauthorized"
	codeValidationFailed  errorCode = "validation_failed"
	codeNotFound          errorCode = "not_found"
	codeInvalidTransition errorCode = "invalid_transition"
	codeUpstreamError     errorCode = "upstream_error"
	codeInternalError     errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode         `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type submitRequest struct {
	Text string `json:"text"`
}

type searchRequest struct {
	Query               string   `json:"query"`
	SimilarityThreshold *float64 `json:"similarity_threshold,omitempty"`
}

type itemResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Similarity *float64  `json:"similarity,omitempty"`
}

type searchStateResponse struct {
	Text       string  `json:"text"`
	Threshold  float64 `json:"similarity_threshold"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
	HasNext    bool    `json:"has_next"`
	HasPrev    bool    `json:"has_prev"`
}

type busyResponse struct {
	Loading   bool `json:"loading"`
	Creating  bool `json:"creating"`
	Updating  bool `json:"updating"`
	Deleting  bool `json:"deleting"`
	Searching bool `json:"searching"`
}

type displayResponse struct {
	Mode    string              `json:"mode"`
	Items   []itemResponse      `json:"items"`
	Total   int                 `json:"total"`
	Search  searchStateResponse `json:"search"`
	Editing *itemResponse       `json:"editing,omitempty"`
	Busy    busyResponse        `json:"busy"`
	Error   string              `json:"error,omitempty"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}

func displayToResponse(d viewuc.Display) displayResponse {
	items := make([]itemResponse, len(d.Items))
	for i, it := range d.Items {
		items[i] = itemResponse{
			ID:        it.ID(),
			Text:      it.Text(),
			CreatedAt: it.CreatedAt(),
			UpdatedAt: it.UpdatedAt(),
		}
		if it.Scored {
			sim := it.Similarity
			items[i].Similarity = &sim
		}
	}

	resp := displayResponse{
		Mode:  string(d.Mode),
		Items: items,
		Total: d.Total,
		Search: searchStateResponse{
			Text:       d.SearchText,
			Threshold:  d.Threshold,
			Page:       d.Page,
			TotalPages: d.TotalPages,
			HasNext:    d.HasNext,
			HasPrev:    d.HasPrev,
		},
		Busy: busyResponse{
			Loading:   d.Loading,
			Creating:  d.Creating,
			Updating:  d.Updating,
			Deleting:  d.Deleting,
			Searching: d.Searching,
		},
	}
	if !d.Editing.IsZero() {
		resp.Editing = &itemResponse{
			ID:        d.Editing.ID(),
			Text:      d.Editing.Text(),
			CreatedAt: d.Editing.CreatedAt(),
			UpdatedAt: d.Editing.UpdatedAt(),
		}
	}
	if d.Err != nil {
		resp.Error = clientMessage(d.Err)
	}
	return resp
}
