package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/consultdesk/internal/domain/consultation"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/query"
	"github.com/kailas-cloud/consultdesk/internal/domain/search/response"
)

// timestampLayouts accepts RFC 3339 as well as the naive ISO-8601 values the
// service emits for timezone-less columns. Naive values are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// timestamp is a time.Time tolerant of the service's timestamp formats.
type timestamp time.Time

func (t *timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = timestamp(time.Time{})
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	parsed, err := parseTimestamp(s)
	if err != nil {
		return err
	}
	*t = timestamp(parsed)
	return nil
}

func (t timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp: unsupported format %q", s)
}

type consultationDTO struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt timestamp `json:"created_at"`
	UpdatedAt timestamp `json:"updated_at"`
}

func (d consultationDTO) toDomain() (consultation.Consultation, error) {
	c, err := consultation.New(d.ID, d.Text, time.Time(d.CreatedAt), time.Time(d.UpdatedAt))
	if err != nil {
		return consultation.Consultation{}, fmt.Errorf("decode consultation: %w", err)
	}
	return c, nil
}

// validator is implemented by response bodies that can fail domain checks
// after they decode.
type validator interface {
	validate() error
}

func (d consultationDTO) validate() error {
	_, err := d.toDomain()
	return err
}

type consultationListDTO []consultationDTO

func (l consultationListDTO) validate() error {
	for _, d := range l {
		if err := d.validate(); err != nil {
			return err
		}
	}
	return nil
}

type textRequest struct {
	Text string `json:"text"`
}

type searchRequest struct {
	Query               string  `json:"query"`
	Limit               int     `json:"limit"`
	Page                int     `json:"page"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

func searchRequestFromQuery(q query.Query) searchRequest {
	return searchRequest{
		Query:               q.Text(),
		Limit:               q.PageSize(),
		Page:                q.Page(),
		SimilarityThreshold: q.Threshold(),
	}
}

type searchResultDTO struct {
	consultationDTO
	Similarity float64 `json:"similarity"`
}

type searchResponseDTO struct {
	Results    []searchResultDTO `json:"results"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	HasNext    bool              `json:"has_next"`
	HasPrev    bool              `json:"has_prev"`
}

func (d searchResponseDTO) toDomain() (response.Response, error) {
	results := make([]response.Result, 0, len(d.Results))
	for _, r := range d.Results {
		c, err := r.consultationDTO.toDomain()
		if err != nil {
			return response.Response{}, err
		}
		results = append(results, response.NewResult(c, r.Similarity))
	}
	resp := response.Reconstruct(results, d.Total, d.Page, d.Limit, d.TotalPages, d.HasNext, d.HasPrev)
	if err := resp.CheckInvariants(); err != nil {
		return response.Response{}, fmt.Errorf("decode search response: %w", err)
	}
	return resp, nil
}

func (d searchResponseDTO) validate() error {
	_, err := d.toDomain()
	return err
}

// errorBody is the service's error envelope. Detail is a string for HTTP
// errors and a list of field errors for request validation failures.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldErrorDTO struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}
