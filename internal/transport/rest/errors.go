package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kailas-cloud/consultdesk/internal/domain"
)

// classify maps an HTTP status to the status class the core distinguishes.
func classify(status int) domain.StatusClass {
	switch {
	case status == http.StatusNotFound:
		return domain.ClassNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return domain.ClassValidation
	default:
		return domain.ClassServer
	}
}

// decodeError builds a transport error from a non-2xx response. The message is
// the service's detail verbatim when present.
func decodeError(status int, body []byte) error {
	return domain.NewTransportError(classify(status), status, errorMessage(status, body))
}

func errorMessage(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Detail) > 0 {
		var detail string
		if json.Unmarshal(eb.Detail, &detail) == nil && detail != "" {
			return detail
		}
		var fields []fieldErrorDTO
		if json.Unmarshal(eb.Detail, &fields) == nil && len(fields) > 0 {
			parts := make([]string, 0, len(fields))
			for _, f := range fields {
				parts = append(parts, fieldPath(f.Loc)+": "+f.Msg)
			}
			return strings.Join(parts, "; ")
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 512 {
		return text
	}
	return http.StatusText(status)
}

// fieldPath renders a validation location without the leading "body" segment.
func fieldPath(loc []any) string {
	parts := make([]string, 0, len(loc))
	for i, l := range loc {
		s := fmt.Sprint(l)
		if i == 0 && (s == "body" || s == "query" || s == "path") && len(loc) > 1 {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ".")
}

// networkError wraps a failure to reach the service. Caller cancellation is
// returned as is; timeouts count as network failures.
// malformedResponse reports a 2xx body that could not be turned into domain values.
func malformedResponse(status int, err error) error {
	return domain.NewTransportError(domain.ClassServer, status, "malformed response: "+err.Error())
}

func networkError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return domain.NewTransportError(domain.ClassNetwork, 0, err.Error())
}

func errorClass(err error) string {
	var te *domain.TransportError
	if errors.As(err, &te) {
		return string(te.Class)
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "decode"
}
