package chi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/consultdesk/internal/domain"
	logpkg "github.com/kailas-cloud/consultdesk/internal/logger"
	healthuc "github.com/kailas-cloud/consultdesk/internal/usecase/health"
	viewuc "github.com/kailas-cloud/consultdesk/internal/usecase/view"
	"github.com/kailas-cloud/consultdesk/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the operator console: a JSON surface over the view controller.
type Server struct {
	view          *viewuc.Controller
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates a console server.
func NewServer(view *viewuc.Controller, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		view:   view,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrInvalidTransition, http.StatusConflict, codeInvalidTransition),
		sentinelHandler(domain.ErrTransport, http.StatusBadGateway, codeUpstreamError),
	}
	return s
}

// Register mounts the console routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/view", s.GetView)
	r.Post("/view/create", s.StartCreate)
	r.Post("/view/edit/{id}", s.StartEdit)
	r.Post("/view/submit", s.Submit)
	r.Post("/view/cancel", s.Cancel)
	r.Delete("/consultations/{id}", s.DeleteConsultation)
	r.Post("/consultations/refresh", s.Refresh)
	r.Post("/search", s.Search)
	r.Post("/search/page/{page}", s.Paginate)
	r.Delete("/search", s.ClearSearch)
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// GetView handles GET /view.
func (s *Server) GetView(w http.ResponseWriter, _ *http.Request) {
	s.writeDisplay(w)
}

// StartCreate handles POST /view/create.
func (s *Server) StartCreate(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.view.StartCreate(r.Context()))
}

// StartEdit handles POST /view/edit/{id}.
func (s *Server) StartEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(w, r, "id")
	if !ok {
		return
	}
	s.respond(w, r, s.view.StartEdit(r.Context(), id))
}

// Submit handles POST /view/submit.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s.respond(w, r, s.view.Submit(r.Context(), req.Text))
}

// Cancel handles POST /view/cancel.
func (s *Server) Cancel(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.view.Cancel(r.Context()))
}

// DeleteConsultation handles DELETE /consultations/{id}.
func (s *Server) DeleteConsultation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(w, r, "id")
	if !ok {
		return
	}
	s.respond(w, r, s.view.Delete(r.Context(), id))
}

// Refresh handles POST /consultations/refresh.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.view.Refresh(r.Context()))
}

// Search handles POST /search. A missing threshold keeps the current one.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	threshold := s.view.State().Threshold
	if req.SimilarityThreshold != nil {
		threshold = *req.SimilarityThreshold
	}
	s.respond(w, r, s.view.Search(r.Context(), req.Query, threshold))
}

// Paginate handles POST /search/page/{page}.
func (s *Server) Paginate(w http.ResponseWriter, r *http.Request) {
	page, ok := pathInt64(w, r, "page")
	if !ok {
		return
	}
	if page > math.MaxInt32 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "page out of range")
		return
	}
	s.respond(w, r, s.view.Paginate(r.Context(), int(page)))
}

// ClearSearch handles DELETE /search.
func (s *Server) ClearSearch(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.view.ClearSearch(r.Context()))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

// respond writes the updated display, or maps err to an error response.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeDisplay(w)
}

func (s *Server) writeDisplay(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, displayToResponse(s.view.Display()))
}

// pathInt64 binds a simple-style integer path parameter, writing 400 on failure.
func pathInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	var v int64
	err := runtime.BindStyledParameterWithLocation(
		"simple", false, name, runtime.ParamLocationPath, chi.URLParam(r, name), &v,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid format for parameter "+name)
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// clientMessage returns the user-facing message for err. Remote messages are
// passed through verbatim; unexpected errors are not exposed.
func clientMessage(err error) string {
	var te *domain.TransportError
	if errors.As(err, &te) {
		return te.Message
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		return err.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler reports client-side validation failures with per-field messages.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	resp := errorResponse{Code: codeValidationFailed, Message: msg}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context(), s.logger)
	logger.Warn("domain error", zap.Error(err))
	msg := clientMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
