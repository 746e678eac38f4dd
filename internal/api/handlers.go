// Package api exposes HTTP handlers for the agenda.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"example.com/agenda/internal/auth"
	"example.com/agenda/internal/domain"
	"example.com/agenda/internal/export"
)

// Handler coordinates HTTP requests with the activity store and exporter.
type Handler struct {
	service  *domain.Service
	exporter *export.Exporter
	// requireAuth is set when the auth middleware wraps the mux.
	requireAuth bool
	today       func() domain.Date
	logger      *zap.Logger
}

// Option customises a Handler.
type Option func(*Handler)

// WithAuth makes handlers enforce token scopes.
func WithAuth() Option {
	return func(h *Handler) { h.requireAuth = true }
}

// WithToday overrides the day used to validate new activities.
func WithToday(today func() domain.Date) Option {
	return func(h *Handler) { h.today = today }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, exporter *export.Exporter, opts ...Option) *Handler {
	h := &Handler{
		service:  service,
		exporter: exporter,
		today:    func() domain.Date { return domain.DateOf(time.Now()) },
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/activities", h.activities)
	mux.HandleFunc("/v1/activities/", h.activityByID)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createActivity(w, r)
	case http.MethodGet:
		h.listActivities(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) activityByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/activities/"), "/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing activity id")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.getActivity(w, r, id)
	case action == "" && r.Method == http.MethodPut:
		h.updateActivity(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		h.deleteActivity(w, r, id)
	case action == "complete" && r.Method == http.MethodPost:
		h.setCompleted(w, r, id, true)
	case action == "restore" && r.Method == http.MethodPost:
		h.setCompleted(w, r, id, false)
	case action == "export" && r.Method == http.MethodPost:
		h.exportActivity(w, r, id)
	case action == "document" && r.Method == http.MethodGet:
		h.downloadDocument(w, r, id)
	case action == "" || action == "complete" || action == "restore" || action == "export" || action == "document":
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
	}
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, auth.ScopeActivitiesRead) {
		return
	}

	var (
		activities []domain.Activity
		err        error
	)
	switch status := r.URL.Query().Get("status"); status {
	case "", "all":
		activities, err = h.service.LoadAll(r.Context())
	case "pending":
		activities, err = h.service.LoadPending(r.Context())
	case "completed":
		activities, err = h.service.LoadCompleted(r.Context())
	default:
		writeError(w, http.StatusBadRequest, "validation_failed", "status must be all, pending or completed")
		return
	}
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	items := make([]ActivityView, 0, len(activities))
	for _, a := range activities {
		items = append(items, toActivityView(a))
	}
	writeJSON(w, http.StatusOK, ListActivitiesResponse{Items: items})
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, auth.ScopeActivitiesWrite) {
		return
	}
	activity, ok := h.decodeActivity(w, r)
	if !ok {
		return
	}

	stored, err := h.service.SaveNew(r.Context(), activity)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toActivityView(*stored))
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request, id string) {
	if !h.authorize(w, r, auth.ScopeActivitiesRead) {
		return
	}
	activity, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityView(*activity))
}

func (h *Handler) updateActivity(w http.ResponseWriter, r *http.Request, id string) {
	if !h.authorize(w, r, auth.ScopeActivitiesWrite) {
		return
	}
	updated, ok := h.decodeActivity(w, r)
	if !ok {
		return
	}
	updated.ID = id

	existing, err := h.service.Get(r.Context(), id)
	switch {
	case err == nil:
		updated.Completed = existing.Completed
		updated.CompletedAt = existing.CompletedAt
	case !errors.Is(err, domain.ErrActivityNotFound):
		h.writeStoreError(w, err)
		return
	}

	stored, err := h.service.Update(r.Context(), domain.Activity{ID: id}, updated)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityView(*stored))
}

func (h *Handler) deleteActivity(w http.ResponseWriter, r *http.Request, id string) {
	if !h.authorize(w, r, auth.ScopeActivitiesWrite) {
		return
	}
	if _, err := h.service.Delete(r.Context(), domain.Activity{ID: id}); err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setCompleted(w http.ResponseWriter, r *http.Request, id string, completed bool) {
	if !h.authorize(w, r, auth.ScopeActivitiesWrite) {
		return
	}
	probe := domain.Activity{ID: id}
	var err error
	if completed {
		_, err = h.service.MarkCompleted(r.Context(), probe)
	} else {
		_, err = h.service.MarkPending(r.Context(), probe)
	}
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.getActivity(w, r, id)
}

func (h *Handler) exportActivity(w http.ResponseWriter, r *http.Request, id string) {
	if !h.authorize(w, r, auth.ScopeActivitiesWrite) {
		return
	}
	activity, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	path, err := h.exporter.Export(r.Context(), *activity, r.URL.Query().Get("format"))
	if err != nil {
		h.writeExportError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ExportResponse{Path: path})
}

func (h *Handler) downloadDocument(w http.ResponseWriter, r *http.Request, id string) {
	if !h.authorize(w, r, auth.ScopeActivitiesRead) {
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeExportError(w, err)
		return
	}
	activity, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	data, err := h.exporter.Render(*activity, format)
	if err != nil {
		h.writeExportError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.exporter.FileName(*activity, format)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) decodeActivity(w http.ResponseWriter, r *http.Request) (domain.Activity, bool) {
	var req ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return domain.Activity{}, false
	}
	activity, err := req.toActivity()
	if err == nil {
		err = activity.Validate(h.today())
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return domain.Activity{}, false
	}
	return activity, true
}

// authorize enforces scope when auth is enabled; the middleware has already
// rejected requests without a valid token.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, scope string) bool {
	if !h.requireAuth {
		return true
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	if !claims.HasScope(scope) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
		return false
	}
	return true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "not_found", "activity not found")
	case errors.Is(err, domain.ErrCorruptData):
		h.logger.Error("activity file is corrupt", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "corrupt_data", err.Error())
	default:
		h.logger.Error("activity store failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func (h *Handler) writeExportError(w http.ResponseWriter, err error) {
	if errors.Is(err, export.ErrUnsupportedFormat) {
		writeError(w, http.StatusBadRequest, "unsupported_format", err.Error())
		return
	}
	h.logger.Error("export failure", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "server_error", err.Error())
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
