// Package api exposes HTTP handlers for the roster service.
package api

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"go.uber.org/zap"

	"example.com/mergington/internal/domain"
)

//go:embed static
var staticFiles embed.FS

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	logger  *zap.Logger
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", rootRedirect)
	mux.HandleFunc("GET /static/index.html", servePage(staticRoot(), "index.html"))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticRoot())))
	mux.HandleFunc("GET /activities", h.listActivities)
	mux.HandleFunc("POST /activities/{activity}/signup", h.signup)
	mux.HandleFunc("DELETE /activities/{activity}/participants/{email}", h.removeParticipant)
	mux.HandleFunc("GET /healthz", healthz)
}

func staticRoot() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// servePage writes an HTML page from fsys directly; http.FileServer would
// redirect /static/index.html to /static/.
func servePage(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := fs.ReadFile(fsys, name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	}
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func rootRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	activities := h.service.ListActivities(r.Context())

	resp := make(ListActivitiesResponse, len(activities))
	for name, activity := range activities {
		resp[name] = toActivityView(activity)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	activity := r.PathValue("activity")
	email := r.URL.Query().Get("email")

	if err := h.service.Signup(r.Context(), activity, email); err != nil {
		h.writeDomainError(w, "signup", activity, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, activity),
	})
}

func (h *Handler) removeParticipant(w http.ResponseWriter, r *http.Request) {
	activity := r.PathValue("activity")
	email := r.PathValue("email")

	if err := h.service.Remove(r.Context(), activity, email); err != nil {
		h.writeDomainError(w, "remove", activity, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Removed %s from %s", email, activity),
	})
}

func (h *Handler) writeDomainError(w http.ResponseWriter, operation, activity string, err error) {
	status, code, detail := classify(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("roster operation failed", zap.String("operation", operation), zap.String("activity", activity), zap.Error(err))
	} else {
		h.logger.Debug("roster operation rejected", zap.String("operation", operation), zap.String("activity", activity), zap.String("reason", code))
	}
	writeError(w, status, code, detail)
}

// classify maps roster failures to a status code, an error type and the user-facing detail.
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrActivityNotFound):
		return http.StatusNotFound, "not_found", "Activity not found"
	case errors.Is(err, domain.ErrParticipantNotFound):
		return http.StatusNotFound, "not_found", "Participant not found in this activity"
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return http.StatusBadRequest, "already_registered", "Student is already signed up"
	case errors.Is(err, domain.ErrActivityFull):
		return http.StatusBadRequest, "activity_full", "Activity is full"
	case errors.Is(err, domain.ErrInvalidParticipant):
		return http.StatusBadRequest, "validation_failed", "email is required"
	default:
		return http.StatusInternalServerError, "server_error", err.Error()
	}
}

// ActivityView is the wire representation of one activity.
type ActivityView struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// ListActivitiesResponse maps activity names to their details.
type ListActivitiesResponse map[string]ActivityView

// MessageResponse confirms a roster change.
type MessageResponse struct {
	Message string `json:"message"`
}

func toActivityView(a domain.Activity) ActivityView {
	participants := a.Participants
	if participants == nil {
		participants = []string{}
	}
	return ActivityView{
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
		Participants:    participants,
	}
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
