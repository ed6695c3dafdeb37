package platform

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

// Handler exposes platform HTTP endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/platforms", func(r chi.Router) {
		r.Get("/", h.listPlatforms)          // GET  /platforms
		r.Post("/", h.createPlatform)        // POST /platforms
		r.Get("/{id:[0-9]+}", h.getPlatform) // GET  /platforms/{id}
	})
}

func (h *Handler) listPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.service.ListPlatforms(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list platforms failed", "error", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": "could not list platforms"})
		return
	}
	respond(w, http.StatusOK, platforms)
}

func (h *Handler) getPlatform(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": ErrNotFound.Error()})
		return
	}
	p, err := h.service.GetPlatform(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.logger.InfoContext(r.Context(), "platform lookup missed", "platform_id", id)
			respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		h.logger.ErrorContext(r.Context(), "get platform failed", "platform_id", id, "error", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": "could not get platform"})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) createPlatform(w http.ResponseWriter, r *http.Request) {
	var req CreatePlatformRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "malformed request body: " + err.Error()})
		return
	}

	res, err := h.service.CreatePlatform(r.Context(), req)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			respond(w, http.StatusBadRequest, map[string]interface{}{"error": ve.Reason, "fields": ve.Fields})
			return
		}
		respond(w, http.StatusInternalServerError, map[string]string{"error": "could not create platform"})
		return
	}
	w.Header().Set("Location", res.Location)
	respond(w, http.StatusCreated, res.Platform)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
