package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// NamedService manages a catalog of uniquely named records such as roles
// and genres.
type NamedService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uuid.UUID) (T, error)
	GetByName(ctx context.Context, name string) (T, error)
	Create(ctx context.Context, name string) (T, error)
	Update(ctx context.Context, id uuid.UUID, name string) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByName(ctx context.Context, name string) error
}

// NamedHandler serves one named catalog.
type NamedHandler[T any] struct {
	service NamedService[T]
	kind    string
	logger  *slog.Logger
}

// NewNamedHandler constructs a handler; kind names the record in error
// messages.
func NewNamedHandler[T any](service NamedService[T], kind string, logger *slog.Logger) *NamedHandler[T] {
	return &NamedHandler[T]{service: service, kind: kind, logger: logger}
}

// NamedRouter registers the catalog routes. Every route runs behind guard.
func NamedRouter[T any](r chi.Router, service NamedService[T], kind string, logger *slog.Logger, guard ...func(http.Handler) http.Handler) {
	handler := NewNamedHandler(service, kind, logger)

	r.Group(func(r chi.Router) {
		r.Use(guard...)
		r.Get("/all", handler.List)
		r.Get("/", handler.GetByName)
		r.Post("/", handler.Create)
		r.Delete("/", handler.DeleteByName)
		r.Get("/{id}", handler.Get)
		r.Put("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
	})
}

func (h *NamedHandler[T]) notFound() string {
	return h.kind + " not found"
}

func (h *NamedHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *NamedHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, h.notFound())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// GetByName looks a record up by the name query parameter.
func (h *NamedHandler[T]) GetByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	item, err := h.service.GetByName(r.Context(), name)
	if err != nil {
		writeServiceError(w, h.logger, err, h.notFound())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *NamedHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var req NamedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.service.Create(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *NamedHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req NamedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.service.Update(r.Context(), id, strings.TrimSpace(req.Name))
	if err != nil {
		writeServiceError(w, h.logger, err, h.notFound())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *NamedHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, h.notFound())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NamedHandler[T]) DeleteByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := h.service.DeleteByName(r.Context(), name); err != nil {
		writeServiceError(w, h.logger, err, h.notFound())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type NamedRequest struct {
	Name string `json:"name"`
}
