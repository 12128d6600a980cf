package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gamestore-web/apiserver/internal/services"
	"github.com/gamestore-web/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CopyHandler provides purchase endpoints for authenticated users.
type CopyHandler struct {
	copies *services.CopyService
	logger *slog.Logger
}

func NewCopyHandler(copies *services.CopyService, logger *slog.Logger) *CopyHandler {
	return &CopyHandler{copies: copies, logger: logger}
}

// CopyRouter registers purchase routes behind authenticated.
func CopyRouter(r chi.Router, copies *services.CopyService, logger *slog.Logger, authenticated func(http.Handler) http.Handler) {
	handler := NewCopyHandler(copies, logger)

	r.Group(func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", handler.ListOwn)
		r.Post("/", handler.Purchase)
		r.Delete("/{copyID}", handler.Delete)
	})
}

// ListOwn returns the copies owned by the caller.
func (h *CopyHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	copies, err := h.copies.ListByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusOK, copies)
}

// Purchase buys a copy of a game for the caller.
func (h *CopyHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req PurchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.GameID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "gameId is required")
		return
	}

	c, err := h.copies.Purchase(r.Context(), userID, req.GameID)
	if err != nil {
		writeServiceError(w, h.logger, err, "game not found")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Delete removes a copy owned by the caller. Administrators may remove any
// copy; anyone else gets a conflict for copies they do not own.
func (h *CopyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := parseIDParam(r, "copyID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.copies.Delete(r.Context(), id, userID, claims.HasRole(types.RoleAdministrator)); err != nil {
		writeServiceError(w, h.logger, err, "copy not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type PurchaseRequest struct {
	GameID uuid.UUID `json:"gameId"`
}
