package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gamestore-web/apiserver/internal/services"
	"github.com/gamestore-web/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// GameHandler provides catalog endpoints.
type GameHandler struct {
	games  *services.GameService
	logger *slog.Logger
}

// NewGameHandler constructs a GameHandler with the provided dependencies.
func NewGameHandler(games *services.GameService, logger *slog.Logger) *GameHandler {
	return &GameHandler{games: games, logger: logger}
}

// GameRouter registers catalog routes. Reads are public; the full views and
// every write run behind admin.
func GameRouter(r chi.Router, games *services.GameService, logger *slog.Logger, admin ...func(http.Handler) http.Handler) {
	handler := NewGameHandler(games, logger)

	r.Get("/all", handler.List)
	r.Group(func(r chi.Router) {
		r.Use(admin...)
		r.Get("/full/all", handler.ListFull)
		r.Get("/full/{gameID}", handler.GetFull)
		r.Post("/", handler.Create)
		r.Put("/{gameID}", handler.Update)
		r.Delete("/{gameID}", handler.Delete)
	})
	r.Get("/{gameID}", handler.Get)
}

// List returns the catalog. Query parameters: genre, name, onSale,
// orderBy (name|price|createdate) and ascending (default true).
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseGameFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	games, err := h.games.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "gameID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	game, err := h.games.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "game not found")
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// ListFull accepts the same query parameters as List.
func (h *GameHandler) ListFull(w http.ResponseWriter, r *http.Request) {
	filter, err := parseGameFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	games, err := h.games.ListDetails(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *GameHandler) GetFull(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "gameID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	game, err := h.games.GetDetail(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "game not found")
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	game, err := h.games.Create(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

// Update replaces the game fields. A missing or null gameGenreNames field
// keeps the current genres.
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "gameID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req GameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	game, err := h.games.Update(r.Context(), id, req.input())
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "gameID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.games.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "game not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type GameRequest struct {
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Price          float64        `json:"price"`
	OnSale         bool           `json:"onSale"`
	ReleaseDate    jsonDate       `json:"releaseDate"`
	GameGenreNames types.NameList `json:"gameGenreNames"`
}

func (req GameRequest) input() services.GameInput {
	return services.GameInput{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		OnSale:      req.OnSale,
		ReleaseDate: req.ReleaseDate.Time,
		Genres:      req.GameGenreNames,
	}
}

func parseGameFilter(r *http.Request) (types.GameFilter, error) {
	q := r.URL.Query()
	filter := types.GameFilter{
		Genre:   strings.TrimSpace(q.Get("genre")),
		Name:    strings.TrimSpace(q.Get("name")),
		OrderBy: strings.TrimSpace(q.Get("orderBy")),
	}

	if raw := strings.TrimSpace(q.Get("onSale")); raw != "" {
		onSale, err := strconv.ParseBool(raw)
		if err != nil {
			return types.GameFilter{}, errors.New("invalid onSale")
		}
		filter.OnSale = &onSale
	}
	if raw := strings.TrimSpace(q.Get("ascending")); raw != "" {
		ascending, err := strconv.ParseBool(raw)
		if err != nil {
			return types.GameFilter{}, errors.New("invalid ascending")
		}
		filter.Descending = !ascending
	}
	return filter, nil
}
