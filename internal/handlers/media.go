package handlers

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gamestore-web/apiserver/internal/logging"
	"github.com/gamestore-web/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	maxMultipartMemory = 32 << 20
	maxMediaBytes      = 64 << 20
	formFieldGameID    = "gameId"
	formFieldFile      = "file"
)

// MediaHandler serves game media descriptors and their bytes.
type MediaHandler struct {
	media  *services.MediaService
	logger *slog.Logger
}

func NewMediaHandler(media *services.MediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{media: media, logger: logger}
}

// MediaRouter registers media routes. Reads are public; uploads and deletes
// run behind admin.
func MediaRouter(r chi.Router, media *services.MediaService, logger *slog.Logger, admin ...func(http.Handler) http.Handler) {
	handler := NewMediaHandler(media, logger)

	r.Get("/all", handler.List)
	r.Get("/full/all", handler.ListFull)
	r.Get("/gameId/{gameID}", handler.GetByGame)
	r.Get("/{mediaID}", handler.Get)
	r.Get("/{mediaID}/content", handler.Content)
	r.Group(func(r chi.Router) {
		r.Use(admin...)
		r.Post("/", handler.Upload)
		r.Delete("/{mediaID}", handler.Delete)
	})
}

func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.media.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ListFull returns every descriptor with its game embedded.
func (h *MediaHandler) ListFull(w http.ResponseWriter, r *http.Request) {
	items, err := h.media.ListDetails(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "mediaID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.media.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "media not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *MediaHandler) GetByGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := parseIDParam(r, "gameID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.media.GetByGame(r.Context(), gameID)
	if err != nil {
		writeServiceError(w, h.logger, err, "media not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Content streams the stored file as an attachment.
func (h *MediaHandler) Content(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "mediaID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, body, err := h.media.Open(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "media not found")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", item.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(item.Size, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": item.FileName}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		logging.LogError(h.logger, "stream media failed", err)
	}
}

// Upload accepts a multipart form with a gameId field and exactly one file.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMediaBytes+maxMultipartMemory)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	gameID, err := uuid.Parse(strings.TrimSpace(r.FormValue(formFieldGameID)))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid gameId")
		return
	}

	files := r.MultipartForm.File[formFieldFile]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	if len(files) > 1 {
		writeError(w, http.StatusBadRequest, "only one file is allowed")
		return
	}
	header := files[0]
	if header.Size > maxMediaBytes {
		writeError(w, http.StatusBadRequest, "uploaded file too large")
		return
	}

	file, err := header.Open()
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	defer file.Close()

	item, err := h.media.Upload(r.Context(), gameID, services.MediaUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "game not found")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "mediaID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.media.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "media not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
