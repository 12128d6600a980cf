package handlers

import (
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gamestore-web/apiserver/internal/logging"
	"github.com/gamestore-web/apiserver/internal/xmlrating"
	"github.com/go-chi/chi/v5"
)

const maxXMLBody = 1 << 20

var errReadBody = errors.New("failed to read request body")

// XMLHandler exposes the song request rating endpoints.
type XMLHandler struct {
	logger *slog.Logger
}

func NewXMLHandler(logger *slog.Logger) *XMLHandler {
	return &XMLHandler{logger: logger}
}

// XMLRouter registers the rating routes.
func XMLRouter(r chi.Router, logger *slog.Logger) {
	handler := NewXMLHandler(logger)

	r.Put("/increment-rating", handler.IncrementRating)
	r.Put("/increment-rating-from-xelement", handler.IncrementRatingTree)
}

// IncrementRating decodes a typed SongRequest and returns it with the
// rating raised by one.
func (h *XMLHandler) IncrementRating(w http.ResponseWriter, r *http.Request) {
	doc, err := xmlrating.Decode(http.MaxBytesReader(w, r.Body, maxXMLBody))
	if err != nil {
		writeXMLError(w, http.StatusBadRequest, err)
		return
	}
	out, err := xmlrating.IncrementRating(doc)
	h.respond(w, out, err)
}

// IncrementRatingTree validates Tag nodes on the raw element tree before
// raising the rating.
func (h *XMLHandler) IncrementRatingTree(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxXMLBody))
	if err != nil {
		writeXMLError(w, http.StatusBadRequest, errReadBody)
		return
	}
	out, err := xmlrating.IncrementRatingTree(data)
	h.respond(w, out, err)
}

func (h *XMLHandler) respond(w http.ResponseWriter, out string, err error) {
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, out)
	case xmlrating.IsRejection(err):
		writeXMLError(w, http.StatusConflict, err)
	default:
		h.logger.Debug("xml rating request rejected", "error", err)
		writeXMLError(w, http.StatusBadRequest, err)
	}
}

func writeXMLError(w http.ResponseWriter, status int, cause error) {
	body, err := xml.Marshal(xmlrating.NewErrorBody(cause))
	if err != nil {
		logging.LogError(slog.Default(), "encode xml error failed", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
