package post

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/a-h/lyricslides/models"
	"github.com/a-h/respond"
)

type Generator interface {
	Generate(ctx context.Context, pageURL string) (models.GenerateResponse, error)
}

func New(log *slog.Logger, generator Generator) Handler {
	return Handler{
		log:       log,
		generator: generator,
	}
}

type Handler struct {
	log       *slog.Logger
	generator Generator
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.log.Error("failed to decode body", slog.Any("error", err))
		respond.WithJSON(w, models.ErrorResponse{Error: "failed to decode body: " + err.Error()}, http.StatusInternalServerError)
		return
	}
	if req.URL == "" {
		respond.WithJSON(w, models.ErrorResponse{Error: "Missing 'url' in request body"}, http.StatusBadRequest)
		return
	}

	resp, err := h.generator.Generate(r.Context(), req.URL)
	if err != nil {
		h.log.Error("failed to generate slides", slog.String("url", req.URL), slog.Any("error", err))
		respond.WithJSON(w, models.ErrorResponse{Error: err.Error()}, http.StatusInternalServerError)
		return
	}

	respond.WithJSON(w, resp, http.StatusOK)
}
