package get

import (
	"net/http"

	"github.com/a-h/lyricslides/models"
	"github.com/a-h/respond"
)

func New() Handler {
	return Handler{}
}

type Handler struct{}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.WithJSON(w, models.HealthResponse{Status: "ok"}, http.StatusOK)
}
