package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/vedran77/vidtube/internal/logging"
	"github.com/vedran77/vidtube/internal/transport/http/response"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("healthcheck: store unreachable")
		response.Error(w, http.StatusServiceUnavailable, "Database unreachable")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"}, "OK")
}
