package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	statusOK       = "ok"
	statusDegraded = "unavailable"

	pingTimeout = 2 * time.Second
)

// Response ответ health-check
type Response struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

type Handler struct {
	deps   map[string]Pinger
	logger Logger
}

// NewHandler deps: имя зависимости -> проверка доступности
func NewHandler(deps map[string]Pinger, logger Logger) *Handler {
	return &Handler{
		deps:   deps,
		logger: logger,
	}
}

// Handle GET /healthz
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	resp := Response{Status: statusOK, Dependencies: make(map[string]string, len(h.deps))}
	for name, dep := range h.deps {
		if err := dep.PingContext(ctx); err != nil {
			h.logger.Warn("GET /healthz - %s unavailable: %v", name, err)
			resp.Dependencies[name] = statusDegraded
			resp.Status = statusDegraded
			continue
		}
		resp.Dependencies[name] = statusOK
	}

	code := http.StatusOK
	if resp.Status != statusOK {
		code = http.StatusServiceUnavailable
	}
	handlers.RespondJSON(w, code, resp)
}

// PingFunc адаптер функции к Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}
