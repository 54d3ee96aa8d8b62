package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Pinger зависимость, доступность которой проверяет /health/ready
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store     Pinger
	redis     *redis.Client
	startTime time.Time
	logger    *zap.Logger
}

// NewHealthHandler создаёт обработчик health проверок. redis может быть nil
func NewHealthHandler(store Pinger, redisClient *redis.Client, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:     store,
		redis:     redisClient,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthResponse ответ health проверок
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health GET /health: процесс жив
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.response("UP", map[string]Check{"process": {Status: "UP"}}))
}

// Ready GET /health/ready: хранилище и Redis доступны
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]Check)
	status, httpStatus := "UP", http.StatusOK

	check := func(name string, ping func(context.Context) error) {
		if err := ping(ctx); err != nil {
			checks[name] = Check{Status: "DOWN", Message: err.Error()}
			status, httpStatus = "DOWN", http.StatusServiceUnavailable
			return
		}
		checks[name] = Check{Status: "UP"}
	}

	if h.store == nil {
		checks["store"] = Check{Status: "DOWN", Message: "not configured"}
		status, httpStatus = "DOWN", http.StatusServiceUnavailable
	} else {
		check("store", h.store.Ping)
	}

	if h.redis != nil {
		check("redis", func(ctx context.Context) error { return h.redis.Ping(ctx).Err() })
	}

	writeJSON(w, h.logger, httpStatus, h.response(status, checks))
}

func (h *HealthHandler) response(status string, checks map[string]Check) HealthResponse {
	return HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    checks,
	}
}
