// Package api HTTP JSON интерфейс к операциям со слотами и комнатами
package api

import (
	"net/http"

	"github.com/Freeeeeet/room_booking/internal/api/handler"
	"github.com/Freeeeeet/room_booking/internal/api/middleware"
	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

// Deps зависимости роутера. RateLimiter и Redis могут быть nil
type Deps struct {
	Booking     *service.BookingService
	Slots       *service.SlotService
	Rooms       *service.RoomService
	Store       service.Store
	Auth        *middleware.Authenticator
	RateLimiter *middleware.RateLimiter
	Redis       *redis.Client
	Gatherer    prometheus.Gatherer
	Logger      *zap.Logger
}

// NewRouter собирает все маршруты API
func NewRouter(d Deps) http.Handler {
	slots := handler.NewSlotHandler(d.Booking, d.Slots, d.Logger)
	rooms := handler.NewRoomHandler(d.Rooms, d.Logger)
	health := handler.NewHealthHandler(d.Store, d.Redis, d.Logger)

	staff := d.Auth.RequireRole(model.RoleStaff)
	student := d.Auth.RequireRole(model.RoleStudent)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /health/ready", health.Ready)
	mux.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /api/slot", slots.List)
	mux.HandleFunc("GET /api/slot/student/{studentId}", slots.ListByStudent)
	mux.HandleFunc("GET /api/slot/staff/{staffId}", slots.ListByStaff)
	mux.Handle("POST /api/slot", staff(http.HandlerFunc(slots.Create)))
	mux.Handle("PUT /api/slot/{roomName}/{startDate}/{startTime}", student(http.HandlerFunc(slots.Update)))
	mux.Handle("DELETE /api/slot/{roomName}/{startDate}/{startTime}", staff(http.HandlerFunc(slots.Delete)))

	mux.HandleFunc("GET /api/room", rooms.List)
	mux.Handle("POST /api/room", staff(http.HandlerFunc(rooms.Create)))

	chain := []middleware.Middleware{
		middleware.WithRequestID,
		middleware.WithAccessLog(d.Logger),
		middleware.WithBodyLimit(maxBodyBytes),
	}
	if d.RateLimiter != nil {
		chain = append(chain, d.RateLimiter.Middleware())
	}

	return middleware.Chain(mux, chain...)
}
