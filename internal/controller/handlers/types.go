package handlers

import (
	"time"

	"github.com/Freeeeeet/room_booking/internal/controller/state"
	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/service"
	"go.uber.org/zap"
)

// TokenTTL срок действия API токена, выданного через /token
const TokenTTL = 24 * time.Hour

// TokenIssuer выпускает токены для HTTP API
type TokenIssuer interface {
	IssueToken(actor model.Actor, ttl time.Duration) (string, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	accountService *service.AccountService
	roomService    *service.RoomService
	slotService    *service.SlotService
	bookingService *service.BookingService
	tokens         TokenIssuer
	stateManager   *state.Manager
	logger         *zap.Logger
	now            func() time.Time
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	accountService *service.AccountService,
	roomService *service.RoomService,
	slotService *service.SlotService,
	bookingService *service.BookingService,
	tokens TokenIssuer,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		accountService: accountService,
		roomService:    roomService,
		slotService:    slotService,
		bookingService: bookingService,
		tokens:         tokens,
		stateManager:   stateManager,
		logger:         logger,
		now:            time.Now,
	}
}
