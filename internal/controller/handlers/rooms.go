package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/room_booking/internal/controller/state"
	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleRooms показывает список комнат
func (h *Handlers) HandleRooms(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, h.listRooms(ctx))
}

// HandleAddRoom обрабатывает команду /addroom (сотрудник)
func (h *Handlers) HandleAddRoom(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireRole(ctx, b, update, model.RoleStaff)
	if !ok {
		return
	}
	h.promptOrRun(ctx, b, update, account, state.StateAddRoom,
		"🏫 Введите имя новой комнаты:", h.addRoom)
}

func (h *Handlers) listRooms(ctx context.Context) string {
	rooms, err := h.roomService.ListRooms(ctx)
	if err != nil {
		h.logger.Error("Failed to list rooms", zap.Error(err))
		return msgInternalError
	}
	if len(rooms) == 0 {
		return "🏫 Комнат пока нет."
	}

	names := make([]string, 0, len(rooms))
	for _, room := range rooms {
		names = append(names, room.ID)
	}
	return "🏫 Комнаты: " + strings.Join(names, ", ")
}

func (h *Handlers) addRoom(ctx context.Context, account *model.Account, args string) string {
	room, violations, err := h.roomService.CreateRoom(ctx, strings.ToUpper(strings.TrimSpace(args)))
	if err != nil {
		h.logger.Error("Failed to create room", zap.String("account_id", account.ID), zap.Error(err))
		return msgInternalError
	}
	if !violations.Empty() {
		return formatViolations(violations)
	}
	return fmt.Sprintf("✅ Комната %s добавлена.", room.ID)
}
