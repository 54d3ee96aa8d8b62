package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/room_booking/internal/controller/state"
	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCreate обрабатывает команду /create (сотрудник)
func (h *Handlers) HandleCreate(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireRole(ctx, b, update, model.RoleStaff)
	if !ok {
		return
	}
	h.promptOrRun(ctx, b, update, account, state.StateCreateSlot,
		"➕ Какой слот создать?\n"+slotArgsHint, h.createSlot)
}

// HandleRemove обрабатывает команду /remove (сотрудник)
func (h *Handlers) HandleRemove(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireRole(ctx, b, update, model.RoleStaff)
	if !ok {
		return
	}
	h.promptOrRun(ctx, b, update, account, state.StateRemoveSlot,
		"🗑 Какой слот удалить?\n"+slotArgsHint, h.removeSlot)
}

// HandleBook обрабатывает команду /book (студент)
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireRole(ctx, b, update, model.RoleStudent)
	if !ok {
		return
	}
	h.promptOrRun(ctx, b, update, account, state.StateBookSlot,
		"📝 Какой слот забронировать?\n"+slotArgsHint, h.bookSlot)
}

// HandleUnbook обрабатывает команду /unbook (студент)
func (h *Handlers) HandleUnbook(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireRole(ctx, b, update, model.RoleStudent)
	if !ok {
		return
	}
	h.promptOrRun(ctx, b, update, account, state.StateCancelBooking,
		"↩️ Какую бронь отменить?\n"+slotArgsHint, h.cancelBooking)
}

// HandleSlots показывает слоты за день
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, h.daySlots(ctx, commandArgs(update.Message.Text)))
}

// HandleMyBookings показывает брони студента или слоты сотрудника
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, h.mySlots(ctx, account))
}

func (h *Handlers) createSlot(ctx context.Context, account *model.Account, args string) string {
	roomID, start, err := parseSlotArgs(args)
	if err != nil {
		return "❌ Не удалось разобрать слот.\n" + slotArgsHint
	}

	result, err := h.bookingService.Create(ctx, model.CreateSlot{
		RoomID:    roomID,
		StartTime: start,
		StaffID:   account.ID,
	})
	if text, done := h.slotOutcome(result, err, account); done {
		return text
	}
	return fmt.Sprintf("✅ Слот создан: %s", formatSlot(result.Slot))
}

func (h *Handlers) removeSlot(ctx context.Context, account *model.Account, args string) string {
	roomID, start, err := parseSlotArgs(args)
	if err != nil {
		return "❌ Не удалось разобрать слот.\n" + slotArgsHint
	}

	result, err := h.bookingService.Remove(ctx, model.RemoveSlot{
		RoomID:    roomID,
		StartTime: start,
		StaffID:   account.ID,
	})
	if text, done := h.slotOutcome(result, err, account); done {
		return text
	}
	return fmt.Sprintf("🗑 Слот %s %s удалён.", roomID, model.FormatDateShortHour(start))
}

func (h *Handlers) bookSlot(ctx context.Context, account *model.Account, args string) string {
	roomID, start, err := parseSlotArgs(args)
	if err != nil {
		return "❌ Не удалось разобрать слот.\n" + slotArgsHint
	}

	result, err := h.bookingService.Book(ctx, model.BookSlot{
		RoomID:    roomID,
		StartTime: start,
		StudentID: account.ID,
	})
	if text, done := h.slotOutcome(result, err, account); done {
		return text
	}
	return fmt.Sprintf("✅ Слот забронирован: %s", formatSlot(result.Slot))
}

func (h *Handlers) cancelBooking(ctx context.Context, account *model.Account, args string) string {
	roomID, start, err := parseSlotArgs(args)
	if err != nil {
		return "❌ Не удалось разобрать слот.\n" + slotArgsHint
	}

	result, err := h.bookingService.Cancel(ctx, model.CancelSlot{
		RoomID:    roomID,
		StartTime: start,
		StudentID: account.ID,
	})
	if text, done := h.slotOutcome(result, err, account); done {
		return text
	}
	return fmt.Sprintf("↩️ Бронь %s %s отменена.", roomID, model.FormatDateShortHour(start))
}

// slotOutcome переводит ошибку или нарушения операции в ответ пользователю.
// done == false значит операция выполнена.
func (h *Handlers) slotOutcome(result *service.Result, err error, account *model.Account) (string, bool) {
	switch {
	case errors.Is(err, service.ErrUnknownAccount):
		return msgNotRegistered, true
	case err != nil:
		h.logger.Error("Slot operation failed", zap.String("account_id", account.ID), zap.Error(err))
		return msgInternalError, true
	case !result.OK():
		return formatViolations(result.Violations), true
	default:
		return "", false
	}
}

func (h *Handlers) daySlots(ctx context.Context, args string) string {
	day, err := parseDay(args, h.now())
	if err != nil {
		return "❌ Дата должна быть в формате дд-мм-гггг."
	}

	slots, err := h.slotService.ListByDay(ctx, day)
	if err != nil {
		h.logger.Error("Failed to list slots", zap.Time("day", day), zap.Error(err))
		return msgInternalError
	}
	return formatSlots(fmt.Sprintf("📅 Слоты на %s:", model.FormatDate(day)), slots)
}

func (h *Handlers) mySlots(ctx context.Context, account *model.Account) string {
	var (
		slots      []model.Slot
		violations model.Violations
		err        error
		title      string
	)
	if account.IsStaff() {
		slots, violations, err = h.slotService.ListByStaff(ctx, account.ID)
		title = "🗓 Ваши слоты:"
	} else {
		slots, violations, err = h.slotService.ListByStudent(ctx, account.ID)
		title = "📅 Ваши брони:"
	}

	if err != nil {
		h.logger.Error("Failed to list account slots", zap.String("account_id", account.ID), zap.Error(err))
		return msgInternalError
	}
	if !violations.Empty() {
		return formatViolations(violations)
	}
	return formatSlots(title, slots)
}
