package handlers

import (
	"context"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	msgInternalError = "❌ Произошла ошибка. Попробуйте позже."
	msgNotRegistered = "❌ Аккаунт не найден. Зарегистрируйтесь: /register <номер> <имя> <фамилия>"
	msgStaffOnly     = "❌ Эта команда доступна только сотрудникам."
	msgStudentOnly   = "❌ Эта команда доступна только студентам."
)

// requireAccount проверяет что к Telegram пользователю привязан аккаунт
// Возвращает account и true если OK, nil и false если нет
func (h *Handlers) requireAccount(ctx context.Context, b *bot.Bot, update *models.Update) (*model.Account, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}

	telegramID := update.Message.From.ID
	account, err := h.accountService.GetByTelegramID(ctx, telegramID)

	if err != nil {
		h.logger.Error("Failed to get account", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, msgInternalError)
		return nil, false
	}

	if account == nil {
		h.sendError(ctx, b, update.Message.Chat.ID, msgNotRegistered)
		return nil, false
	}

	return account, true
}

// requireRole проверяет что аккаунт имеет нужную роль
func (h *Handlers) requireRole(ctx context.Context, b *bot.Bot, update *models.Update, role model.Role) (*model.Account, bool) {
	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		return nil, false
	}

	if account.Role != role {
		text := msgStaffOnly
		if role == model.RoleStudent {
			text = msgStudentOnly
		}
		h.sendError(ctx, b, update.Message.Chat.ID, text)
		return nil, false
	}

	return account, true
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
