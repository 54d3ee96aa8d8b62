package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/room_booking/internal/controller/render"
	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleWeek присылает картинку недели со всеми слотами
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	imageData, caption, err := h.weekImage(ctx, commandArgs(update.Message.Text))
	if err != nil {
		h.sendError(ctx, b, chatID, caption)
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(imageData)},
		Caption: caption,
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// weekImage возвращает PNG и подпись. При ошибке подпись это текст для пользователя.
func (h *Handlers) weekImage(ctx context.Context, args string) ([]byte, string, error) {
	now := h.now().UTC()
	day, err := parseDay(args, now)
	if err != nil {
		return nil, "❌ Дата должна быть в формате дд-мм-гггг.", err
	}

	from, to := render.WeekBounds(day)
	slots, err := h.slotService.ListRange(ctx, from, to)
	if err != nil {
		h.logger.Error("Failed to list week slots", zap.Time("from", from), zap.Error(err))
		return nil, msgInternalError, err
	}

	imageData, err := render.WeekImage(day, slots, now)
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Time("from", from), zap.Error(err))
		return nil, msgInternalError, err
	}

	booked := 0
	for i := range slots {
		if slots[i].IsBooked() {
			booked++
		}
	}

	caption := fmt.Sprintf("🗓 Неделя %s - %s\nСлотов: %d, занято: %d",
		model.FormatDate(from), model.FormatDate(to.Add(-time.Nanosecond)), len(slots), booked)
	return imageData, caption, nil
}
