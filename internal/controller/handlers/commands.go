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

const helpText = "📚 Справка по командам:\n\n" +
	"/register <номер> <имя> <фамилия> - Регистрация (e12345 сотрудник, s1234567 студент)\n" +
	"/rooms - Список комнат\n" +
	"/slots [дд-мм-гггг] - Слоты за день\n" +
	"/week [дд-мм-гггг] - Неделя картинкой\n" +
	"/mybookings - Мои слоты\n" +
	"/token - Токен для HTTP API\n" +
	"/cancel - Отменить текущий диалог\n\n" +
	"Для сотрудников:\n" +
	"/addroom <имя> - Добавить комнату\n" +
	"/create <комната> <дата> <время> - Создать слот\n" +
	"/remove <комната> <дата> <время> - Удалить свободный слот\n\n" +
	"Для студентов:\n" +
	"/book <комната> <дата> <время> - Забронировать слот\n" +
	"/unbook <комната> <дата> <время> - Отменить бронь\n\n" +
	"Дата в формате дд-мм-гггг, время чч:мм. Слот длится один час."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	account, err := h.accountService.GetByTelegramID(ctx, update.Message.From.ID)
	if err != nil {
		h.logger.Error("Failed to get account", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, msgInternalError)
		return
	}

	var text string
	if account == nil {
		text = fmt.Sprintf(
			"👋 Привет, %s!\n\n"+
				"Это бот для бронирования консультаций в учебных комнатах.\n\n"+
				"Для начала зарегистрируйтесь:\n"+
				"/register <номер> <имя> <фамилия>\n\n"+
				"Справка: /help",
			update.Message.From.FirstName,
		)
	} else {
		text = fmt.Sprintf("👋 С возвращением, %s (%s)!\n\nСправка: /help", account.FullName(), account.ID)
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, text)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel отменяет текущий диалог
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Нечего отменять.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Действие отменено.")
}

// HandleRegister обрабатывает команду /register <номер> <имя> <фамилия> [email]
func (h *Handlers) HandleRegister(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	text := h.register(ctx, update.Message.From.ID, commandArgs(update.Message.Text))
	h.sendMessage(ctx, b, update.Message.Chat.ID, text)
}

func (h *Handlers) register(ctx context.Context, telegramID int64, args string) string {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return "Формат: /register <номер> <имя> <фамилия> [email]\nНапример: /register s1234567 Иван Петров"
	}

	existing, err := h.accountService.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get account", zap.Int64("telegram_id", telegramID), zap.Error(err))
		return msgInternalError
	}
	if existing != nil {
		return fmt.Sprintf("ℹ️ Вы уже зарегистрированы как %s (%s).", existing.FullName(), existing.ID)
	}

	id := strings.ToLower(fields[0])
	role, ok := roleForID(id)
	if !ok {
		return "❌ Номер должен быть вида e12345 (сотрудник) или s1234567 (студент)."
	}

	account := &model.Account{
		ID:         id,
		Role:       role,
		FirstName:  fields[1],
		LastName:   fields[2],
		TelegramID: &telegramID,
	}
	if len(fields) > 3 {
		account.Email = fields[3]
	}

	violations, err := h.accountService.Register(ctx, account)
	if err != nil {
		h.logger.Error("Failed to register account", zap.String("account_id", id), zap.Error(err))
		return msgInternalError
	}
	if !violations.Empty() {
		return formatViolations(violations)
	}

	roleName := "студент"
	if account.IsStaff() {
		roleName = "сотрудник"
	}
	return fmt.Sprintf("✅ Готово! %s зарегистрирован как %s (%s).\n\nСправка: /help", account.FullName(), roleName, account.ID)
}

// HandleToken выдаёт токен для HTTP API
func (h *Handlers) HandleToken(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		return
	}

	token, err := h.tokens.IssueToken(model.Actor{AccountID: account.ID, Role: account.Role}, TokenTTL)
	if err != nil {
		h.logger.Error("Failed to issue token", zap.String("account_id", account.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, msgInternalError)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"🔑 Токен действует %d ч.\nПередавайте его в заголовке Authorization: Bearer <токен>\n\n%s",
		int(TokenTTL.Hours()), token,
	))
}

// HandleTextMessage обрабатывает текстовые сообщения (для диалогов)
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := update.Message.Text

	userState := h.stateManager.GetState(telegramID)
	if userState == state.StateNone {
		if strings.HasPrefix(text, "/") {
			h.sendMessage(ctx, b, chatID, "❓ Неизвестная команда. Справка: /help")
		}
		return
	}

	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		h.stateManager.ClearState(telegramID)
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, chatID, h.continueDialog(ctx, account, userState, text))
}

// continueDialog выполняет отложенную команду с введёнными аргументами
func (h *Handlers) continueDialog(ctx context.Context, account *model.Account, userState state.UserState, text string) string {
	switch userState {
	case state.StateCreateSlot:
		return h.createSlot(ctx, account, text)
	case state.StateRemoveSlot:
		return h.removeSlot(ctx, account, text)
	case state.StateBookSlot:
		return h.bookSlot(ctx, account, text)
	case state.StateCancelBooking:
		return h.cancelBooking(ctx, account, text)
	case state.StateAddRoom:
		return h.addRoom(ctx, account, text)
	default:
		h.logger.Warn("Unknown dialog state", zap.String("state", string(userState)))
		return msgInternalError
	}
}

// promptOrRun запускает команду сразу или спрашивает аргументы
func (h *Handlers) promptOrRun(
	ctx context.Context,
	b *bot.Bot,
	update *models.Update,
	account *model.Account,
	next state.UserState,
	prompt string,
	run func(ctx context.Context, account *model.Account, args string) string,
) {
	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)

	if args == "" {
		h.stateManager.SetState(update.Message.From.ID, next)
		h.sendMessage(ctx, b, chatID, prompt+"\n\nОтменить: /cancel")
		return
	}

	h.sendMessage(ctx, b, chatID, run(ctx, account, args))
}
