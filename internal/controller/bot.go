package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/room_booking/internal/controller/handlers"
	"github.com/Freeeeeet/room_booking/internal/controller/state"
	"github.com/Freeeeeet/room_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot          *bot.Bot
	handlers     *handlers.Handlers
	stateManager *state.Manager
	logger       *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	accountService *service.AccountService,
	roomService *service.RoomService,
	slotService *service.SlotService,
	bookingService *service.BookingService,
	tokens handlers.TokenIssuer,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager(state.DefaultTTL)

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		accountService,
		roomService,
		slotService,
		bookingService,
		tokens,
		stateManager,
		logger,
	)

	return &BotController{
		bot:          botInstance,
		handlers:     cmdHandlers,
		stateManager: stateManager,
		logger:       logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Общие команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/register", bot.MatchTypePrefix, c.handlers.HandleRegister)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/token", bot.MatchTypeExact, c.handlers.HandleToken)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/rooms", bot.MatchTypeExact, c.handlers.HandleRooms)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/slots", bot.MatchTypePrefix, c.handlers.HandleSlots)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypePrefix, c.handlers.HandleWeek)

	// Команды для сотрудников
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addroom", bot.MatchTypePrefix, c.handlers.HandleAddRoom)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/create", bot.MatchTypePrefix, c.handlers.HandleCreate)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/remove", bot.MatchTypePrefix, c.handlers.HandleRemove)

	// Команды для студентов
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypePrefix, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/unbook", bot.MatchTypePrefix, c.handlers.HandleUnbook)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "register", Description: "🪪 Регистрация по институтскому номеру"},
		{Command: "rooms", Description: "🏫 Список комнат"},
		{Command: "slots", Description: "📅 Слоты за день"},
		{Command: "week", Description: "🖼 Неделя картинкой"},
		{Command: "mybookings", Description: "🗓 Мои слоты и брони"},
		{Command: "create", Description: "➕ Создать слот (сотрудник)"},
		{Command: "remove", Description: "🗑 Удалить слот (сотрудник)"},
		{Command: "book", Description: "📝 Забронировать слот (студент)"},
		{Command: "unbook", Description: "↩️ Отменить бронь (студент)"},
		{Command: "token", Description: "🔑 Токен для HTTP API"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	go c.sweepStates(ctx)
	c.bot.Start(ctx)
	return nil
}

// sweepStates периодически удаляет брошенные диалоги
func (c *BotController) sweepStates(ctx context.Context) {
	ticker := time.NewTicker(state.DefaultTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.stateManager.Sweep(); n > 0 {
				c.logger.Debug("Expired dialog states removed", zap.Int("count", n))
			}
		}
	}
}
