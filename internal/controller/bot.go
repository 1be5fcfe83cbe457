package controller

import (
	"context"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/queue_bot/internal/controller/handlers"
	"github.com/Freeeeeet/queue_bot/internal/controller/state"
	"github.com/Freeeeeet/queue_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Services сервисы, которыми пользуются обработчики бота
type Services struct {
	Sessions    *service.SessionService
	Membership  *service.MembershipService
	QueueStatus *service.QueueStatusService
	Entries     *service.EntryBuilder
	Locations   *service.LocationService
	Assistance  *service.AssistanceService
	QueueView   *service.QueueViewService
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	services Services,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	// Общие зависимости команд и callback handlers
	deps := &callbacktypes.Handler{
		Sessions:     services.Sessions,
		Membership:   services.Membership,
		QueueStatus:  services.QueueStatus,
		Entries:      services.Entries,
		Locations:    services.Locations,
		Assistance:   services.Assistance,
		QueueView:    services.QueueView,
		StateManager: state.NewAdapter(stateManager),
		Logger:       logger,
	}

	return &BotController{
		bot:             botInstance,
		handlers:        handlers.NewHandlers(deps, stateManager, logger),
		callbackHandler: callbacks.NewHandler(deps),
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Регистрируем команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypeExact, c.handlers.HandleLogin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypeExact, c.handlers.HandleLogout)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/subjects", bot.MatchTypeExact, c.handlers.HandleSubjects)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/queue", bot.MatchTypeExact, c.handlers.HandleQueue)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/watch", bot.MatchTypeExact, c.handlers.HandleWatch)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/unwatch", bot.MatchTypeExact, c.handlers.HandleUnwatch)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "queue", Description: "📋 Очередь выбранного предмета"},
		{Command: "subjects", Description: "📚 Выбрать предмет"},
		{Command: "login", Description: "🔑 Войти в сервис очередей"},
		{Command: "watch", Description: "🔔 Уведомлять о моей позиции"},
		{Command: "unwatch", Description: "🔕 Не уведомлять"},
		{Command: "logout", Description: "🚪 Выйти"},
		{Command: "help", Description: "❓ Справка по командам"},
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

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
