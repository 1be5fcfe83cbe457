package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/queue_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 <b>Справка по командам</b>\n\n" +
	"/login - Войти в сервис очередей\n" +
	"/logout - Выйти\n" +
	"/subjects - Выбрать предмет\n" +
	"/queue - Очередь выбранного предмета\n" +
	"/watch - Сообщать об изменении моей позиции\n" +
	"/unwatch - Не сообщать\n" +
	"/cancel - Отменить ввод\n\n" +
	"Студенты записываются в очередь кнопкой «Встать в очередь».\n" +
	"Ассистенты видят всю очередь, открывают и закрывают её и берут записи в работу."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := update.Message.From.FirstName
	sess, err := h.deps.Sessions.Get(ctx, update.Message.From.ID)
	if err == nil {
		name = sess.User.FullName()
	}

	text := "👋 Привет, " + formatting.Escape(name) + "!\n\n" +
		"Это бот очереди на консультации к ассистентам.\n\n"
	if err != nil {
		text += "Чтобы начать, войдите: /login\n\n"
	} else {
		text += "Выберите предмет: /subjects\n\n"
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, text+helpText, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	if currentState == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.", nil)
		return
	}

	// Сообщение к записи отменяем без потери черновика
	if currentState == state.StateEntryMessage {
		h.stateManager.SetState(telegramID, state.StateNone)
		h.resendForm(ctx, b, update.Message.Chat.ID, telegramID)
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.", nil)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateNone:
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Используйте /queue или /help", nil)
	case state.StateLoginEmail:
		h.handleLoginEmail(ctx, b, update)
	case state.StateLoginPassword:
		h.handleLoginPassword(ctx, b, update)
	case state.StateEditNotice:
		h.handleEditNotice(ctx, b, update)
	case state.StateEntryMessage:
		h.handleEntryMessage(ctx, b, update)
	default:
		h.logger.Warn("Unknown state, clearing",
			zap.Int64("telegram_id", telegramID),
			zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}
