package common

import (
	"context"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandlerContext содержит общие данные для обработки callback
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Handler    *callbacktypes.Handler
	Message    *models.Message
	Session    *model.Session
	TelegramID int64
	ChatID     int64
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	var chatID int64
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

// LoadSession загружает сессию сервиса очередей
func (hc *HandlerContext) LoadSession() error {
	sess, err := hc.Handler.Sessions.Get(hc.Ctx, hc.TelegramID)
	if err != nil {
		return err
	}
	hc.Session = sess
	return nil
}

// Subject текущий выбранный предмет, свежий из API
func (hc *HandlerContext) Subject() (*model.Subject, error) {
	return hc.Handler.Sessions.SelectedSubject(hc.Ctx, hc.Session)
}

// RequireTA выбранный предмет, если пользователь в нём ассистент
func (hc *HandlerContext) RequireTA() (*model.Subject, error) {
	if err := hc.Handler.Sessions.RequireTA(hc.Session, hc.Session.SelectedSubjectID); err != nil {
		return nil, err
	}
	return hc.Subject()
}

// Answer отвечает на callback query
func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// AnswerAlert отвечает на callback query с alert
func (hc *HandlerContext) AnswerAlert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// AnswerError показывает пользователю текст ошибки
func (hc *HandlerContext) AnswerError(err error) {
	hc.AnswerAlert(ErrorMessage(err))
}

// EditMessage редактирует сообщение
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	params := &bot.EditMessageTextParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	_, err := hc.Bot.EditMessageText(hc.Ctx, params)

	// Игнорируем ошибку "message is not modified" - это не настоящая ошибка
	if IsMessageNotModifiedError(err) {
		return nil
	}

	return err
}

// SendMessage отправляет новое сообщение
func (hc *HandlerContext) SendMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    hc.ChatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	_, err := hc.Bot.SendMessage(hc.Ctx, params)
	return err
}

// SetState устанавливает состояние пользователя
func (hc *HandlerContext) SetState(state callbacktypes.UserState) {
	hc.Handler.StateManager.SetState(hc.TelegramID, state)
}

// ClearState очищает состояние пользователя
func (hc *HandlerContext) ClearState() {
	hc.Handler.StateManager.ClearState(hc.TelegramID)
}

// Draft черновик записи пользователя
func (hc *HandlerContext) Draft() (*Draft, error) {
	return GetDraft(hc.Handler.StateManager, hc.TelegramID)
}

// Helping запись, которой сейчас помогает ассистент
func (hc *HandlerContext) Helping() (*Helping, error) {
	return GetHelping(hc.Handler.StateManager, hc.TelegramID)
}
