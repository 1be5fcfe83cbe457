package common

import (
	"context"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// WithSession создаёт HandlerContext и загружает сессию.
// При ошибке сам отвечает пользователю.
func WithSession(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := hc.LoadSession(); err != nil {
		h.Logger.Info("No usable session for callback",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
		hc.AnswerError(err)
		return
	}

	handler(hc)
}

// WithTA как WithSession, но ещё проверяет что пользователь ассистент выбранного предмета
// и передаёт свежий предмет
func WithTA(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext, *model.Subject),
) {
	WithSession(ctx, b, callback, h, func(hc *HandlerContext) {
		subject, err := hc.RequireTA()
		if err != nil {
			h.Logger.Warn("TA check failed",
				zap.Int64("telegram_id", hc.TelegramID),
				zap.Int64("subject_id", hc.Session.SelectedSubjectID),
				zap.Error(err))
			hc.AnswerError(err)
			return
		}
		handler(hc, subject)
	})
}

// ShowQueue перерисовывает текущее сообщение экраном очереди
func ShowQueue(hc *HandlerContext) {
	text, kb, err := LoadQueueScreen(hc.Ctx, hc.Handler, hc.Session)
	if err != nil {
		hc.Handler.Logger.Error("Failed to load queue screen",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
		hc.AnswerError(err)
		return
	}
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to edit queue screen", zap.Error(err))
	}
}
