package student

import (
	"context"
	"errors"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/queue_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleLeave спрашивает подтверждение перед выходом из очереди
func HandleLeave(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.Answer("")

		text, kb := LeaveConfirmScreen()
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show leave confirmation", zap.Error(err))
		}
	})
}

// LeaveConfirmScreen вопрос "покинуть очередь?" с кнопками Да/Нет
func LeaveConfirmScreen() (string, *models.InlineKeyboardMarkup) {
	return common.BuildConfirmScreen("🚪 Покинуть очередь? Место в очереди будет потеряно.", common.LeaveYes, common.LeaveNo)
}

// HandleLeaveConfirm удаляет запись после "Да"; после "Нет" просто обновляет экран
func HandleLeaveConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		subject, err := hc.Subject()
		if err != nil {
			hc.AnswerError(err)
			return
		}

		confirmed := callback.Data == common.LeaveYes
		_, err = h.Membership.Leave(ctx, hc.Session, subject.ID, subject.UserEntryID, confirmed)
		switch {
		case err == nil:
			hc.Answer("👋 Вы вышли из очереди")
			if hc.Session.Watching {
				if err := h.Sessions.SetWatching(ctx, hc.Session, false); err != nil {
					h.Logger.Error("Failed to disable watching after leave", zap.Error(err))
				}
			}
		case errors.Is(err, service.ErrLeaveCancelled):
			hc.Answer("Отменено")
		default:
			hc.AnswerError(err)
		}

		common.ShowQueue(hc)
	})
}

// HandleWatchToggle включает или выключает уведомления о позиции
func HandleWatchToggle(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		watching := callback.Data == common.WatchOn
		if err := h.Sessions.SetWatching(ctx, hc.Session, watching); err != nil {
			h.Logger.Error("Failed to change watching", zap.Error(err))
			hc.AnswerError(err)
			return
		}

		if watching {
			hc.Answer("🔔 Пришлю сообщение, когда позиция изменится")
		} else {
			hc.Answer("🔕 Уведомления выключены")
		}
		common.ShowQueue(hc)
	})
}
