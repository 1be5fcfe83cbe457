package teacher

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleToggleQueue открывает или закрывает очередь
func HandleToggleQueue(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithTA(ctx, b, callback, h, func(hc *common.HandlerContext, subject *model.Subject) {
		next, err := h.QueueStatus.Toggle(ctx, hc.Session, subject)
		if err != nil {
			h.Logger.Error("Failed to toggle queue",
				zap.Int64("subject_id", subject.ID),
				zap.Error(err))
			hc.AnswerError(err)
			return
		}

		display := formatting.GetQueueStatusDisplay(next)
		hc.Answer(fmt.Sprintf("%s Очередь %s", display.Emoji, display.Text))
		common.ShowQueue(hc)
	})
}

// HandlePauseQueue ставит очередь на паузу
func HandlePauseQueue(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithTA(ctx, b, callback, h, func(hc *common.HandlerContext, subject *model.Subject) {
		if err := h.QueueStatus.Pause(ctx, hc.Session, subject); err != nil {
			h.Logger.Error("Failed to pause queue",
				zap.Int64("subject_id", subject.ID),
				zap.Error(err))
			hc.AnswerError(err)
			return
		}

		hc.Answer("⏸ Очередь на паузе")
		common.ShowQueue(hc)
	})
}

// HandleEditNotice просит ввести новое объявление очереди
func HandleEditNotice(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithTA(ctx, b, callback, h, func(hc *common.HandlerContext, subject *model.Subject) {
		hc.Answer("")
		hc.SetState(callbacktypes.StateEditNotice)

		current := subject.Notice
		if current == "" {
			current = "—"
		}
		text := fmt.Sprintf(
			"📢 <b>Объявление очереди</b>\n\nСейчас: %s\n\nОтправьте новый текст. Пустое объявление: «-». Отмена: /cancel",
			formatting.Escape(current),
		)
		if err := hc.SendMessage(text, nil); err != nil {
			h.Logger.Error("Failed to send notice prompt", zap.Error(err))
		}
	})
}
