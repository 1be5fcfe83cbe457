package common

import (
	"context"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleShowSubjects показывает список предметов вместо текущего экрана
func HandleShowSubjects(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithSession(ctx, b, callback, h, func(hc *HandlerContext) {
		subjects, err := h.Sessions.Subjects(ctx, hc.Session)
		if err != nil {
			h.Logger.Error("Failed to list subjects", zap.Int64("telegram_id", hc.TelegramID), zap.Error(err))
			hc.AnswerError(err)
			return
		}

		hc.Answer("")
		text, kb := BuildSubjectsScreen(hc.Session, subjects)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to edit subjects screen", zap.Error(err))
		}
	})
}

// HandleSelectSubject запоминает предмет и открывает его очередь
func HandleSelectSubject(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithSession(ctx, b, callback, h, func(hc *HandlerContext) {
		subjectID, err := ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerError(err)
			return
		}

		if _, err := h.Sessions.SelectSubject(ctx, hc.Session, subjectID); err != nil {
			h.Logger.Error("Failed to select subject",
				zap.Int64("telegram_id", hc.TelegramID),
				zap.Int64("subject_id", subjectID),
				zap.Error(err))
			hc.AnswerError(err)
			return
		}

		// Черновики другого предмета больше не нужны
		h.StateManager.ClearState(hc.TelegramID)

		hc.Answer("")
		ShowQueue(hc)
	})
}

// HandleRefreshQueue перерисовывает экран очереди
func HandleRefreshQueue(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithSession(ctx, b, callback, h, func(hc *HandlerContext) {
		hc.Answer("🔄")
		ShowQueue(hc)
	})
}
