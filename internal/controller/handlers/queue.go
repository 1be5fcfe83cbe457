package handlers

import (
	"context"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/queue_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleSubjects обрабатывает команду /subjects
func (h *Handlers) HandleSubjects(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireSession(ctx, b, update); !ok {
		return
	}
	h.showSubjects(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

// showSubjects отправляет список предметов пользователя
func (h *Handlers) showSubjects(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	sess, err := h.deps.Sessions.Get(ctx, telegramID)
	if err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	subjects, err := h.deps.Sessions.Subjects(ctx, sess)
	if err != nil {
		h.logger.Error("Failed to list subjects", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	text, kb := common.BuildSubjectsScreen(sess, subjects)
	h.sendMessage(ctx, b, chatID, text, kb)
}

// HandleQueue обрабатывает команду /queue
func (h *Handlers) HandleQueue(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}
	h.showQueue(ctx, b, update.Message.Chat.ID, sess.TelegramID)
}

// showQueue отправляет экран очереди новым сообщением
func (h *Handlers) showQueue(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	sess, err := h.deps.Sessions.Get(ctx, telegramID)
	if err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	text, kb, err := common.LoadQueueScreen(ctx, h.deps, sess)
	if err != nil {
		h.logger.Error("Failed to load queue screen",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}
	h.sendMessage(ctx, b, chatID, text, kb)
}

// HandleWatch обрабатывает команду /watch
func (h *Handlers) HandleWatch(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.setWatching(ctx, b, update, true)
}

// HandleUnwatch обрабатывает команду /unwatch
func (h *Handlers) HandleUnwatch(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.setWatching(ctx, b, update, false)
}

func (h *Handlers) setWatching(ctx context.Context, b *bot.Bot, update *models.Update, watching bool) {
	sess, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	if watching && sess.SelectedSubjectID == 0 {
		h.sendError(ctx, b, chatID, common.ErrorMessage(service.ErrNoSubjectSelected))
		return
	}

	if err := h.deps.Sessions.SetWatching(ctx, sess, watching); err != nil {
		h.logger.Error("Failed to change watching",
			zap.Int64("telegram_id", sess.TelegramID),
			zap.Bool("watching", watching),
			zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	if watching {
		h.sendMessage(ctx, b, chatID, "🔔 Пришлю сообщение, когда ваша позиция в очереди изменится. Выключить: /unwatch", nil)
	} else {
		h.sendMessage(ctx, b, chatID, "🔕 Уведомления выключены", nil)
	}
}
