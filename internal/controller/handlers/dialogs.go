package handlers

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/queue_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Ограничения текстовых полей
const (
	NoticeMaxLength       = 500
	EntryMessageMaxLength = 500

	// ClearNoticeText очищает объявление
	ClearNoticeText = "-"
)

// handleEditNotice меняет объявление очереди выбранного предмета
func (h *Handlers) handleEditNotice(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}
	telegramID := sess.TelegramID
	chatID := update.Message.Chat.ID

	notice := strings.TrimSpace(update.Message.Text)
	if notice == ClearNoticeText {
		notice = ""
	}
	if utf8.RuneCountInString(notice) > NoticeMaxLength {
		h.sendError(ctx, b, chatID, "❌ Объявление слишком длинное. Попробуйте ещё раз:")
		return
	}

	if err := h.deps.Sessions.RequireTA(sess, sess.SelectedSubjectID); err != nil {
		h.stateManager.SetState(telegramID, state.StateNone)
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	subject, err := h.deps.Sessions.SelectedSubject(ctx, sess)
	if err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	if err := h.deps.QueueStatus.ChangeNotice(ctx, sess, subject, notice); err != nil {
		h.logger.Error("Failed to change notice",
			zap.Int64("subject_id", subject.ID),
			zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.stateManager.SetState(telegramID, state.StateNone)
	h.sendMessage(ctx, b, chatID, "✅ Объявление обновлено", nil)
	h.showQueue(ctx, b, chatID, telegramID)
}

// handleEntryMessage сохраняет сообщение в черновик и показывает форму заново
func (h *Handlers) handleEntryMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	draft, err := common.GetDraft(h.deps.StateManager, telegramID)
	if err != nil {
		h.stateManager.SetState(telegramID, state.StateNone)
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	message := strings.TrimSpace(update.Message.Text)
	if utf8.RuneCountInString(message) > EntryMessageMaxLength {
		h.sendError(ctx, b, chatID, "❌ Сообщение слишком длинное. Попробуйте ещё раз:")
		return
	}

	draft.Selection.Message = message
	common.SetDraft(h.deps.StateManager, telegramID, draft)
	h.stateManager.SetState(telegramID, state.StateNone)

	h.resendForm(ctx, b, chatID, telegramID)
}

// resendForm отправляет форму записи новым сообщением под ответом пользователя
func (h *Handlers) resendForm(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	draft, err := common.GetDraft(h.deps.StateManager, telegramID)
	if err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	text, kb := common.BuildFormScreen(draft)
	msg := h.sendMessage(ctx, b, chatID, text, kb)
	if msg == nil {
		return
	}

	draft.ChatID = chatID
	draft.MessageID = msg.ID
	common.SetDraft(h.deps.StateManager, telegramID, draft)
}
