package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/queue_bot/internal/controller/state"
	"github.com/Freeeeeet/queue_bot/internal/qsapi"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleLogin начинает вход в сервис очередей
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateLoginEmail)

	h.logger.Info("Starting login", zap.Int64("telegram_id", telegramID))

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"🔑 <b>Вход в сервис очередей</b>\n\n"+
			"Шаг 1 из 2: Отправьте email\n\n"+
			"Для отмены используйте /cancel", nil)
}

// handleLoginEmail сохраняет email и просит пароль
func (h *Handlers) handleLoginEmail(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	email := strings.TrimSpace(update.Message.Text)

	if !strings.Contains(email, "@") {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Это не похоже на email. Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(telegramID, common.DataLoginEmail, email)
	h.stateManager.SetState(telegramID, state.StateLoginPassword)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Шаг 2 из 2: Отправьте пароль\n\n"+
			"Сообщение с паролем будет удалено.", nil)
}

// handleLoginPassword удаляет сообщение с паролем и входит
func (h *Handlers) handleLoginPassword(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	password := update.Message.Text

	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: update.Message.ID,
	}); err != nil {
		h.logger.Warn("Failed to delete password message",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
	}

	v, ok := h.stateManager.GetData(telegramID, common.DataLoginEmail)
	email, _ := v.(string)
	if !ok || email == "" {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "❌ Вход прерван. Начните заново: /login")
		return
	}

	sess, err := h.deps.Sessions.Login(ctx, telegramID, email, password)
	if err != nil {
		h.stateManager.ClearState(telegramID)
		if errors.Is(err, qsapi.ErrUnauthorized) || errors.Is(err, qsapi.ErrNoToken) {
			h.sendError(ctx, b, chatID, "❌ Неверный email или пароль. Попробуйте ещё раз: /login")
			return
		}
		h.logger.Error("Login failed", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось войти. Попробуйте позже.")
		return
	}

	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Вы вошли как <b>%s</b>", formatting.Escape(sess.User.FullName())), nil)
	h.showSubjects(ctx, b, chatID, telegramID)
}

// HandleLogout обрабатывает команду /logout
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.ClearState(telegramID)

	if err := h.deps.Sessions.Logout(ctx, telegramID); err != nil {
		h.logger.Error("Failed to logout", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "👋 Вы вышли из сервиса очередей. Войти снова: /login", nil)
}
