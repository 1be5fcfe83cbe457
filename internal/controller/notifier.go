package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Notifier отправляет уведомления наблюдателя очереди в личный чат
type Notifier struct {
	bot    *bot.Bot
	logger *zap.Logger
}

func NewNotifier(b *bot.Bot, logger *zap.Logger) *Notifier {
	return &Notifier{
		bot:    b,
		logger: logger,
	}
}

// NotifyPosition сообщает новую позицию в очереди
func (n *Notifier) NotifyPosition(ctx context.Context, telegramID int64, subject *model.Subject, prev, cur service.Snapshot) error {
	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📋 Открыть очередь", common.RefreshQueue)).
		Row(keyboard.Button("🔕 Выключить уведомления", common.WatchOff)).
		Build()
	return n.send(ctx, telegramID, PositionNotice(subject, prev, cur), kb)
}

// NotifyLeftQueue сообщает что записи больше нет в очереди
func (n *Notifier) NotifyLeftQueue(ctx context.Context, telegramID int64, subject *model.Subject) error {
	text := formatting.SubjectTitle(subject) + "\n\n✅ Вашей записи больше нет в очереди. Уведомления выключены."
	return n.send(ctx, telegramID, text, nil)
}

// NotifySessionExpired просит войти заново
func (n *Notifier) NotifySessionExpired(ctx context.Context, telegramID int64) error {
	return n.send(ctx, telegramID, "🔑 Сессия истекла, уведомления выключены. Войдите заново: /login", nil)
}

func (n *Notifier) send(ctx context.Context, chatID int64, text string, kb *models.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}

	if _, err := n.bot.SendMessage(ctx, params); err != nil {
		n.logger.Error("Failed to send notification",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// PositionNotice текст уведомления об изменении позиции
func PositionNotice(subject *model.Subject, prev, cur service.Snapshot) string {
	text := formatting.SubjectTitle(subject) + "\n\n"

	switch {
	case cur.Assisted && !prev.Assisted:
		return text + "🙌 Ассистент взял вашу запись!"
	case cur.HasPosition && cur.Position == 1:
		text += "🥇 Вы следующий в очереди!"
	case cur.HasPosition:
		text += formatting.PositionText(cur.Position, cur.Assisted)
	default:
		text += "⚠️ Не удалось определить позицию, откройте очередь"
	}

	if prev.HasPosition && cur.HasPosition && prev.Position != cur.Position {
		text += fmt.Sprintf("\n(было: %d)", prev.Position)
	}
	return text
}
