package teacher

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// withHelping загружает сессию и текущую запись ассистента
func withHelping(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*common.HandlerContext, *common.Helping),
) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hp, err := hc.Helping()
		if err != nil {
			hc.AnswerError(err)
			common.ShowQueue(hc)
			return
		}
		handler(hc, hp)
	})
}

func showHelping(hc *common.HandlerContext, hp *common.Helping) {
	text, kb := common.BuildHelpingScreen(hp)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to render helping screen", zap.Error(err))
	}
}

// finishHelping забывает запись и возвращает к очереди
func finishHelping(hc *common.HandlerContext, answer string) {
	hc.Handler.StateManager.DeleteData(hc.TelegramID, common.DataHelping)
	hc.Answer(answer)
	common.ShowQueue(hc)
}

// HandleStartHelping берёт запись в работу и открывает экран помощи
func HandleStartHelping(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithTA(ctx, b, callback, h, func(hc *common.HandlerContext, subject *model.Subject) {
		entryID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerError(err)
			return
		}

		view, err := h.QueueView.Load(ctx, hc.Session, subject.ID)
		if err != nil {
			h.Logger.Error("Failed to load queue view", zap.Int64("subject_id", subject.ID), zap.Error(err))
			hc.AnswerError(err)
			return
		}

		entry, ok := view.Entry(entryID)
		if !ok {
			hc.AnswerError(common.ErrEntryGone)
			common.ShowQueue(hc)
			return
		}

		if err := h.Assistance.Start(ctx, hc.Session, entry); err != nil {
			hc.AnswerError(err)
			if errors.Is(err, service.ErrAlreadyAssisted) {
				common.ShowQueue(hc)
			}
			return
		}

		hp := &common.Helping{
			SubjectID: subject.ID,
			Entry:     *entry,
			Room:      view.Rooms[entry.RoomID],
			Message:   entry.Message,
			Checked:   service.InitialChecks(entry),
		}
		if hp.Message == "" {
			hp.Message = service.NoMessageText
		}

		form, err := h.Entries.LoadForm(ctx, hc.Session, subject.ID)
		if err != nil {
			h.Logger.Warn("Failed to load exercises for helping screen",
				zap.Int64("subject_id", subject.ID),
				zap.Error(err))
		} else {
			hp.Exercises = form.Exercises
		}

		common.SetHelping(h.StateManager, hc.TelegramID, hp)
		hc.Answer("🙋 Вы помогаете этой записи")
		showHelping(hc, hp)
	})
}

// HandleHelpingView возвращает к экрану помощи из подтверждения
func HandleHelpingView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withHelping(ctx, b, callback, h, func(hc *common.HandlerContext, hp *common.Helping) {
		hc.Answer("")
		showHelping(hc, hp)
	})
}

// HandleToggleExercise отмечает упражнение для зачёта
func HandleToggleExercise(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withHelping(ctx, b, callback, h, func(hc *common.HandlerContext, hp *common.Helping) {
		number, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerError(err)
			return
		}

		n := int(number)
		if hp.Checked == nil {
			hp.Checked = make(map[int]bool)
		}
		hp.Checked[n] = !hp.Checked[n]
		common.SetHelping(h.StateManager, hc.TelegramID, hp)

		hc.Answer("")
		showHelping(hc, hp)
	})
}

// HandleApprove спрашивает подтверждение зачёта
func HandleApprove(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withHelping(ctx, b, callback, h, func(hc *common.HandlerContext, hp *common.Helping) {
		if !model.AnyChecked(hp.Checked) {
			hc.AnswerError(service.ErrNoExercisesChecked)
			return
		}

		hc.Answer("")
		text, kb := common.BuildConfirmScreen("✅ Засчитать отмеченные упражнения и убрать запись из очереди?", common.HelpApproveYes, common.HelpView)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show approve confirmation", zap.Error(err))
		}
	})
}

// HandleApproveConfirm засчитывает отмеченные упражнения
func HandleApproveConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withHelping(ctx, b, callback, h, func(hc *common.HandlerContext, hp *common.Helping) {
		approved, err := h.Assistance.Approve(ctx, hc.Session, hp.SubjectID, hp.Entry.ID, hp.Checked, hp.Exercises)
		if err != nil {
			hc.AnswerError(err)
			showHelping(hc, hp)
			return
		}

		h.Logger.Info("Entry approved from helping screen",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Int64("entry_id", hp.Entry.ID),
			zap.Int("approved", len(approved)))
		finishHelping(hc, "✅ Упражнения засчитаны")
	})
}

// HandleStopHelping отпускает запись обратно в очередь
func HandleStopHelping(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withHelping(ctx, b, callback, h, func(hc *common.HandlerContext, hp *common.Helping) {
		if err := releaseHelping(ctx, h, hc.Session, hc.TelegramID, hp); err != nil {
			hc.AnswerError(err)
		} else {
			hc.Answer("↩️ Запись возвращена в очередь")
		}
		common.ShowQueue(hc)
	})
}

// releaseHelping останавливает помощь и забывает запись даже при ошибке Stop
func releaseHelping(ctx context.Context, h *callbacktypes.Handler, sess *model.Session, telegramID int64, hp *common.Helping) error {
	err := h.Assistance.Stop(ctx, sess, hp.SubjectID, hp.Entry.ID)
	h.StateManager.DeleteData(telegramID, common.DataHelping)
	if err != nil {
		h.Logger.Warn("Stop helping failed, returning to queue anyway",
			zap.Int64("telegram_id", telegramID),
			zap.Int64("entry_id", hp.Entry.ID),
			zap.Error(err))
	}
	return err
}

// HandleReject спрашивает подтверждение удаления записи
func HandleReject(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withHelping(ctx, b, callback, h, func(hc *common.HandlerContext, hp *common.Helping) {
		hc.Answer("")
		text, kb := common.BuildConfirmScreen("🗑 Удалить запись из очереди без зачёта?", common.HelpRejectYes, common.HelpView)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show reject confirmation", zap.Error(err))
		}
	})
}

// HandleRejectConfirm удаляет запись
func HandleRejectConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withHelping(ctx, b, callback, h, func(hc *common.HandlerContext, hp *common.Helping) {
		if err := h.Assistance.Reject(ctx, hc.Session, hp.SubjectID, hp.Entry.ID); err != nil {
			hc.AnswerError(err)
			if errors.Is(err, service.ErrNoSession) {
				return
			}
			showHelping(hc, hp)
			return
		}
		finishHelping(hc, "🗑 Запись удалена")
	})
}

// HandleMemberPhoto отправляет фото участника записи отдельным сообщением
func HandleMemberPhoto(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withHelping(ctx, b, callback, h, func(hc *common.HandlerContext, hp *common.Helping) {
		userID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerError(err)
			return
		}

		photo, err := h.Assistance.MemberPhoto(ctx, hc.Session, hp.SubjectID, userID)
		if err != nil {
			hc.AnswerError(err)
			return
		}
		if len(photo) == 0 {
			hc.AnswerAlert("📷 У студента нет фото")
			return
		}

		hc.Answer("")
		_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID: hc.ChatID,
			Photo: &models.InputFileUpload{
				Filename: fmt.Sprintf("user_%d.jpg", userID),
				Data:     bytes.NewReader(photo),
			},
			Caption: memberName(hp.Entry.Members, userID),
		})
		if err != nil {
			h.Logger.Error("Failed to send member photo",
				zap.Int64("user_id", userID),
				zap.Error(err))
		}
	})
}

// HandleRoomImage отправляет схему комнаты записи отдельным сообщением
func HandleRoomImage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withHelping(ctx, b, callback, h, func(hc *common.HandlerContext, hp *common.Helping) {
		image, err := h.Locations.RoomImage(ctx, hc.Session, hp.Entry.RoomID)
		if err != nil {
			hc.AnswerError(err)
			return
		}
		if len(image) == 0 {
			hc.AnswerAlert("🗺 У комнаты нет схемы")
			return
		}

		hc.Answer("")
		_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID: hc.ChatID,
			Photo: &models.InputFileUpload{
				Filename: fmt.Sprintf("room_%d.png", hp.Entry.RoomID),
				Data:     bytes.NewReader(image),
			},
			Caption: roomCaption(hp),
		})
		if err != nil {
			h.Logger.Error("Failed to send room image",
				zap.Int64("room_id", hp.Entry.RoomID),
				zap.Error(err))
		}
	})
}

func roomCaption(hp *common.Helping) string {
	if hp.Room == nil {
		return fmt.Sprintf("Стол %d", hp.Entry.Desk)
	}
	return fmt.Sprintf("%s, стол %d", hp.Room.DisplayName(), hp.Entry.Desk)
}

func memberName(members []model.QueueMember, userID int64) string {
	for _, m := range members {
		if m.UserID == userID {
			return model.FormatName(m.FirstName, m.LastName)
		}
	}
	return ""
}
