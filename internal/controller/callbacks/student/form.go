package student

import (
	"context"
	"errors"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// withDraft обработчики формы, которым не нужен API: только черновик
func withDraft(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*common.HandlerContext, *common.Draft),
) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	draft, err := hc.Draft()
	if err != nil {
		hc.AnswerError(err)
		return
	}
	handler(hc, draft)
}

// renderForm перерисовывает форму в текущем сообщении
func renderForm(hc *common.HandlerContext, draft *common.Draft) {
	if hc.Message != nil {
		draft.ChatID = hc.ChatID
		draft.MessageID = hc.Message.ID
	}
	common.SetDraft(hc.Handler.StateManager, hc.TelegramID, draft)

	text, kb := common.BuildFormScreen(draft)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to render entry form", zap.Error(err))
	}
}

// HandleJoinStart открывает пустую форму записи
func HandleJoinStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		subject, err := hc.Subject()
		if err != nil {
			hc.AnswerError(err)
			return
		}
		if subject.InQueue() {
			hc.Answer("Вы уже в очереди")
			common.ShowQueue(hc)
			return
		}
		if subject.QueueStatus != model.QueueStatusOpen {
			hc.AnswerAlert("⏸ Очередь сейчас не принимает записи")
			common.ShowQueue(hc)
			return
		}

		form, err := h.Entries.LoadForm(ctx, hc.Session, subject.ID)
		if err != nil {
			hc.AnswerError(err)
			return
		}

		hc.Answer("")
		renderForm(hc, &common.Draft{
			SubjectID: subject.ID,
			Selection: service.NewSelection(),
			Form:      form,
		})
	})
}

// HandleEditEntry открывает форму, заполненную данными существующей записи
func HandleEditEntry(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		subject, err := hc.Subject()
		if err != nil {
			hc.AnswerError(err)
			return
		}
		if !subject.InQueue() {
			hc.AnswerError(service.ErrNotInQueue)
			common.ShowQueue(hc)
			return
		}

		sel, err := h.Entries.Prefill(ctx, hc.Session, h.Locations, subject.ID, subject.UserEntryID)
		if err != nil {
			h.Logger.Error("Failed to prefill entry form",
				zap.Int64("entry_id", subject.UserEntryID),
				zap.Error(err))
			hc.AnswerError(err)
			return
		}
		form, err := h.Entries.LoadForm(ctx, hc.Session, subject.ID)
		if err != nil {
			hc.AnswerError(err)
			return
		}

		hc.Answer("")
		renderForm(hc, &common.Draft{
			SubjectID: subject.ID,
			EntryID:   subject.UserEntryID,
			Selection: sel,
			Form:      form,
		})
	})
}

// HandleShowForm возвращает к форме из выбора места или группы
func HandleShowForm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, draft *common.Draft) {
		hc.Answer("")
		renderForm(hc, draft)
	})
}

// HandleToggleExercise отмечает или снимает упражнение
func HandleToggleExercise(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, draft *common.Draft) {
		number, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerError(err)
			return
		}
		draft.Selection.ToggleExercise(int(number))
		hc.Answer("")
		renderForm(hc, draft)
	})
}

// HandleToggleRemote переключает "Удалённо"
func HandleToggleRemote(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, draft *common.Draft) {
		loc := &draft.Selection.Location
		loc.SetRemote(!loc.Remote)
		hc.Answer("")
		renderForm(hc, draft)
	})
}

// HandleMembers показывает выбор участников группы
func HandleMembers(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, draft *common.Draft) {
		hc.Answer("")
		text, kb := common.BuildMemberPicker(draft)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to render member picker", zap.Error(err))
		}
	})
}

// HandleToggleMember добавляет или убирает участника группы
func HandleToggleMember(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, draft *common.Draft) {
		userID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerError(err)
			return
		}
		draft.Selection.ToggleMember(userID)
		common.SetDraft(h.StateManager, hc.TelegramID, draft)

		hc.Answer("")
		text, kb := common.BuildMemberPicker(draft)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to render member picker", zap.Error(err))
		}
	})
}

// HandleMessagePrompt просит ввести сообщение к записи текстом
func HandleMessagePrompt(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, draft *common.Draft) {
		if hc.Message != nil {
			draft.ChatID = hc.ChatID
			draft.MessageID = hc.Message.ID
		}
		common.SetDraft(h.StateManager, hc.TelegramID, draft)
		hc.SetState(callbacktypes.StateEntryMessage)

		hc.Answer("")
		if err := hc.SendMessage("💬 Напишите сообщение для ассистента одним сообщением.\n\nДля отмены используйте /cancel", nil); err != nil {
			h.Logger.Error("Failed to send message prompt", zap.Error(err))
		}
	})
}

// HandleSubmit проверяет форму и создаёт или изменяет запись
func HandleSubmit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		draft, err := hc.Draft()
		if err != nil {
			hc.AnswerError(err)
			return
		}

		if callback.Data == common.JoinHelp {
			draft.Selection.Mode = model.ModeHelp
		} else {
			draft.Selection.Mode = model.ModeApproval
		}

		subject, err := hc.Subject()
		if err != nil {
			hc.AnswerError(err)
			return
		}
		if subject.ID != draft.SubjectID {
			hc.AnswerError(common.ErrNoDraft)
			return
		}

		var exercises []model.Exercise
		var available []model.User
		if draft.Form != nil {
			exercises = draft.Form.Exercises
			available = draft.Form.Available
		}

		if draft.Editing() {
			err = h.Entries.Modify(ctx, hc.Session, subject, draft.EntryID, draft.Selection, exercises, available)
		} else {
			_, err = h.Entries.Submit(ctx, hc.Session, subject, draft.Selection, exercises, available)
		}

		switch {
		case err == nil:
			hc.Answer("✅ Готово")
		case errors.Is(err, service.ErrMessageNotSaved):
			hc.AnswerAlert(common.ErrorMessage(err))
		default:
			h.Logger.Info("Entry form rejected",
				zap.Int64("telegram_id", hc.TelegramID),
				zap.Bool("editing", draft.Editing()),
				zap.Error(err))
			// Режим выбирается той же кнопкой, что и отправка
			draft.Selection.Mode = model.ModeUnset
			common.SetDraft(h.StateManager, hc.TelegramID, draft)
			hc.AnswerError(err)
			return
		}

		h.StateManager.DeleteData(hc.TelegramID, common.DataDraft)
		common.ShowQueue(hc)
	})
}

// HandleCancelForm закрывает форму без отправки
func HandleCancelForm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		h.StateManager.DeleteData(hc.TelegramID, common.DataDraft)
		hc.Answer("Отменено")
		common.ShowQueue(hc)
	})
}
