package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/student"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/teacher"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	// ===== Common Navigation =====
	case data == common.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")
	case data == common.ShowSubjects:
		common.HandleShowSubjects(ctx, b, callback, h)
	case strings.HasPrefix(data, common.SelectSubj):
		common.HandleSelectSubject(ctx, b, callback, h)
	case data == common.RefreshQueue, data == common.BackToQueue:
		common.HandleRefreshQueue(ctx, b, callback, h)

	// ===== Student: Join / Edit Form =====
	case data == common.JoinStart:
		student.HandleJoinStart(ctx, b, callback, h)
	case data == common.EditEntry:
		student.HandleEditEntry(ctx, b, callback, h)
	case data == common.JoinForm:
		student.HandleShowForm(ctx, b, callback, h)
	case strings.HasPrefix(data, common.JoinExercise):
		student.HandleToggleExercise(ctx, b, callback, h)
	case data == common.JoinRemote:
		student.HandleToggleRemote(ctx, b, callback, h)
	case data == common.JoinCampuses:
		student.HandleCampuses(ctx, b, callback, h)
	case strings.HasPrefix(data, common.JoinCampus):
		student.HandleSelectCampus(ctx, b, callback, h)
	case strings.HasPrefix(data, common.JoinBuilding):
		student.HandleSelectBuilding(ctx, b, callback, h)
	case strings.HasPrefix(data, common.JoinRoom):
		student.HandleSelectRoom(ctx, b, callback, h)
	case strings.HasPrefix(data, common.JoinTable):
		student.HandleSelectTable(ctx, b, callback, h)
	case data == common.JoinMembers:
		student.HandleMembers(ctx, b, callback, h)
	case strings.HasPrefix(data, common.JoinMember):
		student.HandleToggleMember(ctx, b, callback, h)
	case data == common.JoinMessage:
		student.HandleMessagePrompt(ctx, b, callback, h)
	case data == common.JoinHelp, data == common.JoinApproval:
		student.HandleSubmit(ctx, b, callback, h)
	case data == common.JoinCancel:
		student.HandleCancelForm(ctx, b, callback, h)

	// ===== Student: Own Entry =====
	case data == common.Leave:
		student.HandleLeave(ctx, b, callback, h)
	case data == common.LeaveYes, data == common.LeaveNo:
		student.HandleLeaveConfirm(ctx, b, callback, h)
	case data == common.WatchOn, data == common.WatchOff:
		student.HandleWatchToggle(ctx, b, callback, h)

	// ===== Teaching Assistant: Queue =====
	case data == common.ToggleQueue:
		teacher.HandleToggleQueue(ctx, b, callback, h)
	case data == common.PauseQueue:
		teacher.HandlePauseQueue(ctx, b, callback, h)
	case data == common.EditNotice:
		teacher.HandleEditNotice(ctx, b, callback, h)
	case strings.HasPrefix(data, common.StartHelping):
		teacher.HandleStartHelping(ctx, b, callback, h)

	// ===== Teaching Assistant: Helping =====
	case strings.HasPrefix(data, common.HelpExercise):
		teacher.HandleToggleExercise(ctx, b, callback, h)
	case strings.HasPrefix(data, common.HelpPhoto):
		teacher.HandleMemberPhoto(ctx, b, callback, h)
	case data == common.HelpRoom:
		teacher.HandleRoomImage(ctx, b, callback, h)
	case data == common.HelpView:
		teacher.HandleHelpingView(ctx, b, callback, h)
	case data == common.HelpApprove:
		teacher.HandleApprove(ctx, b, callback, h)
	case data == common.HelpApproveYes:
		teacher.HandleApproveConfirm(ctx, b, callback, h)
	case data == common.HelpStop:
		teacher.HandleStopHelping(ctx, b, callback, h)
	case data == common.HelpReject:
		teacher.HandleReject(ctx, b, callback, h)
	case data == common.HelpRejectYes:
		teacher.HandleRejectConfirm(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback data", zap.String("data", data))
		common.AnswerCallback(ctx, b, callback.ID, "❓ Неизвестная команда")
	}
}
