package common

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/service"
	"github.com/go-telegram/bot/models"
)

// BuildSubjectsScreen список активных предметов пользователя
func BuildSubjectsScreen(sess *model.Session, subjects []model.Subject) (string, *models.InlineKeyboardMarkup) {
	if len(subjects) == 0 {
		return "📚 У вас нет активных предметов", nil
	}

	kb := keyboard.NewBuilder()
	for i := range subjects {
		s := &subjects[i]
		label := s.Name
		if s.Code != "" {
			label = s.Code + " " + s.Name
		}
		if sess.IsTA(s.ID) {
			label = "🎓 " + label
		}
		if s.InQueue() {
			label += " 🕒"
		}
		kb.Row(keyboard.Button(label, fmt.Sprintf("%s%d", SelectSubj, s.ID)))
	}

	return "📚 <b>Ваши предметы</b>\n\nВыберите предмет:", kb.Build()
}

// LoadQueueScreen экран очереди выбранного предмета: для ассистента или для студента
func LoadQueueScreen(ctx context.Context, h *callbacktypes.Handler, sess *model.Session) (string, *models.InlineKeyboardMarkup, error) {
	if sess.SelectedSubjectID == 0 {
		return "", nil, service.ErrNoSubjectSelected
	}

	if sess.IsTA(sess.SelectedSubjectID) {
		view, err := h.QueueView.Load(ctx, sess, sess.SelectedSubjectID)
		if err != nil {
			return "", nil, err
		}
		text, kb := BuildTAQueueScreen(view, sess.User.ID)
		return text, kb, nil
	}

	m, err := h.Membership.Refresh(ctx, sess, sess.SelectedSubjectID)
	if err != nil {
		return "", nil, err
	}
	position, queue, err := h.Membership.Position(ctx, sess, m)
	if err != nil && !errors.Is(err, service.ErrNotInQueue) && !errors.Is(err, service.ErrInconsistentState) {
		return "", nil, err
	}

	view := StudentView{
		Subject:     m.Subject,
		InQueue:     m.InQueue,
		Position:    position,
		QueueLength: len(queue),
		Watching:    sess.Watching,
		Consistent:  !errors.Is(err, service.ErrInconsistentState),
	}
	if position > 0 {
		view.Assisted = queue[position-1].IsAssisted()
	}
	text, kb := BuildStudentQueueScreen(view)
	return text, kb, nil
}

// StudentView состояние очереди для студента
type StudentView struct {
	Subject     *model.Subject
	InQueue     bool
	Position    int
	Assisted    bool
	QueueLength int
	Watching    bool
	// Consistent = false если по предмету студент в очереди, а записи нет
	Consistent bool
}

func queueHeader(subject *model.Subject) string {
	status := formatting.GetQueueStatusDisplay(subject.QueueStatus)
	var sb strings.Builder
	sb.WriteString(formatting.SubjectTitle(subject))
	sb.WriteString(fmt.Sprintf("\n\n%s Очередь %s", status.Emoji, status.Text))
	if subject.Notice != "" {
		sb.WriteString("\n📢 " + formatting.Escape(subject.Notice))
	}
	return sb.String()
}

// BuildStudentQueueScreen экран очереди студента
func BuildStudentQueueScreen(v StudentView) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(queueHeader(v.Subject))
	sb.WriteString(fmt.Sprintf("\n👥 В очереди: %d", v.QueueLength))

	kb := keyboard.NewBuilder()
	switch {
	case v.InQueue && !v.Consistent:
		sb.WriteString("\n\n" + ErrorMessage(service.ErrInconsistentState))
		kb.Row(keyboard.Button("🚪 Покинуть очередь", Leave))
	case v.InQueue:
		sb.WriteString("\n\n" + formatting.PositionText(v.Position, v.Assisted))
		kb.Row(
			keyboard.Button("✏️ Изменить", EditEntry),
			keyboard.Button("🚪 Покинуть", Leave),
		)
		if v.Watching {
			kb.Row(keyboard.Button("🔕 Не следить за позицией", WatchOff))
		} else {
			kb.Row(keyboard.Button("🔔 Следить за позицией", WatchOn))
		}
	case v.Subject.QueueStatus == model.QueueStatusOpen:
		sb.WriteString("\n\nВы не в очереди")
		kb.Row(keyboard.Button("➕ Встать в очередь", JoinStart))
	default:
		sb.WriteString("\n\nСейчас встать в очередь нельзя")
	}

	kb.Row(
		keyboard.Button("🔄 Обновить", RefreshQueue),
		keyboard.Button("📚 Предметы", ShowSubjects),
	)
	return sb.String(), kb.Build()
}

// BuildTAQueueScreen экран очереди ассистента
func BuildTAQueueScreen(view *service.QueueView, taID int64) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(queueHeader(view.Subject))
	sb.WriteString(fmt.Sprintf("\n👥 В очереди: %d", len(view.Entries)))
	if len(view.Entries) > 0 {
		sb.WriteString("\n\n🙋 помощь, ✅ сдача, ⏳ занят, 👉 ваш")
	}

	kb := keyboard.NewBuilder()
	for i := range view.Entries {
		e := &view.Entries[i]
		kb.Row(keyboard.Button(
			formatting.EntryButtonText(i+1, e, taID),
			fmt.Sprintf("%s%d", StartHelping, e.ID),
		))
	}

	toggleText := "▶️ Открыть"
	if view.Subject.QueueStatus == model.QueueStatusOpen {
		toggleText = "⏹ Закрыть"
	}
	controls := []models.InlineKeyboardButton{keyboard.Button(toggleText, ToggleQueue)}
	if view.Subject.QueueStatus == model.QueueStatusOpen {
		controls = append(controls, keyboard.Button("⏸ Пауза", PauseQueue))
	}
	controls = append(controls, keyboard.Button("📢 Объявление", EditNotice))
	kb.Row(controls...)

	kb.Row(
		keyboard.Button("🔄 Обновить", RefreshQueue),
		keyboard.Button("📚 Предметы", ShowSubjects),
	)
	return sb.String(), kb.Build()
}

// BuildFormScreen форма записи в очередь
func BuildFormScreen(d *Draft) (string, *models.InlineKeyboardMarkup) {
	sel := d.Selection

	var sb strings.Builder
	if d.Editing() {
		sb.WriteString("✏️ <b>Изменение записи</b>\n\n")
	} else {
		sb.WriteString("➕ <b>Запись в очередь</b>\n\n")
	}

	kb := keyboard.NewBuilder()
	if d.Form == nil || d.Form.Exercises == nil {
		sb.WriteString("⚠️ Упражнения не загрузились\n")
	} else {
		sb.WriteString("📝 Отметьте упражнения:\n")
		buttons := make([]models.InlineKeyboardButton, 0, len(d.Form.Exercises))
		for _, ex := range d.Form.Exercises {
			buttons = append(buttons, keyboard.Button(
				keyboard.Checkbox(sel.CheckedExercises[ex.Number], strconv.Itoa(ex.Number)),
				fmt.Sprintf("%s%d", JoinExercise, ex.Number),
			))
		}
		kb.Grid(5, buttons...)
	}

	loc := sel.Location
	switch {
	case loc.Remote:
		sb.WriteString("\n🏠 Удалённо")
	case loc.Complete():
		sb.WriteString(fmt.Sprintf("\n📍 Комната #%d, стол %d", loc.RoomID, loc.Table))
	default:
		sb.WriteString("\n📍 Место не выбрано")
	}
	sb.WriteString(fmt.Sprintf("\n👥 Участников группы: %d", len(sel.GroupMemberIDs)))
	if sel.Message != "" {
		sb.WriteString("\n💬 " + formatting.Escape(sel.Message))
	}

	kb.Row(
		keyboard.Button(keyboard.Checkbox(loc.Remote, "Удалённо"), JoinRemote),
		keyboard.Button("📍 Место", JoinCampuses),
	)
	kb.Row(
		keyboard.Button("👥 Группа", JoinMembers),
		keyboard.Button("💬 Сообщение", JoinMessage),
	)

	sb.WriteString("\n\nОтправьте запись, выбрав режим:")
	kb.Row(
		keyboard.Button("🙋 Нужна помощь", JoinHelp),
		keyboard.Button("✅ Сдать", JoinApproval),
	)
	kb.Row(keyboard.CancelButton(JoinCancel))

	return sb.String(), kb.Build()
}

// BuildCampusPicker выбор кампуса
func BuildCampusPicker(campuses []model.Campus) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()
	for _, c := range campuses {
		kb.Row(keyboard.Button(c.Name, fmt.Sprintf("%s%d", JoinCampus, c.ID)))
	}
	kb.AddBackButton(JoinForm)
	return "🏫 Выберите кампус:", kb.Build()
}

// BuildBuildingPicker выбор здания
func BuildBuildingPicker(buildings []model.Building) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()
	for _, b := range buildings {
		kb.Row(keyboard.Button(b.Name, fmt.Sprintf("%s%d", JoinBuilding, b.ID)))
	}
	kb.AddBackButton(JoinCampuses)
	return "🏢 Выберите здание:", kb.Build()
}

// BuildRoomPicker выбор комнаты
func BuildRoomPicker(rooms []model.Room, campusID int64) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()
	for i := range rooms {
		kb.Row(keyboard.Button(rooms[i].DisplayName(), fmt.Sprintf("%s%d", JoinRoom, rooms[i].ID)))
	}
	kb.AddBackButton(fmt.Sprintf("%s%d", JoinCampus, campusID))
	return "🚪 Выберите комнату:", kb.Build()
}

// BuildTablePicker выбор стола 1..Desks
func BuildTablePicker(room *model.Room, buildingID int64) (string, *models.InlineKeyboardMarkup) {
	tables := room.Tables()
	buttons := make([]models.InlineKeyboardButton, 0, len(tables))
	for _, t := range tables {
		buttons = append(buttons, keyboard.Button(strconv.Itoa(t), fmt.Sprintf("%s%d", JoinTable, t)))
	}

	kb := keyboard.NewBuilder().Grid(6, buttons...)
	kb.AddBackButton(fmt.Sprintf("%s%d", JoinBuilding, buildingID))

	text := fmt.Sprintf("🪑 %s: выберите стол", formatting.Escape(room.DisplayName()))
	if len(tables) == 0 {
		text = "🪑 В этой комнате нет столов"
	}
	return text, kb.Build()
}

// BuildMemberPicker выбор участников группы
func BuildMemberPicker(d *Draft) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()
	selected := make(map[int64]bool, len(d.Selection.GroupMemberIDs))
	for _, id := range d.Selection.GroupMemberIDs {
		selected[id] = true
	}

	var available []model.User
	if d.Form != nil {
		available = d.Form.Available
	}
	for i := range available {
		u := &available[i]
		kb.Row(keyboard.Button(
			keyboard.Checkbox(selected[u.ID], model.FormatName(u.FirstName, u.LastName)),
			fmt.Sprintf("%s%d", JoinMember, u.ID),
		))
	}
	kb.AddBackButton(JoinForm)

	if len(available) == 0 {
		return "👥 Некого добавить в группу", kb.Build()
	}
	return "👥 Отметьте участников группы:", kb.Build()
}

// BuildHelpingScreen экран ассистента, который помогает записи
func BuildHelpingScreen(hp *Helping) (string, *models.InlineKeyboardMarkup) {
	e := &hp.Entry

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s <b>%s</b>\n\n", formatting.ModeEmoji(e.Help), e.ModeText()))
	sb.WriteString("👥 " + formatting.MembersText(e.Members) + "\n")
	sb.WriteString(formatting.RoomText(e.RoomID, e.Desk, hp.Room) + "\n")
	sb.WriteString("💬 " + formatting.Escape(hp.Message) + "\n")
	sb.WriteString("📝 Упражнения: " + formatting.ExercisesText(e.Exercises))

	kb := keyboard.NewBuilder()
	buttons := make([]models.InlineKeyboardButton, 0, len(e.Exercises))
	for _, n := range e.Exercises {
		buttons = append(buttons, keyboard.Button(
			keyboard.Checkbox(hp.Checked[n], strconv.Itoa(n)),
			fmt.Sprintf("%s%d", HelpExercise, n),
		))
	}
	kb.Grid(5, buttons...)

	photos := make([]models.InlineKeyboardButton, 0, len(e.Members))
	for _, m := range e.Members {
		photos = append(photos, keyboard.Button(
			"📷 "+model.FormatName(m.FirstName, m.LastName),
			fmt.Sprintf("%s%d", HelpPhoto, m.UserID),
		))
	}
	kb.Grid(2, photos...)

	if !e.IsRemote() {
		kb.Row(keyboard.Button("🗺 Комната", HelpRoom))
	}

	kb.Row(keyboard.Button("✅ Засчитать отмеченные", HelpApprove))
	kb.Row(
		keyboard.Button("↩️ Отпустить", HelpStop),
		keyboard.Button("🗑 Удалить запись", HelpReject),
	)
	return sb.String(), kb.Build()
}

// BuildConfirmScreen экран подтверждения Да/Нет
func BuildConfirmScreen(question, yes, no string) (string, *models.InlineKeyboardMarkup) {
	return question, keyboard.NewBuilder().Row(keyboard.YesNoButtons(yes, no)...).Build()
}
