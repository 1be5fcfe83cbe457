package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/qsapi"
	"go.uber.org/zap"
)

// LocationSelection выбор места: кампус -> здание -> комната -> стол.
// 0 означает "не выбрано". Выбор сбрасывает только нижние уровни.
type LocationSelection struct {
	Remote     bool  `json:"remote"`
	CampusID   int64 `json:"campus_id"`
	BuildingID int64 `json:"building_id"`
	RoomID     int64 `json:"room_id"`
	Table      int   `json:"table"`
}

// SelectCampus выбирает кампус и сбрасывает здание, комнату и стол
func (l *LocationSelection) SelectCampus(campusID int64) {
	l.CampusID = campusID
	l.BuildingID = 0
	l.RoomID = 0
	l.Table = 0
}

// SelectBuilding выбирает здание и сбрасывает комнату и стол
func (l *LocationSelection) SelectBuilding(buildingID int64) {
	l.BuildingID = buildingID
	l.RoomID = 0
	l.Table = 0
}

// SelectRoom выбирает комнату и сбрасывает стол
func (l *LocationSelection) SelectRoom(roomID int64) {
	l.RoomID = roomID
	l.Table = 0
}

// SelectTable выбирает стол
func (l *LocationSelection) SelectTable(table int) {
	l.Table = table
}

// SetRemote переключает режим "работаю из дома"
func (l *LocationSelection) SetRemote(remote bool) {
	l.Remote = remote
}

// Complete выбрано ли всё, что нужно
func (l *LocationSelection) Complete() bool {
	if l.Remote {
		return true
	}
	return l.CampusID > 0 && l.BuildingID > 0 && l.RoomID > 0 && l.Table > 0
}

// RoomAndDesk значения для API: (0, 0) при удалённой работе
func (l *LocationSelection) RoomAndDesk() (int64, int) {
	if l.Remote {
		return model.RemoteRoomID, 0
	}
	return l.RoomID, l.Table
}

// Selection черновик записи в очередь
type Selection struct {
	CheckedExercises map[int]bool      `json:"checked_exercises"`
	Location         LocationSelection `json:"location"`
	Mode             model.EntryMode   `json:"mode"`
	GroupMemberIDs   []int64           `json:"group_member_ids"`
	Message          string            `json:"message"`
}

// NewSelection пустой черновик
func NewSelection() *Selection {
	return &Selection{CheckedExercises: make(map[int]bool)}
}

// ToggleExercise переключает отметку упражнения
func (s *Selection) ToggleExercise(number int) {
	if s.CheckedExercises == nil {
		s.CheckedExercises = make(map[int]bool)
	}
	s.CheckedExercises[number] = !s.CheckedExercises[number]
}

// ToggleMember добавляет или убирает участника группы
func (s *Selection) ToggleMember(userID int64) {
	for i, id := range s.GroupMemberIDs {
		if id == userID {
			s.GroupMemberIDs = append(s.GroupMemberIDs[:i], s.GroupMemberIDs[i+1:]...)
			return
		}
	}
	s.GroupMemberIDs = append(s.GroupMemberIDs, userID)
}

// EntryBuilder проверяет и отправляет новую или изменённую запись
type EntryBuilder struct {
	api    QueueAPI
	logger *zap.Logger
}

func NewEntryBuilder(api QueueAPI, logger *zap.Logger) *EntryBuilder {
	return &EntryBuilder{
		api:    api,
		logger: logger,
	}
}

// Form справочные данные формы записи
type Form struct {
	// Exercises nil если список не загрузился
	Exercises []model.Exercise
	Available []model.User
}

// LoadForm загружает упражнения предмета и тех, кого можно добавить в группу.
// Ошибки загрузки не фатальны: форма покажет что есть, а Validate не пропустит запись без упражнений.
func (b *EntryBuilder) LoadForm(ctx context.Context, sess *model.Session, subjectID int64) (*Form, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrNoSession
	}

	form := &Form{}
	exercises, err := b.api.GetSubjectExercises(ctx, sess.Token, subjectID)
	if err != nil {
		b.logger.Warn("Failed to load subject exercises", zap.Int64("subject_id", subjectID), zap.Error(err))
	} else {
		form.Exercises = exercises
	}

	users, err := b.api.GetAvailableUsers(ctx, sess.Token, subjectID)
	if err != nil {
		b.logger.Warn("Failed to load available users", zap.Int64("subject_id", subjectID), zap.Error(err))
	}
	for _, u := range users {
		if u.ID != sess.User.ID {
			form.Available = append(form.Available, u)
		}
	}
	return form, nil
}

// Validate проверяет черновик в фиксированном порядке:
// упражнения, список упражнений предмета, сессия, предмет, место, режим.
// exercises == nil означает что список упражнений не загрузился.
func Validate(sess *model.Session, subject *model.Subject, sel *Selection, exercises []model.Exercise) error {
	if sel == nil || !model.AnyChecked(sel.CheckedExercises) {
		return ErrNoExercisesChecked
	}
	if exercises == nil {
		return ErrExercisesUnavailable
	}
	if sess == nil || sess.Token == "" {
		return ErrNoSession
	}
	if subject == nil {
		return ErrNoSubject
	}
	if !sel.Location.Complete() {
		return ErrNoLocation
	}
	if sel.Mode != model.ModeHelp && sel.Mode != model.ModeApproval {
		return ErrNoMode
	}
	return nil
}

// BuildEntry собирает тело запроса из проверенного черновика.
// Участники группы ищутся по ID среди доступных, неизвестные ID пропускаются.
func BuildEntry(subject *model.Subject, sel *Selection, exercises []model.Exercise, available []model.User) model.NewEntry {
	roomID, desk := sel.Location.RoomAndDesk()

	checked := model.ExercisesByNumbers(exercises, sel.CheckedExercises)
	exerciseIDs := make([]int64, 0, len(checked))
	for _, ex := range checked {
		exerciseIDs = append(exerciseIDs, ex.ID)
	}

	return model.NewEntry{
		SubjectID: subject.ID,
		RoomID:    roomID,
		Desk:      desk,
		Help:      sel.Mode.HelpFlag(),
		Exercises: exerciseIDs,
		Members:   resolveMembers(sel.GroupMemberIDs, available),
	}
}

func resolveMembers(ids []int64, available []model.User) []model.User {
	members := make([]model.User, 0, len(ids))
	for _, id := range ids {
		for _, u := range available {
			if u.ID == id {
				members = append(members, u)
				break
			}
		}
	}
	return members
}

// Submit проверяет черновик, создаёт запись и, если есть сообщение, отправляет его вторым запросом.
// Если запись создана, а сообщение нет - возвращает ID записи и ErrMessageNotSaved.
func (b *EntryBuilder) Submit(
	ctx context.Context,
	sess *model.Session,
	subject *model.Subject,
	sel *Selection,
	exercises []model.Exercise,
	available []model.User,
) (int64, error) {
	if err := Validate(sess, subject, sel, exercises); err != nil {
		return 0, err
	}

	entry := BuildEntry(subject, sel, exercises, available)
	entryID, err := b.api.AddEntry(ctx, sess.Token, subject.ID, entry)
	if err != nil {
		b.logger.Error("Failed to add queue entry",
			zap.Int64("subject_id", subject.ID),
			zap.Int64("user_id", sess.User.ID),
			zap.Error(err))
		return 0, fmt.Errorf("submit entry: %w", err)
	}

	b.logger.Info("Queue entry created",
		zap.Int64("subject_id", subject.ID),
		zap.Int64("entry_id", entryID),
		zap.Int("exercises", len(entry.Exercises)),
		zap.Int("members", len(entry.Members)),
		zap.Bool("remote", sel.Location.Remote))

	if message := strings.TrimSpace(sel.Message); message != "" {
		if err := b.api.SetEntryMessage(ctx, sess.Token, subject.ID, entryID, message); err != nil {
			b.logger.Warn("Failed to attach message to entry",
				zap.Int64("entry_id", entryID),
				zap.Error(err))
			return entryID, fmt.Errorf("%w: %v", ErrMessageNotSaved, err)
		}
	}

	return entryID, nil
}

// Modify проверяет черновик и заменяет поля существующей записи
func (b *EntryBuilder) Modify(
	ctx context.Context,
	sess *model.Session,
	subject *model.Subject,
	entryID int64,
	sel *Selection,
	exercises []model.Exercise,
	available []model.User,
) error {
	if err := Validate(sess, subject, sel, exercises); err != nil {
		return err
	}
	if entryID <= 0 {
		return ErrNotInQueue
	}

	entry := BuildEntry(subject, sel, exercises, available)
	patches := []qsapi.Patch{
		qsapi.Replace(qsapi.PathHelp, strconv.Itoa(entry.Help)),
		qsapi.Replace(qsapi.PathRoom, strconv.FormatInt(entry.RoomID, 10)),
		qsapi.Replace(qsapi.PathDesk, strconv.Itoa(entry.Desk)),
		qsapi.Replace(qsapi.PathExercises, entry.Exercises),
		qsapi.Replace(qsapi.PathMembers, entry.Members),
	}

	for _, patch := range patches {
		if err := b.api.PatchEntry(ctx, sess.Token, subject.ID, entryID, patch); err != nil {
			b.logger.Error("Failed to modify queue entry",
				zap.Int64("entry_id", entryID),
				zap.String("path", patch.Path),
				zap.Error(err))
			return fmt.Errorf("modify entry: %w", err)
		}
	}

	if message := strings.TrimSpace(sel.Message); message != "" {
		if err := b.api.SetEntryMessage(ctx, sess.Token, subject.ID, entryID, message); err != nil {
			return fmt.Errorf("%w: %v", ErrMessageNotSaved, err)
		}
	}

	b.logger.Info("Queue entry modified",
		zap.Int64("subject_id", subject.ID),
		zap.Int64("entry_id", entryID))
	return nil
}

// Prefill строит черновик из существующей записи для редактирования
func (b *EntryBuilder) Prefill(ctx context.Context, sess *model.Session, locations *LocationService, subjectID, entryID int64) (*Selection, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrNoSession
	}

	entry, err := b.api.GetEntry(ctx, sess.Token, subjectID, entryID)
	if err != nil {
		return nil, fmt.Errorf("prefill entry: %w", err)
	}

	sel := NewSelection()
	for _, number := range entry.Exercises {
		sel.CheckedExercises[number] = true
	}
	if entry.Help {
		sel.Mode = model.ModeHelp
	} else {
		sel.Mode = model.ModeApproval
	}
	for _, member := range entry.Members {
		if member.UserID != sess.User.ID {
			sel.GroupMemberIDs = append(sel.GroupMemberIDs, member.UserID)
		}
	}

	if entry.IsRemote() {
		sel.Location.SetRemote(true)
	} else if locations != nil {
		loc, err := locations.Resolve(ctx, sess, entry.RoomID)
		if err != nil {
			b.logger.Warn("Could not resolve entry location, leaving it unset",
				zap.Int64("room_id", entry.RoomID),
				zap.Error(err))
		} else {
			sel.Location = *loc
			sel.Location.SelectTable(entry.Desk)
		}
	}

	message, err := b.api.GetEntryMessage(ctx, sess.Token, subjectID, entryID)
	if err != nil {
		b.logger.Warn("Could not load entry message", zap.Int64("entry_id", entryID), zap.Error(err))
	} else {
		sel.Message = message
	}

	return sel, nil
}
