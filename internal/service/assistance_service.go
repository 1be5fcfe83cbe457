package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/qsapi"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// AssistanceService ассистент берёт запись в работу, отпускает и засчитывает её
type AssistanceService struct {
	api    QueueAPI
	logger *zap.Logger
}

func NewAssistanceService(api QueueAPI, logger *zap.Logger) *AssistanceService {
	return &AssistanceService{
		api:    api,
		logger: logger,
	}
}

// Start помечает запись как "помогает taID": сначала teacher, потом status=1.
// Если записи уже помогает другой ассистент - ErrAlreadyAssisted без запросов.
func (s *AssistanceService) Start(ctx context.Context, sess *model.Session, entry *model.QueueEntry) error {
	if sess == nil || sess.Token == "" {
		return ErrNoSession
	}

	taID := sess.User.ID
	if entry.AssistedByOther(taID) {
		s.logger.Info("Entry already assisted by another TA",
			zap.Int64("entry_id", entry.ID),
			zap.Int64("teacher", entry.Teacher),
			zap.Int64("ta_id", taID))
		return ErrAlreadyAssisted
	}

	teacher := qsapi.Replace(qsapi.PathTeacher, strconv.FormatInt(taID, 10))
	if err := s.api.PatchEntry(ctx, sess.Token, entry.SubjectID, entry.ID, teacher); err != nil {
		s.logger.Error("Failed to set entry teacher", zap.Int64("entry_id", entry.ID), zap.Error(err))
		return fmt.Errorf("start assistance: %w", err)
	}

	status := qsapi.Replace(qsapi.PathStatus, "1")
	if err := s.api.PatchEntry(ctx, sess.Token, entry.SubjectID, entry.ID, status); err != nil {
		s.logger.Error("Failed to set entry status", zap.Int64("entry_id", entry.ID), zap.Error(err))
		return fmt.Errorf("start assistance: %w", err)
	}

	entry.Teacher = taID
	entry.Status = model.EntryStatusAssisted
	s.logger.Info("Assistance started",
		zap.Int64("subject_id", entry.SubjectID),
		zap.Int64("entry_id", entry.ID),
		zap.Int64("ta_id", taID))
	return nil
}

// Stop отпускает запись: status=0, затем teacher=null.
// Второй запрос отправляется даже если первый упал; ошибки объединяются.
func (s *AssistanceService) Stop(ctx context.Context, sess *model.Session, subjectID, entryID int64) error {
	if sess == nil || sess.Token == "" {
		return ErrNoSession
	}

	var errs error
	if err := s.api.PatchEntry(ctx, sess.Token, subjectID, entryID, qsapi.Replace(qsapi.PathStatus, "0")); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := s.api.PatchEntry(ctx, sess.Token, subjectID, entryID, qsapi.Replace(qsapi.PathTeacher, nil)); err != nil {
		errs = multierr.Append(errs, err)
	}

	if errs != nil {
		s.logger.Error("Failed to stop assistance",
			zap.Int64("subject_id", subjectID),
			zap.Int64("entry_id", entryID),
			zap.Error(errs))
		return fmt.Errorf("stop assistance: %w", errs)
	}

	s.logger.Info("Assistance stopped",
		zap.Int64("subject_id", subjectID),
		zap.Int64("entry_id", entryID))
	return nil
}

// Approve засчитывает отмеченные упражнения записи.
// Номера сопоставляются с упражнениями предмета; нужно хотя бы одно совпадение.
func (s *AssistanceService) Approve(
	ctx context.Context,
	sess *model.Session,
	subjectID, entryID int64,
	checked map[int]bool,
	exercises []model.Exercise,
) ([]model.Exercise, error) {
	if !model.AnyChecked(checked) {
		return nil, ErrNoExercisesChecked
	}
	if exercises == nil {
		return nil, ErrExercisesUnavailable
	}
	if sess == nil || sess.Token == "" {
		return nil, ErrNoSession
	}

	toApprove := model.ExercisesByNumbers(exercises, checked)
	if len(toApprove) == 0 {
		return nil, ErrNoExercisesChecked
	}

	if err := s.api.ApproveEntry(ctx, sess.Token, subjectID, entryID, toApprove); err != nil {
		s.logger.Error("Failed to approve exercises",
			zap.Int64("subject_id", subjectID),
			zap.Int64("entry_id", entryID),
			zap.Error(err))
		return nil, fmt.Errorf("approve entry: %w", err)
	}

	s.logger.Info("Exercises approved",
		zap.Int64("subject_id", subjectID),
		zap.Int64("entry_id", entryID),
		zap.Int("count", len(toApprove)))
	return toApprove, nil
}

// Reject удаляет запись из очереди без зачёта
func (s *AssistanceService) Reject(ctx context.Context, sess *model.Session, subjectID, entryID int64) error {
	if sess == nil || sess.Token == "" {
		return ErrNoSession
	}

	if err := s.api.DeleteEntry(ctx, sess.Token, subjectID, entryID); err != nil {
		s.logger.Error("Failed to reject entry",
			zap.Int64("subject_id", subjectID),
			zap.Int64("entry_id", entryID),
			zap.Error(err))
		return fmt.Errorf("reject entry: %w", err)
	}

	s.logger.Info("Entry rejected",
		zap.Int64("subject_id", subjectID),
		zap.Int64("entry_id", entryID))
	return nil
}

// MemberPhoto фото участника записи; nil если фото не загружено
func (s *AssistanceService) MemberPhoto(ctx context.Context, sess *model.Session, subjectID, userID int64) ([]byte, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrNoSession
	}

	photo, err := s.api.GetUserPhoto(ctx, sess.Token, subjectID, userID)
	if err != nil {
		s.logger.Warn("Failed to load member photo",
			zap.Int64("subject_id", subjectID),
			zap.Int64("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("get member photo: %w", err)
	}
	return photo, nil
}

// InitialChecks отметки упражнений для экрана помощи: все упражнения записи отмечены
func InitialChecks(entry *model.QueueEntry) map[int]bool {
	checked := make(map[int]bool, len(entry.Exercises))
	for _, number := range entry.Exercises {
		checked[number] = true
	}
	return checked
}
