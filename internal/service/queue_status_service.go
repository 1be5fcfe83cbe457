package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/qsapi"
	"go.uber.org/zap"
)

// QueueStatusService управляет статусом очереди предмета (только ассистенты)
type QueueStatusService struct {
	api    QueueAPI
	logger *zap.Logger
}

func NewQueueStatusService(api QueueAPI, logger *zap.Logger) *QueueStatusService {
	return &QueueStatusService{
		api:    api,
		logger: logger,
	}
}

// NextToggleStatus куда переключается очередь: closed/paused -> open, open -> closed.
// Для неизвестного статуса ok = false.
func NextToggleStatus(current model.QueueStatus) (next model.QueueStatus, ok bool) {
	switch current {
	case model.QueueStatusClosed, model.QueueStatusPaused:
		return model.QueueStatusOpen, true
	case model.QueueStatusOpen:
		return model.QueueStatusClosed, true
	default:
		return current, false
	}
}

// Toggle открывает закрытую/приостановленную очередь или закрывает открытую.
// Возвращает запрошенный статус.
func (s *QueueStatusService) Toggle(ctx context.Context, sess *model.Session, subject *model.Subject) (model.QueueStatus, error) {
	if err := requireContext(sess, subject); err != nil {
		return 0, err
	}

	next, ok := NextToggleStatus(subject.QueueStatus)
	if !ok {
		s.logger.Warn("Invalid queue status, no action taken",
			zap.Int64("subject_id", subject.ID),
			zap.Int("status", int(subject.QueueStatus)))
		return subject.QueueStatus, ErrUnknownQueueStatus
	}

	if err := s.setStatus(ctx, sess, subject, next); err != nil {
		return subject.QueueStatus, err
	}
	return next, nil
}

// Pause приостанавливает очередь без проверки текущего статуса
func (s *QueueStatusService) Pause(ctx context.Context, sess *model.Session, subject *model.Subject) error {
	if err := requireContext(sess, subject); err != nil {
		return err
	}
	return s.setStatus(ctx, sess, subject, model.QueueStatusPaused)
}

// ChangeNotice меняет объявление для студентов
func (s *QueueStatusService) ChangeNotice(ctx context.Context, sess *model.Session, subject *model.Subject, notice string) error {
	if err := requireContext(sess, subject); err != nil {
		return err
	}

	if err := s.api.PatchQueue(ctx, sess.Token, subject.ID, qsapi.Replace(qsapi.PathNotice, notice)); err != nil {
		s.logger.Error("Failed to change queue notice",
			zap.Int64("subject_id", subject.ID),
			zap.Error(err))
		return fmt.Errorf("change notice: %w", err)
	}

	subject.Notice = notice
	s.logger.Info("Queue notice changed",
		zap.Int64("subject_id", subject.ID),
		zap.Int64("user_id", sess.User.ID))
	return nil
}

func (s *QueueStatusService) setStatus(ctx context.Context, sess *model.Session, subject *model.Subject, status model.QueueStatus) error {
	err := s.api.PatchQueue(ctx, sess.Token, subject.ID, qsapi.Replace(qsapi.PathStatus, status.PatchValue()))
	if err != nil {
		s.logger.Error("Failed to change queue status",
			zap.Int64("subject_id", subject.ID),
			zap.String("status", status.String()),
			zap.Error(err))
		return fmt.Errorf("set queue status %s: %w", status, err)
	}

	s.logger.Info("Queue status changed",
		zap.Int64("subject_id", subject.ID),
		zap.String("from", subject.QueueStatus.String()),
		zap.String("to", status.String()))
	subject.QueueStatus = status
	return nil
}

// requireContext проверяет что есть сессия и предмет
func requireContext(sess *model.Session, subject *model.Subject) error {
	if sess == nil || sess.Token == "" {
		return ErrNoSession
	}
	if subject == nil {
		return ErrNoSubject
	}
	return nil
}
