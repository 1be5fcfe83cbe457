package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"go.uber.org/zap"
)

// Membership запись текущего пользователя в очереди предмета
type Membership struct {
	Subject *model.Subject
	InQueue bool
	EntryID int64
}

// MembershipService отслеживает запись студента в очереди
type MembershipService struct {
	api    QueueAPI
	logger *zap.Logger
}

func NewMembershipService(api QueueAPI, logger *zap.Logger) *MembershipService {
	return &MembershipService{
		api:    api,
		logger: logger,
	}
}

// ComputePosition позиция записи: индекс в массиве сервера + 1.
// ok = false если записи в массиве нет.
func ComputePosition(queue []model.QueueEntry, entryID int64) (position int, ok bool) {
	for i := range queue {
		if queue[i].ID == entryID {
			return i + 1, true
		}
	}
	return 0, false
}

// Refresh заново получает предмет и определяет есть ли пользователь в очереди
func (s *MembershipService) Refresh(ctx context.Context, sess *model.Session, subjectID int64) (*Membership, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrNoSession
	}

	subject, err := s.api.GetSubject(ctx, sess.Token, subjectID)
	if err != nil {
		return nil, fmt.Errorf("refresh membership: %w", err)
	}

	return &Membership{
		Subject: subject,
		InQueue: subject.InQueue(),
		EntryID: subject.UserEntryID,
	}, nil
}

// Position получает очередь и вычисляет позицию записи.
// Если по предмету пользователь в очереди, а записи нет - ErrInconsistentState.
func (s *MembershipService) Position(ctx context.Context, sess *model.Session, m *Membership) (int, []model.QueueEntry, error) {
	queue, err := s.api.GetQueue(ctx, sess.Token, m.Subject.ID)
	if err != nil {
		return 0, nil, fmt.Errorf("get queue for position: %w", err)
	}

	if !m.InQueue {
		return 0, queue, ErrNotInQueue
	}

	position, ok := ComputePosition(queue, m.EntryID)
	if !ok {
		s.logger.Warn("Entry missing from fetched queue",
			zap.Int64("subject_id", m.Subject.ID),
			zap.Int64("entry_id", m.EntryID),
			zap.Int("queue_length", len(queue)))
		return 0, queue, ErrInconsistentState
	}
	return position, queue, nil
}

// Leave удаляет запись пользователя только после подтверждения.
// Состояние обновляется в любом случае: после успеха, ошибки или отмены.
func (s *MembershipService) Leave(ctx context.Context, sess *model.Session, subjectID, entryID int64, confirmed bool) (*Membership, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrNoSession
	}

	var leaveErr error
	switch {
	case !confirmed:
		leaveErr = ErrLeaveCancelled
	case entryID <= 0:
		leaveErr = ErrNotInQueue
	default:
		if err := s.api.DeleteEntry(ctx, sess.Token, subjectID, entryID); err != nil {
			s.logger.Error("Failed to leave queue",
				zap.Int64("subject_id", subjectID),
				zap.Int64("entry_id", entryID),
				zap.Error(err))
			leaveErr = fmt.Errorf("leave queue: %w", err)
		} else {
			s.logger.Info("Left queue",
				zap.Int64("subject_id", subjectID),
				zap.Int64("entry_id", entryID),
				zap.Int64("user_id", sess.User.ID))
		}
	}

	m, err := s.Refresh(ctx, sess, subjectID)
	if err != nil {
		s.logger.Error("Failed to refresh membership after leave",
			zap.Int64("subject_id", subjectID),
			zap.Error(err))
		if leaveErr == nil {
			leaveErr = err
		}
	}
	return m, leaveErr
}

// Snapshot вычисленное состояние записи
type Snapshot struct {
	SubjectID   int64
	InQueue     bool
	EntryID     int64
	Position    int
	HasPosition bool
	Assisted    bool
	QueueLength int
}

// Tracker пересчитывает позицию только при изменении предмета,
// флага "в очереди" или полученного массива очереди
type Tracker struct {
	subjectID int64
	inQueue   bool
	entryID   int64
	signature []entrySignature
	snapshot  Snapshot
	observed  bool
}

type entrySignature struct {
	id     int64
	status model.EntryStatus
}

// Last последний вычисленный снимок; ok = false если ещё ничего не наблюдали
func (t *Tracker) Last() (Snapshot, bool) {
	return t.snapshot, t.observed
}

// Observe принимает свежие данные; recomputed = true если входы изменились.
// ErrInconsistentState возвращается вместе со снимком без позиции.
func (t *Tracker) Observe(m *Membership, queue []model.QueueEntry) (snap Snapshot, recomputed bool, err error) {
	signature := make([]entrySignature, len(queue))
	for i := range queue {
		signature[i] = entrySignature{id: queue[i].ID, status: queue[i].Status}
	}

	if t.observed &&
		t.subjectID == m.Subject.ID &&
		t.inQueue == m.InQueue &&
		t.entryID == m.EntryID &&
		sameSignature(t.signature, signature) {
		return t.snapshot, false, nil
	}

	t.subjectID = m.Subject.ID
	t.inQueue = m.InQueue
	t.entryID = m.EntryID
	t.signature = signature
	t.observed = true

	t.snapshot = Snapshot{
		SubjectID:   m.Subject.ID,
		InQueue:     m.InQueue,
		EntryID:     m.EntryID,
		QueueLength: len(queue),
	}

	if m.InQueue {
		position, ok := ComputePosition(queue, m.EntryID)
		if !ok {
			return t.snapshot, true, ErrInconsistentState
		}
		t.snapshot.Position = position
		t.snapshot.HasPosition = true
		t.snapshot.Assisted = queue[position-1].IsAssisted()
	}
	return t.snapshot, true, nil
}

func sameSignature(a, b []entrySignature) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
