package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/qsapi"
	"github.com/Freeeeeet/queue_bot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessions struct {
	sessions []*model.Session
	disabled []int64
}

func (f *fakeSessions) Watching(ctx context.Context) ([]*model.Session, error) {
	return f.sessions, nil
}

func (f *fakeSessions) SetWatching(ctx context.Context, sess *model.Session, watching bool) error {
	if !watching {
		f.disabled = append(f.disabled, sess.TelegramID)
	}
	return nil
}

type fakeQueue struct {
	entryID int64
	queue   []model.QueueEntry
	err     error
}

func (f *fakeQueue) Refresh(ctx context.Context, sess *model.Session, subjectID int64) (*service.Membership, error) {
	if f.err != nil {
		return nil, f.err
	}
	subject := &model.Subject{ID: subjectID, Name: "Algorithms", UserEntryID: f.entryID}
	return &service.Membership{Subject: subject, InQueue: f.entryID > 0, EntryID: f.entryID}, nil
}

func (f *fakeQueue) Position(ctx context.Context, sess *model.Session, m *service.Membership) (int, []model.QueueEntry, error) {
	if !m.InQueue {
		return 0, f.queue, service.ErrNotInQueue
	}
	pos, ok := service.ComputePosition(f.queue, m.EntryID)
	if !ok {
		return 0, f.queue, service.ErrInconsistentState
	}
	return pos, f.queue, nil
}

type positionNote struct {
	telegramID int64
	position   int
	assisted   bool
}

type fakeNotifier struct {
	mu        sync.Mutex
	positions []positionNote
	left      []int64
	expired   []int64
}

func (f *fakeNotifier) NotifyPosition(ctx context.Context, telegramID int64, subject *model.Subject, prev, cur service.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.positions = append(f.positions, positionNote{telegramID, cur.Position, cur.Assisted})
	return nil
}

func (f *fakeNotifier) NotifyLeftQueue(ctx context.Context, telegramID int64, subject *model.Subject) error {
	f.left = append(f.left, telegramID)
	return nil
}

func (f *fakeNotifier) NotifySessionExpired(ctx context.Context, telegramID int64) error {
	f.expired = append(f.expired, telegramID)
	return nil
}

func entries(ids ...int64) []model.QueueEntry {
	queue := make([]model.QueueEntry, len(ids))
	for i, id := range ids {
		queue[i] = model.QueueEntry{ID: id}
	}
	return queue
}

func newTestWatcher(queue *fakeQueue) (*Watcher, *fakeSessions, *fakeNotifier) {
	sessions := &fakeSessions{sessions: []*model.Session{{TelegramID: 100, Token: "tok", SelectedSubjectID: 1, Watching: true}}}
	notifier := &fakeNotifier{}
	return NewWatcher(sessions, queue, notifier, time.Minute, zap.NewNop()), sessions, notifier
}

func TestWatcher_NotifiesOnPositionChange(t *testing.T) {
	queue := &fakeQueue{entryID: 9, queue: entries(5, 9, 12)}
	w, _, notifier := newTestWatcher(queue)
	ctx := context.Background()

	// первый проход только запоминает состояние
	w.Poll(ctx)
	assert.Empty(t, notifier.positions)

	// без изменений уведомлений нет
	w.Poll(ctx)
	assert.Empty(t, notifier.positions)

	queue.queue = entries(9, 12)
	w.Poll(ctx)
	require.Len(t, notifier.positions, 1)
	assert.Equal(t, positionNote{100, 1, false}, notifier.positions[0])

	queue.queue[0].Status = model.EntryStatusAssisted
	w.Poll(ctx)
	require.Len(t, notifier.positions, 2)
	assert.True(t, notifier.positions[1].assisted)
}

func TestWatcher_IgnoresOtherEntriesReordering(t *testing.T) {
	queue := &fakeQueue{entryID: 9, queue: entries(5, 9, 12)}
	w, _, notifier := newTestWatcher(queue)
	ctx := context.Background()

	w.Poll(ctx)
	queue.queue = entries(5, 9, 12, 13)
	w.Poll(ctx)
	assert.Empty(t, notifier.positions)
}

func TestWatcher_LeftQueueDisablesWatching(t *testing.T) {
	queue := &fakeQueue{entryID: 9, queue: entries(9)}
	w, sessions, notifier := newTestWatcher(queue)
	ctx := context.Background()

	w.Poll(ctx)
	queue.entryID = 0
	queue.queue = nil
	w.Poll(ctx)

	assert.Equal(t, []int64{100}, notifier.left)
	assert.Equal(t, []int64{100}, sessions.disabled)
}

func TestWatcher_AuthErrorDisablesWatching(t *testing.T) {
	queue := &fakeQueue{err: &qsapi.APIError{StatusCode: 401}}
	w, sessions, notifier := newTestWatcher(queue)

	w.Poll(context.Background())
	assert.Equal(t, []int64{100}, notifier.expired)
	assert.Equal(t, []int64{100}, sessions.disabled)
}

func TestWatcher_TransientErrorKeepsWatching(t *testing.T) {
	queue := &fakeQueue{err: errors.New("connection reset")}
	w, sessions, notifier := newTestWatcher(queue)

	w.Poll(context.Background())
	assert.Empty(t, notifier.expired)
	assert.Empty(t, sessions.disabled)
}

func TestWatcher_StartStop(t *testing.T) {
	w, _, _ := newTestWatcher(&fakeQueue{})
	w.Start(context.Background())
	w.Stop()
	w.Stop()

	idle, _, _ := newTestWatcher(&fakeQueue{})
	idle.Stop()
}
