package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/service"
	"go.uber.org/zap"
)

// WatchSessions сессии, подписанные на уведомления (service.SessionService)
type WatchSessions interface {
	Watching(ctx context.Context) ([]*model.Session, error)
	SetWatching(ctx context.Context, sess *model.Session, watching bool) error
}

// QueueObserver получает запись и очередь (service.MembershipService)
type QueueObserver interface {
	Refresh(ctx context.Context, sess *model.Session, subjectID int64) (*service.Membership, error)
	Position(ctx context.Context, sess *model.Session, m *service.Membership) (int, []model.QueueEntry, error)
}

// Notifier отправляет уведомления пользователю бота
type Notifier interface {
	NotifyPosition(ctx context.Context, telegramID int64, subject *model.Subject, prev, cur service.Snapshot) error
	NotifyLeftQueue(ctx context.Context, telegramID int64, subject *model.Subject) error
	NotifySessionExpired(ctx context.Context, telegramID int64) error
}

// Watcher периодически опрашивает очередь для подписанных пользователей
// и сообщает об изменении позиции
type Watcher struct {
	sessions WatchSessions
	queue    QueueObserver
	notifier Notifier
	interval time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	trackers map[int64]*service.Tracker

	started  bool
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// NewWatcher создаёт наблюдателя очереди
func NewWatcher(sessions WatchSessions, queue QueueObserver, notifier Notifier, interval time.Duration, logger *zap.Logger) *Watcher {
	return &Watcher{
		sessions: sessions,
		queue:    queue,
		notifier: notifier,
		interval: interval,
		logger:   logger,
		trackers: make(map[int64]*service.Tracker),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновый опрос
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	w.started = true
	w.mu.Unlock()

	w.logger.Info("Starting queue watcher", zap.Duration("interval", w.interval))
	go w.run(ctx)
}

// Stop останавливает опрос и ждёт завершения текущего прохода
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping queue watcher")
		close(w.stopChan)
	})

	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if started {
		<-w.done
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Poll(ctx)
		case <-w.stopChan:
			w.logger.Info("Queue watcher stopped")
			return
		case <-ctx.Done():
			w.logger.Info("Queue watcher cancelled")
			return
		}
	}
}

// Poll один проход по всем подписанным сессиям
func (w *Watcher) Poll(ctx context.Context) {
	sessions, err := w.sessions.Watching(ctx)
	if err != nil {
		w.logger.Error("Failed to list watching sessions", zap.Error(err))
		return
	}

	active := make(map[int64]bool, len(sessions))
	for _, sess := range sessions {
		active[sess.TelegramID] = true
		w.pollSession(ctx, sess)
	}

	w.mu.Lock()
	for id := range w.trackers {
		if !active[id] {
			delete(w.trackers, id)
		}
	}
	w.mu.Unlock()
}

// Forget сбрасывает состояние пользователя, например после /unwatch
func (w *Watcher) Forget(telegramID int64) {
	w.mu.Lock()
	delete(w.trackers, telegramID)
	w.mu.Unlock()
}

func (w *Watcher) tracker(telegramID int64) *service.Tracker {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.trackers[telegramID]
	if !ok {
		t = &service.Tracker{}
		w.trackers[telegramID] = t
	}
	return t
}

func (w *Watcher) pollSession(ctx context.Context, sess *model.Session) {
	log := w.logger.With(
		zap.Int64("telegram_id", sess.TelegramID),
		zap.Int64("subject_id", sess.SelectedSubjectID))

	m, err := w.queue.Refresh(ctx, sess, sess.SelectedSubjectID)
	if err != nil {
		w.handleError(ctx, sess, log, err)
		return
	}

	_, queue, err := w.queue.Position(ctx, sess, m)
	if err != nil && !errors.Is(err, service.ErrNotInQueue) && !errors.Is(err, service.ErrInconsistentState) {
		w.handleError(ctx, sess, log, err)
		return
	}

	tracker := w.tracker(sess.TelegramID)
	prev, hadPrev := tracker.Last()

	cur, recomputed, err := tracker.Observe(m, queue)
	if err != nil {
		// Запись есть по предмету, но не пришла в очереди: ждём следующего опроса
		log.Warn("Inconsistent queue state", zap.Error(err))
		return
	}
	if !recomputed || !hadPrev {
		return
	}

	if prev.InQueue && !cur.InQueue {
		if err := w.notifier.NotifyLeftQueue(ctx, sess.TelegramID, m.Subject); err != nil {
			log.Error("Failed to notify about leaving queue", zap.Error(err))
		}
		if err := w.sessions.SetWatching(ctx, sess, false); err != nil {
			log.Error("Failed to disable watching", zap.Error(err))
		}
		w.Forget(sess.TelegramID)
		return
	}

	if cur.InQueue && (prev.Position != cur.Position || prev.Assisted != cur.Assisted || !prev.InQueue) {
		if err := w.notifier.NotifyPosition(ctx, sess.TelegramID, m.Subject, prev, cur); err != nil {
			log.Error("Failed to notify about position", zap.Error(err))
			return
		}
		log.Debug("Position update sent",
			zap.Int("position", cur.Position),
			zap.Bool("assisted", cur.Assisted))
	}
}

func (w *Watcher) handleError(ctx context.Context, sess *model.Session, log *zap.Logger, err error) {
	if !service.IsAuthError(err) {
		log.Warn("Failed to poll queue", zap.Error(err))
		return
	}

	log.Info("Session rejected by queue service, disabling watching", zap.Error(err))
	if err := w.notifier.NotifySessionExpired(ctx, sess.TelegramID); err != nil {
		log.Error("Failed to notify about expired session", zap.Error(err))
	}
	if err := w.sessions.SetWatching(ctx, sess, false); err != nil {
		log.Error("Failed to disable watching", zap.Error(err))
	}
	w.Forget(sess.TelegramID)
}
