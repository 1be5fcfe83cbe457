package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/qsapi"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// SessionStore хранилище сессий, реализуется repository.SessionRepository
type SessionStore interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Session, error)
	Save(ctx context.Context, sess *model.Session) error
	Delete(ctx context.Context, telegramID int64) error
	ListWatching(ctx context.Context) ([]*model.Session, error)
}

// SessionService вход в сервис очередей и контекст пользователя бота
type SessionService struct {
	api    QueueAPI
	store  SessionStore
	logger *zap.Logger
	now    func() time.Time
}

func NewSessionService(api QueueAPI, store SessionStore, logger *zap.Logger) *SessionService {
	return &SessionService{
		api:    api,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Login входит в сервис очередей и сохраняет сессию
func (s *SessionService) Login(ctx context.Context, telegramID int64, email, password string) (*model.Session, error) {
	user, token, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		return nil, fmt.Errorf("login: %w", err)
	}

	sess := &model.Session{
		TelegramID:     telegramID,
		User:           *user,
		Token:          token,
		TokenExpiresAt: TokenExpiry(token),
	}

	roles, err := s.api.GetSubjectRoles(ctx, token, user.ID)
	if err != nil {
		s.logger.Error("Failed to fetch subject roles, continuing without roles",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		roles = []model.SubjectRole{}
	}
	sess.Roles = roles

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("User logged in",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("user_id", user.ID),
		zap.Int("roles", len(roles)))
	return sess, nil
}

// TokenExpiry читает exp из токена без проверки подписи; nil если токен не JWT
func TokenExpiry(token string) *time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	exp := claims.ExpiresAt.Time
	return &exp
}

// Get возвращает действующую сессию пользователя
func (s *SessionService) Get(ctx context.Context, telegramID int64) (*model.Session, error) {
	sess, err := s.store.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, ErrNotLoggedIn
	}
	if sess.Expired(s.now()) {
		s.logger.Info("Session token expired", zap.Int64("telegram_id", telegramID))
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// Logout удаляет сессию
func (s *SessionService) Logout(ctx context.Context, telegramID int64) error {
	if err := s.store.Delete(ctx, telegramID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info("User logged out", zap.Int64("telegram_id", telegramID))
	return nil
}

// Subjects активные предметы пользователя
func (s *SessionService) Subjects(ctx context.Context, sess *model.Session) ([]model.Subject, error) {
	subjects, err := s.api.GetSubjectsForUser(ctx, sess.Token, sess.User.ID)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// SelectSubject запоминает выбранный предмет и возвращает его свежее состояние
func (s *SessionService) SelectSubject(ctx context.Context, sess *model.Session, subjectID int64) (*model.Subject, error) {
	subject, err := s.api.GetSubject(ctx, sess.Token, subjectID)
	if err != nil {
		return nil, fmt.Errorf("select subject: %w", err)
	}

	sess.SelectedSubjectID = subject.ID
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save selected subject: %w", err)
	}
	return subject, nil
}

// SelectedSubject текущий выбранный предмет, заново полученный из API
func (s *SessionService) SelectedSubject(ctx context.Context, sess *model.Session) (*model.Subject, error) {
	if sess.SelectedSubjectID == 0 {
		return nil, ErrNoSubjectSelected
	}
	subject, err := s.api.GetSubject(ctx, sess.Token, sess.SelectedSubjectID)
	if err != nil {
		return nil, fmt.Errorf("get selected subject: %w", err)
	}
	return subject, nil
}

// RequireTA проверяет что пользователь ассистент в предмете
func (s *SessionService) RequireTA(sess *model.Session, subjectID int64) error {
	if !sess.IsTA(subjectID) {
		return ErrNotTA
	}
	return nil
}

// SetWatching включает или выключает уведомления о позиции
func (s *SessionService) SetWatching(ctx context.Context, sess *model.Session, watching bool) error {
	sess.Watching = watching
	if err := s.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("set watching: %w", err)
	}
	return nil
}

// Watching сессии, подписанные на уведомления; истёкшие пропускаются
func (s *SessionService) Watching(ctx context.Context) ([]*model.Session, error) {
	sessions, err := s.store.ListWatching(ctx)
	if err != nil {
		return nil, fmt.Errorf("list watching sessions: %w", err)
	}

	now := s.now()
	active := sessions[:0]
	for _, sess := range sessions {
		if !sess.Expired(now) {
			active = append(active, sess)
		}
	}
	return active, nil
}

// IsAuthError истёк ли токен по мнению сервиса или по exp
func IsAuthError(err error) bool {
	return errors.Is(err, qsapi.ErrUnauthorized) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrNotLoggedIn)
}
