package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/qsapi"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)
	return signed
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	got := TokenExpiry(signedToken(t, exp))
	require.NotNil(t, got)
	assert.True(t, exp.Equal(*got))

	assert.Nil(t, TokenExpiry("opaque-cookie-value"))
	assert.Nil(t, TokenExpiry(""))
}

func TestSessionService_Login(t *testing.T) {
	api := newFakeAPI()
	api.user = &model.User{ID: 7, FirstName: "Ola"}
	api.token = signedToken(t, time.Now().Add(time.Hour))
	api.roles = []model.SubjectRole{{SubjectID: 1, Role: 2}, {SubjectID: 2, Role: 4}}
	store := newMemStore()

	svc := NewSessionService(api, store, zap.NewNop())
	sess, err := svc.Login(context.Background(), 100, "ola@example.com", "pw")
	require.NoError(t, err)
	assert.NotNil(t, sess.TokenExpiresAt)
	assert.True(t, sess.IsTA(1))
	assert.False(t, sess.IsTA(2))
	assert.Contains(t, store.sessions, int64(100))
}

func TestSessionService_LoginWithoutRoles(t *testing.T) {
	api := newFakeAPI()
	api.user = &model.User{ID: 7}
	api.token = "tok"
	api.failOn["GetSubjectRoles"] = errors.New("boom")

	svc := NewSessionService(api, newMemStore(), zap.NewNop())
	sess, err := svc.Login(context.Background(), 100, "a", "b")
	require.NoError(t, err)
	assert.NotNil(t, sess.Roles)
	assert.Empty(t, sess.Roles)
	assert.Nil(t, sess.TokenExpiresAt)
}

func TestSessionService_LoginFailure(t *testing.T) {
	api := newFakeAPI()
	api.failOn["Login"] = &qsapi.APIError{StatusCode: 401}
	store := newMemStore()

	_, err := NewSessionService(api, store, zap.NewNop()).Login(context.Background(), 100, "a", "b")
	assert.ErrorIs(t, err, qsapi.ErrUnauthorized)
	assert.Empty(t, store.sessions)
}

func TestSessionService_Get(t *testing.T) {
	store := newMemStore()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)
	store.sessions[1] = &model.Session{TelegramID: 1, Token: "a", TokenExpiresAt: &future}
	store.sessions[2] = &model.Session{TelegramID: 2, Token: "b", TokenExpiresAt: &past}
	store.sessions[3] = &model.Session{TelegramID: 3, Token: "c"}

	svc := NewSessionService(newFakeAPI(), store, zap.NewNop())
	svc.now = func() time.Time { return now }

	_, err := svc.Get(context.Background(), 1)
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), 2)
	assert.ErrorIs(t, err, ErrSessionExpired)
	_, err = svc.Get(context.Background(), 3)
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestSessionService_SelectSubject(t *testing.T) {
	api := newFakeAPI()
	api.subject = &model.Subject{ID: 5, Name: "Algorithms"}
	store := newMemStore()
	svc := NewSessionService(api, store, zap.NewNop())
	sess := testSession()

	_, err := svc.SelectedSubject(context.Background(), sess)
	assert.ErrorIs(t, err, ErrNoSubjectSelected)

	subject, err := svc.SelectSubject(context.Background(), sess, 5)
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", subject.Name)
	assert.Equal(t, int64(5), store.sessions[sess.TelegramID].SelectedSubjectID)

	subject, err = svc.SelectedSubject(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, int64(5), subject.ID)
}

func TestSessionService_Watching(t *testing.T) {
	store := newMemStore()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	store.sessions[1] = &model.Session{TelegramID: 1, Watching: true}
	store.sessions[2] = &model.Session{TelegramID: 2, Watching: true, TokenExpiresAt: &past}
	store.sessions[3] = &model.Session{TelegramID: 3}

	svc := NewSessionService(newFakeAPI(), store, zap.NewNop())
	svc.now = func() time.Time { return now }

	sessions, err := svc.Watching(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(1), sessions[0].TelegramID)
}

func TestSessionService_RequireTA(t *testing.T) {
	svc := NewSessionService(newFakeAPI(), newMemStore(), zap.NewNop())
	sess := &model.Session{Roles: []model.SubjectRole{{SubjectID: 1, Role: 1}}}

	assert.NoError(t, svc.RequireTA(sess, 1))
	assert.ErrorIs(t, svc.RequireTA(sess, 2), ErrNotTA)
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(fmt.Errorf("wrap: %w", &qsapi.APIError{StatusCode: 403})))
	assert.True(t, IsAuthError(ErrSessionExpired))
	assert.False(t, IsAuthError(&qsapi.APIError{StatusCode: 500}))
	assert.False(t, IsAuthError(nil))
}
