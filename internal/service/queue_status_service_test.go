package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNextToggleStatus(t *testing.T) {
	tests := []struct {
		name    string
		current model.QueueStatus
		next    model.QueueStatus
		ok      bool
	}{
		{"closed opens", model.QueueStatusClosed, model.QueueStatusOpen, true},
		{"paused opens", model.QueueStatusPaused, model.QueueStatusOpen, true},
		{"open closes", model.QueueStatusOpen, model.QueueStatusClosed, true},
		{"unknown stays", model.QueueStatus(5), model.QueueStatus(5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := NextToggleStatus(tt.current)
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestQueueStatusService_Toggle(t *testing.T) {
	tests := []struct {
		name    string
		current model.QueueStatus
		patch   string
	}{
		{"closed", model.QueueStatusClosed, "PatchQueue:/status=1"},
		{"paused", model.QueueStatusPaused, "PatchQueue:/status=1"},
		{"open", model.QueueStatusOpen, "PatchQueue:/status=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			svc := NewQueueStatusService(api, zap.NewNop())
			subject := &model.Subject{ID: 1, QueueStatus: tt.current}

			_, err := svc.Toggle(context.Background(), testSession(), subject)
			require.NoError(t, err)
			assert.Equal(t, []string{tt.patch}, api.methods())
		})
	}
}

func TestQueueStatusService_ToggleUnknownSendsNothing(t *testing.T) {
	api := newFakeAPI()
	svc := NewQueueStatusService(api, zap.NewNop())
	subject := &model.Subject{ID: 1, QueueStatus: model.QueueStatus(5)}

	status, err := svc.Toggle(context.Background(), testSession(), subject)
	assert.ErrorIs(t, err, ErrUnknownQueueStatus)
	assert.Equal(t, model.QueueStatus(5), status)
	assert.Empty(t, api.methods())
}

func TestQueueStatusService_ToggleFailureKeepsStatus(t *testing.T) {
	api := newFakeAPI()
	api.failOn["PatchQueue"] = errors.New("boom")
	svc := NewQueueStatusService(api, zap.NewNop())
	subject := &model.Subject{ID: 1, QueueStatus: model.QueueStatusOpen}

	_, err := svc.Toggle(context.Background(), testSession(), subject)
	require.Error(t, err)
	assert.Equal(t, model.QueueStatusOpen, subject.QueueStatus)
}

func TestQueueStatusService_Pause(t *testing.T) {
	for _, current := range []model.QueueStatus{model.QueueStatusClosed, model.QueueStatusOpen, model.QueueStatusPaused} {
		api := newFakeAPI()
		svc := NewQueueStatusService(api, zap.NewNop())
		subject := &model.Subject{ID: 1, QueueStatus: current}

		require.NoError(t, svc.Pause(context.Background(), testSession(), subject))
		assert.Equal(t, []string{"PatchQueue:/status=2"}, api.methods())
		assert.Equal(t, model.QueueStatusPaused, subject.QueueStatus)
	}
}

func TestQueueStatusService_RequiresContext(t *testing.T) {
	api := newFakeAPI()
	svc := NewQueueStatusService(api, zap.NewNop())

	_, err := svc.Toggle(context.Background(), nil, &model.Subject{ID: 1})
	assert.ErrorIs(t, err, ErrNoSession)

	err = svc.Pause(context.Background(), testSession(), nil)
	assert.ErrorIs(t, err, ErrNoSubject)

	assert.Empty(t, api.methods())
}

func TestQueueStatusService_ChangeNotice(t *testing.T) {
	api := newFakeAPI()
	svc := NewQueueStatusService(api, zap.NewNop())
	subject := &model.Subject{ID: 1}

	require.NoError(t, svc.ChangeNotice(context.Background(), testSession(), subject, "Room changed"))
	assert.Equal(t, []string{"PatchQueue:/notice=Room changed"}, api.methods())
	assert.Equal(t, "Room changed", subject.Notice)
}
