package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/qsapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAssistanceService_StartOrder(t *testing.T) {
	api := newFakeAPI()
	svc := NewAssistanceService(api, zap.NewNop())
	entry := &model.QueueEntry{ID: 9, SubjectID: 1}

	require.NoError(t, svc.Start(context.Background(), testSession(), entry))
	assert.Equal(t, []string{"PatchEntry:/teacher=7", "PatchEntry:/status=1"}, api.methods())
	assert.Equal(t, int64(7), entry.Teacher)
	assert.True(t, entry.IsAssisted())
}

func TestAssistanceService_StartRejectsAssistedByOther(t *testing.T) {
	api := newFakeAPI()
	svc := NewAssistanceService(api, zap.NewNop())
	entry := &model.QueueEntry{ID: 9, SubjectID: 1, Status: model.EntryStatusAssisted, Teacher: 8}

	err := svc.Start(context.Background(), testSession(), entry)
	assert.ErrorIs(t, err, ErrAlreadyAssisted)
	assert.Empty(t, api.methods())
}

func TestAssistanceService_StartResumesOwnEntry(t *testing.T) {
	api := newFakeAPI()
	svc := NewAssistanceService(api, zap.NewNop())
	entry := &model.QueueEntry{ID: 9, SubjectID: 1, Status: model.EntryStatusAssisted, Teacher: 7}

	require.NoError(t, svc.Start(context.Background(), testSession(), entry))
	assert.Equal(t, 2, api.countOf("PatchEntry"))
}

func TestAssistanceService_StartStopsAfterTeacherFailure(t *testing.T) {
	api := newFakeAPI()
	api.failOn["PatchEntry:/teacher"] = errors.New("boom")
	svc := NewAssistanceService(api, zap.NewNop())
	entry := &model.QueueEntry{ID: 9, SubjectID: 1}

	require.Error(t, svc.Start(context.Background(), testSession(), entry))
	assert.Equal(t, 1, api.countOf("PatchEntry"))
	assert.False(t, entry.IsAssisted())
}

func TestAssistanceService_Stop(t *testing.T) {
	api := newFakeAPI()
	svc := NewAssistanceService(api, zap.NewNop())

	require.NoError(t, svc.Stop(context.Background(), testSession(), 1, 9))
	assert.Equal(t, []string{"PatchEntry:/status=0", "PatchEntry:/teacher=<nil>"}, api.methods())
}

func TestAssistanceService_StopAttemptsBothWrites(t *testing.T) {
	statusErr := errors.New("status failed")
	teacherErr := errors.New("teacher failed")

	api := newFakeAPI()
	api.failOn["PatchEntry:/status"] = statusErr
	api.failOn["PatchEntry:/teacher"] = teacherErr
	svc := NewAssistanceService(api, zap.NewNop())

	err := svc.Stop(context.Background(), testSession(), 1, 9)
	require.Error(t, err)
	assert.Equal(t, 2, api.countOf("PatchEntry"))
	assert.ErrorIs(t, err, statusErr)
	assert.ErrorIs(t, err, teacherErr)
}

func TestAssistanceService_Approve(t *testing.T) {
	api := newFakeAPI()
	svc := NewAssistanceService(api, zap.NewNop())
	exercises := []model.Exercise{
		{ID: 103, Number: 3},
		{ID: 104, Number: 4},
	}

	approved, err := svc.Approve(context.Background(), testSession(), 1, 9, map[int]bool{3: true, 4: false}, exercises)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, 3, approved[0].Number)
	assert.Equal(t, approved, api.approved)
}

func TestAssistanceService_ApproveValidation(t *testing.T) {
	api := newFakeAPI()
	svc := NewAssistanceService(api, zap.NewNop())
	exercises := []model.Exercise{{ID: 103, Number: 3}}

	_, err := svc.Approve(context.Background(), nil, 1, 9, map[int]bool{3: false}, nil)
	assert.ErrorIs(t, err, ErrNoExercisesChecked)

	_, err = svc.Approve(context.Background(), nil, 1, 9, map[int]bool{3: true}, nil)
	assert.ErrorIs(t, err, ErrExercisesUnavailable)

	_, err = svc.Approve(context.Background(), nil, 1, 9, map[int]bool{3: true}, exercises)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = svc.Approve(context.Background(), testSession(), 1, 9, map[int]bool{8: true}, exercises)
	assert.ErrorIs(t, err, ErrNoExercisesChecked)

	assert.Empty(t, api.methods())
}

func TestAssistanceService_Reject(t *testing.T) {
	api := newFakeAPI()
	svc := NewAssistanceService(api, zap.NewNop())

	require.NoError(t, svc.Reject(context.Background(), testSession(), 1, 9))
	assert.Equal(t, []string{"DeleteEntry"}, api.methods())
}

func TestInitialChecks(t *testing.T) {
	checked := InitialChecks(&model.QueueEntry{Exercises: []int{1, 4}})
	assert.Equal(t, map[int]bool{1: true, 4: true}, checked)
}

func TestAssistanceService_MemberPhoto(t *testing.T) {
	api := newFakeAPI()
	api.photo = []byte{0xff, 0xd8}
	svc := NewAssistanceService(api, zap.NewNop())

	photo, err := svc.MemberPhoto(context.Background(), testSession(), 1, 11)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, photo)

	api.failOn["GetUserPhoto"] = qsapi.ErrNotFound
	_, err = svc.MemberPhoto(context.Background(), testSession(), 1, 11)
	assert.ErrorIs(t, err, qsapi.ErrNotFound)

	_, err = svc.MemberPhoto(context.Background(), nil, 1, 11)
	assert.ErrorIs(t, err, ErrNoSession)
}
