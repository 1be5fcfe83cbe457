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

func TestMergeMessages(t *testing.T) {
	queue := queueOf(1, 2)
	entries := MergeMessages(queue, map[int64]string{2: "need help"})

	assert.Equal(t, NoMessageText, entries[0].Message)
	assert.Equal(t, "need help", entries[1].Message)
	assert.Empty(t, queue[1].Message)
}

func TestSortHelpFirst(t *testing.T) {
	entries := []model.QueueEntry{
		{ID: 1, Help: false},
		{ID: 2, Help: true},
		{ID: 3, Help: false},
		{ID: 4, Help: true},
	}
	SortHelpFirst(entries)

	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	assert.Equal(t, []int64{2, 4, 1, 3}, ids)
}

func TestQueueViewService_Load(t *testing.T) {
	api := newFakeAPI()
	api.subject = &model.Subject{ID: 1, QueueStatus: model.QueueStatusOpen}
	api.queue = []model.QueueEntry{
		{ID: 1, RoomID: 3},
		{ID: 2, RoomID: 0, Help: true},
		{ID: 3, RoomID: 3, Help: true},
		{ID: 4, RoomID: 5},
	}
	api.messages = map[int64]string{3: "question"}
	api.rooms = map[int64]*model.Room{3: {ID: 3, Name: "Sprint"}}

	svc := NewQueueViewService(api, zap.NewNop())
	view, err := svc.Load(context.Background(), testSession(), 1)
	require.NoError(t, err)

	require.Len(t, view.Entries, 4)
	assert.Equal(t, int64(2), view.Entries[0].ID)
	assert.Equal(t, int64(3), view.Entries[1].ID)
	assert.Equal(t, "question", view.Entries[1].Message)

	// комната 0 не запрашивается, 3 запрашивается один раз, 5 не найдена
	assert.Equal(t, 2, api.countOf("GetRoom"))
	require.Contains(t, view.Rooms, int64(3))
	assert.NotContains(t, view.Rooms, int64(5))

	entry, ok := view.Entry(4)
	require.True(t, ok)
	assert.Equal(t, NoMessageText, entry.Message)
	_, ok = view.Entry(99)
	assert.False(t, ok)
}

func TestQueueViewService_LoadToleratesMessageFailure(t *testing.T) {
	api := newFakeAPI()
	api.subject = &model.Subject{ID: 1}
	api.queue = queueOf(1)
	api.failOn["GetEntryMessages"] = errors.New("boom")

	view, err := NewQueueViewService(api, zap.NewNop()).Load(context.Background(), testSession(), 1)
	require.NoError(t, err)
	assert.Equal(t, NoMessageText, view.Entries[0].Message)
}
