package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatName(t *testing.T) {
	tests := []struct {
		first, last string
		want        string
	}{
		{"John", "Doe", "John Doe"},
		{"Anne Marie Louise", "Berg Olsen", "Anne Olsen"},
		{"Christopher", "Alexanderson", "C. Alexanderson"},
		{"Bartholomew", "Vanderbiltsonsberg", "B. Vanderbiltsonsberg"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatName(tt.first, tt.last))
		})
	}
}

func TestExercisesByNumbers(t *testing.T) {
	exercises := []Exercise{{ID: 1, Number: 1}, {ID: 2, Number: 2}, {ID: 3, Number: 3}}

	got := ExercisesByNumbers(exercises, map[int]bool{3: true, 1: true, 2: false, 9: true})
	assert.Equal(t, []Exercise{{ID: 1, Number: 1}, {ID: 3, Number: 3}}, got)

	assert.Empty(t, ExercisesByNumbers(exercises, nil))
}

func TestAnyChecked(t *testing.T) {
	assert.False(t, AnyChecked(nil))
	assert.False(t, AnyChecked(map[int]bool{1: false}))
	assert.True(t, AnyChecked(map[int]bool{1: false, 2: true}))
}

func TestRoom(t *testing.T) {
	room := &Room{Number: "A4-112", Desks: 3}
	assert.Equal(t, "Room A4-112", room.DisplayName())
	assert.Equal(t, []int{1, 2, 3}, room.Tables())

	var missing *Room
	assert.Nil(t, missing.Tables())

	assert.Equal(t, "Working from home", RemoteRoom().DisplayName())
	assert.Equal(t, RemoteRoomID, RemoteRoom().ID)
}

func TestQueueStatus(t *testing.T) {
	assert.Equal(t, "open", QueueStatusOpen.String())
	assert.Equal(t, "2", QueueStatusPaused.PatchValue())
	assert.True(t, QueueStatusClosed.Valid())
	assert.False(t, QueueStatus(5).Valid())
	assert.Empty(t, QueueStatus(5).PatchValue())
}

func TestSubjectRole(t *testing.T) {
	assert.True(t, SubjectRole{Role: 1}.IsTA())
	assert.True(t, SubjectRole{Role: 2}.IsTA())
	assert.False(t, SubjectRole{Role: 3}.IsTA())
}

func TestQueueEntry(t *testing.T) {
	entry := &QueueEntry{RoomID: 3, Desk: 2, Status: EntryStatusAssisted, Teacher: 8}
	assert.False(t, entry.IsRemote())
	assert.True(t, entry.AssistedByOther(7))
	assert.False(t, entry.AssistedByOther(8))
	assert.Equal(t, "Approval", entry.ModeText())

	remote := &QueueEntry{Help: true}
	assert.True(t, remote.IsRemote())
	assert.False(t, remote.AssistedByOther(7))
	assert.Equal(t, "Help", remote.ModeText())

	assert.Equal(t, 1, ModeHelp.HelpFlag())
	assert.Equal(t, 0, ModeApproval.HelpFlag())
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sess := &Session{}
	assert.False(t, sess.Expired(now))

	exp := now
	sess.TokenExpiresAt = &exp
	assert.True(t, sess.Expired(now))
	assert.False(t, sess.Expired(now.Add(-time.Second)))
}
