package qsapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, legacyCookie bool) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, HTTPClient: srv.Client(), LegacyCookieAuth: legacyCookie})
}

func TestGetSubject(t *testing.T) {
	tests := []struct {
		name       string
		legacy     bool
		wantCookie string
	}{
		{name: "bearer only", legacy: false, wantCookie: ""},
		{name: "legacy cookie", legacy: true, wantCookie: "bearer=tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/subjects/7", r.URL.Path)
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				assert.Equal(t, tt.wantCookie, r.Header.Get("Cookie"))
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
				io.WriteString(w, `{"subjectID":7,"subjectName":"Algorithms","subjectCode":"IDATT2101",
					"subjectActive":1,"subjectQueueStatus":2,"queueMeta":{"notice":"Room 3"},"userQueueElementID":9}`)
			}, tt.legacy)

			subject, err := client.GetSubject(context.Background(), "tok", 7)
			require.NoError(t, err)
			assert.Equal(t, int64(7), subject.ID)
			assert.Equal(t, "IDATT2101", subject.Code)
			assert.Equal(t, model.QueueStatusPaused, subject.QueueStatus)
			assert.Equal(t, "Room 3", subject.Notice)
			assert.Equal(t, int64(9), subject.UserEntryID)
			assert.True(t, subject.InQueue())
		})
	}
}

func TestGetSubjectsForUserFiltersInactive(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/3/subjects", r.URL.Path)
		io.WriteString(w, `{"subjects":[
			{"subjectID":1,"subjectName":"A","subjectCode":2101,"subjectActive":1,"queueMeta":{"notice":""}},
			{"subjectID":2,"subjectName":"B","subjectCode":2102,"subjectActive":0,"queueMeta":{"notice":""}}]}`)
	}, false)

	subjects, err := client.GetSubjectsForUser(context.Background(), "tok", 3)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, int64(1), subjects[0].ID)
	assert.Equal(t, "2101", subjects[0].Code)
}

func TestGetSubjectRolesSkipsMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"key":"1","value":"2"},{"key":"x","value":"1"},{"key":"3","value":"4"}]`)
	}, false)

	roles, err := client.GetSubjectRoles(context.Background(), "tok", 5)
	require.NoError(t, err)
	assert.Equal(t, []model.SubjectRole{{SubjectID: 1, Role: 2}, {SubjectID: 3, Role: 4}}, roles)
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "kari@ntnu.no", body.Email)
		assert.Empty(t, r.Header.Get("Authorization"))

		http.SetCookie(w, &http.Cookie{Name: "bearer", Value: "secret-token"})
		io.WriteString(w, `{"userID":11,"roleID":4,"personEmail":"kari@ntnu.no","personFirstName":"Kari","personLastName":"Nordmann"}`)
	}, false)

	user, token, err := client.Login(context.Background(), "kari@ntnu.no", "pw")
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)
	assert.Equal(t, int64(11), user.ID)
	assert.Equal(t, "Kari Nordmann", user.FullName())
}

func TestLoginWithoutCookie(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"userID":11}`)
	}, false)

	_, _, err := client.Login(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestPatchBodies(t *testing.T) {
	var got []map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got = append(got, body)
		w.WriteHeader(http.StatusOK)
	}, false)

	ctx := context.Background()
	require.NoError(t, client.PatchQueue(ctx, "tok", 1, Replace(PathStatus, "1")))
	require.NoError(t, client.PatchEntry(ctx, "tok", 1, 9, Replace(PathTeacher, nil)))

	require.Len(t, got, 2)
	assert.Equal(t, map[string]interface{}{"op": "replace", "path": "/status", "value": "1"}, got[0])
	value, present := got[1]["value"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func TestAddEntryReturnsID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var entry model.NewEntry
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&entry))
		assert.Equal(t, []int64{31, 32}, entry.Exercises)
		assert.Equal(t, 1, entry.Help)
		io.WriteString(w, `{"integer":42}`)
	}, false)

	id, err := client.AddEntry(context.Background(), "tok", 1, model.NewEntry{SubjectID: 1, Help: 1, Exercises: []int64{31, 32}})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestGetEntryMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   map[int64]string
	}{
		{name: "no content", status: http.StatusNoContent, want: map[int64]string{}},
		{name: "malformed", status: http.StatusOK, body: `{"oops":`, want: map[int64]string{}},
		{name: "pairs", status: http.StatusOK, body: `[{"key":"5","value":"stuck on 3"},{"key":"bad","value":"x"}]`,
			want: map[int64]string{5: "stuck on 3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}, false)

			got, err := client.GetEntryMessages(context.Background(), "tok", 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetEntryMessageDecodesJSONString(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `"need help with recursion"`)
	}, false)

	msg, err := client.GetEntryMessage(context.Background(), "tok", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "need help with recursion", msg)
}

func TestGetRoomRemoteNeverRequested(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}, false)

	room, err := client.GetRoom(context.Background(), "tok", model.RemoteRoomID)
	require.NoError(t, err)
	assert.Equal(t, "Working from home", room.Name)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestGetRoomImage(t *testing.T) {
	image := []byte{0x89, 'P', 'N', 'G'}

	tests := []struct {
		name   string
		roomID int64
		status int
		want   []byte
		calls  int32
	}{
		{name: "image", roomID: 12, status: http.StatusOK, want: image, calls: 1},
		{name: "no image", roomID: 12, status: http.StatusNotFound, want: nil, calls: 1},
		{name: "server error", roomID: 12, status: http.StatusInternalServerError, want: nil, calls: 1},
		{name: "remote room", roomID: model.RemoteRoomID, want: nil, calls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/campus/0/buildings/0/rooms/12/image", r.URL.Path)
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				if tt.status == http.StatusOK {
					w.Write(image)
				}
			}, false)

			got, err := client.GetRoomImage(context.Background(), "tok", tt.roomID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.calls, atomic.LoadInt32(&calls))
		})
	}
}

func TestGetRoomsEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, false)

	rooms, err := client.GetRooms(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestAPIErrorUnwrap(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{status: http.StatusUnauthorized, target: ErrUnauthorized},
		{status: http.StatusForbidden, target: ErrUnauthorized},
		{status: http.StatusNotFound, target: ErrNotFound},
	}

	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tt.status)
		}, false)

		_, err := client.GetQueue(context.Background(), "tok", 1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, tt.target), "status %d", tt.status)
		assert.Equal(t, tt.status, StatusCode(err))
	}
}
