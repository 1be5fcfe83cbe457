package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/qsapi"
)

// call один вызов фейкового API
type call struct {
	Method  string
	EntryID int64
	Patch   qsapi.Patch
}

// fakeAPI записывает вызовы и отдаёт заранее заданные ответы
type fakeAPI struct {
	mu    sync.Mutex
	calls []call

	user  *model.User
	token string
	roles []model.SubjectRole

	subject   *model.Subject
	subjects  []model.Subject
	queue     []model.QueueEntry
	entry     *model.QueueEntry
	messages  map[int64]string
	message   string
	exercises []model.Exercise
	available []model.User
	rooms     map[int64]*model.Room
	campuses  []model.Campus
	buildings map[int64][]model.Building
	photo     []byte
	roomImage []byte

	newEntryID int64
	added      []model.NewEntry
	approved   []model.Exercise

	// failOn[method] - ошибка для метода; для PatchEntry ключ "PatchEntry:/path"
	failOn map[string]error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{failOn: make(map[string]error)}
}

func (f *fakeAPI) record(c call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if c.Patch.Path != "" {
		if err, ok := f.failOn[c.Method+":"+c.Patch.Path]; ok {
			return err
		}
	}
	return f.failOn[c.Method]
}

func (f *fakeAPI) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		if c.Patch.Path != "" {
			names = append(names, fmt.Sprintf("%s:%s=%v", c.Method, c.Patch.Path, c.Patch.Value))
			continue
		}
		names = append(names, c.Method)
	}
	return names
}

func (f *fakeAPI) countOf(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if err := f.record(call{Method: "Login"}); err != nil {
		return nil, "", err
	}
	return f.user, f.token, nil
}

func (f *fakeAPI) GetUserPhoto(ctx context.Context, token string, subjectID, userID int64) ([]byte, error) {
	if err := f.record(call{Method: "GetUserPhoto"}); err != nil {
		return nil, err
	}
	return f.photo, nil
}

func (f *fakeAPI) GetSubject(ctx context.Context, token string, subjectID int64) (*model.Subject, error) {
	if err := f.record(call{Method: "GetSubject"}); err != nil {
		return nil, err
	}
	s := *f.subject
	return &s, nil
}

func (f *fakeAPI) GetSubjectsForUser(ctx context.Context, token string, userID int64) ([]model.Subject, error) {
	return f.subjects, f.record(call{Method: "GetSubjectsForUser"})
}

func (f *fakeAPI) GetSubjectRoles(ctx context.Context, token string, userID int64) ([]model.SubjectRole, error) {
	if err := f.record(call{Method: "GetSubjectRoles"}); err != nil {
		return nil, err
	}
	return f.roles, nil
}

func (f *fakeAPI) GetSubjectExercises(ctx context.Context, token string, subjectID int64) ([]model.Exercise, error) {
	return f.exercises, f.record(call{Method: "GetSubjectExercises"})
}

func (f *fakeAPI) GetAvailableUsers(ctx context.Context, token string, subjectID int64) ([]model.User, error) {
	return f.available, f.record(call{Method: "GetAvailableUsers"})
}

func (f *fakeAPI) GetQueue(ctx context.Context, token string, subjectID int64) ([]model.QueueEntry, error) {
	if err := f.record(call{Method: "GetQueue"}); err != nil {
		return nil, err
	}
	return f.queue, nil
}

func (f *fakeAPI) PatchQueue(ctx context.Context, token string, subjectID int64, patch qsapi.Patch) error {
	return f.record(call{Method: "PatchQueue", Patch: patch})
}

func (f *fakeAPI) AddEntry(ctx context.Context, token string, subjectID int64, entry model.NewEntry) (int64, error) {
	if err := f.record(call{Method: "AddEntry"}); err != nil {
		return 0, err
	}
	f.added = append(f.added, entry)
	return f.newEntryID, nil
}

func (f *fakeAPI) GetEntry(ctx context.Context, token string, subjectID, entryID int64) (*model.QueueEntry, error) {
	if err := f.record(call{Method: "GetEntry", EntryID: entryID}); err != nil {
		return nil, err
	}
	return f.entry, nil
}

func (f *fakeAPI) DeleteEntry(ctx context.Context, token string, subjectID, entryID int64) error {
	return f.record(call{Method: "DeleteEntry", EntryID: entryID})
}

func (f *fakeAPI) PatchEntry(ctx context.Context, token string, subjectID, entryID int64, patch qsapi.Patch) error {
	return f.record(call{Method: "PatchEntry", EntryID: entryID, Patch: patch})
}

func (f *fakeAPI) GetEntryMessage(ctx context.Context, token string, subjectID, entryID int64) (string, error) {
	return f.message, f.record(call{Method: "GetEntryMessage", EntryID: entryID})
}

func (f *fakeAPI) SetEntryMessage(ctx context.Context, token string, subjectID, entryID int64, message string) error {
	return f.record(call{Method: "SetEntryMessage", EntryID: entryID})
}

func (f *fakeAPI) GetEntryMessages(ctx context.Context, token string, subjectID int64) (map[int64]string, error) {
	return f.messages, f.record(call{Method: "GetEntryMessages"})
}

func (f *fakeAPI) ApproveEntry(ctx context.Context, token string, subjectID, entryID int64, exercises []model.Exercise) error {
	if err := f.record(call{Method: "ApproveEntry", EntryID: entryID}); err != nil {
		return err
	}
	f.approved = exercises
	return nil
}

func (f *fakeAPI) GetCampuses(ctx context.Context) ([]model.Campus, error) {
	return f.campuses, f.record(call{Method: "GetCampuses"})
}

func (f *fakeAPI) GetBuildings(ctx context.Context, campusID int64) ([]model.Building, error) {
	return f.buildings[campusID], f.record(call{Method: "GetBuildings"})
}

func (f *fakeAPI) GetRooms(ctx context.Context, campusID, buildingID int64) ([]model.Room, error) {
	return nil, f.record(call{Method: "GetRooms"})
}

func (f *fakeAPI) GetRoom(ctx context.Context, token string, roomID int64) (*model.Room, error) {
	if err := f.record(call{Method: "GetRoom", EntryID: roomID}); err != nil {
		return nil, err
	}
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, qsapi.ErrNotFound
	}
	return room, nil
}

// memStore SessionStore в памяти
type memStore struct {
	sessions map[int64]*model.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[int64]*model.Session)}
}

func (m *memStore) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Session, error) {
	sess, ok := m.sessions[telegramID]
	if !ok {
		return nil, nil
	}
	cp := *sess
	return &cp, nil
}

func (m *memStore) Save(ctx context.Context, sess *model.Session) error {
	cp := *sess
	m.sessions[sess.TelegramID] = &cp
	return nil
}

func (m *memStore) Delete(ctx context.Context, telegramID int64) error {
	delete(m.sessions, telegramID)
	return nil
}

func (m *memStore) ListWatching(ctx context.Context) ([]*model.Session, error) {
	var result []*model.Session
	for _, sess := range m.sessions {
		if sess.Watching {
			cp := *sess
			result = append(result, &cp)
		}
	}
	return result, nil
}

func testSession() *model.Session {
	return &model.Session{
		TelegramID: 100,
		User:       model.User{ID: 7, FirstName: "Ola", LastName: "Nordmann"},
		Token:      "tok",
	}
}

func (f *fakeAPI) GetRoomImage(ctx context.Context, token string, roomID int64) ([]byte, error) {
	if err := f.record(call{Method: "GetRoomImage", EntryID: roomID}); err != nil {
		return nil, err
	}
	return f.roomImage, nil
}
