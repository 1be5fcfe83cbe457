package service

import (
	"context"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/qsapi"
)

// QueueAPI удалённый сервис очередей, реализуется *qsapi.Client
type QueueAPI interface {
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	GetUserPhoto(ctx context.Context, token string, subjectID, userID int64) ([]byte, error)

	GetSubject(ctx context.Context, token string, subjectID int64) (*model.Subject, error)
	GetSubjectsForUser(ctx context.Context, token string, userID int64) ([]model.Subject, error)
	GetSubjectRoles(ctx context.Context, token string, userID int64) ([]model.SubjectRole, error)
	GetSubjectExercises(ctx context.Context, token string, subjectID int64) ([]model.Exercise, error)
	GetAvailableUsers(ctx context.Context, token string, subjectID int64) ([]model.User, error)

	GetQueue(ctx context.Context, token string, subjectID int64) ([]model.QueueEntry, error)
	PatchQueue(ctx context.Context, token string, subjectID int64, patch qsapi.Patch) error
	AddEntry(ctx context.Context, token string, subjectID int64, entry model.NewEntry) (int64, error)
	GetEntry(ctx context.Context, token string, subjectID, entryID int64) (*model.QueueEntry, error)
	DeleteEntry(ctx context.Context, token string, subjectID, entryID int64) error
	PatchEntry(ctx context.Context, token string, subjectID, entryID int64, patch qsapi.Patch) error
	GetEntryMessage(ctx context.Context, token string, subjectID, entryID int64) (string, error)
	SetEntryMessage(ctx context.Context, token string, subjectID, entryID int64, message string) error
	GetEntryMessages(ctx context.Context, token string, subjectID int64) (map[int64]string, error)
	ApproveEntry(ctx context.Context, token string, subjectID, entryID int64, exercises []model.Exercise) error

	GetCampuses(ctx context.Context) ([]model.Campus, error)
	GetBuildings(ctx context.Context, campusID int64) ([]model.Building, error)
	GetRooms(ctx context.Context, campusID, buildingID int64) ([]model.Room, error)
	GetRoom(ctx context.Context, token string, roomID int64) (*model.Room, error)
	GetRoomImage(ctx context.Context, token string, roomID int64) ([]byte, error)
}

var _ QueueAPI = (*qsapi.Client)(nil)
