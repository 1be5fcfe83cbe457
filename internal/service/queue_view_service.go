package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"go.uber.org/zap"
)

// NoMessageText текст для записей без сообщения
const NoMessageText = "No message provided"

// QueueView очередь предмета глазами ассистента
type QueueView struct {
	Subject *model.Subject
	Entries []model.QueueEntry
	Rooms   map[int64]*model.Room
}

// QueueViewService собирает очередь с сообщениями и комнатами
type QueueViewService struct {
	api    QueueAPI
	logger *zap.Logger
}

func NewQueueViewService(api QueueAPI, logger *zap.Logger) *QueueViewService {
	return &QueueViewService{
		api:    api,
		logger: logger,
	}
}

// Load получает предмет, очередь и сообщения; сортирует "помощь" перед "сдачей"
func (s *QueueViewService) Load(ctx context.Context, sess *model.Session, subjectID int64) (*QueueView, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrNoSession
	}

	subject, err := s.api.GetSubject(ctx, sess.Token, subjectID)
	if err != nil {
		return nil, fmt.Errorf("load queue view: %w", err)
	}

	queue, err := s.api.GetQueue(ctx, sess.Token, subjectID)
	if err != nil {
		return nil, fmt.Errorf("load queue view: %w", err)
	}

	messages, err := s.api.GetEntryMessages(ctx, sess.Token, subjectID)
	if err != nil {
		s.logger.Warn("Failed to load queue messages", zap.Int64("subject_id", subjectID), zap.Error(err))
		messages = map[int64]string{}
	}

	entries := MergeMessages(queue, messages)
	SortHelpFirst(entries)

	return &QueueView{
		Subject: subject,
		Entries: entries,
		Rooms:   s.rooms(ctx, sess, entries),
	}, nil
}

// MergeMessages копирует очередь, проставляя сообщения по ID записи
func MergeMessages(queue []model.QueueEntry, messages map[int64]string) []model.QueueEntry {
	entries := make([]model.QueueEntry, len(queue))
	copy(entries, queue)
	for i := range entries {
		if msg, ok := messages[entries[i].ID]; ok {
			entries[i].Message = msg
		} else {
			entries[i].Message = NoMessageText
		}
	}
	return entries
}

// SortHelpFirst стабильно ставит записи "помощь" перед "сдачей"
func SortHelpFirst(entries []model.QueueEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Help && !entries[j].Help
	})
}

// rooms комнаты для уникальных ненулевых RoomID; ошибки пропускаются
func (s *QueueViewService) rooms(ctx context.Context, sess *model.Session, entries []model.QueueEntry) map[int64]*model.Room {
	rooms := make(map[int64]*model.Room)
	for _, e := range entries {
		if e.RoomID == model.RemoteRoomID {
			continue
		}
		if _, seen := rooms[e.RoomID]; seen {
			continue
		}
		room, err := s.api.GetRoom(ctx, sess.Token, e.RoomID)
		if err != nil {
			s.logger.Warn("Failed to load room", zap.Int64("room_id", e.RoomID), zap.Error(err))
			rooms[e.RoomID] = nil
			continue
		}
		rooms[e.RoomID] = room
	}

	for id, room := range rooms {
		if room == nil {
			delete(rooms, id)
		}
	}
	return rooms
}

// Entry ищет запись в загруженной очереди
func (v *QueueView) Entry(entryID int64) (*model.QueueEntry, bool) {
	for i := range v.Entries {
		if v.Entries[i].ID == entryID {
			return &v.Entries[i], true
		}
	}
	return nil, false
}
