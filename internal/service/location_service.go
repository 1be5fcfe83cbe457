package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"go.uber.org/zap"
)

// LocationService иерархия кампус -> здание -> комната
type LocationService struct {
	api    QueueAPI
	logger *zap.Logger
}

func NewLocationService(api QueueAPI, logger *zap.Logger) *LocationService {
	return &LocationService{
		api:    api,
		logger: logger,
	}
}

// Campuses все кампусы
func (s *LocationService) Campuses(ctx context.Context) ([]model.Campus, error) {
	campuses, err := s.api.GetCampuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list campuses: %w", err)
	}
	return campuses, nil
}

// Buildings здания кампуса
func (s *LocationService) Buildings(ctx context.Context, campusID int64) ([]model.Building, error) {
	buildings, err := s.api.GetBuildings(ctx, campusID)
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	return buildings, nil
}

// Rooms комнаты здания
func (s *LocationService) Rooms(ctx context.Context, campusID, buildingID int64) ([]model.Room, error) {
	rooms, err := s.api.GetRooms(ctx, campusID, buildingID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// Room комната по ID; для RoomID 0 API не вызывается
func (s *LocationService) Room(ctx context.Context, sess *model.Session, roomID int64) (*model.Room, error) {
	if roomID == model.RemoteRoomID {
		return model.RemoteRoom(), nil
	}
	room, err := s.api.GetRoom(ctx, sess.Token, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

// RoomImage схема комнаты; nil, если картинки нет или запись удалённая
func (s *LocationService) RoomImage(ctx context.Context, sess *model.Session, roomID int64) ([]byte, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrNoSession
	}
	if roomID == model.RemoteRoomID {
		return nil, nil
	}

	image, err := s.api.GetRoomImage(ctx, sess.Token, roomID)
	if err != nil {
		s.logger.Warn("Failed to load room image", zap.Int64("room_id", roomID), zap.Error(err))
		return nil, fmt.Errorf("get room image: %w", err)
	}
	return image, nil
}

// Resolve восстанавливает выбор кампуса и здания по ID комнаты
func (s *LocationService) Resolve(ctx context.Context, sess *model.Session, roomID int64) (*LocationSelection, error) {
	room, err := s.Room(ctx, sess, roomID)
	if err != nil {
		return nil, err
	}

	loc := &LocationSelection{}
	if room.CampusID > 0 {
		loc.SelectCampus(room.CampusID)
		loc.SelectBuilding(room.BuildingID)
		loc.SelectRoom(room.ID)
		return loc, nil
	}

	// Комната по wildcard-пути не знает кампус, ищем здание по всем кампусам
	campuses, err := s.api.GetCampuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve room campus: %w", err)
	}
	for _, c := range campuses {
		buildings, err := s.api.GetBuildings(ctx, c.ID)
		if err != nil {
			s.logger.Warn("Skipping campus while resolving room", zap.Int64("campus_id", c.ID), zap.Error(err))
			continue
		}
		for _, b := range buildings {
			if b.ID == room.BuildingID {
				loc.SelectCampus(c.ID)
				loc.SelectBuilding(b.ID)
				loc.SelectRoom(room.ID)
				return loc, nil
			}
		}
	}
	return nil, fmt.Errorf("resolve room %d: building %d not found", roomID, room.BuildingID)
}
