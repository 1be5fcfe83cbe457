package qsapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Freeeeeet/queue_bot/internal/model"
)

// GetCampuses все кампусы
func (c *Client) GetCampuses(ctx context.Context) ([]model.Campus, error) {
	var body struct {
		Campuses []model.Campus `json:"campuses"`
	}
	if err := c.getJSON(ctx, "/campus", "", &body); err != nil {
		return nil, fmt.Errorf("get campuses: %w", err)
	}
	return body.Campuses, nil
}

// GetBuildings здания кампуса
func (c *Client) GetBuildings(ctx context.Context, campusID int64) ([]model.Building, error) {
	path := fmt.Sprintf("/campus/%d/buildings", campusID)

	var body struct {
		Buildings []model.Building `json:"buildings"`
	}
	if err := c.getJSON(ctx, path, "", &body); err != nil {
		return nil, fmt.Errorf("get buildings: %w", err)
	}
	return body.Buildings, nil
}

// GetRooms комнаты здания; пустой ответ - пустой список
func (c *Client) GetRooms(ctx context.Context, campusID, buildingID int64) ([]model.Room, error) {
	path := fmt.Sprintf("/campus/%d/buildings/%d/rooms", campusID, buildingID)

	var body struct {
		Rooms []model.Room `json:"rooms"`
	}
	if err := c.getJSON(ctx, path, "", &body); err != nil {
		return nil, fmt.Errorf("get rooms: %w", err)
	}

	rooms := make([]model.Room, 0, len(body.Rooms))
	for _, room := range body.Rooms {
		room.CampusID = campusID
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// GetRoom комната по ID (0 как wildcard для кампуса и здания).
// RoomID 0 - "работаю из дома", к API не обращаемся.
func (c *Client) GetRoom(ctx context.Context, token string, roomID int64) (*model.Room, error) {
	if roomID == model.RemoteRoomID {
		return model.RemoteRoom(), nil
	}

	path := fmt.Sprintf("/campus/0/buildings/0/rooms/%d", roomID)

	var room model.Room
	if err := c.getJSON(ctx, path, token, &room); err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	return &room, nil
}

// GetRoomImage схема комнаты. Для RoomID 0 и при любом не-2xx ответе
// картинки нет: (nil, nil).
func (c *Client) GetRoomImage(ctx context.Context, token string, roomID int64) ([]byte, error) {
	if roomID == model.RemoteRoomID {
		return nil, nil
	}

	path := fmt.Sprintf("/campus/0/buildings/0/rooms/%d/image", roomID)

	resp, err := c.send(ctx, request{method: http.MethodGet, path: path, token: token})
	if err != nil {
		if StatusCode(err) != 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("get room image: %w", err)
	}
	if resp.empty() {
		return nil, nil
	}
	return resp.body, nil
}
