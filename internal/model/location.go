package model

// Campus кампус
type Campus struct {
	ID      int64  `json:"campusID"`
	Name    string `json:"campusName"`
	Enabled bool   `json:"isEnabled"`
}

// Building здание кампуса
type Building struct {
	ID         int64  `json:"buildingID"`
	Name       string `json:"buildingName"`
	CampusID   int64  `json:"campusID"`
	CampusName string `json:"campusName"`
}

// Room комната здания
type Room struct {
	ID         int64  `json:"roomID"`
	CampusID   int64  `json:"campusID"`
	BuildingID int64  `json:"buildingID"`
	Desks      int    `json:"roomDesk"`
	Floor      int    `json:"roomFloor"`
	ImgLink    string `json:"roomImgLink"`
	Name       string `json:"roomName"`
	Number     string `json:"roomNumber"`
}

// RemoteRoom синтетическая комната для RoomID == 0
func RemoteRoom() *Room {
	return &Room{ID: RemoteRoomID, Name: "Working from home"}
}

// DisplayName название комнаты или "Room <номер>" если названия нет
func (r *Room) DisplayName() string {
	if r.Name == "" {
		return "Room " + r.Number
	}
	return r.Name
}

// Tables номера столов комнаты, 1..Desks
func (r *Room) Tables() []int {
	if r == nil || r.Desks <= 0 {
		return nil
	}
	tables := make([]int, r.Desks)
	for i := range tables {
		tables[i] = i + 1
	}
	return tables
}
