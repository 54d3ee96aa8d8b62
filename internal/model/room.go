package model

import "time"

// MaxRoomBookingPerDay сколько слотов может быть в одной комнате за календарный день
const MaxRoomBookingPerDay = 2

// RoomIDMaxLength максимальная длина идентификатора комнаты
const RoomIDMaxLength = 10

// Room комната, идентифицируется коротким именем вроде "A"
type Room struct {
	ID        string    `json:"roomId"`
	CreatedAt time.Time `json:"createdAt"`
}
