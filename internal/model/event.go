package model

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий жизненного цикла слота
const (
	EventSlotCreated   = "slot.created"
	EventSlotBooked    = "slot.booked"
	EventSlotCancelled = "slot.cancelled"
	EventSlotRemoved   = "slot.removed"
)

// Event запись outbox, пишется в той же транзакции что и изменение слота
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	AggregateID string     `json:"aggregateId"`
	Payload     []byte     `json:"payload"`
	CreatedAt   time.Time  `json:"createdAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// SlotEvent полезная нагрузка событий слота
type SlotEvent struct {
	RoomID    string    `json:"roomId"`
	StartTime time.Time `json:"startTime"`
	StaffID   string    `json:"staffId"`
	StudentID string    `json:"studentId,omitempty"`
	ActorID   string    `json:"actorId"`
}

// AggregateID ключ слота одной строкой
func (k SlotKey) AggregateID() string {
	return k.RoomID + "@" + k.StartTime.UTC().Format(time.RFC3339)
}
