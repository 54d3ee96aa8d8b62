package model

import (
	"fmt"
	"strings"
	"time"
)

// CreateSlot запрос на создание слота. StaffID берётся из личности вызывающего
type CreateSlot struct {
	RoomID    string    `json:"roomId"`
	StartTime time.Time `json:"startTime"`
	StaffID   string    `json:"-"`
}

// BookSlot запрос на бронирование. StudentID берётся из личности вызывающего,
// не из ввода клиента
type BookSlot struct {
	RoomID    string    `json:"roomId"`
	StartTime time.Time `json:"startTime"`
	StudentID string    `json:"-"`
}

// CancelSlot запрос на отмену брони студента StudentID
type CancelSlot struct {
	RoomID    string    `json:"roomId"`
	StartTime time.Time `json:"startTime"`
	StudentID string    `json:"studentId"`
}

// RemoveSlot запрос на удаление свободного слота
type RemoveSlot struct {
	RoomID    string    `json:"roomId"`
	StartTime time.Time `json:"startTime"`
	StaffID   string    `json:"-"`
}

// Validate проверяет только формат полей
func (r CreateSlot) Validate() Violations {
	var v Violations
	validateSlotKey(&v, r.RoomID, r.StartTime)
	if !ValidStaffID(r.StaffID) {
		v.Add(FieldStaffID, staffIDMessage(r.StaffID))
	}
	return v
}

// Validate проверяет только формат полей
func (r BookSlot) Validate() Violations {
	var v Violations
	validateSlotKey(&v, r.RoomID, r.StartTime)
	if !ValidStudentID(r.StudentID) {
		v.Add(FieldStudentID, studentIDMessage(r.StudentID))
	}
	return v
}

// Validate проверяет только формат полей
func (r CancelSlot) Validate() Violations {
	var v Violations
	validateSlotKey(&v, r.RoomID, r.StartTime)
	if strings.TrimSpace(r.StudentID) == "" {
		v.Add(FieldStudentID, "The StudentId field is required.")
	}
	return v
}

// Validate проверяет только формат полей
func (r RemoveSlot) Validate() Violations {
	var v Violations
	validateSlotKey(&v, r.RoomID, r.StartTime)
	return v
}

func validateSlotKey(v *Violations, roomID string, start time.Time) {
	switch {
	case strings.TrimSpace(roomID) == "":
		v.Add(FieldRoomID, "The RoomId field is required.")
	case len(roomID) > RoomIDMaxLength:
		v.Add(FieldRoomID, fmt.Sprintf("The field RoomId must be a string with a maximum length of %d.", RoomIDMaxLength))
	}

	switch {
	case start.IsZero():
		v.Add(FieldStartTime, "The StartTime field is required.")
	case start.Minute() != 0 || start.Second() != 0 || start.Nanosecond() != 0:
		v.Add(FieldStartTime, "Slots must start on the hour.")
	}
}

func staffIDMessage(id string) string {
	return fmt.Sprintf("The staff ID %s is invalid, it always starts with a letter ‘e’ followed by 5 numbers.", id)
}

func studentIDMessage(id string) string {
	return fmt.Sprintf("The student ID %s is invalid, it always starts with a letter ‘s’ followed by 7 numbers.", id)
}
