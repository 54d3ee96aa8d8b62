// Package rules holds the booking constraints as pure functions over a
// read-only snapshot of rooms, accounts and slots. Nothing here touches a
// store; callers load the snapshot and apply the mutation themselves.
package rules

import (
	"time"

	"github.com/Freeeeeet/room_booking/internal/model"
)

// Snapshot is the persisted state a workflow evaluates against. Slots must
// contain at least every slot on the calendar day under evaluation.
type Snapshot struct {
	Rooms    []model.Room
	Accounts []model.Account
	Slots    []model.Slot
}

// RoomExists reports whether a room with the id exists.
func RoomExists(s Snapshot, roomID string) bool {
	for i := range s.Rooms {
		if s.Rooms[i].ID == roomID {
			return true
		}
	}
	return false
}

// RoomAvailable is false once the room holds MaxRoomBookingPerDay slots on
// the calendar day of start.
func RoomAvailable(s Snapshot, roomID string, start time.Time) bool {
	count := 0
	for i := range s.Slots {
		if s.Slots[i].RoomID == roomID && model.SameDay(s.Slots[i].StartTime, start) {
			count++
		}
	}
	return count < model.MaxRoomBookingPerDay
}

// StaffDailySlotCount counts the slots the staff member created on the
// calendar day of start.
func StaffDailySlotCount(s Snapshot, staffID string, start time.Time) int {
	count := 0
	for i := range s.Slots {
		if s.Slots[i].StaffID == staffID && model.SameDay(s.Slots[i].StartTime, start) {
			count++
		}
	}
	return count
}

// AlreadyTakenSlot returns the slot another staff member already holds at
// (roomID, start), or nil.
func AlreadyTakenSlot(s Snapshot, roomID, staffID string, start time.Time) *model.Slot {
	slot := GetSlot(s, roomID, start)
	if slot == nil || slot.StaffID == staffID {
		return nil
	}
	return slot
}

// SlotExists reports whether a slot exists at (roomID, start).
func SlotExists(s Snapshot, roomID string, start time.Time) bool {
	return GetSlot(s, roomID, start) != nil
}

// StaffSlot returns the slot the staff member created at exactly start in
// any room, or nil.
func StaffSlot(s Snapshot, staffID string, start time.Time) *model.Slot {
	for i := range s.Slots {
		if s.Slots[i].StaffID == staffID && s.Slots[i].StartTime.Equal(start) {
			return &s.Slots[i]
		}
	}
	return nil
}

// SlotBookedByStudent reports whether the slot at (roomID, start) has an
// occupant.
func SlotBookedByStudent(s Snapshot, roomID string, start time.Time) bool {
	slot := GetSlot(s, roomID, start)
	return slot != nil && slot.IsBooked()
}

// GetSlot returns the slot at (roomID, start), or nil.
func GetSlot(s Snapshot, roomID string, start time.Time) *model.Slot {
	for i := range s.Slots {
		if s.Slots[i].RoomID == roomID && s.Slots[i].StartTime.Equal(start) {
			return &s.Slots[i]
		}
	}
	return nil
}

// StudentDailyBooking returns any slot the student holds on the calendar day
// of start, or nil.
func StudentDailyBooking(s Snapshot, studentID string, start time.Time) *model.Slot {
	for i := range s.Slots {
		if s.Slots[i].BookedBy(studentID) && model.SameDay(s.Slots[i].StartTime, start) {
			return &s.Slots[i]
		}
	}
	return nil
}

// AccountExists reports whether an account with the id and role exists.
func AccountExists(s Snapshot, id string, role model.Role) bool {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id && s.Accounts[i].Role == role {
			return true
		}
	}
	return false
}
