package rules

import (
	"fmt"

	"github.com/Freeeeeet/room_booking/internal/model"
)

// CheckCreate runs every creation rule in order and returns all violations.
func CheckCreate(s Snapshot, req model.CreateSlot) model.Violations {
	var v model.Violations
	at := model.FormatDateShortHour(req.StartTime)

	if !RoomExists(s, req.RoomID) {
		v.Add(model.FieldRoomID, fmt.Sprintf("Room %s does not exist.", req.RoomID))
	} else if !RoomAvailable(s, req.RoomID, req.StartTime) {
		v.Add(model.FieldRoomID, fmt.Sprintf("Room %s has reached a maximum booking of %d per day.",
			req.RoomID, model.MaxRoomBookingPerDay))
	}

	if StaffDailySlotCount(s, req.StaffID, req.StartTime) >= model.MaxBookingPerDay {
		v.Add(model.FieldStartTime, fmt.Sprintf("Staff %s has a maximum of %d bookings at %s.",
			req.StaffID, model.MaxBookingPerDay, model.FormatDate(req.StartTime)))
	}

	if taken := AlreadyTakenSlot(s, req.RoomID, req.StaffID, req.StartTime); taken != nil {
		v.Add(model.FieldRoomID, fmt.Sprintf("Staff %s has already taken slot at room %s %s.",
			taken.StaffID, req.RoomID, at))
	}

	if SlotExists(s, req.RoomID, req.StartTime) {
		v.Add(model.FieldRoomID, fmt.Sprintf("Slot at room %s %s already exists.", req.RoomID, at))
	}

	if own := StaffSlot(s, req.StaffID, req.StartTime); own != nil {
		v.Add(model.FieldRoomID, fmt.Sprintf("You have already created a slot at room %s %s.",
			own.RoomID, model.FormatDateShortHour(own.StartTime)))
	}

	return v
}

// CheckBook runs every booking rule in order and returns all violations.
func CheckBook(s Snapshot, req model.BookSlot) model.Violations {
	var v model.Violations
	at := model.FormatDateTime(req.StartTime)

	if StudentDailyBooking(s, req.StudentID, req.StartTime) != nil {
		v.Add(model.FieldStudentID, fmt.Sprintf("Student %s has reached their maximum bookings for this day (%s).",
			req.StudentID, model.FormatDate(req.StartTime)))
	}

	if !RoomExists(s, req.RoomID) {
		v.Add(model.FieldRoomID, fmt.Sprintf("Room %s does not exist.", req.RoomID))
	}

	slot := GetSlot(s, req.RoomID, req.StartTime)
	if slot == nil {
		v.Add(model.FieldStudentID, fmt.Sprintf("Slot does not exist in room %s at %s", req.RoomID, at))
	}

	if slot != nil && slot.IsBooked() && !slot.BookedBy(req.StudentID) {
		v.Add(model.FieldStudentID, fmt.Sprintf("Student %s has already booked slot in room %s at %s",
			slot.Occupant(), req.RoomID, at))
	}

	return v
}

// CheckCancel runs every cancellation rule in order and returns all violations.
func CheckCancel(s Snapshot, req model.CancelSlot) model.Violations {
	var v model.Violations

	if !RoomExists(s, req.RoomID) {
		v.Add(model.FieldRoomID, fmt.Sprintf("Room %s does not exist.", req.RoomID))
	}

	if !AccountExists(s, req.StudentID, model.RoleStudent) {
		v.Add(model.FieldStudentID, fmt.Sprintf("Student %s does not exist.", req.StudentID))
	}

	slot := GetSlot(s, req.RoomID, req.StartTime)
	if slot == nil {
		v.Add(model.FieldStartTime, fmt.Sprintf("No slot exist in %s at %s", req.RoomID, model.FormatDateTime(req.StartTime)))
	}

	if slot != nil && !slot.IsBooked() {
		v.Add(model.FieldStudentID, "No students booked into this slot")
	}

	// Also fires for a missing or empty slot: no slot at the key is held by
	// the caller in those cases either.
	if slot == nil || !slot.BookedBy(req.StudentID) {
		v.Add(model.FieldStudentID, "The student ID for this slot does not match, cannot cancel this booking.")
	}

	return v
}

// CheckRemove runs every removal rule in order and returns all violations.
func CheckRemove(s Snapshot, req model.RemoveSlot) model.Violations {
	var v model.Violations

	if SlotBookedByStudent(s, req.RoomID, req.StartTime) {
		v.Add(model.FieldStudentID, "Cannot remove slot as a student has been booked into it.")
	}

	if !SlotExists(s, req.RoomID, req.StartTime) {
		v.Add(model.FieldGeneral, fmt.Sprintf("Slot at room %s %s does not exist.",
			req.RoomID, model.FormatDateShortHour(req.StartTime)))
	}

	return v
}
