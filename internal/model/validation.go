package model

import (
	"fmt"
	"strings"
)

// ValidateAccount проверяет поля нового аккаунта
func ValidateAccount(a *Account) Violations {
	var v Violations

	switch a.Role {
	case RoleStaff:
		if !ValidStaffID(a.ID) {
			v.Add(FieldAccountID, staffIDMessage(a.ID))
		}
	case RoleStudent:
		if !ValidStudentID(a.ID) {
			v.Add(FieldAccountID, studentIDMessage(a.ID))
		}
	default:
		v.Add(FieldGeneral, fmt.Sprintf("Unknown role %q.", a.Role))
	}

	if strings.TrimSpace(a.FirstName) == "" {
		v.Add(FieldFirstName, "The First Name field is required.")
	}
	if strings.TrimSpace(a.LastName) == "" {
		v.Add(FieldLastName, "The Last Name field is required.")
	}
	return v
}

// ValidateRoom проверяет поля новой комнаты
func ValidateRoom(r *Room) Violations {
	var v Violations
	switch {
	case strings.TrimSpace(r.ID) == "":
		v.Add(FieldRoomID, "The Name field is required.")
	case len(r.ID) > RoomIDMaxLength:
		v.Add(FieldRoomID, fmt.Sprintf("The field Name must be a string with a maximum length of %d.", RoomIDMaxLength))
	}
	return v
}
