package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateSlotValidate(t *testing.T) {
	at := time.Date(2019, 1, 1, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  CreateSlot
		want []Violation
	}{
		{
			name: "valid",
			req:  CreateSlot{RoomID: "A", StartTime: at, StaffID: "e12345"},
		},
		{
			name: "missing room",
			req:  CreateSlot{StartTime: at, StaffID: "e12345"},
			want: []Violation{{Field: FieldRoomID, Message: "The RoomId field is required."}},
		},
		{
			name: "room too long",
			req:  CreateSlot{RoomID: "ABCDEFGHIJK", StartTime: at, StaffID: "e12345"},
			want: []Violation{{Field: FieldRoomID, Message: "The field RoomId must be a string with a maximum length of 10."}},
		},
		{
			name: "not on the hour",
			req:  CreateSlot{RoomID: "A", StartTime: at.Add(30 * time.Minute), StaffID: "e12345"},
			want: []Violation{{Field: FieldStartTime, Message: "Slots must start on the hour."}},
		},
		{
			name: "bad staff id",
			req:  CreateSlot{RoomID: "A", StartTime: at, StaffID: "s1234567"},
			want: []Violation{{Field: FieldStaffID, Message: "The staff ID s1234567 is invalid, it always starts with a letter ‘e’ followed by 5 numbers."}},
		},
		{
			name: "everything missing",
			req:  CreateSlot{},
			want: []Violation{
				{Field: FieldRoomID, Message: "The RoomId field is required."},
				{Field: FieldStartTime, Message: "The StartTime field is required."},
				{Field: FieldStaffID, Message: "The staff ID  is invalid, it always starts with a letter ‘e’ followed by 5 numbers."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.req.Validate()
			assert.Equal(t, Violations(tt.want), got)
		})
	}
}

func TestBookSlotValidate(t *testing.T) {
	at := time.Date(2019, 1, 1, 13, 0, 0, 0, time.UTC)

	assert.True(t, BookSlot{RoomID: "A", StartTime: at, StudentID: "s1234567"}.Validate().Empty())

	got := BookSlot{RoomID: "A", StartTime: at, StudentID: "s123"}.Validate()
	assert.Equal(t, []string{"The student ID s123 is invalid, it always starts with a letter ‘s’ followed by 7 numbers."},
		got.ForField(FieldStudentID))
}

func TestCancelSlotValidate(t *testing.T) {
	at := time.Date(2019, 1, 1, 13, 0, 0, 0, time.UTC)

	got := CancelSlot{RoomID: "A", StartTime: at, StudentID: "  "}.Validate()
	assert.Equal(t, []string{"The StudentId field is required."}, got.Messages())
}

func TestRemoveSlotValidate(t *testing.T) {
	got := RemoveSlot{RoomID: "A"}.Validate()
	assert.Equal(t, []string{FieldStartTime}, got.Fields())
}
