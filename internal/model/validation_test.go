package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAccount(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		want    []string
	}{
		{
			name:    "valid staff",
			account: Account{ID: "e12345", Role: RoleStaff, FirstName: "Matthew", LastName: "Bolger"},
		},
		{
			name:    "valid student",
			account: Account{ID: "s1234567", Role: RoleStudent, FirstName: "Kevin", LastName: "Nguyen"},
		},
		{
			name:    "student id on staff",
			account: Account{ID: "s1234567", Role: RoleStaff, FirstName: "A", LastName: "B"},
			want:    []string{"The staff ID s1234567 is invalid, it always starts with a letter ‘e’ followed by 5 numbers."},
		},
		{
			name:    "short student id",
			account: Account{ID: "s12345", Role: RoleStudent, FirstName: "A", LastName: "B"},
			want:    []string{"The student ID s12345 is invalid, it always starts with a letter ‘s’ followed by 7 numbers."},
		},
		{
			name:    "names missing",
			account: Account{ID: "e12345", Role: RoleStaff},
			want:    []string{"The First Name field is required.", "The Last Name field is required."},
		},
		{
			name:    "unknown role",
			account: Account{ID: "x1", Role: "admin", FirstName: "A", LastName: "B"},
			want:    []string{`Unknown role "admin".`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateAccount(&tt.account)
			if len(tt.want) == 0 {
				assert.True(t, got.Empty(), got.String())
				return
			}
			assert.Equal(t, tt.want, got.Messages())
		})
	}
}

func TestValidateRoom(t *testing.T) {
	assert.True(t, ValidateRoom(&Room{ID: "A"}).Empty())
	assert.Equal(t, []string{"The Name field is required."}, ValidateRoom(&Room{}).Messages())
	assert.Equal(t, []string{"The field Name must be a string with a maximum length of 10."},
		ValidateRoom(&Room{ID: "LectureHall1"}).Messages())
}

func TestValidIDs(t *testing.T) {
	assert.True(t, ValidStaffID("e12345"))
	assert.False(t, ValidStaffID("e1234"))
	assert.False(t, ValidStaffID("E12345"))
	assert.True(t, ValidStudentID("s1234567"))
	assert.False(t, ValidStudentID("s12345678"))
	assert.False(t, ValidStudentID("e1234567"))
}
