package model

import (
	"regexp"
	"time"
)

// Role роль аккаунта
type Role string

const (
	RoleStaff   Role = "staff"
	RoleStudent Role = "student"
)

// MaxBookingPerDay сколько слотов сотрудник может создать за день
const MaxBookingPerDay = 4

var (
	staffIDPattern   = regexp.MustCompile(`^e\d{5}$`)
	studentIDPattern = regexp.MustCompile(`^s\d{7}$`)
)

// Account сотрудник или студент. ID это институтский номер
// (e12345 у сотрудников, s1234567 у студентов)
type Account struct {
	ID         string    `json:"id"`
	Role       Role      `json:"role"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	TelegramID *int64    `json:"telegramId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IsStaff проверяет является ли аккаунт сотрудником
func (a *Account) IsStaff() bool {
	return a.Role == RoleStaff
}

// IsStudent проверяет является ли аккаунт студентом
func (a *Account) IsStudent() bool {
	return a.Role == RoleStudent
}

// FullName возвращает имя и фамилию
func (a *Account) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// ValidStaffID проверяет формат номера сотрудника: 'e' и 5 цифр
func ValidStaffID(id string) bool {
	return staffIDPattern.MatchString(id)
}

// ValidStudentID проверяет формат номера студента: 's' и 7 цифр
func ValidStudentID(id string) bool {
	return studentIDPattern.MatchString(id)
}

// Actor аутентифицированный инициатор операции
type Actor struct {
	AccountID string
	Role      Role
}
