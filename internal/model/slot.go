package model

import "time"

// SlotDuration длительность любого слота
const SlotDuration = time.Hour

// Slot слот (комната, время начала), создаётся сотрудником.
// Пара (RoomID, StartTime) уникальна.
type Slot struct {
	RoomID    string    `json:"roomId"`
	StartTime time.Time `json:"startTime"`
	StaffID   string    `json:"staffId"`
	StudentID *string   `json:"studentId"` // nil пока слот свободен
	CreatedAt time.Time `json:"createdAt"`
}

// SlotKey естественный ключ слота
type SlotKey struct {
	RoomID    string
	StartTime time.Time
}

// Key возвращает ключ слота
func (s *Slot) Key() SlotKey {
	return SlotKey{RoomID: s.RoomID, StartTime: s.StartTime}
}

// IsBooked проверяет занят ли слот студентом
func (s *Slot) IsBooked() bool {
	return s.StudentID != nil && *s.StudentID != ""
}

// BookedBy проверяет занят ли слот этим студентом
func (s *Slot) BookedBy(studentID string) bool {
	return s.IsBooked() && *s.StudentID == studentID
}

// Occupant возвращает номер студента или ""
func (s *Slot) Occupant() string {
	if s.StudentID == nil {
		return ""
	}
	return *s.StudentID
}

// EndTime возвращает время окончания слота
func (s *Slot) EndTime() time.Time {
	return s.StartTime.Add(SlotDuration)
}

// SlotFilter фильтр выборки слотов, нулевые значения означают "любой"
type SlotFilter struct {
	RoomID    string
	StaffID   string
	StudentID string
	From      time.Time // включительно
	To        time.Time // не включительно
}

// DayFilter выбирает все слоты календарного дня t
func DayFilter(t time.Time) SlotFilter {
	from := DayStart(t)
	return SlotFilter{From: from, To: from.AddDate(0, 0, 1)}
}

// Match проверяет проходит ли слот фильтр
func (f SlotFilter) Match(s *Slot) bool {
	if f.RoomID != "" && s.RoomID != f.RoomID {
		return false
	}
	if f.StaffID != "" && s.StaffID != f.StaffID {
		return false
	}
	if f.StudentID != "" && s.Occupant() != f.StudentID {
		return false
	}
	if !f.From.IsZero() && s.StartTime.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !s.StartTime.Before(f.To) {
		return false
	}
	return true
}
