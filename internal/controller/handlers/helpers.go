package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/room_booking/internal/model"
)

const slotArgsHint = "Формат: <комната> <дд-мм-гггг> <чч:мм>\nНапример: A 01-01-2019 13:00"

// commandArgs отрезает команду (и @имя_бота) и возвращает аргументы
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	if i := strings.IndexAny(text, " \n\t"); i >= 0 {
		return strings.TrimSpace(text[i+1:])
	}
	return ""
}

// parseSlotArgs разбирает "A 01-01-2019 13:00"
func parseSlotArgs(args string) (string, time.Time, error) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return "", time.Time{}, fmt.Errorf("expected 3 arguments, got %d", len(fields))
	}

	start, err := model.ParseDateTime(fields[1], fields[2])
	if err != nil {
		return "", time.Time{}, err
	}
	return strings.ToUpper(fields[0]), start, nil
}

// parseDay разбирает дату дд-мм-гггг, пустая строка означает сегодня
func parseDay(args string, now time.Time) (time.Time, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return model.DayStart(now.UTC()), nil
	}
	day, err := time.Parse(model.DateLayout, args)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", args, err)
	}
	return day, nil
}

// roleForID определяет роль по формату номера
func roleForID(id string) (model.Role, bool) {
	switch {
	case model.ValidStaffID(id):
		return model.RoleStaff, true
	case model.ValidStudentID(id):
		return model.RoleStudent, true
	default:
		return "", false
	}
}

// formatViolations выводит нарушения по одному на строку
func formatViolations(v model.Violations) string {
	var sb strings.Builder
	sb.WriteString("❌ Операция отклонена:\n")
	for _, msg := range v.Messages() {
		sb.WriteString("• ")
		sb.WriteString(msg)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatSlot выводит одну строку о слоте
func formatSlot(s *model.Slot) string {
	status := "🟢 свободен"
	if s.IsBooked() {
		status = "🔴 занят " + s.Occupant()
	}
	return fmt.Sprintf("🏫 %s  🕐 %s  👤 %s  %s",
		s.RoomID, model.FormatDateShortHour(s.StartTime), s.StaffID, status)
}

// formatSlots выводит список слотов с заголовком
func formatSlots(title string, slots []model.Slot) string {
	if len(slots) == 0 {
		return title + "\n\nСлотов нет."
	}

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n")
	for i := range slots {
		sb.WriteString("\n")
		sb.WriteString(formatSlot(&slots[i]))
	}
	return sb.String()
}
