package model

import (
	"fmt"
	"time"
)

// Форматы дат в сообщениях
const (
	DateLayout     = "02-01-2006"
	DateTimeLayout = "02-01-2006 15:04"
	TimeLayout     = "15:04"
)

// FormatDate форматирует как dd-MM-yyyy
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateTime форматирует как dd-MM-yyyy HH:mm
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// FormatDateShortHour форматирует как dd-MM-yyyy H:mm, час без ведущего нуля
func FormatDateShortHour(t time.Time) string {
	return fmt.Sprintf("%s %d:%02d", t.Format(DateLayout), t.Hour(), t.Minute())
}

// ParseDateTime разбирает дату (dd-MM-yyyy) и время (H:mm или HH:mm) в UTC
func ParseDateTime(date, clock string) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	c, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", clock, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, time.UTC), nil
}

// DayStart возвращает полночь дня t
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay проверяет что a и b в одном календарном дне
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
