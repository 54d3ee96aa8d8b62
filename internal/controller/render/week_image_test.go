package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/room_booking/internal/model"
)

func slotAt(room string, start time.Time, student string) model.Slot {
	s := model.Slot{RoomID: room, StartTime: start, StaffID: "e12345"}
	if student != "" {
		s.StudentID = &student
	}
	return s
}

func TestWeekBounds(t *testing.T) {
	// 2019-01-01 вторник
	start, end := WeekBounds(time.Date(2019, 1, 1, 13, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2019, 1, 7, 0, 0, 0, 0, time.UTC), end)

	// воскресенье относится к прошлой неделе
	start, _ = WeekBounds(time.Date(2019, 1, 6, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC), start)

	start, _ = WeekBounds(time.Date(2019, 1, 7, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2019, 1, 7, 0, 0, 0, 0, time.UTC), start)
}

func TestCalculateHourRange(t *testing.T) {
	assert.Equal(t, hourRange{start: defaultMinHour, end: defaultMaxHour}, calculateHourRange(nil))

	slots := []model.Slot{
		slotAt("A", time.Date(2019, 1, 1, 9, 0, 0, 0, time.UTC), ""),
		slotAt("B", time.Date(2019, 1, 2, 14, 0, 0, 0, time.UTC), ""),
	}
	assert.Equal(t, hourRange{start: 8, end: 16}, calculateHourRange(slots))

	edge := []model.Slot{
		slotAt("A", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), ""),
		slotAt("A", time.Date(2019, 1, 1, 23, 0, 0, 0, time.UTC), ""),
	}
	assert.Equal(t, hourRange{start: 0, end: 24}, calculateHourRange(edge))
}

func TestGroupSlotsByDayAndLanes(t *testing.T) {
	weekStart, weekEnd := WeekBounds(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC))
	slots := []model.Slot{
		slotAt("B", time.Date(2019, 1, 1, 9, 0, 0, 0, time.UTC), ""),
		slotAt("A", time.Date(2019, 1, 1, 9, 0, 0, 0, time.UTC), "s1234567"),
		slotAt("A", time.Date(2019, 1, 6, 10, 0, 0, 0, time.UTC), ""),
		slotAt("C", time.Date(2019, 1, 7, 10, 0, 0, 0, time.UTC), ""),
	}

	byDay := groupSlotsByDay(slots, weekStart, weekEnd)
	assert.Len(t, byDay[1], 2)
	assert.Len(t, byDay[6], 1)
	assert.Len(t, byDay, 2)

	lanes, n := roomLanes(byDay[1])
	assert.Equal(t, 2, n)
	assert.Equal(t, map[string]int{"A": 0, "B": 1}, lanes)
}

func TestWeekImage(t *testing.T) {
	now := time.Date(2019, 1, 1, 9, 30, 0, 0, time.UTC)
	slots := []model.Slot{
		slotAt("A", time.Date(2019, 1, 1, 9, 0, 0, 0, time.UTC), "s1234567"),
		slotAt("B", time.Date(2019, 1, 1, 9, 0, 0, 0, time.UTC), ""),
		slotAt("C", time.Date(2019, 1, 3, 13, 0, 0, 0, time.UTC), ""),
	}

	data, err := WeekImage(now, slots, now)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, ImageWidth, img.Bounds().Dx())
	assert.Equal(t, ImageHeight, img.Bounds().Dy())

	empty, err := WeekImage(now, nil, now.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.NotEmpty(t, empty)
}
