package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Константы размеров и отступов
const (
	ImageWidth       = 1400
	ImageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 120
	dayPaddingX      = 6
	lanePadding      = 3
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	daysInWeek       = 7
	defaultMinHour   = 8
	defaultMaxHour   = 18
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 16.0
	slotFontSize       = 14.0
	legendItemFontSize = 12.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 90}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{220, 220, 220, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	slotFreeColor       = color.RGBA{133, 193, 85, 220}
	slotBookedColor     = color.RGBA{255, 182, 193, 255}
	slotTextColor       = color.RGBA{20, 24, 28, 230}
	slotBookedTextColor = color.RGBA{120, 40, 50, 255}
	slotShadowColor     = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

type fontStyle int

const (
	fontRegular fontStyle = iota
	fontBold
)

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[fontStyle]*opentype.Font)
)

// hourRange диапазон часов по вертикали, end не включительно
type hourRange struct {
	start int
	end   int
}

func (h hourRange) total() int {
	return h.end - h.start
}

// layout общие размеры сетки
type layout struct {
	hours      hourRange
	dayWidth   float64
	cellHeight float64
}

// WeekBounds возвращает понедельник недели с day и понедельник следующей
func WeekBounds(day time.Time) (time.Time, time.Time) {
	start := model.DayStart(day)
	offset := (int(start.Weekday()) + 6) % 7
	start = start.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, daysInWeek)
}

// WeekImage рисует PNG недели (Пн-Вс), содержащей day. Слоты одного дня
// раскладываются по колонкам комнат.
func WeekImage(day time.Time, slots []model.Slot, now time.Time) ([]byte, error) {
	weekStart, weekEnd := WeekBounds(day)

	slotsByDay := groupSlotsByDay(slots, weekStart, weekEnd)
	l := layout{hours: calculateHourRange(slots)}
	l.dayWidth = float64(ImageWidth-leftLabelsWidth-legendWidth) / daysInWeek
	l.cellHeight = float64(ImageHeight-headerHeight) / float64(l.hours.total())

	dc := gg.NewContext(ImageWidth, ImageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	drawHeader(dc, weekStart)
	drawHourLabels(dc, l)
	for i := 0; i < daysInWeek; i++ {
		date := weekStart.AddDate(0, 0, i)
		x := float64(leftLabelsWidth) + float64(i)*l.dayWidth
		drawDay(dc, date, i, model.SameDay(date, now), x, l)
		drawSlots(dc, slotsByDay[i], x, l)
	}
	if !now.Before(weekStart) && now.Before(weekEnd) {
		drawCurrentTimeLine(dc, now, l)
	}
	drawLegend(dc)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// groupSlotsByDay раскладывает слоты недели по индексу дня (0 = понедельник)
func groupSlotsByDay(slots []model.Slot, weekStart, weekEnd time.Time) map[int][]model.Slot {
	byDay := make(map[int][]model.Slot)
	for _, s := range slots {
		if s.StartTime.Before(weekStart) || !s.StartTime.Before(weekEnd) {
			continue
		}
		idx := int(math.Round(model.DayStart(s.StartTime).Sub(weekStart).Hours() / 24))
		byDay[idx] = append(byDay[idx], s)
	}
	return byDay
}

// calculateHourRange захватывает все слоты с запасом в час сверху и снизу
func calculateHourRange(slots []model.Slot) hourRange {
	if len(slots) == 0 {
		return hourRange{start: defaultMinHour, end: defaultMaxHour}
	}

	minHour, maxHour := 24, 0
	for _, s := range slots {
		startH := s.StartTime.Hour()
		endH := startH + int(model.SlotDuration/time.Hour)
		if startH < minHour {
			minHour = startH
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	return hourRange{start: max(minHour-1, 0), end: min(maxHour+1, 24)}
}

// roomLanes номер колонки для каждой комнаты дня
func roomLanes(slots []model.Slot) (map[string]int, int) {
	var rooms []string
	seen := make(map[string]bool)
	for _, s := range slots {
		if !seen[s.RoomID] {
			seen[s.RoomID] = true
			rooms = append(rooms, s.RoomID)
		}
	}
	sort.Strings(rooms)

	lanes := make(map[string]int, len(rooms))
	for i, r := range rooms {
		lanes[r] = i
	}
	return lanes, len(rooms)
}

func drawHeader(dc *gg.Context, weekStart time.Time) {
	weekEnd := weekStart.AddDate(0, 0, daysInWeek-1)
	title := fmt.Sprintf("%s %d", monthName(weekStart.Month()), weekStart.Year())
	if weekStart.Month() != weekEnd.Month() {
		title = fmt.Sprintf("%s - %s %d", monthName(weekStart.Month()), monthName(weekEnd.Month()), weekEnd.Year())
	}

	setFont(dc, titleFontSize, fontBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/4, 0, 0.5)
}

func drawHourLabels(dc *gg.Context, l layout) {
	setFont(dc, hourLabelFontSize, fontRegular)
	dc.SetColor(hourLabelColor)

	for h := l.hours.start; h <= l.hours.end; h++ {
		y := float64(headerHeight) + float64(h-l.hours.start)*l.cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", h), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDay(dc *gg.Context, date time.Time, idx int, today bool, x float64, l layout) {
	y := float64(headerHeight)
	height := float64(ImageHeight - headerHeight)

	switch {
	case today:
		dc.SetColor(todayBgColor)
	case idx%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, l.dayWidth, height)
	dc.Fill()

	setFont(dc, dayFontSize, fontBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+l.dayWidth/2, y, 0.5, -1)
	dc.DrawStringAnchored(weekdayShort(date.Weekday()), x+l.dayWidth/2, y, 0.5, -0.2)

	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for i := 0; i <= l.hours.total(); i++ {
		hy := y + float64(i)*l.cellHeight
		dc.DrawLine(x, hy, x+l.dayWidth, hy)
		dc.Stroke()
	}
}

func drawSlots(dc *gg.Context, slots []model.Slot, x float64, l layout) {
	lanes, n := roomLanes(slots)
	if n == 0 {
		return
	}
	laneWidth := (l.dayWidth - 2*dayPaddingX) / float64(n)

	for _, s := range slots {
		startHour := float64(s.StartTime.Hour()) + float64(s.StartTime.Minute())/60
		sx := x + dayPaddingX + float64(lanes[s.RoomID])*laneWidth + lanePadding
		sy := float64(headerHeight) + (startHour-float64(l.hours.start))*l.cellHeight + 2
		w := laneWidth - 2*lanePadding
		h := model.SlotDuration.Hours()*l.cellHeight - 4

		fill, text := slotFreeColor, slotTextColor
		if s.IsBooked() {
			fill, text = slotBookedColor, slotBookedTextColor
		}

		dc.SetColor(slotShadowColor)
		dc.DrawRoundedRectangle(sx+shadowOffset, sy+shadowOffset, w, h, slotBorderRadius)
		dc.Fill()

		dc.SetColor(fill)
		dc.DrawRoundedRectangle(sx, sy, w, h, slotBorderRadius)
		dc.Fill()

		dc.SetColor(darkenColor(fill, 0.8))
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(sx, sy, w, h, slotBorderRadius)
		dc.Stroke()

		setFont(dc, slotFontSize, fontBold)
		dc.SetColor(text)
		dc.DrawStringAnchored(s.RoomID+" "+s.StartTime.Format(model.TimeLayout), sx+6, sy+14, 0, 0)

		if h > 36 {
			label := s.StaffID
			if s.IsBooked() {
				label = s.Occupant()
			}
			setFont(dc, slotFontSize-2, fontRegular)
			dc.DrawStringAnchored(label, sx+6, sy+30, 0, 0)
		}
	}
}

func drawCurrentTimeLine(dc *gg.Context, now time.Time, l layout) {
	hour := float64(now.Hour()) + float64(now.Minute())/60
	if hour < float64(l.hours.start) || hour > float64(l.hours.end) {
		return
	}

	y := float64(headerHeight) + (hour-float64(l.hours.start))*l.cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2)
	dc.DrawLine(float64(leftLabelsWidth), y, float64(leftLabelsWidth)+daysInWeek*l.dayWidth, y)
	dc.Stroke()
}

func drawLegend(dc *gg.Context) {
	x := float64(ImageWidth-legendWidth) + 10
	y := float64(ImageHeight) - 78

	items := []struct {
		label string
		clr   color.Color
	}{
		{"Свободно", slotFreeColor},
		{"Занято", slotBookedColor},
	}

	const boxW, boxH = 20.0, 14.0
	setFont(dc, legendItemFontSize, fontRegular)
	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.label, x+boxW+8, y+boxH/2+1, 0, 0.2)
		y += boxH + 14
	}
}

// setFont выставляет Go шрифт нужного размера, basicfont если разбор не удался
func setFont(dc *gg.Context, size float64, style fontStyle) {
	f, err := parsedFont(style)
	if err == nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

func parsedFont(style fontStyle) (*opentype.Font, error) {
	fontsMu.Lock()
	defer fontsMu.Unlock()

	if f, ok := cachedFonts[style]; ok {
		return f, nil
	}

	data := goregular.TTF
	if style == fontBold {
		data = gobold.TTF
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	cachedFonts[style] = f
	return f, nil
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func weekdayShort(weekday time.Weekday) string {
	return [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}[weekday]
}

func monthName(month time.Month) string {
	return [...]string{"", "Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
		"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"}[month]
}
