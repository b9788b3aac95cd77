package render

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"time"

	"github.com/fogleman/gg"
	"github.com/mlebedeva/clinic_booking/internal/model"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 100
	leftLabelsWidth = 80
	legendWidth     = 120
	dayPaddingX     = 8
	slotCornerR     = 6.0
	totalDaysInWeek = 7
	hourPaddingTop  = 1
	hourPaddingBot  = 1
	defaultMinHour  = 8
	defaultMaxHour  = 19
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}
	absentDayColor = color.NRGBA{158, 158, 158, 120}

	slotFreeColor   = color.RGBA{133, 193, 85, 220}
	slotBookedColor = color.RGBA{255, 182, 193, 255} // Светло-розовый для занятых
	slotTextColor   = color.RGBA{20, 24, 28, 230}

	legendTextColor = color.RGBA{90, 95, 100, 220}
)

var weekdayLabels = [totalDaysInWeek]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

var monthLabels = [12]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// DaySchedule данные одного дня для отрисовки: сетка слотов врача,
// занятые времена (HH:mm) и признак отсутствия
type DaySchedule struct {
	Date   time.Time
	Slots  []model.Slot
	Booked map[string]model.ReservationStatus
	Absent bool
}

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// RenderWeek рисует недельную сетку доступности врача.
// days ровно семь дней начиная с days[0].Date.
func RenderWeek(days []DaySchedule) ([]byte, error) {
	if len(days) != totalDaysInWeek {
		return nil, fmt.Errorf("render week: expected %d days, got %d", totalDaysInWeek, len(days))
	}

	hours := calculateHourRange(days)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, days)
	drawHourLabels(dc, hours, cellHeight)
	for i, day := range days {
		drawDay(dc, day, i, hours, dayWidth, dayHeight, cellHeight)
	}
	drawLegend(dc)

	return encodeImage(dc)
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(days []DaySchedule) hourRange {
	minHour := 24
	maxHour := 0

	for _, day := range days {
		for _, slot := range day.Slots {
			if slot.Start.Hour < minHour {
				minHour = slot.Start.Hour
			}
			endH := slot.End.Hour
			if slot.End.Minute > 0 {
				endH++
			}
			if endH > maxHour {
				maxHour = endH
			}
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := max(minHour-hourPaddingTop, 0)
	endHour := min(maxHour+hourPaddingBot, 23)

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour + 1,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок с названием месяца
func drawHeader(dc *gg.Context, days []DaySchedule) {
	startMonth := days[0].Date.Month()
	endMonth := days[len(days)-1].Date.Month()

	title := monthLabels[startMonth-1]
	if startMonth != endMonth {
		title = title + " - " + monthLabels[endMonth-1]
	}

	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, float64(headerHeight)/4, 0.5, 0.5)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		actualHour := hours.start + hIdx
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		label := fmt.Sprintf("%02d:00", actualHour)
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDay рисует колонку одного дня со всеми слотами
func drawDay(dc *gg.Context, day DaySchedule, dayIndex int, hours hourRange, dayWidth, dayHeight int, cellHeight float64) {
	x := float64(leftLabelsWidth + dayIndex*dayWidth)

	// Фон колонки: чередование, поверх затемнение дня отсутствия
	if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, float64(headerHeight), float64(dayWidth), float64(dayHeight))
	dc.Fill()

	if day.Absent {
		dc.SetColor(absentDayColor)
		dc.DrawRectangle(x, float64(headerHeight), float64(dayWidth), float64(dayHeight))
		dc.Fill()
	}

	// Подпись дня: "Пн 02.03"
	label := fmt.Sprintf("%s %02d.%02d", weekdayLabels[day.Date.Weekday()], day.Date.Day(), int(day.Date.Month()))
	dc.SetColor(textColor)
	dc.DrawStringAnchored(label, x+float64(dayWidth)/2, float64(headerHeight)*0.7, 0.5, 0.5)

	for _, slot := range day.Slots {
		drawSlot(dc, day, slot, x, hours, dayWidth, cellHeight)
	}
}

// drawSlot рисует один слот, цвет зависит от занятости
func drawSlot(dc *gg.Context, day DaySchedule, slot model.Slot, x float64, hours hourRange, dayWidth int, cellHeight float64) {
	startMin := slot.Start.Minutes() - hours.start*60
	endMin := slot.End.Minutes() - hours.start*60
	if endMin <= 0 {
		return
	}

	y := float64(headerHeight) + float64(startMin)/60.0*cellHeight
	h := float64(endMin-startMin) / 60.0 * cellHeight

	if _, booked := day.Booked[slot.Start.String()]; booked {
		dc.SetColor(slotBookedColor)
	} else {
		dc.SetColor(slotFreeColor)
	}
	dc.DrawRoundedRectangle(x+dayPaddingX, y+1, float64(dayWidth)-2*dayPaddingX, h-2, slotCornerR)
	dc.Fill()

	dc.SetColor(slotTextColor)
	caption := slot.Start.String() + " - " + slot.End.String()
	dc.DrawStringAnchored(caption, x+float64(dayWidth)/2, y+h/2, 0.5, 0.5)
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context) {
	x := float64(imageWidth - legendWidth + 10)
	y := float64(headerHeight)

	items := []struct {
		label string
		color color.Color
	}{
		{"свободно", slotFreeColor},
		{"занято", slotBookedColor},
		{"отсутствие", absentDayColor},
	}

	for i, item := range items {
		itemY := y + float64(i)*30
		dc.SetColor(item.color)
		dc.DrawRoundedRectangle(x, itemY, 20, 14, 3)
		dc.Fill()

		dc.SetColor(legendTextColor)
		dc.DrawStringAnchored(item.label, x+28, itemY+7, 0, 0.5)
	}
}

// encodeImage кодирует готовый холст в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return buf.Bytes(), nil
}
