package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/mlebedeva/clinic_booking/internal/model"
)

func weekDays() []DaySchedule {
	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	days := make([]DaySchedule, 7)
	for i := range days {
		days[i] = DaySchedule{Date: monday.AddDate(0, 0, i)}
	}
	days[0].Slots = []model.Slot{
		{Start: model.TimeOfDay{Hour: 9}, End: model.TimeOfDay{Hour: 9, Minute: 30}},
		{Start: model.TimeOfDay{Hour: 9, Minute: 30}, End: model.TimeOfDay{Hour: 10}},
	}
	days[0].Booked = map[string]model.ReservationStatus{"09:30": model.ReservationStatusConfirmed}
	days[2].Absent = true
	return days
}

func TestRenderWeekProducesPNG(t *testing.T) {
	img, err := RenderWeek(weekDays())
	if err != nil {
		t.Fatalf("RenderWeek: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	if cfg.Width != imageWidth || cfg.Height != imageHeight {
		t.Errorf("image size %dx%d, want %dx%d", cfg.Width, cfg.Height, imageWidth, imageHeight)
	}
}

func TestRenderWeekRejectsWrongDayCount(t *testing.T) {
	if _, err := RenderWeek(weekDays()[:5]); err == nil {
		t.Error("expected error for incomplete week")
	}
}
