package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mlebedeva/clinic_booking/internal/model"
	"github.com/mlebedeva/clinic_booking/internal/render"
	"github.com/mlebedeva/clinic_booking/internal/service"
)

// Генерирует пример недельной картинки доступности врача в week.png
func main() {
	now := time.Now()
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for monday.Weekday() != time.Monday {
		monday = monday.AddDate(0, 0, -1)
	}

	// Шаблоны: будни 09:00-13:00 по 30 минут, суббота короткая
	templates := map[int]*model.AvailabilityTemplate{}
	for weekday := 1; weekday <= 5; weekday++ {
		templates[weekday] = &model.AvailabilityTemplate{
			DoctorID:            1,
			Weekday:             weekday,
			StartTime:           model.TimeOfDay{Hour: 9},
			EndTime:             model.TimeOfDay{Hour: 13},
			SlotDurationMinutes: 30,
			IsActive:            true,
		}
	}
	templates[6] = &model.AvailabilityTemplate{
		DoctorID:            1,
		Weekday:             6,
		StartTime:           model.TimeOfDay{Hour: 10},
		EndTime:             model.TimeOfDay{Hour: 12},
		SlotDurationMinutes: 60,
		IsActive:            true,
	}

	// Среда закрыта отсутствием
	wednesday := monday.AddDate(0, 0, 2)
	absences := []*model.AbsenceInterval{
		{DoctorID: 1, StartDate: wednesday, EndDate: wednesday},
	}

	days := make([]render.DaySchedule, 0, 7)
	for i := 0; i < 7; i++ {
		date := monday.AddDate(0, 0, i)
		slots := service.GenerateSlots(templates[int(date.Weekday())], absences, date)

		booked := map[string]model.ReservationStatus{}
		if date.Weekday() == time.Tuesday {
			booked["09:30"] = model.ReservationStatusConfirmed
			booked["11:00"] = model.ReservationStatusPending
		}

		absent := false
		for _, a := range absences {
			if a.Covers(date) {
				absent = true
			}
		}

		days = append(days, render.DaySchedule{
			Date:   date,
			Slots:  slots,
			Booked: booked,
			Absent: absent,
		})
	}

	img, err := render.RenderWeek(days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile("week.png", img, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("week.png written")
}
