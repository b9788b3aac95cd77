package service

import (
	"time"

	"github.com/mlebedeva/clinic_booking/internal/model"
)

// GenerateSlots вычисляет сетку слотов врача на дату из шаблона и отсутствий.
// Чистая функция: без I/O, одинаковый вход всегда даёт одинаковый результат.
//
// Правила:
//   - если дата накрыта хотя бы одним отсутствием слотов нет;
//   - если шаблон nil, неактивен или его день недели не совпадает с датой слотов нет;
//   - слоты нарезаются от StartTime с шагом SlotDurationMinutes, хвост короче
//     полного слота отбрасывается;
//   - вырожденный шаблон (start == end, duration <= 0 при неприменимом дефолте)
//     даёт пустой список, а не ошибку.
func GenerateSlots(tmpl *model.AvailabilityTemplate, absences []*model.AbsenceInterval, date time.Time) []model.Slot {
	for _, absence := range absences {
		if absence.Covers(date) {
			return nil
		}
	}

	if tmpl == nil || !tmpl.IsActive || tmpl.Weekday != int(date.Weekday()) {
		return nil
	}

	duration := tmpl.SlotDurationMinutes
	if duration == 0 {
		duration = model.DefaultSlotDurationMinutes
	}
	if duration < 0 {
		return nil
	}

	var slots []model.Slot
	cursor := tmpl.StartTime
	for cursor.Before(tmpl.EndTime) {
		end, ok := cursor.AddMinutes(duration)
		if !ok {
			break
		}
		if tmpl.EndTime.Before(end) {
			break // хвост короче слота не предлагаем
		}
		slots = append(slots, model.Slot{Start: cursor, End: end})
		cursor = end
	}

	return slots
}
