package model

import "time"

// AbsenceInterval представляет отсутствие врача: отпуск, больничный и т.п.
// Даты включительные, интервалы одного врача могут пересекаться.
type AbsenceInterval struct {
	ID        int64     `json:"id"`
	DoctorID  int64     `json:"doctor_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Covers проверяет, попадает ли дата в интервал (границы включительно)
func (a *AbsenceInterval) Covers(date time.Time) bool {
	day := DateOnly(date)
	return !day.Before(DateOnly(a.StartDate)) && !day.After(DateOnly(a.EndDate))
}

// DateOnly отбрасывает время, оставляя календарную дату в UTC
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
