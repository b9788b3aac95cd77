package model

import "time"

// DefaultSlotDurationMinutes используется если в шаблоне не задана длительность слота
const DefaultSlotDurationMinutes = 30

// AvailabilityTemplate представляет шаблон регулярного приёма врача
// на один день недели. Для пары (врач, день недели) может существовать
// не более одного активного шаблона.
type AvailabilityTemplate struct {
	ID                  int64     `json:"id"`
	DoctorID            int64     `json:"doctor_id"`
	Weekday             int       `json:"weekday"` // 0 = Sunday, 6 = Saturday
	StartTime           TimeOfDay `json:"start_time"`
	EndTime             TimeOfDay `json:"end_time"`
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
