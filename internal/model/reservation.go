package model

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"   // Создана, ожидает подтверждения регистратурой
	ReservationStatusConfirmed ReservationStatus = "confirmed" // Подтверждена
	ReservationStatusCancelled ReservationStatus = "cancelled" // Отменена
	ReservationStatusCompleted ReservationStatus = "completed" // Приём состоялся
	ReservationStatusNoShow    ReservationStatus = "no_show"   // Пациент не пришёл
)

// allowedTransitions описывает машину состояний записи.
// Терминальные статусы (cancelled, completed, no_show) не имеют переходов.
var allowedTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusCompleted, ReservationStatusCancelled, ReservationStatusNoShow},
}

// CanTransitionTo проверяет, разрешён ли переход из статуса s в next
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal проверяет, что из статуса нет переходов
func (s ReservationStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// IsOpen проверяет, что запись удерживает слот.
// Инвариант эксклюзивности действует только для открытых записей.
func (s ReservationStatus) IsOpen() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

// Reservation представляет запись пациента к врачу на конкретный слот
type Reservation struct {
	ID                 int64             `json:"id"`
	Code               uuid.UUID         `json:"code"` // публичный идентификатор для пациента
	DoctorID           int64             `json:"doctor_id"`
	Date               time.Time         `json:"date"`
	StartTime          TimeOfDay         `json:"start_time"`
	EndTime            TimeOfDay         `json:"end_time"`
	Status             ReservationStatus `json:"status"`
	PatientName        string            `json:"patient_name"`
	PatientEmail       string            `json:"patient_email"`
	PatientPhone       string            `json:"patient_phone"`
	Notes              *string           `json:"notes,omitempty"`
	CancellationReason *string           `json:"cancellation_reason,omitempty"`
	ReminderSent       bool              `json:"reminder_sent"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}
