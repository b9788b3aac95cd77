package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mlebedeva/clinic_booking/internal/model"
)

var (
	// ErrDoctorUnavailable у врача нет ни одного слота в запрошенную дату:
	// врач неизвестен/неактивен, нет шаблона на этот день недели или день
	// целиком закрыт отсутствием.
	ErrDoctorUnavailable = errors.New("doctor is not available on this day")

	// ErrSlotAlreadyBooked слот уже удерживается открытой записью.
	// Возвращается атомарным резервированием в ReservationLedger.
	ErrSlotAlreadyBooked = errors.New("time slot is already booked")

	// ErrNotFound запись/шаблон/отсутствие/врач не найдены
	ErrNotFound = errors.New("not found")
)

// SlotNotOfferedError запрошенное время отсутствует в сетке слотов врача.
// Несёт список предлагаемых времён, чтобы клиент мог показать альтернативы.
type SlotNotOfferedError struct {
	Requested string
	Offered   []string
}

func (e *SlotNotOfferedError) Error() string {
	return fmt.Sprintf("time %s is not offered; available times: %s",
		e.Requested, strings.Join(e.Offered, ", "))
}

// InvalidTransitionError попытка недопустимого перехода статуса записи
type InvalidTransitionError struct {
	From model.ReservationStatus
	To   model.ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// ValidationError некорректные входные данные (дата, время, обязательные поля)
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}
