package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mlebedeva/clinic_booking/internal/model"
	"go.uber.org/zap"
)

// BookingService проводит запись пациента через атомарное резервирование
// слота и управляет дальнейшими переходами статуса.
type BookingService struct {
	availability *AvailabilityService
	ledger       ReservationLedger
	notifier     ReminderNotifier
	logger       *zap.Logger
}

func NewBookingService(
	availability *AvailabilityService,
	ledger ReservationLedger,
	notifier ReminderNotifier,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		availability: availability,
		ledger:       ledger,
		notifier:     notifier,
		logger:       logger,
	}
}

// CreateReservationRequest заявка пациента на запись
type CreateReservationRequest struct {
	DoctorID     int64   `json:"doctor_id"`
	Date         string  `json:"date"`       // YYYY-MM-DD
	StartTime    string  `json:"start_time"` // HH:mm или HH:mm:ss
	PatientName  string  `json:"patient_name"`
	PatientEmail string  `json:"patient_email"`
	PatientPhone string  `json:"patient_phone"`
	Notes        *string `json:"notes,omitempty"`
}

func (r *CreateReservationRequest) validate() error {
	if strings.TrimSpace(r.PatientName) == "" {
		return &ValidationError{Field: "patient_name", Reason: "required"}
	}
	if strings.TrimSpace(r.PatientEmail) == "" {
		return &ValidationError{Field: "patient_email", Reason: "required"}
	}
	if strings.TrimSpace(r.PatientPhone) == "" {
		return &ValidationError{Field: "patient_phone", Reason: "required"}
	}
	return nil
}

// Create создаёт запись в статусе pending.
//
// Порядок строго такой:
//  1. сетка слотов врача на дату; пустая сетка даёт ErrDoctorUnavailable;
//  2. запрошенное время ищется в сетке; мимо сетки SlotNotOfferedError
//     со списком предлагаемых времён;
//  3. атомарное резервирование в ledger; занятый слот даёт ErrSlotAlreadyBooked.
//
// Время записи берётся из найденного слота, а не из строки клиента,
// чтобы запись всегда совпадала со сгенерированной сеткой.
func (s *BookingService) Create(ctx context.Context, req *CreateReservationRequest) (*model.Reservation, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	day, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	start, err := ParseTime(req.StartTime)
	if err != nil {
		return nil, err
	}

	slots, err := s.availability.GetSlots(ctx, req.DoctorID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("get slots: %w", err)
	}

	if len(slots) == 0 {
		return nil, ErrDoctorUnavailable
	}

	var matched *model.Slot
	for i := range slots {
		if slots[i].Start.Equal(start) {
			matched = &slots[i]
			break
		}
	}

	if matched == nil {
		offered := make([]string, 0, len(slots))
		for _, slot := range slots {
			offered = append(offered, slot.Start.String())
		}
		return nil, &SlotNotOfferedError{Requested: start.String(), Offered: offered}
	}

	reservation := &model.Reservation{
		Code:         uuid.New(),
		DoctorID:     req.DoctorID,
		Date:         day,
		StartTime:    matched.Start,
		EndTime:      matched.End,
		Status:       model.ReservationStatusPending,
		PatientName:  req.PatientName,
		PatientEmail: req.PatientEmail,
		PatientPhone: req.PatientPhone,
		Notes:        req.Notes,
	}

	if err := s.ledger.ReserveIfFree(ctx, reservation); err != nil {
		if errors.Is(err, ErrSlotAlreadyBooked) {
			return nil, ErrSlotAlreadyBooked
		}
		return nil, fmt.Errorf("reserve slot: %w", err)
	}

	s.logger.Info("Reservation created",
		zap.Int64("reservation_id", reservation.ID),
		zap.String("code", reservation.Code.String()),
		zap.Int64("doctor_id", reservation.DoctorID),
		zap.String("date", req.Date),
		zap.String("start_time", reservation.StartTime.String()),
	)

	return reservation, nil
}

// Confirm подтверждает запись: pending -> confirmed
func (s *BookingService) Confirm(ctx context.Context, id int64) (*model.Reservation, error) {
	return s.transition(ctx, id, model.ReservationStatusConfirmed, nil)
}

// Cancel отменяет запись из pending или confirmed, сохраняя причину
func (s *BookingService) Cancel(ctx context.Context, id int64, reason *string) (*model.Reservation, error) {
	return s.transition(ctx, id, model.ReservationStatusCancelled, reason)
}

// Complete закрывает состоявшийся приём: confirmed -> completed
func (s *BookingService) Complete(ctx context.Context, id int64) (*model.Reservation, error) {
	return s.transition(ctx, id, model.ReservationStatusCompleted, nil)
}

// MarkNoShow помечает неявку пациента: confirmed -> no_show
func (s *BookingService) MarkNoShow(ctx context.Context, id int64) (*model.Reservation, error) {
	return s.transition(ctx, id, model.ReservationStatusNoShow, nil)
}

// transition выполняет переход статуса с оптимистической блокировкой.
// Проигравший конкурентную гонку писатель получает InvalidTransitionError
// по актуальному статусу, а не затирает чужое обновление.
func (s *BookingService) transition(ctx context.Context, id int64, next model.ReservationStatus, reason *string) (*model.Reservation, error) {
	current, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if current == nil {
		return nil, ErrNotFound
	}

	if !current.Status.CanTransitionTo(next) {
		return nil, &InvalidTransitionError{From: current.Status, To: next}
	}

	updated, err := s.ledger.UpdateStatus(ctx, id, current.Status, next, reason)
	if err != nil {
		if errors.Is(err, ErrStatusConflict) {
			// Статус успел измениться, перечитываем ради честной ошибки
			actual, getErr := s.ledger.GetByID(ctx, id)
			if getErr != nil || actual == nil {
				return nil, ErrNotFound
			}
			return nil, &InvalidTransitionError{From: actual.Status, To: next}
		}
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update reservation status: %w", err)
	}

	s.logger.Info("Reservation status changed",
		zap.Int64("reservation_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next)),
	)

	return updated, nil
}

// GetByID возвращает запись или ErrNotFound
func (s *BookingService) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	res, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}

// GetByCode возвращает запись по публичному коду или ErrNotFound
func (s *BookingService) GetByCode(ctx context.Context, code uuid.UUID) (*model.Reservation, error) {
	res, err := s.ledger.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get reservation by code: %w", err)
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}

// GetDoctorAgenda возвращает записи врача на дату по времени начала
func (s *BookingService) GetDoctorAgenda(ctx context.Context, doctorID int64, date string) ([]*model.Reservation, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	return s.ledger.ListByDoctorAndDate(ctx, doctorID, day)
}

// GetAvailableDoctorsAtSlot тонкий алиас для date-first сценария записи
func (s *BookingService) GetAvailableDoctorsAtSlot(ctx context.Context, date, startTime string) ([]int64, error) {
	return s.availability.FindAvailableDoctors(ctx, date, startTime)
}

// DispatchReminders рассылает напоминания по подтверждённым записям на дату.
// Ошибка отправки по одной записи логируется и не останавливает остальные;
// отметка reminder_sent ставится только после успешной отправки.
func (s *BookingService) DispatchReminders(ctx context.Context, date time.Time) (int, error) {
	due, err := s.ledger.ListDueReminders(ctx, model.DateOnly(date))
	if err != nil {
		return 0, fmt.Errorf("list due reminders: %w", err)
	}

	sent := 0
	for _, res := range due {
		if err := s.notifier.SendReminder(ctx, res); err != nil {
			s.logger.Warn("Failed to send reminder",
				zap.Int64("reservation_id", res.ID),
				zap.Error(err))
			continue
		}

		if err := s.ledger.MarkReminderSent(ctx, res.ID); err != nil {
			s.logger.Warn("Failed to mark reminder as sent",
				zap.Int64("reservation_id", res.ID),
				zap.Error(err))
			continue
		}

		sent++
	}

	if len(due) > 0 {
		s.logger.Info("Reminders dispatched",
			zap.Int("due", len(due)),
			zap.Int("sent", sent),
		)
	}

	return sent, nil
}
