package service

import (
	"context"
	"fmt"

	"github.com/mlebedeva/clinic_booking/internal/model"
	"go.uber.org/zap"
)

// ScheduleService административная поверхность: шаблоны приёма и отсутствия.
// Именно здесь создаются данные, на которые опирается генератор слотов.
type ScheduleService struct {
	doctors   DoctorDirectory
	templates AvailabilityTemplateStore
	absences  AbsenceStore
	logger    *zap.Logger
}

func NewScheduleService(
	doctors DoctorDirectory,
	templates AvailabilityTemplateStore,
	absences AbsenceStore,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		doctors:   doctors,
		templates: templates,
		absences:  absences,
		logger:    logger,
	}
}

// SetTemplate создаёт или целиком заменяет шаблон врача на день недели.
// Замена именно целиком: старый шаблон не дополняется по полям.
func (s *ScheduleService) SetTemplate(ctx context.Context, doctorID int64, weekday int, startTime, endTime string, slotDurationMinutes int, active bool) (*model.AvailabilityTemplate, error) {
	if weekday < 0 || weekday > 6 {
		return nil, &ValidationError{Field: "weekday", Reason: "must be between 0 (Sunday) and 6 (Saturday)"}
	}
	if slotDurationMinutes < 0 {
		return nil, &ValidationError{Field: "slot_duration_minutes", Reason: "must not be negative"}
	}

	start, err := ParseTime(startTime)
	if err != nil {
		return nil, err
	}

	end, err := model.ParseTimeOfDay(endTime)
	if err != nil {
		return nil, &ValidationError{Field: "end_time", Reason: err.Error()}
	}

	if err := s.requireDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	tmpl := &model.AvailabilityTemplate{
		DoctorID:            doctorID,
		Weekday:             weekday,
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: slotDurationMinutes,
		IsActive:            active,
	}

	if err := s.templates.Upsert(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("upsert availability template: %w", err)
	}

	s.logger.Info("Availability template set",
		zap.Int64("doctor_id", doctorID),
		zap.Int("weekday", weekday),
		zap.String("start_time", start.String()),
		zap.String("end_time", end.String()),
		zap.Int("slot_duration_minutes", slotDurationMinutes),
		zap.Bool("is_active", active),
	)

	return tmpl, nil
}

// RemoveTemplate удаляет шаблон врача
func (s *ScheduleService) RemoveTemplate(ctx context.Context, doctorID, templateID int64) error {
	if err := s.templates.Remove(ctx, doctorID, templateID); err != nil {
		return err
	}

	s.logger.Info("Availability template removed",
		zap.Int64("doctor_id", doctorID),
		zap.Int64("template_id", templateID),
	)

	return nil
}

// ListTemplates возвращает все шаблоны врача
func (s *ScheduleService) ListTemplates(ctx context.Context, doctorID int64) ([]*model.AvailabilityTemplate, error) {
	if err := s.requireDoctor(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.templates.ListByDoctor(ctx, doctorID)
}

// AddAbsence добавляет интервал отсутствия врача (даты включительные)
func (s *ScheduleService) AddAbsence(ctx context.Context, doctorID int64, startDate, endDate string, reason *string) (*model.AbsenceInterval, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}

	end, err := ParseDate(endDate)
	if err != nil {
		return nil, err
	}

	if end.Before(start) {
		return nil, &ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	}

	if err := s.requireDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	absence := &model.AbsenceInterval{
		DoctorID:  doctorID,
		StartDate: start,
		EndDate:   end,
		Reason:    reason,
	}

	if err := s.absences.Add(ctx, absence); err != nil {
		return nil, fmt.Errorf("add absence: %w", err)
	}

	s.logger.Info("Absence added",
		zap.Int64("doctor_id", doctorID),
		zap.String("start_date", startDate),
		zap.String("end_date", endDate),
	)

	return absence, nil
}

// RemoveAbsence удаляет интервал отсутствия врача
func (s *ScheduleService) RemoveAbsence(ctx context.Context, doctorID, absenceID int64) error {
	if err := s.absences.Remove(ctx, doctorID, absenceID); err != nil {
		return err
	}

	s.logger.Info("Absence removed",
		zap.Int64("doctor_id", doctorID),
		zap.Int64("absence_id", absenceID),
	)

	return nil
}

// ListAbsences возвращает все интервалы отсутствия врача
func (s *ScheduleService) ListAbsences(ctx context.Context, doctorID int64) ([]*model.AbsenceInterval, error) {
	if err := s.requireDoctor(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.absences.ListByDoctor(ctx, doctorID)
}

func (s *ScheduleService) requireDoctor(ctx context.Context, doctorID int64) error {
	exists, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return fmt.Errorf("check doctor exists: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}
