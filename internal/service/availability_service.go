package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mlebedeva/clinic_booking/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// defaultMergeConcurrency ограничивает веер запросов при объединении
// слотов по всем врачам
const defaultMergeConcurrency = 8

// AvailabilityService отвечает на вопрос "куда ещё можно записаться":
// сетка слотов одного врача и объединение по всему реестру.
type AvailabilityService struct {
	doctors   DoctorDirectory
	templates AvailabilityTemplateStore
	absences  AbsenceStore
	ledger    ReservationLedger
	logger    *zap.Logger

	mergeConcurrency int
}

func NewAvailabilityService(
	doctors DoctorDirectory,
	templates AvailabilityTemplateStore,
	absences AbsenceStore,
	ledger ReservationLedger,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		doctors:          doctors,
		templates:        templates,
		absences:         absences,
		ledger:           ledger,
		logger:           logger,
		mergeConcurrency: defaultMergeConcurrency,
	}
}

// GetSlots возвращает сетку слотов врача на дату.
// Неизвестный или неактивный врач пустой список без ошибки: интерфейс
// записи должен показать "нет свободного времени", а не падать.
// Сетка не фильтруется по существующим записям.
func (s *AvailabilityService) GetSlots(ctx context.Context, doctorID int64, date string) ([]model.Slot, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	active, err := s.doctors.IsActive(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("check doctor active: %w", err)
	}
	if !active {
		return nil, nil
	}

	tmpl, err := s.templates.GetActiveTemplate(ctx, doctorID, int(day.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("get availability template: %w", err)
	}

	absences, err := s.absences.ListCovering(ctx, doctorID, day)
	if err != nil {
		return nil, fmt.Errorf("list absences: %w", err)
	}

	return GenerateSlots(tmpl, absences, day), nil
}

// GetMergedSlotStarts возвращает объединение времён начала слотов всех
// активных врачей на дату: отсортировано по возрастанию, без дубликатов.
// Ошибка по одному врачу логируется и не срывает агрегацию целиком.
func (s *AvailabilityService) GetMergedSlotStarts(ctx context.Context, date string) ([]string, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}

	doctorIDs, err := s.doctors.ListActiveIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active doctors: %w", err)
	}

	var (
		mu     sync.Mutex
		starts = make(map[string]struct{})
	)

	g := &errgroup.Group{}
	g.SetLimit(s.mergeConcurrency)

	for _, doctorID := range doctorIDs {
		doctorID := doctorID
		g.Go(func() error {
			slots, err := s.GetSlots(ctx, doctorID, date)
			if err != nil {
				// Пропускаем врача, агрегация продолжается
				s.logger.Warn("Skipping doctor in merged availability",
					zap.Int64("doctor_id", doctorID),
					zap.String("date", date),
					zap.Error(err))
				return nil
			}

			mu.Lock()
			for _, slot := range slots {
				starts[slot.Start.String()] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}

	// Воркеры никогда не возвращают ошибку, Wait нужен только для синхронизации
	_ = g.Wait()

	merged := make([]string, 0, len(starts))
	for start := range starts {
		merged = append(merged, start)
	}
	sort.Strings(merged)

	return merged, nil
}

// FindAvailableDoctors возвращает врачей, у которых на дату есть слот с
// указанным началом и этот слот не удерживается открытой записью.
func (s *AvailabilityService) FindAvailableDoctors(ctx context.Context, date, startTime string) ([]int64, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	start, err := ParseTime(startTime)
	if err != nil {
		return nil, err
	}

	doctorIDs, err := s.doctors.ListActiveIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active doctors: %w", err)
	}

	var available []int64
	for _, doctorID := range doctorIDs {
		slots, err := s.GetSlots(ctx, doctorID, date)
		if err != nil {
			return nil, err
		}

		offered := false
		for _, slot := range slots {
			if slot.Start.Equal(start) {
				offered = true
				break
			}
		}
		if !offered {
			continue
		}

		open, err := s.ledger.FindOpen(ctx, doctorID, day, start)
		if err != nil {
			return nil, fmt.Errorf("find open reservation: %w", err)
		}
		if open != nil {
			continue
		}

		available = append(available, doctorID)
	}

	return available, nil
}

// ParseDate разбирает календарную дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("expected YYYY-MM-DD, got %q", s)}
	}
	return day, nil
}

// ParseTime разбирает время HH:mm (секунды допускаются и отбрасываются)
func ParseTime(s string) (model.TimeOfDay, error) {
	t, err := model.ParseTimeOfDay(s)
	if err != nil {
		return model.TimeOfDay{}, &ValidationError{Field: "start_time", Reason: err.Error()}
	}
	return t, nil
}
