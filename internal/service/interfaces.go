package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mlebedeva/clinic_booking/internal/model"
)

// DoctorDirectory даёт доступ к реестру врачей.
// Методы Get* возвращают (nil, nil) если записи нет.
type DoctorDirectory interface {
	ListActiveIDs(ctx context.Context) ([]int64, error)
	IsActive(ctx context.Context, doctorID int64) (bool, error)
	Exists(ctx context.Context, doctorID int64) (bool, error)
}

// AvailabilityTemplateStore хранит шаблоны регулярного приёма
type AvailabilityTemplateStore interface {
	// GetActiveTemplate возвращает активный шаблон врача на день недели, (nil, nil) если его нет
	GetActiveTemplate(ctx context.Context, doctorID int64, weekday int) (*model.AvailabilityTemplate, error)
	// Upsert заменяет шаблон по паре (врач, день недели) целиком
	Upsert(ctx context.Context, tmpl *model.AvailabilityTemplate) error
	// Remove удаляет шаблон врача, возвращает ErrNotFound если шаблона нет
	Remove(ctx context.Context, doctorID, templateID int64) error
	ListByDoctor(ctx context.Context, doctorID int64) ([]*model.AvailabilityTemplate, error)
}

// AbsenceStore хранит интервалы отсутствия врачей
type AbsenceStore interface {
	// ListCovering возвращает интервалы врача, накрывающие дату
	ListCovering(ctx context.Context, doctorID int64, date time.Time) ([]*model.AbsenceInterval, error)
	Add(ctx context.Context, absence *model.AbsenceInterval) error
	// Remove удаляет интервал врача, возвращает ErrNotFound если интервала нет
	Remove(ctx context.Context, doctorID, absenceID int64) error
	ListByDoctor(ctx context.Context, doctorID int64) ([]*model.AbsenceInterval, error)
}

// ReservationLedger хранит записи пациентов и отвечает за инвариант
// эксклюзивности: не более одной открытой записи на (врач, дата, время).
type ReservationLedger interface {
	// ReserveIfFree атомарно создаёт запись либо возвращает ErrSlotAlreadyBooked,
	// если слот уже удерживается открытой записью. Никаких промежуточных состояний.
	ReserveIfFree(ctx context.Context, res *model.Reservation) error

	// FindOpen возвращает открытую (pending/confirmed) запись на слот, (nil, nil) если её нет
	FindOpen(ctx context.Context, doctorID int64, date time.Time, start model.TimeOfDay) (*model.Reservation, error)

	// UpdateStatus переводит запись из expected в next одной условной командой.
	// Возвращает ErrNotFound если записи нет и ErrStatusConflict если текущий
	// статус уже не expected (оптимистическая блокировка).
	UpdateStatus(ctx context.Context, id int64, expected, next model.ReservationStatus, cancellationReason *string) (*model.Reservation, error)

	GetByID(ctx context.Context, id int64) (*model.Reservation, error)
	GetByCode(ctx context.Context, code uuid.UUID) (*model.Reservation, error)
	ListByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time) ([]*model.Reservation, error)

	// ListDueReminders возвращает подтверждённые записи на дату без отправленного напоминания
	ListDueReminders(ctx context.Context, date time.Time) ([]*model.Reservation, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

// ErrStatusConflict сигнализирует что условное обновление не прошло:
// статус записи изменился между чтением и записью
var ErrStatusConflict = errors.New("reservation status changed concurrently")

// ReminderNotifier внешний отправитель напоминаний.
// Сам текст и канал доставки движок не определяет.
type ReminderNotifier interface {
	SendReminder(ctx context.Context, res *model.Reservation) error
}
