package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mlebedeva/clinic_booking/internal/model"
)

// Фейковые реализации интерфейсов хранилищ для юнит-тестов.
// fakeLedger повторяет семантику частичного уникального индекса:
// проверка занятости и вставка выполняются под одним мьютексом.

type fakeDirectory struct {
	doctors map[int64]bool // id -> активен
	err     error
}

func (f *fakeDirectory) ListActiveIDs(context.Context) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	var ids []int64
	for id, active := range f.doctors {
		if active {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeDirectory) IsActive(_ context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.doctors[id], nil
}

func (f *fakeDirectory) Exists(_ context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.doctors[id]
	return ok, nil
}

type fakeTemplates struct {
	mu        sync.Mutex
	seq       int64
	templates map[int64]map[int]*model.AvailabilityTemplate // doctor -> weekday -> шаблон
	errFor    map[int64]error                               // имитация сбоя по врачу
}

func newFakeTemplates() *fakeTemplates {
	return &fakeTemplates{
		templates: make(map[int64]map[int]*model.AvailabilityTemplate),
		errFor:    make(map[int64]error),
	}
}

func (f *fakeTemplates) GetActiveTemplate(_ context.Context, doctorID int64, weekday int) (*model.AvailabilityTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor[doctorID]; err != nil {
		return nil, err
	}
	tmpl, ok := f.templates[doctorID][weekday]
	if !ok || !tmpl.IsActive {
		return nil, nil
	}
	copied := *tmpl
	return &copied, nil
}

func (f *fakeTemplates) Upsert(_ context.Context, tmpl *model.AvailabilityTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	byWeekday, ok := f.templates[tmpl.DoctorID]
	if !ok {
		byWeekday = make(map[int]*model.AvailabilityTemplate)
		f.templates[tmpl.DoctorID] = byWeekday
	}
	if existing, ok := byWeekday[tmpl.Weekday]; ok {
		tmpl.ID = existing.ID
	} else {
		f.seq++
		tmpl.ID = f.seq
	}
	copied := *tmpl
	byWeekday[tmpl.Weekday] = &copied
	return nil
}

func (f *fakeTemplates) Remove(_ context.Context, doctorID, templateID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for weekday, tmpl := range f.templates[doctorID] {
		if tmpl.ID == templateID {
			delete(f.templates[doctorID], weekday)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeTemplates) ListByDoctor(_ context.Context, doctorID int64) ([]*model.AvailabilityTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AvailabilityTemplate
	for _, tmpl := range f.templates[doctorID] {
		copied := *tmpl
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}

type fakeAbsences struct {
	mu       sync.Mutex
	seq      int64
	byDoctor map[int64][]*model.AbsenceInterval
}

func newFakeAbsences() *fakeAbsences {
	return &fakeAbsences{byDoctor: make(map[int64][]*model.AbsenceInterval)}
}

func (f *fakeAbsences) ListCovering(_ context.Context, doctorID int64, date time.Time) ([]*model.AbsenceInterval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AbsenceInterval
	for _, a := range f.byDoctor[doctorID] {
		if a.Covers(date) {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeAbsences) Add(_ context.Context, absence *model.AbsenceInterval) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	absence.ID = f.seq
	copied := *absence
	f.byDoctor[absence.DoctorID] = append(f.byDoctor[absence.DoctorID], &copied)
	return nil
}

func (f *fakeAbsences) Remove(_ context.Context, doctorID, absenceID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.byDoctor[doctorID]
	for i, a := range list {
		if a.ID == absenceID {
			f.byDoctor[doctorID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeAbsences) ListByDoctor(_ context.Context, doctorID int64) ([]*model.AbsenceInterval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AbsenceInterval
	for _, a := range f.byDoctor[doctorID] {
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

type fakeLedger struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]*model.Reservation
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{byID: make(map[int64]*model.Reservation)}
}

func (f *fakeLedger) ReserveIfFree(_ context.Context, res *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.DoctorID == res.DoctorID &&
			existing.Date.Equal(res.Date) &&
			existing.StartTime.Equal(res.StartTime) &&
			existing.Status.IsOpen() {
			return ErrSlotAlreadyBooked
		}
	}
	f.seq++
	res.ID = f.seq
	now := time.Now()
	res.CreatedAt = now
	res.UpdatedAt = now
	copied := *res
	f.byID[res.ID] = &copied
	return nil
}

func (f *fakeLedger) FindOpen(_ context.Context, doctorID int64, date time.Time, start model.TimeOfDay) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.DoctorID == doctorID &&
			existing.Date.Equal(date) &&
			existing.StartTime.Equal(start) &&
			existing.Status.IsOpen() {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) UpdateStatus(_ context.Context, id int64, expected, next model.ReservationStatus, cancellationReason *string) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if res.Status != expected {
		return nil, ErrStatusConflict
	}
	res.Status = next
	if cancellationReason != nil {
		res.CancellationReason = cancellationReason
	}
	res.UpdatedAt = time.Now()
	copied := *res
	return &copied, nil
}

func (f *fakeLedger) GetByID(_ context.Context, id int64) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *res
	return &copied, nil
}

func (f *fakeLedger) GetByCode(_ context.Context, code uuid.UUID) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, res := range f.byID {
		if res.Code == code {
			copied := *res
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) ListByDoctorAndDate(_ context.Context, doctorID int64, date time.Time) ([]*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Reservation
	for _, res := range f.byID {
		if res.DoctorID == doctorID && res.Date.Equal(date) {
			copied := *res
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeLedger) ListDueReminders(_ context.Context, date time.Time) ([]*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Reservation
	for _, res := range f.byID {
		if res.Date.Equal(model.DateOnly(date)) && res.Status == model.ReservationStatusConfirmed && !res.ReminderSent {
			copied := *res
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeLedger) MarkReminderSent(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	res.ReminderSent = true
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []int64
	failOn map[int64]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failOn: make(map[int64]bool)}
}

func (f *fakeNotifier) SendReminder(_ context.Context, res *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[res.ID] {
		return fmt.Errorf("notifier unavailable")
	}
	f.sent = append(f.sent, res.ID)
	return nil
}
