package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/mlebedeva/clinic_booking/internal/model"
	"go.uber.org/zap"
)

const mondayDate = "2025-03-03"

func newAvailabilityFixture() (*AvailabilityService, *fakeDirectory, *fakeTemplates, *fakeAbsences, *fakeLedger) {
	doctors := &fakeDirectory{doctors: map[int64]bool{}}
	templates := newFakeTemplates()
	absences := newFakeAbsences()
	ledger := newFakeLedger()
	svc := NewAvailabilityService(doctors, templates, absences, ledger, zap.NewNop())
	return svc, doctors, templates, absences, ledger
}

func addTemplate(t *testing.T, templates *fakeTemplates, doctorID int64, weekday int, start, end model.TimeOfDay, duration int) {
	t.Helper()
	err := templates.Upsert(context.Background(), &model.AvailabilityTemplate{
		DoctorID:            doctorID,
		Weekday:             weekday,
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: duration,
		IsActive:            true,
	})
	if err != nil {
		t.Fatalf("upsert template: %v", err)
	}
}

func TestGetSlotsGridFromTemplate(t *testing.T) {
	svc, doctors, templates, _, _ := newAvailabilityFixture()
	doctors.doctors[1] = true
	addTemplate(t, templates, 1, 1, model.TimeOfDay{Hour: 9}, model.TimeOfDay{Hour: 11}, 30)

	slots, err := svc.GetSlots(context.Background(), 1, mondayDate)
	if err != nil {
		t.Fatalf("GetSlots: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
	if got := slots[0].Start.String(); got != "09:00" {
		t.Errorf("first slot %s, want 09:00", got)
	}
}

func TestGetSlotsUnknownDoctorReturnsEmpty(t *testing.T) {
	svc, _, _, _, _ := newAvailabilityFixture()

	slots, err := svc.GetSlots(context.Background(), 42, mondayDate)
	if err != nil {
		t.Fatalf("unknown doctor must not error, got %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("unknown doctor must yield empty grid, got %v", slots)
	}
}

func TestGetSlotsInactiveDoctorReturnsEmpty(t *testing.T) {
	svc, doctors, templates, _, _ := newAvailabilityFixture()
	doctors.doctors[1] = false
	addTemplate(t, templates, 1, 1, model.TimeOfDay{Hour: 9}, model.TimeOfDay{Hour: 11}, 30)

	slots, err := svc.GetSlots(context.Background(), 1, mondayDate)
	if err != nil {
		t.Fatalf("inactive doctor must not error, got %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("inactive doctor must yield empty grid, got %v", slots)
	}
}

func TestGetSlotsInvalidDate(t *testing.T) {
	svc, _, _, _, _ := newAvailabilityFixture()

	_, err := svc.GetSlots(context.Background(), 1, "03.03.2025")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "date" {
		t.Errorf("validation field %q, want date", vErr.Field)
	}
}

func TestGetMergedSlotStartsSortedDeduplicated(t *testing.T) {
	svc, doctors, templates, _, _ := newAvailabilityFixture()
	doctors.doctors[1] = true
	doctors.doctors[2] = true
	// Сетки пересекаются на 10:00 и 10:30
	addTemplate(t, templates, 1, 1, model.TimeOfDay{Hour: 9}, model.TimeOfDay{Hour: 11}, 30)
	addTemplate(t, templates, 2, 1, model.TimeOfDay{Hour: 10}, model.TimeOfDay{Hour: 12}, 30)

	merged, err := svc.GetMergedSlotStarts(context.Background(), mondayDate)
	if err != nil {
		t.Fatalf("GetMergedSlotStarts: %v", err)
	}

	want := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
	if len(merged) != len(want) {
		t.Fatalf("merged starts %v, want %v", merged, want)
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Fatalf("merged starts %v, want %v", merged, want)
		}
	}
	if !sort.StringsAreSorted(merged) {
		t.Errorf("merged starts must be sorted: %v", merged)
	}
}

func TestGetMergedSlotStartsDoctorFailureIsolated(t *testing.T) {
	svc, doctors, templates, _, _ := newAvailabilityFixture()
	doctors.doctors[1] = true
	doctors.doctors[2] = true
	addTemplate(t, templates, 1, 1, model.TimeOfDay{Hour: 9}, model.TimeOfDay{Hour: 10}, 30)
	templates.errFor[2] = errors.New("storage down")

	merged, err := svc.GetMergedSlotStarts(context.Background(), mondayDate)
	if err != nil {
		t.Fatalf("single doctor failure must not fail aggregation, got %v", err)
	}

	want := []string{"09:00", "09:30"}
	if len(merged) != len(want) || merged[0] != want[0] || merged[1] != want[1] {
		t.Errorf("merged starts %v, want %v", merged, want)
	}
}

func TestGetMergedSlotStartsEmptyRegistry(t *testing.T) {
	svc, _, _, _, _ := newAvailabilityFixture()

	merged, err := svc.GetMergedSlotStarts(context.Background(), mondayDate)
	if err != nil {
		t.Fatalf("GetMergedSlotStarts: %v", err)
	}
	if len(merged) != 0 {
		t.Errorf("empty registry must yield empty merge, got %v", merged)
	}
}

func TestFindAvailableDoctorsExcludesBooked(t *testing.T) {
	svc, doctors, templates, _, ledger := newAvailabilityFixture()
	doctors.doctors[1] = true
	doctors.doctors[2] = true
	doctors.doctors[3] = true
	addTemplate(t, templates, 1, 1, model.TimeOfDay{Hour: 9}, model.TimeOfDay{Hour: 11}, 30)
	addTemplate(t, templates, 2, 1, model.TimeOfDay{Hour: 9}, model.TimeOfDay{Hour: 11}, 30)
	// У третьего врача сетка не предлагает 09:00
	addTemplate(t, templates, 3, 1, model.TimeOfDay{Hour: 14}, model.TimeOfDay{Hour: 16}, 30)

	// Слот 09:00 первого врача удерживается открытой записью
	err := ledger.ReserveIfFree(context.Background(), &model.Reservation{
		DoctorID:  1,
		Date:      monday,
		StartTime: model.TimeOfDay{Hour: 9},
		EndTime:   model.TimeOfDay{Hour: 9, Minute: 30},
		Status:    model.ReservationStatusPending,
	})
	if err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	available, err := svc.FindAvailableDoctors(context.Background(), mondayDate, "09:00")
	if err != nil {
		t.Fatalf("FindAvailableDoctors: %v", err)
	}

	if len(available) != 1 || available[0] != 2 {
		t.Errorf("available doctors %v, want [2]", available)
	}
}

func TestFindAvailableDoctorsCancelledReleasesSlot(t *testing.T) {
	svc, doctors, templates, _, ledger := newAvailabilityFixture()
	doctors.doctors[1] = true
	addTemplate(t, templates, 1, 1, model.TimeOfDay{Hour: 9}, model.TimeOfDay{Hour: 11}, 30)

	res := &model.Reservation{
		DoctorID:  1,
		Date:      monday,
		StartTime: model.TimeOfDay{Hour: 9},
		EndTime:   model.TimeOfDay{Hour: 9, Minute: 30},
		Status:    model.ReservationStatusPending,
	}
	if err := ledger.ReserveIfFree(context.Background(), res); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	if _, err := ledger.UpdateStatus(context.Background(), res.ID, model.ReservationStatusPending, model.ReservationStatusCancelled, nil); err != nil {
		t.Fatalf("cancel reservation: %v", err)
	}

	available, err := svc.FindAvailableDoctors(context.Background(), mondayDate, "09:00")
	if err != nil {
		t.Fatalf("FindAvailableDoctors: %v", err)
	}
	if len(available) != 1 || available[0] != 1 {
		t.Errorf("cancelled reservation must release the slot, got %v", available)
	}
}
