package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediplan/booking-api/internal/model"
	apperrors "github.com/mediplan/booking-api/pkg/errors"
)

func newTestChecker(appts *fakeAppointmentRepo, avail *fakeAvailabilityRepo, slot time.Duration, enforce bool) *ConflictChecker {
	c := NewConflictChecker(appts, avail, slot, enforce, &nopLogger)
	// Pin the clock so "future" checks are deterministic.
	c.now = func() time.Time { return time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC) }
	return c
}

func TestWindowWithSlotDuration(t *testing.T) {
	c := newTestChecker(newFakeAppointmentRepo(), &fakeAvailabilityRepo{}, 30*time.Minute, false)

	at := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	from, to := c.Window(at)
	assert.Equal(t, at.Add(-30*time.Minute), from)
	assert.Equal(t, at.Add(30*time.Minute), to)
}

func TestWindowZeroDurationIsExactMatch(t *testing.T) {
	c := newTestChecker(newFakeAppointmentRepo(), &fakeAvailabilityRepo{}, 0, false)

	at := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	from, to := c.Window(at)
	assert.Equal(t, at, from)
	assert.Equal(t, at, to)
}

func TestCheckSlotRejectsPast(t *testing.T) {
	c := newTestChecker(newFakeAppointmentRepo(), &fakeAvailabilityRepo{}, 30*time.Minute, false)

	err := c.CheckSlot(context.Background(), uuid.New(), time.Date(2026, 1, 5, 7, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))

	// The pinned now itself is not in the future either.
	err = c.CheckSlot(context.Background(), uuid.New(), time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestCheckSlotReportsConflict(t *testing.T) {
	repo := newFakeAppointmentRepo()
	repo.conflict = true
	c := newTestChecker(repo, &fakeAvailabilityRepo{}, 30*time.Minute, false)

	err := c.CheckSlot(context.Background(), uuid.New(), time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCheckSlotWorkingHoursEnforced(t *testing.T) {
	doctorID := uuid.New()
	avail := &fakeAvailabilityRepo{hours: []*model.WorkingHours{
		{DoctorID: doctorID, Day: model.Monday, Start: "09:00:00", End: "12:00:00"},
		{DoctorID: doctorID, Day: model.Monday, Start: "14:00:00", End: "18:00:00"},
	}}
	c := newTestChecker(newFakeAppointmentRepo(), avail, 30*time.Minute, true)

	// 2026-01-05 is a Monday.
	inHours := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, c.CheckSlot(context.Background(), doctorID, inHours))

	afternoon := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)
	assert.NoError(t, c.CheckSlot(context.Background(), doctorID, afternoon))

	// End bound is exclusive.
	closing := time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC)
	err := c.CheckSlot(context.Background(), doctorID, closing)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))

	lunch := time.Date(2026, 1, 5, 13, 0, 0, 0, time.UTC)
	err = c.CheckSlot(context.Background(), doctorID, lunch)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))

	// No hours published for Tuesday at all.
	tuesday := time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)
	err = c.CheckSlot(context.Background(), doctorID, tuesday)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestCheckSlotWorkingHoursAdvisory(t *testing.T) {
	doctorID := uuid.New()
	avail := &fakeAvailabilityRepo{hours: []*model.WorkingHours{
		{DoctorID: doctorID, Day: model.Monday, Start: "09:00:00", End: "12:00:00"},
	}}
	c := newTestChecker(newFakeAppointmentRepo(), avail, 30*time.Minute, false)

	// Outside hours but enforcement is off: accepted with a warning.
	outside := time.Date(2026, 1, 5, 20, 0, 0, 0, time.UTC)
	assert.NoError(t, c.CheckSlot(context.Background(), doctorID, outside))
}
