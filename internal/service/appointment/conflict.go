package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediplan/booking-api/internal/model"
	"github.com/mediplan/booking-api/internal/repository"
	apperrors "github.com/mediplan/booking-api/pkg/errors"
)

// ConflictChecker decides whether a candidate (doctor, start time) collides
// with an existing appointment or falls outside the doctor's working hours.
// It is a pure read; the insert path re-runs the collision check inside its
// transaction.
type ConflictChecker struct {
	appointments repository.AppointmentRepository
	availability repository.AvailabilityRepository

	// slotDuration widens the collision check to true interval overlap.
	// Zero reproduces the legacy exact-start-time rule.
	slotDuration time.Duration
	// enforceHours turns the working-hours check from advisory (log-only)
	// into a hard rejection.
	enforceHours bool

	logger *zerolog.Logger
	now    func() time.Time
}

func NewConflictChecker(
	appointments repository.AppointmentRepository,
	availability repository.AvailabilityRepository,
	slotDuration time.Duration,
	enforceHours bool,
	logger *zerolog.Logger,
) *ConflictChecker {
	return &ConflictChecker{
		appointments: appointments,
		availability: availability,
		slotDuration: slotDuration,
		enforceHours: enforceHours,
		logger:       logger,
		now:          time.Now,
	}
}

// Window returns the open interval a booking at t occupies for collision
// purposes. With zero slot duration both bounds equal t, which the
// repository treats as an exact-match check.
func (c *ConflictChecker) Window(t time.Time) (from, to time.Time) {
	if c.slotDuration <= 0 {
		return t, t
	}
	return t.Add(-c.slotDuration), t.Add(c.slotDuration)
}

// CheckSlot validates a candidate booking time for a doctor.
func (c *ConflictChecker) CheckSlot(ctx context.Context, doctorID uuid.UUID, requestedAt time.Time) error {
	if !requestedAt.After(c.now()) {
		return apperrors.InvalidInput("appointment time must be in the future", nil)
	}

	from, to := c.Window(requestedAt)
	conflict, err := c.appointments.HasConflict(ctx, doctorID, from, to)
	if err != nil {
		return apperrors.Unavailable("failed to check slot availability", err)
	}
	if conflict {
		return apperrors.Conflict("requested time not available", nil)
	}

	return c.checkWorkingHours(ctx, doctorID, requestedAt)
}

func (c *ConflictChecker) checkWorkingHours(ctx context.Context, doctorID uuid.UUID, requestedAt time.Time) error {
	day := model.WeekdayOf(requestedAt)
	ranges, err := c.availability.ListForDoctorDay(ctx, doctorID, day)
	if err != nil {
		return apperrors.Unavailable("failed to read working hours", err)
	}

	// No published hours for the day means the doctor takes no bookings
	// then; a doctor with no hours at all is handled the same way.
	clock := requestedAt.Format(model.ClockLayout)
	for _, r := range ranges {
		if clock >= r.Start && clock < r.End {
			return nil
		}
	}

	if !c.enforceHours {
		c.logger.Warn().
			Str("doctor_id", doctorID.String()).
			Str("requested_at", requestedAt.Format(model.TimeLayout)).
			Msg("booking outside working hours accepted (enforcement disabled)")
		return nil
	}

	return apperrors.InvalidInput(
		fmt.Sprintf("requested time is outside the doctor's working hours on %s", day), nil)
}
