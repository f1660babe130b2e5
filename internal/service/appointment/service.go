package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediplan/booking-api/internal/model"
	"github.com/mediplan/booking-api/internal/repository"
	"github.com/mediplan/booking-api/internal/service/event"
	apperrors "github.com/mediplan/booking-api/pkg/errors"
	"github.com/mediplan/booking-api/pkg/metrics"
)

// Service owns the appointment lifecycle: booking with conflict detection,
// doctor-driven status transitions, patient cancellation and role-based
// listing.
type Service struct {
	repo    repository.AppointmentRepository
	users   repository.UserRepository
	checker *ConflictChecker
	metrics *metrics.Metrics
	logger  *zerolog.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	users repository.UserRepository,
	checker *ConflictChecker,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		checker: checker,
		metrics: m,
		logger:  logger,
	}
}

// Create books a slot for a patient. The conflict check runs twice: once
// here as a fast pre-check, and again inside the insert transaction so two
// concurrent requests for the same slot yield exactly one success.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	scheduledAt, err := time.ParseInLocation(model.TimeLayout, req.ScheduledAt, time.Local)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid appointment date or format", err)
	}

	if err := s.requireRole(ctx, req.PatientID, model.RolePatient); err != nil {
		return nil, err
	}
	if err := s.requireRole(ctx, req.DoctorID, model.RoleDoctor); err != nil {
		return nil, err
	}

	if err := s.checker.CheckSlot(ctx, req.DoctorID, scheduledAt); err != nil {
		if apperrors.IsKind(err, apperrors.KindConflict) {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	appointment := &model.Appointment{
		Base:         model.Base{ID: uuid.New()},
		PatientID:    req.PatientID,
		DoctorID:     req.DoctorID,
		ScheduledAt:  scheduledAt,
		Status:       model.AppointmentStatusRequested,
		PatientNotes: req.Notes,
	}

	from, to := s.checker.Window(scheduledAt)
	if err := s.repo.Create(ctx, appointment, from, to, event.AppointmentCreated(appointment)); err != nil {
		if apperrors.IsKind(err, apperrors.KindConflict) {
			s.metrics.BookingConflicts.Inc()
			return nil, err
		}
		return nil, apperrors.Unavailable("failed to book appointment", err)
	}

	s.metrics.AppointmentsCreated.Inc()
	s.logger.Info().
		Str("appointment_id", appointment.ID.String()).
		Str("doctor_id", appointment.DoctorID.String()).
		Time("scheduled_at", appointment.ScheduledAt).
		Msg("appointment requested")

	return appointment, nil
}

// UpdateStatus applies a doctor-triggered transition. Only the owning
// doctor may update; ownership mismatches surface as not-found so the API
// does not leak which appointment ids exist. Re-applying the current
// status succeeds without a write.
func (s *Service) UpdateStatus(ctx context.Context, id, requesterDoctorID uuid.UUID, newStatus model.AppointmentStatus) (*model.Appointment, error) {
	switch newStatus {
	case model.AppointmentStatusConfirmed,
		model.AppointmentStatusCancelledByDoctor,
		model.AppointmentStatusCompleted:
	default:
		return nil, apperrors.InvalidInput("status not permitted for doctor updates", nil)
	}

	return s.transition(ctx, id, requesterDoctorID, ActorDoctor, newStatus)
}

// CancelByPatient lets the holding patient cancel a pending or confirmed
// appointment.
func (s *Service) CancelByPatient(ctx context.Context, id, requesterPatientID uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, requesterPatientID, ActorPatient, model.AppointmentStatusCancelledByPatient)
}

func (s *Service) transition(ctx context.Context, id, requesterID uuid.UUID, actor Actor, newStatus model.AppointmentStatus) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	owner := appointment.DoctorID
	if actor == ActorPatient {
		owner = appointment.PatientID
	}
	if owner != requesterID {
		return nil, apperrors.NotFound("appointment", nil)
	}

	if appointment.Status == newStatus {
		// Idempotent re-status: accepted as a no-op success.
		return appointment, nil
	}

	if !CanTransition(actor, appointment.Status, newStatus) {
		return nil, apperrors.Conflict("status transition not permitted", nil)
	}

	from := appointment.Status
	appointment.Status = newStatus
	if err := s.repo.UpdateStatus(ctx, appointment, event.AppointmentStatusChanged(appointment, from)); err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Unavailable("failed to update appointment status", err)
	}

	s.metrics.StatusTransitions.WithLabelValues(string(newStatus)).Inc()
	s.logger.Info().
		Str("appointment_id", appointment.ID.String()).
		Str("from", string(from)).
		Str("to", string(newStatus)).
		Msg("appointment status updated")

	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

// ListForUser returns the user's appointments newest first, enriched with
// the counterpart's identity. An empty result is a successful empty list,
// not an error.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.AppointmentSummary, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	var summaries []*model.AppointmentSummary
	switch user.Role {
	case model.RolePatient:
		summaries, err = s.repo.ListForPatient(ctx, userID)
	case model.RoleDoctor:
		summaries, err = s.repo.ListForDoctor(ctx, userID)
	default:
		return nil, apperrors.Forbidden("role cannot list appointments", nil)
	}
	if err != nil {
		return nil, apperrors.Unavailable("failed to list appointments", err)
	}

	if summaries == nil {
		summaries = []*model.AppointmentSummary{}
	}
	return summaries, nil
}

func (s *Service) requireRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != role {
		return apperrors.NotFound(string(role), nil)
	}
	return nil
}
