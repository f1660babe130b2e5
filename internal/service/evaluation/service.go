package evaluation

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediplan/booking-api/internal/model"
	"github.com/mediplan/booking-api/internal/repository"
	"github.com/mediplan/booking-api/internal/service/event"
	apperrors "github.com/mediplan/booking-api/pkg/errors"
	"github.com/mediplan/booking-api/pkg/metrics"
)

// Service gates evaluation submission: one rating per appointment, only by
// the patient who held it, only after completion.
type Service struct {
	repo         repository.EvaluationRepository
	appointments repository.AppointmentRepository
	metrics      *metrics.Metrics
	logger       *zerolog.Logger
}

func NewService(
	repo repository.EvaluationRepository,
	appointments repository.AppointmentRepository,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		metrics:      m,
		logger:       logger,
	}
}

// Submit validates and records a rating. The duplicate check runs twice:
// here for a friendly message, and as the unique constraint on
// appointment_id for the race between check and insert.
func (s *Service) Submit(ctx context.Context, req *model.CreateEvaluationRequest) (*model.Evaluation, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5", nil)
	}

	appointment, err := s.appointments.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}

	if appointment.PatientID != req.PatientID || appointment.DoctorID != req.DoctorID {
		return nil, apperrors.NotFound("appointment", nil)
	}

	if appointment.Status != model.AppointmentStatusCompleted {
		return nil, apperrors.Forbidden("appointment cannot be evaluated yet", nil)
	}

	exists, err := s.repo.ExistsForAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, apperrors.Unavailable("failed to check existing evaluation", err)
	}
	if exists {
		return nil, apperrors.Conflict("appointment has already been evaluated", nil)
	}

	evaluation := &model.Evaluation{
		ID:            uuid.New(),
		AppointmentID: req.AppointmentID,
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}
	if err := s.repo.Create(ctx, evaluation, event.EvaluationCreated(evaluation)); err != nil {
		if apperrors.IsKind(err, apperrors.KindConflict) {
			return nil, err
		}
		return nil, apperrors.Unavailable("failed to create evaluation", err)
	}

	s.metrics.EvaluationsSubmitted.Inc()
	s.logger.Info().
		Str("evaluation_id", evaluation.ID.String()).
		Str("appointment_id", evaluation.AppointmentID.String()).
		Int("rating", evaluation.Rating).
		Msg("evaluation submitted")

	return evaluation, nil
}
