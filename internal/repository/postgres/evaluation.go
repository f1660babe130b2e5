package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mediplan/booking-api/internal/model"
	apperrors "github.com/mediplan/booking-api/pkg/errors"
)

func (r *evaluationRepository) Create(ctx context.Context, evaluation *model.Evaluation, event *model.OutboxEvent) error {
	evaluation.CreatedAt = time.Now()

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO evaluations (id, appointment_id, patient_id, doctor_id, rating, comment, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := tx.ExecContext(ctx, query,
			evaluation.ID,
			evaluation.AppointmentID,
			evaluation.PatientID,
			evaluation.DoctorID,
			evaluation.Rating,
			evaluation.Comment,
			evaluation.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create evaluation: %w", err)
		}

		return insertOutboxEvent(ctx, tx, event)
	})
	if isUniqueViolation(err) {
		return apperrors.Conflict("appointment has already been evaluated", err)
	}
	return err
}

func (r *evaluationRepository) ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM evaluations WHERE appointment_id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, appointmentID); err != nil {
		return false, fmt.Errorf("failed to check evaluation existence: %w", err)
	}
	return exists, nil
}
