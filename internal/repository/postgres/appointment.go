package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mediplan/booking-api/internal/model"
	apperrors "github.com/mediplan/booking-api/pkg/errors"
)

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment, windowFrom, windowTo time.Time, event *model.OutboxEvent) error {
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		// Re-check inside the transaction so two concurrent requests for
		// the same slot cannot both pass the earlier check.
		conflict, err := hasConflictQ(ctx, tx, appointment.DoctorID, windowFrom, windowTo)
		if err != nil {
			return err
		}
		if conflict {
			return apperrors.Conflict("requested time not available", nil)
		}

		query := `
			INSERT INTO appointments (
				id, patient_id, doctor_id, scheduled_at,
				status, patient_notes, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err = tx.ExecContext(ctx, query,
			appointment.ID,
			appointment.PatientID,
			appointment.DoctorID,
			appointment.ScheduledAt,
			appointment.Status,
			appointment.PatientNotes,
			appointment.CreatedAt,
			appointment.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}

		return insertOutboxEvent(ctx, tx, event)
	})
	if isUniqueViolation(err) {
		// Last-resort guard: the partial unique index caught a race the
		// re-check missed.
		return apperrors.Conflict("requested time not available", err)
	}
	return err
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, scheduled_at,
			   status, patient_notes, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, appointment *model.Appointment, event *model.OutboxEvent) error {
	appointment.UpdatedAt = time.Now()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE appointments
			SET status = $1, updated_at = $2
			WHERE id = $3
		`
		result, err := tx.ExecContext(ctx, query,
			appointment.Status,
			appointment.UpdatedAt,
			appointment.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update appointment status: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("appointment", nil)
		}

		return insertOutboxEvent(ctx, tx, event)
	})
}

// appointmentRow flattens the role-specific list joins.
type appointmentRow struct {
	ID           uuid.UUID               `db:"id"`
	ScheduledAt  time.Time               `db:"scheduled_at"`
	Status       model.AppointmentStatus `db:"status"`
	PatientNotes *string                 `db:"patient_notes"`

	DoctorID         *uuid.UUID `db:"doctor_id"`
	DoctorName       *string    `db:"doctor_name"`
	DoctorSurname    *string    `db:"doctor_surname"`
	DoctorSpeciality *string    `db:"doctor_speciality"`

	PatientID      *uuid.UUID `db:"patient_id"`
	PatientName    *string    `db:"patient_name"`
	PatientSurname *string    `db:"patient_surname"`
	PatientPhone   *string    `db:"patient_phone"`
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentSummary, error) {
	query := `
		SELECT a.id, a.scheduled_at, a.status, a.patient_notes,
			   u.id AS doctor_id, u.name AS doctor_name, u.surname AS doctor_surname,
			   d.speciality AS doctor_speciality
		FROM appointments a
		INNER JOIN users u ON u.id = a.doctor_id
		INNER JOIN doctors d ON d.user_id = u.id
		WHERE a.patient_id = $1
		ORDER BY a.scheduled_at DESC
	`
	var rows []appointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}

	summaries := make([]*model.AppointmentSummary, 0, len(rows))
	for _, row := range rows {
		s := &model.AppointmentSummary{
			ID:           row.ID,
			ScheduledAt:  row.ScheduledAt,
			Status:       row.Status,
			PatientNotes: row.PatientNotes,
		}
		if row.DoctorID != nil {
			s.Doctor = &model.DoctorSummary{
				ID:      *row.DoctorID,
				Name:    deref(row.DoctorName),
				Surname: deref(row.DoctorSurname),
			}
			if row.DoctorSpeciality != nil {
				s.Doctor.Speciality = *row.DoctorSpeciality
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func (r *appointmentRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentSummary, error) {
	query := `
		SELECT a.id, a.scheduled_at, a.status, a.patient_notes,
			   u.id AS patient_id, u.name AS patient_name, u.surname AS patient_surname,
			   u.phone AS patient_phone
		FROM appointments a
		INNER JOIN users u ON u.id = a.patient_id
		WHERE a.doctor_id = $1
		ORDER BY a.scheduled_at DESC
	`
	var rows []appointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}

	summaries := make([]*model.AppointmentSummary, 0, len(rows))
	for _, row := range rows {
		s := &model.AppointmentSummary{
			ID:           row.ID,
			ScheduledAt:  row.ScheduledAt,
			Status:       row.Status,
			PatientNotes: row.PatientNotes,
		}
		if row.PatientID != nil {
			s.Patient = &model.PatientSummary{
				ID:      *row.PatientID,
				Name:    deref(row.PatientName),
				Surname: deref(row.PatientSurname),
				Phone:   deref(row.PatientPhone),
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func (r *appointmentRepository) HasConflict(ctx context.Context, doctorID uuid.UUID, windowFrom, windowTo time.Time) (bool, error) {
	return hasConflictQ(ctx, r.db, doctorID, windowFrom, windowTo)
}

type queryer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func hasConflictQ(ctx context.Context, q queryer, doctorID uuid.UUID, windowFrom, windowTo time.Time) (bool, error) {
	var query string
	args := []interface{}{doctorID, windowFrom}

	if windowTo.After(windowFrom) {
		query = `
			SELECT EXISTS (
				SELECT 1 FROM appointments
				WHERE doctor_id = $1
				AND status NOT IN ('cancelled_by_doctor', 'cancelled_by_patient')
				AND scheduled_at > $2 AND scheduled_at < $3
			)
		`
		args = append(args, windowTo)
	} else {
		// Empty window: the original exact-start-time rule.
		query = `
			SELECT EXISTS (
				SELECT 1 FROM appointments
				WHERE doctor_id = $1
				AND status NOT IN ('cancelled_by_doctor', 'cancelled_by_patient')
				AND scheduled_at = $2
			)
		`
	}

	var conflict bool
	if err := q.GetContext(ctx, &conflict, query, args...); err != nil {
		return false, fmt.Errorf("failed to check conflicts: %w", err)
	}
	return conflict, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
