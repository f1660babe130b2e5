package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mediplan/booking-api/internal/model"
	apperrors "github.com/mediplan/booking-api/pkg/errors"
)

// Weekday ordering for list output: Monday first, matching the original
// FIELD(jour_semaine, 'Lundi', ...) ordering.
const weekdayOrder = `
	CASE day_of_week
		WHEN 'Monday' THEN 0 WHEN 'Tuesday' THEN 1 WHEN 'Wednesday' THEN 2
		WHEN 'Thursday' THEN 3 WHEN 'Friday' THEN 4 WHEN 'Saturday' THEN 5
		ELSE 6
	END`

func (r *availabilityRepository) Create(ctx context.Context, hours *model.WorkingHours) error {
	hours.ID = uuid.New()

	query := `
		INSERT INTO working_hours (id, doctor_id, day_of_week, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		hours.ID,
		hours.DoctorID,
		hours.Day,
		hours.Start,
		hours.End,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to create working hours: %w", err)
	}
	return nil
}

func (r *availabilityRepository) Delete(ctx context.Context, id, doctorID uuid.UUID) error {
	query := `DELETE FROM working_hours WHERE id = $1 AND doctor_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, doctorID)
	if err != nil {
		return fmt.Errorf("failed to delete working hours: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete working hours: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("working hours", nil)
	}
	return nil
}

func (r *availabilityRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.WorkingHours, error) {
	query := `
		SELECT id, doctor_id, day_of_week, start_time, end_time
		FROM working_hours
		WHERE doctor_id = $1
		ORDER BY ` + weekdayOrder + `, start_time ASC
	`
	var hours []*model.WorkingHours
	if err := r.db.SelectContext(ctx, &hours, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list working hours: %w", err)
	}
	return hours, nil
}

func (r *availabilityRepository) ListForDoctorDay(ctx context.Context, doctorID uuid.UUID, day model.Weekday) ([]*model.WorkingHours, error) {
	query := `
		SELECT id, doctor_id, day_of_week, start_time, end_time
		FROM working_hours
		WHERE doctor_id = $1 AND day_of_week = $2
		ORDER BY start_time ASC
	`
	var hours []*model.WorkingHours
	if err := r.db.SelectContext(ctx, &hours, query, doctorID, day); err != nil {
		return nil, fmt.Errorf("failed to list working hours for day: %w", err)
	}
	return hours, nil
}
