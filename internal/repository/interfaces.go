package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mediplan/booking-api/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository reads the identity collaborator's users table.
	// This service never writes to it.
	UserRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	}

	// AppointmentRepository owns appointment and outbox rows. Write methods
	// that take an event insert it in the same transaction as the domain
	// change.
	AppointmentRepository interface {
		// Create re-checks the conflict window and inserts atomically.
		// A collision, detected by the re-check or by the partial unique
		// index on (doctor_id, scheduled_at), yields a Conflict error.
		Create(ctx context.Context, appointment *model.Appointment, windowFrom, windowTo time.Time, event *model.OutboxEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		UpdateStatus(ctx context.Context, appointment *model.Appointment, event *model.OutboxEvent) error
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentSummary, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentSummary, error)
		// HasConflict reports whether a non-cancelled appointment for the
		// doctor falls inside (windowFrom, windowTo), or exactly at
		// windowFrom when the window is empty.
		HasConflict(ctx context.Context, doctorID uuid.UUID, windowFrom, windowTo time.Time) (bool, error)
	}

	// AvailabilityRepository stores doctors' recurring weekly open hours.
	AvailabilityRepository interface {
		Create(ctx context.Context, hours *model.WorkingHours) error
		// Delete is scoped to the owning doctor; a foreign id reads as
		// not found.
		Delete(ctx context.Context, id, doctorID uuid.UUID) error
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.WorkingHours, error)
		ListForDoctorDay(ctx context.Context, doctorID uuid.UUID, day model.Weekday) ([]*model.WorkingHours, error)
	}

	EvaluationRepository interface {
		// Create inserts atomically; a duplicate appointment_id yields a
		// Conflict error from the unique constraint.
		Create(ctx context.Context, evaluation *model.Evaluation, event *model.OutboxEvent) error
		ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error)
	}

	OutboxRepository interface {
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
	}
)
