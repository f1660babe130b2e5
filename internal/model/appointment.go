package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusRequested          AppointmentStatus = "requested"
	AppointmentStatusConfirmed          AppointmentStatus = "confirmed"
	AppointmentStatusCancelledByDoctor  AppointmentStatus = "cancelled_by_doctor"
	AppointmentStatusCancelledByPatient AppointmentStatus = "cancelled_by_patient"
	AppointmentStatusCompleted          AppointmentStatus = "completed"
)

// ParseAppointmentStatus validates a status value at the boundary.
// The original system's French values are accepted as aliases so existing
// clients keep working; canonical values are emitted on output.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch s {
	case "requested", "demande":
		return AppointmentStatusRequested, nil
	case "confirmed", "confirme":
		return AppointmentStatusConfirmed, nil
	case "cancelled_by_doctor", "annule_medecin":
		return AppointmentStatusCancelledByDoctor, nil
	case "cancelled_by_patient", "annule_patient":
		return AppointmentStatusCancelledByPatient, nil
	case "completed", "termine":
		return AppointmentStatusCompleted, nil
	default:
		return "", fmt.Errorf("unknown appointment status %q", s)
	}
}

// Cancelled reports whether the status is either cancellation variant.
// Cancelled appointments do not hold their slot.
func (s AppointmentStatus) Cancelled() bool {
	return s == AppointmentStatusCancelledByDoctor || s == AppointmentStatusCancelledByPatient
}

// Terminal reports whether no further transition is permitted from s.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCompleted || s.Cancelled()
}

// Appointment is the central entity: a patient's booking of a doctor's slot.
// Rows are never deleted; cancellation is a status, not a row removal.
type Appointment struct {
	Base
	PatientID    uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID     uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	ScheduledAt  time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Status       AppointmentStatus `db:"status" json:"status"`
	PatientNotes *string           `db:"patient_notes" json:"patient_notes,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientID   uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID    uuid.UUID `json:"doctor_id" binding:"required"`
	ScheduledAt string    `json:"scheduled_at" binding:"required,datetime=2006-01-02 15:04:05"`
	Notes       *string   `json:"notes" binding:"omitempty,max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	NewStatus string    `json:"new_status" binding:"required"`
}

// AppointmentSummary is a list entry enriched with the counterpart's
// identity, depending on the caller's role.
type AppointmentSummary struct {
	ID           uuid.UUID         `db:"id" json:"id"`
	ScheduledAt  time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Status       AppointmentStatus `db:"status" json:"status"`
	PatientNotes *string           `db:"patient_notes" json:"patient_notes,omitempty"`

	Doctor  *DoctorSummary  `json:"doctor,omitempty"`
	Patient *PatientSummary `json:"patient,omitempty"`
}

// DoctorSummary is attached to a patient's appointment list.
type DoctorSummary struct {
	ID         uuid.UUID `db:"doctor_id" json:"id"`
	Name       string    `db:"doctor_name" json:"name"`
	Surname    string    `db:"doctor_surname" json:"surname"`
	Speciality string    `db:"doctor_speciality" json:"speciality"`
}

// PatientSummary is attached to a doctor's appointment list.
type PatientSummary struct {
	ID      uuid.UUID `db:"patient_id" json:"id"`
	Name    string    `db:"patient_name" json:"name"`
	Surname string    `db:"patient_surname" json:"surname"`
	Phone   string    `db:"patient_phone" json:"phone"`
}
