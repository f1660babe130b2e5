package model

import (
	"time"

	"github.com/google/uuid"
)

// Evaluation is a patient's one-time rating of a completed appointment.
// Created once, never mutated or deleted.
type Evaluation struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID      uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Rating        int       `db:"rating" json:"rating"`
	Comment       *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// CreateEvaluationRequest keeps the original wire field names
// (rendezvous_id, medecin_id, note, commentaire) for client compatibility.
type CreateEvaluationRequest struct {
	AppointmentID uuid.UUID `json:"rendezvous_id" binding:"required"`
	PatientID     uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID      uuid.UUID `json:"medecin_id" binding:"required"`
	Rating        int       `json:"note" binding:"required"`
	Comment       *string   `json:"commentaire" binding:"omitempty,max=1000"`
}
