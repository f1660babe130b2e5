package event

import (
	"encoding/json"

	"github.com/mediplan/booking-api/internal/model"
)

// Builders for the lifecycle events written to the outbox alongside the
// domain change they describe.

func AppointmentCreated(appointment *model.Appointment) *model.OutboxEvent {
	return build(model.EventAppointmentCreated, appointment)
}

func AppointmentStatusChanged(appointment *model.Appointment, from model.AppointmentStatus) *model.OutboxEvent {
	return build(model.EventAppointmentStatusChanged, map[string]interface{}{
		"appointment_id": appointment.ID,
		"patient_id":     appointment.PatientID,
		"doctor_id":      appointment.DoctorID,
		"from":           from,
		"to":             appointment.Status,
	})
}

func EvaluationCreated(evaluation *model.Evaluation) *model.OutboxEvent {
	return build(model.EventEvaluationCreated, evaluation)
}

func build(eventType string, payload interface{}) *model.OutboxEvent {
	raw, err := json.Marshal(payload)
	if err != nil {
		// Payloads are our own types; a marshal failure is a programming
		// error, not a runtime condition.
		panic(err)
	}
	return &model.OutboxEvent{
		EventType: eventType,
		Payload:   raw,
	}
}
