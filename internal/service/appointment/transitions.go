package appointment

import (
	"github.com/mediplan/booking-api/internal/model"
)

// Actor distinguishes who is driving a status transition.
type Actor int

const (
	ActorDoctor Actor = iota
	ActorPatient
)

// doctorTransitions is the closed set of transitions the owning doctor may
// trigger. Terminal states have no entries.
var doctorTransitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusRequested: {
		model.AppointmentStatusConfirmed,
		model.AppointmentStatusCancelledByDoctor,
	},
	model.AppointmentStatusConfirmed: {
		model.AppointmentStatusCancelledByDoctor,
		model.AppointmentStatusCompleted,
	},
}

// patientTransitions: the holding patient may only cancel, and only before
// the visit is over.
var patientTransitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusRequested: {model.AppointmentStatusCancelledByPatient},
	model.AppointmentStatusConfirmed: {model.AppointmentStatusCancelledByPatient},
}

// CanTransition reports whether actor may move an appointment from one
// status to another. Re-applying the current status is always allowed and
// treated as a no-op by the caller.
func CanTransition(actor Actor, from, to model.AppointmentStatus) bool {
	if from == to {
		return true
	}

	table := doctorTransitions
	if actor == ActorPatient {
		table = patientTransitions
	}

	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
