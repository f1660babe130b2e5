package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediplan/booking-api/internal/model"
	apperrors "github.com/mediplan/booking-api/pkg/errors"
	"github.com/mediplan/booking-api/pkg/metrics"
)

// One registry per test binary; promauto panics on duplicate registration.
var testMetrics = metrics.New("appointment_test")

var nopLogger = zerolog.Nop()

type fakeAppointmentRepo struct {
	byID        map[uuid.UUID]*model.Appointment
	conflict    bool
	conflictErr error
	createErr   error
	updateErr   error

	created      []*model.Appointment
	events       []*model.OutboxEvent
	patientLists map[uuid.UUID][]*model.AppointmentSummary
	doctorLists  map[uuid.UUID][]*model.AppointmentSummary
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		byID:         make(map[uuid.UUID]*model.Appointment),
		patientLists: make(map[uuid.UUID][]*model.AppointmentSummary),
		doctorLists:  make(map[uuid.UUID][]*model.AppointmentSummary),
	}
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, appointment *model.Appointment, windowFrom, windowTo time.Time, event *model.OutboxEvent) error {
	if r.createErr != nil {
		return r.createErr
	}
	if r.conflict {
		return apperrors.Conflict("requested time not available", nil)
	}
	r.byID[appointment.ID] = appointment
	r.created = append(r.created, appointment)
	if event != nil {
		r.events = append(r.events, event)
	}
	return nil
}

func (r *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	copied := *appointment
	return &copied, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, appointment *model.Appointment, event *model.OutboxEvent) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.byID[appointment.ID]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	stored.Status = appointment.Status
	if event != nil {
		r.events = append(r.events, event)
	}
	return nil
}

func (r *fakeAppointmentRepo) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentSummary, error) {
	return r.patientLists[patientID], nil
}

func (r *fakeAppointmentRepo) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentSummary, error) {
	return r.doctorLists[doctorID], nil
}

func (r *fakeAppointmentRepo) HasConflict(ctx context.Context, doctorID uuid.UUID, windowFrom, windowTo time.Time) (bool, error) {
	return r.conflict, r.conflictErr
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return user, nil
}

type fakeAvailabilityRepo struct {
	hours   []*model.WorkingHours
	listErr error
}

func (r *fakeAvailabilityRepo) Create(ctx context.Context, hours *model.WorkingHours) error {
	r.hours = append(r.hours, hours)
	return nil
}

func (r *fakeAvailabilityRepo) Delete(ctx context.Context, id, doctorID uuid.UUID) error {
	for i, h := range r.hours {
		if h.ID == id && h.DoctorID == doctorID {
			r.hours = append(r.hours[:i], r.hours[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("working hours", nil)
}

func (r *fakeAvailabilityRepo) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.WorkingHours, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*model.WorkingHours
	for _, h := range r.hours {
		if h.DoctorID == doctorID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) ListForDoctorDay(ctx context.Context, doctorID uuid.UUID, day model.Weekday) ([]*model.WorkingHours, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*model.WorkingHours
	for _, h := range r.hours {
		if h.DoctorID == doctorID && h.Day == day {
			out = append(out, h)
		}
	}
	return out, nil
}

func patientUser(id uuid.UUID) *model.User {
	return &model.User{ID: id, Name: "Alice", Surname: "Martin", Role: model.RolePatient}
}

func doctorUser(id uuid.UUID) *model.User {
	speciality := "Cardiology"
	return &model.User{ID: id, Name: "Bob", Surname: "Durand", Role: model.RoleDoctor, Speciality: &speciality}
}
