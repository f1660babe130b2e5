package evaluation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediplan/booking-api/internal/model"
	apperrors "github.com/mediplan/booking-api/pkg/errors"
	"github.com/mediplan/booking-api/pkg/metrics"
)

var testMetrics = metrics.New("evaluation_test")

var nopLogger = zerolog.Nop()

type fakeEvaluationRepo struct {
	existing  map[uuid.UUID]bool
	createErr error
	created   []*model.Evaluation
	events    []*model.OutboxEvent
}

func newFakeEvaluationRepo() *fakeEvaluationRepo {
	return &fakeEvaluationRepo{existing: make(map[uuid.UUID]bool)}
}

func (r *fakeEvaluationRepo) Create(ctx context.Context, evaluation *model.Evaluation, event *model.OutboxEvent) error {
	if r.createErr != nil {
		return r.createErr
	}
	if r.existing[evaluation.AppointmentID] {
		return apperrors.Conflict("appointment has already been evaluated", nil)
	}
	r.existing[evaluation.AppointmentID] = true
	r.created = append(r.created, evaluation)
	if event != nil {
		r.events = append(r.events, event)
	}
	return nil
}

func (r *fakeEvaluationRepo) ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	return r.existing[appointmentID], nil
}

type fakeAppointmentReader struct {
	appointments map[uuid.UUID]*model.Appointment
}

func (r *fakeAppointmentReader) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return appointment, nil
}

func (r *fakeAppointmentReader) Create(ctx context.Context, appointment *model.Appointment, windowFrom, windowTo time.Time, event *model.OutboxEvent) error {
	panic("not used")
}

func (r *fakeAppointmentReader) UpdateStatus(ctx context.Context, appointment *model.Appointment, event *model.OutboxEvent) error {
	panic("not used")
}

func (r *fakeAppointmentReader) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentSummary, error) {
	panic("not used")
}

func (r *fakeAppointmentReader) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentSummary, error) {
	panic("not used")
}

func (r *fakeAppointmentReader) HasConflict(ctx context.Context, doctorID uuid.UUID, windowFrom, windowTo time.Time) (bool, error) {
	panic("not used")
}

type evaluationFixture struct {
	svc         *Service
	repo        *fakeEvaluationRepo
	appointment *model.Appointment
}

func newEvaluationFixture(t *testing.T, status model.AppointmentStatus) *evaluationFixture {
	t.Helper()

	appointment := &model.Appointment{
		Base:        model.Base{ID: uuid.New()},
		PatientID:   uuid.New(),
		DoctorID:    uuid.New(),
		ScheduledAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		Status:      status,
	}
	repo := newFakeEvaluationRepo()
	appointments := &fakeAppointmentReader{
		appointments: map[uuid.UUID]*model.Appointment{appointment.ID: appointment},
	}
	svc := NewService(repo, appointments, testMetrics, &nopLogger)

	return &evaluationFixture{svc: svc, repo: repo, appointment: appointment}
}

func (f *evaluationFixture) request() *model.CreateEvaluationRequest {
	comment := "Very attentive"
	return &model.CreateEvaluationRequest{
		AppointmentID: f.appointment.ID,
		PatientID:     f.appointment.PatientID,
		DoctorID:      f.appointment.DoctorID,
		Rating:        5,
		Comment:       &comment,
	}
}

func TestSubmitEvaluation(t *testing.T) {
	f := newEvaluationFixture(t, model.AppointmentStatusCompleted)

	evaluation, err := f.svc.Submit(context.Background(), f.request())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, evaluation.ID)
	assert.Equal(t, 5, evaluation.Rating)
	require.Len(t, f.repo.events, 1)
	assert.Equal(t, model.EventEvaluationCreated, f.repo.events[0].EventType)
}

func TestSubmitEvaluationRatingBounds(t *testing.T) {
	f := newEvaluationFixture(t, model.AppointmentStatusCompleted)

	for _, rating := range []int{0, -1, 6, 100} {
		req := f.request()
		req.Rating = rating
		_, err := f.svc.Submit(context.Background(), req)
		require.Error(t, err, "rating %d", rating)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput), "rating %d", rating)
	}

	for _, rating := range []int{1, 5} {
		f := newEvaluationFixture(t, model.AppointmentStatusCompleted)
		req := f.request()
		req.Rating = rating
		_, err := f.svc.Submit(context.Background(), req)
		assert.NoError(t, err, "rating %d", rating)
	}
}

func TestSubmitEvaluationUnknownAppointment(t *testing.T) {
	f := newEvaluationFixture(t, model.AppointmentStatusCompleted)

	req := f.request()
	req.AppointmentID = uuid.New()
	_, err := f.svc.Submit(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSubmitEvaluationPairMismatch(t *testing.T) {
	f := newEvaluationFixture(t, model.AppointmentStatusCompleted)

	req := f.request()
	req.PatientID = uuid.New()
	_, err := f.svc.Submit(context.Background(), req)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	req = f.request()
	req.DoctorID = uuid.New()
	_, err = f.svc.Submit(context.Background(), req)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSubmitEvaluationRequiresCompletion(t *testing.T) {
	for _, status := range []model.AppointmentStatus{
		model.AppointmentStatusRequested,
		model.AppointmentStatusConfirmed,
		model.AppointmentStatusCancelledByDoctor,
		model.AppointmentStatusCancelledByPatient,
	} {
		f := newEvaluationFixture(t, status)
		_, err := f.svc.Submit(context.Background(), f.request())
		require.Error(t, err, "status %s", status)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden), "status %s", status)
	}
}

func TestSubmitEvaluationDuplicate(t *testing.T) {
	f := newEvaluationFixture(t, model.AppointmentStatusCompleted)

	_, err := f.svc.Submit(context.Background(), f.request())
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), f.request())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	assert.Len(t, f.repo.created, 1)
}
