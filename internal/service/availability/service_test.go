package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediplan/booking-api/internal/model"
	apperrors "github.com/mediplan/booking-api/pkg/errors"
)

type fakeAvailabilityRepo struct {
	hours     []*model.WorkingHours
	listCalls int
}

func (r *fakeAvailabilityRepo) Create(ctx context.Context, hours *model.WorkingHours) error {
	hours.ID = uuid.New()
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
	r.listCalls++
	var out []*model.WorkingHours
	for _, h := range r.hours {
		if h.DoctorID == doctorID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) ListForDoctorDay(ctx context.Context, doctorID uuid.UUID, day model.Weekday) ([]*model.WorkingHours, error) {
	var out []*model.WorkingHours
	for _, h := range r.hours {
		if h.DoctorID == doctorID && h.Day == day {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return user, nil
}

type availabilityFixture struct {
	svc    *Service
	repo   *fakeAvailabilityRepo
	doctor uuid.UUID
}

func newAvailabilityFixture(t *testing.T) *availabilityFixture {
	t.Helper()
	doctorID := uuid.New()
	speciality := "Dermatology"

	repo := &fakeAvailabilityRepo{}
	users := &fakeUserRepo{users: map[uuid.UUID]*model.User{
		doctorID: {ID: doctorID, Name: "Bob", Surname: "Durand", Role: model.RoleDoctor, Speciality: &speciality},
	}}
	svc := NewService(repo, users, time.Minute)

	return &availabilityFixture{svc: svc, repo: repo, doctor: doctorID}
}

func TestCreateWorkingHours(t *testing.T) {
	f := newAvailabilityFixture(t)

	hours, err := f.svc.Create(context.Background(), &model.CreateWorkingHoursRequest{
		DoctorID:  f.doctor,
		DayOfWeek: "Monday",
		StartTime: "09:00:00",
		EndTime:   "12:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Monday, hours.Day)
	assert.Len(t, f.repo.hours, 1)
}

func TestCreateWorkingHoursLegacyDayNames(t *testing.T) {
	f := newAvailabilityFixture(t)

	hours, err := f.svc.Create(context.Background(), &model.CreateWorkingHoursRequest{
		DoctorID:  f.doctor,
		DayOfWeek: "Vendredi",
		StartTime: "14:00:00",
		EndTime:   "18:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Friday, hours.Day)
}

func TestCreateWorkingHoursValidation(t *testing.T) {
	f := newAvailabilityFixture(t)

	cases := []model.CreateWorkingHoursRequest{
		{DoctorID: f.doctor, DayOfWeek: "Noday", StartTime: "09:00:00", EndTime: "12:00:00"},
		{DoctorID: f.doctor, DayOfWeek: "Monday", StartTime: "9am", EndTime: "12:00:00"},
		{DoctorID: f.doctor, DayOfWeek: "Monday", StartTime: "09:00:00", EndTime: "noon"},
		{DoctorID: f.doctor, DayOfWeek: "Monday", StartTime: "12:00:00", EndTime: "09:00:00"},
		{DoctorID: f.doctor, DayOfWeek: "Monday", StartTime: "09:00:00", EndTime: "09:00:00"},
	}
	for i, req := range cases {
		_, err := f.svc.Create(context.Background(), &req)
		require.Error(t, err, "case %d", i)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput), "case %d", i)
	}
}

func TestCreateWorkingHoursRequiresDoctor(t *testing.T) {
	f := newAvailabilityFixture(t)

	_, err := f.svc.Create(context.Background(), &model.CreateWorkingHoursRequest{
		DoctorID:  uuid.New(),
		DayOfWeek: "Monday",
		StartTime: "09:00:00",
		EndTime:   "12:00:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestListForDoctorCaches(t *testing.T) {
	f := newAvailabilityFixture(t)

	_, err := f.svc.Create(context.Background(), &model.CreateWorkingHoursRequest{
		DoctorID:  f.doctor,
		DayOfWeek: "Monday",
		StartTime: "09:00:00",
		EndTime:   "12:00:00",
	})
	require.NoError(t, err)

	first, err := f.svc.ListForDoctor(context.Background(), f.doctor)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	second, err := f.svc.ListForDoctor(context.Background(), f.doctor)
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.Equal(t, 1, f.repo.listCalls, "second read must come from cache")
}

func TestDeleteWorkingHours(t *testing.T) {
	f := newAvailabilityFixture(t)

	hours, err := f.svc.Create(context.Background(), &model.CreateWorkingHoursRequest{
		DoctorID:  f.doctor,
		DayOfWeek: "Monday",
		StartTime: "09:00:00",
		EndTime:   "12:00:00",
	})
	require.NoError(t, err)

	// Prime the cache, then delete and make sure it is invalidated.
	cached, err := f.svc.ListForDoctor(context.Background(), f.doctor)
	require.NoError(t, err)
	require.Len(t, cached, 1)

	require.NoError(t, f.svc.Delete(context.Background(), hours.ID, f.doctor))

	after, err := f.svc.ListForDoctor(context.Background(), f.doctor)
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestDeleteWorkingHoursForeignDoctor(t *testing.T) {
	f := newAvailabilityFixture(t)

	hours, err := f.svc.Create(context.Background(), &model.CreateWorkingHoursRequest{
		DoctorID:  f.doctor,
		DayOfWeek: "Monday",
		StartTime: "09:00:00",
		EndTime:   "12:00:00",
	})
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), hours.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCreateInvalidatesCache(t *testing.T) {
	f := newAvailabilityFixture(t)

	empty, err := f.svc.ListForDoctor(context.Background(), f.doctor)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.svc.Create(context.Background(), &model.CreateWorkingHoursRequest{
		DoctorID:  f.doctor,
		DayOfWeek: "Tuesday",
		StartTime: "09:00:00",
		EndTime:   "12:00:00",
	})
	require.NoError(t, err)

	refreshed, err := f.svc.ListForDoctor(context.Background(), f.doctor)
	require.NoError(t, err)
	assert.Len(t, refreshed, 1)
}
