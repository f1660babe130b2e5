package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/mediplan/booking-api/internal/model"
	"github.com/mediplan/booking-api/internal/repository"
	apperrors "github.com/mediplan/booking-api/pkg/errors"
)

// Service reads and maintains doctors' recurring weekly working hours.
// Reads go through a short-TTL cache; working hours change rarely and the
// cache is invalidated on writes.
type Service struct {
	repo  repository.AvailabilityRepository
	users repository.UserRepository
	cache *cache.Cache
}

func NewService(repo repository.AvailabilityRepository, users repository.UserRepository, ttl time.Duration) *Service {
	return &Service{
		repo:  repo,
		users: users,
		cache: cache.New(ttl, 2*ttl),
	}
}

// ListForDoctor returns the doctor's working hours ordered by weekday then
// start time.
func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.WorkingHours, error) {
	key := doctorID.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.WorkingHours), nil
	}

	if err := s.requireDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	hours, err := s.repo.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Unavailable("failed to list working hours", err)
	}
	if hours == nil {
		hours = []*model.WorkingHours{}
	}

	s.cache.SetDefault(key, hours)
	return hours, nil
}

// Create adds one working-hours range for a doctor.
func (s *Service) Create(ctx context.Context, req *model.CreateWorkingHoursRequest) (*model.WorkingHours, error) {
	day, err := model.ParseWeekday(req.DayOfWeek)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid day of week", err)
	}

	start, err := time.Parse(model.ClockLayout, req.StartTime)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid start time format", err)
	}
	end, err := time.Parse(model.ClockLayout, req.EndTime)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid end time format", err)
	}
	if !start.Before(end) {
		return nil, apperrors.InvalidInput("start time must be before end time", nil)
	}

	if err := s.requireDoctor(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	hours := &model.WorkingHours{
		DoctorID: req.DoctorID,
		Day:      day,
		Start:    req.StartTime,
		End:      req.EndTime,
	}
	if err := s.repo.Create(ctx, hours); err != nil {
		return nil, apperrors.Unavailable("failed to create working hours", err)
	}

	s.cache.Delete(req.DoctorID.String())
	return hours, nil
}

// Delete removes one of the doctor's own working-hours ranges.
func (s *Service) Delete(ctx context.Context, id, doctorID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, doctorID); err != nil {
		return err
	}
	s.cache.Delete(doctorID.String())
	return nil
}

func (s *Service) requireDoctor(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != model.RoleDoctor {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}
