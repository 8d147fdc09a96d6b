package availability

import (
	"context"
	"errors"
	"strings"

	appointmentRepo "turnos/database/repository/appointment"
	professionalRepo "turnos/database/repository/professional"
	"turnos/metrics"
	"turnos/models"
	"turnos/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Service interface {
	GetAvailableSlots(ctx context.Context, professionalID, date string) ([]models.TimeSlot, error)
	IsTimeSlotAvailable(ctx context.Context, professionalID, date, startTime, endTime string) (bool, error)
	GetWorkingHours(ctx context.Context, professionalID, date string) (*models.WorkingHours, error)
	Invalidate(ctx context.Context, professionalID, date string)
}

// DefaultAvailabilityService reads schedules and appointments from the
// repositories. Cache is optional.
type DefaultAvailabilityService struct {
	Professionals professionalRepo.ProfessionalRepository
	Appointments  appointmentRepo.AppointmentRepository
	Cache         SlotCache
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
}

func NewDefaultAvailabilityService(
	professionals professionalRepo.ProfessionalRepository,
	appointments appointmentRepo.AppointmentRepository,
	cache SlotCache,
	logger *zap.Logger,
) *DefaultAvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAvailabilityService{
		Professionals: professionals,
		Appointments:  appointments,
		Cache:         cache,
		Logger:        logger,
	}
}

func (s *DefaultAvailabilityService) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultAvailabilityService) loadProfessional(ctx context.Context, professionalID string) (*models.Professional, error) {
	p, err := s.Professionals.GetByID(ctx, professionalID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NotFound("professional %s not found", professionalID)
	}
	if err != nil {
		return nil, utils.Internal("failed to load professional", err)
	}
	return p, nil
}

func requireID(professionalID string) error {
	if strings.TrimSpace(professionalID) == "" {
		return utils.InvalidInput("professionalId is required")
	}
	return nil
}

// GetAvailableSlots lists the day's candidate slots for a professional, each
// flagged with whether a pending or confirmed appointment overlaps it. A
// weekday without working hours yields an empty list.
func (s *DefaultAvailabilityService) GetAvailableSlots(ctx context.Context, professionalID, date string) ([]models.TimeSlot, error) {
	if err := requireID(professionalID); err != nil {
		return nil, err
	}
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	dateKey := day.Format(DateLayout)

	// The generation is read before the store so that a booking landing
	// between the read and the cache write leaves this list unreachable.
	cache := s.Cache
	var gen int64
	if cache != nil {
		gen, err = cache.Generation(ctx, professionalID, dateKey)
		if err != nil {
			s.Metrics.ObserveSlotCache("error")
			s.log().Warn("slot cache read failed", zap.String("professionalId", professionalID), zap.Error(err))
			cache = nil
		}
	}
	if cache != nil {
		cached, ok, err := cache.Get(ctx, professionalID, dateKey, gen)
		switch {
		case err != nil:
			s.Metrics.ObserveSlotCache("error")
			s.log().Warn("slot cache read failed", zap.String("professionalId", professionalID), zap.Error(err))
		case ok:
			s.Metrics.ObserveSlotCache("hit")
			return cached, nil
		default:
			s.Metrics.ObserveSlotCache("miss")
		}
	}

	pro, err := s.loadProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	hours, ok := FindDaySchedule(pro.WorkingHours, day)
	if !ok {
		return []models.TimeSlot{}, nil
	}
	sched, err := ParseSchedule(hours)
	if err != nil {
		return nil, utils.Internal("professional has malformed working hours", err)
	}

	appts, err := s.Appointments.ListHoldingByProfessionalAndDate(ctx, professionalID, dateKey)
	if err != nil {
		return nil, utils.Internal("failed to load appointments", err)
	}
	busy, err := BlockingWindows(appts)
	if err != nil {
		return nil, utils.Internal("failed to read appointments", err)
	}

	slots := Annotate(sched.Slots(pro.AppointmentDuration), busy)

	if cache != nil {
		if err := cache.Set(ctx, professionalID, dateKey, gen, slots); err != nil {
			s.log().Warn("slot cache write failed", zap.String("professionalId", professionalID), zap.Error(err))
		}
	}
	s.log().Debug("computed slots",
		zap.String("professionalId", professionalID),
		zap.String("date", dateKey),
		zap.Int("slots", len(slots)),
	)
	return slots, nil
}

// IsTimeSlotAvailable reports whether [startTime, endTime) on date overlaps
// no pending or confirmed appointment of the professional. It always reads
// the appointment store, never the slot cache.
//
// Contract: the answer is advisory, not atomic. Another booking may land
// between this check and the caller's insert. Callers that write must pair
// it with the storage-level uniqueness guarantee on (professionalId, date,
// startTime), or serialize writers per professional and date, and treat a
// uniqueness violation as a Conflict.
func (s *DefaultAvailabilityService) IsTimeSlotAvailable(ctx context.Context, professionalID, date, startTime, endTime string) (bool, error) {
	if err := requireID(professionalID); err != nil {
		return false, err
	}
	dateKey, err := NormalizeDate(date)
	if err != nil {
		return false, err
	}
	want, err := ParseWindow(startTime, endTime)
	if err != nil {
		return false, err
	}

	appts, err := s.Appointments.ListHoldingByProfessionalAndDate(ctx, professionalID, dateKey)
	if err != nil {
		return false, utils.Internal("failed to load appointments", err)
	}
	busy, err := BlockingWindows(appts)
	if err != nil {
		return false, utils.Internal("failed to read appointments", err)
	}
	return !IsOccupied(want, busy), nil
}

// GetWorkingHours returns the professional's schedule for date's weekday,
// or nil when they do not work that day.
func (s *DefaultAvailabilityService) GetWorkingHours(ctx context.Context, professionalID, date string) (*models.WorkingHours, error) {
	if err := requireID(professionalID); err != nil {
		return nil, err
	}
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	pro, err := s.loadProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	hours, ok := FindDaySchedule(pro.WorkingHours, day)
	if !ok {
		return nil, nil
	}
	return &hours, nil
}

// Invalidate retires the cached slot list of a professional's day. Lists
// computed from reads that started before the call are never served again.
func (s *DefaultAvailabilityService) Invalidate(ctx context.Context, professionalID, date string) {
	if s.Cache == nil {
		return
	}
	dateKey, err := NormalizeDate(date)
	if err != nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, professionalID, dateKey); err != nil {
		s.log().Warn("slot cache invalidation failed",
			zap.String("professionalId", professionalID),
			zap.String("date", dateKey),
			zap.Error(err),
		)
	}
}
