package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	appointmentRepo "turnos/database/repository/appointment"
	branchRepo "turnos/database/repository/branch"
	professionalRepo "turnos/database/repository/professional"
	provinceRepo "turnos/database/repository/province"
	"turnos/metrics"
	"turnos/models"
	"turnos/services/availability"
	"turnos/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultBookingService is the production implementation. Locker is
// optional; without it the unique slot index is the only guard against
// concurrent bookings.
type DefaultBookingService struct {
	Appointments  appointmentRepo.AppointmentRepository
	Professionals professionalRepo.ProfessionalRepository
	Branches      branchRepo.BranchRepository
	Provinces     provinceRepo.ProvinceRepository
	Availability  availability.Service
	Locker        KeyLocker
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
	Now           func() time.Time
}

func (s *DefaultBookingService) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateAppointment books req after checking the professional, their
// working hours for that weekday and the live availability of the range.
// The availability check and the insert run under the professional's day
// lock, and the insert itself is backed by the unique slot index.
func (s *DefaultBookingService) CreateAppointment(ctx context.Context, req models.CreateAppointmentRequest) (*models.Appointment, error) {
	appt, err := s.createAppointment(ctx, req)
	if err != nil {
		s.Metrics.ObserveBooking(string(utils.KindOf(err)))
		return nil, err
	}
	s.Metrics.ObserveBooking("created")
	return appt, nil
}

func (s *DefaultBookingService) createAppointment(ctx context.Context, req models.CreateAppointmentRequest) (*models.Appointment, error) {
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientEmail = strings.ToLower(strings.TrimSpace(req.ClientEmail))
	req.ClientPhone = strings.TrimSpace(req.ClientPhone)
	req.Notes = strings.TrimSpace(req.Notes)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	day, err := availability.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	dateKey := day.Format(availability.DateLayout)
	want, err := availability.ParseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	pro, err := s.Professionals.GetByID(ctx, req.ProfessionalID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NotFound("professional %s not found", req.ProfessionalID)
	}
	if err != nil {
		return nil, utils.Internal("failed to load professional", err)
	}
	if !pro.IsActive {
		return nil, utils.InvalidInput("professional %s is not taking appointments", pro.ID)
	}
	if req.BranchID == "" {
		req.BranchID = pro.BranchID
	} else if req.BranchID != pro.BranchID {
		return nil, utils.InvalidInput("professional %s does not work at branch %s", pro.ID, req.BranchID)
	}

	hours, ok := availability.FindDaySchedule(pro.WorkingHours, day)
	if !ok {
		return nil, utils.InvalidInput("professional does not work on %s", dateKey)
	}
	sched, err := availability.ParseSchedule(hours)
	if err != nil {
		return nil, utils.Internal("professional has malformed working hours", err)
	}
	if !sched.Fits(want) {
		return nil, utils.InvalidInput("%s is outside working hours", want)
	}

	if s.Locker != nil {
		key := LockKey(pro.ID, dateKey)
		release, err := s.Locker.Acquire(ctx, key)
		if errors.Is(err, ErrLockBusy) {
			return nil, utils.Conflict("another booking for this professional is in progress, try again")
		}
		if err != nil {
			return nil, utils.Internal("failed to acquire booking lock", err)
		}
		defer func() {
			if err := release(); err != nil {
				s.log().Warn("booking lock release failed",
					zap.String("key", key),
					zap.Error(err),
				)
			}
		}()
	}

	free, err := s.Availability.IsTimeSlotAvailable(ctx, pro.ID, dateKey, want.Start.String(), want.End.String())
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, utils.Conflict("selected time is no longer available")
	}

	appt := &models.Appointment{
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		ClientPhone:    req.ClientPhone,
		ProfessionalID: pro.ID,
		BranchID:       req.BranchID,
		Date:           dateKey,
		StartTime:      want.Start.String(),
		EndTime:        want.End.String(),
		Status:         models.StatusConfirmed,
		Amount:         req.Amount,
		Notes:          req.Notes,
		CreatedAt:      s.now(),
	}
	if err := s.Appointments.Create(ctx, appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return nil, utils.Conflict("selected time is no longer available")
		}
		return nil, utils.Internal("failed to save appointment", err)
	}
	s.Availability.Invalidate(ctx, pro.ID, dateKey)

	s.log().Info("appointment created",
		zap.String("appointmentId", appt.ID),
		zap.String("professionalId", pro.ID),
		zap.String("date", dateKey),
		zap.String("slot", want.String()),
	)
	return appt, nil
}

// CancelAppointment releases the appointment's slot.
func (s *DefaultBookingService) CancelAppointment(ctx context.Context, appointmentID, reason string) error {
	if strings.TrimSpace(appointmentID) == "" {
		return utils.InvalidInput("appointmentId is required")
	}
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.NotFound("appointment %s not found", appointmentID)
	}
	if err != nil {
		return utils.Internal("failed to load appointment", err)
	}
	if appt.Status == models.StatusCancelled {
		return utils.InvalidInput("appointment is already cancelled")
	}

	err = s.Appointments.Cancel(ctx, appt.ID, strings.TrimSpace(reason), s.now())
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.InvalidInput("appointment is already cancelled")
	}
	if err != nil {
		return utils.Internal("failed to cancel appointment", err)
	}
	s.Availability.Invalidate(ctx, appt.ProfessionalID, appt.Date)

	s.log().Info("appointment cancelled",
		zap.String("appointmentId", appt.ID),
		zap.String("professionalId", appt.ProfessionalID),
		zap.String("date", appt.Date),
	)
	return nil
}

// GetAppointmentDetails returns the appointment with its professional and
// branch. A professional or branch that has since disappeared is left out.
func (s *DefaultBookingService) GetAppointmentDetails(ctx context.Context, appointmentID string) (*models.AppointmentDetails, error) {
	if strings.TrimSpace(appointmentID) == "" {
		return nil, utils.InvalidInput("appointmentId is required")
	}
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NotFound("appointment %s not found", appointmentID)
	}
	if err != nil {
		return nil, utils.Internal("failed to load appointment", err)
	}

	details := &models.AppointmentDetails{Appointment: *appt}

	pro, err := s.Professionals.GetByID(ctx, appt.ProfessionalID)
	switch {
	case err == nil:
		details.Professional = &models.ProfessionalSummary{
			ID:        pro.ID,
			Name:      pro.Name,
			Specialty: pro.Specialty,
			Email:     pro.Email,
			Phone:     pro.Phone,
		}
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, utils.Internal("failed to load professional", err)
	}

	branch, err := s.Branches.GetByID(ctx, appt.BranchID)
	switch {
	case err == nil:
		details.Branch = &models.BranchSummary{
			ID:      branch.ID,
			Name:    branch.Name,
			Address: branch.Address,
			Phone:   branch.Phone,
			Email:   branch.Email,
		}
		if s.Provinces != nil {
			if prov, err := s.Provinces.GetByID(ctx, branch.ProvinceID); err == nil {
				details.Branch.ProvinceName = prov.Name
			} else if !errors.Is(err, mongo.ErrNoDocuments) {
				return nil, utils.Internal("failed to load province", err)
			}
		}
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, utils.Internal("failed to load branch", err)
	}

	return details, nil
}
