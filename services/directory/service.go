package directory

import (
	"context"
	"errors"
	"strings"

	branchRepo "turnos/database/repository/branch"
	professionalRepo "turnos/database/repository/professional"
	provinceRepo "turnos/database/repository/province"
	"turnos/models"
	"turnos/services/availability"
	"turnos/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Service exposes the province > branch > professional hierarchy.
type Service interface {
	ListProvinces(ctx context.Context) ([]models.Province, error)
	GetProvince(ctx context.Context, id string) (*models.Province, error)
	CreateProvince(ctx context.Context, req models.CreateProvinceRequest) (*models.Province, error)

	ListBranchesByProvince(ctx context.Context, provinceID string) ([]models.Branch, error)
	GetBranch(ctx context.Context, id string) (*models.BranchView, error)
	CreateBranch(ctx context.Context, req models.CreateBranchRequest) (*models.Branch, error)

	ListProfessionalsByBranch(ctx context.Context, branchID string) ([]models.Professional, error)
	GetProfessional(ctx context.Context, id string) (*models.Professional, error)
	CreateProfessional(ctx context.Context, req models.CreateProfessionalRequest) (*models.Professional, error)
}

type DefaultDirectoryService struct {
	Provinces     provinceRepo.ProvinceRepository
	Branches      branchRepo.BranchRepository
	Professionals professionalRepo.ProfessionalRepository
	Logger        *zap.Logger
}

func (s *DefaultDirectoryService) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// lookupErr turns a repository read error into NotFound or Internal.
func lookupErr(err error, what, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.NotFound("%s %s not found", what, id)
	}
	return utils.Internal("failed to load "+what, err)
}

func (s *DefaultDirectoryService) ListProvinces(ctx context.Context) ([]models.Province, error) {
	provinces, err := s.Provinces.ListActive(ctx)
	if err != nil {
		return nil, utils.Internal("failed to list provinces", err)
	}
	return provinces, nil
}

func (s *DefaultDirectoryService) GetProvince(ctx context.Context, id string) (*models.Province, error) {
	p, err := s.Provinces.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "province", id)
	}
	return p, nil
}

func (s *DefaultDirectoryService) CreateProvince(ctx context.Context, req models.CreateProvinceRequest) (*models.Province, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	p := &models.Province{Name: req.Name, IsActive: true}
	if err := s.Provinces.Create(ctx, p); err != nil {
		if errors.Is(err, provinceRepo.ErrNameTaken) {
			return nil, utils.Conflict("province %q already exists", req.Name)
		}
		return nil, utils.Internal("failed to create province", err)
	}
	s.log().Info("province created", zap.String("provinceId", p.ID), zap.String("name", p.Name))
	return p, nil
}

func (s *DefaultDirectoryService) ListBranchesByProvince(ctx context.Context, provinceID string) ([]models.Branch, error) {
	if _, err := s.GetProvince(ctx, provinceID); err != nil {
		return nil, err
	}
	branches, err := s.Branches.ListActiveByProvince(ctx, provinceID)
	if err != nil {
		return nil, utils.Internal("failed to list branches", err)
	}
	return branches, nil
}

func (s *DefaultDirectoryService) GetBranch(ctx context.Context, id string) (*models.BranchView, error) {
	b, err := s.Branches.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "branch", id)
	}
	view := &models.BranchView{Branch: *b}
	prov, err := s.Provinces.GetByID(ctx, b.ProvinceID)
	switch {
	case err == nil:
		view.ProvinceName = prov.Name
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, utils.Internal("failed to load province", err)
	}
	return view, nil
}

func (s *DefaultDirectoryService) CreateBranch(ctx context.Context, req models.CreateBranchRequest) (*models.Branch, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := validateBusinessHours(req.BusinessHours); err != nil {
		return nil, err
	}
	if _, err := s.GetProvince(ctx, req.ProvinceID); err != nil {
		return nil, err
	}

	b := &models.Branch{
		Name:          req.Name,
		ProvinceID:    req.ProvinceID,
		Address:       req.Address,
		Phone:         strings.TrimSpace(req.Phone),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		BusinessHours: req.BusinessHours,
		IsActive:      true,
	}
	if err := s.Branches.Create(ctx, b); err != nil {
		return nil, utils.Internal("failed to create branch", err)
	}
	s.log().Info("branch created", zap.String("branchId", b.ID), zap.String("provinceId", b.ProvinceID))
	return b, nil
}

func (s *DefaultDirectoryService) ListProfessionalsByBranch(ctx context.Context, branchID string) ([]models.Professional, error) {
	if _, err := s.Branches.GetByID(ctx, branchID); err != nil {
		return nil, lookupErr(err, "branch", branchID)
	}
	pros, err := s.Professionals.ListActiveByBranch(ctx, branchID)
	if err != nil {
		return nil, utils.Internal("failed to list professionals", err)
	}
	return pros, nil
}

func (s *DefaultDirectoryService) GetProfessional(ctx context.Context, id string) (*models.Professional, error) {
	p, err := s.Professionals.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "professional", id)
	}
	return p, nil
}

func (s *DefaultDirectoryService) CreateProfessional(ctx context.Context, req models.CreateProfessionalRequest) (*models.Professional, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := ValidateWorkingHours(req.WorkingHours); err != nil {
		return nil, err
	}
	if _, err := s.Branches.GetByID(ctx, req.BranchID); err != nil {
		return nil, lookupErr(err, "branch", req.BranchID)
	}

	duration := req.AppointmentDuration
	if duration == 0 {
		duration = models.DefaultAppointmentDuration
	}
	p := &models.Professional{
		Name:                req.Name,
		Email:               req.Email,
		Phone:               strings.TrimSpace(req.Phone),
		Specialty:           strings.TrimSpace(req.Specialty),
		BranchID:            req.BranchID,
		WorkingHours:        req.WorkingHours,
		AppointmentDuration: duration,
		IsActive:            true,
	}
	if err := s.Professionals.Create(ctx, p); err != nil {
		if errors.Is(err, professionalRepo.ErrEmailTaken) {
			return nil, utils.Conflict("a professional with email %s already exists", req.Email)
		}
		return nil, utils.Internal("failed to create professional", err)
	}
	s.log().Info("professional created", zap.String("professionalId", p.ID), zap.String("branchId", p.BranchID))
	return p, nil
}

// ValidateWorkingHours checks every entry parses into a usable day: a
// weekday in 0..6, start before end, and a break given with both bounds
// inside the day.
func ValidateWorkingHours(hours []models.WorkingHours) error {
	for _, h := range hours {
		if h.DayOfWeek < 0 || h.DayOfWeek > 6 {
			return utils.InvalidInput("dayOfWeek %d is out of range", h.DayOfWeek)
		}
		day, err := availability.ParseWindow(h.StartTime, h.EndTime)
		if err != nil {
			return err
		}
		if (h.BreakStart == "") != (h.BreakEnd == "") {
			return utils.InvalidInput("break on day %d needs both breakStart and breakEnd", h.DayOfWeek)
		}
		if h.HasBreak() {
			brk, err := availability.ParseWindow(h.BreakStart, h.BreakEnd)
			if err != nil {
				return err
			}
			if !day.Contains(brk) {
				return utils.InvalidInput("break %s on day %d falls outside %s", brk, h.DayOfWeek, day)
			}
		}
	}
	return nil
}

func validateBusinessHours(hours []models.BusinessHours) error {
	for _, h := range hours {
		if h.DayOfWeek < 0 || h.DayOfWeek > 6 {
			return utils.InvalidInput("dayOfWeek %d is out of range", h.DayOfWeek)
		}
		if h.IsClosed {
			continue
		}
		if _, err := availability.ParseWindow(h.OpenTime, h.CloseTime); err != nil {
			return err
		}
	}
	return nil
}
