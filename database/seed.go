package database

import (
	"context"
	"fmt"

	appointmentRepo "turnos/database/repository/appointment"
	branchRepo "turnos/database/repository/branch"
	professionalRepo "turnos/database/repository/professional"
	provinceRepo "turnos/database/repository/province"
	"turnos/models"

	"go.uber.org/zap"
)

// Repositories bundles the Mongo-backed stores the services run on.
type Repositories struct {
	Provinces     provinceRepo.ProvinceRepository
	Branches      branchRepo.BranchRepository
	Professionals professionalRepo.ProfessionalRepository
	Appointments  appointmentRepo.AppointmentRepository
}

// EnsureIndexes creates every collection index, the unique slot index included.
func (r Repositories) EnsureIndexes(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"provinces", r.Provinces.EnsureIndexes},
		{"branches", r.Branches.EnsureIndexes},
		{"professionals", r.Professionals.EnsureIndexes},
		{"appointments", r.Appointments.EnsureIndexes},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("indexes for %s: %w", s.name, err)
		}
	}
	return nil
}

type seedBranch struct {
	branch        models.Branch
	professionals []models.Professional
}

type seedProvince struct {
	name     string
	branches []seedBranch
}

func weekdayHours(start, end, breakStart, breakEnd string) []models.WorkingHours {
	hours := make([]models.WorkingHours, 0, 5)
	for day := 1; day <= 5; day++ {
		hours = append(hours, models.WorkingHours{
			DayOfWeek:  day,
			StartTime:  start,
			EndTime:    end,
			BreakStart: breakStart,
			BreakEnd:   breakEnd,
		})
	}
	return hours
}

func branchHours(open, close string) []models.BusinessHours {
	hours := make([]models.BusinessHours, 0, 7)
	for day := 0; day <= 6; day++ {
		h := models.BusinessHours{DayOfWeek: day, OpenTime: open, CloseTime: close}
		if day == 0 || day == 6 {
			h = models.BusinessHours{DayOfWeek: day, IsClosed: true}
		}
		hours = append(hours, h)
	}
	return hours
}

func seedData() []seedProvince {
	return []seedProvince{
		{
			name: "Buenos Aires",
			branches: []seedBranch{{
				branch: models.Branch{
					Name:          "Sucursal Centro",
					Address:       "Av. Corrientes 1234, CABA",
					Phone:         "011-4555-1234",
					Email:         "centro@turnos.example",
					BusinessHours: branchHours("08:00", "20:00"),
				},
				professionals: []models.Professional{
					{
						Name:         "Dra. María González",
						Email:        "maria.gonzalez@turnos.example",
						Phone:        "011-4555-2001",
						Specialty:    "Clínica Médica",
						WorkingHours: weekdayHours("09:00", "17:00", "12:00", "13:00"),
					},
					{
						Name:         "Dr. Carlos Rodríguez",
						Email:        "carlos.rodriguez@turnos.example",
						Phone:        "011-4555-2002",
						Specialty:    "Cardiología",
						WorkingHours: weekdayHours("08:00", "14:00", "", ""),
					},
				},
			}},
		},
		{
			name: "Córdoba",
			branches: []seedBranch{{
				branch: models.Branch{
					Name:          "Sucursal Nueva Córdoba",
					Address:       "Bv. Chacabuco 456, Córdoba",
					Phone:         "0351-455-7890",
					BusinessHours: branchHours("08:00", "18:00"),
				},
				professionals: []models.Professional{
					{
						Name:         "Dra. Laura Fernández",
						Email:        "laura.fernandez@turnos.example",
						Phone:        "0351-455-3001",
						Specialty:    "Dermatología",
						WorkingHours: weekdayHours("10:00", "18:00", "13:00", "14:00"),
					},
				},
			}},
		},
		{name: "Mendoza"},
		{name: "Santa Fe"},
	}
}

// Seed inserts a demo directory when no province exists yet. It returns
// false without writing anything if the database already has data.
func Seed(ctx context.Context, repos Repositories, logger *zap.Logger) (bool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	count, err := repos.Provinces.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: count provinces: %w", err)
	}
	if count > 0 {
		logger.Info("Seed skipped, provinces already present", zap.Int64("count", count))
		return false, nil
	}

	var branches, professionals int
	for _, sp := range seedData() {
		province := &models.Province{Name: sp.name, IsActive: true}
		if err := repos.Provinces.Create(ctx, province); err != nil {
			return false, fmt.Errorf("seed: province %s: %w", sp.name, err)
		}
		for _, sb := range sp.branches {
			branch := sb.branch
			branch.ProvinceID = province.ID
			branch.IsActive = true
			if err := repos.Branches.Create(ctx, &branch); err != nil {
				return false, fmt.Errorf("seed: branch %s: %w", branch.Name, err)
			}
			branches++
			for _, p := range sb.professionals {
				pro := p
				pro.BranchID = branch.ID
				pro.AppointmentDuration = models.DefaultAppointmentDuration
				pro.IsActive = true
				if err := repos.Professionals.Create(ctx, &pro); err != nil {
					return false, fmt.Errorf("seed: professional %s: %w", pro.Email, err)
				}
				professionals++
			}
		}
	}

	logger.Info("Seeded directory",
		zap.Int("branches", branches),
		zap.Int("professionals", professionals),
	)
	return true, nil
}
