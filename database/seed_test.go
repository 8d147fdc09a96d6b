package database

import (
	"context"
	"errors"
	"testing"

	"turnos/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memProvinces struct{ items []models.Province }

func (m *memProvinces) Create(ctx context.Context, p *models.Province) error {
	p.ID = uuid.New().String()
	m.items = append(m.items, *p)
	return nil
}
func (m *memProvinces) GetByID(ctx context.Context, id string) (*models.Province, error) {
	return nil, errors.New("unused")
}
func (m *memProvinces) ListActive(ctx context.Context) ([]models.Province, error) { return m.items, nil }
func (m *memProvinces) Count(ctx context.Context) (int64, error)                  { return int64(len(m.items)), nil }
func (m *memProvinces) EnsureIndexes(ctx context.Context) error                   { return nil }

type memBranches struct{ items []models.Branch }

func (m *memBranches) Create(ctx context.Context, b *models.Branch) error {
	b.ID = uuid.New().String()
	m.items = append(m.items, *b)
	return nil
}
func (m *memBranches) GetByID(ctx context.Context, id string) (*models.Branch, error) {
	return nil, errors.New("unused")
}
func (m *memBranches) ListActiveByProvince(ctx context.Context, provinceID string) ([]models.Branch, error) {
	return nil, nil
}
func (m *memBranches) EnsureIndexes(ctx context.Context) error { return nil }

type memProfessionals struct{ items []models.Professional }

func (m *memProfessionals) Create(ctx context.Context, p *models.Professional) error {
	p.ID = uuid.New().String()
	m.items = append(m.items, *p)
	return nil
}
func (m *memProfessionals) GetByID(ctx context.Context, id string) (*models.Professional, error) {
	return nil, errors.New("unused")
}
func (m *memProfessionals) ListActiveByBranch(ctx context.Context, branchID string) ([]models.Professional, error) {
	return nil, nil
}
func (m *memProfessionals) EnsureIndexes(ctx context.Context) error { return nil }

func TestSeedPopulatesEmptyDirectory(t *testing.T) {
	provinces, branches, pros := &memProvinces{}, &memBranches{}, &memProfessionals{}
	repos := Repositories{Provinces: provinces, Branches: branches, Professionals: pros}

	seeded, err := Seed(context.Background(), repos, nil)
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.Len(t, provinces.items, 4)
	assert.Len(t, branches.items, 2)
	require.Len(t, pros.items, 3)

	branchIDs := map[string]bool{}
	for _, b := range branches.items {
		assert.NotEmpty(t, b.ProvinceID)
		branchIDs[b.ID] = true
	}
	for _, p := range pros.items {
		assert.True(t, branchIDs[p.BranchID], p.Email)
		assert.True(t, p.IsActive)
		assert.Equal(t, models.DefaultAppointmentDuration, p.AppointmentDuration)
		assert.Len(t, p.WorkingHours, 5)
	}
}

func TestSeedSkipsWhenProvincesExist(t *testing.T) {
	provinces := &memProvinces{items: []models.Province{{ID: "p1", Name: "Salta"}}}
	branches := &memBranches{}
	repos := Repositories{Provinces: provinces, Branches: branches, Professionals: &memProfessionals{}}

	seeded, err := Seed(context.Background(), repos, nil)
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Len(t, provinces.items, 1)
	assert.Empty(t, branches.items)
}
