package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	appointmentRepo "turnos/database/repository/appointment"
	"turnos/metrics"
	"turnos/models"
	"turnos/services/availability"
	"turnos/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// memAppointments mimics the unique slot index of the real collection.
type memAppointments struct {
	mu        sync.Mutex
	byID      map[string]*models.Appointment
	createErr error
}

func newMemAppointments() *memAppointments {
	return &memAppointments{byID: map[string]*models.Appointment{}}
}

func (m *memAppointments) Create(ctx context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	a.HoldsSlot = a.Status.HoldsSlot()
	for _, other := range m.byID {
		if other.HoldsSlot && a.HoldsSlot && other.ProfessionalID == a.ProfessionalID &&
			other.Date == a.Date && other.StartTime == a.StartTime {
			return fmt.Errorf("failed to insert appointment: %w", appointmentRepo.ErrSlotTaken)
		}
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *memAppointments) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("failed to find appointment %s: %w", id, mongo.ErrNoDocuments)
	}
	cp := *a
	return &cp, nil
}

func (m *memAppointments) ListHoldingByProfessionalAndDate(ctx context.Context, professionalID, date string) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range m.byID {
		if a.ProfessionalID == professionalID && a.Date == date && a.Status.HoldsSlot() {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memAppointments) Cancel(ctx context.Context, id, reason string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok || a.Status == models.StatusCancelled {
		return mongo.ErrNoDocuments
	}
	a.Status = models.StatusCancelled
	a.HoldsSlot = false
	a.CancelReason = reason
	a.CancelledAt = &at
	return nil
}

func (m *memAppointments) EnsureIndexes(ctx context.Context) error { return nil }

type memProfessionals struct{ pros map[string]*models.Professional }

func (m *memProfessionals) Create(ctx context.Context, p *models.Professional) error { return nil }

func (m *memProfessionals) GetByID(ctx context.Context, id string) (*models.Professional, error) {
	p, ok := m.pros[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return p, nil
}

func (m *memProfessionals) ListActiveByBranch(ctx context.Context, branchID string) ([]models.Professional, error) {
	return nil, nil
}

func (m *memProfessionals) EnsureIndexes(ctx context.Context) error { return nil }

type memBranches struct{ branches map[string]*models.Branch }

func (m *memBranches) Create(ctx context.Context, b *models.Branch) error { return nil }

func (m *memBranches) GetByID(ctx context.Context, id string) (*models.Branch, error) {
	b, ok := m.branches[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return b, nil
}

func (m *memBranches) ListActiveByProvince(ctx context.Context, provinceID string) ([]models.Branch, error) {
	return nil, nil
}

func (m *memBranches) EnsureIndexes(ctx context.Context) error { return nil }

type memProvinces struct{ provinces map[string]*models.Province }

func (m *memProvinces) Create(ctx context.Context, p *models.Province) error { return nil }

func (m *memProvinces) GetByID(ctx context.Context, id string) (*models.Province, error) {
	p, ok := m.provinces[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return p, nil
}

func (m *memProvinces) ListActive(ctx context.Context) ([]models.Province, error) { return nil, nil }

func (m *memProvinces) Count(ctx context.Context) (int64, error) { return int64(len(m.provinces)), nil }

func (m *memProvinces) EnsureIndexes(ctx context.Context) error { return nil }

// alwaysFree reports every range as free, as a stale read would.
type alwaysFree struct{ invalidated int }

func (a *alwaysFree) GetAvailableSlots(ctx context.Context, professionalID, date string) ([]models.TimeSlot, error) {
	return nil, nil
}

func (a *alwaysFree) IsTimeSlotAvailable(ctx context.Context, professionalID, date, startTime, endTime string) (bool, error) {
	return true, nil
}

func (a *alwaysFree) GetWorkingHours(ctx context.Context, professionalID, date string) (*models.WorkingHours, error) {
	return nil, nil
}

func (a *alwaysFree) Invalidate(ctx context.Context, professionalID, date string) { a.invalidated++ }

type fixture struct {
	svc   *DefaultBookingService
	appts *memAppointments
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	appts := newMemAppointments()
	pros := &memProfessionals{pros: map[string]*models.Professional{
		"pro-1": {
			ID:                  "pro-1",
			Name:                "Dra. Laura Paz",
			Specialty:           "Odontología",
			BranchID:            "br-1",
			AppointmentDuration: 30,
			IsActive:            true,
			WorkingHours: []models.WorkingHours{
				{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", BreakStart: "13:00", BreakEnd: "14:00"},
			},
		},
		"pro-off": {ID: "pro-off", BranchID: "br-1", IsActive: false},
	}}
	branches := &memBranches{branches: map[string]*models.Branch{
		"br-1": {ID: "br-1", Name: "Centro", Address: "San Martín 100", ProvinceID: "prov-1"},
	}}
	provinces := &memProvinces{provinces: map[string]*models.Province{
		"prov-1": {ID: "prov-1", Name: "Mendoza"},
	}}

	return fixture{
		svc: &DefaultBookingService{
			Appointments:  appts,
			Professionals: pros,
			Branches:      branches,
			Provinces:     provinces,
			Availability:  availability.NewDefaultAvailabilityService(pros, appts, nil, nil),
		},
		appts: appts,
	}
}

func validRequest() models.CreateAppointmentRequest {
	return models.CreateAppointmentRequest{
		ClientName:     "Juan Pérez",
		ClientEmail:    "Juan@Example.com",
		ClientPhone:    "2615551234",
		ProfessionalID: "pro-1",
		Date:           "2024-06-03",
		StartTime:      "9:00",
		EndTime:        "09:30",
	}
}

func TestCreateAppointment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	appt, err := f.svc.CreateAppointment(ctx, validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, models.StatusConfirmed, appt.Status)
	assert.Equal(t, "br-1", appt.BranchID)
	assert.Equal(t, "09:00", appt.StartTime)
	assert.Equal(t, "juan@example.com", appt.ClientEmail)

	_, err = f.svc.CreateAppointment(ctx, validRequest())
	assert.True(t, utils.IsKind(err, utils.KindConflict), "same slot twice")

	overlap := validRequest()
	overlap.StartTime, overlap.EndTime = "09:15", "09:45"
	_, err = f.svc.CreateAppointment(ctx, overlap)
	assert.True(t, utils.IsKind(err, utils.KindConflict), "overlapping range")

	next := validRequest()
	next.StartTime, next.EndTime = "09:30", "10:00"
	_, err = f.svc.CreateAppointment(ctx, next)
	assert.NoError(t, err, "touching range is free")
}

func TestCreateAppointmentRejects(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(r *models.CreateAppointmentRequest)
		kind   utils.ErrorKind
	}{
		{"missing name", func(r *models.CreateAppointmentRequest) { r.ClientName = " " }, utils.KindInvalidInput},
		{"bad email", func(r *models.CreateAppointmentRequest) { r.ClientEmail = "juan" }, utils.KindInvalidInput},
		{"bad time", func(r *models.CreateAppointmentRequest) { r.StartTime = "9.00" }, utils.KindInvalidInput},
		{"inverted range", func(r *models.CreateAppointmentRequest) { r.StartTime, r.EndTime = "10:00", "09:30" }, utils.KindInvalidInput},
		{"bad date", func(r *models.CreateAppointmentRequest) { r.Date = "03/06/2024" }, utils.KindInvalidInput},
		{"unknown professional", func(r *models.CreateAppointmentRequest) { r.ProfessionalID = "ghost" }, utils.KindNotFound},
		{"inactive professional", func(r *models.CreateAppointmentRequest) { r.ProfessionalID = "pro-off" }, utils.KindInvalidInput},
		{"other branch", func(r *models.CreateAppointmentRequest) { r.BranchID = "br-2" }, utils.KindInvalidInput},
		{"day off", func(r *models.CreateAppointmentRequest) { r.Date = "2024-06-02" }, utils.KindInvalidInput},
		{"before opening", func(r *models.CreateAppointmentRequest) { r.StartTime, r.EndTime = "08:30", "09:00" }, utils.KindInvalidInput},
		{"during break", func(r *models.CreateAppointmentRequest) { r.StartTime, r.EndTime = "13:00", "13:30" }, utils.KindInvalidInput},
		{"negative amount", func(r *models.CreateAppointmentRequest) { r.Amount = -1 }, utils.KindInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			req := validRequest()
			tc.mutate(&req)
			_, err := f.svc.CreateAppointment(ctx, req)
			require.Error(t, err)
			assert.Equal(t, tc.kind, utils.KindOf(err), err.Error())
		})
	}
}

func TestCreateAppointmentUniqueIndexIsTheBackstop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	stale := &alwaysFree{}
	f.svc.Availability = stale

	_, err := f.svc.CreateAppointment(ctx, validRequest())
	require.NoError(t, err)

	_, err = f.svc.CreateAppointment(ctx, validRequest())
	assert.True(t, utils.IsKind(err, utils.KindConflict))
	assert.Equal(t, 1, stale.invalidated)
}

func TestCreateAppointmentStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.appts.createErr = errors.New("write concern error")

	_, err := f.svc.CreateAppointment(context.Background(), validRequest())
	assert.True(t, utils.IsKind(err, utils.KindInternal))
}

func TestConcurrentBookingsOfOneSlot(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newFixture(t)
	f.svc.Locker = NewRedisLocker(client, 5*time.Second, 2*time.Second)

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateAppointment(context.Background(), validRequest())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case utils.IsKind(err, utils.KindConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, writers-1, conflicts)
}

func TestCancelAppointment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	appt, err := f.svc.CreateAppointment(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelAppointment(ctx, appt.ID, "  client called  "))
	stored, err := f.appts.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, stored.Status)
	assert.Equal(t, "client called", stored.CancelReason)
	assert.NotNil(t, stored.CancelledAt)

	err = f.svc.CancelAppointment(ctx, appt.ID, "")
	assert.True(t, utils.IsKind(err, utils.KindInvalidInput))

	err = f.svc.CancelAppointment(ctx, "missing", "")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	// The released slot can be booked again.
	free, err := f.svc.Availability.IsTimeSlotAvailable(ctx, "pro-1", "2024-06-03", "09:00", "09:30")
	require.NoError(t, err)
	assert.True(t, free)
	_, err = f.svc.CreateAppointment(ctx, validRequest())
	assert.NoError(t, err)
}

func TestGetAppointmentDetails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	appt, err := f.svc.CreateAppointment(ctx, validRequest())
	require.NoError(t, err)

	details, err := f.svc.GetAppointmentDetails(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, details.Appointment.ID)
	require.NotNil(t, details.Professional)
	assert.Equal(t, "Dra. Laura Paz", details.Professional.Name)
	require.NotNil(t, details.Branch)
	assert.Equal(t, "Centro", details.Branch.Name)
	assert.Equal(t, "Mendoza", details.Branch.ProvinceName)

	_, err = f.svc.GetAppointmentDetails(ctx, "missing")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestCreateAppointmentRecordsOutcome(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.Metrics = metrics.New(prometheus.NewRegistry())

	_, err := f.svc.CreateAppointment(ctx, validRequest())
	require.NoError(t, err)
	_, err = f.svc.CreateAppointment(ctx, validRequest())
	require.Error(t, err)
	bad := validRequest()
	bad.ProfessionalID = "ghost"
	_, err = f.svc.CreateAppointment(ctx, bad)
	require.Error(t, err)

	w := httptest.NewRecorder()
	f.svc.Metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `turnos_booking_attempts_total{outcome="created"} 1`)
	assert.Contains(t, body, `turnos_booking_attempts_total{outcome="conflict"} 1`)
	assert.Contains(t, body, `turnos_booking_attempts_total{outcome="not_found"} 1`)
}

type leakyLocker struct{ releaseErr error }

func (l leakyLocker) Acquire(ctx context.Context, key string) (func() error, error) {
	return func() error { return l.releaseErr }, nil
}

func TestCreateAppointmentLogsFailedLockRelease(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := newFixture(t)
	f.svc.Logger = zap.New(core)
	f.svc.Locker = leakyLocker{releaseErr: ErrLockLost}

	_, err := f.svc.CreateAppointment(context.Background(), validRequest())
	require.NoError(t, err)

	entries := logs.FilterMessage("booking lock release failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "pro-1:2024-06-03", entries[0].ContextMap()["key"])
}
