package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// 2025-03-03 is a Monday
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) ListActiveBySlotDate(ctx context.Context, scheduleID int64, date time.Time) ([]*domain.Appointment, error) {
	args := m.Called(ctx, scheduleID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Appointment), args.Error(1)
}

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) GetByID(ctx context.Context, id int64) (*domain.WorkingSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkingSchedule), args.Error(1)
}

func (m *MockScheduleRepository) GetActiveByDoctor(ctx context.Context, doctorID int64) (*domain.WorkingSchedule, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkingSchedule), args.Error(1)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func testSchedule() *domain.WorkingSchedule {
	return &domain.WorkingSchedule{
		ID:                  1,
		DoctorID:            10,
		WorkingDays:         domain.NewWeekdaySet(time.Monday, time.Wednesday, time.Friday),
		StartTime:           types.MustFromString("08:00"),
		EndTime:             types.MustFromString("09:00"),
		SlotDurationMinutes: 30,
		ConsultationFee:     150000,
	}
}

func newTestUseCase(appointments *MockAppointmentRepository, schedules *MockScheduleRepository, now time.Time) *UseCase {
	return NewUseCase(appointments, schedules, time.UTC, logger.Nop()).WithTimeProvider(fixedClock{t: now})
}

func TestUseCase_Execute_PendingBlocksSlot(t *testing.T) {
	appointments := new(MockAppointmentRepository)
	schedules := new(MockScheduleRepository)
	uc := newTestUseCase(appointments, schedules, monday.AddDate(0, 0, -2))

	schedules.On("GetByID", mock.Anything, int64(1)).Return(testSchedule(), nil)
	appointments.On("ListActiveBySlotDate", mock.Anything, int64(1), monday).
		Return([]*domain.Appointment{{StartTime: "08:00", Status: domain.StatusPending}}, nil)

	resp, err := uc.Execute(context.Background(), &Request{ScheduleID: 1, Date: monday})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, Slot{StartTime: "08:00", EndTime: "08:30", Available: false}, resp.Slots[0])
	assert.Equal(t, Slot{StartTime: "08:30", EndTime: "09:00", Available: true}, resp.Slots[1])
	assert.Equal(t, 1, resp.AvailableCount)
	assert.Equal(t, int64(150000), resp.ConsultationFee)
}

func TestUseCase_Execute_ByDoctor(t *testing.T) {
	appointments := new(MockAppointmentRepository)
	schedules := new(MockScheduleRepository)
	uc := newTestUseCase(appointments, schedules, monday.AddDate(0, 0, -2))

	schedules.On("GetActiveByDoctor", mock.Anything, int64(10)).Return(testSchedule(), nil)
	appointments.On("ListActiveBySlotDate", mock.Anything, int64(1), monday).Return([]*domain.Appointment{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 10, Date: monday})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ScheduleID)
	assert.Equal(t, 2, resp.AvailableCount)
	schedules.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUseCase_Execute_NonWorkingDay(t *testing.T) {
	appointments := new(MockAppointmentRepository)
	schedules := new(MockScheduleRepository)
	uc := newTestUseCase(appointments, schedules, monday.AddDate(0, 0, -2))

	schedules.On("GetByID", mock.Anything, int64(1)).Return(testSchedule(), nil)

	resp, err := uc.Execute(context.Background(), &Request{ScheduleID: 1, Date: monday.AddDate(0, 0, 1)})

	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
	appointments.AssertNotCalled(t, "ListActiveBySlotDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestUseCase_Execute_StartedSlotsUnavailable(t *testing.T) {
	appointments := new(MockAppointmentRepository)
	schedules := new(MockScheduleRepository)
	uc := newTestUseCase(appointments, schedules, monday.Add(8*time.Hour+5*time.Minute))

	schedules.On("GetByID", mock.Anything, int64(1)).Return(testSchedule(), nil)
	appointments.On("ListActiveBySlotDate", mock.Anything, int64(1), monday).Return([]*domain.Appointment{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{ScheduleID: 1, Date: monday})

	require.NoError(t, err)
	assert.False(t, resp.Slots[0].Available)
	assert.True(t, resp.Slots[1].Available)
	assert.Equal(t, 1, resp.AvailableCount)
}

func TestUseCase_Execute_StartedAndBookedCountedOnce(t *testing.T) {
	appointments := new(MockAppointmentRepository)
	schedules := new(MockScheduleRepository)
	uc := newTestUseCase(appointments, schedules, monday.Add(8*time.Hour+5*time.Minute))

	schedules.On("GetByID", mock.Anything, int64(1)).Return(testSchedule(), nil)
	appointments.On("ListActiveBySlotDate", mock.Anything, int64(1), monday).
		Return([]*domain.Appointment{{StartTime: "08:00", Status: domain.StatusConfirmed}}, nil)

	resp, err := uc.Execute(context.Background(), &Request{ScheduleID: 1, Date: monday})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.False(t, resp.Slots[0].Available)
	assert.Equal(t, 1, resp.AvailableCount)
}

func TestUseCase_Execute_Errors(t *testing.T) {
	t.Run("no identifier", func(t *testing.T) {
		uc := newTestUseCase(new(MockAppointmentRepository), new(MockScheduleRepository), monday)
		_, err := uc.Execute(context.Background(), &Request{Date: monday})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("schedule not found", func(t *testing.T) {
		schedules := new(MockScheduleRepository)
		uc := newTestUseCase(new(MockAppointmentRepository), schedules, monday)
		schedules.On("GetActiveByDoctor", mock.Anything, int64(5)).Return(nil, scheduleRepo.ErrScheduleNotFound)

		_, err := uc.Execute(context.Background(), &Request{DoctorID: 5, Date: monday})
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})

	t.Run("invalid window", func(t *testing.T) {
		schedules := new(MockScheduleRepository)
		uc := newTestUseCase(new(MockAppointmentRepository), schedules, monday)
		broken := testSchedule()
		broken.EndTime = "07:00"
		schedules.On("GetByID", mock.Anything, int64(1)).Return(broken, nil)

		_, err := uc.Execute(context.Background(), &Request{ScheduleID: 1, Date: monday})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("appointment store down", func(t *testing.T) {
		appointments := new(MockAppointmentRepository)
		schedules := new(MockScheduleRepository)
		uc := newTestUseCase(appointments, schedules, monday.AddDate(0, 0, -1))
		schedules.On("GetByID", mock.Anything, int64(1)).Return(testSchedule(), nil)
		appointments.On("ListActiveBySlotDate", mock.Anything, int64(1), monday).Return(nil, errors.New("timeout"))

		_, err := uc.Execute(context.Background(), &Request{ScheduleID: 1, Date: monday})
		assert.ErrorIs(t, err, domain.ErrDependency)
	})
}
