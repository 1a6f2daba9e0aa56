package change_status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

var now = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateStatus(ctx context.Context, a *domain.Appointment, expectedVersion int) error {
	args := m.Called(ctx, a, expectedVersion)
	if args.Error(0) == nil {
		a.Version = expectedVersion + 1
	}
	return args.Error(0)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) ObserveTransition(from, to, result string) {
	m.Called(from, to, result)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func stored(status domain.Status) *domain.Appointment {
	return &domain.Appointment{
		ID:         5,
		ScheduleID: 1,
		DoctorID:   10,
		PatientID:  100,
		StartTime:  "08:00",
		EndTime:    "08:30",
		Status:     status,
		Version:    3,
	}
}

func newTestUseCase(repo *MockAppointmentRepository, m *MockMetrics) *UseCase {
	return NewUseCase(repo, m, logger.Nop()).WithTimeProvider(fixedClock{t: now})
}

func TestUseCase_Execute_Confirm(t *testing.T) {
	repo := new(MockAppointmentRepository)
	m := new(MockMetrics)
	uc := newTestUseCase(repo, m)

	repo.On("GetByID", mock.Anything, int64(5)).Return(stored(domain.StatusPending), nil)
	repo.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(a *domain.Appointment) bool {
		return a.Status == domain.StatusConfirmed && a.InteractedAt.Equal(now)
	}), 3).Return(nil)
	m.On("ObserveTransition", "PENDING", "CONFIRMED", "applied").Return()

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 5, Status: domain.StatusConfirmed})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Status)
	assert.Equal(t, 4, resp.Version)
	assert.Equal(t, []domain.Action{domain.ActionComplete, domain.ActionCancel}, resp.NextActions)
	repo.AssertExpectations(t)
	m.AssertExpectations(t)
}

func TestUseCase_Execute_IllegalTransitionDoesNotWrite(t *testing.T) {
	repo := new(MockAppointmentRepository)
	m := new(MockMetrics)
	uc := newTestUseCase(repo, m)

	repo.On("GetByID", mock.Anything, int64(5)).Return(stored(domain.StatusPending), nil)
	m.On("ObserveTransition", "PENDING", "COMPLETED", "illegal").Return()

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 5, Status: domain.StatusCompleted})

	var ite *domain.IllegalTransitionError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, domain.StatusPending, ite.From)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUseCase_Execute_TerminalStatuses(t *testing.T) {
	for _, from := range []domain.Status{domain.StatusCompleted, domain.StatusCancelled} {
		for _, to := range domain.AllStatuses {
			repo := new(MockAppointmentRepository)
			m := new(MockMetrics)
			uc := newTestUseCase(repo, m)

			repo.On("GetByID", mock.Anything, int64(5)).Return(stored(from), nil)
			m.On("ObserveTransition", string(from), string(to), "illegal").Return()

			_, err := uc.Execute(context.Background(), &Request{AppointmentID: 5, Status: to})

			assert.ErrorIs(t, err, domain.ErrIllegalTransition, "%s -> %s", from, to)
			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		}
	}
}

func TestUseCase_Execute_CancelWithReason(t *testing.T) {
	repo := new(MockAppointmentRepository)
	m := new(MockMetrics)
	uc := newTestUseCase(repo, m)

	repo.On("GetByID", mock.Anything, int64(5)).Return(stored(domain.StatusConfirmed), nil)
	repo.On("UpdateStatus", mock.Anything, mock.Anything, 3).Return(nil)
	m.On("ObserveTransition", "CONFIRMED", "CANCELLED", "applied").Return()

	resp, err := uc.Execute(context.Background(), &Request{
		AppointmentID:      5,
		Status:             domain.StatusCancelled,
		CancellationReason: ptr.Ptr("  feeling better "),
	})

	require.NoError(t, err)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "feeling better", *resp.CancellationReason)
	require.NotNil(t, resp.CancelledAt)
	assert.Equal(t, now, *resp.CancelledAt)
	assert.Empty(t, resp.NextActions)
}

func TestUseCase_Execute_StaleVersion(t *testing.T) {
	repo := new(MockAppointmentRepository)
	m := new(MockMetrics)
	uc := newTestUseCase(repo, m)

	repo.On("GetByID", mock.Anything, int64(5)).Return(stored(domain.StatusPending), nil)
	repo.On("UpdateStatus", mock.Anything, mock.Anything, 3).Return(appointmentRepo.ErrVersionMismatch)
	m.On("ObserveTransition", "PENDING", "CANCELLED", "conflict").Return()

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 5, Status: domain.StatusCancelled})

	assert.ErrorIs(t, err, ErrConcurrentModification)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUseCase_Execute_InputErrors(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"no id", &Request{Status: domain.StatusConfirmed}, domain.ErrValidation},
		{"unknown status", &Request{AppointmentID: 5, Status: "NO_SHOW"}, domain.ErrValidation},
		{"reason without cancel", &Request{AppointmentID: 5, Status: domain.StatusConfirmed, CancellationReason: ptr.Ptr("x")}, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAppointmentRepository)
			uc := newTestUseCase(repo, new(MockMetrics))

			_, err := uc.Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.want)
			repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}

	t.Run("not found", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		uc := newTestUseCase(repo, new(MockMetrics))
		repo.On("GetByID", mock.Anything, int64(9)).Return(nil, appointmentRepo.ErrAppointmentNotFound)

		_, err := uc.Execute(context.Background(), &Request{AppointmentID: 9, Status: domain.StatusConfirmed})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUseCase_Execute_Access(t *testing.T) {
	tests := []struct {
		name    string
		actorID int64
		status  domain.Status
		allowed bool
	}{
		{"doctor confirms", 10, domain.StatusConfirmed, true},
		{"patient cancels", 100, domain.StatusCancelled, true},
		{"patient confirms", 100, domain.StatusConfirmed, false},
		{"stranger cancels", 55, domain.StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAppointmentRepository)
			m := new(MockMetrics)
			uc := newTestUseCase(repo, m)

			repo.On("GetByID", mock.Anything, int64(5)).Return(stored(domain.StatusPending), nil)
			repo.On("UpdateStatus", mock.Anything, mock.Anything, 3).Return(nil).Maybe()
			m.On("ObserveTransition", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()

			_, err := uc.Execute(context.Background(), &Request{AppointmentID: 5, ActorID: tt.actorID, Status: tt.status})

			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrForbidden)
			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
