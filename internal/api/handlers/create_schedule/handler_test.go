package create_schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules/models"
)

type MockScheduleService struct {
	mock.Mock
}

func (m *MockScheduleService) Create(ctx context.Context, req *models.CreateScheduleRequest) (*models.ScheduleResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScheduleResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const validBody = `{"workingDays":["MON","WED","FRI"],"startTime":"08:00","endTime":"12:00","slotDuration":30,"consultationFee":150000}`

func newRequest(body string, userID int64) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/schedules", strings.NewReader(body))
	if userID > 0 {
		r = r.WithContext(middleware.WithUserID(r.Context(), userID))
	}
	return r
}

func TestHandle_Created(t *testing.T) {
	svc := new(MockScheduleService)
	h := NewHandler(svc, nopLogger{})

	svc.On("Create", mock.Anything, mock.MatchedBy(func(req *models.CreateScheduleRequest) bool {
		return req.UserID == 10 &&
			req.WorkingDays == domain.NewWeekdaySet(time.Monday, time.Wednesday, time.Friday) &&
			req.StartTime == "08:00" &&
			req.SlotDurationMinutes == 30 &&
			req.ConsultationFee == 150000
	})).Return(&models.ScheduleResponse{
		ID:                  1,
		DoctorID:            10,
		WorkingDays:         []string{"MON", "WED", "FRI"},
		StartTime:           "08:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 30,
		ConsultationFee:     150000,
		SlotsPerDay:         8,
	}, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(validBody, 10))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.ScheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, 8, resp.SlotsPerDay)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		userID   int64
		svcErr   error
		wantCode int
	}{
		{name: "no user", body: validBody, wantCode: http.StatusUnauthorized},
		{name: "malformed json", body: `{"workingDays":`, userID: 10, wantCode: http.StatusBadRequest},
		{name: "unknown field", body: `{"doctorId":11}`, userID: 10, wantCode: http.StatusBadRequest},
		{name: "bad weekday", body: `{"workingDays":["XYZ"]}`, userID: 10, wantCode: http.StatusBadRequest},
		{name: "invalid schedule", body: validBody, userID: 10, svcErr: fmt.Errorf("%w: window", schedules.ErrInvalidInput), wantCode: http.StatusBadRequest},
		{name: "already exists", body: validBody, userID: 10, svcErr: schedules.ErrScheduleAlreadyExists, wantCode: http.StatusConflict},
		{name: "store down", body: validBody, userID: 10, svcErr: fmt.Errorf("%w: db", schedules.ErrInternal), wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockScheduleService)
			h := NewHandler(svc, nopLogger{})
			if tt.svcErr != nil {
				svc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.svcErr)
			}

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.body, tt.userID))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.svcErr == nil {
				svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
		})
	}
}
