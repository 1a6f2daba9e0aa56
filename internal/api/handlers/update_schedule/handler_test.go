package update_schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules/models"
)

type MockScheduleService struct {
	mock.Mock
}

func (m *MockScheduleService) Update(ctx context.Context, id int64, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScheduleResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, id string, body string, userID int64) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/schedules/{scheduleId}", h.Handle).Methods(http.MethodPut)

	r := httptest.NewRequest(http.MethodPut, "/schedules/"+id, strings.NewReader(body))
	if userID > 0 {
		r = r.WithContext(middleware.WithUserID(r.Context(), userID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestHandle_PartialUpdate(t *testing.T) {
	svc := new(MockScheduleService)
	h := NewHandler(svc, nopLogger{})

	svc.On("Update", mock.Anything, int64(4), mock.MatchedBy(func(req *models.UpdateScheduleRequest) bool {
		return req.UserID == 10 &&
			req.ConsultationFee != nil && *req.ConsultationFee == 2500 &&
			req.StartTime == nil && req.WorkingDays == nil
	})).Return(&models.ScheduleResponse{ID: 4, DoctorID: 10, ConsultationFee: 2500}, nil)

	rec := serve(h, "4", `{"consultationFee":2500}`, 10)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ScheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2500), resp.ConsultationFee)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		body     string
		userID   int64
		svcErr   error
		wantCode int
	}{
		{name: "bad id", id: "x", body: `{}`, userID: 10, wantCode: http.StatusBadRequest},
		{name: "no user", id: "4", body: `{}`, wantCode: http.StatusUnauthorized},
		{name: "bad time", id: "4", body: `{"startTime":"8am"}`, userID: 10, wantCode: http.StatusBadRequest},
		{name: "not found", id: "4", body: `{}`, userID: 10, svcErr: schedules.ErrScheduleNotFound, wantCode: http.StatusNotFound},
		{name: "not owner", id: "4", body: `{}`, userID: 11, svcErr: schedules.ErrAccessDenied, wantCode: http.StatusForbidden},
		{name: "invalid result", id: "4", body: `{"slotDuration":0}`, userID: 10, svcErr: fmt.Errorf("%w: duration", schedules.ErrInvalidInput), wantCode: http.StatusBadRequest},
		{name: "store down", id: "4", body: `{}`, userID: 10, svcErr: fmt.Errorf("%w: db", schedules.ErrInternal), wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockScheduleService)
			h := NewHandler(svc, nopLogger{})
			if tt.svcErr != nil {
				svc.On("Update", mock.Anything, int64(4), mock.Anything).Return(nil, tt.svcErr)
			}

			rec := serve(h, tt.id, tt.body, tt.userID)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.svcErr == nil {
				svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
