package change_status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	changeStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/change_status"
)

type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) Execute(ctx context.Context, req *changeStatus.Request) (*changeStatus.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*changeStatus.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, id string, body string, userID int64) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/appointments/{appointmentId}/status", h.Handle).Methods(http.MethodPut)

	r := httptest.NewRequest(http.MethodPut, "/appointments/"+id+"/status", strings.NewReader(body))
	if userID > 0 {
		r = r.WithContext(middleware.WithUserID(r.Context(), userID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestHandle_ConfirmByAction(t *testing.T) {
	uc := new(MockUseCase)
	h := NewHandler(uc, nopLogger{})

	uc.On("Execute", mock.Anything, &changeStatus.Request{
		AppointmentID: 3,
		ActorID:       10,
		Status:        domain.StatusConfirmed,
	}).Return(&changeStatus.Response{
		ID:              3,
		AppointmentDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:       "08:00",
		EndTime:         "08:30",
		Status:          domain.StatusConfirmed,
		StatusLabel:     domain.StatusConfirmed.Label(),
		NextActions:     domain.StatusConfirmed.NextActions(),
		Version:         2,
	}, nil)

	rec := serve(h, "3", `{"action":"confirm"}`, 10)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Equal(t, []string{"complete", "cancel"}, resp.NextActions)
	assert.Equal(t, 2, resp.Version)
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		body     string
		userID   int64
		ucErr    error
		wantCode int
	}{
		{name: "bad id", id: "x", body: `{"status":"CONFIRMED"}`, userID: 10, wantCode: http.StatusBadRequest},
		{name: "no user", id: "3", body: `{"status":"CONFIRMED"}`, wantCode: http.StatusUnauthorized},
		{name: "no target", id: "3", body: `{}`, userID: 10, wantCode: http.StatusBadRequest},
		{name: "unknown status", id: "3", body: `{"status":"ARCHIVED"}`, userID: 10, wantCode: http.StatusBadRequest},
		{name: "unknown action", id: "3", body: `{"action":"archive"}`, userID: 10, wantCode: http.StatusBadRequest},
		{name: "status and action disagree", id: "3", body: `{"status":"CONFIRMED","action":"cancel"}`, userID: 10, wantCode: http.StatusBadRequest},
		{
			name: "illegal transition", id: "3", body: `{"status":"COMPLETED"}`, userID: 10,
			ucErr:    &domain.IllegalTransitionError{From: domain.StatusPending, To: domain.StatusCompleted},
			wantCode: http.StatusConflict,
		},
		{name: "stale version", id: "3", body: `{"status":"CONFIRMED"}`, userID: 10, ucErr: changeStatus.ErrConcurrentModification, wantCode: http.StatusConflict},
		{name: "not found", id: "3", body: `{"status":"CONFIRMED"}`, userID: 10, ucErr: changeStatus.ErrAppointmentNotFound, wantCode: http.StatusNotFound},
		{name: "forbidden", id: "3", body: `{"status":"CONFIRMED"}`, userID: 99, ucErr: changeStatus.ErrAccessDenied, wantCode: http.StatusForbidden},
		{name: "dependency", id: "3", body: `{"status":"CONFIRMED"}`, userID: 10, ucErr: changeStatus.ErrDependency, wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockUseCase)
			h := NewHandler(uc, nopLogger{})
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			}

			rec := serve(h, tt.id, tt.body, tt.userID)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.ucErr == nil {
				uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestHandle_IllegalTransitionNamesStates(t *testing.T) {
	uc := new(MockUseCase)
	h := NewHandler(uc, nopLogger{})
	illegal := &domain.IllegalTransitionError{From: domain.StatusPending, To: domain.StatusCompleted}
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("change_status: %w", illegal))

	rec := serve(h, "3", `{"status":"COMPLETED"}`, 10)

	require.Equal(t, http.StatusConflict, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, http.StatusConflict, body.Code)
	assert.Contains(t, body.Error, "PENDING -> COMPLETED")
}
