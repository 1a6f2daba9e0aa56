package get_appointment_statuses

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type catalogue struct{}

func (catalogue) StatusCatalogue() []models.StatusResponse {
	return models.FromStatusCatalogue(domain.StatusCatalogue())
}

func TestHandle(t *testing.T) {
	h := NewHandler(catalogue{})

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/appointment-statuses", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var resp []models.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	byStatus := make(map[string]models.StatusResponse, len(resp))
	for _, s := range resp {
		byStatus[s.Status] = s
	}
	require.Len(t, byStatus, 4)

	assert.ElementsMatch(t, []string{"CONFIRMED", "CANCELLED"}, byStatus["PENDING"].NextStatuses)
	assert.ElementsMatch(t, []string{"COMPLETED", "CANCELLED"}, byStatus["CONFIRMED"].NextStatuses)
	assert.True(t, byStatus["COMPLETED"].Terminal)
	assert.Empty(t, byStatus["CANCELLED"].NextStatuses)
	assert.True(t, byStatus["PENDING"].Active)
	assert.False(t, byStatus["CANCELLED"].Active)
}
