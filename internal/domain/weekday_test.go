package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestWeekdaySet_Encoding(t *testing.T) {
	set, err := ParseWeekdaySet("fri, MON,wed,MON")
	require.NoError(t, err)

	assert.Equal(t, "MON,WED,FRI", set.String())
	assert.True(t, set.Has(time.Friday))
	assert.False(t, set.Has(time.Sunday))

	_, err = ParseWeekdaySet("MON,XYZ")
	assert.ErrorIs(t, err, ErrValidation)

	empty, err := ParseWeekdaySet("")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestWeekdaySet_ScanValue(t *testing.T) {
	var set WeekdaySet
	require.NoError(t, set.Scan([]byte("SAT,SUN")))
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, set.Days())

	v, err := set.Value()
	require.NoError(t, err)
	assert.Equal(t, "SAT,SUN", v)
}

func TestWeekdaySet_JSON(t *testing.T) {
	data, err := json.Marshal(NewWeekdaySet(time.Sunday, time.Monday))
	require.NoError(t, err)
	assert.JSONEq(t, `["MON","SUN"]`, string(data))

	var set WeekdaySet
	require.NoError(t, json.Unmarshal([]byte(`["TUE","THU"]`), &set))
	assert.Equal(t, "TUE,THU", set.String())

	require.NoError(t, json.Unmarshal([]byte(`"SAT"`), &set))
	assert.Equal(t, "SAT", set.String())
}

func TestWorkingSchedule_Validate(t *testing.T) {
	valid := func() *WorkingSchedule {
		return &WorkingSchedule{
			WorkingDays:         NewWeekdaySet(time.Monday),
			StartTime:           types.MustFromString("08:00"),
			EndTime:             types.MustFromString("12:00"),
			SlotDurationMinutes: 30,
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(s *WorkingSchedule)
	}{
		{"start after end", func(s *WorkingSchedule) { s.StartTime = "13:00" }},
		{"start equals end", func(s *WorkingSchedule) { s.EndTime = s.StartTime }},
		{"zero duration", func(s *WorkingSchedule) { s.SlotDurationMinutes = 0 }},
		{"duration too long", func(s *WorkingSchedule) { s.SlotDurationMinutes = 600 }},
		{"negative fee", func(s *WorkingSchedule) { s.ConsultationFee = -1 }},
		{"no working days", func(s *WorkingSchedule) { s.WorkingDays = 0 }},
		{"bad time", func(s *WorkingSchedule) { s.StartTime = "8am" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), ErrValidation)
		})
	}
}
