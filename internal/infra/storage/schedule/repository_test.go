package schedule

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func newSchedule() *domain.WorkingSchedule {
	return &domain.WorkingSchedule{
		DoctorID:            10,
		WorkingDays:         domain.NewWeekdaySet(time.Monday, time.Wednesday, time.Friday),
		StartTime:           "08:00",
		EndTime:             "09:00",
		SlotDurationMinutes: 30,
		ConsultationFee:     150000,
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO working_schedules").
		WithArgs(int64(10), "MON,WED,FRI", "08:00", "09:00", 30, int64(150000)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	s, err := repo.Create(context.Background(), newSchedule())

	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_Duplicate(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO working_schedules").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), newSchedule())

	assert.ErrorIs(t, err, ErrScheduleExists)
}

func TestRepository_GetActiveByDoctor(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT .+ FROM working_schedules WHERE doctor_id = \\$1").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), int64(10), "MON,WED,FRI", "08:00:00", "17:00:00", 20, int64(5000), now, now))

	s, err := repo.GetActiveByDoctor(context.Background(), 10)

	require.NoError(t, err)
	assert.True(t, s.WorkingDays.Has(time.Wednesday))
	assert.False(t, s.WorkingDays.Has(time.Tuesday))
	assert.Equal(t, "17:00", s.EndTime.String())
	assert.Equal(t, 20, s.SlotDurationMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM working_schedules WHERE id = \\$1").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestRepository_GetByID_RowLocks(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(columns).
			AddRow(int64(3), int64(10), "MON", "08:00:00", "09:00:00", 30, int64(7000), now, now)
	}

	mock.ExpectQuery("SELECT .+ FROM working_schedules WHERE id = \\$1 FOR SHARE").
		WithArgs(int64(3)).
		WillReturnRows(row())
	mock.ExpectQuery("SELECT .+ FROM working_schedules WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(3)).
		WillReturnRows(row())
	mock.ExpectQuery("FOR SHARE").WillReturnError(sql.ErrNoRows)

	shared, err := repo.GetByIDForShare(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7000), shared.ConsultationFee)

	exclusive, err := repo.GetByIDForUpdate(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), exclusive.ID)

	_, err = repo.GetByIDForShare(context.Background(), 3)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	repo, mock := newRepo(t)
	s := newSchedule()
	s.ID = 3

	mock.ExpectExec("UPDATE working_schedules SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE working_schedules SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(context.Background(), s))
	assert.ErrorIs(t, repo.Update(context.Background(), s), ErrScheduleNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec("DELETE FROM working_schedules WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
