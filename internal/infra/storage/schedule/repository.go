package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const (
	table             = "working_schedules"
	pqUniqueViolation = "23505"

	lockForShare  = "FOR SHARE"
	lockForUpdate = "FOR UPDATE"
)

var columns = []string{
	"id",
	"doctor_id",
	"working_days",
	"start_time",
	"end_time",
	"slot_duration_minutes",
	"consultation_fee",
	"created_at",
	"updated_at",
}

// Repository репозиторий рабочих расписаний врачей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает расписание.
// У врача может быть только одно расписание (уникальный индекс по doctor_id).
func (r *Repository) Create(ctx context.Context, s *domain.WorkingSchedule) (*domain.WorkingSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"doctor_id",
			"working_days",
			"start_time",
			"end_time",
			"slot_duration_minutes",
			"consultation_fee",
		).
		Values(
			s.DoctorID,
			s.WorkingDays,
			s.StartTime,
			s.EndTime,
			s.SlotDurationMinutes,
			s.ConsultationFee,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrScheduleExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetByID получает расписание по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.WorkingSchedule, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id}, "")
}

// GetByIDForShare получает расписание с разделяемой блокировкой строки.
// Внутри транзакции бронирования не даёт удалить или изменить расписание до коммита.
func (r *Repository) GetByIDForShare(ctx context.Context, id int64) (*domain.WorkingSchedule, error) {
	return r.getOne(ctx, "GetByIDForShare", squirrel.Eq{"id": id}, lockForShare)
}

// GetByIDForUpdate получает расписание с исключительной блокировкой строки.
// Ждёт завершения транзакций, прочитавших расписание FOR SHARE.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.WorkingSchedule, error) {
	return r.getOne(ctx, "GetByIDForUpdate", squirrel.Eq{"id": id}, lockForUpdate)
}

// GetActiveByDoctor получает действующее расписание врача
func (r *Repository) GetActiveByDoctor(ctx context.Context, doctorID int64) (*domain.WorkingSchedule, error) {
	return r.getOne(ctx, "GetActiveByDoctor", squirrel.Eq{"doctor_id": doctorID}, "")
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq, lock string) (*domain.WorkingSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(where)

	if lock != "" {
		selectBuilder = selectBuilder.Suffix(lock)
	}

	query, args, err := selectBuilder.ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var (
		s                    domain.WorkingSchedule
		createdAt, updatedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.DoctorID,
		&s.WorkingDays,
		&s.StartTime,
		&s.EndTime,
		&s.SlotDurationMinutes,
		&s.ConsultationFee,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan schedule: %v", ErrScanRow, op, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// Update перезаписывает параметры расписания.
// Существующие записи на приём не меняются: время и стоимость в них уже зафиксированы.
func (r *Repository) Update(ctx context.Context, s *domain.WorkingSchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("working_days", s.WorkingDays).
		Set("start_time", s.StartTime).
		Set("end_time", s.EndTime).
		Set("slot_duration_minutes", s.SlotDurationMinutes).
		Set("consultation_fee", s.ConsultationFee).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

// Delete удаляет расписание
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}
