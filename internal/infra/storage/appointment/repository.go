package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const table = "appointments"

var columns = []string{
	"id",
	"schedule_id",
	"doctor_id",
	"patient_id",
	"appointment_date",
	"start_time",
	"end_time",
	"status",
	"reason",
	"fee",
	"cancellation_reason",
	"cancelled_at",
	"version",
	"interacted_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись на приём.
// Если в контексте есть транзакция, запрос выполняется в ней.
// Нарушение частичного уникального индекса активного слота возвращает ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"schedule_id",
			"doctor_id",
			"patient_id",
			"appointment_date",
			"start_time",
			"end_time",
			"status",
			"reason",
			"fee",
			"version",
			"interacted_at",
		).
		Values(
			a.ScheduleID,
			a.DoctorID,
			a.PatientID,
			domain.DateOnly(a.AppointmentDate),
			a.StartTime,
			a.EndTime,
			a.Status,
			a.Reason,
			a.Fee,
			a.Version,
			a.InteractedAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if conflict := classify(err); conflict != nil {
			return nil, fmt.Errorf("%w: Create - insert: %v", conflict, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// ListActiveBySlotDate возвращает активные записи расписания на дату.
// Внутри транзакции строки блокируются FOR UPDATE, чтобы повторная проверка
// слота и вставка выполнялись над одним снимком.
func (r *Repository) ListActiveBySlotDate(ctx context.Context, scheduleID int64, date time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"schedule_id":      scheduleID,
			"appointment_date": domain.DateOnly(date),
			"status":           statusStrings(domain.ActiveStatuses),
		}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveBySlotDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if conflict := classify(err); conflict != nil {
			return nil, fmt.Errorf("%w: ListActiveBySlotDate - select: %v", conflict, err)
		}
		return nil, fmt.Errorf("%w: ListActiveBySlotDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// List возвращает записи по фильтру.
//
// Примеры:
//
// 1. История пациента:
//    filter := domain.AppointmentsFilter{PatientID: &patientID, IncludeInactive: true}
//
// 2. Активные записи врача на день:
//    filter := domain.AppointmentsFilter{DoctorID: &doctorID, Date: &date}
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(table)

	if filter.ScheduleID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"schedule_id": *filter.ScheduleID})
	}
	if filter.DoctorID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"doctor_id": *filter.DoctorID})
	}
	if filter.PatientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"patient_id": *filter.PatientID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_date": domain.DateOnly(*filter.Date)})
	}

	// Конкретный статус важнее флага неактивных
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("appointment_date DESC", "start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// CountActiveBySchedule количество активных записей расписания
func (r *Repository) CountActiveBySchedule(ctx context.Context, scheduleID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{
			"schedule_id": scheduleID,
			"status":      statusStrings(domain.ActiveStatuses),
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySchedule - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySchedule - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// UpdateStatus сохраняет новый статус с проверкой версии.
// Если версия в БД отличается от expectedVersion, возвращает ErrVersionMismatch.
// При успехе a.Version увеличивается на единицу.
func (r *Repository) UpdateStatus(ctx context.Context, a *domain.Appointment, expectedVersion int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", a.Status).
		Set("interacted_at", a.InteractedAt).
		Set("cancellation_reason", a.CancellationReason).
		Set("cancelled_at", a.CancelledAt).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID, "version": expectedVersion}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrVersionMismatch
	}

	a.Version = expectedVersion + 1
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                    domain.Appointment
		cancellationReason   sql.NullString
		cancelledAt          sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.ScheduleID,
		&a.DoctorID,
		&a.PatientID,
		&a.AppointmentDate,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.Reason,
		&a.Fee,
		&cancellationReason,
		&cancelledAt,
		&a.Version,
		&a.InteractedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancellationReason.Valid {
		a.CancellationReason = &cancellationReason.String
	}
	if cancelledAt.Valid {
		a.CancelledAt = &cancelledAt.Time
	}
	a.AppointmentDate = domain.DateOnly(a.AppointmentDate)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

func statusStrings(statuses []domain.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
