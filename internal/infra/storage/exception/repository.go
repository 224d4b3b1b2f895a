package exception

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	"github.com/m04kA/BRB-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/BRB-ScheduleService/pkg/psqlbuilder"
)

// Repository репозиторий исключений доступности
// Диапазоны хранятся как jsonb: исключение всегда читается и
// перезаписывается целиком, построчный доступ не нужен
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает репозиторий исключений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByEmployeeAndDate получает исключение для пары (сотрудник, дата)
// Возвращает ErrExceptionNotFound, если исключения нет - для этой даты
// действует недельное расписание с перерывами
func (r *Repository) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "employee_id", "exception_date", "ranges", "created_at", "updated_at").
		From("availability_exceptions").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Eq{"exception_date": domain.DateOnly(date)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmployeeAndDate - build select query: %v", ErrBuildQuery, err)
	}

	exc, err := r.scanException(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrExceptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmployeeAndDate - scan exception: %v", ErrScanRow, err)
	}

	return exc, nil
}

// GetByEmployeesAndDate получает исключения для набора сотрудников на дату
// Возвращает map по employee_id; отсутствие записи означает отсутствие исключения
func (r *Repository) GetByEmployeesAndDate(ctx context.Context, employeeIDs []int64, date time.Time) (map[int64]*domain.AvailabilityException, error) {
	result := make(map[int64]*domain.AvailabilityException)
	if len(employeeIDs) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "employee_id", "exception_date", "ranges", "created_at", "updated_at").
		From("availability_exceptions").
		Where(squirrel.Eq{"employee_id": employeeIDs}).
		Where(squirrel.Eq{"exception_date": domain.DateOnly(date)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmployeesAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmployeesAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		exc, err := r.scanException(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByEmployeesAndDate - scan exception: %v", ErrScanRow, err)
		}
		result[exc.EmployeeID] = exc
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByEmployeesAndDate - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Upsert сохраняет исключение для пары (сотрудник, дата), полностью
// заменяя прежние диапазоны, если исключение уже существовало
func (r *Repository) Upsert(ctx context.Context, exc *domain.AvailabilityException) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rangesJSON, err := json.Marshal(exc.Ranges)
	if err != nil {
		return fmt.Errorf("%w: Upsert - marshal ranges: %v", ErrEncodeRanges, err)
	}

	query, args, err := psqlbuilder.Insert("availability_exceptions").
		Columns("employee_id", "exception_date", "ranges").
		Values(exc.EmployeeID, domain.DateOnly(exc.Date), rangesJSON).
		Suffix("ON CONFLICT (employee_id, exception_date) DO UPDATE SET ranges = EXCLUDED.ranges, updated_at = NOW()").
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exc.ID); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// Delete удаляет исключение для пары (сотрудник, дата)
// После удаления для даты снова действует недельное расписание
func (r *Repository) Delete(ctx context.Context, employeeID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_exceptions").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Eq{"exception_date": domain.DateOnly(date)}).
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
		return ErrExceptionNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanException(row rowScanner) (*domain.AvailabilityException, error) {
	var exc domain.AvailabilityException
	var rangesJSON []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&exc.ID,
		&exc.EmployeeID,
		&exc.Date,
		&rangesJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rangesJSON, &exc.Ranges); err != nil {
		return nil, fmt.Errorf("unmarshal ranges: %v", err)
	}

	exc.CreatedAt = createdAt.Time
	exc.UpdatedAt = updatedAt.Time

	return &exc, nil
}
