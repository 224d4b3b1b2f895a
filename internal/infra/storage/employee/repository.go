package employee

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BRB-ScheduleService/internal/domain"
	"github.com/m04kA/BRB-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/BRB-ScheduleService/pkg/psqlbuilder"
)

// Repository репозиторий сотрудников с их расписаниями и перерывами
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает репозиторий сотрудников
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает сотрудника с правилами расписания и перерывами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "barbershop_id", "name", "active").
		From("employees").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var emp domain.Employee
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&emp.ID,
		&emp.BarbershopID,
		&emp.Name,
		&emp.Active,
	)
	if err == sql.ErrNoRows {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan employee: %v", ErrScanRow, err)
	}

	if err := r.loadNested(ctx, executor, map[int64]*domain.Employee{emp.ID: &emp}); err != nil {
		return nil, err
	}

	return &emp, nil
}

// GetByBarbershop получает сотрудников барбершопа с вложенными
// правилами расписания и перерывами
// activeOnly ограничивает выборку активными сотрудниками
func (r *Repository) GetByBarbershop(ctx context.Context, barbershopID int64, activeOnly bool) ([]*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "barbershop_id", "name", "active").
		From("employees").
		Where(squirrel.Eq{"barbershop_id": barbershopID}).
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBarbershop - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBarbershop - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	byID := make(map[int64]*domain.Employee)

	for rows.Next() {
		var emp domain.Employee
		if err := rows.Scan(&emp.ID, &emp.BarbershopID, &emp.Name, &emp.Active); err != nil {
			return nil, fmt.Errorf("%w: GetByBarbershop - scan employee: %v", ErrScanRow, err)
		}
		employees = append(employees, &emp)
		byID[emp.ID] = &emp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBarbershop - rows error: %v", ErrScanRow, err)
	}

	if len(employees) == 0 {
		return employees, nil
	}

	if err := r.loadNested(ctx, executor, byID); err != nil {
		return nil, err
	}

	return employees, nil
}

// loadNested дозагружает правила расписания и перерывы для набора сотрудников
func (r *Repository) loadNested(ctx context.Context, executor dbmetrics.DBExecutor, byID map[int64]*domain.Employee) error {
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	if err := r.loadScheduleRules(ctx, executor, byID, ids); err != nil {
		return err
	}
	return r.loadBreaks(ctx, executor, byID, ids)
}

func (r *Repository) loadScheduleRules(ctx context.Context, executor dbmetrics.DBExecutor, byID map[int64]*domain.Employee, ids []int64) error {
	query, args, err := psqlbuilder.Select("id", "employee_id", "weekday", "start_time", "end_time", "active").
		From("schedule_rules").
		Where(squirrel.Eq{"employee_id": ids}).
		OrderBy("employee_id ASC, id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadScheduleRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadScheduleRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rule domain.ScheduleRule
		if err := rows.Scan(&rule.ID, &rule.EmployeeID, &rule.Weekday, &rule.StartTime, &rule.EndTime, &rule.Active); err != nil {
			return fmt.Errorf("%w: loadScheduleRules - scan rule: %v", ErrScanRow, err)
		}
		if emp, ok := byID[rule.EmployeeID]; ok {
			emp.ScheduleRules = append(emp.ScheduleRules, rule)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadScheduleRules - rows error: %v", ErrScanRow, err)
	}

	return nil
}

func (r *Repository) loadBreaks(ctx context.Context, executor dbmetrics.DBExecutor, byID map[int64]*domain.Employee, ids []int64) error {
	query, args, err := psqlbuilder.Select("id", "employee_id", "title", "start_time", "end_time", "weekday", "break_date", "active").
		From("breaks").
		Where(squirrel.Eq{"employee_id": ids}).
		OrderBy("employee_id ASC, id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadBreaks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var br domain.Break
		var weekday sql.NullInt64
		var breakDate sql.NullTime

		if err := rows.Scan(&br.ID, &br.EmployeeID, &br.Title, &br.StartTime, &br.EndTime, &weekday, &breakDate, &br.Active); err != nil {
			return fmt.Errorf("%w: loadBreaks - scan break: %v", ErrScanRow, err)
		}

		if weekday.Valid {
			wd := int(weekday.Int64)
			br.Weekday = &wd
		}
		if breakDate.Valid {
			d := breakDate.Time
			br.Date = &d
		}

		if emp, ok := byID[br.EmployeeID]; ok {
			emp.Breaks = append(emp.Breaks, br)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadBreaks - rows error: %v", ErrScanRow, err)
	}

	return nil
}
