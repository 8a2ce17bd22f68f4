package postgresql

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/titikpos/payroll-backend-go/internal/domain/payroll"
	"github.com/titikpos/payroll-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollRecordColumns = `
	pr.id, pr.payroll_number, pr.business_id, pr.employee_id,
	pr.period_month, pr.period_year, pr.period_start, pr.period_end,
	pr.expected_working_days, pr.actual_working_days, pr.present_days,
	pr.absent_days, pr.late_count, pr.worked_hours, pr.overtime_hours,
	pr.base_salary, pr.pro_rated_base_salary, pr.overtime_pay, pr.commission,
	pr.bonus, pr.allowance, pr.late_penalty, pr.absent_penalty,
	pr.other_deductions, pr.gross_salary, pr.total_deductions, pr.net_salary,
	pr.incomplete_shift_count, pr.status, pr.created_at, pr.updated_at
`

func scanPayrollRecord(row pgx.Row, withEmployee bool) (payroll.PayrollRecord, error) {
	var r payroll.PayrollRecord
	dest := []interface{}{
		&r.ID, &r.PayrollNumber, &r.BusinessID, &r.EmployeeID,
		&r.PeriodMonth, &r.PeriodYear, &r.PeriodStart, &r.PeriodEnd,
		&r.ExpectedWorkingDays, &r.ActualWorkingDays, &r.PresentDays,
		&r.AbsentDays, &r.LateCount, &r.WorkedHours, &r.OvertimeHours,
		&r.BaseSalary, &r.ProRatedBaseSalary, &r.OvertimePay, &r.Commission,
		&r.Bonus, &r.Allowance, &r.LatePenalty, &r.AbsentPenalty,
		&r.OtherDeductions, &r.GrossSalary, &r.TotalDeductions, &r.NetSalary,
		&r.IncompleteShiftCount, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &r.EmployeeName, &r.EmployeeCode)
	}
	return r, row.Scan(dest...)
}

func (r *payrollRepository) GetRecordByID(ctx context.Context, id string, businessID string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollRecordColumns + `, e.full_name, e.employee_code
		FROM payroll_records pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE pr.id = $1 AND pr.business_id = $2
	`

	record, err := scanPayrollRecord(q.QueryRow(ctx, query, id, businessID), true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) GetRecordByEmployeePeriod(ctx context.Context, employeeID string, month, year int, businessID string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollRecordColumns + `, e.full_name, e.employee_code
		FROM payroll_records pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE pr.employee_id = $1 AND pr.period_month = $2 AND pr.period_year = $3
		  AND pr.business_id = $4
	`

	record, err := scanPayrollRecord(q.QueryRow(ctx, query, employeeID, month, year, businessID), true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) GetLineItems(ctx context.Context, recordID string, businessID string) ([]payroll.PayrollLineItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT li.id, li.payroll_record_id, li.category, li.component,
			   li.description, li.amount, li.reference_date, li.created_at
		FROM payroll_line_items li
		JOIN payroll_records pr ON pr.id = li.payroll_record_id
		WHERE li.payroll_record_id = $1 AND pr.business_id = $2
		ORDER BY li.category, li.reference_date NULLS FIRST, li.id
	`

	rows, err := q.Query(ctx, query, recordID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll line items: %w", err)
	}
	defer rows.Close()

	var items []payroll.PayrollLineItem
	for rows.Next() {
		var item payroll.PayrollLineItem
		err := rows.Scan(
			&item.ID, &item.PayrollRecordID, &item.Category, &item.Component,
			&item.Description, &item.Amount, &item.ReferenceDate, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll line item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *payrollRepository) ListRecords(ctx context.Context, businessID string, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"pr.business_id = $1"}
	args := []interface{}{businessID}

	if filter.PeriodMonth != nil {
		args = append(args, *filter.PeriodMonth)
		conditions = append(conditions, fmt.Sprintf("pr.period_month = $%d", len(args)))
	}
	if filter.PeriodYear != nil {
		args = append(args, *filter.PeriodYear)
		conditions = append(conditions, fmt.Sprintf("pr.period_year = $%d", len(args)))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("pr.employee_id = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM payroll_records pr WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := `
		SELECT ` + payrollRecordColumns + `, e.full_name, e.employee_code
		FROM payroll_records pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE ` + where + `
		ORDER BY pr.period_year DESC, pr.period_month DESC, e.employee_code
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		record, err := scanPayrollRecord(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, record)
	}

	return records, totalCount, rows.Err()
}

// ReplacePayroll upserts the record keyed by (employee, year, month), deletes
// the prior line items and inserts the new set, all in one transaction. The
// payroll number is assigned on first insert and survives recalculations.
func (r *payrollRepository) ReplacePayroll(ctx context.Context, record payroll.PayrollRecord, items []payroll.PayrollLineItem) (payroll.PayrollRecord, []payroll.PayrollLineItem, error) {
	var saved payroll.PayrollRecord
	savedItems := make([]payroll.PayrollLineItem, 0, len(items))

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := ContextWithTx(ctx, tx)
		q := GetQuerier(txCtx, r.db)

		payrollNumber, err := r.resolvePayrollNumber(txCtx, record)
		if err != nil {
			return err
		}

		upsert := `
			INSERT INTO payroll_records (
				id, payroll_number, business_id, employee_id,
				period_month, period_year, period_start, period_end,
				expected_working_days, actual_working_days, present_days,
				absent_days, late_count, worked_hours, overtime_hours,
				base_salary, pro_rated_base_salary, overtime_pay, commission,
				bonus, allowance, late_penalty, absent_penalty,
				other_deductions, gross_salary, total_deductions, net_salary,
				incomplete_shift_count, status
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
				$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29
			)
			ON CONFLICT (employee_id, period_year, period_month) DO UPDATE SET
				period_start = EXCLUDED.period_start,
				period_end = EXCLUDED.period_end,
				expected_working_days = EXCLUDED.expected_working_days,
				actual_working_days = EXCLUDED.actual_working_days,
				present_days = EXCLUDED.present_days,
				absent_days = EXCLUDED.absent_days,
				late_count = EXCLUDED.late_count,
				worked_hours = EXCLUDED.worked_hours,
				overtime_hours = EXCLUDED.overtime_hours,
				base_salary = EXCLUDED.base_salary,
				pro_rated_base_salary = EXCLUDED.pro_rated_base_salary,
				overtime_pay = EXCLUDED.overtime_pay,
				commission = EXCLUDED.commission,
				bonus = EXCLUDED.bonus,
				allowance = EXCLUDED.allowance,
				late_penalty = EXCLUDED.late_penalty,
				absent_penalty = EXCLUDED.absent_penalty,
				other_deductions = EXCLUDED.other_deductions,
				gross_salary = EXCLUDED.gross_salary,
				total_deductions = EXCLUDED.total_deductions,
				net_salary = EXCLUDED.net_salary,
				incomplete_shift_count = EXCLUDED.incomplete_shift_count,
				status = EXCLUDED.status,
				updated_at = NOW()
			RETURNING ` + strings.ReplaceAll(payrollRecordColumns, "pr.", "")

		saved, err = scanPayrollRecord(q.QueryRow(txCtx, upsert,
			uuid.NewString(), payrollNumber, record.BusinessID, record.EmployeeID,
			record.PeriodMonth, record.PeriodYear, record.PeriodStart, record.PeriodEnd,
			record.ExpectedWorkingDays, record.ActualWorkingDays, record.PresentDays,
			record.AbsentDays, record.LateCount, record.WorkedHours, record.OvertimeHours,
			record.BaseSalary, record.ProRatedBaseSalary, record.OvertimePay, record.Commission,
			record.Bonus, record.Allowance, record.LatePenalty, record.AbsentPenalty,
			record.OtherDeductions, record.GrossSalary, record.TotalDeductions, record.NetSalary,
			record.IncompleteShiftCount, record.Status,
		), false)
		if err != nil {
			return fmt.Errorf("failed to upsert payroll record: %w", err)
		}

		if _, err := q.Exec(txCtx, `DELETE FROM payroll_line_items WHERE payroll_record_id = $1`, saved.ID); err != nil {
			return fmt.Errorf("failed to delete prior line items: %w", err)
		}

		insertItem := `
			INSERT INTO payroll_line_items (
				id, payroll_record_id, category, component, description, amount, reference_date
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, payroll_record_id, category, component, description, amount, reference_date, created_at
		`

		for _, item := range items {
			var inserted payroll.PayrollLineItem
			err := q.QueryRow(txCtx, insertItem,
				uuid.NewString(), saved.ID, item.Category, item.Component,
				item.Description, item.Amount, item.ReferenceDate,
			).Scan(
				&inserted.ID, &inserted.PayrollRecordID, &inserted.Category, &inserted.Component,
				&inserted.Description, &inserted.Amount, &inserted.ReferenceDate, &inserted.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert line item: %w", err)
			}
			savedItems = append(savedItems, inserted)
		}

		return nil
	})
	if err != nil {
		return payroll.PayrollRecord{}, nil, err
	}

	return saved, savedItems, nil
}

// resolvePayrollNumber reuses the number of an existing record for the
// period, locking the row so a concurrent recalculation waits, and otherwise
// assigns the next sequence within (business, year, month).
func (r *payrollRepository) resolvePayrollNumber(ctx context.Context, record payroll.PayrollRecord) (string, error) {
	q := GetQuerier(ctx, r.db)

	var existing string
	err := q.QueryRow(ctx, `
		SELECT payroll_number FROM payroll_records
		WHERE employee_id = $1 AND period_year = $2 AND period_month = $3
		FOR UPDATE
	`, record.EmployeeID, record.PeriodYear, record.PeriodMonth).Scan(&existing)
	if err == nil {
		return existing, nil
	}
	if err != pgx.ErrNoRows {
		return "", fmt.Errorf("failed to look up payroll number: %w", err)
	}

	// First insert for this employee-period. The row lookup above cannot
	// serialize concurrent first-time runs (there is no row to lock yet), so
	// take a transaction-scoped advisory lock on the sequence scope before
	// counting. The lock is released at commit, by which point the new row is
	// visible to the next COUNT.
	lockKey := payrollNumberLockKey(record.BusinessID, record.PeriodYear, record.PeriodMonth)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey); err != nil {
		return "", fmt.Errorf("failed to lock payroll number sequence: %w", err)
	}

	var seq int
	err = q.QueryRow(ctx, `
		SELECT COUNT(*) + 1 FROM payroll_records
		WHERE business_id = $1 AND period_year = $2 AND period_month = $3
	`, record.BusinessID, record.PeriodYear, record.PeriodMonth).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("failed to generate payroll number: %w", err)
	}

	return formatPayrollNumber(record.PeriodYear, record.PeriodMonth, seq), nil
}

func formatPayrollNumber(year, month, seq int) string {
	return fmt.Sprintf("PAY/%d/%02d/%04d", year, month, seq)
}

// payrollNumberLockKey maps a (business, year, month) sequence scope onto the
// 64-bit advisory lock keyspace.
func payrollNumberLockKey(businessID string, year, month int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "payroll_number:%s:%d-%02d", businessID, year, month)
	return int64(h.Sum64())
}
