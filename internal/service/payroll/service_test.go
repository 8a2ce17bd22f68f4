package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/titikpos/payroll-backend-go/internal/domain/attendance"
	"github.com/titikpos/payroll-backend-go/internal/domain/employee"
	"github.com/titikpos/payroll-backend-go/internal/domain/outlet"
	"github.com/titikpos/payroll-backend-go/internal/domain/payroll"
	"github.com/titikpos/payroll-backend-go/internal/domain/sales"
	attendanceService "github.com/titikpos/payroll-backend-go/internal/service/attendance"
	salesService "github.com/titikpos/payroll-backend-go/internal/service/sales"
	"github.com/titikpos/payroll-backend-go/internal/service/schedule"
)

// ========== FAKES ==========

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	active    []employee.Employee
	err       error
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, businessID string) (employee.Employee, error) {
	if f.err != nil {
		return employee.Employee{}, f.err
	}
	emp, ok := f.employees[id]
	if !ok || emp.BusinessID != businessID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetActiveByBusinessID(ctx context.Context, businessID string) ([]employee.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.active, nil
}

type fakeShiftRepo struct {
	shifts map[string][]attendance.ShiftRecord
	errFor map[string]error
}

func (f *fakeShiftRepo) GetByEmployeePeriod(ctx context.Context, employeeID string, businessID string, start, end time.Time) ([]attendance.ShiftRecord, error) {
	if err := f.errFor[employeeID]; err != nil {
		return nil, err
	}
	return f.shifts[employeeID], nil
}

type fakeOutletRepo struct{}

func (f *fakeOutletRepo) GetByID(ctx context.Context, id string, businessID string) (outlet.Outlet, error) {
	return outlet.Outlet{}, outlet.ErrOutletNotFound
}

type fakeOrderRepo struct {
	orders map[string][]sales.Order
}

func (f *fakeOrderRepo) GetByEmployeePeriod(ctx context.Context, employeeID string, businessID string, start, end time.Time) ([]sales.Order, error) {
	return f.orders[employeeID], nil
}

type fakePayrollRepo struct {
	records      map[string]payroll.PayrollRecord
	items        map[string][]payroll.PayrollLineItem
	replaceCalls int
	seq          int
	err          error
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		records: make(map[string]payroll.PayrollRecord),
		items:   make(map[string][]payroll.PayrollLineItem),
	}
}

func periodKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s|%d|%d", employeeID, year, month)
}

func (f *fakePayrollRepo) ReplacePayroll(ctx context.Context, record payroll.PayrollRecord, items []payroll.PayrollLineItem) (payroll.PayrollRecord, []payroll.PayrollLineItem, error) {
	f.replaceCalls++
	if f.err != nil {
		return payroll.PayrollRecord{}, nil, f.err
	}

	key := periodKey(record.EmployeeID, record.PeriodMonth, record.PeriodYear)
	if existing, ok := f.records[key]; ok {
		record.ID = existing.ID
		record.PayrollNumber = existing.PayrollNumber
	} else {
		f.seq++
		record.ID = fmt.Sprintf("rec-%d", f.seq)
		record.PayrollNumber = fmt.Sprintf("PAY/%d/%02d/%04d", record.PeriodYear, record.PeriodMonth, f.seq)
	}

	stored := make([]payroll.PayrollLineItem, len(items))
	for i, item := range items {
		item.ID = fmt.Sprintf("%s-item-%d", record.ID, i+1)
		item.PayrollRecordID = record.ID
		stored[i] = item
	}

	f.records[key] = record
	f.items[record.ID] = stored
	return record, stored, nil
}

func (f *fakePayrollRepo) GetRecordByID(ctx context.Context, id string, businessID string) (payroll.PayrollRecord, error) {
	for _, r := range f.records {
		if r.ID == id && r.BusinessID == businessID {
			return r, nil
		}
	}
	return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
}

func (f *fakePayrollRepo) GetRecordByEmployeePeriod(ctx context.Context, employeeID string, month, year int, businessID string) (payroll.PayrollRecord, error) {
	r, ok := f.records[periodKey(employeeID, month, year)]
	if !ok || r.BusinessID != businessID {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (f *fakePayrollRepo) GetLineItems(ctx context.Context, recordID string, businessID string) ([]payroll.PayrollLineItem, error) {
	return f.items[recordID], nil
}

func (f *fakePayrollRepo) ListRecords(ctx context.Context, businessID string, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	var result []payroll.PayrollRecord
	for _, r := range f.records {
		if r.BusinessID == businessID {
			result = append(result, r)
		}
	}
	return result, int64(len(result)), nil
}

// ========== HELPERS ==========

func ctxWithBusiness(t *testing.T, businessID string) context.Context {
	t.Helper()
	token := jwt.New()
	require.NoError(t, token.Set("business_id", businessID))
	return jwtauth.NewContext(context.Background(), token, nil)
}

type serviceFixture struct {
	service      payroll.PayrollService
	employeeRepo *fakeEmployeeRepo
	shiftRepo    *fakeShiftRepo
	orderRepo    *fakeOrderRepo
	payrollRepo  *fakePayrollRepo
}

func newServiceFixture() *serviceFixture {
	employeeRepo := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	shiftRepo := &fakeShiftRepo{shifts: make(map[string][]attendance.ShiftRecord), errFor: make(map[string]error)}
	orderRepo := &fakeOrderRepo{orders: make(map[string][]sales.Order)}
	payrollRepo := newFakePayrollRepo()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewPayrollService(
		payrollRepo,
		employeeRepo,
		schedule.NewResolver(&fakeOutletRepo{}),
		attendanceService.NewAggregator(shiftRepo),
		salesService.NewAggregator(orderRepo),
		logger,
	)

	return &serviceFixture{
		service:      svc,
		employeeRepo: employeeRepo,
		shiftRepo:    shiftRepo,
		orderRepo:    orderRepo,
		payrollRepo:  payrollRepo,
	}
}

func testEmployee(id, businessID, baseSalary, commissionRate string) employee.Employee {
	return employee.Employee{
		ID:               id,
		BusinessID:       businessID,
		FullName:         "Employee " + id,
		EmployeeCode:     "EMP-" + id,
		BaseSalary:       decimal.RequireFromString(baseSalary),
		CommissionRate:   decimal.RequireFromString(commissionRate),
		EmploymentStatus: employee.EmploymentStatusActive,
	}
}

// completedShifts builds a nine-to-five completed shift on every Monday-Friday
// date of [start, end], except the skipped dates. Dates in late are marked as
// late shifts instead.
func completedShifts(employeeID string, start, end time.Time, skip, late map[string]bool) []attendance.ShiftRecord {
	var shifts []attendance.ShiftRecord
	for i, date := range schedule.ExpectedWorkingDates(start, end, schedule.DefaultWorkingWeekdays()) {
		day := date.Format("2006-01-02")
		if skip[day] {
			continue
		}
		status := attendance.ShiftStatusCompleted
		if late[day] {
			status = attendance.ShiftStatusLate
		}
		clockOut := "17:00:00"
		shifts = append(shifts, attendance.ShiftRecord{
			ID:         fmt.Sprintf("%s-shift-%d", employeeID, i+1),
			EmployeeID: employeeID,
			ShiftDate:  day,
			ClockIn:    "09:00:00",
			ClockOut:   &clockOut,
			Status:     status,
		})
	}
	return shifts
}

func findItems(items []payroll.LineItemResponse, component payroll.LineItemComponent) []payroll.LineItemResponse {
	var found []payroll.LineItemResponse
	for _, item := range items {
		if item.Component == string(component) {
			found = append(found, item)
		}
	}
	return found
}

// ========== TESTS ==========

func TestCalculateForEmployee_PersistsRecordAndLineItems(t *testing.T) {
	fix := newServiceFixture()
	fix.employeeRepo.employees["emp-1"] = testEmployee("emp-1", "biz-1", "5000000", "2")

	// March 2025 has 21 Monday-Friday working days; one absence on the 31st.
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	fix.shiftRepo.shifts["emp-1"] = completedShifts("emp-1", start, end,
		map[string]bool{"2025-03-31": true}, nil)
	fix.orderRepo.orders["emp-1"] = []sales.Order{{
		ID:            "order-1",
		HandledBy:     "emp-1",
		Total:         decimal.NewFromInt(1000000),
		PaymentStatus: sales.PaymentStatusPaid,
		Status:        sales.OrderStatusCompleted,
	}}

	detail, err := fix.service.CalculateForEmployee(ctxWithBusiness(t, "biz-1"), payroll.CalculateEmployeeRequest{
		EmployeeID:  "emp-1",
		PeriodMonth: 3,
		PeriodYear:  2025,
	})
	require.NoError(t, err)

	assert.Equal(t, 21, detail.ExpectedWorkingDays)
	assert.Equal(t, 20, detail.PresentDays)
	assert.Equal(t, 1, detail.AbsentDays)
	assert.Equal(t, "calculated", detail.Status)
	assert.NotEmpty(t, detail.PayrollNumber)
	assert.Equal(t, "Employee emp-1", detail.EmployeeName)

	decEqual(t, "4761904.76", detail.ProRatedBaseSalary)
	decEqual(t, "20000", detail.Commission)
	decEqual(t, "238095.24", detail.AbsentPenalty)
	decEqual(t, "4781904.76", detail.GrossSalary)
	decEqual(t, "4543809.52", detail.NetSalary)

	baseItems := findItems(detail.LineItems, payroll.ComponentBaseSalary)
	require.Len(t, baseItems, 1)
	assert.Equal(t, "Base salary (pro-rated 20/21 days)", baseItems[0].Description)
	decEqual(t, "4761904.76", baseItems[0].Amount)

	commissionItems := findItems(detail.LineItems, payroll.ComponentCommission)
	require.Len(t, commissionItems, 1)

	absentItems := findItems(detail.LineItems, payroll.ComponentAbsentPenalty)
	require.Len(t, absentItems, 1)
	require.NotNil(t, absentItems[0].ReferenceDate)
	assert.Equal(t, "2025-03-31", *absentItems[0].ReferenceDate)
	decEqual(t, "238095.24", absentItems[0].Amount)

	// No overtime worked, so no overtime row.
	assert.Empty(t, findItems(detail.LineItems, payroll.ComponentOvertime))

	assert.Equal(t, 1, fix.payrollRepo.replaceCalls)
	stored, err := fix.payrollRepo.GetRecordByEmployeePeriod(context.Background(), "emp-1", 3, 2025, "biz-1")
	require.NoError(t, err)
	decEqual(t, "4543809.52", stored.NetSalary)
}

func TestCalculateForEmployee_PenaltyRowsSumToScalars(t *testing.T) {
	fix := newServiceFixture()
	fix.employeeRepo.employees["emp-1"] = testEmployee("emp-1", "biz-1", "1000000", "0")

	// 18 of 21 working days present, two of them late. The per-day absent
	// penalty does not divide evenly, so the last row absorbs the remainder.
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	fix.shiftRepo.shifts["emp-1"] = completedShifts("emp-1", start, end,
		map[string]bool{"2025-03-27": true, "2025-03-28": true, "2025-03-31": true},
		map[string]bool{"2025-03-03": true, "2025-03-10": true})

	detail, err := fix.service.CalculateForEmployee(ctxWithBusiness(t, "biz-1"), payroll.CalculateEmployeeRequest{
		EmployeeID:  "emp-1",
		PeriodMonth: 3,
		PeriodYear:  2025,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, detail.AbsentDays)
	assert.Equal(t, 2, detail.LateCount)
	decEqual(t, "142857.14", detail.AbsentPenalty)
	decEqual(t, "100000", detail.LatePenalty)

	absentItems := findItems(detail.LineItems, payroll.ComponentAbsentPenalty)
	require.Len(t, absentItems, 3)
	decEqual(t, "47619.05", absentItems[0].Amount)
	decEqual(t, "47619.05", absentItems[1].Amount)
	decEqual(t, "47619.04", absentItems[2].Amount)

	sum := decimal.Zero
	for _, item := range absentItems {
		sum = sum.Add(item.Amount)
	}
	assert.True(t, sum.Equal(detail.AbsentPenalty), "absent rows sum %s, scalar %s", sum, detail.AbsentPenalty)

	lateItems := findItems(detail.LineItems, payroll.ComponentLatePenalty)
	require.Len(t, lateItems, 2)
	decEqual(t, "50000", lateItems[0].Amount)
	require.NotNil(t, lateItems[0].ReferenceDate)
	assert.Equal(t, "2025-03-03", *lateItems[0].ReferenceDate)
	assert.Equal(t, "2025-03-10", *lateItems[1].ReferenceDate)
}

func TestCalculateForEmployee_RecalculationReplacesPriorRun(t *testing.T) {
	fix := newServiceFixture()
	fix.employeeRepo.employees["emp-1"] = testEmployee("emp-1", "biz-1", "5000000", "0")

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	fix.shiftRepo.shifts["emp-1"] = completedShifts("emp-1", start, end,
		map[string]bool{"2025-03-31": true}, nil)

	req := payroll.CalculateEmployeeRequest{EmployeeID: "emp-1", PeriodMonth: 3, PeriodYear: 2025}
	ctx := ctxWithBusiness(t, "biz-1")

	first, err := fix.service.CalculateForEmployee(ctx, req)
	require.NoError(t, err)

	// A corrected shift arrives for the 31st; recalculating must replace,
	// not duplicate.
	fix.shiftRepo.shifts["emp-1"] = completedShifts("emp-1", start, end, nil, nil)

	second, err := fix.service.CalculateForEmployee(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.PayrollNumber, second.PayrollNumber)
	assert.Equal(t, 2, fix.payrollRepo.replaceCalls)
	assert.Len(t, fix.payrollRepo.records, 1)

	decEqual(t, "5000000", second.NetSalary)
	assert.Empty(t, findItems(second.LineItems, payroll.ComponentAbsentPenalty))
}

func TestCalculateForEmployee_EmployeeNotFound(t *testing.T) {
	fix := newServiceFixture()

	_, err := fix.service.CalculateForEmployee(ctxWithBusiness(t, "biz-1"), payroll.CalculateEmployeeRequest{
		EmployeeID:  "nope",
		PeriodMonth: 3,
		PeriodYear:  2025,
	})

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.Equal(t, 0, fix.payrollRepo.replaceCalls)
}

func TestCalculateForEmployee_RejectsInvalidPeriod(t *testing.T) {
	fix := newServiceFixture()

	_, err := fix.service.CalculateForEmployee(ctxWithBusiness(t, "biz-1"), payroll.CalculateEmployeeRequest{
		EmployeeID:  "emp-1",
		PeriodMonth: 13,
		PeriodYear:  2025,
	})

	assert.Error(t, err)
}

func TestCalculateForEmployee_MissingBusinessClaim(t *testing.T) {
	fix := newServiceFixture()

	_, err := fix.service.CalculateForEmployee(context.Background(), payroll.CalculateEmployeeRequest{
		EmployeeID:  "emp-1",
		PeriodMonth: 3,
		PeriodYear:  2025,
	})

	assert.Error(t, err)
}

func TestCalculateForEmployee_PersistenceFailurePropagates(t *testing.T) {
	fix := newServiceFixture()
	fix.employeeRepo.employees["emp-1"] = testEmployee("emp-1", "biz-1", "5000000", "0")
	fix.payrollRepo.err = errors.New("deadlock detected")

	_, err := fix.service.CalculateForEmployee(ctxWithBusiness(t, "biz-1"), payroll.CalculateEmployeeRequest{
		EmployeeID:  "emp-1",
		PeriodMonth: 3,
		PeriodYear:  2025,
	})

	assert.ErrorContains(t, err, "deadlock detected")
}

func TestGetRecord_ReturnsRecordWithLineItems(t *testing.T) {
	fix := newServiceFixture()
	fix.employeeRepo.employees["emp-1"] = testEmployee("emp-1", "biz-1", "5000000", "0")

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	fix.shiftRepo.shifts["emp-1"] = completedShifts("emp-1", start, end, nil, nil)

	created, err := fix.service.CalculateForEmployee(ctxWithBusiness(t, "biz-1"), payroll.CalculateEmployeeRequest{
		EmployeeID:  "emp-1",
		PeriodMonth: 3,
		PeriodYear:  2025,
	})
	require.NoError(t, err)

	got, err := fix.service.GetRecord(ctxWithBusiness(t, "biz-1"), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, string(payroll.ComponentBaseSalary), got.LineItems[0].Component)
}

func TestGetRecord_CrossBusinessIsNotFound(t *testing.T) {
	fix := newServiceFixture()
	fix.employeeRepo.employees["emp-1"] = testEmployee("emp-1", "biz-1", "5000000", "0")

	created, err := fix.service.CalculateForEmployee(ctxWithBusiness(t, "biz-1"), payroll.CalculateEmployeeRequest{
		EmployeeID:  "emp-1",
		PeriodMonth: 3,
		PeriodYear:  2025,
	})
	require.NoError(t, err)

	_, err = fix.service.GetRecord(ctxWithBusiness(t, "biz-2"), created.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestListRecords_DefaultsPagination(t *testing.T) {
	fix := newServiceFixture()

	got, err := fix.service.ListRecords(ctxWithBusiness(t, "biz-1"), payroll.PayrollFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 20, got.Limit)
	assert.Empty(t, got.Data)
}
