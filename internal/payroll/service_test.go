package payroll

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/enums"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
)

type fakeEmployeeLoader struct {
	conn *gorm.DB
}

func (f *fakeEmployeeLoader) ListActive(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := f.conn.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&employees).Error
	return employees, err
}

type fakeAttendanceSource struct {
	conn *gorm.DB
}

func (f *fakeAttendanceSource) ListByEmployeeAndPeriod(ctx context.Context, employeeID uint, from, to time.Time) ([]models.Attendance, error) {
	var marks []models.Attendance
	err := f.conn.WithContext(ctx).
		Where("employee_id = ? AND date >= ? AND date <= ?", employeeID, from, to).
		Order("date ASC").
		Find(&marks).Error
	return marks, err
}

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Employee{},
		&models.Attendance{},
		&models.SalaryRecord{},
	))
	client := db.NewFromConn(conn)
	svc, err := NewService(
		NewRepository(client.DB()),
		client,
		&fakeEmployeeLoader{conn: conn},
		&fakeAttendanceSource{conn: conn},
	)
	require.NoError(t, err)
	return svc, client
}

func mustCreateTestEmployee(t *testing.T, tx *gorm.DB, code, name string, salary int64, active bool) *models.Employee {
	t.Helper()
	emp := &models.Employee{
		EmployeeCode: code,
		Name:         name,
		Role:         "Molder",
		Salary:       decimal.NewFromInt(salary),
		IsActive:     active,
		JoinedDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, tx.Create(emp).Error)
	return emp
}

func mustMark(t *testing.T, tx *gorm.DB, employeeID uint, day time.Time, status enums.AttendanceStatus) {
	t.Helper()
	require.NoError(t, tx.Create(&models.Attendance{
		EmployeeID: employeeID,
		Date:       day,
		Status:     status,
		Shift:      enums.ShiftDay,
	}).Error)
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected app error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestGenerate_ComputesGrossFromAttendance(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	// June 2026 has 30 days; salary 30000 means a 1000/day rate
	emp := mustCreateTestEmployee(t, client.DB(), "BRK001", "Ramesh", 30000, true)
	for day := 1; day <= 20; day++ {
		mustMark(t, client.DB(), emp.ID, time.Date(2026, 6, day, 0, 0, 0, 0, time.UTC), enums.AttendancePresent)
	}
	for day := 21; day <= 24; day++ {
		mustMark(t, client.DB(), emp.ID, time.Date(2026, 6, day, 0, 0, 0, 0, time.UTC), enums.AttendanceHalfDay)
	}
	mustMark(t, client.DB(), emp.ID, time.Date(2026, 6, 25, 0, 0, 0, 0, time.UTC), enums.AttendanceAbsent)
	mustMark(t, client.DB(), emp.ID, time.Date(2026, 6, 26, 0, 0, 0, 0, time.UTC), enums.AttendanceLeave)
	// marks outside the month do not count
	mustMark(t, client.DB(), emp.ID, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), enums.AttendancePresent)

	result, err := svc.Generate(ctx, 6, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Skipped)

	report, err := svc.Report(ctx, 6, 2026)
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	rec := report.Records[0]
	assert.Equal(t, 24, rec.DaysPresent, "half-days count as present days")
	assert.Equal(t, 4, rec.HalfDays)
	assert.InDelta(t, 22.0, rec.EffectiveDays, 0.001)
	assert.True(t, rec.GrossPay.Equal(decimal.NewFromInt(22000)), "gross %s", rec.GrossPay)
	assert.True(t, report.TotalGross.Equal(decimal.NewFromInt(22000)))
}

func TestGenerate_IsIdempotent(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	emp := mustCreateTestEmployee(t, client.DB(), "BRK001", "Ramesh", 30000, true)
	mustCreateTestEmployee(t, client.DB(), "BRK002", "Gone", 30000, false)
	mustMark(t, client.DB(), emp.ID, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), enums.AttendancePresent)

	first, err := svc.Generate(ctx, 6, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created, "inactive employees are not paid")

	second, err := svc.Generate(ctx, 6, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Skipped)

	var count int64
	require.NoError(t, client.DB().Model(&models.SalaryRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGenerate_NoAttendanceMeansZeroPay(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	mustCreateTestEmployee(t, client.DB(), "BRK001", "Ramesh", 30000, true)

	result, err := svc.Generate(ctx, 6, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	report, err := svc.Report(ctx, 6, 2026)
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	assert.True(t, report.Records[0].GrossPay.IsZero())
}

func TestGenerate_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Generate(ctx, 0, 2026)
	assertCode(t, err, pkgerrors.CodeValidation)
	_, err = svc.Generate(ctx, 13, 2026)
	assertCode(t, err, pkgerrors.CodeValidation)
	_, err = svc.Generate(ctx, 6, 1896)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestExportCSV(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	emp := mustCreateTestEmployee(t, client.DB(), "BRK001", "Ramesh Kumar", 31000, true)
	for day := 1; day <= 10; day++ {
		mustMark(t, client.DB(), emp.ID, time.Date(2026, 7, day, 0, 0, 0, 0, time.UTC), enums.AttendancePresent)
	}
	_, err := svc.Generate(ctx, 7, 2026)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, 7, 2026, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Employee Code")
	assert.Contains(t, lines[1], "BRK001")
	assert.Contains(t, lines[1], "Ramesh Kumar")
	// July has 31 days: 31000 / 31 * 10 = 10000.00
	assert.Contains(t, lines[1], "10000.00")
}
