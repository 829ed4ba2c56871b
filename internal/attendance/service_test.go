package attendance

import (
	"context"
	"fmt"
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

func (f *fakeEmployeeLoader) FindByID(ctx context.Context, id uint) (*models.Employee, error) {
	var emp models.Employee
	if err := f.conn.WithContext(ctx).First(&emp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

func (f *fakeEmployeeLoader) ListActive(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := f.conn.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&employees).Error
	return employees, err
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
	))
	client := db.NewFromConn(conn)
	svc, err := NewService(NewRepository(client.DB()), client, &fakeEmployeeLoader{conn: conn})
	require.NoError(t, err)
	return svc, client
}

func mustCreateTestEmployee(t *testing.T, tx *gorm.DB, code, name string, active bool) *models.Employee {
	t.Helper()
	emp := &models.Employee{
		EmployeeCode: code,
		Name:         name,
		Role:         "Molder",
		Salary:       decimal.NewFromInt(12000),
		IsActive:     active,
		JoinedDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, tx.Create(emp).Error)
	return emp
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected app error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

var testDate = time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

func TestMark_UpsertsPerDay(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	emp := mustCreateTestEmployee(t, client.DB(), "BRK001", "Ramesh", true)

	first, err := svc.Mark(ctx, MarkInput{
		EmployeeID: emp.ID,
		Date:       testDate,
		Status:     enums.AttendancePresent,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.ShiftDay, first.Shift, "shift defaults to Day")

	// marking again on the same day replaces, not duplicates
	second, err := svc.Mark(ctx, MarkInput{
		EmployeeID: emp.ID,
		Date:       testDate.Add(9 * time.Hour), // same calendar day
		Status:     enums.AttendanceHalfDay,
		Shift:      enums.ShiftNight,
		Notes:      "left early",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, enums.AttendanceHalfDay, second.Status)
	assert.Equal(t, "left early", second.Notes)

	var count int64
	require.NoError(t, client.DB().Model(&models.Attendance{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMark_Validation(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	emp := mustCreateTestEmployee(t, client.DB(), "BRK001", "Ramesh", true)

	_, err := svc.Mark(ctx, MarkInput{EmployeeID: emp.ID, Date: testDate, Status: "Vacation"})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Mark(ctx, MarkInput{EmployeeID: emp.ID, Date: testDate, Status: enums.AttendancePresent, Shift: "Evening"})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Mark(ctx, MarkInput{EmployeeID: 999, Date: testDate, Status: enums.AttendancePresent})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestBulkSave_SkipsBadEntriesAndSavesRest(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	first := mustCreateTestEmployee(t, client.DB(), "BRK001", "Ramesh", true)
	second := mustCreateTestEmployee(t, client.DB(), "BRK002", "Suresh", true)

	saved, err := svc.BulkSave(ctx, testDate, []MarkInput{
		{EmployeeID: first.ID, Status: enums.AttendancePresent},
		{EmployeeID: second.ID, Status: enums.AttendanceLeave},
		{EmployeeID: 999, Status: enums.AttendancePresent},
		{EmployeeID: first.ID, Status: "Vacation"},
	})
	assert.Equal(t, 2, saved)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee 999")

	records, listErr := svc.Records(ctx, &testDate)
	require.NoError(t, listErr)
	require.Len(t, records, 2)
	// the duplicate bad entry for first did not clobber the good one
	assert.Equal(t, enums.AttendancePresent, records[0].Status)
}

func TestMarkAll_CoversActiveWorkforce(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	first := mustCreateTestEmployee(t, client.DB(), "BRK001", "Ramesh", true)
	mustCreateTestEmployee(t, client.DB(), "BRK002", "Suresh", true)
	mustCreateTestEmployee(t, client.DB(), "BRK003", "Gone", false)

	// pre-existing night shift survives mark-all
	_, err := svc.Mark(ctx, MarkInput{
		EmployeeID: first.ID,
		Date:       testDate,
		Status:     enums.AttendanceAbsent,
		Shift:      enums.ShiftNight,
	})
	require.NoError(t, err)

	marked, err := svc.MarkAll(ctx, testDate, enums.AttendancePresent)
	require.NoError(t, err)
	assert.Equal(t, 2, marked, "inactive employees stay unmarked")

	records, err := svc.Records(ctx, &testDate)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, enums.AttendancePresent, records[0].Status)
	assert.Equal(t, enums.ShiftNight, records[0].Shift)

	_, err = svc.MarkAll(ctx, testDate, "Vacation")
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRegistry_PairsEmployeesWithMarks(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	first := mustCreateTestEmployee(t, client.DB(), "BRK001", "Ramesh", true)
	mustCreateTestEmployee(t, client.DB(), "BRK002", "Suresh", true)

	_, err := svc.Mark(ctx, MarkInput{EmployeeID: first.ID, Date: testDate, Status: enums.AttendancePresent})
	require.NoError(t, err)

	rows, err := svc.Registry(ctx, testDate)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Mark)
	assert.Equal(t, enums.AttendancePresent, rows[0].Mark.Status)
	assert.Nil(t, rows[1].Mark, "unmarked employee shows empty")
}

func TestRecords_RecentAcrossDates(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	emp := mustCreateTestEmployee(t, client.DB(), "BRK001", "Ramesh", true)

	for day := 1; day <= 3; day++ {
		_, err := svc.Mark(ctx, MarkInput{
			EmployeeID: emp.ID,
			Date:       time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC),
			Status:     enums.AttendancePresent,
		})
		require.NoError(t, err)
	}

	records, err := svc.Records(ctx, nil)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 3, records[0].Date.Day(), "newest date first")
	assert.Equal(t, "Ramesh", records[0].EmployeeName)
}
