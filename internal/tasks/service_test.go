package task

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
		&models.Task{},
		&models.TaskRotation{},
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

func TestCreate_DefaultsAndRotationLog(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	emp := mustCreateTestEmployee(t, client.DB(), "BRK001", "Ramesh", true)

	created, err := svc.Create(ctx, CreateInput{
		Title:      "Load kiln chamber 2",
		TaskType:   "kiln-loading",
		AssigneeID: &emp.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.PriorityMedium, created.Priority)
	assert.Equal(t, enums.TaskNotStarted, created.Status)
	assert.Equal(t, 0, created.Progress)
	assert.Equal(t, "Ramesh", created.AssigneeName)

	var rotations int64
	require.NoError(t, client.DB().Model(&models.TaskRotation{}).Count(&rotations).Error)
	assert.EqualValues(t, 1, rotations)

	// unassigned tasks log nothing
	_, err = svc.Create(ctx, CreateInput{Title: "Sort pallets", TaskType: "sorting"})
	require.NoError(t, err)
	require.NoError(t, client.DB().Model(&models.TaskRotation{}).Count(&rotations).Error)
	assert.EqualValues(t, 1, rotations)
}

func TestCreate_Validation(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	inactive := mustCreateTestEmployee(t, client.DB(), "BRK001", "Gone", false)

	_, err := svc.Create(ctx, CreateInput{TaskType: "sorting"})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, CreateInput{Title: "X"})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, CreateInput{Title: "X", TaskType: "sorting", Progress: 101})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, CreateInput{Title: "X", TaskType: "sorting", Priority: "Urgent"})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, CreateInput{Title: "X", TaskType: "sorting", AssigneeID: &inactive.ID})
	assertCode(t, err, pkgerrors.CodeValidation)

	missing := uint(999)
	_, err = svc.Create(ctx, CreateInput{Title: "X", TaskType: "sorting", AssigneeID: &missing})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdate_ReassignAndComplete(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	first := mustCreateTestEmployee(t, client.DB(), "BRK001", "Ramesh", true)
	second := mustCreateTestEmployee(t, client.DB(), "BRK002", "Suresh", true)

	created, err := svc.Create(ctx, CreateInput{
		Title:      "Load kiln chamber 2",
		TaskType:   "kiln-loading",
		AssigneeID: &first.ID,
	})
	require.NoError(t, err)

	// reassignment logs a second rotation entry
	updated, err := svc.Update(ctx, created.ID, UpdateInput{AssigneeID: &second.ID})
	require.NoError(t, err)
	assert.Equal(t, "Suresh", updated.AssigneeName)

	var rotations int64
	require.NoError(t, client.DB().Model(&models.TaskRotation{}).Count(&rotations).Error)
	assert.EqualValues(t, 2, rotations)

	// saving the same assignee again does not
	updated, err = svc.Update(ctx, created.ID, UpdateInput{AssigneeID: &second.ID})
	require.NoError(t, err)
	require.NoError(t, client.DB().Model(&models.TaskRotation{}).Count(&rotations).Error)
	assert.EqualValues(t, 2, rotations)

	completed := enums.TaskCompleted
	updated, err = svc.Update(ctx, created.ID, UpdateInput{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress, "completion snaps progress to 100")

	updated, err = svc.Update(ctx, created.ID, UpdateInput{ClearAssignee: true})
	require.NoError(t, err)
	assert.Nil(t, updated.AssigneeID)

	_, err = svc.Update(ctx, 999, UpdateInput{ClearAssignee: true})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestList_FiltersByStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C"} {
		_, err := svc.Create(ctx, CreateInput{Title: title, TaskType: "sorting"})
		require.NoError(t, err)
	}
	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "C", all[0].Title, "newest first")

	inProgress := enums.TaskInProgress
	_, err = svc.Update(ctx, all[1].ID, UpdateInput{Status: &inProgress})
	require.NoError(t, err)

	filtered, err := svc.List(ctx, &inProgress)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "B", filtered[0].Title)

	bad := enums.TaskStatus("Paused")
	_, err = svc.List(ctx, &bad)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestSuggestAssignee_RotatesThroughWorkforce(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	first := mustCreateTestEmployee(t, client.DB(), "BRK001", "Ramesh", true)
	second := mustCreateTestEmployee(t, client.DB(), "BRK002", "Suresh", true)
	third := mustCreateTestEmployee(t, client.DB(), "BRK003", "Mahesh", true)

	// nobody assigned yet: first active employee wins
	suggestion, err := svc.SuggestAssignee(ctx, "kiln-loading")
	require.NoError(t, err)
	assert.Equal(t, first.ID, suggestion.EmployeeID)
	assert.Nil(t, suggestion.LastAssigned)

	_, err = svc.Create(ctx, CreateInput{Title: "T1", TaskType: "kiln-loading", AssigneeID: &first.ID})
	require.NoError(t, err)

	suggestion, err = svc.SuggestAssignee(ctx, "kiln-loading")
	require.NoError(t, err)
	assert.Equal(t, second.ID, suggestion.EmployeeID, "never-assigned beats assigned")

	_, err = svc.Create(ctx, CreateInput{Title: "T2", TaskType: "kiln-loading", AssigneeID: &second.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Title: "T3", TaskType: "kiln-loading", AssigneeID: &third.ID})
	require.NoError(t, err)

	// everyone has history: least recently assigned wins
	suggestion, err = svc.SuggestAssignee(ctx, "kiln-loading")
	require.NoError(t, err)
	assert.Equal(t, first.ID, suggestion.EmployeeID)
	require.NotNil(t, suggestion.LastAssigned)

	// rotation history is tracked per task type
	suggestion, err = svc.SuggestAssignee(ctx, "sorting")
	require.NoError(t, err)
	assert.Equal(t, first.ID, suggestion.EmployeeID)
	assert.Nil(t, suggestion.LastAssigned)

	_, err = svc.SuggestAssignee(ctx, "")
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestSuggestAssignee_NoActiveEmployees(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	mustCreateTestEmployee(t, client.DB(), "BRK001", "Gone", false)

	_, err := svc.SuggestAssignee(ctx, "sorting")
	assertCode(t, err, pkgerrors.CodeNotFound)
}
