package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	attendancesvc "github.com/Ani07-05/brickdash/internal/attendance"
	authsvc "github.com/Ani07-05/brickdash/internal/auth"
	batchsvc "github.com/Ani07-05/brickdash/internal/batches"
	"github.com/Ani07-05/brickdash/internal/dashboard"
	employeesvc "github.com/Ani07-05/brickdash/internal/employees"
	inventorysvc "github.com/Ani07-05/brickdash/internal/inventory"
	ordersvc "github.com/Ani07-05/brickdash/internal/orders"
	payrollsvc "github.com/Ani07-05/brickdash/internal/payroll"
	productsvc "github.com/Ani07-05/brickdash/internal/products"
	tasksvc "github.com/Ani07-05/brickdash/internal/tasks"
	pkgauth "github.com/Ani07-05/brickdash/pkg/auth"
	"github.com/Ani07-05/brickdash/pkg/auth/session"
	"github.com/Ani07-05/brickdash/pkg/config"
	"github.com/Ani07-05/brickdash/pkg/enums"
	"github.com/Ani07-05/brickdash/pkg/logger"
	"github.com/Ani07-05/brickdash/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.RefreshResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.RegisterResponse, error) {
	panic("unimplemented")
}

type stubProductService struct{}

func (stubProductService) Create(ctx context.Context, input productsvc.CreateInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) Update(ctx context.Context, id uint, input productsvc.UpdateInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) Delete(ctx context.Context, id uint) error {
	panic("unimplemented")
}

func (stubProductService) Get(ctx context.Context, id uint) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) List(ctx context.Context) ([]productsvc.ProductDTO, error) {
	return []productsvc.ProductDTO{}, nil
}

type stubInventoryService struct{}

func (stubInventoryService) UpdateStock(ctx context.Context, input inventorysvc.UpdateStockInput) (*inventorysvc.StockResult, error) {
	panic("unimplemented")
}

func (stubInventoryService) ListLogs(ctx context.Context, input inventorysvc.ListLogsInput) (*inventorysvc.LogPage, error) {
	return &inventorysvc.LogPage{}, nil
}

func (stubInventoryService) PruneLogs(ctx context.Context, olderThan time.Duration) (int64, error) {
	panic("unimplemented")
}

type stubBatchService struct{}

func (stubBatchService) ListStages(ctx context.Context) ([]batchsvc.StageDTO, error) {
	return []batchsvc.StageDTO{}, nil
}

func (stubBatchService) ListBatches(ctx context.Context, input batchsvc.ListBatchesInput) ([]batchsvc.BatchDTO, error) {
	return []batchsvc.BatchDTO{}, nil
}

func (stubBatchService) AddBatch(ctx context.Context, input batchsvc.AddBatchInput) (*batchsvc.BatchDTO, error) {
	panic("unimplemented")
}

func (stubBatchService) TransferBatch(ctx context.Context, code string, input batchsvc.TransferInput) (*batchsvc.BatchDTO, error) {
	panic("unimplemented")
}

func (stubBatchService) AdjustBatch(ctx context.Context, code string, delta int) (*batchsvc.BatchDTO, error) {
	panic("unimplemented")
}

func (stubBatchService) ReserveBatch(ctx context.Context, code string, input batchsvc.ReserveInput) (*batchsvc.BatchDTO, error) {
	panic("unimplemented")
}

func (stubBatchService) UnreserveBatch(ctx context.Context, code, orderNumber string) (*batchsvc.BatchDTO, error) {
	panic("unimplemented")
}

func (stubBatchService) DeleteBatch(ctx context.Context, code string, force bool) error {
	panic("unimplemented")
}

type stubOrderService struct{}

func (stubOrderService) Create(ctx context.Context, input ordersvc.CreateInput) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) Update(ctx context.Context, id uint, input ordersvc.UpdateInput) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) Delete(ctx context.Context, id uint) error {
	panic("unimplemented")
}

func (stubOrderService) Get(ctx context.Context, id uint) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) GetByNumber(ctx context.Context, number string) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) List(ctx context.Context, status *enums.OrderStatus) ([]ordersvc.OrderDTO, error) {
	return []ordersvc.OrderDTO{}, nil
}

type stubEmployeeService struct{}

func (stubEmployeeService) Create(ctx context.Context, input employeesvc.CreateInput) (*employeesvc.EmployeeDTO, error) {
	panic("unimplemented")
}

func (stubEmployeeService) Update(ctx context.Context, id uint, input employeesvc.UpdateInput) (*employeesvc.EmployeeDTO, error) {
	panic("unimplemented")
}

func (stubEmployeeService) Delete(ctx context.Context, id uint) error {
	panic("unimplemented")
}

func (stubEmployeeService) Get(ctx context.Context, id uint) (*employeesvc.EmployeeDTO, error) {
	panic("unimplemented")
}

func (stubEmployeeService) GetByCode(ctx context.Context, code string) (*employeesvc.EmployeeDTO, error) {
	panic("unimplemented")
}

func (stubEmployeeService) List(ctx context.Context, activeOnly bool) ([]employeesvc.EmployeeDTO, error) {
	return []employeesvc.EmployeeDTO{}, nil
}

type stubAttendanceService struct{}

func (stubAttendanceService) Mark(ctx context.Context, input attendancesvc.MarkInput) (*attendancesvc.MarkDTO, error) {
	panic("unimplemented")
}

func (stubAttendanceService) BulkSave(ctx context.Context, date time.Time, entries []attendancesvc.MarkInput) (int, error) {
	panic("unimplemented")
}

func (stubAttendanceService) MarkAll(ctx context.Context, date time.Time, status enums.AttendanceStatus) (int, error) {
	panic("unimplemented")
}

func (stubAttendanceService) Registry(ctx context.Context, date time.Time) ([]attendancesvc.RegistryRow, error) {
	return []attendancesvc.RegistryRow{}, nil
}

func (stubAttendanceService) Records(ctx context.Context, date *time.Time) ([]attendancesvc.MarkDTO, error) {
	return []attendancesvc.MarkDTO{}, nil
}

type stubTaskService struct{}

func (stubTaskService) Create(ctx context.Context, input tasksvc.CreateInput) (*tasksvc.TaskDTO, error) {
	panic("unimplemented")
}

func (stubTaskService) Update(ctx context.Context, id uint, input tasksvc.UpdateInput) (*tasksvc.TaskDTO, error) {
	panic("unimplemented")
}

func (stubTaskService) Delete(ctx context.Context, id uint) error {
	panic("unimplemented")
}

func (stubTaskService) Get(ctx context.Context, id uint) (*tasksvc.TaskDTO, error) {
	panic("unimplemented")
}

func (stubTaskService) List(ctx context.Context, status *enums.TaskStatus) ([]tasksvc.TaskDTO, error) {
	return []tasksvc.TaskDTO{}, nil
}

func (stubTaskService) SuggestAssignee(ctx context.Context, taskType string) (*tasksvc.SuggestionDTO, error) {
	panic("unimplemented")
}

type stubPayrollService struct{}

func (stubPayrollService) Generate(ctx context.Context, month, year int) (*payrollsvc.GenerateResult, error) {
	panic("unimplemented")
}

func (stubPayrollService) Report(ctx context.Context, month, year int) (*payrollsvc.ReportDTO, error) {
	return &payrollsvc.ReportDTO{Month: month, Year: year}, nil
}

func (stubPayrollService) ExportCSV(ctx context.Context, month, year int, w io.Writer) error {
	return nil
}

type stubDashboardService struct{}

func (stubDashboardService) Stats(ctx context.Context) (*dashboard.StatsDTO, error) {
	return &dashboard.StatsDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "brickdash", Env: "test", Port: 8080},
		JWT: config.JWTConfig{
			Secret:    "secret",
			Issuer:    "brickdash",
			AccessTTL: time.Hour,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Params{
		Config:     cfg,
		Logger:     logg,
		DB:         stubPinger{},
		Redis:      (*redis.Client)(nil),
		Session:    stubSessionChecker{},
		Auth:       stubAuthService{},
		Register:   stubRegisterService{},
		Products:   stubProductService{},
		Inventory:  stubInventoryService{},
		Batches:    stubBatchService{},
		Orders:     stubOrderService{},
		Employees:  stubEmployeeService{},
		Attendance: stubAttendanceService{},
		Tasks:      stubTaskService{},
		Payroll:    stubPayrollService{},
		Dashboard:  stubDashboardService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "tester",
		Role:     role,
		JTI:      session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestProtectedRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestEmployeeCanReadTasksButNotManageThem(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg, enums.RoleEmployee)

	read := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	read.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, read)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for employee task list got %d", resp.Code)
	}

	mutate := httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/5", nil)
	mutate.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, mutate)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employee task delete got %d", resp.Code)
	}
}

func TestEmployeeCannotBrowseOrders(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleEmployee))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employee orders got %d", resp.Code)
	}

	allowed := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	allowed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleSupervisor))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, allowed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for supervisor orders got %d", resp.Code)
	}
}

func TestPayrollRequiresManager(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	supervisor := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/report?month=7&year=2026", nil)
	supervisor.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleSupervisor))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, supervisor)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for supervisor payroll got %d", resp.Code)
	}

	manager := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/report?month=7&year=2026", nil)
	manager.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleManager))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, manager)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for manager payroll got %d", resp.Code)
	}
}

func TestDashboardOpenToAllRoles(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	for _, role := range []enums.UserRole{enums.RoleEmployee, enums.RoleSupervisor, enums.RoleManager} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, role))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s dashboard got %d", role, resp.Code)
		}
	}
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}
