package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ani07-05/brickdash/api/controllers"
	"github.com/Ani07-05/brickdash/api/middleware"
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
	"github.com/Ani07-05/brickdash/pkg/auth/session"
	"github.com/Ani07-05/brickdash/pkg/config"
	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/enums"
	"github.com/Ani07-05/brickdash/pkg/logger"
	"github.com/Ani07-05/brickdash/pkg/redis"
)

// Params bundles everything the router mounts.
type Params struct {
	Config *config.Config
	Logger *logger.Logger

	DB      db.Pinger
	Redis   *redis.Client
	Session session.AccessSessionChecker

	Auth       authsvc.Service
	Register   authsvc.RegisterService
	Products   productsvc.Service
	Inventory  inventorysvc.Service
	Batches    batchsvc.Service
	Orders     ordersvc.Service
	Employees  employeesvc.Service
	Attendance attendancesvc.Service
	Tasks      tasksvc.Service
	Payroll    payrollsvc.Service
	Dashboard  dashboard.Service
}

// NewRouter builds the full HTTP surface. Role gates follow the shop
// hierarchy: Manager everything, Supervisor everything except payroll
// and onboarding, Employee read-only views plus the dashboard.
func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit("login", cfg.Auth, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.Session, logg))
			r.Post("/logout", controllers.AuthLogout(p.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.RoleManager, logg))
				r.Use(middleware.Idempotency(p.Redis, logg))
				r.Post("/register", controllers.AuthRegister(p.Register, logg))
			})
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Session, logg))
		r.Use(middleware.Idempotency(p.Redis, logg))

		// Any authenticated role.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleEmployee, logg))

			r.Get("/dashboard/stats", controllers.DashboardStats(p.Dashboard, logg))

			r.Get("/tasks", controllers.TaskList(p.Tasks, logg))
			r.Get("/tasks/{taskId}", controllers.TaskDetail(p.Tasks, logg))

			r.Get("/attendance/records", controllers.AttendanceRecords(p.Attendance, logg))
			r.Get("/attendance/registry", controllers.AttendanceRegistry(p.Attendance, logg))
		})

		// Supervisor and above.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleSupervisor, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductList(p.Products, logg))
				r.Post("/", controllers.ProductCreate(p.Products, logg))
				r.Get("/{productId}", controllers.ProductDetail(p.Products, logg))
				r.Put("/{productId}", controllers.ProductUpdate(p.Products, logg))
				r.Delete("/{productId}", controllers.ProductDelete(p.Products, logg))
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Put("/stock", controllers.InventoryUpdateStock(p.Inventory, logg))
				r.Get("/logs", controllers.InventoryLogs(p.Inventory, logg))

				r.Get("/stages", controllers.StageList(p.Batches, logg))
				r.Route("/batches", func(r chi.Router) {
					r.Get("/", controllers.BatchList(p.Batches, logg))
					r.Post("/", controllers.BatchAdd(p.Batches, logg))
					r.Delete("/{code}", controllers.BatchDelete(p.Batches, logg))
					r.Post("/{code}/transfer", controllers.BatchTransfer(p.Batches, logg))
					r.Post("/{code}/adjust", controllers.BatchAdjust(p.Batches, logg))
					r.Post("/{code}/reserve", controllers.BatchReserve(p.Batches, logg))
					r.Post("/{code}/unreserve", controllers.BatchUnreserve(p.Batches, logg))
				})
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(p.Orders, logg))
				r.Post("/", controllers.OrderCreate(p.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(p.Orders, logg))
				r.Put("/{orderId}", controllers.OrderUpdate(p.Orders, logg))
				r.Delete("/{orderId}", controllers.OrderDelete(p.Orders, logg))
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", controllers.EmployeeList(p.Employees, logg))
				r.Post("/", controllers.EmployeeCreate(p.Employees, logg))
				r.Get("/{employeeId}", controllers.EmployeeDetail(p.Employees, logg))
				r.Put("/{employeeId}", controllers.EmployeeUpdate(p.Employees, logg))
				r.Delete("/{employeeId}", controllers.EmployeeDelete(p.Employees, logg))
			})

			// Attendance and task paths are split across role groups, so
			// these are registered directly instead of via Route.
			r.Post("/attendance/mark", controllers.AttendanceMark(p.Attendance, logg))
			r.Post("/attendance/bulk", controllers.AttendanceBulkSave(p.Attendance, logg))
			r.Post("/attendance/mark-all", controllers.AttendanceMarkAll(p.Attendance, logg))

			r.Post("/tasks", controllers.TaskCreate(p.Tasks, logg))
			r.Get("/tasks/suggest-assignee", controllers.TaskSuggestAssignee(p.Tasks, logg))
			r.Put("/tasks/{taskId}", controllers.TaskUpdate(p.Tasks, logg))
			r.Delete("/tasks/{taskId}", controllers.TaskDelete(p.Tasks, logg))
		})

		// Manager only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleManager, logg))

			r.Route("/payroll", func(r chi.Router) {
				r.Post("/generate", controllers.PayrollGenerate(p.Payroll, logg))
				r.Get("/report", controllers.PayrollReport(p.Payroll, logg))
				r.Get("/export", controllers.PayrollExportCSV(p.Payroll, logg))
			})
		})
	})

	return r
}
