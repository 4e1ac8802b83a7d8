package router

import (
	"time"

	"github.com/darkside779/attendance/foundation/web"
	"github.com/darkside779/attendance/internal/auth"
	"github.com/darkside779/attendance/internal/middleware"
	"github.com/darkside779/attendance/internal/pkg/config"
	"github.com/darkside779/attendance/internal/pkg/repository/postgresql"
	"github.com/darkside779/attendance/internal/repository/postgres/attendance"
	"github.com/darkside779/attendance/internal/repository/postgres/employee"
	"github.com/darkside779/attendance/internal/repository/postgres/face"
	"github.com/darkside779/attendance/internal/repository/postgres/payroll"
	"github.com/darkside779/attendance/internal/repository/postgres/shift"
	"github.com/darkside779/attendance/internal/repository/postgres/user"
	"github.com/darkside779/attendance/internal/service/extractor"
	"github.com/darkside779/attendance/internal/service/ledger"
	"github.com/darkside779/attendance/internal/service/recognition"

	"github.com/redis/go-redis/v9"

	attendance_controller "github.com/darkside779/attendance/internal/controller/http/v1/attendance"
	auth_controller "github.com/darkside779/attendance/internal/controller/http/v1/auth"
	employee_controller "github.com/darkside779/attendance/internal/controller/http/v1/employee"
	face_controller "github.com/darkside779/attendance/internal/controller/http/v1/face"
	payroll_controller "github.com/darkside779/attendance/internal/controller/http/v1/payroll"
	recognition_controller "github.com/darkside779/attendance/internal/controller/http/v1/recognition"
	reports_controller "github.com/darkside779/attendance/internal/controller/http/v1/reports"
	shift_controller "github.com/darkside779/attendance/internal/controller/http/v1/shift"
	user_controller "github.com/darkside779/attendance/internal/controller/http/v1/user"
)

type Router struct {
	*web.App
	postgresDB *postgresql.Database
	redisDB    *redis.Client
	cfg        *config.Config
	auth       *auth.Auth
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	cfg *config.Config,
	auth *auth.Auth,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		cfg,
		auth,
	}
}

func (r Router) Init() error {

	r.HandleMethodNotAllowed = true
	r.Use(middleware.CORSMiddleware(r.cfg.AllowedOrigins))

	// - postgresql
	userPostgres := user.NewRepository(r.postgresDB)
	employeePostgres := employee.NewRepository(r.postgresDB)
	facePostgres := face.NewRepository(r.postgresDB, r.redisDB)
	attendancePostgres := attendance.NewRepository(r.postgresDB)
	shiftPostgres := shift.NewRepository(r.postgresDB)
	payrollPostgres := payroll.NewRepository(r.postgresDB)

	// services
	extractorTimeout, err := time.ParseDuration(r.cfg.ExtractorTimeout)
	if err != nil {
		return err
	}
	extractorClient := extractor.NewClient(r.cfg.ExtractorURL, extractorTimeout)
	attendanceLedger := ledger.New(attendancePostgres)
	recognizer := recognition.New(extractorClient, facePostgres, attendanceLedger, employeePostgres, r.cfg.FaceThreshold)

	// controllers
	authController := auth_controller.NewController(userPostgres, r.cfg.PrivatePEM)
	userController := user_controller.NewController(userPostgres)
	employeeController := employee_controller.NewController(employeePostgres, facePostgres)
	faceController := face_controller.NewController(facePostgres, extractorClient)
	attendanceController := attendance_controller.NewController(attendancePostgres, attendanceLedger)
	recognitionController := recognition_controller.NewController(recognizer)
	shiftController := shift_controller.NewController(shiftPostgres)
	payrollController := payroll_controller.NewController(payrollPostgres)
	reportsController := reports_controller.NewController(attendancePostgres)

	// #auth
	r.Post("/api/v1/sign-in", authController.SignIn)
	r.Post("/api/v1/refresh-token", authController.RefreshToken)

	// #user
	r.Get("/api/v1/user/list", userController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/user/:id", userController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/user/create", userController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/user/:id", userController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/user/:id", userController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #employee
	r.Get("/api/v1/employee/list", employeeController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard))
	r.Get("/api/v1/employee/:id", employeeController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard))
	r.Post("/api/v1/employee/create", employeeController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/employee/:id", employeeController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/employee/:id", employeeController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/employee/:id/badge", employeeController.GetBadge, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Get("/api/v1/employee/:id/faces", employeeController.GetFaceDescriptors, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Delete("/api/v1/employee/:id/faces", employeeController.DeleteFaceDescriptors, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #face enrollment
	r.Post("/api/v1/face/enroll", faceController.Enroll, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/face/detect", faceController.Detect, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/face/registration-status", faceController.GetRegistrationStatus, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard))

	// #recognition kiosk, unauthenticated
	r.Post("/api/v1/recognition/check-in", recognitionController.CheckIn)
	r.Post("/api/v1/recognition/check-out", recognitionController.CheckOut)
	r.Post("/api/v1/recognition/recognize", recognitionController.Recognize)

	// #attendance
	r.Get("/api/v1/attendance/list", attendanceController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard))
	r.Get("/api/v1/attendance/summary", attendanceController.GetSummary, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard))
	r.Get("/api/v1/attendance/modifications", attendanceController.GetAllModifications, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Get("/api/v1/attendance/:id", attendanceController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard))
	r.Patch("/api/v1/attendance/:id/modify", attendanceController.Modify, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Get("/api/v1/attendance/:id/history", attendanceController.GetModificationHistory, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Get("/api/v1/attendance", attendanceController.GetStatistics, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard))
	r.Get("/api/v1/attendance/piechart", attendanceController.GetPieChartStatistics, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard))
	r.Get("/api/v1/attendance/barchart", attendanceController.GetBarChartStatistics, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard))
	r.Get("/api/v1/attendance/graph", attendanceController.GetGraphStatistic, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting, auth.RoleDashboard))

	// #shift
	r.Get("/api/v1/shift/list", shiftController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Get("/api/v1/shift/:id", shiftController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Post("/api/v1/shift/create", shiftController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/shift/:id", shiftController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/shift/:id", shiftController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #payroll
	r.Get("/api/v1/payroll/period/list", payrollController.GetPeriodList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Post("/api/v1/payroll/period/create", payrollController.CreatePeriod, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Post("/api/v1/payroll/period/:id/calculate", payrollController.CalculatePeriod, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Get("/api/v1/payroll/period/:id/records", payrollController.GetRecords, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Post("/api/v1/payroll/period/:id/paid", payrollController.MarkPeriodPaid, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Delete("/api/v1/payroll/period/:id", payrollController.DeletePeriod, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/payroll/record/:id/approve", payrollController.ApproveRecord, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Get("/api/v1/payroll/period/:id/export/excel", payrollController.ExportExcel, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Get("/api/v1/payroll/period/:id/export/pdf", payrollController.ExportPDF, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))

	// #reports
	r.Get("/api/v1/reports/attendance/excel", reportsController.AttendanceExcel, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))
	r.Get("/api/v1/reports/attendance/pdf", reportsController.AttendancePDF, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleAccounting))

	return r.Run(":" + r.cfg.Port)
}
