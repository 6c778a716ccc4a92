package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/academia-api/internal/middleware"
	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/pkg/config"
	"github.com/noah-isme/academia-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academia-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academia-api/pkg/middleware/requestid"
)

const voucherDownloadRoute = "/vouchers/download"

var (
	admin   = string(models.RoleAdmin)
	teacher = string(models.RoleTeacher)
	student = string(models.RoleStudent)
)

func newRouter(cfg *config.Config, app *application, logr *zap.Logger, reporter logger.ErrorReporter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(app.metrics))
	r.Use(logger.ErrorMiddleware(logr, reporter))

	r.GET("/health", app.probes.Health)
	r.GET("/ready", app.probes.Ready)
	r.GET("/metrics", app.probes.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(app.users, logr, action, resource)
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.UUIDParams("id"))

	// Public surface: login, self-registration, catalog reads and signed downloads.
	api.POST("/auth/login", app.auth.Login)
	api.POST("/students/register", app.students.Register)
	api.GET(voucherDownloadRoute, app.payments.DownloadVoucher)

	api.GET("/cycles", app.catalog.ListCycles)
	api.GET("/cycles/:id", app.catalog.GetCycle)
	api.GET("/courses", app.catalog.ListCourses)
	api.GET("/courses/:id", app.catalog.GetCourse)
	api.GET("/packages", app.catalog.ListPackages)
	api.GET("/packages/:id", app.catalog.GetPackage)
	api.GET("/course-offerings", app.catalog.ListCourseOfferings)
	api.GET("/course-offerings/:id", app.catalog.GetCourseOffering)
	api.GET("/course-offerings/:id/calendar.ics", app.schedules.Calendar)
	api.GET("/package-offerings", app.catalog.ListPackageOfferings)
	api.GET("/package-offerings/:id", app.catalog.GetPackageOffering)
	api.GET("/schedules", app.schedules.List)
	api.GET("/schedules/:id", app.schedules.Get)

	secured := api.Group("")
	secured.Use(middleware.JWT(app.tokens))

	secured.GET("/auth/me", app.auth.Me)
	secured.POST("/auth/change-password", app.auth.ChangePassword)

	adminOnly := middleware.RBAC(admin)

	secured.POST("/cycles", adminOnly, audit(models.AuditActionCreate, "cycle"), app.catalog.CreateCycle)
	secured.PATCH("/cycles/:id", adminOnly, audit(models.AuditActionUpdate, "cycle"), app.catalog.UpdateCycle)
	secured.DELETE("/cycles/:id", adminOnly, audit(models.AuditActionDelete, "cycle"), app.catalog.DeleteCycle)
	secured.POST("/courses", adminOnly, audit(models.AuditActionCreate, "course"), app.catalog.CreateCourse)
	secured.PATCH("/courses/:id", adminOnly, audit(models.AuditActionUpdate, "course"), app.catalog.UpdateCourse)
	secured.DELETE("/courses/:id", adminOnly, audit(models.AuditActionDelete, "course"), app.catalog.DeleteCourse)
	secured.POST("/packages", adminOnly, audit(models.AuditActionCreate, "package"), app.catalog.CreatePackage)
	secured.PATCH("/packages/:id", adminOnly, audit(models.AuditActionUpdate, "package"), app.catalog.UpdatePackage)
	secured.DELETE("/packages/:id", adminOnly, audit(models.AuditActionDelete, "package"), app.catalog.DeletePackage)
	secured.POST("/course-offerings", adminOnly, audit(models.AuditActionCreate, "course_offering"), app.catalog.CreateCourseOffering)
	secured.PATCH("/course-offerings/:id", adminOnly, audit(models.AuditActionUpdate, "course_offering"), app.catalog.UpdateCourseOffering)
	secured.DELETE("/course-offerings/:id", adminOnly, audit(models.AuditActionDelete, "course_offering"), app.catalog.DeleteCourseOffering)
	secured.POST("/package-offerings", adminOnly, audit(models.AuditActionCreate, "package_offering"), app.catalog.CreatePackageOffering)
	secured.DELETE("/package-offerings/:id", adminOnly, audit(models.AuditActionDelete, "package_offering"), app.catalog.DeletePackageOffering)
	secured.POST("/schedules", adminOnly, audit(models.AuditActionCreate, "schedule"), app.schedules.Create)
	secured.PATCH("/schedules/:id", adminOnly, audit(models.AuditActionUpdate, "schedule"), app.schedules.Update)
	secured.DELETE("/schedules/:id", adminOnly, audit(models.AuditActionDelete, "schedule"), app.schedules.Delete)

	secured.GET("/students", middleware.RBAC(admin, teacher), app.students.List)
	secured.GET("/students/:id", middleware.RBAC(admin, teacher, middleware.Self), app.students.Get)
	secured.PATCH("/students/:id", middleware.RBAC(admin, middleware.Self), audit(models.AuditActionUpdate, "student"), app.students.Update)
	secured.DELETE("/students/:id", adminOnly, audit(models.AuditActionDelete, "student"), app.students.Delete)
	secured.GET("/students/:id/attendance", middleware.RBAC(admin, teacher, middleware.Self), app.students.Attendance)

	secured.GET("/teachers", adminOnly, app.teachers.List)
	secured.GET("/teachers/me/students", middleware.RBAC(teacher), app.teachers.MyStudents)
	secured.GET("/teachers/:id", middleware.RBAC(admin, middleware.Self), app.teachers.Get)
	secured.GET("/teachers/:id/students", middleware.RBAC(admin, middleware.Self), app.teachers.Students)
	secured.POST("/teachers", adminOnly, audit(models.AuditActionCreate, "teacher"), app.teachers.Create)
	secured.PATCH("/teachers/:id", adminOnly, audit(models.AuditActionUpdate, "teacher"), app.teachers.Update)
	secured.DELETE("/teachers/:id", adminOnly, audit(models.AuditActionDelete, "teacher"), app.teachers.Delete)
	secured.POST("/teachers/:id/reset-password", adminOnly, audit(models.AuditActionPasswordReset, "teacher"), app.teachers.ResetPassword)

	secured.GET("/users", adminOnly, app.userAdmin.List)
	secured.GET("/users/:id", adminOnly, app.userAdmin.Get)
	secured.POST("/users", adminOnly, app.userAdmin.Create)
	secured.PATCH("/users/:id/active", adminOnly, app.userAdmin.SetActive)

	secured.POST("/enrollments", middleware.RBAC(admin, student), app.enrollments.Enroll)
	secured.GET("/enrollments", middleware.RBAC(admin, student), app.enrollments.List)
	secured.GET("/enrollments/export", adminOnly, app.enrollments.Export)
	secured.GET("/enrollments/offering/:kind/:id", middleware.RBAC(admin, teacher), app.enrollments.ListByOffering)
	secured.GET("/enrollments/:id", middleware.RBAC(admin, student), app.enrollments.Get)
	secured.PATCH("/enrollments/:id/status", adminOnly, audit(models.AuditActionStatusChange, "enrollment"), app.enrollments.SetStatus)
	secured.DELETE("/enrollments/:id", adminOnly, audit(models.AuditActionDelete, "enrollment"), app.enrollments.Delete)
	secured.GET("/enrollments/:id/payment-plan", middleware.RBAC(admin, student), app.payments.PlanByEnrollment)

	secured.GET("/installments/pending", adminOnly, app.payments.ListPending)
	secured.POST("/installments/:id/voucher", middleware.RBAC(student), app.payments.SubmitVoucher)
	secured.GET("/installments/:id/voucher-link", middleware.RBAC(admin, student), app.payments.VoucherLink)
	secured.GET("/installments/:id/receipt", middleware.RBAC(admin, student), app.payments.Receipt)
	secured.POST("/installments/:id/approve", adminOnly, audit(models.AuditActionInstallmentReview, "installment"), app.payments.Approve)
	secured.POST("/installments/:id/reject", adminOnly, audit(models.AuditActionInstallmentReview, "installment"), app.payments.Reject)

	secured.POST("/attendance", middleware.RBAC(admin, teacher), app.attendance.Mark)
	secured.GET("/schedules/:id/attendance", middleware.RBAC(admin, teacher), app.attendance.BySchedule)

	return r
}
