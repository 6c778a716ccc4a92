package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academia-api/api/swagger"
	"github.com/noah-isme/academia-api/internal/handler"
	"github.com/noah-isme/academia-api/internal/repository"
	"github.com/noah-isme/academia-api/internal/service"
	"github.com/noah-isme/academia-api/pkg/cache"
	"github.com/noah-isme/academia-api/pkg/config"
	"github.com/noah-isme/academia-api/pkg/database"
	"github.com/noah-isme/academia-api/pkg/jobs"
	"github.com/noah-isme/academia-api/pkg/logger"
	"github.com/noah-isme/academia-api/pkg/notify"
	"github.com/noah-isme/academia-api/pkg/storage"
)

// @title Academia API
// @version 1.0.0
// @description Enrollment, payments and attendance for an academic institution
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	reporter := logger.NewRollbarReporter(cfg)
	defer reporter.Close()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	app, cleanup, err := buildApp(ctx, cfg, db, logr)
	if err != nil {
		logr.Fatal("failed to build application", zap.Error(err))
	}
	defer cleanup()

	router := newRouter(cfg, app, logr, reporter)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// application holds every handler the router mounts plus shared infrastructure.
type application struct {
	users   *repository.UserRepository
	tokens  *service.AuthService
	metrics *service.MetricsService

	auth        *handler.AuthHandler
	catalog     *handler.CatalogHandler
	schedules   *handler.ScheduleHandler
	students    *handler.StudentHandler
	teachers    *handler.TeacherHandler
	userAdmin   *handler.UserHandler
	enrollments *handler.EnrollmentHandler
	payments    *handler.PaymentHandler
	attendance  *handler.AttendanceHandler
	probes      *handler.MetricsHandler
}

func buildApp(ctx context.Context, cfg *config.Config, db *sqlx.DB, logr *zap.Logger) (*application, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	loc := cfg.Location()
	checks := map[string]handler.Pinger{"database": db}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			redisRepo := repository.NewCacheRepository(client, logr)
			cacheRepo = redisRepo
			checks["cache"] = handler.PingFunc(redisRepo.Ping)
			closers = append(closers, func() { _ = redisRepo.Close() })
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.CatalogTTL, logr, cacheRepo != nil)

	store, err := storage.NewLocalStorage(cfg.Vouchers.StorageDir)
	if err != nil {
		return nil, cleanup, fmt.Errorf("voucher storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Vouchers.SignedURLSecret, cfg.Vouchers.SignedURLTTL)

	var delivery notify.Notifier = notify.NewLogNotifier(logr)
	if cfg.Notify.SendgridAPIKey != "" {
		delivery = notify.NewGuardianRouter(
			notify.NewSendgridNotifier(cfg.Notify.SendgridAPIKey, cfg.Notify.FromName, cfg.Notify.FromAddress),
			delivery,
		)
	}
	dispatcher := notify.NewDispatcher(delivery, jobs.QueueConfig{Workers: cfg.Notify.Workers, MaxRetries: cfg.Notify.Retries, Logger: logr})
	dispatcher.Start(ctx)
	closers = append(closers, dispatcher.Stop)

	users := repository.NewUserRepository(db)
	students := repository.NewStudentRepository(db)
	teachers := repository.NewTeacherRepository(db)
	cycles := repository.NewCycleRepository(db)
	courses := repository.NewCourseRepository(db)
	packages := repository.NewPackageRepository(db)
	offerings := repository.NewOfferingRepository(db)
	schedules := repository.NewScheduleRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	payments := repository.NewPaymentRepository(db)
	attendance := repository.NewAttendanceRepository(db)

	authSvc := service.NewAuthService(users, students, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	catalogSvc := service.NewCatalogService(cycles, courses, packages, offerings, cacheSvc, cfg.Cache.CatalogTTL, validate, logr)
	scheduleSvc := service.NewScheduleService(schedules, cycles, cacheSvc, cfg.Cache.CatalogTTL, loc, validate, logr)
	studentSvc := service.NewStudentService(students, authSvc, validate, logr)
	teacherSvc := service.NewTeacherService(db, teachers, users, cacheSvc, validate, logr)
	userSvc := service.NewUserService(users, validate, logr)
	paymentSvc := service.NewPaymentService(payments, enrollments, store, signer, metrics, service.PaymentConfig{
		InstallmentDueDays: cfg.Payments.InstallmentDueDays,
		MaxVoucherBytes:    cfg.Vouchers.MaxFileSizeBytes,
		AllowedMIMEs:       cfg.Vouchers.AllowedMIMEs,
		Institution:        cfg.Notify.FromName,
		Location:           loc,
	}, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollments, paymentSvc, metrics, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendance, schedules, dispatcher, metrics, cfg.Attendance.AbsenceAlertThreshold, loc, validate, logr)

	return &application{
		users:       users,
		tokens:      authSvc,
		metrics:     metrics,
		auth:        handler.NewAuthHandler(authSvc),
		catalog:     handler.NewCatalogHandler(catalogSvc),
		schedules:   handler.NewScheduleHandler(scheduleSvc),
		students:    handler.NewStudentHandler(studentSvc, attendanceSvc),
		teachers:    handler.NewTeacherHandler(teacherSvc),
		userAdmin:   handler.NewUserHandler(userSvc),
		enrollments: handler.NewEnrollmentHandler(enrollmentSvc),
		payments:    handler.NewPaymentHandler(paymentSvc, cfg.Vouchers.MaxFileSizeBytes, cfg.APIPrefix+voucherDownloadRoute),
		attendance:  handler.NewAttendanceHandler(attendanceSvc),
		probes:      handler.NewMetricsHandler(metrics, checks),
	}, cleanup, nil
}
