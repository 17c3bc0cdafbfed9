package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stcolombus/campus-portal/internal/config"
	"github.com/stcolombus/campus-portal/internal/database"
	"github.com/stcolombus/campus-portal/internal/handler"
	"github.com/stcolombus/campus-portal/internal/logger"
	"github.com/stcolombus/campus-portal/internal/mailer"
	"github.com/stcolombus/campus-portal/internal/repository"
	"github.com/stcolombus/campus-portal/internal/router"
	"github.com/stcolombus/campus-portal/internal/service"
	"github.com/stcolombus/campus-portal/internal/storage"
	"github.com/stcolombus/campus-portal/internal/validator"
	"github.com/stcolombus/campus-portal/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting campus portal")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Document Storage & Mail ───────────────────────────────────────
	var documents storage.DocumentStorage
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Storage(storage.S3Config{
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure S3 storage")
		}
		documents = s3Store
		log.Info().Str("bucket", cfg.S3Bucket).Msg("Admission documents stored in S3")
	} else {
		documents = storage.NewLocalStorage(cfg.UploadDir, "/uploads")
		log.Info().Str("dir", cfg.UploadDir).Msg("Admission documents stored on local disk")
	}

	var mail mailer.Mailer = mailer.NewLogMailer(log)
	if cfg.SendgridAPIKey != "" {
		mail = mailer.NewSendgridMailer(cfg.SendgridAPIKey, cfg.MailFromName, cfg.MailFromEmail)
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	profileRepo := repository.NewProfileRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	noticeRepo := repository.NewNoticeRepository(pool)
	admissionRepo := repository.NewAdmissionRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	mailQueue := worker.NewAdmissionMailQueue(rdb)

	authService := service.NewAuthService(cfg, rdb, profileRepo, log)
	settingService := service.NewSettingService(settingRepo, log)
	departmentService := service.NewDepartmentService(departmentRepo)
	courseService := service.NewCourseService(courseRepo)
	noticeService := service.NewNoticeService(noticeRepo, rdb, log)
	admissionService := service.NewAdmissionService(admissionRepo, settingService, documents, mailQueue, cfg.MaxUploadBytes, log)
	statsService := service.NewStatsService(memberRepo, departmentRepo, courseRepo, admissionRepo, noticeRepo)
	dashboardService := service.NewDashboardService(statsService, memberRepo, noticeRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		AuthEvents: handler.NewAuthEventsHandler(authService, log, cfg.AllowedOrigins),
		Dashboard:  handler.NewDashboardHandler(authService, dashboardService, statsService),
		Department: handler.NewDepartmentHandler(departmentService),
		Course:     handler.NewCourseHandler(courseService),
		Notice:     handler.NewNoticeHandler(noticeService),
		Admission:  handler.NewAdmissionHandler(admissionService, cfg.MaxUploadBytes),
		Setting:    handler.NewSettingHandler(settingService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	mailWorker := worker.NewAdmissionMailWorker(rdb, mail, settingService, log)
	expiryScheduler, err := worker.NewNoticeExpiryScheduler(cfg.NoticeExpirySchedule, noticeService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid notice expiry schedule")
	}

	workers.Add(2)
	go func() {
		defer workers.Done()
		mailWorker.Start(workerCtx)
	}()
	go func() {
		defer workers.Done()
		expiryScheduler.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the mail queue to drain.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
