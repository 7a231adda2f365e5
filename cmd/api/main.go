package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahtycare/sahty/internal/config"
	v1 "github.com/sahtycare/sahty/internal/handler/v1"
	"github.com/sahtycare/sahty/internal/repository"
	"github.com/sahtycare/sahty/internal/service"
	"github.com/sahtycare/sahty/pkg/auth"
	"github.com/sahtycare/sahty/pkg/database"
	"github.com/sahtycare/sahty/pkg/logger"
	"github.com/sahtycare/sahty/pkg/metrics"
	"github.com/sahtycare/sahty/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting sahty api",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		log.Fatal("failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	collector := metrics.NewCollector("sahty")
	jwtManager := auth.NewJWTManager(cfg.JWT)

	txManager := repository.NewManager(db)
	userRepo := repository.NewUserRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	pharmacistRepo := repository.NewPharmacistRepository(db)
	medicationRepo := repository.NewMedicationRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	prescriptionRepo := repository.NewPrescriptionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, log)
	defer auditSvc.Shutdown()

	notificationSvc := service.NewNotificationService(notificationRepo, log)
	userSvc := service.NewUserService(userRepo, doctorRepo, patientRepo, pharmacistRepo, appointmentRepo, prescriptionRepo, txManager, auditSvc, log)
	authSvc := service.NewAuthService(userRepo, userSvc, jwtManager, txManager, auditSvc, log)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, doctorRepo, patientRepo, notificationSvc, txManager, auditSvc, log)
	prescriptionSvc := service.NewPrescriptionService(prescriptionRepo, doctorRepo, patientRepo, pharmacistRepo, medicationRepo, notificationSvc, txManager, auditSvc, log)
	doctorSvc := service.NewDoctorService(doctorRepo, userRepo, appointmentRepo, prescriptionRepo, txManager, auditSvc, log)
	patientSvc := service.NewPatientService(patientRepo, userRepo, appointmentRepo, prescriptionRepo, txManager, auditSvc, log)
	pharmacistSvc := service.NewPharmacistService(pharmacistRepo, userRepo, prescriptionRepo, txManager, auditSvc, log)
	medicationSvc := service.NewMedicationService(medicationRepo, prescriptionRepo, txManager, log)

	seedAdmin(cfg.Seed, userSvc, log)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	router := v1.NewRouter(
		v1.NewAuthHandler(authSvc),
		v1.NewUserHandler(userSvc, collector),
		v1.NewAppointmentHandler(appointmentSvc, collector),
		v1.NewPrescriptionHandler(prescriptionSvc, collector),
		v1.NewNotificationHandler(notificationSvc),
		v1.NewCatalogHandler(doctorSvc, patientSvc, pharmacistSvc, medicationSvc, collector),
		jwtManager,
		collector,
		log,
	)
	router.Register(engine)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("http server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("stopped")
}

// seedAdmin creates the bootstrap admin account when configured. An
// already-seeded email is not an error on restart.
func seedAdmin(cfg config.SeedConfig, userSvc *service.UserService, log *zap.Logger) {
	if cfg.AdminEmail == "" {
		return
	}

	_, err := userSvc.CreateUser(context.Background(), cfg.AdminEmail, cfg.AdminPassword, "admin", "Administrator", uuid.Nil, "")
	switch {
	case err == nil:
		log.Info("seeded admin account", zap.String("email", cfg.AdminEmail))
	case errors.Is(err, service.ErrEmailInUse):
		log.Debug("admin account already present", zap.String("email", cfg.AdminEmail))
	default:
		log.Fatal("failed to seed admin account", zap.Error(err))
	}
}
