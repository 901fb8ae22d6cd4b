package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"compliance-service/internal/config"
	"compliance-service/internal/publisher"
	"compliance-service/internal/repository"
	"compliance-service/internal/scheduler"
	"compliance-service/internal/server"
	"compliance-service/internal/service"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	log "github.com/sirupsen/logrus"

	"github.com/labstack/echo/v4"
)

func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)

	if err := godotenv.Load(); err != nil {
		log.Warn("Could not load .env file.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithField("error", err).Fatal("Could not load configuration")
	}

	log.Info("Starting database migration...")
	m, err := migrate.New("file://db/migrations", cfg.DB.URL)
	if err != nil {
		log.WithField("error", err).Fatal("Could not create migrate instance")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.WithField("error", err).Fatal("Could not apply migration")
	}
	log.Info("Database migration finished successfully.")

	db, err := sql.Open("postgres", cfg.DB.URL)
	if err != nil {
		log.WithField("error", err).Fatal("Could not connect to the database")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.DB.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		log.WithField("error", err).Fatal("Could not ping the database")
	}
	log.Info("Successfully connected to the PostgreSQL database.")

	// Create repositories
	tenantRepo := repository.NewPostgresTenantRepository(db)
	obligationRepo := repository.NewPostgresObligationRepository(db)
	controlRepo := repository.NewPostgresControlRepository(db)
	artifactRepo := repository.NewPostgresArtifactRepository(db)
	riskRepo := repository.NewPostgresRiskRepository(db)
	jobRunRepo := repository.NewPostgresJobRunRepository(db)

	// Audit trail (optional, Kafka-backed)
	var auditService *service.AuditService
	if cfg.Kafka.Enabled {
		auditPublisher, err := publisher.NewAuditPublisher(cfg.Kafka.BootstrapServers, cfg.Kafka.AuditTopic)
		if err != nil {
			log.WithField("error", err).Fatal("Could not create audit publisher")
		}
		defer auditPublisher.Close()
		auditService = service.NewAuditService(auditPublisher)
	} else {
		log.Info("Kafka audit trail disabled")
		auditService = service.NewAuditService(nil)
	}

	// Create services
	evaluationService := service.NewEvaluationService(obligationRepo, controlRepo, artifactRepo, nil)
	riskService := service.NewRiskService(evaluationService, riskRepo)
	orchestrator := service.NewOrchestrator(evaluationService, riskService, auditService, nil)

	// Scheduler
	runner := scheduler.NewRunner(orchestrator, tenantRepo, jobRunRepo, auditService, nil, cfg.Scheduler.TenantTimeout)
	if err := runner.Register(scheduler.JobNightly, cfg.Scheduler.NightlySpec); err != nil {
		log.WithField("error", err).Fatal("Could not register nightly job")
	}
	if err := runner.Register(scheduler.JobWeekly, cfg.Scheduler.WeeklySpec); err != nil {
		log.WithField("error", err).Fatal("Could not register weekly job")
	}
	runner.Start(context.Background())
	defer runner.Stop()

	// Create server
	srv := server.NewServer(evaluationService, riskService, runner, jobRunRepo, db)

	// Setup Echo
	e := echo.New()

	// Health check
	e.GET("/health", srv.HealthCheck)

	api := e.Group("/api")
	tenants := api.Group("/tenants/:tenantId")
	tenants.GET("/controls/:controlId/evaluation", srv.EvaluateControl)
	tenants.GET("/obligations/:obligationId/evaluation", srv.EvaluateObligation)
	tenants.GET("/readiness", srv.GetReadiness)
	tenants.POST("/risks/generate", srv.GenerateRisks)
	tenants.POST("/evaluation", srv.RunFullEvaluation)

	api.POST("/evaluation/trigger", srv.TriggerBatch)
	api.GET("/evaluation/jobs", srv.ListJobRuns)

	log.WithField("port", cfg.HTTP.Port).Info("Compliance service is starting with Echo")

	if err := e.Start(":" + cfg.HTTP.Port); err != nil && err != http.ErrServerClosed {
		log.WithField("error", err).Fatal("Echo server failed to start")
	}
}
