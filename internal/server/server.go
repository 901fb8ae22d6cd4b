package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"compliance-service/internal/domain"
	"compliance-service/internal/repository"
	"compliance-service/internal/scheduler"
	"compliance-service/internal/service"

	log "github.com/sirupsen/logrus"

	"github.com/labstack/echo/v4"
)

// Trigger abstracts the scheduler's on-demand path so the server does not
// depend on the runner type directly.
type Trigger interface {
	TriggerTenant(ctx context.Context, tenantID string) (*domain.EvaluationResult, error)
	RunBatch(ctx context.Context, jobName string) *domain.JobRun
}

type Server struct {
	evaluation service.EvaluationServiceInterface
	risks      service.RiskServiceInterface
	trigger    Trigger
	jobRuns    repository.JobRunRepository
	db         *sql.DB
}

func NewServer(
	evaluation service.EvaluationServiceInterface,
	risks service.RiskServiceInterface,
	trigger Trigger,
	jobRuns repository.JobRunRepository,
	db *sql.DB,
) *Server {
	return &Server{
		evaluation: evaluation,
		risks:      risks,
		trigger:    trigger,
		jobRuns:    jobRuns,
		db:         db,
	}
}

func (s *Server) HealthCheck(c echo.Context) error {
	if err := s.db.Ping(); err != nil {
		log.WithField("error", err).Error("Health check failed: database is down")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  "database connection error",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) EvaluateControl(c echo.Context) error {
	tenantID := c.Param("tenantId")
	controlID := c.Param("controlId")
	if tenantID == "" || controlID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "tenant ID and control ID are required",
		})
	}

	ctx := c.Request().Context()
	eval, err := s.evaluation.EvaluateControl(ctx, tenantID, controlID)
	if err != nil {
		if errors.Is(err, domain.ErrControlNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "control not found",
			})
		}
		log.WithError(err).WithFields(log.Fields{
			"tenant_id":  tenantID,
			"control_id": controlID,
		}).Error("Failed to evaluate control")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}

	return c.JSON(http.StatusOK, eval)
}

func (s *Server) EvaluateObligation(c echo.Context) error {
	tenantID := c.Param("tenantId")
	obligationID := c.Param("obligationId")
	if tenantID == "" || obligationID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "tenant ID and obligation ID are required",
		})
	}

	ctx := c.Request().Context()
	eval, err := s.evaluation.EvaluateObligation(ctx, tenantID, obligationID)
	if err != nil {
		if errors.Is(err, domain.ErrObligationNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "obligation not found",
			})
		}
		log.WithError(err).WithFields(log.Fields{
			"tenant_id":     tenantID,
			"obligation_id": obligationID,
		}).Error("Failed to evaluate obligation")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}

	return c.JSON(http.StatusOK, eval)
}

func (s *Server) GetReadiness(c echo.Context) error {
	tenantID := c.Param("tenantId")
	if tenantID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "tenant ID is required",
		})
	}

	ctx := c.Request().Context()
	score, err := s.evaluation.ComputeReadiness(ctx, tenantID)
	if err != nil {
		log.WithError(err).WithField("tenant_id", tenantID).Error("Failed to compute readiness")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}

	return c.JSON(http.StatusOK, score)
}

func (s *Server) GenerateRisks(c echo.Context) error {
	tenantID := c.Param("tenantId")
	if tenantID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "tenant ID is required",
		})
	}

	ctx := c.Request().Context()
	risks, err := s.risks.GenerateAndPersist(ctx, tenantID)
	if err != nil {
		log.WithError(err).WithField("tenant_id", tenantID).Error("Failed to generate risks")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"risks": risks,
		"count": len(risks),
	})
}

func (s *Server) RunFullEvaluation(c echo.Context) error {
	tenantID := c.Param("tenantId")
	if tenantID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "tenant ID is required",
		})
	}

	ctx := c.Request().Context()
	result, err := s.trigger.TriggerTenant(ctx, tenantID)
	if err != nil {
		log.WithError(err).WithField("tenant_id", tenantID).Error("Manual evaluation failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) TriggerBatch(c echo.Context) error {
	ctx := c.Request().Context()
	run := s.trigger.RunBatch(ctx, scheduler.JobManual)
	if run == nil {
		return c.JSON(http.StatusConflict, map[string]string{
			"error": "a batch evaluation is already running",
		})
	}

	return c.JSON(http.StatusOK, run)
}

func (s *Server) ListJobRuns(c echo.Context) error {
	limit := 20
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	ctx := c.Request().Context()
	runs, err := s.jobRuns.List(ctx, limit)
	if err != nil {
		log.WithError(err).Error("Failed to list job runs")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}
	if runs == nil {
		runs = []domain.JobRun{}
	}

	return c.JSON(http.StatusOK, runs)
}
