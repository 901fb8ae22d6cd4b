package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"compliance-service/internal/domain"
	"compliance-service/internal/repository"

	log "github.com/sirupsen/logrus"
)

// EvaluationService walks the obligation → control → requirement tree and
// produces the transient evaluation aggregates. Every call re-reads current
// artifact-link state; nothing is cached between runs.
type EvaluationService struct {
	obligations repository.ObligationRepository
	controls    repository.ControlRepository
	artifacts   repository.ArtifactRepository
	now         Clock
}

func NewEvaluationService(
	obligations repository.ObligationRepository,
	controls repository.ControlRepository,
	artifacts repository.ArtifactRepository,
	now Clock,
) *EvaluationService {
	if now == nil {
		now = time.Now
	}
	return &EvaluationService{
		obligations: obligations,
		controls:    controls,
		artifacts:   artifacts,
		now:         now,
	}
}

// EvaluateRequirement classifies one evidence requirement against its most
// relevant artifact.
func (s *EvaluationService) EvaluateRequirement(ctx context.Context, tenantID string, req domain.EvidenceRequirement) (domain.EvidenceEvaluation, error) {
	eval := domain.EvidenceEvaluation{
		RequirementID:   req.ID,
		RequirementName: req.Name,
	}

	artifact, err := s.artifacts.LatestLinked(ctx, tenantID, req.ID)
	if err != nil {
		return eval, fmt.Errorf("failed to evaluate requirement %s: %w", req.ID, err)
	}

	if artifact == nil {
		eval.Status = domain.EvidenceFail
		eval.Freshness = domain.FreshnessMissing
		eval.Reason = "missing evidence"
		return eval, nil
	}

	eval.ArtifactID = &artifact.ID
	eval.UploadedAt = artifact.UploadedAt

	if req.Required && !artifact.Approved {
		eval.Status = domain.EvidenceWarn
		eval.Freshness = domain.FreshnessPendingApproval
		eval.Reason = "not approved"
		return eval, nil
	}

	fr := ComputeFreshness(artifact.UploadedAt, req.Cadence, req.ReviewIntervalMonths, s.now())
	eval.Freshness = fr.Freshness
	eval.ExpiresAt = fr.ExpiresAt
	eval.DaysUntilExpiry = fr.DaysUntilExpiry

	switch fr.Freshness {
	case domain.FreshnessMissing:
		eval.Status = domain.EvidenceFail
		eval.Reason = "missing evidence"
	case domain.FreshnessStale:
		eval.Status = domain.EvidenceFail
		eval.Reason = fmt.Sprintf("evidence is %d days overdue", -fr.DaysUntilExpiry)
	case domain.FreshnessExpiringSoon:
		eval.Status = domain.EvidenceWarn
		eval.Reason = fmt.Sprintf("evidence expires in %d days", fr.DaysUntilExpiry)
	default:
		eval.Status = domain.EvidencePass
		eval.Reason = "evidence is fresh"
	}

	return eval, nil
}

// EvaluateControl evaluates every requirement of the control and rolls the
// results up. A control id that does not belong to the tenant is a hard
// not-found error, never evaluated against another tenant's data.
func (s *EvaluationService) EvaluateControl(ctx context.Context, tenantID, controlID string) (*domain.ControlEvaluation, error) {
	control, err := s.controls.GetByID(ctx, tenantID, controlID)
	if err != nil {
		return nil, err
	}
	return s.evaluateControl(ctx, tenantID, control)
}

func (s *EvaluationService) evaluateControl(ctx context.Context, tenantID string, control *domain.Control) (*domain.ControlEvaluation, error) {
	eval := &domain.ControlEvaluation{
		ControlID:   control.ID,
		ControlCode: control.Code,
	}

	if len(control.Requirements) == 0 {
		eval.Status = domain.RollupNotEvaluated
		return eval, nil
	}

	var passCount, warnCount, failCount int
	for _, req := range control.Requirements {
		ev, err := s.EvaluateRequirement(ctx, tenantID, req)
		if err != nil {
			return nil, err
		}
		eval.Evidence = append(eval.Evidence, ev)
		switch ev.Status {
		case domain.EvidencePass:
			passCount++
		case domain.EvidenceWarn:
			warnCount++
		case domain.EvidenceFail:
			failCount++
		}
	}

	switch {
	case failCount > 0:
		eval.Status = domain.RollupFail
	case warnCount > 0:
		eval.Status = domain.RollupPartial
	default:
		eval.Status = domain.RollupPass
	}
	eval.PassRate = percent(float64(passCount), len(control.Requirements))

	return eval, nil
}

// EvaluateObligation evaluates every control linked to the obligation and
// rolls up. Same tenant-isolation rule as EvaluateControl.
func (s *EvaluationService) EvaluateObligation(ctx context.Context, tenantID, obligationID string) (*domain.ObligationEvaluation, error) {
	obligation, err := s.obligations.GetByID(ctx, tenantID, obligationID)
	if err != nil {
		return nil, err
	}
	return s.evaluateObligation(ctx, tenantID, obligation)
}

func (s *EvaluationService) evaluateObligation(ctx context.Context, tenantID string, obligation *domain.Obligation) (*domain.ObligationEvaluation, error) {
	eval := &domain.ObligationEvaluation{
		ObligationID:   obligation.ID,
		ObligationCode: obligation.Code,
		Domain:         obligation.Domain,
		Severity:       obligation.Severity,
	}

	controls, err := s.obligations.ListControls(ctx, obligation.ID)
	if err != nil {
		return nil, err
	}

	if len(controls) == 0 {
		eval.Status = domain.RollupNotEvaluated
		return eval, nil
	}

	var passing int
	for i := range controls {
		ce, err := s.evaluateControl(ctx, tenantID, &controls[i])
		if err != nil {
			return nil, err
		}
		eval.Controls = append(eval.Controls, *ce)
		if ce.Status == domain.RollupPass {
			passing++
		}
	}

	switch {
	case passing == len(controls):
		eval.Status = domain.RollupPass
	case passing == 0:
		eval.Status = domain.RollupFail
	default:
		eval.Status = domain.RollupPartial
	}
	eval.PassRate = percent(float64(passing), len(controls))

	log.WithFields(log.Fields{
		"tenant_id":  tenantID,
		"obligation": obligation.Code,
		"status":     eval.Status,
		"pass_rate":  eval.PassRate,
	}).Debug("Obligation evaluated")

	return eval, nil
}

// percent rounds 100*credit/total, 0 when there is nothing to count. All
// score and pass-rate math goes through here so every aggregation rounds at
// the same point.
func percent(credit float64, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * credit / float64(total)))
}

// rollupCredit is the partial-credit weight of a rollup status, shared by
// the per-domain and overall readiness aggregations.
func rollupCredit(status domain.RollupStatus) float64 {
	switch status {
	case domain.RollupPass:
		return 1
	case domain.RollupPartial:
		return 0.5
	default:
		return 0
	}
}
