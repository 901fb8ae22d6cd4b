package service

import (
	"context"
	"fmt"

	"compliance-service/internal/domain"
	"compliance-service/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RiskService derives risk items from the evaluation tree and replaces the
// tenant's auto-generated risk set. Generation always re-walks the tree so
// the output reflects current evidence state.
type RiskService struct {
	evaluator *EvaluationService
	risks     repository.RiskRepository
}

func NewRiskService(evaluator *EvaluationService, risks repository.RiskRepository) *RiskService {
	return &RiskService{evaluator: evaluator, risks: risks}
}

// GenerateRisks walks every obligation of the tenant and emits one risk
// candidate per triggering condition. Deduplication against previous runs is
// the persister's job, not the generator's.
func (s *RiskService) GenerateRisks(ctx context.Context, tenantID string) ([]domain.RiskItem, error) {
	obligations, err := s.evaluator.obligations.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var items []domain.RiskItem
	for i := range obligations {
		eval, err := s.evaluator.evaluateObligation(ctx, tenantID, &obligations[i])
		if err != nil {
			return nil, fmt.Errorf("failed to generate risks for obligation %s: %w", obligations[i].Code, err)
		}

		severity := riskSeverity(obligations[i].Severity)
		obligationID := obligations[i].ID

		for ci := range eval.Controls {
			ce := &eval.Controls[ci]
			controlID := ce.ControlID

			for _, ev := range ce.Evidence {
				switch ev.Freshness {
				case domain.FreshnessMissing:
					items = append(items, newRiskItem(tenantID, domain.RiskMissingEvidence, severity, &obligationID, &controlID,
						fmt.Sprintf("Missing evidence: %s", ev.RequirementName),
						fmt.Sprintf("No evidence document is linked to requirement %q of control %s.", ev.RequirementName, ce.ControlCode),
					))
				case domain.FreshnessStale:
					items = append(items, newRiskItem(tenantID, domain.RiskStaleEvidence, severity, &obligationID, &controlID,
						fmt.Sprintf("Stale evidence: %s", ev.RequirementName),
						fmt.Sprintf("Evidence for requirement %q of control %s is %d days overdue.", ev.RequirementName, ce.ControlCode, -ev.DaysUntilExpiry),
					))
				}
			}

			if ce.Status == domain.RollupFail {
				items = append(items, newRiskItem(tenantID, domain.RiskFailedControl, severity, &obligationID, &controlID,
					fmt.Sprintf("Failed control: %s", ce.ControlCode),
					fmt.Sprintf("Control %s does not satisfy obligation %s (pass rate %d%%).", ce.ControlCode, eval.ObligationCode, ce.PassRate),
				))
			}
		}
	}

	log.WithFields(log.Fields{
		"tenant_id": tenantID,
		"count":     len(items),
	}).Info("Risk candidates generated")

	return items, nil
}

// GenerateAndPersist generates the candidate set and swaps it in as the
// tenant's auto-generated risks. Running it twice on unchanged state yields
// the same set size with no duplicates or orphans.
func (s *RiskService) GenerateAndPersist(ctx context.Context, tenantID string) ([]domain.RiskItem, error) {
	items, err := s.GenerateRisks(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := s.risks.ReplaceAutoGenerated(ctx, tenantID, items); err != nil {
		return nil, err
	}

	return items, nil
}

func newRiskItem(tenantID string, kind domain.RiskKind, severity domain.Severity, obligationID, controlID *string, title, description string) domain.RiskItem {
	return domain.RiskItem{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		Kind:         kind,
		Severity:     severity,
		Status:       domain.RiskStatusOpen,
		ObligationID: obligationID,
		ControlID:    controlID,
		Title:        domain.AutoRiskPrefix + title,
		Description:  description,
	}
}

// riskSeverity maps an obligation severity onto the risk item. Anything
// unmapped defaults to MEDIUM.
func riskSeverity(s domain.Severity) domain.Severity {
	switch s {
	case domain.SeverityLow, domain.SeverityMedium, domain.SeverityHigh, domain.SeverityCritical:
		return s
	default:
		return domain.SeverityMedium
	}
}
