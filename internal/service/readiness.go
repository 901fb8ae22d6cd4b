package service

import (
	"context"

	"compliance-service/internal/domain"

	log "github.com/sirupsen/logrus"
)

// ComputeReadiness evaluates every obligation of the tenant and reduces the
// results to an overall score, a score per compliance domain and a pass rate
// per obligation code. The report is advisory: it is logged and returned,
// never persisted.
func (s *EvaluationService) ComputeReadiness(ctx context.Context, tenantID string) (*domain.ReadinessScore, error) {
	obligations, err := s.obligations.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	score := &domain.ReadinessScore{
		TenantID:        tenantID,
		DomainScores:    map[domain.ComplianceDomain]int{},
		ObligationRates: map[string]int{},
		ComputedAt:      s.now(),
	}

	type tally struct {
		credit float64
		total  int
	}
	domainTallies := map[domain.ComplianceDomain]*tally{}
	var totalCredit float64

	for i := range obligations {
		eval, err := s.evaluateObligation(ctx, tenantID, &obligations[i])
		if err != nil {
			return nil, err
		}

		score.ObligationRates[eval.ObligationCode] = eval.PassRate

		switch eval.Status {
		case domain.RollupPass:
			score.PassingCount++
		case domain.RollupPartial:
			score.PartialCount++
		case domain.RollupFail:
			score.FailingCount++
		default:
			score.NotEvaluatedCount++
		}

		credit := rollupCredit(eval.Status)
		totalCredit += credit

		dt := domainTallies[eval.Domain]
		if dt == nil {
			dt = &tally{}
			domainTallies[eval.Domain] = dt
		}
		dt.credit += credit
		dt.total++
	}

	score.OverallScore = percent(totalCredit, len(obligations))
	for d, t := range domainTallies {
		score.DomainScores[d] = percent(t.credit, t.total)
	}

	log.WithFields(log.Fields{
		"tenant_id":     tenantID,
		"overall_score": score.OverallScore,
		"passing":       score.PassingCount,
		"partial":       score.PartialCount,
		"failing":       score.FailingCount,
		"not_evaluated": score.NotEvaluatedCount,
	}).Info("Readiness score computed")

	return score, nil
}
