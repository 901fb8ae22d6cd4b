package service

import (
	"math"
	"time"

	"compliance-service/internal/domain"
)

// expiringSoonWindowDays is the inclusive number of days before expiry at
// which evidence is flagged EXPIRING_SOON.
const expiringSoonWindowDays = 7

// FreshnessResult is the output of the freshness calculation for one piece
// of evidence.
type FreshnessResult struct {
	Freshness       domain.Freshness
	ExpiresAt       *time.Time
	DaysUntilExpiry int
}

// ComputeFreshness converts an upload timestamp and a cadence rule into an
// expiry date and a freshness state. Pure: identical inputs and the same
// `now` always produce the same result.
func ComputeFreshness(uploadedAt *time.Time, cadence domain.CadenceType, reviewIntervalMonths *int, now time.Time) FreshnessResult {
	if uploadedAt == nil {
		return FreshnessResult{Freshness: domain.FreshnessMissing}
	}

	// ON_CHANGE evidence stays valid until superseded by a newer upload.
	if cadence == domain.CadenceOnChange {
		return FreshnessResult{Freshness: domain.FreshnessFresh}
	}

	expiresAt := expiryFor(*uploadedAt, cadence, reviewIntervalMonths)
	days := int(math.Floor(expiresAt.Sub(now).Hours() / 24))

	freshness := domain.FreshnessFresh
	switch {
	case days < 0:
		freshness = domain.FreshnessStale
	case days <= expiringSoonWindowDays:
		freshness = domain.FreshnessExpiringSoon
	}

	return FreshnessResult{
		Freshness:       freshness,
		ExpiresAt:       &expiresAt,
		DaysUntilExpiry: days,
	}
}

func expiryFor(uploadedAt time.Time, cadence domain.CadenceType, reviewIntervalMonths *int) time.Time {
	switch cadence {
	case domain.CadenceContinuous, domain.CadenceMonthly:
		return uploadedAt.AddDate(0, 1, 0)
	case domain.CadenceQuarterly:
		return uploadedAt.AddDate(0, 3, 0)
	case domain.CadenceAnnual, domain.CadenceOncePerInspection:
		return uploadedAt.AddDate(1, 0, 0)
	default:
		// Unrecognized cadence: fall back to the explicit review interval
		// when set, otherwise one month.
		if reviewIntervalMonths != nil && *reviewIntervalMonths > 0 {
			return uploadedAt.AddDate(0, *reviewIntervalMonths, 0)
		}
		return uploadedAt.AddDate(0, 1, 0)
	}
}
