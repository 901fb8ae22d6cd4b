package service

import (
	"testing"
	"time"

	"compliance-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func uploadedDaysBeforeExpiry(cadence domain.CadenceType, days int) time.Time {
	// Work backwards so the computed expiry lands exactly `days` days from
	// testNow.
	expiry := testNow.Add(time.Duration(days) * 24 * time.Hour)
	switch cadence {
	case domain.CadenceContinuous, domain.CadenceMonthly:
		return expiry.AddDate(0, -1, 0)
	case domain.CadenceQuarterly:
		return expiry.AddDate(0, -3, 0)
	case domain.CadenceAnnual, domain.CadenceOncePerInspection:
		return expiry.AddDate(-1, 0, 0)
	default:
		return expiry.AddDate(0, -1, 0)
	}
}

func TestComputeFreshness_MissingUpload(t *testing.T) {
	result := ComputeFreshness(nil, domain.CadenceMonthly, nil, testNow)

	assert.Equal(t, domain.FreshnessMissing, result.Freshness)
	assert.Nil(t, result.ExpiresAt)
}

func TestComputeFreshness_OnChangeNeverExpires(t *testing.T) {
	uploaded := testNow.AddDate(-5, 0, 0)
	result := ComputeFreshness(&uploaded, domain.CadenceOnChange, nil, testNow)

	assert.Equal(t, domain.FreshnessFresh, result.Freshness)
	assert.Nil(t, result.ExpiresAt)
}

func TestComputeFreshness_ExpiryPerCadence(t *testing.T) {
	uploaded := testNow

	tests := []struct {
		cadence domain.CadenceType
		expiry  time.Time
	}{
		{domain.CadenceContinuous, testNow.AddDate(0, 1, 0)},
		{domain.CadenceMonthly, testNow.AddDate(0, 1, 0)},
		{domain.CadenceQuarterly, testNow.AddDate(0, 3, 0)},
		{domain.CadenceAnnual, testNow.AddDate(1, 0, 0)},
		{domain.CadenceOncePerInspection, testNow.AddDate(1, 0, 0)},
	}

	for _, tt := range tests {
		result := ComputeFreshness(&uploaded, tt.cadence, nil, testNow)
		require.NotNil(t, result.ExpiresAt, "cadence %s", tt.cadence)
		assert.Equal(t, tt.expiry, *result.ExpiresAt, "cadence %s", tt.cadence)
	}
}

func TestComputeFreshness_UnknownCadenceFallsBack(t *testing.T) {
	uploaded := testNow

	// Explicit review interval wins.
	months := 6
	result := ComputeFreshness(&uploaded, domain.CadenceType("BIENNIAL"), &months, testNow)
	require.NotNil(t, result.ExpiresAt)
	assert.Equal(t, testNow.AddDate(0, 6, 0), *result.ExpiresAt)

	// Without one, default to a month.
	result = ComputeFreshness(&uploaded, domain.CadenceType("BIENNIAL"), nil, testNow)
	require.NotNil(t, result.ExpiresAt)
	assert.Equal(t, testNow.AddDate(0, 1, 0), *result.ExpiresAt)
}

func TestComputeFreshness_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		days      int
		freshness domain.Freshness
	}{
		{"one day overdue is stale", -1, domain.FreshnessStale},
		{"expiring today", 0, domain.FreshnessExpiringSoon},
		{"seven days left is expiring soon", 7, domain.FreshnessExpiringSoon},
		{"eight days left is fresh", 8, domain.FreshnessFresh},
		{"thirty days left is fresh", 30, domain.FreshnessFresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploaded := uploadedDaysBeforeExpiry(domain.CadenceMonthly, tt.days)
			result := ComputeFreshness(&uploaded, domain.CadenceMonthly, nil, testNow)

			assert.Equal(t, tt.freshness, result.Freshness)
			assert.Equal(t, tt.days, result.DaysUntilExpiry)
		})
	}
}

func TestComputeFreshness_Deterministic(t *testing.T) {
	uploaded := testNow.AddDate(0, 0, -10)

	first := ComputeFreshness(&uploaded, domain.CadenceQuarterly, nil, testNow)
	second := ComputeFreshness(&uploaded, domain.CadenceQuarterly, nil, testNow)

	assert.Equal(t, first, second)
}
