package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-dashboard-api/internal/models"
)

func TestResolveFinancialAidUnavailable(t *testing.T) {
	got := ResolveFinancialAid(models.FinancialAidInfo{HasUserApplied: true}, false)
	assert.Equal(t, AidNotApplicable, got.Tier)
}

func TestResolveFinancialAidMustApply(t *testing.T) {
	got := ResolveFinancialAid(models.FinancialAidInfo{}, true)
	assert.Equal(t, AidMustApply, got.Tier)
	assert.True(t, got.Pending())
}

func TestResolveFinancialAidTerminalStatusesCarryPrice(t *testing.T) {
	price := decimal.NewFromInt(40)
	for _, status := range []models.AidApplicationStatus{
		models.AidStatusApproved,
		models.AidStatusAutoApproved,
		models.AidStatusRejected,
	} {
		got := ResolveFinancialAid(models.FinancialAidInfo{
			ApplicationStatus:     status,
			HasUserApplied:        true,
			CalculatedCoursePrice: &price,
		}, true)
		assert.Equal(t, AidPriced, got.Tier, "status %s", status)
		require.NotNil(t, got.Price)
		assert.True(t, got.PriceAssigned())
		assert.False(t, got.Pending())
	}
}

func TestResolveFinancialAidPendingDocsCollectsMailDate(t *testing.T) {
	got := ResolveFinancialAid(models.FinancialAidInfo{
		ApplicationStatus: models.AidStatusPendingDocs,
		HasUserApplied:    true,
	}, true)

	assert.Equal(t, AidPendingDocs, got.Tier)
	assert.True(t, got.NeedsDocsDate)
	assert.True(t, got.Pending())
}

func TestResolveFinancialAidSkippedPaysListPrice(t *testing.T) {
	got := ResolveFinancialAid(models.FinancialAidInfo{
		ApplicationStatus: models.AidStatusSkipped,
		HasUserApplied:    true,
	}, true)
	assert.Equal(t, AidNotApplicable, got.Tier)
}

func TestResolveFinancialAidUnknownStatusIsNeutral(t *testing.T) {
	got := ResolveFinancialAid(models.FinancialAidInfo{
		ApplicationStatus: "docs-on-fire",
		HasUserApplied:    true,
	}, true)

	assert.Equal(t, AidUnknown, got.Tier)
	assert.False(t, got.PriceAssigned())
}
