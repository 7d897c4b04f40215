package engine

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/lms-dashboard-api/internal/models"
)

// AidTier is the price-relevant tier a financial aid application resolves to.
type AidTier string

// Possible aid tiers.
const (
	AidNotApplicable   AidTier = "not-applicable"
	AidMustApply       AidTier = "must-apply"
	AidPendingDocs     AidTier = "pending-docs"
	AidPendingApproval AidTier = "pending-approval"
	AidPriced          AidTier = "priced"
	AidUnknown         AidTier = "unknown"
)

// AidResolution carries the resolved tier and, where assigned, the program's
// personalized course price. NeedsDocsDate marks the pending-docs state in
// which the UI must collect a document-mailed date.
type AidResolution struct {
	Tier          AidTier
	Price         *decimal.Decimal
	NeedsDocsDate bool
}

// PriceAssigned reports whether an aid-assigned price replaces the list price.
func (a AidResolution) PriceAssigned() bool {
	switch a.Tier {
	case AidPriced, AidPendingDocs, AidPendingApproval:
		return a.Price != nil
	}
	return false
}

// Pending reports whether the application is still being processed, meaning
// the learner cannot pay yet and should recalculate instead.
func (a AidResolution) Pending() bool {
	return a.Tier == AidMustApply || a.Tier == AidPendingDocs || a.Tier == AidPendingApproval
}

// ResolveFinancialAid maps an aid application to its pricing tier. A skipped
// application pays list price like a program without aid. Statuses outside
// the known set resolve to a neutral tier rather than an error; that state is
// only reachable through backend misconfiguration.
func ResolveFinancialAid(info models.FinancialAidInfo, aidAvailable bool) AidResolution {
	if !aidAvailable {
		return AidResolution{Tier: AidNotApplicable}
	}
	if !info.HasUserApplied {
		return AidResolution{Tier: AidMustApply}
	}
	switch info.ApplicationStatus {
	case models.AidStatusApproved, models.AidStatusAutoApproved, models.AidStatusRejected:
		return AidResolution{Tier: AidPriced, Price: info.CalculatedCoursePrice}
	case models.AidStatusPendingDocs:
		return AidResolution{Tier: AidPendingDocs, Price: info.CalculatedCoursePrice, NeedsDocsDate: true}
	case models.AidStatusPendingManualApproval:
		return AidResolution{Tier: AidPendingApproval, Price: info.CalculatedCoursePrice}
	case models.AidStatusNoneCreated:
		return AidResolution{Tier: AidMustApply}
	case models.AidStatusSkipped:
		return AidResolution{Tier: AidNotApplicable}
	default:
		return AidResolution{Tier: AidUnknown}
	}
}
