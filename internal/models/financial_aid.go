package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AidApplicationStatus is the state of a learner's financial aid application.
type AidApplicationStatus string

// Possible aid application statuses.
const (
	AidStatusNoneCreated           AidApplicationStatus = "none-created"
	AidStatusPendingDocs           AidApplicationStatus = "pending-docs"
	AidStatusPendingManualApproval AidApplicationStatus = "pending-manual-approval"
	AidStatusApproved              AidApplicationStatus = "approved"
	AidStatusAutoApproved          AidApplicationStatus = "auto-approved"
	AidStatusRejected              AidApplicationStatus = "rejected"
	AidStatusSkipped               AidApplicationStatus = "skipped"
)

// FinancialAidInfo is a learner's aid application snapshot for one program.
// CalculatedCoursePrice is the program-assigned per-course price once the
// application has been processed far enough to carry one.
type FinancialAidInfo struct {
	ProgramID             string               `db:"program_id" json:"program_id"`
	LearnerID             string               `db:"learner_id" json:"learner_id"`
	ApplicationStatus     AidApplicationStatus `db:"application_status" json:"application_status"`
	HasUserApplied        bool                 `db:"has_user_applied" json:"has_user_applied"`
	MinPossibleCost       decimal.Decimal      `db:"min_possible_cost" json:"min_possible_cost"`
	MaxPossibleCost       decimal.Decimal      `db:"max_possible_cost" json:"max_possible_cost"`
	CalculatedCoursePrice *decimal.Decimal     `db:"calculated_course_price" json:"calculated_course_price,omitempty"`
	DateDocumentsSent     *time.Time           `db:"date_documents_sent" json:"date_documents_sent,omitempty"`
}
