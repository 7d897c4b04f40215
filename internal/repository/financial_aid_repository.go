package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-dashboard-api/internal/models"
)

// FinancialAidRepository reads a learner's aid application state.
type FinancialAidRepository struct {
	db *sqlx.DB
}

// NewFinancialAidRepository constructs the repository.
func NewFinancialAidRepository(db *sqlx.DB) *FinancialAidRepository {
	return &FinancialAidRepository{db: db}
}

const aidByLearnerQuery = `
SELECT
	fa.program_id,
	fa.learner_id,
	fa.application_status,
	fa.has_user_applied,
	fa.min_possible_cost,
	fa.max_possible_cost,
	fa.calculated_course_price,
	fa.date_documents_sent
FROM financial_aid_applications fa
WHERE fa.learner_id = $1 AND fa.program_id = $2
ORDER BY fa.created_at DESC
LIMIT 1`

// GetForLearner returns the learner's most recent aid application for the
// program, or nil when the learner never opened one.
func (r *FinancialAidRepository) GetForLearner(ctx context.Context, learnerID, programID string) (*models.FinancialAidInfo, error) {
	var info models.FinancialAidInfo
	if err := r.db.GetContext(ctx, &info, aidByLearnerQuery, learnerID, programID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get financial aid for learner %s: %w", learnerID, err)
	}
	return &info, nil
}
