package models

// Program is the top-level offering a learner enrolls in. It owns its
// courses; the snapshot handed to the decision engine is the full tree.
type Program struct {
	ID                       string   `db:"id" json:"id"`
	Title                    string   `db:"title" json:"title"`
	Description              string   `db:"description" json:"description,omitempty"`
	FinancialAidAvailability bool     `db:"financial_aid_availability" json:"financial_aid_availability"`
	Courses                  []Course `json:"courses"`
}
