package models

import "github.com/shopspring/decimal"

// ActionType is the next step a status message can offer the learner.
type ActionType string

// Possible actions.
const (
	ActionEnroll         ActionType = "enroll"
	ActionPay            ActionType = "pay"
	ActionCalculatePrice ActionType = "calculate-price"
	ActionReEnroll       ActionType = "re-enroll"
	ActionRegisterExam   ActionType = "register-exam"
)

// StatusMessage is one human-readable line shown for a course, optionally
// carrying an action and a link.
type StatusMessage struct {
	Text   string     `json:"text"`
	Action ActionType `json:"action,omitempty"`
	Link   string     `json:"link,omitempty"`
}

// DerivedStatus is the decision engine's output for one course: the price the
// learner must pay, the ordered messages to display and the single primary
// action. It is recomputed from scratch on every evaluation.
type DerivedStatus struct {
	CourseID      string           `json:"course_id"`
	FinalPrice    decimal.Decimal  `json:"final_price"`
	OriginalPrice decimal.Decimal  `json:"original_price"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	Messages      []StatusMessage  `json:"messages"`
	PrimaryAction ActionType       `json:"primary_action,omitempty"`
}
