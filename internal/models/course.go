package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus is the enrollment/payment status the platform stores for a course run.
type RunStatus string

// Possible stored run statuses.
const (
	RunStatusOffered            RunStatus = "offered"
	RunStatusCurrentlyEnrolled  RunStatus = "currently-enrolled"
	RunStatusCanUpgrade         RunStatus = "can-upgrade"
	RunStatusMissedDeadline     RunStatus = "missed-deadline"
	RunStatusPassed             RunStatus = "passed"
	RunStatusNotPassed          RunStatus = "not-passed"
	RunStatusPaidButNotEnrolled RunStatus = "paid-but-not-enrolled"
	RunStatusPendingEnrollment  RunStatus = "pending-enrollment"
)

// CourseRun is one scheduled offering of a course. All dates are optional;
// when an exact date is unknown the fuzzy free-text fallback may be set.
type CourseRun struct {
	ID                       string           `db:"id" json:"id"`
	CourseID                 string           `db:"course_id" json:"course_id"`
	Title                    string           `db:"title" json:"title"`
	Status                   RunStatus        `db:"status" json:"status"`
	CourseStartDate          *time.Time       `db:"course_start_date" json:"course_start_date,omitempty"`
	CourseEndDate            *time.Time       `db:"course_end_date" json:"course_end_date,omitempty"`
	EnrollmentStartDate      *time.Time       `db:"enrollment_start_date" json:"enrollment_start_date,omitempty"`
	EnrollmentEndDate        *time.Time       `db:"enrollment_end_date" json:"enrollment_end_date,omitempty"`
	CourseUpgradeDeadline    *time.Time       `db:"course_upgrade_deadline" json:"course_upgrade_deadline,omitempty"`
	FuzzyStartDate           string           `db:"fuzzy_start_date" json:"fuzzy_start_date,omitempty"`
	FuzzyEnrollmentStartDate string           `db:"fuzzy_enrollment_start_date" json:"fuzzy_enrollment_start_date,omitempty"`
	HasPaid                  bool             `db:"has_paid" json:"has_paid"`
	Price                    *decimal.Decimal `db:"price" json:"price,omitempty"`
	CurrentGrade             *float64         `db:"current_grade" json:"current_grade,omitempty"`
	FinalGrade               *float64         `db:"final_grade" json:"final_grade,omitempty"`
}

// ExamGrade records the outcome of a proctored exam attempt.
type ExamGrade struct {
	Passed bool    `db:"passed" json:"passed"`
	Grade  float64 `db:"grade" json:"grade"`
}

// Course groups the runs of one course within a program. Runs arrive sorted
// with the most relevant run first; consumers sort defensively by start date.
type Course struct {
	ID                       string      `db:"id" json:"id"`
	ProgramID                string      `db:"program_id" json:"program_id"`
	Title                    string      `db:"title" json:"title"`
	Position                 int         `db:"position" json:"position"`
	Runs                     []CourseRun `json:"runs"`
	HasExam                  bool        `db:"has_exam" json:"has_exam"`
	HasToPay                 bool        `db:"has_to_pay" json:"has_to_pay"`
	CanScheduleExam          bool        `db:"can_schedule_exam" json:"can_schedule_exam"`
	ExamURL                  string      `db:"exam_url" json:"exam_url,omitempty"`
	CertificateURL           string      `db:"certificate_url" json:"certificate_url,omitempty"`
	ExamRegisterEndDate      *time.Time  `db:"exam_register_end_date" json:"exam_register_end_date,omitempty"`
	ExamDateNextSemester     *time.Time  `db:"exam_date_next_semester" json:"exam_date_next_semester,omitempty"`
	ExamsSchedulableInFuture []time.Time `json:"exams_schedulable_in_future,omitempty"`
	ExamGrade                *ExamGrade  `json:"exam_grade,omitempty"`
}
