package engine

import (
	"time"

	"github.com/noah-isme/lms-dashboard-api/internal/models"
)

// RunPhase is the lifecycle phase derived for a course run. The stored run
// status is trusted for terminal states; everything else is computed from the
// run's dates and payment flag relative to the evaluation time.
type RunPhase string

// Possible run phases.
const (
	PhaseNotOffered           RunPhase = "not-offered"
	PhaseOfferedNotEnrolled   RunPhase = "offered-not-enrolled"
	PhaseEnrolledNotVerified  RunPhase = "enrolled-not-verified"
	PhaseVerifiedNotCompleted RunPhase = "verified-not-completed"
	PhaseCurrentlyEnrolled    RunPhase = "currently-enrolled"
	PhaseCanUpgrade           RunPhase = "can-upgrade"
	PhaseMissedDeadline       RunPhase = "missed-deadline"
	PhasePaidButNotEnrolled   RunPhase = "paid-but-not-enrolled"
	PhasePassed               RunPhase = "passed"
	PhaseNotPassed            RunPhase = "not-passed"
	PhasePendingEnrollment    RunPhase = "pending-enrollment"
)

// RunClassification is the classifier output: the derived phase plus the
// enrollment-window facts the message rules need. When the enrollment window
// opens in the future, EnrollmentOpensAt (or the fuzzy fallback) carries the
// date to show.
type RunClassification struct {
	Phase                RunPhase
	Enrollable           bool
	EnrollmentFuture     bool
	EnrollmentOpensAt    *time.Time
	FuzzyEnrollmentStart string
}

// InProgress reports whether the learner is enrolled in the run right now,
// in any of the paid or unpaid variants.
func (c RunClassification) InProgress() bool {
	switch c.Phase {
	case PhaseEnrolledNotVerified, PhaseVerifiedNotCompleted, PhaseCurrentlyEnrolled:
		return true
	}
	return false
}

// ClassifyRun derives the lifecycle phase of a single run. The evaluation
// time is always injected; the classifier never reads a clock.
func ClassifyRun(run models.CourseRun, now time.Time) RunClassification {
	cls := classifyEnrollment(run, now)

	switch run.Status {
	case models.RunStatusPassed:
		cls.Phase = PhasePassed
	case models.RunStatusNotPassed:
		cls.Phase = PhaseNotPassed
	case models.RunStatusPaidButNotEnrolled:
		cls.Phase = PhasePaidButNotEnrolled
	case models.RunStatusPendingEnrollment:
		cls.Phase = PhasePendingEnrollment
	case models.RunStatusCanUpgrade:
		cls.Phase = PhaseCanUpgrade
	case models.RunStatusMissedDeadline:
		cls.Phase = PhaseMissedDeadline
	case models.RunStatusCurrentlyEnrolled:
		cls.Phase = classifyEnrolled(run, now)
	case models.RunStatusOffered:
		cls.Phase = PhaseOfferedNotEnrolled
	default:
		// Unknown backend value degrades to a neutral phase, never an error.
		cls.Phase = PhaseNotOffered
	}
	return cls
}

// classifyEnrolled refines an enrolled run by payment state and term progress.
func classifyEnrolled(run models.CourseRun, now time.Time) RunPhase {
	if !run.HasPaid {
		return PhaseEnrolledNotVerified
	}
	if run.CourseEndDate != nil && run.CourseEndDate.Before(now) {
		return PhaseVerifiedNotCompleted
	}
	return PhaseCurrentlyEnrolled
}

// classifyEnrollment computes the enrollment-window facts. A run with neither
// an exact nor a fuzzy enrollment start is treated as open enrollment.
func classifyEnrollment(run models.CourseRun, now time.Time) RunClassification {
	cls := RunClassification{FuzzyEnrollmentStart: run.FuzzyEnrollmentStartDate}

	start := run.EnrollmentStartDate
	end := run.EnrollmentEndDate

	if start == nil {
		cls.Enrollable = run.FuzzyEnrollmentStartDate == ""
		return cls
	}
	if start.After(now) {
		cls.EnrollmentFuture = true
		cls.EnrollmentOpensAt = start
		return cls
	}
	if end != nil && end.Before(now) {
		return cls
	}
	cls.Enrollable = true
	return cls
}
