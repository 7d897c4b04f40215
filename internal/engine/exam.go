package engine

import (
	"time"

	"github.com/noah-isme/lms-dashboard-api/internal/models"
)

// ExamState describes what the learner can do about a course's exam.
type ExamState string

// Possible exam states.
const (
	ExamNone             ExamState = "no-exams-yet"
	ExamPassed           ExamState = "passed-exam"
	ExamFailed           ExamState = "failed-exam"
	ExamRegistrationOpen ExamState = "registration-open"
	ExamFutureWindow     ExamState = "future-window"
)

// ExamResolution carries the resolved state plus the dates the message rules
// format: the register-by deadline and exam window for open registration, or
// the earliest known future window otherwise.
type ExamResolution struct {
	State       ExamState
	RegisterBy  *time.Time
	WindowStart *time.Time
	NextWindow  *time.Time
}

// ResolveExam determines exam eligibility for a course. A recorded exam
// grade takes precedence over any scheduling state.
func ResolveExam(course models.Course) ExamResolution {
	if !course.HasExam {
		return ExamResolution{State: ExamNone}
	}
	if course.ExamGrade != nil {
		if course.ExamGrade.Passed {
			return ExamResolution{State: ExamPassed}
		}
		return ExamResolution{State: ExamFailed, NextWindow: nextExamWindow(course)}
	}
	if course.CanScheduleExam && course.ExamURL != "" {
		return ExamResolution{
			State:       ExamRegistrationOpen,
			RegisterBy:  course.ExamRegisterEndDate,
			WindowStart: earliestSchedulable(course),
		}
	}
	if window := nextExamWindow(course); window != nil {
		return ExamResolution{State: ExamFutureWindow, NextWindow: window}
	}
	return ExamResolution{State: ExamNone}
}

func earliestSchedulable(course models.Course) *time.Time {
	if len(course.ExamsSchedulableInFuture) == 0 {
		return nil
	}
	earliest := course.ExamsSchedulableInFuture[0]
	for _, d := range course.ExamsSchedulableInFuture[1:] {
		if d.Before(earliest) {
			earliest = d
		}
	}
	return &earliest
}

func nextExamWindow(course models.Course) *time.Time {
	if window := earliestSchedulable(course); window != nil {
		return window
	}
	return course.ExamDateNextSemester
}
