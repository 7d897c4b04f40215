package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/lms-dashboard-api/internal/models"
)

// currentRun picks the most relevant run. A run the learner holds a live
// status in always wins over untouched runs, no matter how the dates fall;
// among involved runs the most recent start wins. Only when the learner
// never touched any run does plain date order decide. The backend claims
// runs arrive sorted head-first; we still sort by course start date in case
// that guarantee does not hold, keeping the given order for ties and
// undated runs.
func currentRun(course models.Course) (models.CourseRun, bool) {
	runs := sortedRuns(course)
	if len(runs) == 0 {
		return models.CourseRun{}, false
	}
	current := runs[0]
	for _, run := range runs {
		switch run.Status {
		case models.RunStatusOffered, "":
		default:
			current = run
		}
	}
	return current, true
}

func sortedRuns(course models.Course) []models.CourseRun {
	runs := make([]models.CourseRun, len(course.Runs))
	copy(runs, course.Runs)
	sort.SliceStable(runs, func(i, j int) bool {
		a, b := runs[i].CourseStartDate, runs[j].CourseStartDate
		if a == nil || b == nil {
			return false
		}
		return a.Before(*b)
	})
	return runs
}

// neverEnrolled reports whether no run of the course carries a status that
// implies the learner ever enrolled. Unknown statuses count as enrolled so
// the chain stays neutral on backend surprises.
func neverEnrolled(course models.Course) bool {
	for _, run := range course.Runs {
		switch run.Status {
		case models.RunStatusOffered, "":
		default:
			return false
		}
	}
	return true
}

// enrollableRun returns the first run (sorted) that is enrollable right now.
func enrollableRun(course models.Course, now time.Time) (models.CourseRun, RunClassification, bool) {
	for _, run := range sortedRuns(course) {
		cls := ClassifyRun(run, now)
		if cls.Enrollable {
			return run, cls, true
		}
	}
	return models.CourseRun{}, RunClassification{}, false
}

// reEnrollableRun finds a run the learner could newly enroll in: enrollable
// now and not one the learner already holds a status in.
func reEnrollableRun(course models.Course, now time.Time) (models.CourseRun, RunClassification, bool) {
	for _, run := range sortedRuns(course) {
		switch run.Status {
		case models.RunStatusOffered, "":
		default:
			continue
		}
		cls := ClassifyRun(run, now)
		if cls.Enrollable || cls.EnrollmentFuture {
			return run, cls, true
		}
	}
	return models.CourseRun{}, RunClassification{}, false
}

// deferredEnrollment returns the earliest future enrollment opening.
func deferredEnrollment(course models.Course, now time.Time) (time.Time, bool) {
	var earliest *time.Time
	for _, run := range course.Runs {
		cls := ClassifyRun(run, now)
		if !cls.EnrollmentFuture || cls.EnrollmentOpensAt == nil {
			continue
		}
		if earliest == nil || cls.EnrollmentOpensAt.Before(*earliest) {
			earliest = cls.EnrollmentOpensAt
		}
	}
	if earliest == nil {
		return time.Time{}, false
	}
	return *earliest, true
}

// fuzzyUpcoming returns the first fuzzy date hint across the course's runs.
func fuzzyUpcoming(course models.Course) string {
	for _, run := range sortedRuns(course) {
		if run.FuzzyEnrollmentStartDate != "" {
			return run.FuzzyEnrollmentStartDate
		}
		if run.FuzzyStartDate != "" {
			return run.FuzzyStartDate
		}
	}
	return ""
}

func anyRunNotPassed(course models.Course) bool {
	for _, run := range course.Runs {
		if run.Status == models.RunStatusNotPassed {
			return true
		}
	}
	return false
}

func coursePassed(course models.Course) bool {
	if course.CertificateURL != "" {
		return true
	}
	for _, run := range course.Runs {
		if run.Status == models.RunStatusPassed {
			return true
		}
	}
	return false
}

func runCurrentOrUpcoming(run models.CourseRun, now time.Time) bool {
	if run.CourseEndDate == nil {
		return true
	}
	return !run.CourseEndDate.Before(now)
}

func reEnrollMessage(run models.CourseRun) models.StatusMessage {
	text := "You can re-enroll in a future run of this course."
	switch {
	case run.CourseStartDate != nil:
		text = fmt.Sprintf("You can re-enroll in the run starting %s.", fmtDate(*run.CourseStartDate))
	case run.EnrollmentStartDate != nil:
		text = fmt.Sprintf("You can re-enroll when enrollment opens %s.", fmtDate(*run.EnrollmentStartDate))
	case run.FuzzyStartDate != "":
		text = fmt.Sprintf("You can re-enroll in the run coming %s.", run.FuzzyStartDate)
	}
	return models.StatusMessage{Text: text, Action: models.ActionReEnroll}
}

// couponText renders the informational discount line for a course-scoped
// coupon. Percent coupons show the percentage, fixed coupons the amount.
func couponText(coupon models.Coupon, price decimal.Decimal) string {
	if coupon.AmountType == models.CouponAmountPercent {
		percent := coupon.Amount.Mul(decimal.NewFromInt(100))
		return fmt.Sprintf("You will get %s%% off the cost for this course.", percent.String())
	}
	discount := CouponDiscount(coupon, price)
	return fmt.Sprintf("You will get $%s off the cost for this course.", discount.Round(2).StringFixed(2))
}

func fmtDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
