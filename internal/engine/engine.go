// Package engine derives course status and pricing decisions for the learner
// dashboard. Everything in this package is a pure function of the snapshot
// inputs: no clock reads, no I/O, no shared state. Callers re-evaluate
// whenever any input changes.
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/lms-dashboard-api/internal/models"
)

// EvaluateParams groups the snapshot inputs for one course evaluation.
// Now must always be injected so evaluations stay deterministic. Expanded
// mirrors whether the learner expanded the course card, which enables the
// re-enroll offer on an already-passed course.
type EvaluateParams struct {
	Course       models.Course
	Program      models.Program
	FinancialAid models.FinancialAidInfo
	Coupons      []models.Coupon
	Now          time.Time
	Expanded     bool
}

// Evaluate derives the price, ordered status messages and primary action for
// one course. The primary action is the action of the first emitted message
// that carries one; at most one is surfaced per evaluation.
func Evaluate(p EvaluateParams) models.DerivedStatus {
	run, hasRun := currentRun(p.Course)

	var cls RunClassification
	if hasRun {
		cls = ClassifyRun(run, p.Now)
	} else {
		cls = RunClassification{Phase: PhaseNotOffered}
	}

	aid := ResolveFinancialAid(p.FinancialAid, p.Program.FinancialAidAvailability)
	coupon := ResolveCoupon(p.Coupons, p.Course.ID, p.Program.ID)

	listPrice := decimal.Zero
	if run.Price != nil {
		listPrice = *run.Price
	}
	price := CalculatePrice(listPrice, aid, coupon)

	rc := &ruleContext{
		course:   p.Course,
		program:  p.Program,
		run:      run,
		hasRun:   hasRun,
		cls:      cls,
		aid:      aid,
		price:    price,
		exam:     ResolveExam(p.Course),
		coupon:   coupon,
		now:      p.Now,
		expanded: p.Expanded,
	}

	messages := runStatusRules(rc)

	status := models.DerivedStatus{
		CourseID:      p.Course.ID,
		FinalPrice:    price.FinalPrice,
		OriginalPrice: price.OriginalPrice,
		Discount:      price.Discount,
		Messages:      messages,
	}
	for _, msg := range messages {
		if msg.Action != "" {
			status.PrimaryAction = msg.Action
			break
		}
	}
	return status
}

// ruleContext carries the resolver outputs through the rule chain.
type ruleContext struct {
	course   models.Course
	program  models.Program
	run      models.CourseRun
	hasRun   bool
	cls      RunClassification
	aid      AidResolution
	price    PriceBreakdown
	exam     ExamResolution
	coupon   *models.Coupon
	now      time.Time
	expanded bool
}

// ruleOutcome is what a matched rule produces: zero or more messages and
// whether the chain stops here.
type ruleOutcome struct {
	messages []models.StatusMessage
	halt     bool
}

// statusRule inspects the context and either declines (second return false)
// or produces an outcome. Rules are evaluated strictly in order; this is a
// short-circuiting decision list, not a state machine.
type statusRule func(rc *ruleContext) (ruleOutcome, bool)

var statusRules = []statusRule{
	rulePaidNotEnrolled,
	ruleCourseCoupon,
	ruleNeverEnrolled,
	ruleCertificate,
	ruleEnrolledPaidNoExam,
	ruleUpgradeCurrent,
	ruleExamScheduling,
	rulePassed,
	ruleUpgradePostTerm,
	ruleMissedDeadline,
	ruleNotPassed,
}

func runStatusRules(rc *ruleContext) []models.StatusMessage {
	var messages []models.StatusMessage
	for _, rule := range statusRules {
		outcome, ok := rule(rc)
		if !ok {
			continue
		}
		messages = append(messages, outcome.messages...)
		if outcome.halt {
			break
		}
	}
	return messages
}

// rulePaidNotEnrolled overrides everything else: payment went through but the
// enrollment did not, which is a fulfillment error.
func rulePaidNotEnrolled(rc *ruleContext) (ruleOutcome, bool) {
	if rc.cls.Phase != PhasePaidButNotEnrolled {
		return ruleOutcome{}, false
	}
	return ruleOutcome{
		messages: []models.StatusMessage{{
			Text:   "You paid for this course but are not enrolled. Enroll now, or contact support if the problem persists.",
			Action: models.ActionEnroll,
		}},
		halt: true,
	}, true
}

// ruleCourseCoupon prepends an informational discount line when the coupon
// targets this exact course. It never stops the chain, and it is shown even
// when an aid price suppresses the coupon for calculation.
func ruleCourseCoupon(rc *ruleContext) (ruleOutcome, bool) {
	if rc.coupon == nil || rc.coupon.ContentType != models.CouponContentCourse || rc.coupon.ObjectID != rc.course.ID {
		return ruleOutcome{}, false
	}
	return ruleOutcome{
		messages: []models.StatusMessage{{Text: couponText(*rc.coupon, rc.price.OriginalPrice)}},
	}, true
}

// ruleNeverEnrolled covers a course the learner has not touched yet.
func ruleNeverEnrolled(rc *ruleContext) (ruleOutcome, bool) {
	if !neverEnrolled(rc.course) {
		return ruleOutcome{}, false
	}
	if run, _, ok := enrollableRun(rc.course, rc.now); ok {
		text := "Enrollment open"
		if run.EnrollmentStartDate != nil {
			text = fmt.Sprintf("Enrollment started %s", fmtDate(*run.EnrollmentStartDate))
		}
		if run.CourseStartDate != nil && run.CourseStartDate.After(rc.now) {
			text = fmt.Sprintf("Next run starts %s. %s", fmtDate(*run.CourseStartDate), text)
		}
		return ruleOutcome{
			messages: []models.StatusMessage{{Text: text, Action: models.ActionEnroll}},
			halt:     true,
		}, true
	}
	if opens, ok := deferredEnrollment(rc.course, rc.now); ok {
		return ruleOutcome{
			messages: []models.StatusMessage{{Text: fmt.Sprintf("Enrollment begins %s", fmtDate(opens))}},
			halt:     true,
		}, true
	}
	if fuzzy := fuzzyUpcoming(rc.course); fuzzy != "" {
		return ruleOutcome{
			messages: []models.StatusMessage{{Text: fmt.Sprintf("Coming %s", fuzzy)}},
			halt:     true,
		}, true
	}
	return ruleOutcome{
		messages: []models.StatusMessage{{Text: "There are no future course runs scheduled."}},
		halt:     true,
	}, true
}

// ruleCertificate congratulates a learner whose passing grade earned credit.
func ruleCertificate(rc *ruleContext) (ruleOutcome, bool) {
	if rc.course.CertificateURL == "" {
		return ruleOutcome{}, false
	}
	outcome := ruleOutcome{
		messages: []models.StatusMessage{{
			Text: "You passed this course! View your certificate.",
			Link: rc.course.CertificateURL,
		}},
	}
	if run, _, ok := reEnrollableRun(rc.course, rc.now); ok {
		outcome.messages = append(outcome.messages, reEnrollMessage(run))
	}
	return outcome, true
}

// ruleEnrolledPaidNoExam: nothing more to tell a paid, enrolled learner on a
// course without an exam requirement.
func ruleEnrolledPaidNoExam(rc *ruleContext) (ruleOutcome, bool) {
	if !rc.cls.InProgress() || !rc.run.HasPaid || rc.course.HasExam {
		return ruleOutcome{}, false
	}
	return ruleOutcome{halt: true}, true
}

// ruleUpgradeCurrent prompts an auditing learner to pay while the course is
// still current or upcoming.
func ruleUpgradeCurrent(rc *ruleContext) (ruleOutcome, bool) {
	if rc.cls.Phase != PhaseCanUpgrade || !runCurrentOrUpcoming(rc.run, rc.now) {
		return ruleOutcome{}, false
	}
	text := "You are auditing this course. Pay now to get course credit."
	if anyRunNotPassed(rc.course) {
		text = "Pay now to re-take the course and get credit."
	}
	action := models.ActionPay
	if rc.aid.Pending() {
		action = models.ActionCalculatePrice
	}
	if rc.run.CourseUpgradeDeadline != nil {
		text = fmt.Sprintf("%s (Payment due %s)", text, fmtDate(*rc.run.CourseUpgradeDeadline))
	}
	return ruleOutcome{
		messages: []models.StatusMessage{{Text: text, Action: action}},
		halt:     true,
	}, true
}

// ruleExamScheduling covers exam messaging for a paid learner who passed or
// is enrolled.
func ruleExamScheduling(rc *ruleContext) (ruleOutcome, bool) {
	if !rc.course.HasExam || !rc.run.HasPaid {
		return ruleOutcome{}, false
	}
	if rc.cls.Phase != PhasePassed && !rc.cls.InProgress() {
		return ruleOutcome{}, false
	}

	var msg models.StatusMessage
	switch rc.exam.State {
	case ExamPassed:
		msg.Text = "You passed the exam for this course."
	case ExamFailed:
		msg.Text = "You did not pass the exam."
		if rc.exam.NextWindow != nil {
			msg.Text = fmt.Sprintf("%s You can try again during the next exam period, starting %s.", msg.Text, fmtDate(*rc.exam.NextWindow))
		}
	case ExamRegistrationOpen:
		msg.Text = "Exam registration is open."
		if rc.exam.RegisterBy != nil {
			msg.Text = fmt.Sprintf("Exam registration is open. Register by %s.", fmtDate(*rc.exam.RegisterBy))
		}
		if rc.exam.WindowStart != nil {
			msg.Text = fmt.Sprintf("%s Exams start %s.", msg.Text, fmtDate(*rc.exam.WindowStart))
		}
		if rc.course.HasToPay {
			msg.Text += " Payment is required to register."
			msg.Action = models.ActionPay
		} else {
			msg.Action = models.ActionRegisterExam
		}
	case ExamFutureWindow:
		msg.Text = fmt.Sprintf("The next exam period begins %s.", fmtDate(*rc.exam.NextWindow))
	default:
		msg.Text = "No exam sessions are scheduled yet."
	}

	outcome := ruleOutcome{messages: []models.StatusMessage{msg}, halt: true}
	if !rc.cls.InProgress() {
		if run, _, ok := reEnrollableRun(rc.course, rc.now); ok {
			outcome.messages = append(outcome.messages, reEnrollMessage(run))
		}
	}
	return outcome, true
}

// rulePassed stops the chain for a passed course, offering re-enrollment
// only when the learner expanded the course card.
func rulePassed(rc *ruleContext) (ruleOutcome, bool) {
	if rc.cls.Phase != PhasePassed {
		return ruleOutcome{}, false
	}
	outcome := ruleOutcome{halt: true}
	if rc.expanded {
		if run, _, ok := reEnrollableRun(rc.course, rc.now); ok {
			outcome.messages = append(outcome.messages, reEnrollMessage(run))
		}
	}
	return outcome, true
}

// ruleUpgradePostTerm: the term ended but the payment window is still open.
func ruleUpgradePostTerm(rc *ruleContext) (ruleOutcome, bool) {
	if rc.cls.Phase != PhaseCanUpgrade {
		return ruleOutcome{}, false
	}
	deadline := rc.run.CourseUpgradeDeadline
	if deadline != nil && deadline.Before(rc.now) {
		return ruleOutcome{}, false
	}
	text := "The course has ended, but you can still pay to get course credit."
	if deadline != nil {
		text = fmt.Sprintf("%s (Payment due %s)", text, fmtDate(*deadline))
	}
	return ruleOutcome{
		messages: []models.StatusMessage{{Text: text, Action: models.ActionPay}},
		halt:     true,
	}, true
}

// ruleMissedDeadline reports a closed payment window and what comes next.
func ruleMissedDeadline(rc *ruleContext) (ruleOutcome, bool) {
	if rc.cls.Phase != PhaseMissedDeadline {
		return ruleOutcome{}, false
	}
	outcome := ruleOutcome{
		messages: []models.StatusMessage{{Text: "You missed the payment deadline for this course."}},
		halt:     true,
	}
	if rc.course.HasExam {
		if window := nextExamWindow(rc.course); window != nil {
			outcome.messages = append(outcome.messages, models.StatusMessage{
				Text: fmt.Sprintf("The next exam period begins %s.", fmtDate(*window)),
			})
			return outcome, true
		}
	}
	if run, _, ok := reEnrollableRun(rc.course, rc.now); ok {
		outcome.messages = append(outcome.messages, reEnrollMessage(run))
		return outcome, true
	}
	outcome.messages = append(outcome.messages, models.StatusMessage{Text: "There are no future course runs scheduled."})
	return outcome, true
}

// ruleNotPassed turns a failed run into a re-enroll offer when a future run
// exists, as long as a later run was not passed.
func ruleNotPassed(rc *ruleContext) (ruleOutcome, bool) {
	if rc.cls.Phase != PhaseNotPassed || coursePassed(rc.course) {
		return ruleOutcome{}, false
	}
	if run, _, ok := reEnrollableRun(rc.course, rc.now); ok {
		text := "You did not pass the course, but you can re-enroll."
		if run.CourseStartDate != nil {
			text = fmt.Sprintf("You did not pass the course, but you can re-enroll in the run starting %s.", fmtDate(*run.CourseStartDate))
		}
		return ruleOutcome{
			messages: []models.StatusMessage{{Text: text, Action: models.ActionReEnroll}},
			halt:     true,
		}, true
	}
	return ruleOutcome{
		messages: []models.StatusMessage{{Text: "You did not pass the course."}},
		halt:     true,
	}, true
}
