package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-dashboard-api/internal/models"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time {
	return &t
}

func decPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func daysFromNow(days int) *time.Time {
	return timePtr(testNow.AddDate(0, 0, days))
}

func offeredCourse(price decimal.Decimal) models.Course {
	return models.Course{
		ID:        "course-1",
		ProgramID: "program-1",
		Title:     "Analog Learning 100",
		Runs: []models.CourseRun{{
			ID:                  "run-1",
			CourseID:            "course-1",
			Status:              models.RunStatusOffered,
			CourseStartDate:     daysFromNow(10),
			EnrollmentStartDate: daysFromNow(-1),
			EnrollmentEndDate:   daysFromNow(1),
			Price:               decPtr(price),
		}},
	}
}

func testProgram(aidAvailable bool) models.Program {
	return models.Program{ID: "program-1", Title: "Analog Learning", FinancialAidAvailability: aidAvailable}
}

func TestEvaluateEnrollableRun(t *testing.T) {
	status := Evaluate(EvaluateParams{
		Course:  offeredCourse(decimal.NewFromInt(100)),
		Program: testProgram(false),
		Now:     testNow,
	})

	require.Len(t, status.Messages, 1)
	assert.Contains(t, status.Messages[0].Text, "Enrollment started")
	assert.Equal(t, models.ActionEnroll, status.Messages[0].Action)
	assert.Equal(t, models.ActionEnroll, status.PrimaryAction)
}

func TestEvaluatePaidButNotEnrolledOverridesEverything(t *testing.T) {
	course := offeredCourse(decimal.NewFromInt(100))
	course.Runs[0].Status = models.RunStatusPaidButNotEnrolled

	status := Evaluate(EvaluateParams{
		Course:  course,
		Program: testProgram(false),
		Coupons: []models.Coupon{{
			ID:          "c1",
			CouponCode:  "SAVE25",
			ContentType: models.CouponContentCourse,
			ObjectID:    "course-1",
			AmountType:  models.CouponAmountPercent,
			Amount:      decimal.NewFromFloat(0.25),
		}},
		Now: testNow,
	})

	require.Len(t, status.Messages, 1)
	assert.Contains(t, status.Messages[0].Text, "Enroll now")
	assert.Equal(t, models.ActionEnroll, status.PrimaryAction)
}

func TestEvaluatePercentCouponPrice(t *testing.T) {
	status := Evaluate(EvaluateParams{
		Course:  offeredCourse(decimal.NewFromInt(100)),
		Program: testProgram(false),
		Coupons: []models.Coupon{{
			ID:          "c1",
			CouponCode:  "SAVE25",
			ContentType: models.CouponContentCourse,
			ObjectID:    "course-1",
			AmountType:  models.CouponAmountPercent,
			Amount:      decimal.NewFromFloat(0.25),
		}},
		Now: testNow,
	})

	assert.Equal(t, "75.00", status.FinalPrice.StringFixed(2))
	require.NotNil(t, status.Discount)
	assert.Equal(t, "25.00", status.Discount.StringFixed(2))
}

func TestEvaluateFinancialAidSuppressesCoupon(t *testing.T) {
	status := Evaluate(EvaluateParams{
		Course:  offeredCourse(decimal.NewFromInt(100)),
		Program: testProgram(true),
		FinancialAid: models.FinancialAidInfo{
			ProgramID:             "program-1",
			ApplicationStatus:     models.AidStatusApproved,
			HasUserApplied:        true,
			CalculatedCoursePrice: decPtr(decimal.NewFromInt(20)),
		},
		Coupons: []models.Coupon{{
			ID:          "c1",
			CouponCode:  "SAVE25",
			ContentType: models.CouponContentCourse,
			ObjectID:    "course-1",
			AmountType:  models.CouponAmountPercent,
			Amount:      decimal.NewFromFloat(0.25),
		}},
		Now: testNow,
	})

	assert.Equal(t, "20.00", status.FinalPrice.StringFixed(2))
	assert.Nil(t, status.Discount)
}

func TestEvaluateSuppressedCouponStillAnnounced(t *testing.T) {
	status := Evaluate(EvaluateParams{
		Course:  offeredCourse(decimal.NewFromInt(100)),
		Program: testProgram(true),
		FinancialAid: models.FinancialAidInfo{
			ProgramID:             "program-1",
			ApplicationStatus:     models.AidStatusApproved,
			HasUserApplied:        true,
			CalculatedCoursePrice: decPtr(decimal.NewFromInt(20)),
		},
		Coupons: []models.Coupon{{
			ID:          "c1",
			CouponCode:  "SAVE25",
			ContentType: models.CouponContentCourse,
			ObjectID:    "course-1",
			AmountType:  models.CouponAmountPercent,
			Amount:      decimal.NewFromFloat(0.25),
		}},
		Now: testNow,
	})

	// The coupon does not move the aid price, but the learner still sees it.
	assert.Nil(t, status.Discount)
	require.NotEmpty(t, status.Messages)
	assert.Equal(t, "You will get 25% off the cost for this course.", status.Messages[0].Text)
	assert.Empty(t, status.Messages[0].Action)
}

func TestEvaluatePassedWithCertificate(t *testing.T) {
	course := models.Course{
		ID:             "course-1",
		ProgramID:      "program-1",
		CertificateURL: "https://certs.example.com/abc",
		Runs: []models.CourseRun{{
			ID:       "run-1",
			CourseID: "course-1",
			Status:   models.RunStatusPassed,
			HasPaid:  true,
		}},
	}

	status := Evaluate(EvaluateParams{Course: course, Program: testProgram(false), Now: testNow})

	require.NotEmpty(t, status.Messages)
	assert.Contains(t, status.Messages[0].Text, "passed")
	assert.Equal(t, "https://certs.example.com/abc", status.Messages[0].Link)
	for _, msg := range status.Messages {
		assert.NotEqual(t, models.ActionPay, msg.Action)
	}
}

func TestEvaluateUpgradeWithPendingAidWantsRecalculation(t *testing.T) {
	course := models.Course{
		ID:        "course-1",
		ProgramID: "program-1",
		Runs: []models.CourseRun{{
			ID:                    "run-1",
			CourseID:              "course-1",
			Status:                models.RunStatusCanUpgrade,
			CourseEndDate:         daysFromNow(30),
			CourseUpgradeDeadline: daysFromNow(7),
			Price:                 decPtr(decimal.NewFromInt(100)),
		}},
	}

	status := Evaluate(EvaluateParams{
		Course:  course,
		Program: testProgram(true),
		FinancialAid: models.FinancialAidInfo{
			ProgramID:         "program-1",
			ApplicationStatus: models.AidStatusPendingManualApproval,
			HasUserApplied:    true,
		},
		Now: testNow,
	})

	require.Len(t, status.Messages, 1)
	assert.Equal(t, models.ActionCalculatePrice, status.PrimaryAction)
	assert.Contains(t, status.Messages[0].Text, "Payment due")
}

func TestEvaluateUpgradeWithSettledAidWantsPayment(t *testing.T) {
	course := models.Course{
		ID:        "course-1",
		ProgramID: "program-1",
		Runs: []models.CourseRun{{
			ID:            "run-1",
			CourseID:      "course-1",
			Status:        models.RunStatusCanUpgrade,
			CourseEndDate: daysFromNow(30),
			Price:         decPtr(decimal.NewFromInt(100)),
		}},
	}

	status := Evaluate(EvaluateParams{Course: course, Program: testProgram(false), Now: testNow})

	assert.Equal(t, models.ActionPay, status.PrimaryAction)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	params := EvaluateParams{
		Course:  offeredCourse(decimal.NewFromInt(100)),
		Program: testProgram(true),
		FinancialAid: models.FinancialAidInfo{
			ProgramID:         "program-1",
			ApplicationStatus: models.AidStatusPendingDocs,
			HasUserApplied:    true,
		},
		Coupons: []models.Coupon{{
			ID:          "c1",
			ContentType: models.CouponContentProgram,
			ObjectID:    "program-1",
			AmountType:  models.CouponAmountFixed,
			Amount:      decimal.NewFromInt(30),
		}},
		Now: testNow,
	}

	first := Evaluate(params)
	second := Evaluate(params)
	assert.True(t, reflect.DeepEqual(first, second))
}

func TestEvaluatePriceNeverExceedsListPrice(t *testing.T) {
	prices := []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(50),
		decimal.NewFromFloat(99.99),
		decimal.NewFromInt(1000),
	}
	coupons := []models.Coupon{
		{ID: "p", ContentType: models.CouponContentCourse, ObjectID: "course-1", AmountType: models.CouponAmountPercent, Amount: decimal.NewFromFloat(0.5)},
		{ID: "f", ContentType: models.CouponContentCourse, ObjectID: "course-1", AmountType: models.CouponAmountFixed, Amount: decimal.NewFromInt(500)},
	}

	for _, price := range prices {
		for _, coupon := range coupons {
			status := Evaluate(EvaluateParams{
				Course:  offeredCourse(price),
				Program: testProgram(false),
				Coupons: []models.Coupon{coupon},
				Now:     testNow,
			})
			assert.False(t, status.FinalPrice.IsNegative(), "final price must not be negative")
			assert.True(t, status.FinalPrice.LessThanOrEqual(price.Round(2)), "final price must not exceed list price")
		}
	}
}

func TestEvaluateCourseCouponBeatsProgramCoupon(t *testing.T) {
	coupons := []models.Coupon{
		{ID: "prog", ContentType: models.CouponContentProgram, ObjectID: "program-1", AmountType: models.CouponAmountFixed, Amount: decimal.NewFromInt(50)},
		{ID: "crs", ContentType: models.CouponContentCourse, ObjectID: "course-1", AmountType: models.CouponAmountFixed, Amount: decimal.NewFromInt(10)},
	}

	status := Evaluate(EvaluateParams{
		Course:  offeredCourse(decimal.NewFromInt(100)),
		Program: testProgram(false),
		Coupons: coupons,
		Now:     testNow,
	})

	assert.Equal(t, "90.00", status.FinalPrice.StringFixed(2))
}

func TestEvaluateCourseWithoutRuns(t *testing.T) {
	course := models.Course{ID: "course-1", ProgramID: "program-1"}

	status := Evaluate(EvaluateParams{Course: course, Program: testProgram(false), Now: testNow})

	require.Len(t, status.Messages, 1)
	assert.Equal(t, "There are no future course runs scheduled.", status.Messages[0].Text)
	assert.Empty(t, status.PrimaryAction)
}

func TestEvaluateDeferredEnrollment(t *testing.T) {
	course := models.Course{
		ID:        "course-1",
		ProgramID: "program-1",
		Runs: []models.CourseRun{{
			ID:                  "run-1",
			CourseID:            "course-1",
			Status:              models.RunStatusOffered,
			CourseStartDate:     daysFromNow(60),
			EnrollmentStartDate: daysFromNow(30),
		}},
	}

	status := Evaluate(EvaluateParams{Course: course, Program: testProgram(false), Now: testNow})

	require.Len(t, status.Messages, 1)
	assert.Contains(t, status.Messages[0].Text, "Enrollment begins")
	assert.Empty(t, status.PrimaryAction)
}

func TestEvaluateFuzzyFallback(t *testing.T) {
	course := models.Course{
		ID:        "course-1",
		ProgramID: "program-1",
		Runs: []models.CourseRun{{
			ID:                       "run-1",
			CourseID:                 "course-1",
			Status:                   models.RunStatusOffered,
			FuzzyStartDate:           "Fall 2026",
			FuzzyEnrollmentStartDate: "Fall 2026",
		}},
	}

	status := Evaluate(EvaluateParams{Course: course, Program: testProgram(false), Now: testNow})

	require.Len(t, status.Messages, 1)
	assert.Equal(t, "Coming Fall 2026", status.Messages[0].Text)
}

func TestEvaluateMissedDeadlineWithFutureRun(t *testing.T) {
	course := models.Course{
		ID:        "course-1",
		ProgramID: "program-1",
		Runs: []models.CourseRun{
			{
				ID:              "run-1",
				CourseID:        "course-1",
				Status:          models.RunStatusMissedDeadline,
				CourseStartDate: daysFromNow(-120),
				CourseEndDate:   daysFromNow(-30),
			},
			{
				ID:              "run-2",
				CourseID:        "course-1",
				Status:          models.RunStatusOffered,
				CourseStartDate: daysFromNow(45),
			},
		},
	}

	status := Evaluate(EvaluateParams{Course: course, Program: testProgram(false), Now: testNow})

	require.Len(t, status.Messages, 2)
	assert.Contains(t, status.Messages[0].Text, "missed the payment deadline")
	assert.Equal(t, models.ActionReEnroll, status.Messages[1].Action)
}

func TestEvaluateNotPassedBecomesReEnrollOffer(t *testing.T) {
	course := models.Course{
		ID:        "course-1",
		ProgramID: "program-1",
		Runs: []models.CourseRun{
			{
				ID:              "run-1",
				CourseID:        "course-1",
				Status:          models.RunStatusNotPassed,
				CourseStartDate: daysFromNow(-200),
			},
			{
				ID:              "run-2",
				CourseID:        "course-1",
				Status:          models.RunStatusOffered,
				CourseStartDate: daysFromNow(30),
			},
		},
	}

	status := Evaluate(EvaluateParams{Course: course, Program: testProgram(false), Now: testNow})

	require.Len(t, status.Messages, 1)
	assert.Contains(t, status.Messages[0].Text, "re-enroll")
	assert.Equal(t, models.ActionReEnroll, status.PrimaryAction)
}

func TestEvaluateExamRegistrationOpen(t *testing.T) {
	course := models.Course{
		ID:                  "course-1",
		ProgramID:           "program-1",
		HasExam:             true,
		HasToPay:            false,
		CanScheduleExam:     true,
		ExamURL:             "https://exams.example.com/register",
		ExamRegisterEndDate: daysFromNow(14),
		ExamsSchedulableInFuture: []time.Time{
			testNow.AddDate(0, 0, 21),
			testNow.AddDate(0, 0, 50),
		},
		Runs: []models.CourseRun{{
			ID:              "run-1",
			CourseID:        "course-1",
			Status:          models.RunStatusCurrentlyEnrolled,
			HasPaid:         true,
			CourseStartDate: daysFromNow(-30),
			CourseEndDate:   daysFromNow(30),
		}},
	}

	status := Evaluate(EvaluateParams{Course: course, Program: testProgram(false), Now: testNow})

	require.Len(t, status.Messages, 1)
	assert.Contains(t, status.Messages[0].Text, "Exam registration is open")
	assert.Equal(t, models.ActionRegisterExam, status.PrimaryAction)
}

func TestEvaluateExamRequiresPayment(t *testing.T) {
	course := models.Course{
		ID:              "course-1",
		ProgramID:       "program-1",
		HasExam:         true,
		HasToPay:        true,
		CanScheduleExam: true,
		ExamURL:         "https://exams.example.com/register",
		Runs: []models.CourseRun{{
			ID:            "run-1",
			CourseID:      "course-1",
			Status:        models.RunStatusCurrentlyEnrolled,
			HasPaid:       true,
			CourseEndDate: daysFromNow(30),
		}},
	}

	status := Evaluate(EvaluateParams{Course: course, Program: testProgram(false), Now: testNow})

	assert.Equal(t, models.ActionPay, status.PrimaryAction)
}

func TestEvaluateExamFutureWindowCarriesNoAction(t *testing.T) {
	course := models.Course{
		ID:        "course-1",
		ProgramID: "program-1",
		HasExam:   true,
		HasToPay:  true,
		ExamsSchedulableInFuture: []time.Time{
			*daysFromNow(45),
		},
		Runs: []models.CourseRun{{
			ID:            "run-1",
			CourseID:      "course-1",
			Status:        models.RunStatusCurrentlyEnrolled,
			HasPaid:       true,
			CourseEndDate: daysFromNow(30),
		}},
	}

	status := Evaluate(EvaluateParams{Course: course, Program: testProgram(false), Now: testNow})

	// Registration is not open yet, so there is nothing to pay for.
	require.Len(t, status.Messages, 1)
	assert.Contains(t, status.Messages[0].Text, "The next exam period begins")
	assert.Empty(t, status.Messages[0].Action)
	assert.Empty(t, status.PrimaryAction)
}

func TestEvaluateAuditedRunWinsOverStaleOfferedRun(t *testing.T) {
	price := decimal.NewFromInt(100)
	course := models.Course{
		ID:        "course-1",
		ProgramID: "program-1",
		Runs: []models.CourseRun{
			{
				ID:                  "run-old",
				CourseID:            "course-1",
				Status:              models.RunStatusOffered,
				CourseStartDate:     timePtr(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)),
				CourseEndDate:       timePtr(time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)),
				EnrollmentStartDate: timePtr(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)),
				EnrollmentEndDate:   timePtr(time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)),
			},
			{
				ID:                    "run-current",
				CourseID:              "course-1",
				Status:                models.RunStatusCanUpgrade,
				CourseStartDate:       timePtr(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)),
				CourseEndDate:         daysFromNow(60),
				CourseUpgradeDeadline: daysFromNow(14),
				Price:                 &price,
			},
		},
	}

	status := Evaluate(EvaluateParams{Course: course, Program: testProgram(false), Now: testNow})

	// The run the learner is auditing decides the status, not the dead
	// offered run that happens to sort first.
	require.NotEmpty(t, status.Messages)
	assert.Contains(t, status.Messages[0].Text, "Pay now to get course credit")
	assert.Equal(t, models.ActionPay, status.PrimaryAction)
	assert.Equal(t, "100.00", status.FinalPrice.StringFixed(2))
}

func TestEvaluateEnrolledPaidNoExamIsQuiet(t *testing.T) {
	course := models.Course{
		ID:        "course-1",
		ProgramID: "program-1",
		Runs: []models.CourseRun{{
			ID:            "run-1",
			CourseID:      "course-1",
			Status:        models.RunStatusCurrentlyEnrolled,
			HasPaid:       true,
			CourseEndDate: daysFromNow(30),
		}},
	}

	status := Evaluate(EvaluateParams{Course: course, Program: testProgram(false), Now: testNow})

	assert.Empty(t, status.Messages)
	assert.Empty(t, status.PrimaryAction)
}
