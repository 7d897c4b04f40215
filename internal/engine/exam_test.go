package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-dashboard-api/internal/models"
)

func TestResolveExamGradeBeatsScheduling(t *testing.T) {
	course := models.Course{
		HasExam:         true,
		CanScheduleExam: true,
		ExamURL:         "https://exams.example.com/register",
		ExamGrade:       &models.ExamGrade{Passed: true, Grade: 0.85},
	}
	assert.Equal(t, ExamPassed, ResolveExam(course).State)

	course.ExamGrade = &models.ExamGrade{Passed: false, Grade: 0.4}
	assert.Equal(t, ExamFailed, ResolveExam(course).State)
}

func TestResolveExamRegistrationOpen(t *testing.T) {
	deadline := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	course := models.Course{
		HasExam:             true,
		CanScheduleExam:     true,
		ExamURL:             "https://exams.example.com/register",
		ExamRegisterEndDate: &deadline,
		ExamsSchedulableInFuture: []time.Time{
			time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	got := ResolveExam(course)
	assert.Equal(t, ExamRegistrationOpen, got.State)
	require.NotNil(t, got.RegisterBy)
	assert.Equal(t, deadline, *got.RegisterBy)
	require.NotNil(t, got.WindowStart)
	assert.Equal(t, time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC), *got.WindowStart)
}

func TestResolveExamFutureWindowPicksEarliest(t *testing.T) {
	course := models.Course{
		HasExam: true,
		ExamsSchedulableInFuture: []time.Time{
			time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	got := ResolveExam(course)
	assert.Equal(t, ExamFutureWindow, got.State)
	require.NotNil(t, got.NextWindow)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *got.NextWindow)
}

func TestResolveExamNextSemesterFallback(t *testing.T) {
	next := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	course := models.Course{HasExam: true, ExamDateNextSemester: &next}

	got := ResolveExam(course)
	assert.Equal(t, ExamFutureWindow, got.State)
	require.NotNil(t, got.NextWindow)
	assert.Equal(t, next, *got.NextWindow)
}

func TestResolveExamNothingScheduled(t *testing.T) {
	assert.Equal(t, ExamNone, ResolveExam(models.Course{HasExam: true}).State)
	assert.Equal(t, ExamNone, ResolveExam(models.Course{}).State)
}
