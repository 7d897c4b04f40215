package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-dashboard-api/internal/models"
)

// ProgramRepository loads the program/course/run snapshot tree handed to the
// decision engine. Run state rows are per learner; runs the learner never
// touched come back with the default "offered" status.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs the repository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

const programByLearnerQuery = `
SELECT
	p.id,
	p.title,
	COALESCE(p.description, '') AS description,
	p.financial_aid_availability
FROM programs p
JOIN program_enrollments pe ON pe.program_id = p.id
WHERE pe.learner_id = $1`

const coursesByProgramQuery = `
SELECT
	c.id,
	c.program_id,
	c.title,
	c.position,
	c.has_exam,
	c.has_to_pay,
	c.can_schedule_exam,
	COALESCE(c.exam_url, '') AS exam_url,
	COALESCE(lc.certificate_url, '') AS certificate_url,
	c.exam_register_end_date,
	c.exam_date_next_semester
FROM courses c
LEFT JOIN learner_certificates lc ON lc.course_id = c.id AND lc.learner_id = $2
WHERE c.program_id = $1
ORDER BY c.position ASC`

const runsByProgramQuery = `
SELECT
	r.id,
	r.course_id,
	r.title,
	COALESCE(ls.status, 'offered') AS status,
	r.course_start_date,
	r.course_end_date,
	r.enrollment_start_date,
	r.enrollment_end_date,
	r.course_upgrade_deadline,
	COALESCE(r.fuzzy_start_date, '') AS fuzzy_start_date,
	COALESCE(r.fuzzy_enrollment_start_date, '') AS fuzzy_enrollment_start_date,
	COALESCE(ls.has_paid, FALSE) AS has_paid,
	r.price,
	ls.current_grade,
	ls.final_grade
FROM course_runs r
JOIN courses c ON c.id = r.course_id
LEFT JOIN learner_run_states ls ON ls.run_id = r.id AND ls.learner_id = $2
WHERE c.program_id = $1
ORDER BY r.course_start_date ASC NULLS LAST`

const examGradesByProgramQuery = `
SELECT
	eg.course_id,
	eg.passed,
	eg.grade
FROM exam_grades eg
JOIN courses c ON c.id = eg.course_id
WHERE c.program_id = $1 AND eg.learner_id = $2`

const examWindowsByProgramQuery = `
SELECT
	ew.course_id,
	ew.starts_at
FROM exam_windows ew
JOIN courses c ON c.id = ew.course_id
WHERE c.program_id = $1 AND ew.starts_at > NOW()
ORDER BY ew.starts_at ASC`

type examGradeRow struct {
	CourseID string  `db:"course_id"`
	Passed   bool    `db:"passed"`
	Grade    float64 `db:"grade"`
}

type examWindowRow struct {
	CourseID string    `db:"course_id"`
	StartsAt time.Time `db:"starts_at"`
}

// GetForLearner returns the learner's program with courses, per-learner run
// state and exam data attached. It returns nil when the learner is not
// enrolled in any program.
func (r *ProgramRepository) GetForLearner(ctx context.Context, learnerID string) (*models.Program, error) {
	var program models.Program
	if err := r.db.GetContext(ctx, &program, programByLearnerQuery, learnerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get program for learner %s: %w", learnerID, err)
	}

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, coursesByProgramQuery, program.ID, learnerID); err != nil {
		return nil, fmt.Errorf("list courses for program %s: %w", program.ID, err)
	}

	var runs []models.CourseRun
	if err := r.db.SelectContext(ctx, &runs, runsByProgramQuery, program.ID, learnerID); err != nil {
		return nil, fmt.Errorf("list runs for program %s: %w", program.ID, err)
	}

	var grades []examGradeRow
	if err := r.db.SelectContext(ctx, &grades, examGradesByProgramQuery, program.ID, learnerID); err != nil {
		return nil, fmt.Errorf("list exam grades for program %s: %w", program.ID, err)
	}

	var windows []examWindowRow
	if err := r.db.SelectContext(ctx, &windows, examWindowsByProgramQuery, program.ID); err != nil {
		return nil, fmt.Errorf("list exam windows for program %s: %w", program.ID, err)
	}

	runsByCourse := make(map[string][]models.CourseRun, len(courses))
	for _, run := range runs {
		runsByCourse[run.CourseID] = append(runsByCourse[run.CourseID], run)
	}
	gradesByCourse := make(map[string]models.ExamGrade, len(grades))
	for _, grade := range grades {
		gradesByCourse[grade.CourseID] = models.ExamGrade{Passed: grade.Passed, Grade: grade.Grade}
	}
	windowsByCourse := make(map[string][]time.Time, len(windows))
	for _, window := range windows {
		windowsByCourse[window.CourseID] = append(windowsByCourse[window.CourseID], window.StartsAt)
	}

	for i := range courses {
		course := &courses[i]
		course.Runs = runsByCourse[course.ID]
		course.ExamsSchedulableInFuture = windowsByCourse[course.ID]
		if grade, ok := gradesByCourse[course.ID]; ok {
			gradeCopy := grade
			course.ExamGrade = &gradeCopy
		}
	}

	program.Courses = courses
	return &program, nil
}
