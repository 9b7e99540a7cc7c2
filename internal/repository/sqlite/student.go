package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/placement/pkg/models"
	"github.com/google/uuid"
)

const studentColumns = `s.id, s.user_id, u.email, s.first_name, s.last_name, s.phone, s.enrollment_number,
	s.branch, s.cgpa, s.graduation_year, s.github_url, s.linkedin_url, s.resume_url, s.is_placed, s.created, s.updated`

func (r *SQLiteRepo) CreateStudent(ctx context.Context, s *models.Student) error {
	if s == nil {
		return fmt.Errorf("student is nil")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.Created = now()
	s.Updated = s.Created

	_, err := r.q.ExecContext(ctx, `INSERT INTO students (id, user_id, first_name, last_name, phone, enrollment_number,
		branch, cgpa, graduation_year, github_url, linkedin_url, resume_url, is_placed, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.FirstName, s.LastName, s.Phone, s.EnrollmentNumber,
		s.Branch, s.CGPA, s.GraduationYear, s.GithubURL, s.LinkedinURL, s.ResumeURL, s.IsPlaced, s.Created, s.Updated)
	if err != nil {
		return uniqueViolation(fmt.Errorf("insert student: %w", err), "Enrollment number already registered")
	}

	return nil
}

func (r *SQLiteRepo) GetStudentByID(ctx context.Context, id string) (*models.Student, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students s JOIN users u ON u.id = s.user_id WHERE s.id = ?`, id)
	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (r *SQLiteRepo) GetStudentByUserID(ctx context.Context, userID string) (*models.Student, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students s JOIN users u ON u.id = s.user_id WHERE s.user_id = ?`, userID)
	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (r *SQLiteRepo) UpdateStudent(ctx context.Context, id string, upd models.StudentUpdate) error {
	_, err := r.q.ExecContext(ctx, `UPDATE students SET
		first_name = COALESCE(?, first_name),
		last_name = COALESCE(?, last_name),
		phone = COALESCE(?, phone),
		branch = COALESCE(?, branch),
		cgpa = COALESCE(?, cgpa),
		graduation_year = COALESCE(?, graduation_year),
		github_url = COALESCE(?, github_url),
		linkedin_url = COALESCE(?, linkedin_url),
		updated = ?
		WHERE id = ?`,
		upd.FirstName, upd.LastName, upd.Phone, upd.Branch, upd.CGPA, upd.GraduationYear,
		upd.GithubURL, upd.LinkedinURL, now(), id)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) SetResumeURL(ctx context.Context, id, url string) error {
	if _, err := r.q.ExecContext(ctx, `UPDATE students SET resume_url = ?, updated = ? WHERE id = ?`, url, now(), id); err != nil {
		return fmt.Errorf("set resume url: %w", err)
	}
	return nil
}

// MarkPlaced flips is_placed to true. Nothing in the service ever clears it.
func (r *SQLiteRepo) MarkPlaced(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `UPDATE students SET is_placed = 1, updated = ? WHERE id = ?`, now(), id); err != nil {
		return fmt.Errorf("mark placed: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) ListStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, int64, error) {
	where := ` WHERE 1 = 1`
	var args []any
	if f.Branch != "" {
		where += ` AND s.branch = ?`
		args = append(args, f.Branch)
	}
	if f.IsPlaced != nil {
		where += ` AND s.is_placed = ?`
		args = append(args, *f.IsPlaced)
	}

	var total int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM students s`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	q := `SELECT ` + studentColumns + `, (SELECT COUNT(1) FROM applications a WHERE a.student_id = s.id)
		FROM students s JOIN users u ON u.id = s.user_id` + where + ` ORDER BY s.created DESC, s.rowid DESC LIMIT ? OFFSET ?`
	rows, err := r.q.QueryContext(ctx, q, append(args, f.Limit, offset(f.Page, f.Limit))...)
	if err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	out := make([]models.Student, 0)
	for rows.Next() {
		var count int64
		s, err := scanStudent(rows, &count)
		if err != nil {
			return nil, 0, err
		}
		s.ApplicationsCount = &count
		out = append(out, *s)
	}

	return out, total, rows.Err()
}

func scanStudent(row scanner, extra ...any) (*models.Student, error) {
	var s models.Student
	dest := []any{&s.ID, &s.UserID, &s.Email, &s.FirstName, &s.LastName, &s.Phone, &s.EnrollmentNumber,
		&s.Branch, &s.CGPA, &s.GraduationYear, &s.GithubURL, &s.LinkedinURL, &s.ResumeURL, &s.IsPlaced, &s.Created, &s.Updated}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan student: %w", err)
	}

	return &s, nil
}

func (r *SQLiteRepo) AddEducation(ctx context.Context, e *models.Education) error {
	if e == nil {
		return fmt.Errorf("education is nil")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Created = now()

	_, err := r.q.ExecContext(ctx, `INSERT INTO student_education (id, student_id, degree, institution, start_year, end_year, percentage, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.StudentID, e.Degree, e.Institution, e.StartYear, e.EndYear, e.Percentage, e.Created)
	if err != nil {
		return fmt.Errorf("insert education: %w", err)
	}

	return nil
}

// ListEducation returns entries ordered by end year, most recent first.
func (r *SQLiteRepo) ListEducation(ctx context.Context, studentID string) ([]models.Education, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, student_id, degree, institution, start_year, end_year, percentage, created
		FROM student_education WHERE student_id = ? ORDER BY end_year DESC, created DESC`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list education: %w", err)
	}
	defer rows.Close()

	out := make([]models.Education, 0)
	for rows.Next() {
		var e models.Education
		if err := rows.Scan(&e.ID, &e.StudentID, &e.Degree, &e.Institution, &e.StartYear, &e.EndYear, &e.Percentage, &e.Created); err != nil {
			return nil, fmt.Errorf("scan education: %w", err)
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) AddSkill(ctx context.Context, sk *models.Skill) error {
	if sk == nil {
		return fmt.Errorf("skill is nil")
	}
	if sk.ID == "" {
		sk.ID = uuid.NewString()
	}
	sk.Created = now()

	_, err := r.q.ExecContext(ctx, `INSERT INTO student_skills (id, student_id, skill_name, proficiency_level, created) VALUES (?, ?, ?, ?, ?)`,
		sk.ID, sk.StudentID, sk.SkillName, sk.ProficiencyLevel, sk.Created)
	if err != nil {
		return fmt.Errorf("insert skill: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) ListSkills(ctx context.Context, studentID string) ([]models.Skill, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, student_id, skill_name, proficiency_level, created
		FROM student_skills WHERE student_id = ? ORDER BY created, rowid`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	out := make([]models.Skill, 0)
	for rows.Next() {
		var sk models.Skill
		if err := rows.Scan(&sk.ID, &sk.StudentID, &sk.SkillName, &sk.ProficiencyLevel, &sk.Created); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		out = append(out, sk)
	}

	return out, rows.Err()
}
