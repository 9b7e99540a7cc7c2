package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/placement/pkg/models"
	"github.com/google/uuid"
)

const applicationColumns = `a.id, a.student_id, a.job_id, a.resume_url, a.cover_letter, a.status, a.applied, a.updated`

func (r *SQLiteRepo) CreateApplication(ctx context.Context, a *models.Application) error {
	if a == nil {
		return fmt.Errorf("application is nil")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = models.StatusApplied
	}
	a.Applied = now()
	a.Updated = a.Applied

	_, err := r.q.ExecContext(ctx, `INSERT INTO applications (id, student_id, job_id, resume_url, cover_letter, status, applied, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.StudentID, a.JobID, a.ResumeURL, a.CoverLetter, string(a.Status), a.Applied, a.Updated)
	if err != nil {
		return uniqueViolation(fmt.Errorf("insert application: %w", err), "Already applied for this job")
	}

	return nil
}

func (r *SQLiteRepo) GetApplicationByID(ctx context.Context, id string) (*models.Application, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = ?`, id)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *SQLiteRepo) GetApplicationByStudentAndJob(ctx context.Context, studentID, jobID string) (*models.Application, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.student_id = ? AND a.job_id = ?`, studentID, jobID)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *SQLiteRepo) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	if _, err := r.q.ExecContext(ctx, `UPDATE applications SET status = ?, updated = ? WHERE id = ?`, string(status), now(), id); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) ListApplicationsByStudent(ctx context.Context, studentID string) ([]models.StudentApplication, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+applicationColumns+`, j.title, j.package_lpa, c.id, c.company_name
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN companies c ON c.id = j.company_id
		WHERE a.student_id = ?
		ORDER BY a.applied DESC, a.rowid DESC`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list student applications: %w", err)
	}
	defer rows.Close()

	out := make([]models.StudentApplication, 0)
	for rows.Next() {
		var sa models.StudentApplication
		a, err := scanApplication(rows, &sa.Title, &sa.PackageLPA, &sa.CompanyID, &sa.CompanyName)
		if err != nil {
			return nil, err
		}
		sa.Application = *a
		out = append(out, sa)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) ListApplicationsByJob(ctx context.Context, jobID string) ([]models.JobApplicant, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+applicationColumns+`, s.first_name, s.last_name, s.enrollment_number, s.cgpa, s.branch, s.resume_url
		FROM applications a
		JOIN students s ON s.id = a.student_id
		WHERE a.job_id = ?
		ORDER BY a.applied DESC, a.rowid DESC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list job applications: %w", err)
	}
	defer rows.Close()

	out := make([]models.JobApplicant, 0)
	for rows.Next() {
		var ja models.JobApplicant
		a, err := scanApplication(rows, &ja.FirstName, &ja.LastName, &ja.EnrollmentNumber, &ja.CGPA, &ja.Branch, &ja.StudentResumeURL)
		if err != nil {
			return nil, err
		}
		ja.Application = *a
		out = append(out, ja)
	}

	return out, rows.Err()
}

func scanApplication(row scanner, extra ...any) (*models.Application, error) {
	var a models.Application
	var status string
	dest := []any{&a.ID, &a.StudentID, &a.JobID, &a.ResumeURL, &a.CoverLetter, &status, &a.Applied, &a.Updated}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}
	a.Status = models.ApplicationStatus(status)

	return &a, nil
}
