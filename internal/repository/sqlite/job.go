package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/garnizeh/placement/pkg/models"
	"github.com/google/uuid"
)

const jobColumns = `j.id, j.company_id, j.title, j.description, j.package_lpa, j.min_cgpa, j.eligible_branches,
	j.location, j.job_type, j.application_deadline, j.is_active, j.created, j.updated`

const jobCompanyColumns = `c.id, c.company_name, c.industry, c.website, c.description`

// openJobsWhere selects active jobs of verified companies still accepting applications.
const openJobsWhere = ` WHERE j.is_active = 1 AND c.is_verified = 1 AND j.application_deadline >= ?`

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	branches, err := encodeStrings(j.EligibleBranches)
	if err != nil {
		return err
	}
	j.IsActive = true
	j.Created = now()
	j.Updated = j.Created

	_, err = r.q.ExecContext(ctx, `INSERT INTO jobs (id, company_id, title, description, package_lpa, min_cgpa, eligible_branches,
		location, job_type, application_deadline, is_active, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.CompanyID, j.Title, j.Description, j.PackageLPA, j.MinCGPA, branches,
		j.Location, j.JobType, j.ApplicationDeadline, j.IsActive, j.Created, j.Updated)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) GetJobByID(ctx context.Context, id string) (*models.Job, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs j WHERE j.id = ?`, id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return j, err
}

func (r *SQLiteRepo) GetOpenJob(ctx context.Context, id, today string) (*models.Job, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+jobColumns+`, `+jobCompanyColumns+`
		FROM jobs j JOIN companies c ON c.id = j.company_id`+openJobsWhere+` AND j.id = ?`, today, id)
	var jc models.JobCompany
	j, err := scanJob(row, &jc.ID, &jc.CompanyName, &jc.Industry, &jc.Website, &jc.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	j.Company = &jc

	return j, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *SQLiteRepo) ListOpenJobs(ctx context.Context, f models.JobFilter, today string) ([]models.Job, int64, error) {
	where := openJobsWhere
	args := []any{today}
	if f.Branch != "" {
		where += ` AND EXISTS (SELECT 1 FROM json_each(j.eligible_branches) WHERE value = ?)`
		args = append(args, f.Branch)
	}
	if f.MinPackage != nil {
		where += ` AND j.package_lpa >= ?`
		args = append(args, *f.MinPackage)
	}
	if f.Search != "" {
		where += ` AND (j.title LIKE ? ESCAPE '\' OR j.description LIKE ? ESCAPE '\')`
		pattern := "%" + likeEscaper.Replace(f.Search) + "%"
		args = append(args, pattern, pattern)
	}

	var total int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM jobs j JOIN companies c ON c.id = j.company_id`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	q := `SELECT ` + jobColumns + `, ` + jobCompanyColumns + ` FROM jobs j JOIN companies c ON c.id = j.company_id` +
		where + ` ORDER BY j.created DESC, j.rowid DESC LIMIT ? OFFSET ?`
	rows, err := r.q.QueryContext(ctx, q, append(args, f.Limit, offset(f.Page, f.Limit))...)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	out := make([]models.Job, 0)
	for rows.Next() {
		var jc models.JobCompany
		j, err := scanJob(rows, &jc.ID, &jc.CompanyName, &jc.Industry, &jc.Website, &jc.Description)
		if err != nil {
			return nil, 0, err
		}
		j.Company = &jc
		out = append(out, *j)
	}

	return out, total, rows.Err()
}

// ListJobsByCompany returns every job of the company, inactive ones included,
// with the number of applications each received.
func (r *SQLiteRepo) ListJobsByCompany(ctx context.Context, companyID string) ([]models.Job, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+jobColumns+`, (SELECT COUNT(1) FROM applications a WHERE a.job_id = j.id)
		FROM jobs j WHERE j.company_id = ? ORDER BY j.created DESC, j.rowid DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company jobs: %w", err)
	}
	defer rows.Close()

	out := make([]models.Job, 0)
	for rows.Next() {
		var count int64
		j, err := scanJob(rows, &count)
		if err != nil {
			return nil, err
		}
		j.ApplicationsCount = &count
		out = append(out, *j)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateJob(ctx context.Context, id string, upd models.JobUpdate) error {
	var branches *string
	if upd.EligibleBranches != nil {
		b, err := encodeStrings(*upd.EligibleBranches)
		if err != nil {
			return err
		}
		branches = &b
	}

	_, err := r.q.ExecContext(ctx, `UPDATE jobs SET
		title = COALESCE(?, title),
		description = COALESCE(?, description),
		package_lpa = COALESCE(?, package_lpa),
		min_cgpa = COALESCE(?, min_cgpa),
		eligible_branches = COALESCE(?, eligible_branches),
		location = COALESCE(?, location),
		job_type = COALESCE(?, job_type),
		application_deadline = COALESCE(?, application_deadline),
		updated = ?
		WHERE id = ?`,
		upd.Title, upd.Description, upd.PackageLPA, upd.MinCGPA, branches, upd.Location, upd.JobType,
		upd.ApplicationDeadline, now(), id)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}

	return nil
}

// DeactivateJob soft-deletes the job; there is no reactivation.
func (r *SQLiteRepo) DeactivateJob(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `UPDATE jobs SET is_active = 0, updated = ? WHERE id = ?`, now(), id); err != nil {
		return fmt.Errorf("deactivate job: %w", err)
	}
	return nil
}

func scanJob(row scanner, extra ...any) (*models.Job, error) {
	var j models.Job
	var branches string
	dest := []any{&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.PackageLPA, &j.MinCGPA, &branches,
		&j.Location, &j.JobType, &j.ApplicationDeadline, &j.IsActive, &j.Created, &j.Updated}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	if err := json.Unmarshal([]byte(branches), &j.EligibleBranches); err != nil {
		return nil, fmt.Errorf("decode eligible branches: %w", err)
	}
	if j.EligibleBranches == nil {
		j.EligibleBranches = []string{}
	}

	return &j, nil
}

func encodeStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode string list: %w", err)
	}
	return string(b), nil
}
