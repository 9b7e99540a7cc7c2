package portal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/garnizeh/placement/internal/apperr"
	"github.com/garnizeh/placement/internal/notify"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/garnizeh/placement/pkg/repository"
)

const (
	msgCompanyNotFound = "Company profile not found"
	msgJobNotOwned     = "Job not found or access denied"
)

type CompanyService struct {
	store    repository.Store
	notifier *notify.Notifier
	logger   *slog.Logger
}

func NewCompanyService(store repository.Store, notifier *notify.Notifier, logger *slog.Logger) *CompanyService {
	if logger == nil {
		logger = discardLogger()
	}
	if notifier == nil {
		notifier = notify.New(nil, 0, logger)
	}
	return &CompanyService{store: store, notifier: notifier, logger: logger}
}

func company(ctx context.Context, store repository.CompanyRepo, id string) (*models.Company, error) {
	c, err := store.GetCompanyByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	if c == nil {
		return nil, apperr.NotFound(msgCompanyNotFound)
	}
	return c, nil
}

// ownedJob returns jobID when it belongs to companyID. Jobs of other
// companies are reported as missing.
func ownedJob(ctx context.Context, store repository.JobRepo, companyID, jobID string) (*models.Job, error) {
	job, err := store.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil || job.CompanyID != companyID {
		return nil, apperr.NotFound(msgJobNotOwned)
	}
	return job, nil
}

// GetProfile returns the company with the number of its active jobs.
func (s *CompanyService) GetProfile(ctx context.Context, companyID string) (*models.Company, error) {
	c, err := company(ctx, s.store, companyID)
	if err != nil {
		return nil, err
	}
	n, err := s.store.CountActiveJobs(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("count active jobs: %w", err)
	}
	c.ActiveJobsCount = &n

	return c, nil
}

func (s *CompanyService) UpdateProfile(ctx context.Context, companyID string, upd models.CompanyUpdate) (*models.Company, error) {
	if blank(upd.CompanyName) {
		return nil, apperr.Validation("Company name must not be empty")
	}

	var out *models.Company
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := company(ctx, tx, companyID); err != nil {
			return err
		}
		if err := tx.UpdateCompany(ctx, companyID, upd); err != nil {
			return err
		}
		c, err := company(ctx, tx, companyID)
		out = c
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func validDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

func validateJob(title, description, deadline *string, minCGPA, pkg *float64) error {
	if blank(title) || blank(description) {
		return apperr.Validation("Title and description must not be empty")
	}
	if deadline != nil && !validDate(*deadline) {
		return apperr.Validation("Application deadline must be a date in YYYY-MM-DD format")
	}
	if minCGPA != nil && (*minCGPA < 0 || *minCGPA > 10) {
		return apperr.Validation("Minimum CGPA must be between 0 and 10")
	}
	if pkg != nil && *pkg < 0 {
		return apperr.Validation("Package must not be negative")
	}
	return nil
}

// CreateJob posts a job for a verified company. Eligibility fields are
// stored as given.
func (s *CompanyService) CreateJob(ctx context.Context, companyID string, j models.Job) (*models.Job, error) {
	j.Title = strings.TrimSpace(j.Title)
	j.Description = strings.TrimSpace(j.Description)
	if j.Title == "" || j.Description == "" || j.ApplicationDeadline == "" {
		return nil, apperr.Validation("Title, description and application deadline are required")
	}
	if err := validateJob(&j.Title, &j.Description, &j.ApplicationDeadline, j.MinCGPA, j.PackageLPA); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		c, err := company(ctx, tx, companyID)
		if err != nil {
			return err
		}
		if !c.IsVerified {
			return apperr.Forbidden("Company must be verified by admin before posting jobs")
		}

		j.ID = ""
		j.CompanyID = c.ID
		j.IsActive = true
		j.Location = nonEmpty(j.Location)
		j.JobType = nonEmpty(j.JobType)
		if j.EligibleBranches == nil {
			j.EligibleBranches = []string{}
		}
		return tx.CreateJob(ctx, &j)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("job posted", slog.String("job_id", j.ID), slog.String("company_id", j.CompanyID))

	return &j, nil
}

func (s *CompanyService) UpdateJob(ctx context.Context, companyID, jobID string, upd models.JobUpdate) (*models.Job, error) {
	if err := validateJob(upd.Title, upd.Description, upd.ApplicationDeadline, upd.MinCGPA, upd.PackageLPA); err != nil {
		return nil, err
	}

	var out *models.Job
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := ownedJob(ctx, tx, companyID, jobID); err != nil {
			return err
		}
		if err := tx.UpdateJob(ctx, jobID, upd); err != nil {
			return err
		}
		job, err := tx.GetJobByID(ctx, jobID)
		out = job
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteJob deactivates the job. Jobs are never removed and a deactivated
// job cannot be reopened.
func (s *CompanyService) DeleteJob(ctx context.Context, companyID, jobID string) error {
	return s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := ownedJob(ctx, tx, companyID, jobID); err != nil {
			return err
		}
		return tx.DeactivateJob(ctx, jobID)
	})
}

// ListJobs returns every job of the company, inactive ones included, with
// their application counts.
func (s *CompanyService) ListJobs(ctx context.Context, companyID string) ([]models.Job, error) {
	jobs, err := s.store.ListJobsByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company jobs: %w", err)
	}
	return jobs, nil
}

func (s *CompanyService) ListJobApplications(ctx context.Context, companyID, jobID string) ([]models.JobApplicant, error) {
	if _, err := ownedJob(ctx, s.store, companyID, jobID); err != nil {
		return nil, err
	}
	apps, err := s.store.ListApplicationsByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list job applications: %w", err)
	}
	return apps, nil
}

// UpdateApplicationStatus moves an application of one of the company's jobs
// to status. Only direct successors in the status graph are accepted.
// Selecting a student marks them placed. The student is notified in the same
// transaction; the email copy is queued after commit.
func (s *CompanyService) UpdateApplicationStatus(ctx context.Context, companyID, jobID, applicationID string, status models.ApplicationStatus) (*models.Application, error) {
	if !status.Known() {
		return nil, apperr.Validation("Invalid status")
	}

	var (
		app  *models.Application
		note *models.Notification
		to   string
	)
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		job, err := ownedJob(ctx, tx, companyID, jobID)
		if err != nil {
			return err
		}
		app, err = tx.GetApplicationByID(ctx, applicationID)
		if err != nil {
			return fmt.Errorf("get application: %w", err)
		}
		if app == nil || app.JobID != job.ID {
			return apperr.NotFound("Application not found")
		}
		if app.Status.Final() {
			return apperr.Validation(fmt.Sprintf("Application is already %s", app.Status))
		}
		if !app.Status.CanTransitionTo(status) {
			return apperr.Validation(fmt.Sprintf("Cannot change application status from %s to %s", app.Status, status))
		}

		st, err := tx.GetStudentByID(ctx, app.StudentID)
		if err != nil {
			return fmt.Errorf("get student: %w", err)
		}
		if st == nil {
			return apperr.NotFound(msgStudentNotFound)
		}

		if err := tx.UpdateApplicationStatus(ctx, app.ID, status); err != nil {
			return err
		}
		if status == models.StatusSelected {
			if err := tx.MarkPlaced(ctx, st.ID); err != nil {
				return err
			}
		}
		note, err = s.notifier.NotifyApplicationStatus(ctx, tx, st.UserID, job.ID, job.Title, status)
		if err != nil {
			return err
		}
		to = st.Email

		app, err = tx.GetApplicationByID(ctx, app.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("application status updated", slog.String("application_id", app.ID), slog.String("status", string(status)))
	s.notifier.Deliver(ctx, to, note)

	return app, nil
}
