package portal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garnizeh/placement/internal/apperr"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/garnizeh/placement/pkg/repository"
)

// JobList is one page of the public job board.
type JobList struct {
	Jobs       []models.Job      `json:"jobs"`
	Pagination models.Pagination `json:"pagination"`
}

// JobService serves the public job board: active jobs of verified companies
// whose deadline is today or later.
type JobService struct {
	store repository.JobRepo
	now   func() time.Time
}

func NewJobService(store repository.JobRepo) *JobService {
	return &JobService{store: store, now: time.Now}
}

func (s *JobService) ListJobs(ctx context.Context, f models.JobFilter) (*JobList, error) {
	f.Page, f.Limit = pageBounds(f.Page, f.Limit)
	f.Branch = strings.TrimSpace(f.Branch)
	f.Search = strings.TrimSpace(f.Search)

	jobs, total, err := s.store.ListOpenJobs(ctx, f, today(s.now))
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	return &JobList{Jobs: jobs, Pagination: models.NewPagination(f.Page, f.Limit, total)}, nil
}

func (s *JobService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.store.GetOpenJob(ctx, id, today(s.now))
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return nil, apperr.NotFound("Job not found")
	}
	return job, nil
}
