package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/placement/pkg/models"
)

func (r *SQLiteRepo) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var s models.DashboardStats
	row := r.q.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(1) FROM students),
		(SELECT COUNT(1) FROM students WHERE is_placed = 1),
		(SELECT COUNT(1) FROM companies),
		(SELECT COUNT(1) FROM companies WHERE is_verified = 1),
		(SELECT COUNT(1) FROM jobs WHERE is_active = 1),
		(SELECT COUNT(1) FROM jobs),
		(SELECT COUNT(1) FROM applications)`)
	if err := row.Scan(&s.TotalStudents, &s.PlacedStudents, &s.TotalCompanies, &s.VerifiedCompanies,
		&s.ActiveJobs, &s.TotalJobs, &s.TotalApplications); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	s.UnplacedStudents = s.TotalStudents - s.PlacedStudents
	s.PendingCompanies = s.TotalCompanies - s.VerifiedCompanies

	return &s, nil
}
