package portal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/garnizeh/placement/internal/apperr"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/garnizeh/placement/pkg/repository"
)

const msgAdminCompanyNotFound = "Company not found"

// StudentList is one page of the admin student listing.
type StudentList struct {
	Students   []models.Student  `json:"students"`
	Pagination models.Pagination `json:"pagination"`
}

type AdminService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewAdminService(store repository.Store, logger *slog.Logger) *AdminService {
	if logger == nil {
		logger = discardLogger()
	}
	return &AdminService{store: store, logger: logger}
}

func (s *AdminService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.store.DashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}

func (s *AdminService) PendingCompanies(ctx context.Context) ([]models.Company, error) {
	companies, err := s.store.ListPendingCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending companies: %w", err)
	}
	return companies, nil
}

// VerifyCompany marks the company verified by adminID. Verification is
// never undone; verifying twice keeps the first verifier.
func (s *AdminService) VerifyCompany(ctx context.Context, adminID, companyID string) (*models.Company, error) {
	var out *models.Company
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		c, err := tx.GetCompanyByID(ctx, companyID)
		if err != nil {
			return fmt.Errorf("get company: %w", err)
		}
		if c == nil {
			return apperr.NotFound(msgAdminCompanyNotFound)
		}
		if c.IsVerified {
			out = c
			return nil
		}
		if err := tx.VerifyCompany(ctx, c.ID, adminID); err != nil {
			return err
		}
		out, err = tx.GetCompanyByID(ctx, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("company verified", slog.String("company_id", companyID), slog.String("admin_id", adminID))

	return out, nil
}

// RejectCompany deletes the company profile together with its jobs and
// their applications. The owning user account is kept.
func (s *AdminService) RejectCompany(ctx context.Context, companyID string) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		c, err := tx.GetCompanyByID(ctx, companyID)
		if err != nil {
			return fmt.Errorf("get company: %w", err)
		}
		if c == nil {
			return apperr.NotFound(msgAdminCompanyNotFound)
		}
		return tx.DeleteCompany(ctx, c.ID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("company rejected", slog.String("company_id", companyID))

	return nil
}

func (s *AdminService) ListStudents(ctx context.Context, f models.StudentFilter) (*StudentList, error) {
	f.Page, f.Limit = pageBounds(f.Page, f.Limit)
	f.Branch = strings.TrimSpace(f.Branch)

	students, total, err := s.store.ListStudents(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	return &StudentList{Students: students, Pagination: models.NewPagination(f.Page, f.Limit, total)}, nil
}
