package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/placement/pkg/models"
	"github.com/google/uuid"
)

const companyColumns = `c.id, c.user_id, u.email, c.company_name, c.industry, c.website, c.description, c.address, c.phone,
	c.is_verified, c.verified_by, c.verified_at, c.created, c.updated`

func (r *SQLiteRepo) CreateCompany(ctx context.Context, c *models.Company) error {
	if c == nil {
		return fmt.Errorf("company is nil")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Created = now()
	c.Updated = c.Created

	_, err := r.q.ExecContext(ctx, `INSERT INTO companies (id, user_id, company_name, industry, website, description, address, phone,
		is_verified, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.CompanyName, c.Industry, c.Website, c.Description, c.Address, c.Phone, c.IsVerified, c.Created, c.Updated)
	if err != nil {
		return uniqueViolation(fmt.Errorf("insert company: %w", err), "Company profile already exists")
	}

	return nil
}

func (r *SQLiteRepo) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies c JOIN users u ON u.id = c.user_id WHERE c.id = ?`, id)
	return scanCompany(row)
}

func (r *SQLiteRepo) GetCompanyByUserID(ctx context.Context, userID string) (*models.Company, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies c JOIN users u ON u.id = c.user_id WHERE c.user_id = ?`, userID)
	return scanCompany(row)
}

func (r *SQLiteRepo) UpdateCompany(ctx context.Context, id string, upd models.CompanyUpdate) error {
	_, err := r.q.ExecContext(ctx, `UPDATE companies SET
		company_name = COALESCE(?, company_name),
		industry = COALESCE(?, industry),
		website = COALESCE(?, website),
		description = COALESCE(?, description),
		address = COALESCE(?, address),
		phone = COALESCE(?, phone),
		updated = ?
		WHERE id = ?`,
		upd.CompanyName, upd.Industry, upd.Website, upd.Description, upd.Address, upd.Phone, now(), id)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}

	return nil
}

// VerifyCompany marks the company verified by adminID. It also flags the
// owning user account as verified.
func (r *SQLiteRepo) VerifyCompany(ctx context.Context, id, adminID string) error {
	ts := now()
	if _, err := r.q.ExecContext(ctx, `UPDATE companies SET is_verified = 1, verified_by = ?, verified_at = ?, updated = ? WHERE id = ?`,
		adminID, ts, ts, id); err != nil {
		return fmt.Errorf("verify company: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, `UPDATE users SET is_verified = 1, updated = ? WHERE id = (SELECT user_id FROM companies WHERE id = ?)`,
		ts, id); err != nil {
		return fmt.Errorf("verify company user: %w", err)
	}

	return nil
}

// DeleteCompany removes the company; jobs and their applications cascade.
func (r *SQLiteRepo) DeleteCompany(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) ListPendingCompanies(ctx context.Context) ([]models.Company, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies c JOIN users u ON u.id = c.user_id
		WHERE c.is_verified = 0 ORDER BY u.created DESC, c.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list pending companies: %w", err)
	}
	defer rows.Close()

	out := make([]models.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountActiveJobs(ctx context.Context, companyID string) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM jobs WHERE company_id = ? AND is_active = 1`, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active jobs: %w", err)
	}
	return n, nil
}

func scanCompany(row scanner) (*models.Company, error) {
	var c models.Company
	if err := row.Scan(&c.ID, &c.UserID, &c.Email, &c.CompanyName, &c.Industry, &c.Website, &c.Description, &c.Address, &c.Phone,
		&c.IsVerified, &c.VerifiedBy, &c.VerifiedAt, &c.Created, &c.Updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}

	return &c, nil
}
