package auth

import (
	"context"

	"github.com/garnizeh/placement/internal/apperr"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/garnizeh/placement/pkg/repository"
)

// ProfileOwner resolves the profile owning a user's role-specific data.
type ProfileOwner interface {
	ProfileID(ctx context.Context, userID string) (string, error)
}

// ProfileOwnerFunc adapts a function to ProfileOwner.
type ProfileOwnerFunc func(ctx context.Context, userID string) (string, error)

func (f ProfileOwnerFunc) ProfileID(ctx context.Context, userID string) (string, error) {
	return f(ctx, userID)
}

// Owners returns the ProfileOwner of every role backed by store.
func Owners(store repository.Store) map[models.Role]ProfileOwner {
	return map[models.Role]ProfileOwner{
		models.RoleStudent: ProfileOwnerFunc(func(ctx context.Context, userID string) (string, error) {
			s, err := store.GetStudentByUserID(ctx, userID)
			if err != nil {
				return "", err
			}
			if s == nil {
				return "", apperr.NotFound("Student profile not found")
			}
			return s.ID, nil
		}),
		models.RoleCompany: ProfileOwnerFunc(func(ctx context.Context, userID string) (string, error) {
			c, err := store.GetCompanyByUserID(ctx, userID)
			if err != nil {
				return "", err
			}
			if c == nil {
				return "", apperr.NotFound("Company profile not found")
			}
			return c.ID, nil
		}),
		models.RoleAdmin: ProfileOwnerFunc(func(_ context.Context, userID string) (string, error) {
			return userID, nil
		}),
	}
}
