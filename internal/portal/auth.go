package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/garnizeh/placement/internal/apperr"
	"github.com/garnizeh/placement/internal/auth"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/garnizeh/placement/pkg/repository"
)

const (
	msgUserExists         = "User with this email already exists"
	msgInvalidCredentials = "Invalid credentials"
)

// RegisterInput is the sign-up payload. Profile fields apply to the role
// being registered and are ignored otherwise.
type RegisterInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`

	FirstName        *string  `json:"firstName"`
	LastName         *string  `json:"lastName"`
	EnrollmentNumber *string  `json:"enrollmentNumber"`
	Branch           *string  `json:"branch"`
	CGPA             *float64 `json:"cgpa"`

	CompanyName *string `json:"companyName"`
	Industry    *string `json:"industry"`
	Website     *string `json:"website"`
}

// Session is returned by a successful register or login.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService struct {
	store  repository.Store
	tokens *auth.Tokens
	logger *slog.Logger
}

func NewAuthService(store repository.Store, tokens *auth.Tokens, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = discardLogger()
	}
	return &AuthService{store: store, tokens: tokens, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the user and its role profile in one transaction and
// returns a session for it. Companies start unverified.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" || in.Role == "" {
		return nil, apperr.Validation("Email, password, and role are required")
	}
	if !in.Role.SelfRegistrable() {
		return nil, apperr.Validation("Invalid role. Only student and company can register.")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     true,
		IsVerified:   in.Role == models.RoleStudent,
	}

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		existing, err := tx.GetUserByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("lookup user: %w", err)
		}
		if existing != nil {
			return apperr.Conflict(msgUserExists)
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				return apperr.Conflict(msgUserExists)
			}
			return err
		}

		switch in.Role {
		case models.RoleStudent:
			return tx.CreateStudent(ctx, &models.Student{
				UserID:           user.ID,
				FirstName:        deref(in.FirstName),
				LastName:         deref(in.LastName),
				EnrollmentNumber: nonEmpty(in.EnrollmentNumber),
				Branch:           nonEmpty(in.Branch),
				CGPA:             in.CGPA,
			})
		case models.RoleCompany:
			return tx.CreateCompany(ctx, &models.Company{
				UserID:      user.ID,
				CompanyName: deref(in.CompanyName),
				Industry:    nonEmpty(in.Industry),
				Website:     nonEmpty(in.Website),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))

	return &Session{User: user, Token: token}, nil
}

// Login verifies the credentials. Unknown emails and wrong passwords fail
// with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Auth(msgInvalidCredentials)
	}
	if !user.IsActive {
		return nil, apperr.Auth("Account is inactive")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &Session{User: user, Token: token}, nil
}
