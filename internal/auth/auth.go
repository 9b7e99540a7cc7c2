// Package auth holds password hashing, session tokens and the caller
// identity carried through request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garnizeh/placement/internal/apperr"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Principal identifies the authenticated caller. ProfileID is the id of the
// role profile (student or company row, or the user itself for admins) and is
// only set once authorization resolved it.
type Principal struct {
	UserID    string      `json:"userId"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	ProfileID string      `json:"-"`
}

type ctxKey string

const ctxPrincipal ctxKey = "principal"

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

// FromContext returns the principal attached by the auth middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxPrincipal).(Principal)
	return p, ok
}

// HashPassword hashes pw with bcrypt at the default cost.
func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether pw matches the bcrypt hash.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the user that expires after the configured lifetime.
func (t *Tokens) Issue(u *models.User) (string, error) {
	if u == nil {
		return "", errors.New("user is nil")
	}
	iat := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    string(u.Role),
		"iat":     iat.Unix(),
		"exp":     iat.Add(t.ttl).Unix(),
	})
	tokenStr, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenStr, nil
}

// Parse verifies the signature and expiry of tokenString and returns its
// claims as a principal.
func (t *Tokens) Parse(tokenString string) (Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return t.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return Principal{}, &apperr.Error{Kind: apperr.KindAuth, Message: "Invalid or expired token", Err: err}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, apperr.Auth("Invalid or expired token")
	}
	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || !models.Role(role).Valid() {
		return Principal{}, apperr.Auth("Invalid or expired token")
	}

	return Principal{UserID: userID, Email: email, Role: models.Role(role)}, nil
}
