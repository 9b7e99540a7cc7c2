// Package portal implements the placement workflows (registration, profiles,
// job postings, applications and administration) on top of repository.Store.
// Callers pass profile ids already resolved by the authorization layer.
package portal

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/garnizeh/placement/pkg/models"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// today returns the calendar date deadlines are compared against.
func today(now func() time.Time) string {
	return now().Format(models.DateLayout)
}

func pageBounds(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// blank reports whether an optional string was sent but holds only whitespace.
func blank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}

// nonEmpty drops empty optional strings so they are stored as NULL.
func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
