package api

import (
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/garnizeh/placement/internal/apperr"
	"github.com/garnizeh/placement/internal/auth"
	"github.com/garnizeh/placement/internal/ratelimit"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/garnizeh/placement/pkg/repository"
	"github.com/gorilla/mux"
)

// package-level logger used by middleware and helpers; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the api package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// CORSMiddleware allows the front end at origin. An empty origin allows any.
func CORSMiddleware(origin string) mux.MiddlewareFunc {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			if origin != "*" {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic", slog.Any("err", err), slog.String("path", r.URL.Path))
				respondStatus(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// Authenticate resolves the bearer token to an active user and attaches the
// caller's principal to the request context. Any failure is a 401.
func Authenticate(tokens *auth.Tokens, users repository.UserRepo) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			tokenString = strings.TrimSpace(tokenString)
			if !ok || tokenString == "" {
				respondStatus(w, http.StatusUnauthorized, "No token provided, authorization denied")
				return
			}

			p, err := tokens.Parse(tokenString)
			if err != nil {
				respondError(w, r, err, "Invalid or expired token")
				return
			}

			u, err := users.GetUserByID(r.Context(), p.UserID)
			if err != nil {
				respondError(w, r, err, "Authentication failed")
				return
			}
			if u == nil || !u.IsActive {
				respondStatus(w, http.StatusUnauthorized, "User not found or inactive")
				return
			}
			p.Email, p.Role = u.Email, u.Role

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// Authorize admits principals holding one of roles and resolves their
// profile through the owner registered for the role. It must run after
// Authenticate.
func Authorize(owners map[models.Role]auth.ProfileOwner, roles ...models.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.FromContext(r.Context())
			if !ok {
				respondStatus(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !slices.Contains(roles, p.Role) {
				respondError(w, r, apperr.Forbidden("Access denied. Insufficient permissions."), "")
				return
			}

			owner, ok := owners[p.Role]
			if !ok {
				respondError(w, r, apperr.Forbidden("Access denied. Insufficient permissions."), "")
				return
			}
			id, err := owner.ProfileID(r.Context(), p.UserID)
			if err != nil {
				respondError(w, r, err, "Failed to resolve profile")
				return
			}
			p.ProfileID = id

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// RateLimit allows limit requests per client IP and window under prefix.
// The client IP is resolved through proxies. A non-positive limit disables it.
func RateLimit(l ratelimit.Limiter, proxies ratelimit.Proxies, prefix string, limit int, window time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if l == nil || limit <= 0 || window <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(r.Context(), prefix+":"+proxies.ClientIP(r), limit, window) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				respondStatus(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// principal returns the caller set by Authenticate and Authorize.
func principal(r *http.Request) auth.Principal {
	p, _ := auth.FromContext(r.Context())
	return p
}
