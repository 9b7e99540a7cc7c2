package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/garnizeh/placement/internal/auth"
	"github.com/garnizeh/placement/internal/config"
	"github.com/garnizeh/placement/internal/db"
	"github.com/garnizeh/placement/internal/notify"
	"github.com/garnizeh/placement/internal/portal"
	"github.com/garnizeh/placement/internal/ratelimit"
	"github.com/garnizeh/placement/internal/repository/sqlite"
	"github.com/garnizeh/placement/internal/schema"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/gorilla/mux"
)

// Deps are the collaborators the routes are built on. Limiter defaults to an
// in-memory limiter and Notifier to one that only records in-app
// notifications.
type Deps struct {
	DB       *db.DB
	Schemas  *schema.Loader
	Limiter  ratelimit.Limiter
	Notifier *notify.Notifier
}

func SetupRoutes(cfg *config.Config, version, buildTime string, deps Deps) *mux.Router {
	exposeErrors = !cfg.IsProduction()

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondStatus(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondStatus(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware(cfg.FrontendURL))
	r.Use(RecoveryMiddleware)

	// Preflight requests for any path are answered by the CORS middleware.
	r.MatcherFunc(func(r *http.Request, _ *mux.RouteMatch) bool {
		return r.Method == http.MethodOptions
	}).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Repository and services
	repo := sqlite.New(deps.DB, logger)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenDuration)
	owners := auth.Owners(repo)
	limiter := deps.Limiter
	if limiter == nil {
		limiter = ratelimit.NewMemoryLimiter()
	}
	proxies, err := ratelimit.ParseProxies(cfg.RateLimit.TrustedProxies)
	if err != nil {
		logger.Warn("ignoring invalid trusted proxies", slog.Any("err", err))
	}

	systemHandler := NewSystemHandler(deps.DB.GetConn())
	authHandler := NewAuthHandler(portal.NewAuthService(repo, tokens, logger), deps.Schemas)
	studentHandler := NewStudentHandler(portal.NewStudentService(repo, cfg.UploadDir, cfg.MaxUploadBytes, logger), deps.Schemas, cfg.MaxUploadBytes)
	companyHandler := NewCompanyHandler(portal.NewCompanyService(repo, deps.Notifier, logger), deps.Schemas)
	jobHandler := NewJobHandler(portal.NewJobService(repo))
	adminHandler := NewAdminHandler(portal.NewAdminService(repo, logger))
	notificationHandler := NewNotificationHandler(portal.NewNotificationService(repo))

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.PathPrefix(portal.ResumeURLPrefix).Handler(http.StripPrefix(portal.ResumeURLPrefix, noDirListing(http.FileServer(http.Dir(cfg.UploadDir))))).Methods("GET")

	apiR := r.PathPrefix("/api").Subrouter()
	apiR.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	apiR.HandleFunc("/jobs", jobHandler.List).Methods("GET")
	apiR.HandleFunc("/jobs/{jobId}", jobHandler.Get).Methods("GET")

	authR := apiR.PathPrefix("/auth").Subrouter()
	authR.Use(RateLimit(limiter, proxies, "auth", cfg.RateLimit.AuthRequests, cfg.RateLimit.Window))
	authR.HandleFunc("/register", authHandler.Register).Methods("POST")
	authR.HandleFunc("/login", authHandler.Login).Methods("POST")

	// Protected routes
	authenticate := Authenticate(tokens, repo)

	meR := apiR.PathPrefix("/auth/me").Subrouter()
	meR.Use(authenticate)
	meR.HandleFunc("", authHandler.Me).Methods("GET")

	studentsR := apiR.PathPrefix("/students").Subrouter()
	studentsR.Use(authenticate, Authorize(owners, models.RoleStudent))
	studentsR.HandleFunc("/profile", studentHandler.GetProfile).Methods("GET")
	studentsR.HandleFunc("/profile", studentHandler.UpdateProfile).Methods("PUT")
	studentsR.HandleFunc("/education", studentHandler.AddEducation).Methods("POST")
	studentsR.HandleFunc("/skills", studentHandler.AddSkill).Methods("POST")
	studentsR.HandleFunc("/resume/upload", studentHandler.UploadResume).Methods("POST")
	studentsR.HandleFunc("/applications", studentHandler.ListApplications).Methods("GET")
	studentsR.HandleFunc("/applications", studentHandler.Apply).Methods("POST")

	companiesR := apiR.PathPrefix("/companies").Subrouter()
	companiesR.Use(authenticate, Authorize(owners, models.RoleCompany))
	companiesR.HandleFunc("/profile", companyHandler.GetProfile).Methods("GET")
	companiesR.HandleFunc("/profile", companyHandler.UpdateProfile).Methods("PUT")
	companiesR.HandleFunc("/jobs", companyHandler.ListJobs).Methods("GET")
	companiesR.HandleFunc("/jobs", companyHandler.CreateJob).Methods("POST")
	companiesR.HandleFunc("/jobs/{jobId}", companyHandler.UpdateJob).Methods("PUT")
	companiesR.HandleFunc("/jobs/{jobId}", companyHandler.DeleteJob).Methods("DELETE")
	companiesR.HandleFunc("/jobs/{jobId}/applications", companyHandler.ListApplications).Methods("GET")
	companiesR.HandleFunc("/jobs/{jobId}/applications/{applicationId}/status", companyHandler.UpdateApplicationStatus).Methods("PUT")

	adminR := apiR.PathPrefix("/admin").Subrouter()
	adminR.Use(authenticate, Authorize(owners, models.RoleAdmin))
	adminR.HandleFunc("/dashboard", adminHandler.Dashboard).Methods("GET")
	adminR.HandleFunc("/companies/pending", adminHandler.PendingCompanies).Methods("GET")
	adminR.HandleFunc("/companies/{id}/verify", adminHandler.VerifyCompany).Methods("POST")
	adminR.HandleFunc("/companies/{id}/reject", adminHandler.RejectCompany).Methods("POST")
	adminR.HandleFunc("/students", adminHandler.ListStudents).Methods("GET")

	notificationsR := apiR.PathPrefix("/notifications").Subrouter()
	notificationsR.Use(authenticate, Authorize(owners, models.RoleStudent, models.RoleCompany, models.RoleAdmin))
	notificationsR.HandleFunc("", notificationHandler.List).Methods("GET")
	notificationsR.HandleFunc("/{id}/read", notificationHandler.MarkRead).Methods("PUT")

	return r
}

// noDirListing answers directory requests with 404 instead of an index.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			respondStatus(w, http.StatusNotFound, "Route not found")
			return
		}
		next.ServeHTTP(w, r)
	})
}
