package repository

import (
	"context"

	"github.com/garnizeh/placement/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
// Getters return nil, nil when the row does not exist.

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type StudentRepo interface {
	CreateStudent(ctx context.Context, s *models.Student) error
	GetStudentByID(ctx context.Context, id string) (*models.Student, error)
	GetStudentByUserID(ctx context.Context, userID string) (*models.Student, error)
	UpdateStudent(ctx context.Context, id string, upd models.StudentUpdate) error
	SetResumeURL(ctx context.Context, id, url string) error
	MarkPlaced(ctx context.Context, id string) error
	ListStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, int64, error)

	AddEducation(ctx context.Context, e *models.Education) error
	ListEducation(ctx context.Context, studentID string) ([]models.Education, error)
	AddSkill(ctx context.Context, s *models.Skill) error
	ListSkills(ctx context.Context, studentID string) ([]models.Skill, error)
}

type CompanyRepo interface {
	CreateCompany(ctx context.Context, c *models.Company) error
	GetCompanyByID(ctx context.Context, id string) (*models.Company, error)
	GetCompanyByUserID(ctx context.Context, userID string) (*models.Company, error)
	UpdateCompany(ctx context.Context, id string, upd models.CompanyUpdate) error
	VerifyCompany(ctx context.Context, id, adminID string) error
	DeleteCompany(ctx context.Context, id string) error
	ListPendingCompanies(ctx context.Context) ([]models.Company, error)
	CountActiveJobs(ctx context.Context, companyID string) (int64, error)
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) error
	GetJobByID(ctx context.Context, id string) (*models.Job, error)
	// GetOpenJob returns an active job of a verified company whose deadline
	// is on or after today.
	GetOpenJob(ctx context.Context, id, today string) (*models.Job, error)
	ListOpenJobs(ctx context.Context, f models.JobFilter, today string) ([]models.Job, int64, error)
	ListJobsByCompany(ctx context.Context, companyID string) ([]models.Job, error)
	UpdateJob(ctx context.Context, id string, upd models.JobUpdate) error
	DeactivateJob(ctx context.Context, id string) error
}

type ApplicationRepo interface {
	CreateApplication(ctx context.Context, a *models.Application) error
	GetApplicationByID(ctx context.Context, id string) (*models.Application, error)
	GetApplicationByStudentAndJob(ctx context.Context, studentID, jobID string) (*models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error
	ListApplicationsByStudent(ctx context.Context, studentID string) ([]models.StudentApplication, error)
	ListApplicationsByJob(ctx context.Context, jobID string) ([]models.JobApplicant, error)
}

type NotificationRepo interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string, isRead *bool) ([]models.Notification, error)
	// MarkNotificationRead reports false when no notification with id belongs to userID.
	MarkNotificationRead(ctx context.Context, id, userID string) (bool, error)
}

type ResumeRepo interface {
	CreateParsedResume(ctx context.Context, p *models.ParsedResume) error
	LatestParsedResume(ctx context.Context, studentID string) (*models.ParsedResume, error)
}

type StatsRepo interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

// Store groups every repository and runs units of work atomically.
type Store interface {
	UserRepo
	StudentRepo
	CompanyRepo
	JobRepo
	ApplicationRepo
	NotificationRepo
	ResumeRepo
	StatsRepo

	// WithTx runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(Store) error) error
}
