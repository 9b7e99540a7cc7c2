package portal_test

import (
	"archive/zip"
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	dbfs "github.com/garnizeh/placement/db"
	"github.com/garnizeh/placement/internal/apperr"
	"github.com/garnizeh/placement/internal/auth"
	dbpkg "github.com/garnizeh/placement/internal/db"
	"github.com/garnizeh/placement/internal/notify"
	"github.com/garnizeh/placement/internal/portal"
	sqlite "github.com/garnizeh/placement/internal/repository/sqlite"
	"github.com/garnizeh/placement/pkg/models"
)

type fakeQueue struct {
	mu     sync.Mutex
	emails []notify.Email
	err    error
}

func (f *fakeQueue) Enqueue(_ context.Context, typ string, payload any, _ int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if typ == notify.JobTypeEmail {
		f.emails = append(f.emails, payload.(notify.Email))
	}
	return "job-1", nil
}

type env struct {
	db        *dbpkg.DB
	store     *sqlite.SQLiteRepo
	queue     *fakeQueue
	auth      *portal.AuthService
	students  *portal.StudentService
	companies *portal.CompanyService
	jobs      *portal.JobService
	admin     *portal.AdminService
	notes     *portal.NotificationService
	uploadDir string
}

func setup(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	d, err := dbpkg.New(ctx, filepath.Join(t.TempDir(), "portal.db"), nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := dbpkg.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := sqlite.New(d, nil)
	queue := &fakeQueue{}
	uploadDir := t.TempDir()
	return &env{
		db:        d,
		store:     store,
		queue:     queue,
		auth:      portal.NewAuthService(store, auth.NewTokens("test-secret", time.Hour), nil),
		students:  portal.NewStudentService(store, uploadDir, 1<<20, nil),
		companies: portal.NewCompanyService(store, notify.New(queue, 3, nil), nil),
		jobs:      portal.NewJobService(store),
		admin:     portal.NewAdminService(store, nil),
		notes:     portal.NewNotificationService(store),
		uploadDir: uploadDir,
	}
}

func ptr[T any](v T) *T { return &v }

func date(days int) string {
	return time.Now().AddDate(0, 0, days).Format(models.DateLayout)
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

func (e *env) student(t *testing.T, email string) *models.Student {
	t.Helper()
	ctx := context.Background()
	sess, err := e.auth.Register(ctx, portal.RegisterInput{
		Email: email, Password: "secret", Role: models.RoleStudent,
		FirstName: ptr("Asha"), LastName: ptr("Rao"), Branch: ptr("CSE"), CGPA: ptr(8.1),
	})
	if err != nil {
		t.Fatalf("register student: %v", err)
	}
	st, err := e.store.GetStudentByUserID(ctx, sess.User.ID)
	if err != nil || st == nil {
		t.Fatalf("student profile: %v", err)
	}
	return st
}

func (e *env) adminUser(t *testing.T, email string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("admin")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{Email: email, PasswordHash: hash, Role: models.RoleAdmin, IsActive: true, IsVerified: true}
	if err := e.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return u
}

func (e *env) company(t *testing.T, email string, verified bool) *models.Company {
	t.Helper()
	ctx := context.Background()
	sess, err := e.auth.Register(ctx, portal.RegisterInput{
		Email: email, Password: "secret", Role: models.RoleCompany, CompanyName: ptr("Acme"),
	})
	if err != nil {
		t.Fatalf("register company: %v", err)
	}
	c, err := e.store.GetCompanyByUserID(ctx, sess.User.ID)
	if err != nil || c == nil {
		t.Fatalf("company profile: %v", err)
	}
	if verified {
		admin := e.adminUser(t, "admin-"+email)
		if c, err = e.admin.VerifyCompany(ctx, admin.ID, c.ID); err != nil {
			t.Fatalf("verify company: %v", err)
		}
	}
	return c
}

func (e *env) job(t *testing.T, companyID, title, deadline string) *models.Job {
	t.Helper()
	j, err := e.companies.CreateJob(context.Background(), companyID, models.Job{
		Title: title, Description: title + " role", ApplicationDeadline: deadline,
		PackageLPA: ptr(12.0), EligibleBranches: []string{"CSE"},
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return j
}

func (e *env) withResume(t *testing.T, studentID string) {
	t.Helper()
	doc := docx(t, "Jane Doe jane@example.com", "5 years of experience with Python")
	if _, err := e.students.UploadResume(context.Background(), studentID, "cv.docx", bytes.NewReader(doc)); err != nil {
		t.Fatalf("upload resume: %v", err)
	}
}

func docx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body string
	for _, p := range paragraphs {
		body += `<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`
	}
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := f.Write([]byte(doc)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}
