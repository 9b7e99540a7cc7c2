package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	dbfs "github.com/garnizeh/placement/db"
	"github.com/garnizeh/placement/internal/apperr"
	dbpkg "github.com/garnizeh/placement/internal/db"
	sqlite "github.com/garnizeh/placement/internal/repository/sqlite"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/garnizeh/placement/pkg/repository"
)

func setupRepo(t *testing.T) *sqlite.SQLiteRepo {
	t.Helper()
	ctx := context.Background()
	d, err := dbpkg.New(ctx, filepath.Join(t.TempDir(), "repo.db"), nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := dbpkg.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return sqlite.New(d, nil)
}

func ptr[T any](v T) *T { return &v }

func mustUser(t *testing.T, repo *sqlite.SQLiteRepo, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "hash", Role: role, IsActive: true}
	if err := repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func mustStudent(t *testing.T, repo *sqlite.SQLiteRepo, email, enrollment, branch string) *models.Student {
	t.Helper()
	u := mustUser(t, repo, email, models.RoleStudent)
	s := &models.Student{UserID: u.ID, FirstName: "Asha", LastName: "Rao", EnrollmentNumber: ptr(enrollment), Branch: ptr(branch), CGPA: ptr(8.5)}
	if err := repo.CreateStudent(context.Background(), s); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	return s
}

func mustCompany(t *testing.T, repo *sqlite.SQLiteRepo, email string, verified bool) *models.Company {
	t.Helper()
	u := mustUser(t, repo, email, models.RoleCompany)
	c := &models.Company{UserID: u.ID, CompanyName: "Acme " + email}
	if err := repo.CreateCompany(context.Background(), c); err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}
	if verified {
		admin := mustUser(t, repo, "admin-"+email, models.RoleAdmin)
		if err := repo.VerifyCompany(context.Background(), c.ID, admin.ID); err != nil {
			t.Fatalf("VerifyCompany: %v", err)
		}
	}
	return c
}

func mustJob(t *testing.T, repo *sqlite.SQLiteRepo, companyID, title, deadline string, pkg float64, branches ...string) *models.Job {
	t.Helper()
	j := &models.Job{CompanyID: companyID, Title: title, Description: title + " role", PackageLPA: ptr(pkg),
		EligibleBranches: branches, ApplicationDeadline: deadline}
	if err := repo.CreateJob(context.Background(), j); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	return j
}

func TestUserCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, nil); err == nil {
		t.Fatalf("expected error when creating nil user")
	}

	got, err := repo.GetUserByEmail(ctx, "a@a.com")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for missing email, got %#v, %v", got, err)
	}

	u := mustUser(t, repo, "alice@example.com", models.RoleStudent)
	if u.ID == "" || u.Created == 0 {
		t.Fatalf("expected id and timestamps to be set")
	}

	got, err = repo.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got == nil || got.Email != "alice@example.com" || got.Role != models.RoleStudent || !got.IsActive || got.PasswordHash != "hash" {
		t.Fatalf("unexpected user %#v", got)
	}

	err = repo.CreateUser(ctx, &models.User{Email: "alice@example.com", PasswordHash: "x", Role: models.RoleCompany, IsActive: true})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}

func TestStudentProfile(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	s := mustStudent(t, repo, "s1@example.com", "EN001", "CSE")

	got, err := repo.GetStudentByUserID(ctx, s.UserID)
	if err != nil || got == nil {
		t.Fatalf("GetStudentByUserID: %v %#v", err, got)
	}
	if got.Email != "s1@example.com" || *got.Branch != "CSE" || got.IsPlaced {
		t.Fatalf("unexpected student %#v", got)
	}

	if err := repo.UpdateStudent(ctx, s.ID, models.StudentUpdate{Phone: ptr("555"), CGPA: ptr(9.1)}); err != nil {
		t.Fatalf("UpdateStudent: %v", err)
	}
	got, _ = repo.GetStudentByID(ctx, s.ID)
	if got.FirstName != "Asha" || got.Phone == nil || *got.Phone != "555" || *got.CGPA != 9.1 {
		t.Fatalf("partial update not applied as expected: %#v", got)
	}

	if err := repo.MarkPlaced(ctx, s.ID); err != nil {
		t.Fatalf("MarkPlaced: %v", err)
	}
	if err := repo.SetResumeURL(ctx, s.ID, "/uploads/resumes/x.pdf"); err != nil {
		t.Fatalf("SetResumeURL: %v", err)
	}
	got, _ = repo.GetStudentByID(ctx, s.ID)
	if !got.IsPlaced || !got.HasResume() {
		t.Fatalf("expected placed student with resume, got %#v", got)
	}

	u2 := mustUser(t, repo, "s2@example.com", models.RoleStudent)
	err = repo.CreateStudent(ctx, &models.Student{UserID: u2.ID, FirstName: "B", LastName: "C", EnrollmentNumber: ptr("EN001")})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict on duplicate enrollment number, got %v", err)
	}

	missing, err := repo.GetStudentByUserID(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil got %#v, %v", missing, err)
	}
}

func TestEducationAndSkills(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	s := mustStudent(t, repo, "s@example.com", "EN1", "CSE")

	for _, end := range []int{2018, 2024, 2020} {
		if err := repo.AddEducation(ctx, &models.Education{StudentID: s.ID, Degree: "D", Institution: "I", EndYear: ptr(end)}); err != nil {
			t.Fatalf("AddEducation: %v", err)
		}
	}
	edu, err := repo.ListEducation(ctx, s.ID)
	if err != nil {
		t.Fatalf("ListEducation: %v", err)
	}
	if len(edu) != 3 || *edu[0].EndYear != 2024 || *edu[2].EndYear != 2018 {
		t.Fatalf("expected education ordered by end year desc, got %+v", edu)
	}

	if err := repo.AddSkill(ctx, &models.Skill{StudentID: s.ID, SkillName: "Go", ProficiencyLevel: ptr("advanced")}); err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	skills, err := repo.ListSkills(ctx, s.ID)
	if err != nil || len(skills) != 1 || skills[0].SkillName != "Go" {
		t.Fatalf("unexpected skills %+v, %v", skills, err)
	}
}

func TestCompanyVerifyAndPending(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	pending := mustCompany(t, repo, "p@example.com", false)
	verified := mustCompany(t, repo, "v@example.com", true)

	list, err := repo.ListPendingCompanies(ctx)
	if err != nil {
		t.Fatalf("ListPendingCompanies: %v", err)
	}
	if len(list) != 1 || list[0].ID != pending.ID || list[0].Email != "p@example.com" {
		t.Fatalf("unexpected pending list %+v", list)
	}

	got, err := repo.GetCompanyByID(ctx, verified.ID)
	if err != nil || got == nil {
		t.Fatalf("GetCompanyByID: %v", err)
	}
	if !got.IsVerified || got.VerifiedBy == nil || got.VerifiedAt == nil {
		t.Fatalf("expected verification fields set, got %#v", got)
	}
	u, _ := repo.GetUserByID(ctx, got.UserID)
	if !u.IsVerified {
		t.Fatalf("expected owning user verified")
	}

	if err := repo.UpdateCompany(ctx, pending.ID, models.CompanyUpdate{Industry: ptr("Fintech")}); err != nil {
		t.Fatalf("UpdateCompany: %v", err)
	}
	got, _ = repo.GetCompanyByUserID(ctx, pending.UserID)
	if got.CompanyName != pending.CompanyName || got.Industry == nil || *got.Industry != "Fintech" {
		t.Fatalf("partial update not applied: %#v", got)
	}
}

func TestDeleteCompanyCascades(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := mustCompany(t, repo, "c@example.com", true)
	j := mustJob(t, repo, c.ID, "SDE", "2999-12-31", 10, "CSE")
	s := mustStudent(t, repo, "s@example.com", "EN1", "CSE")
	a := &models.Application{StudentID: s.ID, JobID: j.ID}
	if err := repo.CreateApplication(ctx, a); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	if err := repo.DeleteCompany(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCompany: %v", err)
	}
	if got, _ := repo.GetJobByID(ctx, j.ID); got != nil {
		t.Fatalf("expected job removed with company")
	}
	if got, _ := repo.GetApplicationByID(ctx, a.ID); got != nil {
		t.Fatalf("expected application removed with job")
	}
	if got, _ := repo.GetStudentByID(ctx, s.ID); got == nil {
		t.Fatalf("student must survive company deletion")
	}
}

func TestListOpenJobs(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	today := "2025-06-15"

	c := mustCompany(t, repo, "c@example.com", true)
	unverified := mustCompany(t, repo, "u@example.com", false)

	backend := mustJob(t, repo, c.ID, "Backend Engineer", "2025-06-15", 12, "CSE", "IT")
	mustJob(t, repo, c.ID, "Mechanical Designer", "2025-07-01", 6, "ME")
	mustJob(t, repo, c.ID, "Expired Role", "2025-06-14", 20, "CSE")
	closed := mustJob(t, repo, c.ID, "Closed Role", "2025-12-31", 20, "CSE")
	mustJob(t, repo, unverified.ID, "Hidden Role", "2025-12-31", 20, "CSE")
	if err := repo.DeactivateJob(ctx, closed.ID); err != nil {
		t.Fatalf("DeactivateJob: %v", err)
	}

	tests := []struct {
		name   string
		filter models.JobFilter
		want   int64
	}{
		{"all open", models.JobFilter{Page: 1, Limit: 20}, 2},
		{"branch", models.JobFilter{Branch: "IT", Page: 1, Limit: 20}, 1},
		{"branch no match", models.JobFilter{Branch: "EE", Page: 1, Limit: 20}, 0},
		{"min package", models.JobFilter{MinPackage: ptr(10.0), Page: 1, Limit: 20}, 1},
		{"search case insensitive", models.JobFilter{Search: "backend", Page: 1, Limit: 20}, 1},
		{"search description", models.JobFilter{Search: "designer role", Page: 1, Limit: 20}, 1},
		// every hidden job is CSE, pays 20 and mentions "role"
		{"branch min package search", models.JobFilter{Branch: "CSE", MinPackage: ptr(10.0), Search: "role", Page: 1, Limit: 20}, 1},
		{"branch search", models.JobFilter{Branch: "CSE", Search: "role", Page: 1, Limit: 20}, 1},
		{"min package search", models.JobFilter{MinPackage: ptr(10.0), Search: "role", Page: 1, Limit: 20}, 1},
		{"branch min package", models.JobFilter{Branch: "CSE", MinPackage: ptr(15.0), Page: 1, Limit: 20}, 0},
		{"branch search no match", models.JobFilter{Branch: "ME", Search: "backend", Page: 1, Limit: 20}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, total, err := repo.ListOpenJobs(ctx, tt.filter, today)
			if err != nil {
				t.Fatalf("ListOpenJobs: %v", err)
			}
			if total != tt.want || int64(len(jobs)) != tt.want {
				t.Fatalf("got total %d (%d rows), want %d", total, len(jobs), tt.want)
			}
			for _, j := range jobs {
				if j.Company == nil || j.Company.ID != c.ID {
					t.Fatalf("expected company attached, got %#v", j.Company)
				}
				if j.Title == "Expired Role" || j.Title == "Closed Role" {
					t.Fatalf("closed job %q listed", j.Title)
				}
			}
		})
	}

	jobs, total, err := repo.ListOpenJobs(ctx, models.JobFilter{Page: 2, Limit: 1}, today)
	if err != nil {
		t.Fatalf("ListOpenJobs page 2: %v", err)
	}
	if total != 2 || len(jobs) != 1 {
		t.Fatalf("expected one row on page 2 of 2, got %d rows total %d", len(jobs), total)
	}

	got, err := repo.GetOpenJob(ctx, backend.ID, today)
	if err != nil || got == nil {
		t.Fatalf("GetOpenJob: %v", err)
	}
	if len(got.EligibleBranches) != 2 || got.EligibleBranches[1] != "IT" {
		t.Fatalf("unexpected branches %v", got.EligibleBranches)
	}
	if got, _ := repo.GetOpenJob(ctx, backend.ID, "2025-06-16"); got != nil {
		t.Fatalf("expected job past deadline to be hidden")
	}
	if got, _ := repo.GetOpenJob(ctx, closed.ID, today); got != nil {
		t.Fatalf("expected inactive job to be hidden")
	}
}

func TestListOpenJobs_SearchIsLiteral(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := mustCompany(t, repo, "c@example.com", true)
	mustJob(t, repo, c.ID, "Growth Lead 100% remote", "2999-01-01", 10, "CSE")
	mustJob(t, repo, c.ID, "1000 Hires Coordinator", "2999-01-01", 10, "CSE")
	mustJob(t, repo, c.ID, "data_engineer", "2999-01-01", 10, "CSE")
	mustJob(t, repo, c.ID, `C:\tools admin`, "2999-01-01", 10, "CSE")

	tests := []struct {
		search string
		want   []string
	}{
		{"100%", []string{"Growth Lead 100% remote"}},
		{"_", []string{"data_engineer"}},
		{"a_e", []string{"data_engineer"}},
		{`\`, []string{`C:\tools admin`}},
		{"%", []string{"Growth Lead 100% remote"}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			jobs, total, err := repo.ListOpenJobs(ctx, models.JobFilter{Search: tt.search, Page: 1, Limit: 20}, "2025-06-15")
			if err != nil {
				t.Fatalf("ListOpenJobs: %v", err)
			}
			if total != int64(len(tt.want)) || len(jobs) != len(tt.want) {
				t.Fatalf("got total %d (%d rows), want %v", total, len(jobs), tt.want)
			}
			for i, j := range jobs {
				if j.Title != tt.want[i] {
					t.Fatalf("got %q, want %q", j.Title, tt.want[i])
				}
			}
		})
	}
}

func TestUpdateJobAndCompanyListing(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := mustCompany(t, repo, "c@example.com", true)
	j := mustJob(t, repo, c.ID, "SDE", "2999-01-01", 10, "CSE")

	if err := repo.UpdateJob(ctx, j.ID, models.JobUpdate{Location: ptr("Pune"), EligibleBranches: &[]string{"ECE"}}); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	got, _ := repo.GetJobByID(ctx, j.ID)
	if got.Title != "SDE" || got.Location == nil || *got.Location != "Pune" || len(got.EligibleBranches) != 1 || got.EligibleBranches[0] != "ECE" {
		t.Fatalf("partial update not applied: %#v", got)
	}

	s := mustStudent(t, repo, "s@example.com", "EN1", "ECE")
	if err := repo.CreateApplication(ctx, &models.Application{StudentID: s.ID, JobID: j.ID}); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	if err := repo.DeactivateJob(ctx, j.ID); err != nil {
		t.Fatalf("DeactivateJob: %v", err)
	}

	jobs, err := repo.ListJobsByCompany(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListJobsByCompany: %v", err)
	}
	if len(jobs) != 1 || jobs[0].IsActive || *jobs[0].ApplicationsCount != 1 {
		t.Fatalf("unexpected company jobs %+v", jobs)
	}
	n, err := repo.CountActiveJobs(ctx, c.ID)
	if err != nil || n != 0 {
		t.Fatalf("CountActiveJobs = %d, %v", n, err)
	}
}

func TestApplications(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := mustCompany(t, repo, "c@example.com", true)
	j := mustJob(t, repo, c.ID, "SDE", "2999-01-01", 10, "CSE")
	s := mustStudent(t, repo, "s@example.com", "EN1", "CSE")

	a := &models.Application{StudentID: s.ID, JobID: j.ID, ResumeURL: ptr("/uploads/resumes/a.pdf"), CoverLetter: ptr("hi")}
	if err := repo.CreateApplication(ctx, a); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	if a.Status != models.StatusApplied {
		t.Fatalf("expected default status applied, got %q", a.Status)
	}

	err := repo.CreateApplication(ctx, &models.Application{StudentID: s.ID, JobID: j.ID})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict for duplicate application, got %v", err)
	}

	if err := repo.UpdateApplicationStatus(ctx, a.ID, models.StatusShortlisted); err != nil {
		t.Fatalf("UpdateApplicationStatus: %v", err)
	}
	got, err := repo.GetApplicationByStudentAndJob(ctx, s.ID, j.ID)
	if err != nil || got == nil || got.Status != models.StatusShortlisted {
		t.Fatalf("unexpected application %#v, %v", got, err)
	}

	mine, err := repo.ListApplicationsByStudent(ctx, s.ID)
	if err != nil || len(mine) != 1 {
		t.Fatalf("ListApplicationsByStudent: %v %+v", err, mine)
	}
	if mine[0].Title != "SDE" || mine[0].CompanyName != c.CompanyName || *mine[0].ResumeURL != "/uploads/resumes/a.pdf" {
		t.Fatalf("unexpected student application %+v", mine[0])
	}

	applicants, err := repo.ListApplicationsByJob(ctx, j.ID)
	if err != nil || len(applicants) != 1 {
		t.Fatalf("ListApplicationsByJob: %v %+v", err, applicants)
	}
	if applicants[0].FirstName != "Asha" || *applicants[0].EnrollmentNumber != "EN1" {
		t.Fatalf("unexpected applicant %+v", applicants[0])
	}

	if err := repo.CreateApplication(ctx, &models.Application{StudentID: s.ID, JobID: "missing"}); err == nil {
		t.Fatalf("expected foreign key failure for unknown job")
	}
}

func TestNotifications(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	owner := mustUser(t, repo, "o@example.com", models.RoleStudent)
	other := mustUser(t, repo, "x@example.com", models.RoleStudent)

	n1 := &models.Notification{UserID: owner.ID, Type: models.NotificationApplicationStatus, Title: "t", Message: "m", RelatedID: ptr("job")}
	n2 := &models.Notification{UserID: owner.ID, Type: models.NotificationApplicationStatus, Title: "t2", Message: "m2"}
	for _, n := range []*models.Notification{n1, n2} {
		if err := repo.CreateNotification(ctx, n); err != nil {
			t.Fatalf("CreateNotification: %v", err)
		}
	}

	ok, err := repo.MarkNotificationRead(ctx, n1.ID, other.ID)
	if err != nil || ok {
		t.Fatalf("expected no update for non-owner, got %v %v", ok, err)
	}
	ok, err = repo.MarkNotificationRead(ctx, n1.ID, owner.ID)
	if err != nil || !ok {
		t.Fatalf("expected owner update, got %v %v", ok, err)
	}

	all, err := repo.ListNotifications(ctx, owner.ID, nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListNotifications: %v %+v", err, all)
	}
	unread, err := repo.ListNotifications(ctx, owner.ID, ptr(false))
	if err != nil || len(unread) != 1 || unread[0].ID != n2.ID {
		t.Fatalf("unexpected unread %+v, %v", unread, err)
	}
	read, _ := repo.ListNotifications(ctx, owner.ID, ptr(true))
	if len(read) != 1 || read[0].ID != n1.ID || !read[0].IsRead {
		t.Fatalf("unexpected read %+v", read)
	}
	none, _ := repo.ListNotifications(ctx, other.ID, nil)
	if len(none) != 0 {
		t.Fatalf("expected no notifications for other user")
	}
}

func TestParsedResumeAppendOnly(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	s := mustStudent(t, repo, "s@example.com", "EN1", "CSE")

	if got, err := repo.LatestParsedResume(ctx, s.ID); err != nil || got != nil {
		t.Fatalf("expected nil, nil before any upload")
	}

	first := &models.ParsedResume{StudentID: s.ID, ResumeURL: "/uploads/resumes/1.pdf", ExtractedSkills: []string{"Go"}}
	second := &models.ParsedResume{StudentID: s.ID, ResumeURL: "/uploads/resumes/2.pdf", ExtractedSkills: []string{"Python", "Docker"},
		ContactEmail: ptr("a@b.com"), ExperienceYears: 3, RawData: `{"text":"x"}`}
	for _, p := range []*models.ParsedResume{first, second} {
		if err := repo.CreateParsedResume(ctx, p); err != nil {
			t.Fatalf("CreateParsedResume: %v", err)
		}
	}

	got, err := repo.LatestParsedResume(ctx, s.ID)
	if err != nil || got == nil {
		t.Fatalf("LatestParsedResume: %v", err)
	}
	if got.ID != second.ID || len(got.ExtractedSkills) != 2 || got.ExperienceYears != 3 || *got.ContactEmail != "a@b.com" {
		t.Fatalf("unexpected parsed resume %#v", got)
	}
}

func TestListStudentsAndStats(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	s1 := mustStudent(t, repo, "s1@example.com", "EN1", "CSE")
	mustStudent(t, repo, "s2@example.com", "EN2", "CSE")
	mustStudent(t, repo, "s3@example.com", "EN3", "ME")
	if err := repo.MarkPlaced(ctx, s1.ID); err != nil {
		t.Fatalf("MarkPlaced: %v", err)
	}
	c := mustCompany(t, repo, "c@example.com", true)
	mustCompany(t, repo, "p@example.com", false)
	j := mustJob(t, repo, c.ID, "SDE", "2999-01-01", 10)
	if err := repo.CreateApplication(ctx, &models.Application{StudentID: s1.ID, JobID: j.ID}); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	list, total, err := repo.ListStudents(ctx, models.StudentFilter{Branch: "CSE", Page: 1, Limit: 10})
	if err != nil || total != 2 || len(list) != 2 {
		t.Fatalf("ListStudents by branch: %v total=%d rows=%d", err, total, len(list))
	}
	placed, total, err := repo.ListStudents(ctx, models.StudentFilter{IsPlaced: ptr(true), Page: 1, Limit: 10})
	if err != nil || total != 1 || placed[0].ID != s1.ID || *placed[0].ApplicationsCount != 1 {
		t.Fatalf("ListStudents placed: %v %+v", err, placed)
	}
	page, total, _ := repo.ListStudents(ctx, models.StudentFilter{Page: 2, Limit: 2})
	if total != 3 || len(page) != 1 {
		t.Fatalf("expected 1 row on page 2, got %d (total %d)", len(page), total)
	}

	st, err := repo.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	want := models.DashboardStats{TotalStudents: 3, PlacedStudents: 1, UnplacedStudents: 2, TotalCompanies: 2,
		VerifiedCompanies: 1, PendingCompanies: 1, ActiveJobs: 1, TotalJobs: 1, TotalApplications: 1}
	if *st != want {
		t.Fatalf("stats = %+v, want %+v", *st, want)
	}
}

func TestWithTx(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.WithTx(ctx, func(s repository.Store) error {
		if err := s.CreateUser(ctx, &models.User{Email: "tx@example.com", PasswordHash: "h", Role: models.RoleStudent, IsActive: true}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if got, _ := repo.GetUserByEmail(ctx, "tx@example.com"); got != nil {
		t.Fatalf("expected rollback to discard user")
	}

	err = repo.WithTx(ctx, func(s repository.Store) error {
		return s.WithTx(ctx, func(inner repository.Store) error {
			return inner.CreateUser(ctx, &models.User{Email: "tx@example.com", PasswordHash: "h", Role: models.RoleStudent, IsActive: true})
		})
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if got, _ := repo.GetUserByEmail(ctx, "tx@example.com"); got == nil {
		t.Fatalf("expected committed user")
	}
}
