package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/garnizeh/placement/internal/apperr"
	"github.com/garnizeh/placement/internal/resume"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/garnizeh/placement/pkg/repository"
	"github.com/google/uuid"
)

const (
	msgStudentNotFound = "Student profile not found"
	msgJobUnavailable  = "Job not found or no longer active"
	msgAlreadyApplied  = "You have already applied for this job"

	resumeDir = "resumes"
	// ResumeURLPrefix is the public path stored resumes are served under.
	ResumeURLPrefix = "/uploads/"
)

// StudentProfile is the student view of their own profile.
type StudentProfile struct {
	*models.Student
	ParsedResume *models.ParsedResume `json:"parsedResume,omitempty"`
}

// ResumeUpload describes a stored resume. Parsed is nil when text
// extraction failed.
type ResumeUpload struct {
	ResumeURL string         `json:"resumeUrl"`
	Parsed    *ResumeSummary `json:"parsedData"`
}

type ResumeSummary struct {
	Skills          []string `json:"skills"`
	ContactEmail    *string  `json:"contactEmail"`
	ContactPhone    *string  `json:"contactPhone"`
	ExperienceYears int      `json:"experienceYears"`
}

type StudentService struct {
	store     repository.Store
	uploadDir string
	maxUpload int64
	logger    *slog.Logger
	now       func() time.Time
}

// NewStudentService stores uploaded resumes under uploadDir and rejects files
// larger than maxUpload bytes.
func NewStudentService(store repository.Store, uploadDir string, maxUpload int64, logger *slog.Logger) *StudentService {
	if logger == nil {
		logger = discardLogger()
	}
	return &StudentService{store: store, uploadDir: uploadDir, maxUpload: maxUpload, logger: logger, now: time.Now}
}

func (s *StudentService) student(ctx context.Context, store repository.Store, id string) (*models.Student, error) {
	st, err := store.GetStudentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if st == nil {
		return nil, apperr.NotFound(msgStudentNotFound)
	}
	return st, nil
}

// GetProfile returns the profile with its education, skills and the latest
// parsed resume.
func (s *StudentService) GetProfile(ctx context.Context, studentID string) (*StudentProfile, error) {
	st, err := s.student(ctx, s.store, studentID)
	if err != nil {
		return nil, err
	}
	if st.Education, err = s.store.ListEducation(ctx, st.ID); err != nil {
		return nil, fmt.Errorf("list education: %w", err)
	}
	if st.Skills, err = s.store.ListSkills(ctx, st.ID); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	parsed, err := s.store.LatestParsedResume(ctx, st.ID)
	if err != nil {
		return nil, fmt.Errorf("latest parsed resume: %w", err)
	}

	return &StudentProfile{Student: st, ParsedResume: parsed}, nil
}

func (s *StudentService) UpdateProfile(ctx context.Context, studentID string, upd models.StudentUpdate) (*models.Student, error) {
	if blank(upd.FirstName) || blank(upd.LastName) {
		return nil, apperr.Validation("First and last name must not be empty")
	}
	if upd.CGPA != nil && (*upd.CGPA < 0 || *upd.CGPA > 10) {
		return nil, apperr.Validation("CGPA must be between 0 and 10")
	}

	var out *models.Student
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := s.student(ctx, tx, studentID); err != nil {
			return err
		}
		if err := tx.UpdateStudent(ctx, studentID, upd); err != nil {
			return err
		}
		st, err := s.student(ctx, tx, studentID)
		out = st
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *StudentService) AddEducation(ctx context.Context, studentID string, e models.Education) (*models.Education, error) {
	e.Degree = strings.TrimSpace(e.Degree)
	e.Institution = strings.TrimSpace(e.Institution)
	if e.Degree == "" || e.Institution == "" {
		return nil, apperr.Validation("Degree and institution are required")
	}
	if e.StartYear != nil && e.EndYear != nil && *e.EndYear < *e.StartYear {
		return nil, apperr.Validation("End year must not be before start year")
	}

	e.ID = ""
	e.StudentID = studentID
	if err := s.store.AddEducation(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *StudentService) AddSkill(ctx context.Context, studentID string, sk models.Skill) (*models.Skill, error) {
	sk.SkillName = strings.TrimSpace(sk.SkillName)
	if sk.SkillName == "" {
		return nil, apperr.Validation("Skill name is required")
	}

	sk.ID = ""
	sk.StudentID = studentID
	sk.ProficiencyLevel = nonEmpty(sk.ProficiencyLevel)
	if err := s.store.AddSkill(ctx, &sk); err != nil {
		return nil, err
	}
	return &sk, nil
}

// UploadResume stores the file, records its parse result when extraction
// succeeds and points the profile at the stored copy. A parse failure does
// not fail the upload.
func (s *StudentService) UploadResume(ctx context.Context, studentID, filename string, r io.Reader) (*ResumeUpload, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !resume.Supported(ext) {
		return nil, apperr.Validation("Only PDF, DOC and DOCX files are allowed")
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	if int64(len(data)) > s.maxUpload {
		return nil, apperr.Validation(fmt.Sprintf("Resume must not exceed %d bytes", s.maxUpload))
	}
	if len(data) == 0 {
		return nil, apperr.Validation("Resume file is required")
	}
	if _, err := s.student(ctx, s.store, studentID); err != nil {
		return nil, err
	}

	name := uuid.NewString() + "." + ext
	dir := filepath.Join(s.uploadDir, resumeDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	dst := filepath.Join(dir, name)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return nil, fmt.Errorf("store resume: %w", err)
	}
	url := ResumeURLPrefix + path.Join(resumeDir, name)
	out := &ResumeUpload{ResumeURL: url}

	parsed, err := resume.Parse(data, ext)
	if err != nil {
		s.logger.Warn("resume parse failed", slog.String("student_id", studentID), slog.String("file", name), slog.Any("err", err))
	} else {
		if err := s.recordParse(ctx, studentID, url, parsed); err != nil {
			s.logger.Error("store parsed resume", slog.String("student_id", studentID), slog.Any("err", err))
		}
		out.Parsed = &ResumeSummary{
			Skills:          parsed.ExtractedSkills,
			ContactEmail:    parsed.ContactEmail,
			ContactPhone:    parsed.ContactPhone,
			ExperienceYears: parsed.ExperienceYears,
		}
	}

	if err := s.store.SetResumeURL(ctx, studentID, url); err != nil {
		if rmErr := os.Remove(dst); rmErr != nil {
			s.logger.Warn("remove orphaned resume", slog.String("file", dst), slog.Any("err", rmErr))
		}
		return nil, fmt.Errorf("set resume url: %w", err)
	}
	s.logger.Info("resume uploaded", slog.String("student_id", studentID), slog.String("resume_url", url), slog.Bool("parsed", out.Parsed != nil))

	return out, nil
}

func (s *StudentService) recordParse(ctx context.Context, studentID, url string, res *resume.Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode parse result: %w", err)
	}
	return s.store.CreateParsedResume(ctx, &models.ParsedResume{
		StudentID:       studentID,
		ResumeURL:       url,
		ExtractedSkills: res.ExtractedSkills,
		ContactEmail:    res.ContactEmail,
		ContactPhone:    res.ContactPhone,
		ExperienceYears: res.ExperienceYears,
		RawData:         string(raw),
	})
}

// Apply submits an application for jobID with the student's current resume.
// Eligibility (minimum CGPA, branches) is not checked.
func (s *StudentService) Apply(ctx context.Context, studentID, jobID string, coverLetter *string) (*models.Application, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, apperr.Validation("Job ID is required")
	}

	var app *models.Application
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		st, err := s.student(ctx, tx, studentID)
		if err != nil {
			return err
		}
		if !st.HasResume() {
			return apperr.Validation("Please upload a resume before applying")
		}

		job, err := tx.GetJobByID(ctx, jobID)
		if err != nil {
			return fmt.Errorf("get job: %w", err)
		}
		if job == nil {
			return apperr.NotFound(msgJobUnavailable)
		}
		if job.ApplicationDeadline < today(s.now) {
			return apperr.Validation("Application deadline has passed")
		}
		if !job.IsActive {
			return apperr.NotFound(msgJobUnavailable)
		}

		existing, err := tx.GetApplicationByStudentAndJob(ctx, st.ID, job.ID)
		if err != nil {
			return fmt.Errorf("lookup application: %w", err)
		}
		if existing != nil {
			return apperr.Conflict(msgAlreadyApplied)
		}

		app = &models.Application{
			StudentID:   st.ID,
			JobID:       job.ID,
			ResumeURL:   st.ResumeURL,
			CoverLetter: nonEmpty(coverLetter),
			Status:      models.StatusApplied,
		}
		if err := tx.CreateApplication(ctx, app); err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				return apperr.Conflict(msgAlreadyApplied)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("application submitted", slog.String("application_id", app.ID), slog.String("job_id", app.JobID))

	return app, nil
}

func (s *StudentService) ListApplications(ctx context.Context, studentID string) ([]models.StudentApplication, error) {
	apps, err := s.store.ListApplicationsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}
