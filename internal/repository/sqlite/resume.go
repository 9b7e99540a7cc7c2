package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/garnizeh/placement/pkg/models"
	"github.com/google/uuid"
)

// CreateParsedResume appends a parse record; earlier records are kept.
func (r *SQLiteRepo) CreateParsedResume(ctx context.Context, p *models.ParsedResume) error {
	if p == nil {
		return fmt.Errorf("parsed resume is nil")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	skills, err := encodeStrings(p.ExtractedSkills)
	if err != nil {
		return err
	}
	p.Parsed = now()

	_, err = r.q.ExecContext(ctx, `INSERT INTO parsed_resume_data (id, student_id, resume_url, extracted_skills, contact_email,
		contact_phone, experience_years, raw_data, parsed) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.StudentID, p.ResumeURL, skills, p.ContactEmail, p.ContactPhone, p.ExperienceYears, p.RawData, p.Parsed)
	if err != nil {
		return fmt.Errorf("insert parsed resume: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) LatestParsedResume(ctx context.Context, studentID string) (*models.ParsedResume, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, student_id, resume_url, extracted_skills, contact_email, contact_phone,
		experience_years, raw_data, parsed FROM parsed_resume_data WHERE student_id = ? ORDER BY parsed DESC, rowid DESC LIMIT 1`, studentID)

	var p models.ParsedResume
	var skills string
	var exp sql.NullInt64
	var raw sql.NullString
	if err := row.Scan(&p.ID, &p.StudentID, &p.ResumeURL, &skills, &p.ContactEmail, &p.ContactPhone, &exp, &raw, &p.Parsed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan parsed resume: %w", err)
	}
	if err := json.Unmarshal([]byte(skills), &p.ExtractedSkills); err != nil {
		return nil, fmt.Errorf("decode extracted skills: %w", err)
	}
	p.ExperienceYears = int(exp.Int64)
	p.RawData = raw.String

	return &p, nil
}
