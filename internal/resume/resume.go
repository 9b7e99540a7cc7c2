// Package resume extracts contact details, skills and experience from
// uploaded resume documents.
package resume

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/garnizeh/placement/internal/apperr"
)

// Skills is the vocabulary matched against resume text, in reporting order.
var Skills = []string{
	"JavaScript", "Python", "Java", "C++", "React", "Node.js", "Express",
	"MongoDB", "PostgreSQL", "MySQL", "Git", "Docker", "AWS", "Linux",
	"HTML", "CSS", "TypeScript", "Angular", "Vue.js", "Django", "Flask",
	"Spring Boot", "REST API", "GraphQL", "Redis", "Kubernetes", "CI/CD",
}

var (
	emailRe      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phoneRe      = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	experienceRe = regexp.MustCompile(`(?i)(\d+)\+?\s*(years?|yrs?)\s*(of\s*)?(experience|exp)`)
)

// Result is the data extracted from one document.
type Result struct {
	ExtractedSkills []string `json:"extractedSkills"`
	ContactEmail    *string  `json:"contactEmail"`
	ContactPhone    *string  `json:"contactPhone"`
	ExperienceYears int      `json:"experienceYears"`
	RawText         string   `json:"rawText"`
}

// MaxRawText bounds Result.RawText. Scanning always covers the whole text.
const MaxRawText = 64 << 10

// Supported reports whether files with extension ext (with or without the
// leading dot, any case) can be parsed.
func Supported(ext string) bool {
	switch normalize(ext) {
	case "pdf", "doc", "docx":
		return true
	}
	return false
}

// Parse extracts text from data according to ext and scans it. Unknown
// extensions yield an unsupported format error and extraction failures a
// parse error.
func Parse(data []byte, ext string) (*Result, error) {
	var (
		text string
		err  error
	)
	switch normalize(ext) {
	case "pdf":
		text, err = pdfText(data)
	case "doc", "docx":
		text, err = docxText(data)
	default:
		return nil, apperr.UnsupportedFormat("Unsupported file format")
	}
	if err != nil {
		return nil, apperr.Parse("Failed to parse resume", err)
	}

	return Extract(text), nil
}

// Extract scans plain text for the first email, the first phone number, the
// known skills and the first "N years of experience" phrase.
func Extract(text string) *Result {
	res := &Result{ExtractedSkills: []string{}, RawText: truncate(text, MaxRawText)}

	if m := emailRe.FindString(text); m != "" {
		res.ContactEmail = &m
	}
	if m := phoneRe.FindString(text); m != "" {
		res.ContactPhone = &m
	}

	lower := strings.ToLower(text)
	for _, skill := range Skills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			res.ExtractedSkills = append(res.ExtractedSkills, skill)
		}
	}

	if m := experienceRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			res.ExperienceYears = n
		}
	}

	return res
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func normalize(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
