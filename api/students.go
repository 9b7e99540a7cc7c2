package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/garnizeh/placement/internal/apperr"
	"github.com/garnizeh/placement/internal/portal"
	"github.com/garnizeh/placement/internal/schema"
	"github.com/garnizeh/placement/pkg/models"
)

// multipartOverhead is allowed on top of the file size for form framing.
const multipartOverhead = 1 << 20

type StudentHandler struct {
	svc       *portal.StudentService
	schemas   *schema.Loader
	maxUpload int64
}

func NewStudentHandler(svc *portal.StudentService, schemas *schema.Loader, maxUpload int64) *StudentHandler {
	return &StudentHandler{svc: svc, schemas: schemas, maxUpload: maxUpload}
}

type applyRequest struct {
	JobID       string  `json:"jobId"`
	CoverLetter *string `json:"coverLetter"`
}

func (h *StudentHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	prof, err := h.svc.GetProfile(r.Context(), principal(r).ProfileID)
	if err != nil {
		respondError(w, r, err, "Failed to fetch profile")
		return
	}
	respond(w, http.StatusOK, "", prof)
}

func (h *StudentHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd models.StudentUpdate
	if err := decodeJSON(w, r, h.schemas, schema.StudentProfile, &upd); err != nil {
		respondError(w, r, err, "Failed to update profile")
		return
	}

	st, err := h.svc.UpdateProfile(r.Context(), principal(r).ProfileID, upd)
	if err != nil {
		respondError(w, r, err, "Failed to update profile")
		return
	}
	respond(w, http.StatusOK, "Profile updated successfully", st)
}

func (h *StudentHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	var req models.Education
	if err := decodeJSON(w, r, h.schemas, schema.Education, &req); err != nil {
		respondError(w, r, err, "Failed to add education")
		return
	}

	e, err := h.svc.AddEducation(r.Context(), principal(r).ProfileID, req)
	if err != nil {
		respondError(w, r, err, "Failed to add education")
		return
	}
	respond(w, http.StatusCreated, "Education added successfully", e)
}

func (h *StudentHandler) AddSkill(w http.ResponseWriter, r *http.Request) {
	var req models.Skill
	if err := decodeJSON(w, r, h.schemas, schema.Skill, &req); err != nil {
		respondError(w, r, err, "Failed to add skill")
		return
	}

	sk, err := h.svc.AddSkill(r.Context(), principal(r).ProfileID, req)
	if err != nil {
		respondError(w, r, err, "Failed to add skill")
		return
	}
	respond(w, http.StatusCreated, "Skill added successfully", sk)
}

// UploadResume accepts a multipart form with the file in the "resume" field.
func (h *StudentHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, apperr.Validation(fmt.Sprintf("Resume must not exceed %d bytes", h.maxUpload)), "")
			return
		}
		respondError(w, r, apperr.Validation("Resume file is required"), "")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("resume")
	if err != nil {
		respondError(w, r, apperr.Validation("Resume file is required"), "")
		return
	}
	defer file.Close()

	up, err := h.svc.UploadResume(r.Context(), principal(r).ProfileID, header.Filename, file)
	if err != nil {
		respondError(w, r, err, "Failed to upload resume")
		return
	}

	msg := "Resume uploaded and parsed successfully"
	if up.Parsed == nil {
		msg = "Resume uploaded successfully"
	}
	respond(w, http.StatusOK, msg, up)
}

func (h *StudentHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.ListApplications(r.Context(), principal(r).ProfileID)
	if err != nil {
		respondError(w, r, err, "Failed to fetch applications")
		return
	}
	respond(w, http.StatusOK, "", apps)
}

func (h *StudentHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := decodeJSON(w, r, h.schemas, schema.Application, &req); err != nil {
		respondError(w, r, err, "Failed to submit application")
		return
	}

	app, err := h.svc.Apply(r.Context(), principal(r).ProfileID, req.JobID, req.CoverLetter)
	if err != nil {
		respondError(w, r, err, "Failed to submit application")
		return
	}
	respond(w, http.StatusCreated, "Application submitted successfully", app)
}
