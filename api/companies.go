package api

import (
	"net/http"

	"github.com/garnizeh/placement/internal/portal"
	"github.com/garnizeh/placement/internal/schema"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/gorilla/mux"
)

type CompanyHandler struct {
	svc     *portal.CompanyService
	schemas *schema.Loader
}

func NewCompanyHandler(svc *portal.CompanyService, schemas *schema.Loader) *CompanyHandler {
	return &CompanyHandler{svc: svc, schemas: schemas}
}

type statusRequest struct {
	Status models.ApplicationStatus `json:"status"`
}

func (h *CompanyHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetProfile(r.Context(), principal(r).ProfileID)
	if err != nil {
		respondError(w, r, err, "Failed to fetch profile")
		return
	}
	respond(w, http.StatusOK, "", c)
}

func (h *CompanyHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd models.CompanyUpdate
	if err := decodeJSON(w, r, h.schemas, schema.CompanyProfile, &upd); err != nil {
		respondError(w, r, err, "Failed to update profile")
		return
	}

	c, err := h.svc.UpdateProfile(r.Context(), principal(r).ProfileID, upd)
	if err != nil {
		respondError(w, r, err, "Failed to update profile")
		return
	}
	respond(w, http.StatusOK, "Profile updated successfully", c)
}

func (h *CompanyHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.svc.ListJobs(r.Context(), principal(r).ProfileID)
	if err != nil {
		respondError(w, r, err, "Failed to fetch jobs")
		return
	}
	respond(w, http.StatusOK, "", jobs)
}

func (h *CompanyHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req models.Job
	if err := decodeJSON(w, r, h.schemas, schema.JobCreate, &req); err != nil {
		respondError(w, r, err, "Failed to create job")
		return
	}

	job, err := h.svc.CreateJob(r.Context(), principal(r).ProfileID, req)
	if err != nil {
		respondError(w, r, err, "Failed to create job")
		return
	}
	respond(w, http.StatusCreated, "Job posted successfully", job)
}

func (h *CompanyHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var upd models.JobUpdate
	if err := decodeJSON(w, r, h.schemas, schema.JobUpdate, &upd); err != nil {
		respondError(w, r, err, "Failed to update job")
		return
	}

	job, err := h.svc.UpdateJob(r.Context(), principal(r).ProfileID, mux.Vars(r)["jobId"], upd)
	if err != nil {
		respondError(w, r, err, "Failed to update job")
		return
	}
	respond(w, http.StatusOK, "Job updated successfully", job)
}

func (h *CompanyHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteJob(r.Context(), principal(r).ProfileID, mux.Vars(r)["jobId"]); err != nil {
		respondError(w, r, err, "Failed to close job")
		return
	}
	respond(w, http.StatusOK, "Job closed successfully", nil)
}

func (h *CompanyHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.ListJobApplications(r.Context(), principal(r).ProfileID, mux.Vars(r)["jobId"])
	if err != nil {
		respondError(w, r, err, "Failed to fetch applications")
		return
	}
	respond(w, http.StatusOK, "", apps)
}

func (h *CompanyHandler) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, h.schemas, schema.ApplicationStatus, &req); err != nil {
		respondError(w, r, err, "Failed to update application status")
		return
	}

	vars := mux.Vars(r)
	app, err := h.svc.UpdateApplicationStatus(r.Context(), principal(r).ProfileID, vars["jobId"], vars["applicationId"], req.Status)
	if err != nil {
		respondError(w, r, err, "Failed to update application status")
		return
	}
	respond(w, http.StatusOK, "Application status updated", app)
}
