package api

import (
	"net/http"

	"github.com/garnizeh/placement/internal/portal"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/gorilla/mux"
)

// JobHandler serves the public job board.
type JobHandler struct {
	svc *portal.JobService
}

func NewJobHandler(svc *portal.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

// List accepts the branch, minPackage, search, page and limit query parameters.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	minPackage, err := queryFloat(r, "minPackage")
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	q := r.URL.Query()
	f := models.JobFilter{
		Branch:     q.Get("branch"),
		MinPackage: minPackage,
		Search:     q.Get("search"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}

	list, err := h.svc.ListJobs(r.Context(), f)
	if err != nil {
		respondError(w, r, err, "Failed to fetch jobs")
		return
	}
	respond(w, http.StatusOK, "", list)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.svc.GetJob(r.Context(), mux.Vars(r)["jobId"])
	if err != nil {
		respondError(w, r, err, "Failed to fetch job")
		return
	}
	respond(w, http.StatusOK, "", job)
}
