package api

import (
	"net/http"

	"github.com/garnizeh/placement/internal/portal"
	"github.com/garnizeh/placement/pkg/models"
	"github.com/gorilla/mux"
)

type AdminHandler struct {
	svc *portal.AdminService
}

func NewAdminHandler(svc *portal.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to fetch dashboard data")
		return
	}
	respond(w, http.StatusOK, "", stats)
}

func (h *AdminHandler) PendingCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.svc.PendingCompanies(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to fetch pending companies")
		return
	}
	respond(w, http.StatusOK, "", companies)
}

func (h *AdminHandler) VerifyCompany(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.VerifyCompany(r.Context(), principal(r).UserID, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err, "Failed to verify company")
		return
	}
	respond(w, http.StatusOK, "Company verified successfully", c)
}

func (h *AdminHandler) RejectCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RejectCompany(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err, "Failed to reject company")
		return
	}
	respond(w, http.StatusOK, "Company registration rejected", nil)
}

// ListStudents accepts the branch, isPlaced, page and limit query parameters.
func (h *AdminHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	isPlaced, err := queryBool(r, "isPlaced")
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	f := models.StudentFilter{
		Branch:   r.URL.Query().Get("branch"),
		IsPlaced: isPlaced,
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
	}

	list, err := h.svc.ListStudents(r.Context(), f)
	if err != nil {
		respondError(w, r, err, "Failed to fetch students")
		return
	}
	respond(w, http.StatusOK, "", list)
}
