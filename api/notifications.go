package api

import (
	"net/http"

	"github.com/garnizeh/placement/internal/portal"
	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	svc *portal.NotificationService
}

func NewNotificationHandler(svc *portal.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List accepts an optional isRead query parameter.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	isRead, err := queryBool(r, "isRead")
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	notes, err := h.svc.List(r.Context(), principal(r).UserID, isRead)
	if err != nil {
		respondError(w, r, err, "Failed to fetch notifications")
		return
	}
	respond(w, http.StatusOK, "", notes)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkRead(r.Context(), principal(r).UserID, mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err, "Failed to update notification")
		return
	}
	respond(w, http.StatusOK, "Notification marked as read", nil)
}
