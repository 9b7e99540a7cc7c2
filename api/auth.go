package api

import (
	"net/http"

	"github.com/garnizeh/placement/internal/portal"
	"github.com/garnizeh/placement/internal/schema"
)

type AuthHandler struct {
	svc     *portal.AuthService
	schemas *schema.Loader
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(svc *portal.AuthService, schemas *schema.Loader) *AuthHandler {
	return &AuthHandler{svc: svc, schemas: schemas}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req portal.RegisterInput
	if err := decodeJSON(w, r, h.schemas, schema.Register, &req); err != nil {
		respondError(w, r, err, "Registration failed")
		return
	}

	sess, err := h.svc.Register(r.Context(), req)
	if err != nil {
		respondError(w, r, err, "Registration failed")
		return
	}

	respond(w, http.StatusCreated, "Registration successful", sess)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.schemas, schema.Login, &req); err != nil {
		respondError(w, r, err, "Login failed")
		return
	}

	sess, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err, "Login failed")
		return
	}

	respond(w, http.StatusOK, "Login successful", sess)
}

// Me returns the authenticated caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "", principal(r))
}
