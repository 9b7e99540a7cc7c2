package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/garnizeh/placement/internal/apperr"
	"github.com/garnizeh/placement/internal/schema"
)

// maxJSONBody bounds request bodies outside of file uploads.
const maxJSONBody = 1 << 20

// exposeErrors attaches raw internal error text to 500 responses. SetupRoutes
// turns it off in production.
var exposeErrors = true

// envelope is the shape of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, envelope{Success: true, Message: message, Data: data}, status)
}

// respondError maps err to its status code. Internal errors are logged and
// reported with fallback as message.
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := apperr.HTTPStatus(err)
	env := envelope{Message: apperr.Message(err, fallback)}
	if status == http.StatusInternalServerError {
		env.Message = fallback
		logger.Error(fallback, slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("err", err))
		if exposeErrors {
			env.Error = err.Error()
		}
	}
	writeJSON(w, env, status)
}

func respondStatus(w http.ResponseWriter, status int, message string) {
	writeJSON(w, envelope{Message: message}, status)
}

// decodeJSON validates the request body against the named schema and
// unmarshals it into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, schemas *schema.Loader, name string, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("Request body too large")
		}
		return fmt.Errorf("read body: %w", err)
	}
	if err := schemas.Validate(r.Context(), name, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &apperr.Error{Kind: apperr.KindValidation, Message: "invalid JSON body", Err: err}
	}
	return nil
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func queryFloat(r *http.Request, key string) (*float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, apperr.Validation("Invalid query parameter: " + key)
	}
	return &f, nil
}

func queryBool(r *http.Request, key string) (*bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, apperr.Validation("Invalid query parameter: " + key)
	}
	return &b, nil
}
