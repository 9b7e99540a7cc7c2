// Package schema validates request payloads against the JSON Schemas
// embedded under db/schemas.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/garnizeh/placement/internal/apperr"
	"github.com/qri-io/jsonschema"
)

// Names of the request schemas shipped with the service.
const (
	Register          = "register"
	Login             = "login"
	StudentProfile    = "student_profile"
	Education         = "education"
	Skill             = "skill"
	CompanyProfile    = "company_profile"
	JobCreate         = "job_create"
	JobUpdate         = "job_update"
	Application       = "application"
	ApplicationStatus = "application_status"
)

const schemaDir = "schemas"

// Loader loads and caches compiled JSON schemas.
type Loader struct {
	fsys  fs.FS
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewLoader compiles every schemas/*.json file found in fsys.
func NewLoader(fsys fs.FS) (*Loader, error) {
	l := &Loader{
		fsys:  fsys,
		cache: make(map[string]*jsonschema.Schema),
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}

	return l, nil
}

// GetSchema returns a compiled schema by name.
func (l *Loader) GetSchema(name string) (*jsonschema.Schema, bool) {
	l.mu.RLock()
	s, ok := l.cache[name]
	l.mu.RUnlock()

	return s, ok
}

// Reload reads and compiles all schemas again.
func (l *Loader) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := fs.ReadDir(l.fsys, schemaDir)
	if err != nil {
		return fmt.Errorf("load schemas: %w", err)
	}

	newCache := make(map[string]*jsonschema.Schema)
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		b, err := fs.ReadFile(l.fsys, path.Join(schemaDir, e.Name()))
		if err != nil {
			return fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}

		newCache[strings.TrimSuffix(e.Name(), ".json")] = rs
	}

	l.cache = newCache
	return nil
}

// Validate checks body against the named schema. Malformed JSON and schema
// violations come back as validation errors.
func (l *Loader) Validate(ctx context.Context, name string, body []byte) error {
	s, ok := l.GetSchema(name)
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	verrs, err := s.ValidateBytes(ctx, body)
	if err != nil {
		return &apperr.Error{Kind: apperr.KindValidation, Message: "invalid JSON body", Err: err}
	}
	if len(verrs) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(verrs))
	for _, ke := range verrs {
		if ke.PropertyPath != "" && ke.PropertyPath != "/" {
			msgs = append(msgs, strings.TrimPrefix(ke.PropertyPath, "/")+": "+ke.Message)
			continue
		}
		msgs = append(msgs, ke.Message)
	}

	return apperr.Validation(strings.Join(msgs, "; "))
}
