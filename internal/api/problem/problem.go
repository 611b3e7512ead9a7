package problem

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/eventsg/backend/internal/domain"
)

const (
	contentType = "application/problem+json"
	typeBase    = "https://eventsg.dev/problems/"
)

type ProblemDetails struct {
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Status   int            `json:"status"`
	Detail   string         `json:"detail,omitempty"`
	Instance string         `json:"instance,omitempty"`
	Errors   map[string]any `json:"errors,omitempty"`
}

type Option func(*ProblemDetails)

func WithDetail(detail string) Option {
	return func(p *ProblemDetails) {
		p.Detail = detail
	}
}

func WithErrors(errs map[string]any) Option {
	return func(p *ProblemDetails) {
		p.Errors = errs
	}
}

func Write(w http.ResponseWriter, r *http.Request, status int, typ, title string, err error, env string, opts ...Option) {
	problem := ProblemDetails{
		Type:   typ,
		Title:  title,
		Status: status,
	}

	for _, opt := range opts {
		opt(&problem)
	}

	if problem.Detail == "" && err != nil {
		// 4xx details are echoed in every environment.
		if status < 500 || env == "development" || env == "test" {
			problem.Detail = err.Error()
		} else {
			problem.Detail = http.StatusText(status)
		}
	}

	if problem.Instance == "" && r != nil {
		problem.Instance = r.URL.Path
	}

	if err != nil && r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Err(err).
			Int("status", status).
			Str("type", typ).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(title)
	}

	WriteProblem(w, problem)
}

// WriteError maps err onto the domain taxonomy and writes the matching
// problem response.
func WriteError(w http.ResponseWriter, r *http.Request, err error, env string) {
	status, slug, title := Classify(err)
	var opts []Option
	var fieldErr domain.FieldError
	if errors.As(err, &fieldErr) {
		opts = append(opts,
			WithDetail(fieldErr.Error()),
			WithErrors(map[string]any{fieldErr.Field: fieldErr.Message}),
		)
	}
	Write(w, r, status, typeBase+slug, title, err, env, opts...)
}

// Classify returns the HTTP status, problem type slug and title for err.
func Classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid-argument", "Invalid request"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not-found", "Not found"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict", "Already exists"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "unavailable", "Service unavailable"
	default:
		return http.StatusInternalServerError, "server-error", "Server error"
	}
}

func WriteProblem(w http.ResponseWriter, problem ProblemDetails) {
	payload, err := json.Marshal(problem)
	if err != nil {
		fallback := fmt.Sprintf("{\"type\":\"about:blank\",\"title\":\"%s\",\"status\":500}", http.StatusText(http.StatusInternalServerError))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallback))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(problem.Status)
	_, _ = w.Write(payload)
}
