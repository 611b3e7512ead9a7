package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/eventsg/backend/internal/api/problem"
	"github.com/eventsg/backend/internal/domain"
	"github.com/eventsg/backend/internal/domain/ids"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// affectedResponse reports how many records a write touched.
type affectedResponse struct {
	Affected int64 `json:"affected"`
}

func pathParam(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	return r.PathValue(key)
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	return ids.Parse(key, strings.TrimSpace(pathParam(r, key)))
}

// pathNumber parses a float path segment. Range checks belong to the service.
func pathNumber(r *http.Request, key string) (float64, error) {
	raw := strings.TrimSpace(pathParam(r, key))
	if raw == "" {
		return 0, domain.Invalid(key, "is required")
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.Invalid(key, "must be a number")
	}
	return value, nil
}

// decodeJSON reads a single JSON object into dst. Unknown fields and
// trailing data are rejected.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return domain.Invalid("body", "is required")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return domain.Invalid("body", "is required")
		}
		return domain.Invalid("body", fmt.Sprintf("malformed JSON: %v", err))
	}
	if dec.More() {
		return domain.Invalid("body", "must contain a single JSON object")
	}
	return nil
}

// writeDomainError answers 413 for oversized bodies and otherwise defers to
// problem.WriteError.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, env string) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		problem.Write(w, r, http.StatusRequestEntityTooLarge, "https://eventsg.dev/problems/payload-too-large",
			"Payload too large", err, env)
		return
	}
	problem.WriteError(w, r, err, env)
}
