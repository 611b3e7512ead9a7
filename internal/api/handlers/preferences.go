package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/eventsg/backend/internal/domain/preferences"
)

type PreferencesHandler struct {
	Service *preferences.Service
	Env     string
}

func NewPreferencesHandler(service *preferences.Service, env string) *PreferencesHandler {
	return &PreferencesHandler{Service: service, Env: env}
}

type categoryListResponse struct {
	Categories []string `json:"categories"`
}

func (h *PreferencesHandler) SaveEvent(w http.ResponseWriter, r *http.Request) {
	userID, eventID, err := userEventPath(r)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	affected, err := h.Service.SaveEvent(r.Context(), userID, eventID)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, affectedResponse{Affected: affected})
}

func (h *PreferencesHandler) UnsaveEvent(w http.ResponseWriter, r *http.Request) {
	userID, eventID, err := userEventPath(r)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	affected, err := h.Service.UnsaveEvent(r.Context(), userID, eventID)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, affectedResponse{Affected: affected})
}

func (h *PreferencesHandler) ListSavedEvents(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	eventIDs, err := h.Service.GetSavedEvents(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, eventListResponse{EventIDs: uuidStrings(eventIDs)})
}

func (h *PreferencesHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	affected, err := h.Service.AddInterestedCategory(r.Context(), userID, pathParam(r, "category"))
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, affectedResponse{Affected: affected})
}

func (h *PreferencesHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	affected, err := h.Service.DeleteInterestedCategory(r.Context(), userID, pathParam(r, "category"))
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, affectedResponse{Affected: affected})
}

func (h *PreferencesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	categories, err := h.Service.GetInterestedCategories(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categoryListResponse{Categories: categories})
}

// userEventPath reads the {userId} and {eventId} path values.
func userEventPath(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	eventID, err := pathUUID(r, "eventId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, eventID, nil
}

func uuidStrings(in []uuid.UUID) []string {
	out := make([]string, 0, len(in))
	for _, id := range in {
		out = append(out, id.String())
	}
	return out
}
