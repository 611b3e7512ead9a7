package handlers

import (
	"net/http"

	"github.com/eventsg/backend/internal/domain/registrations"
)

type RegistrationsHandler struct {
	Service *registrations.Service
	Env     string
}

func NewRegistrationsHandler(service *registrations.Service, env string) *RegistrationsHandler {
	return &RegistrationsHandler{Service: service, Env: env}
}

type eventListResponse struct {
	EventIDs []string `json:"eventIds"`
}

type participantCountResponse struct {
	EventID      string `json:"eventId"`
	Participants int64  `json:"participants"`
}

// Register answers 201, or 409 when the user is already registered.
func (h *RegistrationsHandler) Register(w http.ResponseWriter, r *http.Request) {
	userID, eventID, err := userEventPath(r)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	affected, err := h.Service.RegisterEvent(r.Context(), userID, eventID)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, affectedResponse{Affected: affected})
}

func (h *RegistrationsHandler) Deregister(w http.ResponseWriter, r *http.Request) {
	userID, eventID, err := userEventPath(r)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	affected, err := h.Service.DeregisterEvent(r.Context(), userID, eventID)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, affectedResponse{Affected: affected})
}

func (h *RegistrationsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	eventIDs, err := h.Service.GetRegisteredEvents(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, eventListResponse{EventIDs: uuidStrings(eventIDs)})
}

func (h *RegistrationsHandler) ParticipantCount(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "eventId")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	count, err := h.Service.GetParticipantCount(r.Context(), eventID)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, participantCountResponse{EventID: eventID.String(), Participants: count})
}
