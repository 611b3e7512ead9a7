package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/eventsg/backend/internal/domain"
	"github.com/eventsg/backend/internal/domain/users"
	"github.com/eventsg/backend/internal/sanitize"
)

type UsersHandler struct {
	Service *users.Service
	Env     string
}

func NewUsersHandler(service *users.Service, env string) *UsersHandler {
	return &UsersHandler{Service: service, Env: env}
}

type userRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	DisplayName string `json:"displayName" validate:"max=200"`
}

type userResponse struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   string `json:"createdAt"`
}

type userListResponse struct {
	Items []userResponse `json:"items"`
}

func toUserResponse(u users.User) userResponse {
	return userResponse{
		UserID:      u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func decodeUser(r *http.Request) (users.User, error) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		return users.User{}, err
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(req); err != nil {
		return users.User{}, err
	}
	return users.User{
		Email:       req.Email,
		DisplayName: strings.TrimSpace(sanitize.Text(req.DisplayName)),
	}, nil
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := decodeUser(r)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	created, err := h.Service.AddUser(r.Context(), user)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	w.Header().Set("Location", "/api/v1/users/"+created.ID.String())
	writeJSON(w, http.StatusCreated, toUserResponse(created))
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.Service.GetAllUsers(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	items := make([]userResponse, 0, len(all))
	for _, u := range all {
		items = append(items, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, userListResponse{Items: items})
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "userId")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	user, err := h.Service.GetUserByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Update replaces email and display name. An unknown id answers 404.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "userId")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	user, err := decodeUser(r)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	affected, err := h.Service.UpdateUserByID(r.Context(), id, user)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	if affected == 0 {
		writeDomainError(w, r, domain.ErrNotFound, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, affectedResponse{Affected: affected})
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "userId")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	affected, err := h.Service.DeleteUserByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, affectedResponse{Affected: affected})
}
