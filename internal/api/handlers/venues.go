package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventsg/backend/internal/domain"
	"github.com/eventsg/backend/internal/domain/venues"
	"github.com/eventsg/backend/internal/sanitize"
)

type VenuesHandler struct {
	Service *venues.Service
	Env     string
}

func NewVenuesHandler(service *venues.Service, env string) *VenuesHandler {
	return &VenuesHandler{Service: service, Env: env}
}

// venueRequest is the body accepted by create and update. Any id or image
// in the body is ignored.
type venueRequest struct {
	OwnerID     string   `json:"ownerId" validate:"required,uuid"`
	Address     string   `json:"address" validate:"max=500"`
	PostalCode  string   `json:"postalCode" validate:"max=20"`
	Name        string   `json:"venueName" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	RentalFee   *float64 `json:"rentalFee" validate:"required,gte=0"`
	Area        *float64 `json:"area" validate:"required,gt=0"`
	VenueID     string   `json:"venueId,omitempty"`
	Image       string   `json:"image,omitempty"`
}

type venueResponse struct {
	VenueID     string  `json:"venueId"`
	OwnerID     string  `json:"ownerId"`
	Address     string  `json:"address"`
	PostalCode  string  `json:"postalCode"`
	Name        string  `json:"venueName"`
	Description string  `json:"description"`
	RentalFee   float64 `json:"rentalFee"`
	Area        float64 `json:"area"`
	Image       string  `json:"image"`
}

type venueListResponse struct {
	Items []venueResponse `json:"items"`
}

// render builds the response body. A stored image reference that cannot be
// linked is returned unchanged.
func (h *VenuesHandler) render(r *http.Request, v venues.Venue) venueResponse {
	image, err := h.Service.ImageURL(r.Context(), v.Image)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("venue_id", v.ID.String()).Msg("image link failed")
		image = v.Image
	}
	return venueResponse{
		VenueID:     v.ID.String(),
		OwnerID:     v.OwnerID.String(),
		Address:     v.Address,
		PostalCode:  v.PostalCode,
		Name:        v.Name,
		Description: v.Description,
		RentalFee:   v.RentalFee,
		Area:        v.Area,
		Image:       image,
	}
}

func (h *VenuesHandler) renderList(r *http.Request, vs []venues.Venue) venueListResponse {
	items := make([]venueResponse, 0, len(vs))
	for _, v := range vs {
		items = append(items, h.render(r, v))
	}
	return venueListResponse{Items: items}
}

// decodeVenue reads, validates and sanitizes a venue body.
func decodeVenue(r *http.Request) (venues.Venue, error) {
	var req venueRequest
	if err := decodeJSON(r, &req); err != nil {
		return venues.Venue{}, err
	}
	req.OwnerID = strings.TrimSpace(req.OwnerID)
	if err := validateStruct(req); err != nil {
		return venues.Venue{}, err
	}
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return venues.Venue{}, domain.Invalid("ownerId", "must be a UUID")
	}

	name := strings.TrimSpace(sanitize.Text(req.Name))
	if name == "" {
		return venues.Venue{}, domain.Invalid("venueName", "is required")
	}
	return venues.Venue{
		OwnerID:     ownerID,
		Address:     strings.TrimSpace(sanitize.Text(req.Address)),
		PostalCode:  strings.TrimSpace(sanitize.Text(req.PostalCode)),
		Name:        name,
		Description: strings.TrimSpace(sanitize.Text(req.Description)),
		RentalFee:   *req.RentalFee,
		Area:        *req.Area,
	}, nil
}

func (h *VenuesHandler) Create(w http.ResponseWriter, r *http.Request) {
	venue, err := decodeVenue(r)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	created, err := h.Service.AddVenue(r.Context(), venue)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	w.Header().Set("Location", "/api/v1/venues/"+created.ID.String())
	writeJSON(w, http.StatusCreated, h.render(r, created))
}

func (h *VenuesHandler) List(w http.ResponseWriter, r *http.Request) {
	vs, err := h.Service.GetAllVenues(r.Context())
	h.respondList(w, r, vs, err)
}

func (h *VenuesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "venueId")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	venue, err := h.Service.GetVenueByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, h.render(r, venue))
}

// Update replaces the venue. An unknown id answers 404.
func (h *VenuesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "venueId")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	venue, err := decodeVenue(r)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	affected, err := h.Service.UpdateVenueByID(r.Context(), id, venue)
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

// Delete is idempotent: an unknown id answers 200 with affected 0.
func (h *VenuesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "venueId")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	affected, err := h.Service.DeleteVenueByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, affectedResponse{Affected: affected})
}

func (h *VenuesHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := pathUUID(r, "ownerId")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	vs, err := h.Service.GetVenuesByOwnerID(r.Context(), ownerID)
	h.respondList(w, r, vs, err)
}

func (h *VenuesHandler) ListByName(w http.ResponseWriter, r *http.Request) {
	vs, err := h.Service.GetVenuesByName(r.Context(), pathParam(r, "name"))
	h.respondList(w, r, vs, err)
}

func (h *VenuesHandler) ListByLocation(w http.ResponseWriter, r *http.Request) {
	vs, err := h.Service.GetVenuesByLocation(r.Context(), pathParam(r, "location"))
	h.respondList(w, r, vs, err)
}

func (h *VenuesHandler) ListByArea(w http.ResponseWriter, r *http.Request) {
	area, err := pathNumber(r, "area")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	vs, err := h.Service.GetVenuesByArea(r.Context(), area)
	h.respondList(w, r, vs, err)
}

func (h *VenuesHandler) ListByBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := pathNumber(r, "budget")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	vs, err := h.Service.GetVenuesByBudget(r.Context(), budget)
	h.respondList(w, r, vs, err)
}

func (h *VenuesHandler) GetByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "eventId")
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	venue, err := h.Service.GetVenueByEventID(r.Context(), eventID)
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, h.render(r, venue))
}

func (h *VenuesHandler) respondList(w http.ResponseWriter, r *http.Request, vs []venues.Venue, err error) {
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, h.renderList(r, vs))
}
