package handler

import (
	"net/url"

	"github.com/Vikrant465/booking-service/internal/application"
	"github.com/Vikrant465/booking-service/internal/domain"
	"github.com/Vikrant465/booking-service/internal/domain/ride"
	"github.com/Vikrant465/booking-service/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookingHandler handles HTTP requests for the booking flow.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/api/v1/sessions")
	{
		sessions.POST("", h.StartSession)
		sessions.GET("/:id", h.GetSession)
		sessions.DELETE("/:id", h.EndSession)
		sessions.GET("/:id/search", h.SearchPlaces)
		sessions.POST("/:id/endpoints", h.SetEndpoint)
		sessions.GET("/:id/fares", h.GetFares)
		sessions.POST("/:id/ride-type", h.ChooseRideType)
		sessions.POST("/:id/confirm", h.Confirm)
		sessions.POST("/:id/dispatch", h.BeginDispatch)
		sessions.GET("/:id/dispatch", h.GetDispatch)
		sessions.DELETE("/:id/dispatch", h.AbortDispatch)
		sessions.POST("/:id/payment", h.OpenPayment)
		sessions.POST("/:id/cancel", h.Cancel)
		sessions.POST("/:id/locate", h.Locate)
	}
}

// StartSessionRequest is the body of POST /api/v1/sessions. Transfer carries
// the stage-transfer query parameters from a previous page, if any.
type StartSessionRequest struct {
	RiderID  uuid.UUID `json:"rider_id" binding:"required"`
	Transfer string    `json:"transfer"`
}

// StartSession handles POST /api/v1/sessions.
func (h *BookingHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	transfer, err := parseTransfer(req.Transfer)
	if err != nil {
		response.BadRequest(c, "malformed transfer parameters")
		return
	}

	snap, err := h.service.StartSession(c.Request.Context(), req.RiderID, transfer)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, snap)
}

// GetSession handles GET /api/v1/sessions/:id.
func (h *BookingHandler) GetSession(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	snap, err := h.service.Snapshot(sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, snap)
}

// EndSession handles DELETE /api/v1/sessions/:id.
func (h *BookingHandler) EndSession(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	h.service.EndSession(sessionID)
	response.Success(c, gin.H{"deleted": true})
}

// SearchResponse is the body of a place search. Notice carries the inline
// message for a failed lookup; the candidate list is empty in that case.
type SearchResponse struct {
	Query      string                `json:"query"`
	Candidates []ride.PlaceCandidate `json:"candidates"`
	Notice     string                `json:"notice,omitempty"`
	NoticeCode string                `json:"notice_code,omitempty"`
}

// SearchPlaces handles GET /api/v1/sessions/:id/search?q=.
func (h *BookingHandler) SearchPlaces(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.SearchPlaces(c.Request.Context(), sessionID, c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := SearchResponse{Query: result.Query, Candidates: result.Candidates}
	if result.Err != nil {
		resp.Notice = result.Err.Error()
		resp.NoticeCode = domain.CodeOf(result.Err)
	}
	response.Success(c, resp)
}

// SetEndpointRequest is the body of POST /api/v1/sessions/:id/endpoints.
// Exactly one of Candidate or Point must be set: Candidate fills the slot
// from a search result, Point from a map click.
type SetEndpointRequest struct {
	Role      ride.EndpointRole    `json:"role" binding:"required"`
	Candidate *ride.PlaceCandidate `json:"candidate,omitempty"`
	Point     *ride.Coordinates    `json:"point,omitempty"`
}

// SetEndpoint handles POST /api/v1/sessions/:id/endpoints.
func (h *BookingHandler) SetEndpoint(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req SetEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !req.Role.IsValid() {
		response.BadRequest(c, "role must be pickup or drop")
		return
	}
	if (req.Candidate == nil) == (req.Point == nil) {
		response.BadRequest(c, "exactly one of candidate or point is required")
		return
	}

	var (
		snap *application.BookingSnapshot
		err  error
	)
	if req.Candidate != nil {
		snap, err = h.service.SetEndpointFromCandidate(c.Request.Context(), sessionID, req.Role, *req.Candidate)
	} else {
		snap, err = h.service.SetEndpointFromMapPoint(c.Request.Context(), sessionID, req.Role, *req.Point)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, snap)
}

// GetFares handles GET /api/v1/sessions/:id/fares.
func (h *BookingHandler) GetFares(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	quotes, err := h.service.Fares(sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, quotes)
}

// ChooseRideTypeRequest is the body of POST /api/v1/sessions/:id/ride-type.
type ChooseRideTypeRequest struct {
	RideType string `json:"ride_type" binding:"required"`
}

// ChooseRideType handles POST /api/v1/sessions/:id/ride-type.
func (h *BookingHandler) ChooseRideType(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req ChooseRideTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	rideType, err := ride.ParseRideType(req.RideType)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	snap, err := h.service.ChooseRideType(sessionID, rideType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, snap)
}

// ConfirmResponse is the body of a successful confirm: the snapshot plus the
// stage-transfer query string the UI appends when navigating to the next page.
type ConfirmResponse struct {
	Transfer string                       `json:"transfer"`
	Booking  *application.BookingSnapshot `json:"booking"`
}

// Confirm handles POST /api/v1/sessions/:id/confirm.
func (h *BookingHandler) Confirm(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	transfer, snap, err := h.service.Confirm(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ConfirmResponse{Transfer: transfer, Booking: snap})
}

// BeginDispatch handles POST /api/v1/sessions/:id/dispatch.
func (h *BookingHandler) BeginDispatch(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	snap, err := h.service.BeginDispatch(sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, snap)
}

// GetDispatch handles GET /api/v1/sessions/:id/dispatch.
func (h *BookingHandler) GetDispatch(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	status, err := h.service.Dispatch(sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, status)
}

// AbortDispatch handles DELETE /api/v1/sessions/:id/dispatch.
func (h *BookingHandler) AbortDispatch(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	snap, err := h.service.AbortDispatch(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, snap)
}

// OpenPayment handles POST /api/v1/sessions/:id/payment.
func (h *BookingHandler) OpenPayment(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	snap, err := h.service.OpenPayment(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, snap)
}

// Cancel handles POST /api/v1/sessions/:id/cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	snap, err := h.service.Cancel(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, snap)
}

// LocateRequest is the body of POST /api/v1/sessions/:id/locate. A nil
// position reports that the device denied or failed geolocation.
type LocateRequest struct {
	Position *ride.Coordinates `json:"position"`
}

// Locate handles POST /api/v1/sessions/:id/locate.
func (h *BookingHandler) Locate(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req LocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	snap, err := h.service.LocateRider(sessionID, req.Position)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, snap)
}

func parseTransfer(raw string) (url.Values, error) {
	if raw == "" {
		return nil, nil
	}
	return url.ParseQuery(raw)
}

func sessionIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}
