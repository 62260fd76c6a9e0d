package handler

import (
	"strconv"

	"github.com/Vikrant465/booking-service/internal/application"
	"github.com/Vikrant465/booking-service/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HistoryHandler serves a rider's finished rides.
type HistoryHandler struct {
	service *application.BookingService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(service *application.BookingService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// RegisterRoutes registers the history routes on the given router group.
func (h *HistoryHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/riders/:id/history", h.ListHistory)
}

// ListHistory handles GET /api/v1/riders/:id/history.
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	riderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rider ID")
		return
	}

	page, limit := parsePagination(c)

	records, total, err := h.service.RideHistory(c.Request.Context(), riderID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, records, total, page, limit)
}

func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
