package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wayfare/trip-backend-go/internal/middleware"
	"github.com/wayfare/trip-backend-go/internal/service"
	"github.com/wayfare/trip-backend-go/pkg/response"
)

// ItineraryHandler handles HTTP requests for confirmed-store records
type ItineraryHandler struct {
	routes *service.RouteService
}

// NewItineraryHandler creates a new itinerary handler
func NewItineraryHandler(routes *service.RouteService) *ItineraryHandler {
	return &ItineraryHandler{routes: routes}
}

// ListItineraries handles GET /api/v1/itineraries
func (h *ItineraryHandler) ListItineraries(c *gin.Context) {
	itineraries, err := h.routes.ListItineraries(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list itineraries", err)
		return
	}

	response.Success(c, itineraries)
}

// GetItinerary handles GET /api/v1/itineraries/:id
func (h *ItineraryHandler) GetItinerary(c *gin.Context) {
	it, err := h.routes.GetItinerary(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to get itinerary")
		return
	}

	response.Success(c, it)
}
