package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wayfare/trip-backend-go/internal/config"
	"github.com/wayfare/trip-backend-go/internal/handler"
	"github.com/wayfare/trip-backend-go/internal/middleware"
)

// SetupRouter wires middleware and endpoints
func SetupRouter(cfg *config.Config, routes *handler.RouteHandler, itineraries *handler.ItineraryHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Trip Backend API is running",
		})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(120, time.Minute))
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		routeGroup := api.Group("/routes")
		{
			routeGroup.POST("", routes.CreateRoute)
			routeGroup.GET("", routes.ListRoutes)
			routeGroup.GET("/:id", routes.GetRoute)
			routeGroup.PUT("/:id/status", routes.ChangeStatus)
			routeGroup.DELETE("/:id", routes.DeleteRoute)
		}

		itineraryGroup := api.Group("/itineraries")
		{
			itineraryGroup.GET("", itineraries.ListItineraries)
			itineraryGroup.GET("/:id", itineraries.GetItinerary)
		}
	}

	return r
}
