package main

import (
	"log"

	"github.com/wayfare/trip-backend-go/internal/api"
	"github.com/wayfare/trip-backend-go/internal/config"
	"github.com/wayfare/trip-backend-go/internal/database"
	"github.com/wayfare/trip-backend-go/internal/directions"
	"github.com/wayfare/trip-backend-go/internal/geocoding"
	"github.com/wayfare/trip-backend-go/internal/handler"
	"github.com/wayfare/trip-backend-go/internal/places"
	"github.com/wayfare/trip-backend-go/internal/planner"
	"github.com/wayfare/trip-backend-go/internal/repository"
	"github.com/wayfare/trip-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	routeRepo := repository.NewRouteRepository(db)
	itineraryRepo := repository.NewItineraryRepository(db)

	geocoder := geocoding.NewNominatimGeocoder(cfg.NominatimURL, cfg.UserAgent)
	router := directions.NewOSRMRouter(cfg.OSRMURL)
	directory := places.NewHTTPDirectory(cfg.PlacesURL)

	dayBuilder := planner.NewDayBuilder(geocoder, router)
	assembler := planner.NewAssembler(dayBuilder, geocoder, routeRepo)
	fallback := planner.NewFallbackEnricher(router)
	reconciler := service.NewReconciler(directory)

	routeService := service.NewRouteService(assembler, fallback, reconciler, routeRepo, itineraryRepo)
	statusService := service.NewStatusService(db, routeRepo, itineraryRepo)

	routeHandler := handler.NewRouteHandler(routeService, statusService)
	itineraryHandler := handler.NewItineraryHandler(routeService)

	engine := api.SetupRouter(cfg, routeHandler, itineraryHandler)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := engine.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
