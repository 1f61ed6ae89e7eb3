package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port         string
	DBPath       string
	JWTSecret    string
	NominatimURL string
	OSRMURL      string
	PlacesURL    string
	UserAgent    string
}

// Load reads configuration from the environment, with a .env file as fallback
func Load() *Config {
	// A missing .env is fine; deployments set the environment directly
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", ":8080"),
		DBPath:       getEnv("DB_PATH", "./data/routes.db"),
		JWTSecret:    getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		NominatimURL: getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		OSRMURL:      getEnv("OSRM_URL", "https://router.project-osrm.org"),
		PlacesURL:    getEnv("PLACES_URL", "http://localhost:9090"),
		UserAgent:    getEnv("HTTP_USER_AGENT", "TripBackend/1.0"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
