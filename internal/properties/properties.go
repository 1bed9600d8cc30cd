package properties

import (
	"os"
	"path/filepath"
)

// DefaultThreshold is the significance threshold applied to NDVI
// differences when the user does not pick one.
const DefaultThreshold = 0.2

// DefaultMinRegionCells is the smallest connected change region worth
// reporting.
const DefaultMinRegionCells = 10

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

// DataPath holds downloaded scenes, boundaries, elevation tiles and
// run outputs. Defaults to <ROOT_PATH>/data.
func DataPath() string {
	if path := os.Getenv("DATA_PATH"); path != "" {
		return path
	}
	return filepath.Join(RootPath(), "data")
}

func OutputPath() string {
	if path := os.Getenv("OUTPUT_PATH"); path != "" {
		return path
	}
	return filepath.Join(RootPath(), "output")
}

// LandsatHost is the base URL of the Collection 2 Level-2 archive.
func LandsatHost() string {
	return getEnv("LANDSAT_HOST", "https://landsatlook.usgs.gov/data")
}

func LandsatClientID() string {
	return os.Getenv("LANDSAT_CLIENT_ID")
}

func LandsatClientSecret() string {
	return os.Getenv("LANDSAT_CLIENT_SECRET")
}

func LandsatTokenURL() string {
	return os.Getenv("LANDSAT_TOKEN_URL")
}

// GadmHost serves GADM 4.1 administrative boundaries as GeoJSON.
func GadmHost() string {
	return getEnv("GADM_HOST", "https://geodata.ucdavis.edu/gadm/gadm4.1/json")
}

// OpenTopographyHost serves the global DEM API.
func OpenTopographyHost() string {
	return getEnv("OPENTOPOGRAPHY_HOST", "https://portal.opentopography.org/API/globaldem")
}

// OpenMeteoHost serves the historical weather archive.
func OpenMeteoHost() string {
	return getEnv("OPEN_METEO_HOST", "https://archive-api.open-meteo.com/v1/archive")
}

func OpenTopographyAPIKey() string {
	return os.Getenv("OPENTOPOGRAPHY_API_KEY")
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}
func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}
