package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultPicturesSubDir   = "pictures"
	DefaultJourneySubDir    = "journey"
	DefaultThumbnailsSubDir = "thumbnails"
)

const (
	defaultPublicToken      = "change-me"
	defaultSessionDays      = 30
	defaultThumbnailMaxSize = 480
	defaultUploadMaxBytes   = 25 << 20
	defaultStartingCoins    = 5
)

type Config struct {
	// database path
	DatabasePath string

	// storage configuration
	StorageDir     string // primary root for uploaded assets
	PicturesPath   string // full-calculated path for uploaded pictures
	JourneyPath    string // full-calculated path for journey item images
	ThumbnailsPath string // full-calculated path for generated thumbnails

	// shared secret granting public (non-admin) access
	PublicToken string

	// session settings
	SessionDays int

	// upload / thumbnail settings
	ThumbnailMaxSize int
	UploadMaxBytes   int64

	// gacha settings
	StartingCoins int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "anniversary.db")

	storageDir := getEnvOrDefault("STORAGE_DIR", filepath.Join(".", "data", "images"))
	absStorageDir, err := filepath.Abs(storageDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for storage dir '%s': %w", storageDir, err)
	}

	picturesSubDir := getEnvOrDefault("PICTURES_SUBDIR", DefaultPicturesSubDir)
	absPicturesPath := filepath.Join(absStorageDir, picturesSubDir)

	journeySubDir := getEnvOrDefault("JOURNEY_SUBDIR", DefaultJourneySubDir)
	absJourneyPath := filepath.Join(absStorageDir, journeySubDir)

	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)
	absThumbnailsPath := filepath.Join(absStorageDir, thumbSubDir)

	publicToken := os.Getenv("API_PUBLIC_TOKEN")
	if publicToken == "" {
		publicToken = defaultPublicToken
		log.Printf("Warning: API_PUBLIC_TOKEN not set, using the default placeholder")
	}

	uploadMax := int64(getEnvIntOrDefault("UPLOAD_MAX_BYTES", defaultUploadMaxBytes))

	cfg := Config{
		DatabasePath:     dbPath,
		StorageDir:       absStorageDir,
		PicturesPath:     absPicturesPath,
		JourneyPath:      absJourneyPath,
		ThumbnailsPath:   absThumbnailsPath,
		PublicToken:      publicToken,
		SessionDays:      getEnvIntOrDefault("SESSION_DAYS", defaultSessionDays),
		ThumbnailMaxSize: getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize),
		UploadMaxBytes:   uploadMax,
		StartingCoins:    getEnvIntOrDefault("GACHA_STARTING_COINS", defaultStartingCoins),
	}

	return cfg, nil
}
