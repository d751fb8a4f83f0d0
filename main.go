package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/Shobuki/gfchristmastwebsite/config"
	"github.com/Shobuki/gfchristmastwebsite/database"
	"github.com/Shobuki/gfchristmastwebsite/handlers"
	"github.com/Shobuki/gfchristmastwebsite/media"
	"github.com/Shobuki/gfchristmastwebsite/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.PicturesPath, cfg.JourneyPath, cfg.ThumbnailsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypePicture:   filepath.Base(cfg.PicturesPath),
		media.AssetTypeJourney:   filepath.Base(cfg.JourneyPath),
		media.AssetTypeThumbnail: filepath.Base(cfg.ThumbnailsPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.StorageDir, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}

	adminRepo := repository.NewGormAdminRepository(db)
	sessionRepo := repository.NewGormSessionRepository(db)
	pictureRepo := repository.NewGormPictureRepository(db)
	gachaRepo := repository.NewGormGachaRepository(db)
	journeyRepo := repository.NewGormJourneyRepository(db)
	settingsRepo := repository.NewGormSettingsRepository(db)

	log.Printf("Storing uploads under: %s", cfg.StorageDir)
	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Session lifetime: %d days", cfg.SessionDays)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	handlers.Register(r, handlers.Deps{
		Cfg:      cfg,
		Admins:   adminRepo,
		Sessions: sessionRepo,
		Pictures: pictureRepo,
		Gacha:    gachaRepo,
		Journey:  journeyRepo,
		Settings: settingsRepo,
		Store:    mediaStore,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
