package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Shobuki/gfchristmastwebsite/models"
)

// InitGormDB initializes and returns a GORM database instance
func InitGormDB(dataSourceName string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("GORM Database initialized successfully at", dataSourceName)
	return db, nil
}

// AutoMigrateModels migrates all schemas and seeds the singleton settings rows
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Admin{},
		&models.AdminSession{},
		&models.Picture{},
		&models.GachaItem{},
		&models.GachaRaritySetting{},
		&models.GachaState{},
		&models.GachaResult{},
		&models.JourneyItem{},
		&models.CosmicSettings{},
		&models.LayoutSettings{},
		&models.LetterSettings{},
		&models.LoveRadarLog{},
	)
	if err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return seedSingletons(db)
}

// seedSingletons makes sure the id=1 settings rows exist so reads never 404
// on a fresh database
func seedSingletons(db *gorm.DB) error {
	seeds := []struct {
		name  string
		model interface{}
		row   interface{}
	}{
		{"cosmic_settings", &models.CosmicSettings{}, &models.CosmicSettings{
			ID:            models.SingletonID,
			IntroTitle:    "Happy Anniversary",
			IntroSubtitle: "A little journey through our year",
			TimelineTitle: "Our Timeline",
		}},
		{"layout_settings", &models.LayoutSettings{}, &models.LayoutSettings{
			ID:             models.SingletonID,
			JourneyColumns: 3,
			GachaColumns:   4,
		}},
		{"letter_settings", &models.LetterSettings{}, &models.LetterSettings{
			ID:         models.SingletonID,
			Title:      "For You",
			Body1:      "…",
			Body2:      "…",
			ButtonText: "Open",
			Footer:     "With love",
		}},
	}

	for _, s := range seeds {
		err := db.First(s.model, models.SingletonID).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("checking %s singleton: %w", s.name, err)
		}
		if err := db.Create(s.row).Error; err != nil {
			return fmt.Errorf("seeding %s singleton: %w", s.name, err)
		}
	}
	return nil
}
