// Command createadmin bootstraps an administrator account so the very first
// login is possible.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Shobuki/gfchristmastwebsite/auth"
	"github.com/Shobuki/gfchristmastwebsite/config"
	"github.com/Shobuki/gfchristmastwebsite/database"
	"github.com/Shobuki/gfchristmastwebsite/models"
	"github.com/Shobuki/gfchristmastwebsite/repository"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: createadmin <username> <password>")
		os.Exit(1)
	}
	username, password := os.Args[1], os.Args[2]

	if err := godotenv.Load(); err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("FATAL: Failed to hash password: %v", err)
	}

	adminRepo := repository.NewGormAdminRepository(db)
	admin := models.Admin{Username: username, PasswordHash: passwordHash}
	if err := adminRepo.Create(&admin); err != nil {
		log.Fatalf("FATAL: Failed to create admin: %v", err)
	}

	fmt.Printf("Admin created: %s (id %d)\n", admin.Username, admin.ID)
}
