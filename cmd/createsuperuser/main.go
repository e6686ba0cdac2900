package main

import (
	"context"
	"flag"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/savora-app/backend/internal/repository"
	"github.com/savora-app/backend/internal/service"
)

// Bootstrap command for creating a staff/superuser account.
func main() {
	email := flag.String("email", "", "Email address for the superuser")
	password := flag.String("password", "", "Password for the superuser (or SUPERUSER_PASSWORD env var)")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}
	pw := *password
	if pw == "" {
		pw = os.Getenv("SUPERUSER_PASSWORD")
	}
	if pw == "" {
		log.Fatal("-password or SUPERUSER_PASSWORD is required")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	users := service.NewUserService(repository.NewUserRepository(db))
	user, err := users.CreateSuperuser(context.Background(), *email, pw)
	if err != nil {
		log.Fatalf("Failed to create superuser: %v", err)
	}

	log.Printf("Created superuser %s (id=%d)", user.Email, user.ID)
}
