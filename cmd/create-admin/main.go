package main

import (
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"

	"kingtires/internal/config"
	"kingtires/internal/database"
	"kingtires/internal/models"
	"kingtires/internal/repositories"
)

func main() {
	firstName := flag.String("first-name", "", "admin first name")
	lastName := flag.String("last-name", "", "admin last name")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	age := flag.Int("age", 30, "admin age")
	flag.Parse()

	req := &models.UserRegisterRequest{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Age:       *age,
		Password:  *password,
	}
	if err := req.Validate(); err != nil {
		log.Fatalf("Invalid admin details: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(database.Config{URL: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userRepo := repositories.NewUserRepository(db.DB)
	user, err := userRepo.Create(req, string(hash), models.RoleAdmin)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Admin user %s (%d) created", user.Email, user.ID)
}
