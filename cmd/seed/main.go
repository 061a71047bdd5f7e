package main

import (
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/miniblog/backend/database"
	"github.com/miniblog/backend/models"
)

// Seeds one admin and one regular account for local development. Passwords
// come from here only; the signup endpoint never creates admins.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	seedUser("admin", "admin12**", models.RoleAdmin)
	seedUser("writer", "writer12**", models.RoleRegular)
}

// seedUser ensures the account exists with the given role
func seedUser(username, password string, role models.UserRole) {
	var count int64
	database.DB.Model(&models.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		log.Printf("User %s already exists, skipping", username)
		return
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("❌ Failed to hash password for %s: %v", username, err)
		return
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hashedBytes),
		Role:         role,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		log.Printf("❌ Failed to create user %s: %v", username, err)
		return
	}
	log.Printf("✅ Seeded %s user %s", role, username)
}
