package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/sling/backend/internal/database"
	"github.com/sling/backend/internal/models"
)

// UserData represents the structure of users in the JSON file
type UserData struct {
	AccountName string `json:"accountName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// JSONData represents the structure of the JSON files
type JSONData struct {
	Users []UserData `json:"users"`
	FAQs  []FAQData  `json:"faqs"`
}

type FAQData struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Language string `json:"language"`
	Position int    `json:"position"`
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Connect to database
	database.Connect()

	// Run migrations first
	log.Println("Running database migrations...")
	database.AutoMigrate()

	// Seed database with sample data
	log.Println("Seeding database with sample data...")

	data, err := loadSeedData()
	if err != nil {
		log.Fatalf("Error reading seed data: %v", err)
	}

	if err := seedUsers(data.Users); err != nil {
		log.Printf("Error seeding users: %v", err)
	}
	if err := seedFAQs(data.FAQs); err != nil {
		log.Printf("Error seeding FAQs: %v", err)
	}

	log.Println("Database seeding completed successfully!")
}

func loadSeedData() (*JSONData, error) {
	raw, err := os.ReadFile("data/seed.json")
	if err != nil {
		return nil, err
	}

	var data JSONData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func seedUsers(users []UserData) error {
	for _, userData := range users {
		// Hash password
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(userData.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Error hashing password for %s: %v", userData.Email, err)
			continue
		}

		// Map role string to Role enum
		var role models.UserRole
		switch userData.Role {
		case "admin":
			role = models.RoleAdmin
		case "lead":
			role = models.RoleLead
		case "support":
			role = models.RoleSupport
		case "player":
			role = models.RolePlayer
		default:
			log.Printf("Unknown role %s for user %s, defaulting to player", userData.Role, userData.Email)
			role = models.RolePlayer
		}

		user := models.User{
			AccountName: userData.AccountName,
			Email:       userData.Email,
			Password:    string(hashedPassword),
			Role:        role,
		}

		// Check if user already exists
		var existingUser models.User
		if err := database.DB.Where("email = ?", user.Email).First(&existingUser).Error; err != nil {
			if err := database.DB.Create(&user).Error; err != nil {
				log.Printf("Error creating user %s: %v", user.Email, err)
			} else {
				log.Printf("Created user: %s (%s)", user.Email, user.Role)
			}
		} else {
			log.Printf("User already exists: %s", user.Email)
		}
	}

	return nil
}

func seedFAQs(faqs []FAQData) error {
	for _, faqData := range faqs {
		language := faqData.Language
		if language == "" {
			language = "en"
		}

		var existing models.FAQ
		if err := database.DB.Where("question = ? AND language = ?", faqData.Question, language).First(&existing).Error; err == nil {
			log.Printf("FAQ already exists: %s", faqData.Question)
			continue
		}

		faq := models.FAQ{
			Question: faqData.Question,
			Answer:   faqData.Answer,
			Language: language,
			Position: faqData.Position,
		}
		if err := database.DB.Create(&faq).Error; err != nil {
			log.Printf("Error creating FAQ %q: %v", faqData.Question, err)
		} else {
			log.Printf("Created FAQ: %s", faqData.Question)
		}
	}

	return nil
}
