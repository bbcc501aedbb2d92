package main

import (
	"log"
	"os"

	"pitchtank/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set. This service requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}

	// Ensure the roles master table exists first and seed it so the users FK can be applied safely.
	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&models.Role{}); err != nil {
			log.Printf("migration warning (roles): %v", err)
		}
	}
	seedRoles()

	if cfg.AutoMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.Submission{}); err != nil {
			log.Printf("migration warning (submissions): %v", err)
		}
		if err := db.AutoMigrate(&models.Document{}); err != nil {
			log.Printf("migration warning (documents): %v", err)
		}
		if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
			log.Printf("migration warning (refresh_tokens): %v", err)
		}
	}
	seedDB()
}

var masterRoles = []models.Role{
	{Name: "administrator", Description: "full access"},
	{Name: "founder", Description: "startup founder applying to programs"},
	{Name: "mentor", Description: "community mentor"},
	{Name: "investor", Description: "angel or fund investor"},
	{Name: "service_provider", Description: "professional services partner"},
}

func seedRoles() {
	for _, r := range masterRoles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}
}

func seedDB() {
	seedRoles()

	// Check if admin user exists
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		var role models.Role
		if err := db.Where("name = ?", "administrator").First(&role).Error; err != nil {
			log.Printf("failed to find administrator role: %v", err)
		}
		rid := role.ID
		admin := models.User{
			Username: "admin",
			RoleID:   &rid,
		}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		db.Create(&admin)
		log.Println("Seeded admin user: username=admin, password=admin123")
	}
	ensureUploadBase()
}

// ensureUploadBase creates the base uploads directory and the decks folder inside it.
func ensureUploadBase() {
	if err := os.MkdirAll(uploadBaseDir()+"/decks", 0755); err != nil {
		log.Printf("failed to create upload base dir %s: %v", uploadBaseDir(), err)
	}
}

// uploadBaseDir returns the base directory for locally stored documents.
func uploadBaseDir() string {
	if cfg.UploadBase != "" {
		return cfg.UploadBase
	}
	return "uploads"
}
