package database

import (
	"log"

	"distance-learning-backend/app/model"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RunSeeders runs all startup seeders. Call once from main after InitDB.
func RunSeeders(db *gorm.DB) {
	SeedAdmin(db)
}

// SeedAdmin creates the initial admin account so a fresh deployment can be
// administered at all. Skipped when any user already exists.
func SeedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&model.User{}).Count(&count)
	if count > 0 {
		log.Println("[SEEDER] Users already present, skipping admin seed.")
		return
	}

	password := viper.GetString("seed.admin_password")
	if password == "" {
		password = "admin"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("[SEEDER] Failed to hash admin password: %v", err)
	}

	admin := model.User{
		Login:        "admin",
		Email:        "admin@example.com",
		FullName:     "Administrator",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("[SEEDER] Failed to seed admin user: %v", err)
	}

	log.Println("[SEEDER] Seeded initial admin user (login: admin)")
}
