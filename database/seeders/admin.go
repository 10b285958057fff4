package seeders

import (
	"errors"

	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/app/repositories"
	"github.com/shashiranjanraj/nepkart/config"
	"github.com/shashiranjanraj/nepkart/pkg/auth"
	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"gorm.io/gorm"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates ADMIN_USERNAME with ADMIN_PASSWORD when that user does
// not exist yet. Without a password nothing is created.
func SeedAdmin(db *gorm.DB) error {
	username, password := config.AdminUsername(), config.AdminPassword()
	if password == "" {
		logger.Warn("seeder: ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}

	users := repositories.NewUserRepository(db)
	_, err := users.FindByUsername(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return users.Create(&models.User{Username: username, Password: hash, Role: models.RoleAdmin})
}
