package repositories

import (
	"fmt"

	"github.com/shashiranjanraj/nepkart/app/models"
	"gorm.io/gorm"
)

// UserRepository handles database operations for admin users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername looks up a user by username.
func (r *UserRepository) FindByUsername(username string) (models.User, error) {
	var u models.User
	err := r.db.Where("username = ?", username).First(&u).Error
	return u, translate(err, fmt.Sprintf("user %q", username))
}

// Create persists a new user.
func (r *UserRepository) Create(u *models.User) error {
	return translate(r.db.Create(u).Error, fmt.Sprintf("user %q", u.Username))
}
