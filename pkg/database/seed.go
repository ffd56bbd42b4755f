package database

import (
	"errors"
	"time"

	"github.com/devworkshop/usersvc/internal/model"
	"github.com/devworkshop/usersvc/pkg/hash"
	"gorm.io/gorm"
)

// DefaultAdmin defines the bootstrap admin user credentials
type DefaultAdmin struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	RoleID    uint
}

// GetDefaultAdmin returns the default admin user
func GetDefaultAdmin() DefaultAdmin {
	return DefaultAdmin{
		FirstName: "Admin",
		LastName:  "User",
		Email:     "admin@usersvc.local",
		Password:  "Admin@123", // Change this in production!
		RoleID:    1,
	}
}

func defaultRoles() []model.Role {
	return []model.Role{
		{RoleID: 1, Name: "admin"},
		{RoleID: 2, Name: "manager"},
		{RoleID: 3, Name: "lead"},
		{RoleID: 4, Name: "member"},
	}
}

// Seed creates initial data for the database
func Seed(db *gorm.DB) error {
	if err := SeedRoles(db); err != nil {
		return err
	}
	return SeedAdminUser(db)
}

// SeedRoles inserts the role reference rows that RoleID values point at,
// skipping any that already exist.
func SeedRoles(db *gorm.DB) error {
	for _, role := range defaultRoles() {
		var existing model.Role
		result := db.Where("role_id = ?", role.RoleID).First(&existing)

		if result.Error == nil {
			continue
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		if err := db.Create(&role).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedAdminUser creates the bootstrap admin account if not exists
func SeedAdminUser(db *gorm.DB) error {
	admin := GetDefaultAdmin()

	var existingUser model.User
	result := db.Where("email = ?", admin.Email).First(&existingUser)

	if result.Error == nil {
		// User already exists, skip seeding
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	passwordHash, err := hash.NewBcryptHasher().Hash(admin.Password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := model.User{
		FirstName:         admin.FirstName,
		LastName:          admin.LastName,
		Email:             admin.Email,
		PasswordHash:      passwordHash,
		RoleID:            admin.RoleID,
		CreatedAt:         now,
		UpdatedAt:         now,
		LastTokenIssuedAt: now,
	}

	return db.Create(&user).Error
}
