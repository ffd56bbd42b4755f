package database

import (
	"github.com/devworkshop/usersvc/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models. The unique index
// on users.email created here is the authoritative uniqueness guarantee
// behind the service's advisory probe.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.Team{},
		&model.User{},
	)
}
