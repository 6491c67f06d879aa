package database

import (
	"carecycle-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN (Postgres pooler URL).
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for all domain models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Org{},
		&models.User{},
		&models.CareType{},
		&models.Patient{},
		&models.Schedule{},
		&models.ScheduleExecution{},
		&models.ScheduleNotification{},
		&models.ScheduleEvent{},
		&models.Invitation{},
	)
}
