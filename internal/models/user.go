package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a staff member of one organization. CareTypeID binds nurses to
// their department; it is nil for every other role.
type User struct {
	UserID       uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Fullname     string         `gorm:"column:fullname;not null" json:"fullname"`
	UserName     string         `gorm:"column:user_name;not null" json:"user_name"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	OrgID        *uuid.UUID     `gorm:"column:org_id;type:uuid" json:"org_id"`
	Role         string         `gorm:"column:role;not null;default:nurse" json:"role"`
	CareTypeID   *uuid.UUID     `gorm:"column:care_type_id;type:uuid" json:"care_type_id"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
