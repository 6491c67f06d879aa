package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Org is the tenant boundary. All domain rows carry an org_id and every
// store call takes the org id explicitly.
type Org struct {
	OrgID     uuid.UUID      `gorm:"column:org_id;type:uuid;primaryKey" json:"org_id"`
	OrgName   string         `gorm:"column:org_name;not null" json:"org_name"`
	OrgCode   string         `gorm:"column:org_code;not null;uniqueIndex" json:"org_code"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Org) TableName() string {
	return "Orgs"
}

func (o *Org) BeforeCreate(tx *gorm.DB) error {
	if o.OrgID == uuid.Nil {
		o.OrgID = uuid.New()
	}
	return nil
}
