package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CareType is a department/care line (e.g. injections, wound care).
type CareType struct {
	CareTypeID uuid.UUID      `gorm:"column:care_type_id;type:uuid;primaryKey" json:"care_type_id"`
	OrgID      uuid.UUID      `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	Name       string         `gorm:"column:name;not null" json:"name"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CareType) TableName() string {
	return "CareTypes"
}

func (ct *CareType) BeforeCreate(tx *gorm.DB) error {
	if ct.CareTypeID == uuid.Nil {
		ct.CareTypeID = uuid.New()
	}
	return nil
}
