package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient is a registered patient within one organization.
type Patient struct {
	PatientID   uuid.UUID      `gorm:"column:patient_id;type:uuid;primaryKey" json:"patient_id"`
	OrgID       uuid.UUID      `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	Fullname    string         `gorm:"column:fullname;not null" json:"fullname"`
	DateOfBirth *time.Time     `gorm:"column:date_of_birth;type:date" json:"date_of_birth"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Patient) TableName() string {
	return "Patients"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.PatientID == uuid.Nil {
		p.PatientID = uuid.New()
	}
	return nil
}
