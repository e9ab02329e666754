package models

import (
	"time"
)

// WorkerStatus is the availability a worker advertises
type WorkerStatus string

const (
	WorkerAvailable WorkerStatus = "available"
	WorkerActive    WorkerStatus = "active"
	WorkerOther     WorkerStatus = "other"
)

// IsValid reports whether s is a known availability
func (s WorkerStatus) IsValid() bool {
	switch s {
	case WorkerAvailable, WorkerActive, WorkerOther:
		return true
	}
	return false
}

// Worker is a service-providing account, keyed by its identity token
type Worker struct {
	ID              string       `gorm:"primaryKey;type:varchar(128)" json:"id" bson:"_id"` // Auth0 subject
	Name            string       `gorm:"not null" json:"name" bson:"name"`
	Email           string       `gorm:"uniqueIndex;not null" json:"email" bson:"email"`
	MobileNumber    string       `json:"mobile_number" bson:"mobileNumber"`
	Profession      string       `gorm:"index" json:"profession" bson:"profession"`
	Experience      string       `json:"experience" bson:"experience"`
	Rating          float64      `gorm:"not null;default:0;index" json:"rating" bson:"rating"` // running average, maintained elsewhere
	Status          WorkerStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status" bson:"status"`
	TotalJobs       int          `gorm:"not null;default:0" json:"total_jobs" bson:"totalJobs"`
	ProfileImageKey *string      `json:"profile_image_key,omitempty" bson:"profileImage,omitempty"`
	ProfileImageURL *string      `gorm:"-" json:"profile_image_url,omitempty" bson:"-"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"created_at" bson:"createdAt"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updated_at" bson:"updatedAt"`
}

// TableName specifies the table name for the Worker model
func (Worker) TableName() string {
	return "workers"
}

// ApplyReadDefaults fills fields a stored worker may lack
func (w *Worker) ApplyReadDefaults() {
	if w.Status == "" {
		w.Status = WorkerAvailable
	}
}
