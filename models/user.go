package models

import (
	"time"
)

// User is a service-seeking account, keyed by its identity token
type User struct {
	ID              string    `gorm:"primaryKey;type:varchar(128)" json:"id" bson:"_id"` // Auth0 subject
	Name            string    `gorm:"not null" json:"name" bson:"name"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email" bson:"email"`
	MobileNo        string    `json:"mobile_no" bson:"mobileNo"`
	Address         string    `json:"address" bson:"address"`
	ProfileImageKey *string   `json:"profile_image_key,omitempty" bson:"profileImage,omitempty"`
	ProfileImageURL *string   `gorm:"-" json:"profile_image_url,omitempty" bson:"-"` // presigned, never stored
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at" bson:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at" bson:"updatedAt"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// Contact is the part of a user shown to a worker next to an order
type Contact struct {
	Name     string `json:"name"`
	MobileNo string `json:"mobile_no"`
}

// Placeholders for orders whose user record cannot be read
const (
	UnknownUserName = "Unknown User"
	NoContact       = "No contact"
)

// ContactOf returns the display contact for u, falling back to placeholders
// when u is nil or its fields are blank.
func ContactOf(u *User) Contact {
	c := Contact{Name: UnknownUserName, MobileNo: NoContact}
	if u == nil {
		return c
	}
	if u.Name != "" {
		c.Name = u.Name
	}
	if u.MobileNo != "" {
		c.MobileNo = u.MobileNo
	}
	return c
}
