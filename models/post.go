package models

import (
	"time"
)

// Post is an image with a caption published on a worker's profile
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id" bson:"_id"`
	WorkerID  string    `gorm:"type:varchar(128);not null;index" json:"worker_id" bson:"workerId"`
	ImageKey  string    `gorm:"not null" json:"image_key" bson:"imageKey"`
	ImageURL  *string   `gorm:"-" json:"image_url,omitempty" bson:"-"`
	Caption   string    `gorm:"type:text;not null" json:"caption" bson:"caption"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at" bson:"createdAt"`
}

// TableName specifies the table name for the Post model
func (Post) TableName() string {
	return "posts"
}

// Review is feedback shown on a worker's profile
type Review struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id" bson:"_id"`
	WorkerID  string    `gorm:"type:varchar(128);not null;index" json:"worker_id" bson:"workerId"`
	UserID    string    `gorm:"type:varchar(128)" json:"user_id" bson:"userId"`
	UserName  string    `json:"user_name" bson:"userName"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `gorm:"type:text" json:"comment" bson:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at" bson:"createdAt"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "worker_reviews"
}
