package models

import (
	"time"
)

// Placeholders applied when a stored order lacks display fields
const (
	UnknownWorkerName = "Unknown Worker"
	UnknownProfession = "Unknown Service"
	NotSet            = "Not set"
)

// Layouts of the user-chosen booking date and time
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Address is the structured service address of an order
type Address struct {
	Full string `gorm:"column:full" json:"full" bson:"full"`
}

// Order is one requested engagement between a user and a worker
type Order struct {
	ID          string      `gorm:"primaryKey;type:varchar(64)" json:"id" bson:"_id"`
	UserID      string      `gorm:"type:varchar(128);not null;index" json:"user_id" bson:"userId"`
	WorkerID    string      `gorm:"type:varchar(128);not null;index" json:"worker_id" bson:"workerId"`
	WorkerName  string      `json:"worker_name" bson:"workerName"`                                                // snapshot at booking time
	Profession  string      `json:"profession" bson:"profession"`                                                 // snapshot at booking time
	Description string      `gorm:"type:text;not null" json:"description" bson:"description"`
	Address     Address     `gorm:"embedded;embeddedPrefix:address_" json:"address" bson:"address"`
	Date        string      `gorm:"type:varchar(10);not null" json:"date" bson:"date"`                            // YYYY-MM-DD
	Time        string      `gorm:"type:varchar(5);not null" json:"time" bson:"time"`                             // HH:MM
	Status      OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status" bson:"status"`
	Reviewed    bool        `gorm:"not null;default:false" json:"reviewed" bson:"reviewed"`
	Rating      *int        `gorm:"check:rating BETWEEN 1 AND 5" json:"rating,omitempty" bson:"rating,omitempty"` // set only once completed
	Review      *string     `gorm:"type:text" json:"review,omitempty" bson:"review,omitempty"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at" bson:"createdAt"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ApplyReadDefaults fills display fields missing from a stored record.
// Stores call it once per decoded order.
func (o *Order) ApplyReadDefaults() {
	if o.WorkerName == "" {
		o.WorkerName = UnknownWorkerName
	}
	if o.Profession == "" {
		o.Profession = UnknownProfession
	}
	if o.Date == "" {
		o.Date = NotSet
	}
	if o.Time == "" {
		o.Time = NotSet
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
}

// IsRated reports whether a rating has been attached
func (o *Order) IsRated() bool {
	return o.Rating != nil && *o.Rating > 0
}

// CanBeRated reports whether the user may attach a rating now
func (o *Order) CanBeRated() bool {
	return o.Status == StatusCompleted && !o.IsRated()
}

// ScheduledDate parses Date. ok is false for placeholder or malformed dates.
func (o *Order) ScheduledDate() (t time.Time, ok bool) {
	t, err := time.Parse(DateLayout, o.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
