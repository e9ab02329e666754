package services

import (
	"time"

	"github.com/workhub-app/workhub-api/models"
)

// dateAfter orders by scheduled date, newest first. Orders whose date does
// not parse come after every dated order and keep their relative order.
func dateAfter(a, b *models.Order) bool {
	da, okA := a.ScheduledDate()
	db, okB := b.ScheduledDate()
	switch {
	case okA && okB:
		return da.After(db)
	case okA:
		return true
	default:
		return false
	}
}

// pendingFirst puts pending orders ahead of all others, then newest date first
func pendingFirst(a, b *models.Order) bool {
	pa, pb := a.Status == models.StatusPending, b.Status == models.StatusPending
	if pa != pb {
		return pa
	}
	return dateAfter(a, b)
}

// earliestZoneOffset is the offset of the westernmost time zone, UTC-12
const earliestZoneOffset = -12 * time.Hour

// earliestBookableDate is the oldest calendar date that is still today in
// some time zone. A booking for the user's local today is never older.
func earliestBookableDate(now time.Time) string {
	return now.UTC().Add(earliestZoneOffset).Format(models.DateLayout)
}
