package services

import (
	"time"

	"celenk/internal/models"
)

const dateLayout = "2006-01-02"

// CheckOrderDate applies the blocked-order-date rule. A delivery date
// strictly after today is always accepted, even inside a blocked range.
// Otherwise (no date, today, or a past date) the order is refused while
// today falls inside any range; ranges are inclusive on both ends.
func CheckOrderDate(ranges []models.BlockedDateRange, deliveryDate string, now time.Time) error {
	today := now.Format(dateLayout)
	if deliveryDate != "" && deliveryDate > today {
		return nil
	}
	for _, r := range ranges {
		if r.StartDate <= today && today <= r.EndDate {
			return &BlockedDateError{Message: r.Message}
		}
	}
	return nil
}
