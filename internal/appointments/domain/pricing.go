package domain

import "time"

// LineItem is a priced, quantified binding of one catalog service to an
// appointment. PriceCents is a snapshot taken when the service is attached;
// later catalog price changes never alter it.
type LineItem struct {
	ServiceID       string
	Quantity        int
	PriceCents      int64
	DurationMinutes int
}

// Duration returns the total work duration of the line items:
// the sum of service duration times quantity.
func Duration(items []LineItem) time.Duration {
	var minutes int
	for _, item := range items {
		minutes += item.DurationMinutes * item.Quantity
	}
	return time.Duration(minutes) * time.Minute
}

// EstimatedEnd returns the projected end time of an appointment starting
// at the given time with the given line items.
func EstimatedEnd(scheduledAt time.Time, items []LineItem) time.Time {
	return scheduledAt.Add(Duration(items))
}

// Total returns the appointment total in minor currency units:
// the sum of snapshot price times quantity.
func Total(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.PriceCents * int64(item.Quantity)
	}
	return total
}

// Overdue reports whether an appointment is still only scheduled while its
// start time has passed. It is observational; nothing transitions an
// appointment automatically.
func Overdue(status Status, scheduledAt, now time.Time) bool {
	return status == StatusScheduled && scheduledAt.Before(now)
}
