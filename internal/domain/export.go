package domain

import "time"

// ExportRow is a single row in a trip itinerary export.
// It is a flat, denormalized view: one row per activity, with trip fields
// repeated for every activity. A trip with no activities yields one row with
// zero values for all activity fields.
type ExportRow struct {
	// Trip fields, repeated for every activity on the trip.
	TripID        string
	TripName      string
	TripCode      string
	TripStartDate string // "2006-01-02" formatted date
	TripEndDate   string
	GroupBudget   string

	// Activity fields, zero values when the trip has no activities.
	ActivityTitle string
	ActivityDate  string // empty when the trip has no activities
	ActivityTime  string
	Category      string
	EstimatedCost string
	Notes         string
	Upvotes       int
	Downvotes     int

	// CreatedAt is the activity creation time; nil for the placeholder row.
	CreatedAt *time.Time
}
