package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxActivityTitleLength is the longest activity title accepted.
const MaxActivityTitleLength = 200

// Category classifies an activity. The two-letter codes are part of the wire format.
type Category string

const (
	CategoryAdventure   Category = "AD"
	CategoryFood        Category = "FD"
	CategorySightseeing Category = "ST"
	CategoryOther       Category = "OT"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryAdventure, CategoryFood, CategorySightseeing, CategoryOther}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Label returns the human-readable name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryAdventure:
		return "Adventure"
	case CategoryFood:
		return "Food"
	case CategorySightseeing:
		return "Sightseeing"
	case CategoryOther:
		return "Other"
	}
	return string(c)
}

// ActivityFields records which optional activity fields a request carried,
// including ones sent as null. On update, a field outside the set keeps its
// stored value.
type ActivityFields uint8

const (
	ActivityTime ActivityFields = 1 << iota
	ActivityCategory
	ActivityEstimatedCost
	ActivityNotes
)

// Has reports whether field is in f.
func (f ActivityFields) Has(field ActivityFields) bool { return f&field != 0 }

// Activity is a proposed trip event that participants vote on.
//
// Time is a wall-clock time of day ("15:04:05") or nil when unscheduled.
// EstimatedCost and Notes are optional.
// Votes is populated by the service layer when the activity is read for output.
type Activity struct {
	ID            uuid.UUID
	TripID        uuid.UUID
	Title         string
	Date          time.Time
	Time          *string
	Category      Category
	EstimatedCost *Money
	Notes         *string
	CreatedBy     uuid.UUID
	CreatedAt     time.Time

	Votes []Vote
}

// Upvotes counts the loaded votes with Vote == true.
func (a Activity) Upvotes() int {
	n := 0
	for _, v := range a.Votes {
		if v.Vote {
			n++
		}
	}
	return n
}

// Downvotes counts the loaded votes with Vote == false.
func (a Activity) Downvotes() int {
	return len(a.Votes) - a.Upvotes()
}

// ClockLayout is the canonical layout for Activity.Time.
const ClockLayout = "15:04:05"

// ParseClock accepts "HH:MM" or "HH:MM:SS" and returns the canonical "HH:MM:SS" form.
func ParseClock(s string) (string, error) {
	for _, layout := range []string{ClockLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ClockLayout), nil
		}
	}
	return "", ErrValidation
}
