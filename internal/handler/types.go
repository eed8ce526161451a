package handler

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Trip is the wire record for a trip. Everything except name, dates and
// budget is read-only.
type Trip struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	StartDate    openapi_types.Date `json:"start_date"`
	EndDate      openapi_types.Date `json:"end_date"`
	GroupBudget  string             `json:"group_budget"`
	CreatedBy    uuid.UUID          `json:"created_by"`
	CreatedAt    time.Time          `json:"created_at"`
	TripCode     string             `json:"trip_code"`
	Participants []Participant      `json:"participants"`
	Activities   []Activity         `json:"activities"`
}

// Participant is the wire record for a trip participant. Username and email
// are taken from the related user.
type Participant struct {
	ID       uuid.UUID `json:"id"`
	User     uuid.UUID `json:"user"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

// Activity is the wire record for an activity. Upvotes and downvotes are
// computed from votes on every read.
type Activity struct {
	ID            uuid.UUID          `json:"id"`
	Trip          uuid.UUID          `json:"trip"`
	Title         string             `json:"title"`
	Date          openapi_types.Date `json:"date"`
	Time          *string            `json:"time"`
	Category      string             `json:"category"`
	EstimatedCost *string            `json:"estimated_cost"`
	Notes         *string            `json:"notes"`
	CreatedBy     uuid.UUID          `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	Votes         []Vote             `json:"votes"`
	Upvotes       int                `json:"upvotes"`
	Downvotes     int                `json:"downvotes"`
}

// Vote is the wire record for a vote as nested in an activity.
type Vote struct {
	ID      uuid.UUID `json:"id"`
	User    uuid.UUID `json:"user"`
	Vote    bool      `json:"vote"`
	VotedAt time.Time `json:"voted_at"`
}

// VoteValue is both the request and the response body of the vote endpoints.
// Only the vote itself crosses the wire there.
type VoteValue struct {
	Vote bool `json:"vote"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ---- domain to wire --------------------------------------------------------

func tripToRecord(t domain.Trip) Trip {
	rec := Trip{
		ID:           t.ID,
		Name:         t.Name,
		StartDate:    openapi_types.Date{Time: t.StartDate},
		EndDate:      openapi_types.Date{Time: t.EndDate},
		GroupBudget:  t.GroupBudget.String(),
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
		TripCode:     t.TripCode,
		Participants: make([]Participant, len(t.Participants)),
		Activities:   make([]Activity, len(t.Activities)),
	}
	for i, p := range t.Participants {
		rec.Participants[i] = participantToRecord(p)
	}
	for i, a := range t.Activities {
		rec.Activities[i] = activityToRecord(a)
	}
	return rec
}

func participantToRecord(p domain.Participant) Participant {
	return Participant{
		ID:       p.ID,
		User:     p.UserID,
		Username: p.Username,
		Email:    p.Email,
		JoinedAt: p.JoinedAt,
	}
}

func activityToRecord(a domain.Activity) Activity {
	rec := Activity{
		ID:        a.ID,
		Trip:      a.TripID,
		Title:     a.Title,
		Date:      openapi_types.Date{Time: a.Date},
		Time:      a.Time,
		Category:  string(a.Category),
		Notes:     a.Notes,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
		Votes:     make([]Vote, len(a.Votes)),
		Upvotes:   a.Upvotes(),
		Downvotes: a.Downvotes(),
	}
	if a.EstimatedCost != nil {
		cost := a.EstimatedCost.String()
		rec.EstimatedCost = &cost
	}
	for i, v := range a.Votes {
		rec.Votes[i] = voteToRecord(v)
	}
	return rec
}

func voteToRecord(v domain.Vote) Vote {
	return Vote{
		ID:      v.ID,
		User:    v.UserID,
		Vote:    v.Vote,
		VotedAt: v.VotedAt,
	}
}
