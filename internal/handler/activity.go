package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// activityInput is the writable part of an activity record.
type activityInput struct {
	Title         json.RawMessage `json:"title"`
	Date          json.RawMessage `json:"date"`
	Time          json.RawMessage `json:"time"`
	Category      json.RawMessage `json:"category"`
	EstimatedCost json.RawMessage `json:"estimated_cost"`
	Notes         json.RawMessage `json:"notes"`
}

// listActivities handles GET /trips/{tripId}/activities.
func (s *Server) listActivities(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	as, err := s.activities.List(r.Context(), userID, tripID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]Activity, len(as))
	for i, a := range as {
		out[i] = activityToRecord(a)
	}
	writeJSON(w, http.StatusOK, out)
}

// createActivity handles POST /trips/{tripId}/activities.
// The trip comes from the path; a "trip" key in the body is ignored.
func (s *Server) createActivity(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a, _, err := readActivity(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a.TripID = tripID

	created, err := s.activities.Create(r.Context(), userID, a)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, activityToRecord(created))
}

// getActivity handles GET /trips/{tripId}/activities/{activityId}.
func (s *Server) getActivity(w http.ResponseWriter, r *http.Request) {
	userID, tripID, activityID, err := activityScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := s.activities.Get(r.Context(), userID, tripID, activityID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activityToRecord(a))
}

// updateActivity handles PUT /trips/{tripId}/activities/{activityId}.
// Title and date are required; optional fields left out of the body keep
// their stored values.
func (s *Server) updateActivity(w http.ResponseWriter, r *http.Request) {
	userID, tripID, activityID, err := activityScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a, set, err := readActivity(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a.ID = activityID
	a.TripID = tripID

	updated, err := s.activities.Update(r.Context(), userID, a, set)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activityToRecord(updated))
}

// deleteActivity handles DELETE /trips/{tripId}/activities/{activityId}.
func (s *Server) deleteActivity(w http.ResponseWriter, r *http.Request) {
	userID, tripID, activityID, err := activityScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.activities.Delete(r.Context(), userID, tripID, activityID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// activityScope returns the caller and the {tripId} and {activityId} path parameters.
func activityScope(r *http.Request) (userID, tripID, activityID uuid.UUID, err error) {
	if userID, tripID, err = tripScope(r); err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	if activityID, err = pathUUID(r, "activityId"); err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	return userID, tripID, activityID, nil
}

// readActivity decodes an activity record from the body into a domain.Activity
// and reports which optional fields the body carried.
// Read-only keys (id, trip, created_by, votes, upvotes, ...) are ignored.
func readActivity(r *http.Request) (domain.Activity, domain.ActivityFields, error) {
	var in activityInput
	if err := decodeBody(r, &in); err != nil {
		return domain.Activity{}, 0, err
	}

	f := newFieldReader()
	a := domain.Activity{
		Title:         f.requiredString("title", in.Title, domain.MaxActivityTitleLength),
		Date:          f.requiredDate("date", in.Date),
		Time:          f.optionalClock("time", in.Time),
		Category:      readCategory(f, in.Category),
		EstimatedCost: f.optionalMoney("estimated_cost", in.EstimatedCost),
		Notes:         f.optionalString("notes", in.Notes),
	}
	if err := f.errs.Err(); err != nil {
		return domain.Activity{}, 0, err
	}
	return a, in.fields(), nil
}

// fields reports which optional keys were present, null included.
func (in activityInput) fields() domain.ActivityFields {
	var set domain.ActivityFields
	if len(in.Time) > 0 {
		set |= domain.ActivityTime
	}
	if len(in.Category) > 0 {
		set |= domain.ActivityCategory
	}
	if len(in.EstimatedCost) > 0 {
		set |= domain.ActivityEstimatedCost
	}
	if len(in.Notes) > 0 {
		set |= domain.ActivityNotes
	}
	return set
}

// readCategory accepts one of the category codes. Absent means the default
// on create and the stored value on update, which the service fills in.
// Category is not nullable.
func readCategory(f fieldReader, raw json.RawMessage) domain.Category {
	if len(raw) == 0 {
		return ""
	}
	if isNull(raw) {
		f.errs.Add("category", msgNull)
		return ""
	}
	s, ok := f.str("category", raw)
	if !ok {
		return ""
	}
	c := domain.Category(strings.TrimSpace(s))
	if !c.Valid() {
		f.errs.Add("category", fmt.Sprintf("%q is not a valid choice.", s))
		return ""
	}
	return c
}
