package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// tripInput is the writable part of a trip record. Values stay raw so every
// field can be checked and reported independently.
type tripInput struct {
	Name        json.RawMessage `json:"name"`
	StartDate   json.RawMessage `json:"start_date"`
	EndDate     json.RawMessage `json:"end_date"`
	GroupBudget json.RawMessage `json:"group_budget"`
}

// createTrip handles POST /trips.
// The trip code and creator are assigned by the server; the response carries
// the creator as the only participant.
func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	trip, err := readTrip(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.trips.Create(r.Context(), userID, trip)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToRecord(created))
}

// listTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := queryInt(r, "page")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	params := domain.NewPaginationParams(page, limit)

	trips, total, err := s.trips.List(r.Context(), userID, params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToRecord(t)
	}
	writeJSON(w, http.StatusOK, TripList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// getTrip handles GET /trips/{tripId}.
func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	trip, err := s.trips.Get(r.Context(), userID, tripID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToRecord(trip))
}

// updateTrip handles PUT /trips/{tripId}.
func (s *Server) updateTrip(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	trip, err := readTrip(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	trip.ID = tripID

	updated, err := s.trips.Update(r.Context(), userID, trip)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToRecord(updated))
}

// deleteTrip handles DELETE /trips/{tripId}.
func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.trips.Delete(r.Context(), userID, tripID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// tripScope returns the caller and the {tripId} path parameter.
func tripScope(r *http.Request) (userID, tripID uuid.UUID, err error) {
	if userID, err = requestUser(r); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if tripID, err = pathUUID(r, "tripId"); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, tripID, nil
}

// readTrip decodes a trip record from the body into a domain.Trip.
// Read-only keys (id, trip_code, created_by, participants, ...) are ignored.
// Returns a *domain.ValidationError naming every missing or malformed field.
func readTrip(r *http.Request) (domain.Trip, error) {
	var in tripInput
	if err := decodeBody(r, &in); err != nil {
		return domain.Trip{}, err
	}

	f := newFieldReader()
	trip := domain.Trip{
		Name:        f.requiredString("name", in.Name, domain.MaxTripNameLength),
		StartDate:   f.requiredDate("start_date", in.StartDate),
		EndDate:     f.requiredDate("end_date", in.EndDate),
		GroupBudget: f.requiredMoney("group_budget", in.GroupBudget),
	}
	if err := f.errs.Err(); err != nil {
		return domain.Trip{}, err
	}
	return trip, nil
}
