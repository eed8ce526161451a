package handler

import (
	"encoding/json"
	"net/http"
)

// joinTrip handles POST /trips/join with body {"trip_code": "..."}.
// Responds with the joined trip in full.
func (s *Server) joinTrip(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in struct {
		TripCode json.RawMessage `json:"trip_code"`
	}
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	f := newFieldReader()
	code := f.requiredString("trip_code", in.TripCode, 0)
	if err := f.errs.Err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	joined, err := s.participants.Join(r.Context(), userID, code)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	trip, err := s.trips.Get(r.Context(), userID, joined.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToRecord(trip))
}

// inviteToTrip handles POST /trips/{tripId}/invite with body {"email": "..."}.
// The email must be well formed and belong to an existing user.
func (s *Server) inviteToTrip(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in struct {
		Email json.RawMessage `json:"email"`
	}
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	f := newFieldReader()
	email := f.requiredEmail("email", in.Email)
	if err := f.errs.Err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.participants.Invite(r.Context(), userID, tripID, email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, participantToRecord(p))
}

// listParticipants handles GET /trips/{tripId}/participants.
func (s *Server) listParticipants(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ps, err := s.participants.List(r.Context(), userID, tripID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]Participant, len(ps))
	for i, p := range ps {
		out[i] = participantToRecord(p)
	}
	writeJSON(w, http.StatusOK, out)
}

// addParticipant handles POST /trips/{tripId}/participants with body {"user": "<uuid>"}.
func (s *Server) addParticipant(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in struct {
		User json.RawMessage `json:"user"`
	}
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	f := newFieldReader()
	newUserID := f.requiredPK("user", in.User)
	if err := f.errs.Err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.participants.Add(r.Context(), userID, tripID, newUserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, participantToRecord(p))
}
