package handler

import (
	"encoding/json"
	"net/http"
)

// voteActivity handles POST /trips/{tripId}/activities/{activityId}/vote.
// Body and response carry only {"vote": bool}; the voter is the caller and
// any other keys are ignored. Voting again replaces the caller's earlier vote.
func (s *Server) voteActivity(w http.ResponseWriter, r *http.Request) {
	userID, tripID, activityID, err := activityScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	vote, err := readVote(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	v, err := s.activities.Vote(r.Context(), userID, tripID, activityID, vote)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, VoteValue{Vote: v.Vote})
}

// updateVote handles PUT /trips/{tripId}/activities/{activityId}/votes/{voteId}.
// Only the vote's owner may change it. Body and response carry only {"vote": bool}.
func (s *Server) updateVote(w http.ResponseWriter, r *http.Request) {
	userID, tripID, activityID, err := activityScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	voteID, err := pathUUID(r, "voteId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	vote, err := readVote(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	v, err := s.activities.UpdateVote(r.Context(), userID, tripID, activityID, voteID, vote)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, VoteValue{Vote: v.Vote})
}

// readVote decodes the vote submission, which has exactly one writable field.
func readVote(r *http.Request) (bool, error) {
	var in struct {
		Vote json.RawMessage `json:"vote"`
	}
	if err := decodeBody(r, &in); err != nil {
		return false, err
	}
	f := newFieldReader()
	vote := f.requiredBool("vote", in.Vote)
	return vote, f.errs.Err()
}
