package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/service"
)

func TestJoinTrip_200_ReturnsFullTrip(t *testing.T) {
	user := uuid.New()
	trip := tripFixture(uuid.New())
	trip.Participants = append(trip.Participants, domain.Participant{ID: uuid.New(), TripID: trip.ID, UserID: user})

	var gotCode string
	participants := &mockParticipantServicer{
		join: func(_ context.Context, userID uuid.UUID, code string) (domain.Trip, error) {
			gotCode = code
			return domain.Trip{ID: trip.ID}, nil
		},
	}
	trips := &mockTripServicer{
		get: func(_ context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
			assert.Equal(t, user, userID)
			assert.Equal(t, trip.ID, tripID)
			return trip, nil
		},
	}
	h := newHTTPHandler(user, handler.Deps{Trips: trips, Participants: participants})

	rec := do(h, http.MethodPost, "/trips/join", jsonBody(t, map[string]string{"trip_code": "k3q9za"}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "k3q9za", gotCode, "normalization belongs to the service")

	var resp handler.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, trip.ID, resp.ID)
	assert.Len(t, resp.Participants, 2)
}

func TestJoinTrip_422_MissingCode(t *testing.T) {
	h := newHTTPHandler(uuid.New(), handler.Deps{Participants: &mockParticipantServicer{}})

	rec := do(h, http.MethodPost, "/trips/join", strings.NewReader(`{}`))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"This field is required."}, decodeError(t, rec).Fields["trip_code"])
}

func TestJoinTrip_404_UnknownCode(t *testing.T) {
	participants := &mockParticipantServicer{
		join: func(_ context.Context, _ uuid.UUID, _ string) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	h := newHTTPHandler(uuid.New(), handler.Deps{Participants: participants})

	rec := do(h, http.MethodPost, "/trips/join", jsonBody(t, map[string]string{"trip_code": "ZZZZZZ"}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvite_201(t *testing.T) {
	inviter, invitee := uuid.New(), uuid.New()
	tripID := uuid.New()
	var gotEmail string
	participants := &mockParticipantServicer{
		invite: func(_ context.Context, inviterID, id uuid.UUID, email string) (domain.Participant, error) {
			assert.Equal(t, inviter, inviterID)
			assert.Equal(t, tripID, id)
			gotEmail = email
			return domain.Participant{ID: uuid.New(), TripID: id, UserID: invitee, Username: "bob", Email: email}, nil
		},
	}
	h := newHTTPHandler(inviter, handler.Deps{Participants: participants})

	rec := do(h, http.MethodPost, "/trips/"+tripID.String()+"/invite",
		jsonBody(t, map[string]string{"email": " bob@example.com "}))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "bob@example.com", gotEmail)

	var resp handler.Participant
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, invitee, resp.User)
	assert.Equal(t, "bob", resp.Username)
}

func TestInvite_422_UnknownEmail(t *testing.T) {
	participants := &mockParticipantServicer{
		invite: func(_ context.Context, _, _ uuid.UUID, _ string) (domain.Participant, error) {
			return domain.Participant{}, domain.FieldError("email", service.MsgInviteUnknownEmail)
		},
	}
	h := newHTTPHandler(uuid.New(), handler.Deps{Participants: participants})

	rec := do(h, http.MethodPost, "/trips/"+uuid.NewString()+"/invite",
		jsonBody(t, map[string]string{"email": "nobody@example.com"}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"User with this email does not exist."}, decodeError(t, rec).Fields["email"])
}

func TestInvite_422_MalformedEmail(t *testing.T) {
	called := false
	participants := &mockParticipantServicer{
		invite: func(_ context.Context, _, _ uuid.UUID, _ string) (domain.Participant, error) {
			called = true
			return domain.Participant{}, nil
		},
	}
	h := newHTTPHandler(uuid.New(), handler.Deps{Participants: participants})

	rec := do(h, http.MethodPost, "/trips/"+uuid.NewString()+"/invite",
		jsonBody(t, map[string]string{"email": "not-an-email"}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"Enter a valid email address."}, decodeError(t, rec).Fields["email"])
	assert.False(t, called)
}

func TestInvite_403_NotParticipant(t *testing.T) {
	participants := &mockParticipantServicer{
		invite: func(_ context.Context, _, _ uuid.UUID, _ string) (domain.Participant, error) {
			return domain.Participant{}, domain.ErrForbidden
		},
	}
	h := newHTTPHandler(uuid.New(), handler.Deps{Participants: participants})

	rec := do(h, http.MethodPost, "/trips/"+uuid.NewString()+"/invite",
		jsonBody(t, map[string]string{"email": "bob@example.com"}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListParticipants_200(t *testing.T) {
	tripID := uuid.New()
	participants := &mockParticipantServicer{
		list: func(_ context.Context, _, id uuid.UUID) ([]domain.Participant, error) {
			return []domain.Participant{
				{ID: uuid.New(), TripID: id, UserID: uuid.New(), Username: "alice"},
				{ID: uuid.New(), TripID: id, UserID: uuid.New(), Username: "bob"},
			}, nil
		},
	}
	h := newHTTPHandler(uuid.New(), handler.Deps{Participants: participants})

	rec := do(h, http.MethodGet, "/trips/"+tripID.String()+"/participants", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []handler.Participant
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "alice", resp[0].Username)
}

func TestAddParticipant_201(t *testing.T) {
	newUser := uuid.New()
	participants := &mockParticipantServicer{
		add: func(_ context.Context, _, tripID, userID uuid.UUID) (domain.Participant, error) {
			return domain.Participant{ID: uuid.New(), TripID: tripID, UserID: userID}, nil
		},
	}
	h := newHTTPHandler(uuid.New(), handler.Deps{Participants: participants})

	rec := do(h, http.MethodPost, "/trips/"+uuid.NewString()+"/participants",
		jsonBody(t, map[string]string{"user": newUser.String()}))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp handler.Participant
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, newUser, resp.User)
}

func TestAddParticipant_422_BadUser(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing", `{}`, "This field is required."},
		{"wrong type", `{"user": 42}`, "Incorrect type. Expected pk value, received int."},
		{"not a uuid", `{"user": "abc"}`, `"abc" is not a valid UUID.`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHTTPHandler(uuid.New(), handler.Deps{Participants: &mockParticipantServicer{}})

			rec := do(h, http.MethodPost, "/trips/"+uuid.NewString()+"/participants", strings.NewReader(tc.body))

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, []string{tc.want}, decodeError(t, rec).Fields["user"])
		})
	}
}

func TestAddParticipant_422_UnknownUser(t *testing.T) {
	missing := uuid.New()
	participants := &mockParticipantServicer{
		add: func(_ context.Context, _, _, userID uuid.UUID) (domain.Participant, error) {
			return domain.Participant{}, domain.FieldError("user", service.InvalidPKMessage(userID.String()))
		},
	}
	h := newHTTPHandler(uuid.New(), handler.Deps{Participants: participants})

	rec := do(h, http.MethodPost, "/trips/"+uuid.NewString()+"/participants",
		jsonBody(t, map[string]string{"user": missing.String()}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{`Invalid pk "` + missing.String() + `" - object does not exist.`}, decodeError(t, rec).Fields["user"])
}
