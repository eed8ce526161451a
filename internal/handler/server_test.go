package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/middleware"
)

// ---- mock servicers --------------------------------------------------------
// Each method is a function field; set only the ones your test needs.

type mockTripServicer struct {
	create func(ctx context.Context, creatorID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	get    func(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	list   func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update func(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	delete func(ctx context.Context, userID, tripID uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, creatorID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, creatorID, trip)
}
func (m *mockTripServicer) Get(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return m.get(ctx, userID, tripID)
}
func (m *mockTripServicer) List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.list(ctx, userID, p)
}
func (m *mockTripServicer) Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, userID, trip)
}
func (m *mockTripServicer) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	return m.delete(ctx, userID, tripID)
}

type mockParticipantServicer struct {
	join   func(ctx context.Context, userID uuid.UUID, code string) (domain.Trip, error)
	invite func(ctx context.Context, inviterID, tripID uuid.UUID, email string) (domain.Participant, error)
	add    func(ctx context.Context, actorID, tripID, newUserID uuid.UUID) (domain.Participant, error)
	list   func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Participant, error)
}

func (m *mockParticipantServicer) Join(ctx context.Context, userID uuid.UUID, code string) (domain.Trip, error) {
	return m.join(ctx, userID, code)
}
func (m *mockParticipantServicer) Invite(ctx context.Context, inviterID, tripID uuid.UUID, email string) (domain.Participant, error) {
	return m.invite(ctx, inviterID, tripID, email)
}
func (m *mockParticipantServicer) Add(ctx context.Context, actorID, tripID, newUserID uuid.UUID) (domain.Participant, error) {
	return m.add(ctx, actorID, tripID, newUserID)
}
func (m *mockParticipantServicer) List(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Participant, error) {
	return m.list(ctx, userID, tripID)
}

type mockActivityServicer struct {
	create     func(ctx context.Context, userID uuid.UUID, a domain.Activity) (domain.Activity, error)
	get        func(ctx context.Context, userID, tripID, activityID uuid.UUID) (domain.Activity, error)
	list       func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Activity, error)
	update     func(ctx context.Context, userID uuid.UUID, a domain.Activity, set domain.ActivityFields) (domain.Activity, error)
	delete     func(ctx context.Context, userID, tripID, activityID uuid.UUID) error
	vote       func(ctx context.Context, userID, tripID, activityID uuid.UUID, vote bool) (domain.Vote, error)
	updateVote func(ctx context.Context, userID, tripID, activityID, voteID uuid.UUID, vote bool) (domain.Vote, error)
}

func (m *mockActivityServicer) Create(ctx context.Context, userID uuid.UUID, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, userID, a)
}
func (m *mockActivityServicer) Get(ctx context.Context, userID, tripID, activityID uuid.UUID) (domain.Activity, error) {
	return m.get(ctx, userID, tripID, activityID)
}
func (m *mockActivityServicer) List(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.list(ctx, userID, tripID)
}
func (m *mockActivityServicer) Update(ctx context.Context, userID uuid.UUID, a domain.Activity, set domain.ActivityFields) (domain.Activity, error) {
	return m.update(ctx, userID, a, set)
}
func (m *mockActivityServicer) Delete(ctx context.Context, userID, tripID, activityID uuid.UUID) error {
	return m.delete(ctx, userID, tripID, activityID)
}
func (m *mockActivityServicer) Vote(ctx context.Context, userID, tripID, activityID uuid.UUID, vote bool) (domain.Vote, error) {
	return m.vote(ctx, userID, tripID, activityID, vote)
}
func (m *mockActivityServicer) UpdateVote(ctx context.Context, userID, tripID, activityID, voteID uuid.UUID, vote bool) (domain.Vote, error) {
	return m.updateVote(ctx, userID, tripID, activityID, voteID, vote)
}

type mockExportServicer struct {
	export func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, userID, tripID uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, userID, tripID)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.TripServicer        = (*mockTripServicer)(nil)
	_ handler.ParticipantServicer = (*mockParticipantServicer)(nil)
	_ handler.ActivityServicer    = (*mockActivityServicer)(nil)
	_ handler.ExportServicer      = (*mockExportServicer)(nil)
	_ handler.Pinger              = pingerFunc(nil)
)

// ---- helpers ---------------------------------------------------------------

// asUser is an Auth middleware that authenticates every request as id,
// standing in for the JWT middleware wired in main.go.
func asUser(id uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), id)))
		})
	}
}

// newHTTPHandler wires a Server authenticated as user into the chi router,
// mirroring how main.go mounts it. Unset deps stay nil.
func newHTTPHandler(user uuid.UUID, d handler.Deps) http.Handler {
	d.Auth = asUser(user)
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return handler.NewServer(d).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// do sends method/path with body (nil for none) and returns the recorder.
func do(h http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeError parses an ErrorResponse body.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}
