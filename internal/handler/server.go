// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies.
//
// The mapping between wire records and domain values lives next to each
// resource's handlers; types.go holds the wire records themselves.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, creatorID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Get(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, userID, tripID uuid.UUID) error
}

// ParticipantServicer defines the membership operations.
type ParticipantServicer interface {
	Join(ctx context.Context, userID uuid.UUID, code string) (domain.Trip, error)
	Invite(ctx context.Context, inviterID, tripID uuid.UUID, email string) (domain.Participant, error)
	Add(ctx context.Context, actorID, tripID, newUserID uuid.UUID) (domain.Participant, error)
	List(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Participant, error)
}

// ActivityServicer defines the activity and vote operations.
type ActivityServicer interface {
	Create(ctx context.Context, userID uuid.UUID, a domain.Activity) (domain.Activity, error)
	Get(ctx context.Context, userID, tripID, activityID uuid.UUID) (domain.Activity, error)
	List(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Activity, error)
	Update(ctx context.Context, userID uuid.UUID, a domain.Activity, set domain.ActivityFields) (domain.Activity, error)
	Delete(ctx context.Context, userID, tripID, activityID uuid.UUID) error
	Vote(ctx context.Context, userID, tripID, activityID uuid.UUID, vote bool) (domain.Vote, error)
	UpdateVote(ctx context.Context, userID, tripID, activityID, voteID uuid.UUID, vote bool) (domain.Vote, error)
}

// ExportServicer defines the export operation.
type ExportServicer interface {
	Export(ctx context.Context, userID, tripID uuid.UUID) ([]domain.ExportRow, error)
}

// Pinger reports whether a backing store is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything a Server needs. Services a test does not
// exercise may be left nil.
type Deps struct {
	Trips        TripServicer
	Participants ParticipantServicer
	Activities   ActivityServicer
	Export       ExportServicer

	// DB is pinged by /readyz. Nil means always ready.
	DB Pinger

	// Auth guards every /trips route. It must put the caller's id in the
	// request context via middleware.WithUserID.
	Auth func(http.Handler) http.Handler

	// OpenAPI is served verbatim at /openapi.yaml.
	OpenAPI []byte

	// Logger receives unexpected errors. Defaults to slog.Default().
	Logger *slog.Logger
}

// Server holds the handler dependencies.
type Server struct {
	trips        TripServicer
	participants ParticipantServicer
	activities   ActivityServicer
	export       ExportServicer
	db           Pinger
	auth         func(http.Handler) http.Handler
	openAPI      []byte
	log          *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		trips:        d.Trips,
		participants: d.Participants,
		activities:   d.Activities,
		export:       d.Export,
		db:           d.DB,
		auth:         d.Auth,
		openAPI:      d.OpenAPI,
		log:          log,
	}
}

// Routes returns the API router. Cross-cutting middleware (request IDs,
// logging, CORS, body limits) is applied by the caller around it.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "Not found.", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed,
			errorBody("method_not_allowed", "Method \""+r.Method+"\" not allowed.", nil))
	})

	r.Get("/healthz", s.getHealth)
	r.Get("/readyz", s.getReady)
	r.Get("/openapi.yaml", s.getOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		if s.auth != nil {
			r.Use(s.auth)
		}
		r.Get("/", s.listTrips)
		r.Post("/", s.createTrip)
		r.Post("/join", s.joinTrip)

		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", s.getTrip)
			r.Put("/", s.updateTrip)
			r.Delete("/", s.deleteTrip)

			r.Post("/invite", s.inviteToTrip)
			r.Get("/participants", s.listParticipants)
			r.Post("/participants", s.addParticipant)
			r.Get("/export", s.exportTrip)

			r.Route("/activities", func(r chi.Router) {
				r.Get("/", s.listActivities)
				r.Post("/", s.createActivity)

				r.Route("/{activityId}", func(r chi.Router) {
					r.Get("/", s.getActivity)
					r.Put("/", s.updateActivity)
					r.Delete("/", s.deleteActivity)
					r.Post("/vote", s.voteActivity)
					r.Put("/votes/{voteId}", s.updateVote)
				})
			})
		})
	})
	return r
}
