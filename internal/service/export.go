package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ExportService flattens a trip itinerary into rows for download.
type ExportService struct {
	trips *TripService
}

// NewExportService constructs an ExportService that reads through trips,
// so the same participant check applies to exports.
func NewExportService(trips *TripService) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per activity of tripID in itinerary order.
// A trip with no activities contributes one row with empty activity fields.
func (s *ExportService) Export(ctx context.Context, userID, tripID uuid.UUID) ([]domain.ExportRow, error) {
	trip, err := s.trips.Get(ctx, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	base := domain.ExportRow{
		TripID:        trip.ID.String(),
		TripName:      trip.Name,
		TripCode:      trip.TripCode,
		TripStartDate: trip.StartDate.Format(time.DateOnly),
		TripEndDate:   trip.EndDate.Format(time.DateOnly),
		GroupBudget:   trip.GroupBudget.String(),
	}
	if len(trip.Activities) == 0 {
		return []domain.ExportRow{base}, nil
	}

	rows := make([]domain.ExportRow, 0, len(trip.Activities))
	for _, a := range trip.Activities {
		row := base
		row.ActivityTitle = a.Title
		row.ActivityDate = a.Date.Format(time.DateOnly)
		if a.Time != nil {
			row.ActivityTime = *a.Time
		}
		row.Category = a.Category.Label()
		if a.EstimatedCost != nil {
			row.EstimatedCost = a.EstimatedCost.String()
		}
		if a.Notes != nil {
			row.Notes = *a.Notes
		}
		row.Upvotes = a.Upvotes()
		row.Downvotes = a.Downvotes()
		createdAt := a.CreatedAt
		row.CreatedAt = &createdAt
		rows = append(rows, row)
	}
	return rows, nil
}
