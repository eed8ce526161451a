// export.go implements GET /trips/{tripId}/export.
// Returns the trip itinerary as a flat table, one row per activity.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).

package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "trip_code", "trip_start_date", "trip_end_date", "group_budget",
	"activity_title", "activity_date", "activity_time", "category", "estimated_cost",
	"notes", "upvotes", "downvotes", "created_at",
}

// ExportRow is the JSON form of one itinerary row. Activity fields are
// omitted on the placeholder row of a trip with no activities.
type ExportRow struct {
	TripID        string     `json:"trip_id"`
	TripName      string     `json:"trip_name"`
	TripCode      string     `json:"trip_code"`
	TripStartDate string     `json:"trip_start_date"`
	TripEndDate   string     `json:"trip_end_date"`
	GroupBudget   string     `json:"group_budget"`
	ActivityTitle *string    `json:"activity_title,omitempty"`
	ActivityDate  *string    `json:"activity_date,omitempty"`
	ActivityTime  *string    `json:"activity_time,omitempty"`
	Category      *string    `json:"category,omitempty"`
	EstimatedCost *string    `json:"estimated_cost,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	Upvotes       int        `json:"upvotes"`
	Downvotes     int        `json:"downvotes"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// exportTrip handles GET /trips/{tripId}/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) exportTrip(w http.ResponseWriter, r *http.Request) {
	userID, tripID, err := tripScope(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format, err := queryString(r, "format")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	wantCSV := false
	if format != nil {
		switch *format {
		case "csv":
			wantCSV = true
		case "json":
		default:
			s.writeError(w, r, domain.FieldError("format", fmt.Sprintf("%q is not a valid choice.", *format)))
			return
		}
	}

	rows, err := s.export.Export(r.Context(), userID, tripID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if wantCSV {
		writeCSV(w, exportFilename(rows), rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRowToRecord(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// exportFilename names the download after the trip code.
func exportFilename(rows []domain.ExportRow) string {
	if len(rows) == 0 || rows[0].TripCode == "" {
		return "itinerary.csv"
	}
	return "itinerary-" + rows[0].TripCode + ".csv"
}

// writeCSV encodes rows as CSV with a header line.
func writeCSV(w http.ResponseWriter, filename string, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// domainRowToRecord maps a domain.ExportRow to its JSON form.
// Activity fields that are empty strings become nil pointers (omitempty in JSON).
func domainRowToRecord(r domain.ExportRow) ExportRow {
	return ExportRow{
		TripID:        r.TripID,
		TripName:      r.TripName,
		TripCode:      r.TripCode,
		TripStartDate: r.TripStartDate,
		TripEndDate:   r.TripEndDate,
		GroupBudget:   r.GroupBudget,
		ActivityTitle: nonEmpty(r.ActivityTitle),
		ActivityDate:  nonEmpty(r.ActivityDate),
		ActivityTime:  nonEmpty(r.ActivityTime),
		Category:      nonEmpty(r.Category),
		EstimatedCost: nonEmpty(r.EstimatedCost),
		Notes:         nonEmpty(r.Notes),
		Upvotes:       r.Upvotes,
		Downvotes:     r.Downvotes,
		CreatedAt:     r.CreatedAt,
	}
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// A nil CreatedAt is encoded as an empty string.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	createdAt := ""
	if r.CreatedAt != nil {
		createdAt = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		r.TripID,
		r.TripName,
		r.TripCode,
		r.TripStartDate,
		r.TripEndDate,
		r.GroupBudget,
		r.ActivityTitle,
		r.ActivityDate,
		r.ActivityTime,
		r.Category,
		r.EstimatedCost,
		r.Notes,
		strconv.Itoa(r.Upvotes),
		strconv.Itoa(r.Downvotes),
		createdAt,
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
