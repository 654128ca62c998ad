package services

import (
	"log"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// RowSource produces the raw rows of one organization.
type RowSource interface {
	Fetch(organization string) ([]Row, error)
}

// bookingExpands are the relations flattened into each row.
var bookingExpands = []string{
	"customer",
	"availability.vehicle",
	"availability.driver",
	"availability.guide",
}

// RecordRowSource denormalizes bookings with their customer and schedule
// into master report rows.
type RecordRowSource struct {
	app core.App
}

// NewRecordRowSource returns a row source reading from app.
func NewRecordRowSource(app core.App) *RecordRowSource {
	return &RecordRowSource{app: app}
}

// Fetch loads every booking of organization. Any query failure is reported
// as a FetchError and no partial rows are returned.
func (s *RecordRowSource) Fetch(organization string) ([]Row, error) {
	records, err := s.app.FindRecordsByFilter(
		"bookings",
		"organization = {:org}",
		"created",
		0, 0,
		map[string]any{"org": organization},
	)
	if err != nil {
		return nil, &FetchError{
			Organization: organization,
			Message:      "Could not load bookings. Please try again.",
			Err:          err,
		}
	}

	if errs := s.app.ExpandRecords(records, bookingExpands, nil); len(errs) > 0 {
		for rel, expandErr := range errs {
			log.Printf("report_source: expand %s for organization %s: %v", rel, organization, expandErr)
		}
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, bookingRow(rec))
	}
	return rows, nil
}

// bookingRow flattens one expanded booking record.
func bookingRow(rec *core.Record) Row {
	total := decimal.NewFromFloat(rec.GetFloat("total_amount"))
	paid := decimal.NewFromFloat(rec.GetFloat("amount_paid"))

	row := Row{
		RowIDKey:              rec.Id,
		"confirmation_number": optional(rec.GetString("confirmation_number")),
		"status":              optional(rec.GetString("status")),
		"pax_count":           rec.GetInt("pax_count"),
		"total_amount":        total.InexactFloat64(),
		"amount_paid":         paid.InexactFloat64(),
		"balance_due":         total.Sub(paid).InexactFloat64(),
		"voucher_number":      optional(rec.GetString("voucher_number")),
		"pickup_hotel":        optional(rec.GetString("pickup_hotel")),
		"pickup_time":         optional(rec.GetString("pickup_time")),
		"notes":               optional(rec.GetString("notes")),
		"customer_id":         optional(rec.GetString("customer")),
		"availability_id":     optional(rec.GetString("availability")),
		"created":             nil,
	}
	if created := rec.GetDateTime("created"); !created.IsZero() {
		row["created"] = created.String()
	}

	if cust := rec.ExpandedOne("customer"); cust != nil {
		row["customer_name"] = optional(cust.GetString("name"))
		row["customer_email"] = optional(cust.GetString("email"))
		row["customer_phone"] = optional(cust.GetString("phone"))
	}

	if av := rec.ExpandedOne("availability"); av != nil {
		row["start_date"] = optional(av.GetString("start_date"))
		row["start_time"] = optional(av.GetString("start_time"))
		row["activity_name"] = optional(av.GetString("activity_name"))
		if v := av.ExpandedOne("vehicle"); v != nil {
			row["vehicle_name"] = optional(v.GetString("name"))
		}
		if d := av.ExpandedOne("driver"); d != nil {
			row["driver_name"] = optional(d.GetString("name"))
		}
		if g := av.ExpandedOne("guide"); g != nil {
			row["guide_name"] = optional(g.GetString("name"))
		}
	}
	return row
}

// optional stores blank strings as nil so they render as EmptyCell and sort last.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
