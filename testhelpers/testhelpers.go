// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/funinthesundocs/epictours-sub001/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateRecord saves a record with fields into collection and returns it.
func CreateRecord(t *testing.T, app *pocketbase.PocketBase, collection string, fields map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	for k, v := range fields {
		record.Set(k, v)
	}
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test %s record: %v", collection, err)
	}
	return record
}

// BookingFixture describes a booking together with the records it links to.
// Empty Vehicle, Driver or Guide names leave that relation unset.
type BookingFixture struct {
	Organization string
	Customer     string
	Email        string
	Phone        string
	Activity     string
	StartDate    string
	StartTime    string
	Vehicle      string
	Driver       string
	Guide        string
	Confirmation string
	Status       string
	Pax          int
	Total        float64
	Paid         float64
	Notes        string
}

// CreateTestBooking creates a booking plus a fresh customer and availability
// (and vehicle/staff when named) and returns the booking.
func CreateTestBooking(t *testing.T, app *pocketbase.PocketBase, f BookingFixture) *core.Record {
	t.Helper()

	if f.Status == "" {
		f.Status = "confirmed"
	}
	if f.Confirmation == "" {
		f.Confirmation = "TEST-" + strings.ReplaceAll(f.Customer, " ", "")
	}
	if f.StartDate == "" {
		f.StartDate = "2026-01-24"
	}
	if f.Activity == "" {
		f.Activity = "Test Activity"
	}

	customer := CreateRecord(t, app, "customers", map[string]any{
		"organization": f.Organization,
		"name":         f.Customer,
		"email":        f.Email,
		"phone":        f.Phone,
	})

	availability := map[string]any{
		"organization":  f.Organization,
		"activity_name": f.Activity,
		"start_date":    f.StartDate,
		"start_time":    f.StartTime,
	}
	if f.Vehicle != "" {
		availability["vehicle"] = CreateRecord(t, app, "vehicles", map[string]any{
			"organization": f.Organization,
			"name":         f.Vehicle,
		}).Id
	}
	if f.Driver != "" {
		availability["driver"] = CreateRecord(t, app, "staff", map[string]any{
			"organization": f.Organization,
			"name":         f.Driver,
			"role":         "driver",
		}).Id
	}
	if f.Guide != "" {
		availability["guide"] = CreateRecord(t, app, "staff", map[string]any{
			"organization": f.Organization,
			"name":         f.Guide,
			"role":         "guide",
		}).Id
	}
	av := CreateRecord(t, app, "availabilities", availability)

	return CreateRecord(t, app, "bookings", map[string]any{
		"organization":        f.Organization,
		"confirmation_number": f.Confirmation,
		"status":              f.Status,
		"customer":            customer.Id,
		"availability":        av.Id,
		"pax_count":           f.Pax,
		"total_amount":        f.Total,
		"amount_paid":         f.Paid,
		"notes":               f.Notes,
	})
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHTMLNotContains checks that body contains none of the fragments.
func AssertHTMLNotContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if strings.Contains(body, frag) {
			t.Errorf("expected HTML not to contain %q\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
