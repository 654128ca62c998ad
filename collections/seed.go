package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type customerDef struct {
	name  string
	email string
	phone string
}

type staffDef struct {
	name string
	role string
}

type availabilityDef struct {
	activity  string
	dayOffset int // days from the seed date
	startTime string
	vehicle   int // index into vehicles, -1 for none
	driver    int // index into staff, -1 for none
	guide     int
}

type bookingDef struct {
	customer     int
	availability int
	status       string
	pax          int
	total        float64
	paid         float64
	voucher      string
	hotel        string
	pickup       string
	notes        string
}

var seedCustomers = []customerDef{
	{"Alice Johnson", "alice@example.com", "5551234567"},
	{"Bob Lee", "bob.lee@example.com", "5559876543"},
	{"Carmen Diaz", "carmen@example.com", "15553334444"},
	{"David Kim", "dkim@example.com", ""},
	{"Emma Wilson", "emma.w@example.com", "5552223333"},
	{"Farid Haddad", "", "5557778888"},
}

var seedVehicles = []string{"Van 1", "Van 2", "Coach A"}

var seedStaff = []staffDef{
	{"Marco Silva", "driver"},
	{"Jane Park", "driver"},
	{"Leilani Kahale", "guide"},
	{"Tom Reyes", "guide"},
}

var seedAvailabilities = []availabilityDef{
	{"Sunrise Crater Tour", 0, "04:30", 0, 0, 2},
	{"Snorkel Adventure", 0, "09:00", 1, 1, 3},
	{"Road to Hana", 1, "07:00", 2, 0, 2},
	{"Sunset Dinner Cruise", 1, "17:30", 1, 1, -1},
	{"Whale Watching", 2, "08:00", 0, 0, 3},
	{"Farm Tour", 3, "10:00", -1, -1, -1},
}

var seedBookings = []bookingDef{
	{0, 0, "confirmed", 2, 398, 398, "V-1001", "Grand Wailea", "03:45", ""},
	{1, 0, "confirmed", 4, 796, 200, "V-1002", "Hyatt Regency", "04:00", "Bringing a child seat"},
	{2, 1, "pending", 3, 450, 0, "", "Four Seasons", "08:15", ""},
	{3, 1, "confirmed", 1, 150, 150, "V-1004", "", "", "Vegetarian lunch"},
	{4, 2, "confirmed", 6, 1620.5, 810.25, "V-1005", "Andaz", "06:10", "He said, \"window seats\""},
	{5, 2, "completed", 2, 540, 540, "V-1006", "Grand Wailea", "06:20", ""},
	{0, 3, "confirmed", 2, 310, 310, "V-1007", "Grand Wailea", "17:00", "Anniversary"},
	{1, 4, "cancelled", 3, 285, 0, "", "Hyatt Regency", "07:30", ""},
	{2, 4, "confirmed", 2, 190, 95, "V-1009", "", "", ""},
	{4, 5, "pending", 5, 375, 0, "", "", "", "Self drive"},
}

// Seed populates the booking collections with demo data for organization.
// It is safe to call on every startup because it returns early if the
// organization already has bookings.
func Seed(app *pocketbase.PocketBase, organization string) error {
	// ── idempotency: skip if bookings already exist ──────────────────
	existing, err := app.FindRecordsByFilter(
		"bookings", "organization = {:org}", "", 1, 0,
		map[string]any{"org": organization},
	)
	if err != nil {
		return fmt.Errorf("seed: could not query bookings: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Printf("seed: organization %q has no bookings – inserting demo data …", organization)

	create := func(collection string, fields map[string]any) (*core.Record, error) {
		col, err := app.FindCollectionByNameOrId(collection)
		if err != nil {
			return nil, fmt.Errorf("seed: could not find %s collection: %w", collection, err)
		}
		r := core.NewRecord(col)
		r.Set("organization", organization)
		for k, v := range fields {
			r.Set(k, v)
		}
		if err := app.Save(r); err != nil {
			return nil, fmt.Errorf("seed: save %s: %w", collection, err)
		}
		return r, nil
	}

	customerIDs := make([]string, len(seedCustomers))
	for i, d := range seedCustomers {
		r, err := create("customers", map[string]any{"name": d.name, "email": d.email, "phone": d.phone})
		if err != nil {
			return err
		}
		customerIDs[i] = r.Id
	}

	vehicleIDs := make([]string, len(seedVehicles))
	for i, name := range seedVehicles {
		r, err := create("vehicles", map[string]any{"name": name, "capacity": 12})
		if err != nil {
			return err
		}
		vehicleIDs[i] = r.Id
	}

	staffIDs := make([]string, len(seedStaff))
	for i, d := range seedStaff {
		r, err := create("staff", map[string]any{"name": d.name, "role": d.role})
		if err != nil {
			return err
		}
		staffIDs[i] = r.Id
	}

	pick := func(ids []string, i int) string {
		if i < 0 {
			return ""
		}
		return ids[i]
	}

	today := time.Now()
	availabilityIDs := make([]string, len(seedAvailabilities))
	for i, d := range seedAvailabilities {
		r, err := create("availabilities", map[string]any{
			"activity_name": d.activity,
			"start_date":    today.AddDate(0, 0, d.dayOffset).Format("2006-01-02"),
			"start_time":    d.startTime,
			"vehicle":       pick(vehicleIDs, d.vehicle),
			"driver":        pick(staffIDs, d.driver),
			"guide":         pick(staffIDs, d.guide),
		})
		if err != nil {
			return err
		}
		availabilityIDs[i] = r.Id
	}

	for i, d := range seedBookings {
		_, err := create("bookings", map[string]any{
			"confirmation_number": fmt.Sprintf("EPT-%05d", 1001+i),
			"status":              d.status,
			"customer":            customerIDs[d.customer],
			"availability":        availabilityIDs[d.availability],
			"pax_count":           d.pax,
			"total_amount":        d.total,
			"amount_paid":         d.paid,
			"voucher_number":      d.voucher,
			"pickup_hotel":        d.hotel,
			"pickup_time":         d.pickup,
			"notes":               d.notes,
		})
		if err != nil {
			return err
		}
	}

	log.Printf("seed: inserted %d bookings for organization %q", len(seedBookings), organization)
	return nil
}
