package services

import (
	"bytes"
	"time"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// sampleRows returns three bookings: two with a vehicle and an activity
// date, and one with neither.
func sampleRows() []Row {
	return []Row{
		{
			"booking_id":          "b1",
			"customer_id":         "c1",
			"availability_id":     "a1",
			"customer_name":       "Alice Johnson",
			"customer_email":      "alice@example.com",
			"customer_phone":      "5551234567",
			"confirmation_number": "EPT-1001",
			"status":              "confirmed",
			"start_date":          "2026-01-24",
			"activity_name":       "Volcano Sunrise",
			"pax_count":           2,
			"total_amount":        250.0,
			"amount_paid":         100.0,
			"balance_due":         150.0,
			"vehicle_name":        "Van 1",
			"created":             "2026-01-10 08:00:00.000Z",
		},
		{
			"booking_id":          "b2",
			"customer_id":         "c2",
			"availability_id":     "a2",
			"customer_name":       "Bob Lee",
			"customer_email":      "bob@example.com",
			"confirmation_number": "EPT-1002",
			"status":              "pending",
			"start_date":          "2026-01-25",
			"activity_name":       "Snorkel Cove",
			"pax_count":           4,
			"total_amount":        1400.0,
			"amount_paid":         400.0,
			"balance_due":         1000.0,
			"vehicle_name":        "Van 2",
			"created":             "2026-01-12 18:30:00.000Z",
		},
		{
			"booking_id":          "b3",
			"customer_id":         "c3",
			"availability_id":     "a3",
			"customer_name":       "Carla Diaz",
			"confirmation_number": "EPT-1003",
			"status":              "confirmed",
			"start_date":          nil,
			"activity_name":       "Farm Tour",
			"pax_count":           1,
			"total_amount":        99.5,
			"amount_paid":         0.0,
			"balance_due":         99.5,
			"notes":               `He said, "hi"`,
			"created":             "2026-01-15 09:00:00.000Z",
		},
	}
}

func rowIDs(rows []Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID()
	}
	return ids
}

func testPipeline() Pipeline {
	return NewPipeline(time.UTC)
}
