package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// BookingStatuses are the allowed values of bookings.status.
var BookingStatuses = []string{"confirmed", "pending", "completed", "cancelled"}

// Setup programmatically creates/ensures the booking collections the master
// report reads from, plus the report_presets and view_settings collections
// it writes to. Every row-bearing collection is scoped by organization.
func Setup(app *pocketbase.PocketBase) {
	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "organization", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	vehicles := ensureCollection(app, "vehicles", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "organization", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "capacity", OnlyInt: true})
	})

	staff := ensureCollection(app, "staff", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "organization", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "role",
			Required:  true,
			Values:    []string{"driver", "guide"},
			MaxSelect: 1,
		})
	})

	availabilities := ensureCollection(app, "availabilities", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "organization", Required: true})
		c.Fields.Add(&core.TextField{Name: "activity_name", Required: true})
		// Calendar date without zone, read in the report location.
		c.Fields.Add(&core.TextField{Name: "start_date", Required: true, Pattern: `^\d{4}-\d{2}-\d{2}$`})
		c.Fields.Add(&core.TextField{Name: "start_time"})
		c.Fields.Add(&core.RelationField{Name: "vehicle", CollectionId: vehicles.Id, MaxSelect: 1})
		c.Fields.Add(&core.RelationField{Name: "driver", CollectionId: staff.Id, MaxSelect: 1})
		c.Fields.Add(&core.RelationField{Name: "guide", CollectionId: staff.Id, MaxSelect: 1})
	})

	ensureCollection(app, "bookings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "organization", Required: true})
		c.Fields.Add(&core.TextField{Name: "confirmation_number", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    BookingStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			Required:     true,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:          "availability",
			CollectionId:  availabilities.Id,
			CascadeDelete: false,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "pax_count", OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "total_amount"})
		c.Fields.Add(&core.NumberField{Name: "amount_paid"})
		c.Fields.Add(&core.TextField{Name: "voucher_number"})
		c.Fields.Add(&core.TextField{Name: "pickup_hotel"})
		c.Fields.Add(&core.TextField{Name: "pickup_time"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "report_presets", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "owner", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 80})
		c.Fields.Add(&core.JSONField{Name: "settings"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "view_settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "owner", Required: true})
		c.Fields.Add(&core.TextField{Name: "slot", Required: true})
		c.Fields.Add(&core.JSONField{Name: "value"})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
