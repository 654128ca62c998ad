package collections

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/tools/types"

	"github.com/funinthesundocs/epictours-sub001/services"
)

// legacyFilterFields lists the JSON fields that may still hold column
// filters stored as bare value lists.
var legacyFilterFields = map[string]string{
	"view_settings":  "value",
	"report_presets": "settings",
}

// MigrateLegacyColumnFilters rewrites stored view configurations whose
// column filters use the old bare-list form, including the clear-all
// marker, into the tagged form. Safe to call on every startup.
func MigrateLegacyColumnFilters(app *pocketbase.PocketBase) (int, error) {
	reg := services.MasterReportColumns()
	migrated := 0

	for collection, field := range legacyFilterFields {
		col, err := app.FindCollectionByNameOrId(collection)
		if err != nil {
			return migrated, fmt.Errorf("migrate_filters: could not find %s collection: %w", collection, err)
		}
		records, err := app.FindAllRecords(col)
		if err != nil {
			return migrated, fmt.Errorf("migrate_filters: could not query %s: %w", collection, err)
		}

		for _, rec := range records {
			raw := []byte(rec.GetString(field))
			if !services.IsLegacyViewSettings(raw) {
				continue
			}
			data, err := json.Marshal(services.ParseViewConfiguration(raw, reg))
			if err != nil {
				return migrated, fmt.Errorf("migrate_filters: encode %s %s: %w", collection, rec.Id, err)
			}
			rec.Set(field, types.JSONRaw(data))
			if err := app.Save(rec); err != nil {
				return migrated, fmt.Errorf("migrate_filters: save %s %s: %w", collection, rec.Id, err)
			}
			migrated++
		}
	}

	if migrated > 0 {
		log.Printf("migrate_filters: rewrote %d legacy view configurations", migrated)
	}
	return migrated, nil
}
