package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

// MasterReportViewSlot is the view_settings slot of the master report.
const MasterReportViewSlot = "master_report.view"

// ViewStore persists serialized view configurations under a slot name.
// Load returns nil data when nothing was stored.
type ViewStore interface {
	Load(slot string) ([]byte, error)
	Save(slot string, data []byte) error
}

// RecordViewStore keeps view slots of one owner in the view_settings
// collection.
type RecordViewStore struct {
	app   core.App
	owner string
}

// NewRecordViewStore returns a store scoped to owner.
func NewRecordViewStore(app core.App, owner string) *RecordViewStore {
	return &RecordViewStore{app: app, owner: owner}
}

func (s *RecordViewStore) find(slot string) (*core.Record, error) {
	records, err := s.app.FindRecordsByFilter(
		"view_settings",
		"owner = {:owner} && slot = {:slot}",
		"", 1, 0,
		map[string]any{"owner": s.owner, "slot": slot},
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// Load returns the stored value of slot.
func (s *RecordViewStore) Load(slot string) ([]byte, error) {
	rec, err := s.find(slot)
	if err != nil {
		return nil, fmt.Errorf("load view slot %q: %w", slot, err)
	}
	if rec == nil {
		return nil, nil
	}
	return []byte(rec.GetString("value")), nil
}

// Save overwrites the stored value of slot.
func (s *RecordViewStore) Save(slot string, data []byte) error {
	rec, err := s.find(slot)
	if err != nil {
		return fmt.Errorf("save view slot %q: %w", slot, err)
	}
	if rec == nil {
		col, err := s.app.FindCollectionByNameOrId("view_settings")
		if err != nil {
			return fmt.Errorf("save view slot %q: %w", slot, err)
		}
		rec = core.NewRecord(col)
		rec.Set("owner", s.owner)
		rec.Set("slot", slot)
	}
	rec.Set("value", types.JSONRaw(data))
	if err := s.app.Save(rec); err != nil {
		return fmt.Errorf("save view slot %q: %w", slot, err)
	}
	return nil
}

// ViewController owns one view's configuration. All changes go through
// Apply or Replace, and every change is persisted.
type ViewController struct {
	mu       sync.Mutex
	registry *ColumnRegistry
	store    ViewStore
	slot     string
	cfg      ViewConfiguration
}

// LoadViewController restores the configuration stored in slot. Read
// failures and corrupt data fall back to defaults.
func LoadViewController(reg *ColumnRegistry, store ViewStore, slot string) *ViewController {
	raw, err := store.Load(slot)
	if err != nil {
		log.Printf("view_controller: %v, using defaults", err)
		raw = nil
	}
	return &ViewController{
		registry: reg,
		store:    store,
		slot:     slot,
		cfg:      ParseViewConfiguration(raw, reg),
	}
}

// Config returns a copy of the current configuration.
func (c *ViewController) Config() ViewConfiguration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Clone()
}

// Apply runs a transition, repairs the result and persists it. A persist
// error is returned but the new configuration is kept.
func (c *ViewController) Apply(transition func(ViewConfiguration) ViewConfiguration) (ViewConfiguration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = transition(c.cfg.Clone()).Repair(c.registry)
	return c.cfg.Clone(), c.persist()
}

// Replace swaps in a whole configuration, as when loading a preset. Nothing
// from the previous configuration survives.
func (c *ViewController) Replace(cfg ViewConfiguration) (ViewConfiguration, error) {
	return c.Apply(func(ViewConfiguration) ViewConfiguration { return cfg.Clone() })
}

func (c *ViewController) persist() error {
	data, err := json.Marshal(c.cfg)
	if err != nil {
		return fmt.Errorf("encode view configuration: %w", err)
	}
	return c.store.Save(c.slot, data)
}
