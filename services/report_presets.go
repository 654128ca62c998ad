package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

// Preset is a named snapshot of a view configuration owned by one user.
type Preset struct {
	ID       string
	Owner    string
	Name     string
	Settings ViewConfiguration
	Created  time.Time
	Updated  time.Time
}

// PresetInput is what a user submits when saving a preset.
type PresetInput struct {
	Name string `validate:"required,max=80"`
}

var presetValidator = validator.New()

// validatePresetName trims name and checks it. Errors are ErrPresetNameRequired
// or a wrapped validation error.
func validatePresetName(name string) (string, error) {
	in := PresetInput{Name: strings.TrimSpace(name)}
	if err := presetValidator.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Tag() == "required" {
					return "", ErrPresetNameRequired
				}
				return "", fmt.Errorf("preset name failed %q check", fe.Tag())
			}
		}
		return "", err
	}
	return in.Name, nil
}

// PresetStore keeps presets in the report_presets collection.
type PresetStore struct {
	app      core.App
	registry *ColumnRegistry
}

// NewPresetStore returns a store whose loaded settings are repaired against reg.
func NewPresetStore(app core.App, reg *ColumnRegistry) *PresetStore {
	return &PresetStore{app: app, registry: reg}
}

// List returns owner's presets ordered by name.
func (s *PresetStore) List(owner string) ([]Preset, error) {
	records, err := s.app.FindRecordsByFilter(
		"report_presets",
		"owner = {:owner}",
		"name", 0, 0,
		map[string]any{"owner": owner},
	)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	presets := make([]Preset, 0, len(records))
	for _, rec := range records {
		presets = append(presets, s.toPreset(rec))
	}
	return presets, nil
}

// Get returns one of owner's presets.
func (s *PresetStore) Get(owner, id string) (Preset, error) {
	rec, err := s.find(owner, id)
	if err != nil {
		return Preset{}, err
	}
	return s.toPreset(rec), nil
}

// Create saves cfg under a new name. Empty and duplicate names are rejected
// before anything is written.
func (s *PresetStore) Create(owner, name string, cfg ViewConfiguration) (Preset, error) {
	name, err := validatePresetName(name)
	if err != nil {
		return Preset{}, err
	}
	if err := s.checkNameFree(owner, name, ""); err != nil {
		return Preset{}, err
	}

	col, err := s.app.FindCollectionByNameOrId("report_presets")
	if err != nil {
		return Preset{}, fmt.Errorf("create preset: %w", err)
	}
	rec := core.NewRecord(col)
	rec.Set("owner", owner)
	rec.Set("name", name)
	if err := setPresetSettings(rec, cfg.Repair(s.registry)); err != nil {
		return Preset{}, err
	}
	if err := s.app.Save(rec); err != nil {
		return Preset{}, fmt.Errorf("create preset: %w", err)
	}
	return s.toPreset(rec), nil
}

// Update overwrites the name and settings of an existing preset.
func (s *PresetStore) Update(owner, id, name string, cfg ViewConfiguration) (Preset, error) {
	name, err := validatePresetName(name)
	if err != nil {
		return Preset{}, err
	}
	rec, err := s.find(owner, id)
	if err != nil {
		return Preset{}, err
	}
	if err := s.checkNameFree(owner, name, id); err != nil {
		return Preset{}, err
	}
	rec.Set("name", name)
	if err := setPresetSettings(rec, cfg.Repair(s.registry)); err != nil {
		return Preset{}, err
	}
	if err := s.app.Save(rec); err != nil {
		return Preset{}, fmt.Errorf("update preset: %w", err)
	}
	return s.toPreset(rec), nil
}

// Delete removes one of owner's presets.
func (s *PresetStore) Delete(owner, id string) error {
	rec, err := s.find(owner, id)
	if err != nil {
		return err
	}
	if err := s.app.Delete(rec); err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	return nil
}

func (s *PresetStore) find(owner, id string) (*core.Record, error) {
	rec, err := s.app.FindRecordById("report_presets", id)
	if err != nil || rec.GetString("owner") != owner {
		return nil, ErrPresetNotFound
	}
	return rec, nil
}

// checkNameFree fails when another preset of owner already uses name,
// compared case-insensitively. exceptID is the preset being renamed.
func (s *PresetStore) checkNameFree(owner, name, exceptID string) error {
	presets, err := s.List(owner)
	if err != nil {
		return err
	}
	taken := slices.ContainsFunc(presets, func(p Preset) bool {
		return p.ID != exceptID && strings.EqualFold(p.Name, name)
	})
	if taken {
		return ErrPresetNameTaken
	}
	return nil
}

func setPresetSettings(rec *core.Record, cfg ViewConfiguration) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode preset settings: %w", err)
	}
	rec.Set("settings", types.JSONRaw(data))
	return nil
}

func (s *PresetStore) toPreset(rec *core.Record) Preset {
	return Preset{
		ID:       rec.Id,
		Owner:    rec.GetString("owner"),
		Name:     rec.GetString("name"),
		Settings: ParseViewConfiguration([]byte(rec.GetString("settings")), s.registry),
		Created:  rec.GetDateTime("created").Time(),
		Updated:  rec.GetDateTime("updated").Time(),
	}
}
