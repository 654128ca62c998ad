package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/funinthesundocs/epictours-sub001/services"
)

// EnvPrefix is prepended to every variable, e.g. REPORT_TIMEZONE.
const EnvPrefix = "REPORT"

// Config holds the report settings that are not part of a user's view.
type Config struct {
	// Title printed at the top of every export.
	Title string `envconfig:"TITLE" default:"Master Report"`
	// OrganizationName labels exports when the organization record has no name.
	OrganizationName string `envconfig:"ORGANIZATION_NAME" default:""`
	// DefaultOrganization is used when a request carries no organization.
	DefaultOrganization string `envconfig:"DEFAULT_ORGANIZATION" default:"demo"`
	Timezone            string `envconfig:"TIMEZONE" default:"Local"`
	// RowHeight is the grid row height in pixels used for windowing.
	RowHeight      float64 `envconfig:"ROW_HEIGHT" default:"36"`
	ViewportHeight float64 `envconfig:"VIEWPORT_HEIGHT" default:"720"`
	PDFOrientation string  `envconfig:"PDF_ORIENTATION" default:"landscape"`
	PDFLayout      string  `envconfig:"PDF_LAYOUT" default:"flat"`
	SeedDemoData   bool    `envconfig:"SEED_DEMO_DATA" default:"true"`

	location *time.Location
}

// Load reads an optional .env file and then the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: could not read env file: %v", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid %s_TIMEZONE %q: %w", EnvPrefix, c.Timezone, err)
	}
	c.location = loc
	if c.RowHeight <= 0 {
		return fmt.Errorf("%s_ROW_HEIGHT must be positive, got %v", EnvPrefix, c.RowHeight)
	}
	if c.ViewportHeight <= 0 {
		return fmt.Errorf("%s_VIEWPORT_HEIGHT must be positive, got %v", EnvPrefix, c.ViewportHeight)
	}
	return nil
}

// Location is the zone date-only values and timestamps are read in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// PDFDefaults are the PDF sub-options preselected in the export menu.
func (c *Config) PDFDefaults() services.PDFOptions {
	return services.ParsePDFOptions(c.PDFOrientation, c.PDFLayout, services.PDFOptions{
		Orientation: services.Landscape,
		Layout:      services.LayoutFlat,
	})
}
