// Package commands holds the command line entry points added to the app's
// root command.
package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"github.com/funinthesundocs/epictours-sub001/collections"
	"github.com/funinthesundocs/epictours-sub001/config"
	"github.com/funinthesundocs/epictours-sub001/handlers"
	"github.com/funinthesundocs/epictours-sub001/services"
)

// ExportOptions are the flags of the export command.
type ExportOptions struct {
	Organization string
	Format       string
	Out          string
	Preset       string
	Owner        string
	Orientation  string
	Layout       string
}

// NewExportCommand returns the `export` command, which renders the master
// report for one organization without starting the server.
func NewExportCommand(app *pocketbase.PocketBase, cfg *config.Config) *cobra.Command {
	opts := ExportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the master report to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.IsBootstrapped() {
				if err := app.Bootstrap(); err != nil {
					return fmt.Errorf("bootstrap: %w", err)
				}
			}
			collections.Setup(app)

			path, count, err := RunExport(app, cfg, opts, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bookings to %s\n", count, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Organization, "org", cfg.DefaultOrganization, "organization to export")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "csv", "csv, tsv, xlsx or pdf")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (defaults to the generated file name)")
	cmd.Flags().StringVar(&opts.Preset, "preset", "", "name of a saved preset to apply")
	cmd.Flags().StringVar(&opts.Owner, "owner", handlers.GuestOwner, "owner whose saved view or presets are used")
	cmd.Flags().StringVar(&opts.Orientation, "orientation", "", "PDF orientation: portrait or landscape")
	cmd.Flags().StringVar(&opts.Layout, "layout", "", "PDF layout: flat or grouped")
	return cmd
}

// RunExport writes the export described by opts and returns the file path and
// the number of bookings written.
func RunExport(app *pocketbase.PocketBase, cfg *config.Config, opts ExportOptions, now time.Time) (string, int, error) {
	format, err := services.ParseExportFormat(opts.Format)
	if err != nil {
		return "", 0, err
	}

	pipeline := services.NewPipeline(cfg.Location())
	viewCfg, err := resolveView(app, pipeline.Registry, opts)
	if err != nil {
		return "", 0, err
	}

	rows, err := services.NewRecordRowSource(app).Fetch(opts.Organization)
	if err != nil {
		return "", 0, err
	}
	view := pipeline.Run(rows, viewCfg)

	org := cfg.OrganizationName
	if org == "" {
		org = opts.Organization
	}
	doc := services.BuildReportDocument(view, pipeline.Renderer(), services.ExportMeta{
		Title:        cfg.Title,
		Organization: org,
		GeneratedAt:  now,
		Location:     cfg.Location(),
	})
	pdf := services.ParsePDFOptions(opts.Orientation, opts.Layout, cfg.PDFDefaults())
	data, err := services.RenderExport(format, pdf, doc)
	if err != nil {
		return "", 0, fmt.Errorf("render %s: %w", format, err)
	}

	path := opts.Out
	if path == "" {
		path = services.ExportFilename(opts.Organization, "", now.In(cfg.Location()), format)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("write %s: %w", path, err)
	}
	return path, len(view.Rows), nil
}

// resolveView picks the named preset when one is given and the owner's
// saved view otherwise.
func resolveView(app *pocketbase.PocketBase, reg *services.ColumnRegistry, opts ExportOptions) (services.ViewConfiguration, error) {
	if opts.Preset == "" {
		store := services.NewRecordViewStore(app, opts.Owner)
		return services.LoadViewController(reg, store, services.MasterReportViewSlot).Config(), nil
	}

	presets, err := services.NewPresetStore(app, reg).List(opts.Owner)
	if err != nil {
		return services.ViewConfiguration{}, err
	}
	for _, p := range presets {
		if strings.EqualFold(p.Name, opts.Preset) {
			return p.Settings, nil
		}
	}
	return services.ViewConfiguration{}, fmt.Errorf("%w: %q", services.ErrPresetNotFound, opts.Preset)
}
