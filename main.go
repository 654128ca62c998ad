package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"github.com/funinthesundocs/epictours-sub001/collections"
	"github.com/funinthesundocs/epictours-sub001/commands"
	"github.com/funinthesundocs/epictours-sub001/config"
	"github.com/funinthesundocs/epictours-sub001/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	app := pocketbase.New()
	app.RootCmd.AddCommand(commands.NewExportCommand(app, cfg))

	// Create collections, seed and migrate on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if cfg.SeedDemoData {
			if err := collections.Seed(app, cfg.DefaultOrganization); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		if _, err := collections.MigrateLegacyColumnFilters(app); err != nil {
			log.Printf("Warning: view settings migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		report := handlers.NewReport(app, cfg)

		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.ReportContextMiddleware(cfg.DefaultOrganization))

		// ── Grid ─────────────────────────────────────────────────
		se.Router.GET("/reports/master", handlers.HandleReportPage(report))
		se.Router.GET("/reports/master/grid", handlers.HandleReportGrid(report))
		se.Router.POST("/reports/master/refresh", handlers.HandleReportRefresh(report))

		// ── View configuration ──────────────────────────────────
		se.Router.GET("/reports/master/view", handlers.HandleViewGet(report))
		se.Router.POST("/reports/master/view", handlers.HandleViewUpdate(report))
		se.Router.GET("/reports/master/columns/{key}/values", handlers.HandleColumnValues(report))

		// ── Row detail ──────────────────────────────────────────
		se.Router.GET("/reports/master/rows/{id}/detail", handlers.HandleRowDetail(report))

		// ── Export ──────────────────────────────────────────────
		se.Router.GET("/reports/master/export/{format}", handlers.HandleReportExport(report))

		// ── Presets ─────────────────────────────────────────────
		se.Router.GET("/reports/master/presets", handlers.HandlePresetList(report))
		se.Router.POST("/reports/master/presets", handlers.HandlePresetCreate(report))
		se.Router.POST("/reports/master/presets/{id}", handlers.HandlePresetUpdate(report))
		se.Router.POST("/reports/master/presets/{id}/load", handlers.HandlePresetLoad(report))
		se.Router.DELETE("/reports/master/presets/{id}", handlers.HandlePresetDelete(report))

		// Redirect home to the report
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/reports/master")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
