package cli

import (
	"context"
	"fmt"

	"smartfinance/internal/advisor"
	"smartfinance/internal/backend"
	"smartfinance/internal/cache"
	"smartfinance/internal/config"
	"smartfinance/internal/log"
	"smartfinance/internal/services"
	"smartfinance/internal/sheets"
	gsheet "smartfinance/internal/sheets/google"
	"smartfinance/internal/vision"
)

// App is the assembled service layer shared by the server and finctl.
type App struct {
	Config   *config.Config
	Backend  *backend.BackendResult
	Sheets   *gsheet.Client
	Imports  *services.ImportService
	Budgets  *services.BudgetService
	Receipts *services.ReceiptService
	Advisor  *advisor.Service
	Janitor  *cache.Janitor
}

// NewApp opens the backend and builds every service from cfg. Google Sheets
// is optional; a configured but unreachable spreadsheet is an error.
func NewApp(ctx context.Context, logger *log.Logger, cfg *config.Config) (*App, error) {
	res, err := OpenBackend(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Backend: res, Janitor: cache.NewJanitor()}

	var tables sheets.TableReader
	if cfg.SheetsEnabled() {
		app.Sheets, err = gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("google sheets: %w", err)
		}
		tables = app.Sheets
	}

	visionProvider, err := vision.NewProvider(ctx, cfg.VisionProvider, cfg.GoogleVisionAPIKey)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	advisorProvider, err := advisor.NewProvider(advisor.Config{
		Kind:          cfg.AIProvider,
		OpenAIKey:     cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIModel,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	importCache := cache.NewLRUCache[services.ImportResult](cfg.ImportCacheSize, cfg.ImportCacheTTL)
	app.Janitor.Register(importCache)

	store := res.Backend
	app.Imports = services.NewImportService(importCache, tables)
	app.Budgets = services.NewBudgetService(store)
	app.Receipts = services.NewReceiptService(store, visionProvider, res.Publisher)
	app.Advisor = advisor.NewService(advisorProvider, store, store, cfg.AdvisorTimeout)

	logger.InfoContext(ctx, "Services initialized",
		"backend", cfg.DataBackend,
		"vision_provider", cfg.VisionProvider,
		"ai_provider", cfg.AIProvider,
		"amqp_enabled", res.Publisher != nil,
		"sheets_enabled", app.Sheets != nil)
	return app, nil
}

// Close stops the cache janitor and releases the backend.
func (a *App) Close() error {
	a.Janitor.Stop()
	if a.Backend == nil || a.Backend.Cleanup == nil {
		return nil
	}
	return a.Backend.Cleanup()
}
