// Package handler implements the HTTP boundary: document upload, conversion,
// deck download, and the config endpoints.
package handler

import (
	"vectordeck/internal/config"
	"vectordeck/internal/layout"
	"vectordeck/internal/normalize"
	"vectordeck/internal/pipeline"
)

// App holds the shared dependencies for all handlers.
type App struct {
	configManager *config.ConfigManager
}

// NewApp creates the handler application state.
func NewApp(cm *config.ConfigManager) *App {
	return &App{configManager: cm}
}

// converter builds a pipeline converter from the current configuration,
// with the canvas overridable per request.
func (app *App) converter(canvasName string) *pipeline.Converter {
	cfg := app.configManager.Get()
	if canvasName == "" {
		canvasName = cfg.Convert.Canvas
	}
	return pipeline.NewConverter(layout.ByName(canvasName), normalize.Options{
		RemoveClipPaths:     cfg.Convert.RemoveClipPaths,
		InlineCSS:           cfg.Convert.InlineCSS,
		SimplifyIDs:         cfg.Convert.SimplifyIDs,
		OptimizeCoordinates: cfg.Convert.OptimizeCoordinates,
		ReplaceNonWebFonts:  cfg.Convert.ReplaceNonWebFonts,
	})
}

// maxUploadBytes returns the configured multipart memory/size limit.
func (app *App) maxUploadBytes() int64 {
	mb := app.configManager.Get().Server.MaxUploadMB
	if mb <= 0 {
		mb = 64
	}
	return int64(mb) << 20
}
