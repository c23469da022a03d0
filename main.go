package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"sentix/internal/config"
	"sentix/internal/logger"
	"sentix/models"
	"sentix/ui"
	appTheme "sentix/ui/theme"
)

func main() {
	cfg, err := models.LoadConfig()
	if err != nil {
		logger.Warn("⚠️ Using default settings: %v", err)
		cfg = models.DefaultConfig()
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	a := app.NewWithID(config.AppID)
	a.Settings().SetTheme(&appTheme.SentixTheme{})

	w := a.NewWindow(config.AppName)
	w.Resize(fyne.NewSize(1200, 780))

	mainUI := ui.NewMainUI(w, cfg)
	w.SetContent(mainUI.Build())
	w.SetOnClosed(mainUI.Close)

	w.ShowAndRun()
}
