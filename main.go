package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/nus3audio-editor/internal/config"
	"github.com/ytget/nus3audio-editor/internal/convert"
	"github.com/ytget/nus3audio-editor/internal/editor"
	"github.com/ytget/nus3audio-editor/internal/platform"
	"github.com/ytget/nus3audio-editor/internal/playback"
	"github.com/ytget/nus3audio-editor/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = ui.DefaultVersion

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", config.DotEnvFile, err)
	}
	overrides, err := config.NewOverridesFromEnv(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ignoring environment overrides: %v\n", err)
		overrides = &config.Overrides{}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: overrides.Level(),
	})))
	slog.Info("starting", "app", ui.AppName, "version", version)

	// Create new Fyne app
	myApp := app.NewWithID(ui.AppID)

	// Apply compact theme
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	windowTitle := fmt.Sprintf("%s v%s", ui.AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))
	if icon := ui.LoadAppIcon(); icon != nil {
		myWindow.SetIcon(icon)
	}

	// Initialize services
	settings := config.NewSettings(myApp, overrides)
	cache := platform.DefaultCacheDir()
	cacheErr := cache.Reset()
	if cacheErr != nil {
		slog.Error("failed to reset cache directory", "dir", cache.Root(), "error", cacheErr)
	}

	converter := convert.NewService(settings.Tools, nil)
	editorSvc := editor.NewService(converter, cache)
	player := playback.NewPlayer(nil)

	// Create and setup UI
	rootUI := ui.NewRootUI(myWindow, myApp, editorSvc, player, settings, cache, version)
	rootUI.Start(cacheErr)

	// Show and run
	myWindow.ShowAndRun()
}
