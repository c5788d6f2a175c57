package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2/app"

	"github.com/ytget/tubeloader/internal/bootstrap"
	"github.com/ytget/tubeloader/internal/config"
	"github.com/ytget/tubeloader/internal/logging"
	"github.com/ytget/tubeloader/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID = "com.ytget.tubeloader"

	// shutdownGrace bounds how long closing the window waits for workers.
	shutdownGrace = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "Configuration file path")
	flag.Parse()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.New(logging.Options{Level: cfg.Logging.Level, Prefix: "gui"})
	logger.Info("starting", "version", version)

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Warn("prepare directories", "err", err)
	}

	stack, err := bootstrap.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("build download stack", "err", err)
	}
	defer stack.Close()

	downloadSvc := stack.NewDownloadService()

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewTheme())

	myWindow := myApp.NewWindow(config.AppName)
	settings := config.NewSettings(myApp, cfg)
	ui.NewRootUI(myWindow, myApp, downloadSvc, settings, logger)

	myWindow.SetOnClosed(func() {
		downloadSvc.StopAll()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := downloadSvc.Wait(ctx); err != nil {
			logger.Warn("downloads still running at exit", "err", err)
		}
	})
	myWindow.ShowAndRun()
}
