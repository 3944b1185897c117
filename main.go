// @title Course Hub API
// @version 1.0
// @description Course catalog, learner progress, certificates and Stripe checkout.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"course_hub_backend/internal/app"
	"course_hub_backend/internal/config"
	"course_hub_backend/pkg/configwatcher"
	"course_hub_backend/pkg/logger"
	"flag"
	"log"

	"go.uber.org/zap"
)

const configDir = "configs"

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "run database migrations on startup, even in release mode")
	importFile := flag.String("import", "", "import course content from a YAML file and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly || *importFile != ""
	cfg.MigrateOnly = *migrateOnly
	cfg.ImportFile = *importFile

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		logger.Log.Info("Database migration finished, exiting")
		application.Close()
		return
	}

	if cfg.ImportFile != "" {
		result, err := application.Services.Import.ImportFile(context.Background(), cfg.ImportFile)
		application.Close()
		if err != nil {
			logger.Log.Fatal("Content import failed", zap.String("file", cfg.ImportFile), zap.Error(err))
		}
		logger.Log.Info("Content import finished",
			zap.Int("coursesCreated", result.CoursesCreated),
			zap.Int("coursesUpdated", result.CoursesUpdated),
			zap.Int("modules", result.Modules),
			zap.Int("lessons", result.Lessons))
		return
	}

	go func() {
		if err := configwatcher.WatchConfig(configDir+"/config.yaml", application.Stopped(), application.ApplyConfig); err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()

	application.Run()
}
