package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cinelog/recommender/handlers"
	"github.com/cinelog/recommender/lib/config"
	"github.com/cinelog/recommender/lib/db"
	"github.com/cinelog/recommender/lib/health"
	"github.com/cinelog/recommender/lib/lock"
	"github.com/cinelog/recommender/lib/plex"
	"github.com/cinelog/recommender/lib/ratings"
	"github.com/cinelog/recommender/lib/recommend"
	"github.com/cinelog/recommender/lib/tmdb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	gormDB, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{
		Logger: db.NewGormLogger(logger),
	})
	if err != nil {
		logger.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := db.RunMigrations(gormDB, logger); err != nil {
		logger.Error("Failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	store := ratings.NewStore(gormDB, logger)
	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, logger)
	recommender := recommend.New(store, tmdbClient, cfg.Recommend, logger)

	var importer handlers.PlexImporter
	if cfg.Plex.Enabled {
		plexClient := plex.NewClient(cfg.Plex.URL, cfg.Plex.Token, logger)
		importer = plex.NewImporter(plexClient, tmdbClient, store, lock.NewFileLock(logger), cfg.Plex.ImplicitRating, logger)
	}

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", health.Check(gormDB))
	router.Post("/recommendations", handlers.HandleRecommendations(recommender))
	router.Get("/ratings", handlers.HandleGetRating(store))
	router.Post("/ratings", handlers.HandleSetRating(store))
	router.Delete("/ratings", handlers.HandleDeleteRating(store))
	router.Post("/import/plex", handlers.HandleImportPlex(importer))

	logger.Info("Starting server", slog.String("port", cfg.Server.Port))
	if err := http.ListenAndServe(":"+cfg.Server.Port, router); err != nil {
		logger.Error("Server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
