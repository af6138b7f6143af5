package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-directory/config"
	"restaurant-directory/handlers"
	"restaurant-directory/helper"
	"restaurant-directory/logger"
	"restaurant-directory/media"
	"restaurant-directory/middleware"
	"restaurant-directory/repositories"
	"restaurant-directory/services"
	"restaurant-directory/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	serveCmd := newServeCmd(&envFile)
	cmd := &cobra.Command{
		Use:           "restaurant-directory",
		Short:         "Restaurant directory API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	cmd.AddCommand(serveCmd, newMigrateCmd(&envFile))
	return cmd
}

func newServeCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
			slog.SetDefault(log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

func newMigrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the postgres schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			if cfg.DBDriver != config.DriverPostgres {
				return fmt.Errorf("migrate only applies to DB_DRIVER=%s, got %s", config.DriverPostgres, cfg.DBDriver)
			}
			db, err := config.InitDB(cfg.PostgresDSN())
			if err != nil {
				return err
			}
			if err := config.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	// Initialize repositories
	restaurantRepo, hashtagRepo, closeDB, err := openRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	// Initialize blob store
	store, err := openBlobStore(ctx, cfg)
	if err != nil {
		return err
	}
	observer, err := storage.NewPrometheusObserver("restaurant_blob_store", prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	blobs := storage.NewObservedStore(store, observer)

	// Initialize services
	normalizer := media.NewNormalizer(cfg.ImageMaxWidth, cfg.ImageMaxHeight, cfg.ImageQuality)
	assetService := services.NewAssetService(blobs, normalizer, cfg.UploadConcurrency, log.With("component", "assets"))
	restaurantService := services.NewRestaurantService(restaurantRepo, hashtagRepo, assetService, blobs,
		helper.NewValidator(), log.With("component", "restaurants"))
	hashtagService := services.NewHashtagService(hashtagRepo, log.With("component", "hashtags"))

	// Initialize handlers
	httpHelper := helper.NewHTTPHelper(log)
	metrics, err := middleware.NewHTTPMetrics("restaurant_http", prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.RouterConfig{
		Restaurants: handlers.NewRestaurantHandler(restaurantService, httpHelper, cfg.UploadMaxBytes),
		Hashtags:    handlers.NewHashtagHandler(hashtagService, httpHelper),
		Logger:      log,
		Metrics:     metrics,
		Gatherer:    prometheus.DefaultGatherer,
		JWTSecret:   []byte(cfg.JWTSecret),
	})
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, write routes are unauthenticated")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "db_driver", cfg.DBDriver, "storage_driver", cfg.StorageDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openRepositories(ctx context.Context, cfg *config.Config, log *slog.Logger) (repositories.RestaurantRepository, repositories.HashtagRepository, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := config.InitDB(cfg.PostgresDSN())
		if err != nil {
			return nil, nil, nil, err
		}
		if err := config.Migrate(db); err != nil {
			return nil, nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repositories.NewRestaurantRepository(db), repositories.NewHashtagRepository(db), closeDB, nil
	case config.DriverMongo:
		client, db, err := config.InitMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, nil, err
		}
		closeDB := func() { _ = client.Disconnect(context.Background()) }
		return repositories.NewMongoRestaurantRepository(db), repositories.NewMongoHashtagRepository(db), closeDB, nil
	default:
		log.Warn("using in-memory document store, data is lost on restart")
		mem := repositories.NewMemoryStore()
		return mem.Restaurants(), mem.Hashtags(), func() {}, nil
	}
}

func openBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	if cfg.StorageDriver == config.DriverMemory {
		return storage.NewMemoryStore(cfg.Bucket), nil
	}
	store, err := storage.NewS3Store(ctx, storage.S3Config{
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Endpoint:        cfg.S3Endpoint,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}
