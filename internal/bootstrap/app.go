package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"mealplan-backend/internal/exports"
	"mealplan-backend/internal/mealplan"
	"mealplan-backend/internal/services/health"
	"mealplan-backend/internal/sessions"
	"mealplan-backend/internal/shared/config"
	"mealplan-backend/internal/shared/server"
	"mealplan-backend/internal/shared/server/middleware"
	"mealplan-backend/internal/shared/storage/db"
	"mealplan-backend/internal/shared/storage/object"
	localstore "mealplan-backend/internal/shared/storage/object/local"
	s3store "mealplan-backend/internal/shared/storage/object/s3"
	"mealplan-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the HTTP router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	SessionsRepo    sessions.Repo
	Pipeline        *mealplan.Pipeline
	SessionsService *sessions.Service
	ExportsService  *exports.Service
	SessionsHandler *sessions.Handler
	ExportsHandler  *exports.Handler
}

// Build wires configuration into services, handlers and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	policy, err := mealplan.PolicyByName(cfg.AdjustPolicy)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, repo, err := buildSessionsRepo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:       cfg,
		DB:           sqlDB,
		Store:        store,
		SessionsRepo: repo,
		Pipeline:     mealplan.NewPipeline(policy),
	}
	app.SessionsService = &sessions.Service{
		Repo:     repo,
		Pipeline: app.Pipeline,
		Store:    store,
		TTL:      cfg.SessionTTL,
	}
	app.ExportsService = &exports.Service{
		Store:    store,
		Sessions: app.SessionsService,
	}
	app.SessionsHandler = sessions.NewHandler(app.SessionsService, cfg.MaxUploadBytes)
	app.ExportsHandler = exports.NewHandler(app.ExportsService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		SessionHandler: app.SessionsHandler,
		ExportHandler:  app.ExportsHandler,
		Health:         health.NewService(sqlDB, app.Pipeline.Policy.Name()),
		RateLimiter:    middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":           cfg.Env,
		"object_store":  cfg.ObjectStoreType,
		"session_store": cfg.SessionStore,
		"adjust_policy": app.Pipeline.Policy.Name(),
	})
	return app, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildSessionsRepo(ctx context.Context, cfg config.Config) (*sql.DB, sessions.Repo, error) {
	if cfg.SessionStore != "sqlite" {
		return nil, sessions.NewMemoryRepo(), nil
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	switch {
	case db.IsMemoryDSN(cfg.SessionDSN):
		sqlDB, err = db.GetSingleton(ctx, cfg.SessionDSN, db.OptionsFromEnv(db.DefaultMemoryOptions()))
	case db.IsLambdaRuntime():
		sqlDB, err = db.GetSingleton(ctx, cfg.SessionDSN, db.OptionsFromEnv(db.DefaultLambdaOptions()))
	default:
		sqlDB, err = db.Connect(ctx, cfg.SessionDSN, db.OptionsFromEnv(db.DefaultServerOptions()))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("connect session store: %w", err)
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, nil, fmt.Errorf("migrate session store: %w", err)
	}
	return sqlDB, &sessions.SQLRepo{DB: sqlDB}, nil
}
