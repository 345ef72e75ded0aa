package bootstrap

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"resume-builder-backend/internal/services/health"
	"resume-builder-backend/internal/shared/config"
	"resume-builder-backend/internal/shared/server"
	"resume-builder-backend/internal/shared/storage/db"
	"resume-builder-backend/internal/shared/storage/docstore"
	"resume-builder-backend/internal/shared/telemetry"
	"resume-builder-backend/internal/userdetails"
	"resume-builder-backend/internal/users"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Mongo              *docstore.Store
	UsersRepo          users.Repo
	UserDetailsRepo    userdetails.Repo
	UsersService       *users.Service
	UserDetailsService *userdetails.Service
	UsersHandler       *users.Handler
	UserDetailsHandler *userdetails.Handler
	Health             *health.Service
}

// Build connects the configured store, wires repositories, services and
// handlers, and constructs the router. A store that cannot be reached is an
// error; there is no fallback to memory.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.StoreDriver) == "" {
		cfg.StoreDriver = config.StoreMemory
	}
	app := &App{Config: cfg}

	var pinger health.Pinger
	switch cfg.StoreDriver {
	case config.StoreMongo:
		if err := app.buildMongo(ctx); err != nil {
			return nil, err
		}
		pinger = app.Mongo
	case config.StorePostgres:
		if err := app.buildPostgres(ctx); err != nil {
			return nil, err
		}
		pinger = health.PingFunc(app.DB.PingContext)
	case config.StoreMemory:
		telemetry.Warn("bootstrap.store.memory", map[string]any{"env": cfg.Env})
		app.UsersRepo = users.NewMemoryRepo()
		app.UserDetailsRepo = userdetails.NewMemoryRepo()
	default:
		return nil, errors.Newf("unknown store driver %q", cfg.StoreDriver)
	}

	app.UsersService = users.NewService(app.UsersRepo, cfg.StoreOpTimeout)
	app.UserDetailsService = userdetails.NewService(app.UserDetailsRepo, app.UsersService, cfg.StoreOpTimeout)
	app.UsersHandler = users.NewHandler(app.UsersService)
	app.UserDetailsHandler = userdetails.NewHandler(app.UserDetailsService)
	app.Health = health.NewService(cfg.StoreDriver, pinger)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		UsersHandler:       app.UsersHandler,
		UserDetailsHandler: app.UserDetailsHandler,
		Health:             app.Health,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":   cfg.Env,
		"store": cfg.StoreDriver,
	})
	return app, nil
}

func (a *App) buildMongo(ctx context.Context) error {
	store, err := docstore.Connect(ctx, docstore.Options{
		URI:            a.Config.MongoURI,
		Database:       a.Config.MongoDatabase,
		ConnectTimeout: a.Config.MongoConnectTimeout,
	})
	if err != nil {
		return err
	}
	userRepo := users.NewMongoRepo(store.DB)
	detailsRepo := userdetails.NewMongoRepo(store.DB)

	indexCtx, cancel := context.WithTimeout(ctx, indexTimeout(a.Config))
	defer cancel()
	for coll, ensure := range map[string]func(context.Context) (string, error){
		users.CollectionName:       userRepo.EnsureIndexes,
		userdetails.CollectionName: detailsRepo.EnsureIndexes,
	} {
		name, err := ensure(indexCtx)
		if err != nil {
			_ = store.Close(context.Background())
			return err
		}
		telemetry.Info("mongo.index.ready", map[string]any{"collection": coll, "index": name})
	}

	a.Mongo = store
	a.UsersRepo = userRepo
	a.UserDetailsRepo = detailsRepo
	return nil
}

func (a *App) buildPostgres(ctx context.Context) error {
	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, a.Config.DatabaseURL, opts)
	if err != nil {
		return err
	}
	if a.Config.AutoMigrate {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return errors.Wrap(err, "run migrations")
		}
	}
	a.DB = sqlDB
	a.UsersRepo = &users.PGRepo{DB: sqlDB}
	a.UserDetailsRepo = &userdetails.PGRepo{DB: sqlDB}
	return nil
}

func indexTimeout(cfg config.Config) time.Duration {
	if cfg.MongoConnectTimeout > 0 {
		return cfg.MongoConnectTimeout
	}
	return 10 * time.Second
}

// Close releases the store connection.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	if a.Mongo != nil {
		if err := a.Mongo.Close(ctx); err != nil {
			return err
		}
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
