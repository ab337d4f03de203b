package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/vitrine/internal/app/controllers"
	appMigrations "github.com/yigit/vitrine/internal/app/migrations"
	appRepos "github.com/yigit/vitrine/internal/app/repositories"
	appRoutes "github.com/yigit/vitrine/internal/app/routes"
	appServices "github.com/yigit/vitrine/internal/app/services"
	"github.com/yigit/vitrine/internal/config"
	"github.com/yigit/vitrine/internal/db"
	appMiddleware "github.com/yigit/vitrine/internal/middleware"
	"github.com/yigit/vitrine/internal/pkg/filestorage"
	"github.com/yigit/vitrine/internal/pkg/logger"
	"github.com/yigit/vitrine/internal/pkg/sessioncache"
	"github.com/yigit/vitrine/internal/seed"
	"github.com/yigit/vitrine/web"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	Services          *appServices.Services
	MainController    *appControllers.MainController
	AlunoController   *appControllers.AlunoController
	ProjetoController *appControllers.ProjetoController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	FileStorage       *filestorage.LocalStorage
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	level := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  level,
		Pretty: logger.ParseFormat(cfg.Logging.Format),
	})
	lgr.Info().Str("logLevel", string(level)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to postgres and applies the migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("dbname", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := RunMigrations(ctx, database, lgr); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool, lgr).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SeedAdmin makes sure the configured administrator account exists.
func SeedAdmin(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) (bool, error) {
	return seed.EnsureAdmin(ctx, repos.AlunoRepository, seed.AdminAccount{
		Name:         cfg.Admin.Name,
		Email:        cfg.Admin.Email,
		PasswordHash: cfg.Admin.PasswordHash,
	}, lgr)
}

// SetupSessionCache returns the redis backed cache when enabled. The client
// is returned so the caller can close it; it is nil when redis is off or
// unreachable, in which case sessions are resolved from the database only.
func SetupSessionCache(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (sessioncache.Cache, *redis.Client) {
	if !cfg.Redis.Enabled {
		lgr.Info().Msg("Session cache disabled")
		return sessioncache.NopCache{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rdb, err := sessioncache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, continuing without session cache")
		return sessioncache.NopCache{}, nil
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Session cache connected")
	return sessioncache.NewRedisCache(rdb, cfg.SessionMaxAge()), rdb
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, cache sessioncache.Cache, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StaticDir, "/static")
	if err != nil {
		lgr.Error().Err(err).Str("path", cfg.Server.StaticDir).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Services = appServices.NewServices(deps.Repos, database, deps.FileStorage, cache, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Services.AuthService, cfg.Session.CookieName)

	cookie := appControllers.SessionCookie{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.MaxAgeSeconds,
		Secure: cfg.IsProduction(),
	}
	deps.MainController = appControllers.NewMainController(
		deps.Services.AuthService,
		deps.Services.ProjetoService,
		cookie,
		database.Pool.Ping,
	)
	deps.AlunoController = appControllers.NewAlunoController(deps.Services.AlunoService, cfg.Pagination.DefaultSize)
	deps.ProjetoController = appControllers.NewProjetoController(
		deps.Services.ProjetoService,
		cfg.Pagination.DefaultSize,
		cfg.MaxUploadBytes(),
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with templates, middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(templates)
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	router.Static("/static", cfg.Server.StaticDir)
	lgr.Info().Str("path", cfg.Server.StaticDir).Msg("Static file serving configured")

	if !cfg.IsProduction() {
		appRoutes.SetupSwagger(router)
	}

	router.Use(deps.AuthMiddleware.SessionAuth())
	appRoutes.SetupRouter(router,
		deps.MainController,
		deps.AlunoController,
		deps.ProjetoController,
		deps.AuthMiddleware,
	)

	return router, nil
}
