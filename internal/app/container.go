package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Olprog59/go-delegation/internal/config"
	"github.com/Olprog59/go-delegation/internal/formbridge"
	"github.com/Olprog59/go-delegation/internal/logging"
	"github.com/Olprog59/go-delegation/internal/metrics"
	"github.com/Olprog59/go-delegation/internal/ports"
	"github.com/Olprog59/go-delegation/internal/ratelimit"
	"github.com/Olprog59/go-delegation/internal/repository"
	"github.com/Olprog59/go-delegation/internal/repository/db"
	"github.com/Olprog59/go-delegation/internal/service"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite" // SQLite driver
)

// Container holds application dependencies / Contient les dépendances de l'application
type Container struct {
	Config *config.Config
	DB     *sql.DB

	UserRepo       ports.UserRepository
	OperationRepo  ports.OperationRepository
	PreferenceRepo ports.PreferenceRepository

	UserSvc       *service.UserService
	OperationSvc  *service.OperationService
	PreferenceSvc *service.PreferenceService
	Bridge        *formbridge.Bridge

	// Redis is nil unless redis.addr is configured / Nil sauf si redis.addr est configuré
	Redis *redis.Client

	// Limiters are nil when rate limiting is disabled / Nil si la limitation est désactivée
	GlobalLimiter ratelimit.Limiter
	UserLimiter   ratelimit.Limiter

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	ctx       context.Context
	ctxCancel context.CancelFunc
}

// NewContainer initializes application container on the default Prometheus registry / Initialise le conteneur
func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWithRegistry(cfg, nil)
}

// NewContainerWithRegistry initializes the container with its own metrics registry / Initialise le conteneur avec son registre
// A nil registry means the Prometheus default one.
func NewContainerWithRegistry(cfg *config.Config, reg *prometheus.Registry) (*Container, error) {
	c := &Container{Config: cfg}
	c.ctx, c.ctxCancel = context.WithCancel(context.Background())

	// Initialize metrics first (no dependencies)
	if reg != nil {
		c.Metrics = metrics.NewMetrics(reg)
		c.Gatherer = reg
	} else {
		c.Metrics = metrics.NewMetrics(prometheus.DefaultRegisterer)
		c.Gatherer = prometheus.DefaultGatherer
	}

	if err := c.initDatabase(); err != nil {
		c.Close()
		return nil, fmt.Errorf("database init: %w", err)
	}

	if err := c.RunMigrations(); err != nil {
		c.Close() // Ensure database connection is closed on migration failure
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	c.initRepositories()

	if err := c.initServices(); err != nil {
		c.Close()
		return nil, fmt.Errorf("service init: %w", err)
	}

	if err := c.initRateLimiting(); err != nil {
		c.Close()
		return nil, fmt.Errorf("rate limiter init: %w", err)
	}

	if cfg.Backup.Enabled {
		c.startBackupRoutine(c.ctx)
	}

	c.UpdateDatabaseMetrics()
	return c, nil
}

// LoggingOptions maps the logging section to logging.Options / Convertit la section logging
func LoggingOptions(cfg *config.Config) logging.Options {
	return logging.Options{
		Level:         cfg.Logging.Level,
		Format:        cfg.Logging.Format,
		AddSource:     cfg.IsProduction(),
		LokiEnabled:   cfg.Logging.LokiEnabled,
		LokiURL:       cfg.Logging.LokiURL,
		LokiLabels:    cfg.Logging.LokiLabels,
		LokiBatchSize: cfg.Logging.LokiBatchSize,
	}
}

func (c *Container) dbType() db.DatabaseType {
	dbType, ok := db.ParseDatabaseType(c.Config.Database.Type)
	if !ok {
		return db.SQLite
	}
	return dbType
}

// initDatabase initializes database connection / Initialise la connexion à la base de données
func (c *Container) initDatabase() error {
	dbType := c.dbType()

	// Use Factory Pattern to create appropriate initializer
	initializer := db.NewDatabaseInitializer(dbType)

	database, err := initializer.Initialize(db.DatabaseConfig{
		Type:         dbType,
		DSN:          c.Config.Database.DSN,
		MaxOpenConns: c.Config.Database.MaxOpenConns,
		MaxIdleConns: c.Config.Database.MaxIdleConns,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize %s database: %w", dbType, err)
	}

	c.DB = database
	return nil
}

// RunMigrations applies database migrations / Applique les migrations de base de données
func (c *Container) RunMigrations() error {
	registry := db.NewMigrationDriverRegistry()
	return registry.RunMigrations(c.DB, c.dbType(), c.Config.Database.MigrationsDir())
}

// initRepositories initializes repositories / Initialise les repositories
func (c *Container) initRepositories() {
	// Use Adapter Pattern for clean database abstraction
	adapter := repository.NewAdapter(c.DB, c.Config.Database.Type)

	c.UserRepo = adapter.UserRepository()
	c.OperationRepo = adapter.OperationRepository()
	c.PreferenceRepo = adapter.PreferenceRepository()

	slog.Debug("repositories initialized", "type", c.dbType())
}

// initServices initializes application services / Initialise les services applicatifs
func (c *Container) initServices() error {
	c.UserSvc = service.NewUserService(c.UserRepo)
	c.OperationSvc = service.NewOperationService(c.OperationRepo, c.Metrics)
	c.PreferenceSvc = service.NewPreferenceService(c.PreferenceRepo)

	catalog, err := formbridge.LoadCatalog(c.Config.Forms.CatalogPath, c.Config.Forms.EmbedBaseURL)
	if err != nil {
		return fmt.Errorf("form catalog: %w", err)
	}
	c.Bridge = formbridge.NewBridge(c.OperationSvc, catalog, c.Metrics)

	slog.Info("form catalog loaded", "forms", len(catalog.All()), "path", c.Config.Forms.CatalogPath)
	return nil
}

// initRateLimiting connects Redis and builds the global and per-user limiters / Connecte Redis et construit les limiteurs
func (c *Container) initRateLimiting() error {
	rl := c.Config.RateLimiter

	if c.Config.Redis.Addr != "" {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Addr,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(c.ctx, 3*time.Second)
		defer cancel()
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			if rl.Enabled && rl.Backend == ratelimit.BackendRedis {
				return fmt.Errorf("redis ping %s: %w", c.Config.Redis.Addr, err)
			}
			slog.Warn("redis unreachable", "addr", c.Config.Redis.Addr, "err", err)
		}
	}

	if !rl.Enabled {
		slog.Info("rate limiting disabled")
		return nil
	}

	var err error
	c.GlobalLimiter, err = ratelimit.New(c.ctx, ratelimit.Options{
		Backend:   rl.Backend,
		RPS:       rl.RPS,
		Burst:     rl.Burst,
		Name:      "global",
		KeyPrefix: c.Config.Redis.KeyPrefix,
	}, c.Redis)
	if err != nil {
		return err
	}

	c.UserLimiter, err = ratelimit.New(c.ctx, ratelimit.Options{
		Backend:   rl.Backend,
		RPS:       rl.RPS,
		Burst:     rl.Burst,
		Name:      "user",
		KeyPrefix: c.Config.Redis.KeyPrefix,
	}, c.Redis)
	if err != nil {
		return err
	}

	slog.Info("rate limiting enabled", "backend", rl.Backend, "rps", rl.RPS, "burst", rl.Burst)
	return nil
}

// UpdateDatabaseMetrics updates database metrics / Met à jour les métriques de la BD
func (c *Container) UpdateDatabaseMetrics() {
	stats := c.DB.Stats()
	c.Metrics.UpdateDatabaseConnections(stats.OpenConnections)
}

// Close performs graceful shutdown / Effectue un arrêt gracieux
// The limiters' cleanup goroutines stop with the container context.
func (c *Container) Close() error {
	if c.ctxCancel != nil {
		c.ctxCancel()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			slog.Warn("closing redis", "err", err)
		}
	}
	if c.DB != nil {
		slog.Info("closing database")
		return c.DB.Close()
	}
	return nil
}
