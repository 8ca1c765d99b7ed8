package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medref/medref/internal/config"
	"github.com/medref/medref/internal/domain/catalog"
	"github.com/medref/medref/internal/domain/condition"
	"github.com/medref/medref/internal/domain/guideline"
	"github.com/medref/medref/internal/domain/identity"
	"github.com/medref/medref/internal/domain/medication"
	"github.com/medref/medref/internal/domain/reference"
	"github.com/medref/medref/internal/domain/specialty"
	"github.com/medref/medref/internal/importer"
	"github.com/medref/medref/internal/platform/audit"
	"github.com/medref/medref/internal/platform/auth"
	"github.com/medref/medref/internal/platform/db"
	"github.com/medref/medref/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medref-server",
		Short: "Medical reference catalog API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(relationshipsCmd())
	rootCmd.AddCommand(userCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	}
	return logger
}

func connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	return db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
}

// services bundles the wired domain layer for reuse between serve and the
// data commands.
type services struct {
	specialties *specialty.Service
	conditions  *condition.Service
	medications *medication.Service
	references  *reference.Service
	guidelines  *guideline.Service
	identity    *identity.Service
	catalog     *catalog.Service
}

func buildServices(pool *pgxpool.Pool, cfg *config.Config) *services {
	runner := db.NewTxRunner(pool)
	tracker := audit.NewTracker(audit.NewStorePG(pool))

	specialtySvc := specialty.NewService(specialty.NewRepoPG(pool))
	conditionSvc := condition.NewService(condition.NewRepoPG(pool), tracker, runner)
	medicationSvc := medication.NewService(medication.NewRepoPG(pool), tracker, runner)
	referenceSvc := reference.NewService(reference.NewRepoPG(pool))
	guidelineSvc := guideline.NewService(guideline.NewRepoPG(pool), tracker, runner)

	identitySvc := identity.NewService(
		identity.NewUserRepoPG(pool),
		identity.NewFavoriteRepoPG(pool),
		[]byte(cfg.JWTSecret),
		cfg.JWTTTL(),
	)
	identitySvc.RegisterChecker(identity.ItemCondition, conditionSvc)
	identitySvc.RegisterChecker(identity.ItemMedication, medicationSvc)
	identitySvc.RegisterChecker(identity.ItemReference, referenceSvc)
	identitySvc.RegisterChecker(identity.ItemGuideline, guidelineSvc)

	catalogSvc := catalog.NewService(conditionSvc, medicationSvc, referenceSvc, guidelineSvc)

	return &services{
		specialties: specialtySvc,
		conditions:  conditionSvc,
		medications: medicationSvc,
		references:  referenceSvc,
		guidelines:  guidelineSvc,
		identity:    identitySvc,
		catalog:     catalogSvc,
	}
}

func (s *services) importerStores() importer.Stores {
	return importer.Stores{
		Conditions:  s.conditions,
		Medications: s.medications,
		References:  s.references,
		Guidelines:  s.guidelines,
		Specialties: s.specialties,
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx := context.Background()
	pool, err := connect(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	svcs := buildServices(pool, cfg)
	secret := []byte(cfg.JWTSecret)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Read endpoints are public; tokens are still decoded when present so
	// handlers can see who is asking.
	api := e.Group("/api", auth.Optional(secret))

	cacheStore := middleware.NewInMemoryCacheStore()
	cacheCtx, cancelCache := context.WithCancel(ctx)
	defer cancelCache()
	cacheStore.StartCleanup(cacheCtx, time.Minute)
	responseCache := middleware.ResponseCache(cacheStore, cfg.CacheTTL())
	api.Use(responseCache)

	// Mutations require a token; role checks sit on the individual routes.
	// They share the cache middleware so a successful write drops every
	// cached read before the TTL runs out.
	admin := e.Group("/api", auth.Middleware(secret))
	admin.Use(responseCache)
	authed := e.Group("/api", auth.Middleware(secret))

	specialty.NewHandler(svcs.specialties).RegisterRoutes(api, admin)
	condition.NewHandler(svcs.conditions).RegisterRoutes(api, admin)
	medication.NewHandler(svcs.medications).RegisterRoutes(api, admin)
	reference.NewHandler(svcs.references).RegisterRoutes(api, admin)
	guideline.NewHandler(svcs.guidelines).RegisterRoutes(api, admin)
	catalog.NewHandler(svcs.catalog).RegisterRoutes(api)
	identity.NewHandler(svcs.identity).RegisterRoutes(api, authed)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": "0.1.0"})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, cfg.MigrationsDir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s).\n", count)
			return nil
		},
	}
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, cfg.MigrationsDir).Status(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import the built-in specialty datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			keepHistory, _ := cmd.Flags().GetBool("keep-history")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx := context.Background()
			pool, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			svcs := buildServices(pool, cfg)
			seeder := importer.NewSeeder(svcs.importerStores(), svcs.medications, logger)
			if err := seeder.Run(ctx, keepHistory); err != nil {
				return err
			}
			fmt.Println("Seed complete.")
			return nil
		},
	}
	cmd.Flags().Bool("keep-history", false, "Record history rows for seeded entities")
	return cmd
}

func relationshipsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relationships",
		Short: "Rebuild derived medication relationships",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			svcs := buildServices(pool, cfg)
			count, err := svcs.medications.RegenerateRelationships(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Derived %d relationship edge(s).\n", count)
			return nil
		},
	}
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			email, _ := cmd.Flags().GetString("email")
			role, _ := cmd.Flags().GetString("role")
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			svcs := buildServices(pool, cfg)
			u, err := svcs.identity.Register(ctx, username, email, password, role)
			if err != nil {
				return err
			}
			fmt.Printf("Created user %s (%s) with role %s.\n", u.Username, u.ID, u.Role)
			return nil
		},
	}
	createCmd.Flags().String("username", "", "Login name")
	createCmd.Flags().String("password", "", "Password")
	createCmd.Flags().String("email", "", "Email address")
	createCmd.Flags().String("role", "viewer", "Role: viewer, editor or admin")
	cmd.AddCommand(createCmd)

	return cmd
}
