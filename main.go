package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eceeb/search-portal/internal/api"
	"github.com/eceeb/search-portal/internal/cli"
	"github.com/eceeb/search-portal/internal/config"
	"github.com/eceeb/search-portal/internal/database"
	"github.com/eceeb/search-portal/internal/logger"
	"github.com/eceeb/search-portal/internal/services"
)

const usage = `usage: search-portal [command] [flags]

commands:
  serve        run the HTTP server (default)
  migrate      apply database migrations and exit
  inspect      print the newest users and search queries
  create-user  create an account: -username NAME -email EMAIL, password from the terminal or stdin
`

func main() {
	logger.Init("info", true)

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	ctx := context.Background()

	// Set up database
	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{MaxOpenConns: cfg.MaxOpenConns})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	userService := services.NewUserService(db)
	searchQueryService := services.NewSearchQueryService(db)

	switch cmd {
	case "serve":
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		err = serve(cfg, db, userService, searchQueryService, quit)
	case "migrate":
		log.Info().Str("dialect", string(db.Dialect)).Msg("Migrations applied")
	case "inspect":
		err = cli.Inspect(ctx, os.Stdout, userService, searchQueryService)
	case "create-user":
		err = cli.CreateUser(ctx, args, os.Stdin, os.Stdout, userService)
	default:
		fmt.Fprint(os.Stderr, usage)
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		db.Close()
		log.Fatal().Err(err).Str("command", cmd).Msg("Command failed")
	}
}

// serve runs the HTTP server until it fails or a signal arrives on stop.
func serve(cfg *config.Config, db *database.DB, users *services.UserService, queries *services.SearchQueryService, stop <-chan os.Signal) error {
	// Set up router
	router := api.NewRouter(cfg.AllowedOrigins, users, queries)

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("dialect", string(db.Dialect)).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exiting")
	return nil
}
