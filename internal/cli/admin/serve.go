package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cloo-solutions/feedback/internal/api/handlers"
	"github.com/cloo-solutions/feedback/internal/apiclient"
	"github.com/cloo-solutions/feedback/internal/config"
	"github.com/cloo-solutions/feedback/internal/database"
	"github.com/cloo-solutions/feedback/internal/logger"
	"github.com/cloo-solutions/feedback/internal/repository"
	"github.com/cloo-solutions/feedback/internal/server"
	"github.com/cloo-solutions/feedback/internal/service"
	"github.com/cloo-solutions/feedback/internal/telemetry"
	"github.com/cloo-solutions/feedback/internal/web"
	"github.com/spf13/cobra"
)

const (
	defaultMigrationsDir = "migrations"
	shutdownTimeout      = 30 * time.Second
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the feedback API server, with the HTML views mounted at / unless --no-web is set",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides FEEDBACK_PORT)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().Bool("no-web", false, "Serve the REST API only")
	cmd.Flags().String("migrations-dir", defaultMigrationsDir, "Directory holding the SQL migrations")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Named("serve")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	flush := initTelemetry(cfg.SentryDSN, cfg.Environment)
	defer flush()

	pool, err := database.NewPool(ctx, database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Info("connected to database")

	if noMigrate, _ := cmd.Flags().GetBool("no-migrate"); !noMigrate {
		dir, _ := cmd.Flags().GetString("migrations-dir")
		if err := runMigrations(cfg.DatabaseURL, dir); err != nil {
			return err
		}
	}

	feedbackSvc := service.NewFeedbackService(repository.NewFeedbackRepository(pool))
	routerCfg := server.RouterConfig{
		FeedbackHandler: handlers.NewFeedbackHandler(feedbackSvc),
	}

	if noWeb, _ := cmd.Flags().GetBool("no-web"); !noWeb {
		baseURL := selfAPIURL(cfg.Web.APIBaseURL, cfg.Port)
		webHandler, err := newWebHandler(baseURL, cfg.Web.ClientTimeout)
		if err != nil {
			return err
		}
		routerCfg.Web = webHandler
		log.Infow("web views enabled", "api_base_url", baseURL)
	}

	return listenAndServe(ctx, ":"+cfg.Port, server.NewRouter(routerCfg))
}

// selfAPIURL points the views at this process when the API base URL was
// left at its default but the port was changed.
func selfAPIURL(configured, port string) string {
	if configured == apiclient.DefaultBaseURL && port != "" {
		return "http://localhost:" + port + server.APIPrefix
	}
	return strings.TrimRight(configured, "/")
}

func newWebHandler(baseURL string, timeout time.Duration) (*web.Handler, error) {
	client := apiclient.NewClient(apiclient.Config{BaseURL: baseURL, Timeout: timeout})
	h, err := web.NewHandler(apiclient.NewFeedbackService(client))
	if err != nil {
		return nil, fmt.Errorf("failed to build web views: %w", err)
	}
	return h, nil
}

func initTelemetry(dsn, environment string) func() {
	// 10% sampling in production, everything elsewhere
	sampleRate := 1.0
	if environment == "production" {
		sampleRate = 0.1
	}

	flush, err := telemetry.Init(telemetry.Config{
		DSN:              dsn,
		Environment:      environment,
		TracesSampleRate: sampleRate,
	})
	if err != nil {
		logger.Named("serve").Warnw("telemetry init failed, continuing without tracing", "error", err)
		return func() {}
	}
	return flush
}

// listenAndServe runs srv until ctx is cancelled, then drains it.
func listenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	log := logger.Named("serve")

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
