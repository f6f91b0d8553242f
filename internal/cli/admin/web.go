package admin

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/cloo-solutions/feedback/internal/config"
	"github.com/cloo-solutions/feedback/internal/logger"
	"github.com/cloo-solutions/feedback/internal/server"
	"github.com/spf13/cobra"
)

// WebCmd serves only the HTML views, talking to a remote feedback API.
func WebCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the HTML views against a remote API",
		Long:  "Serve the submission and lookup pages. Requests go to FEEDBACK_API_BASE_URL; no database is needed.",
		RunE:  runWeb,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides FEEDBACK_PORT)")
	cmd.Flags().String("api-url", "", "Feedback API base URL (overrides FEEDBACK_API_BASE_URL)")

	return cmd
}

func runWeb(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWeb()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}
	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		cfg.APIBaseURL = apiURL
	}

	flush := initTelemetry(cfg.SentryDSN, cfg.Environment)
	defer flush()

	webHandler, err := newWebHandler(cfg.APIBaseURL, cfg.ClientTimeout)
	if err != nil {
		return err
	}
	logger.Named("web").Infow("serving views", "api_base_url", cfg.APIBaseURL)

	return listenAndServe(ctx, ":"+cfg.Port, server.NewRouter(server.RouterConfig{Web: webHandler}))
}
