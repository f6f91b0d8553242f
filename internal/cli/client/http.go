package client

import (
	"fmt"
	"time"

	"github.com/cloo-solutions/feedback/internal/apiclient"
	"github.com/cloo-solutions/feedback/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	envAPIURL = "FEEDBACK_API_URL"

	defaultAPIURL = apiclient.DefaultBaseURL
)

// NewFeedbackServiceWithCmd builds the API client from the root flags and
// the URL cascade (flag -> env -> global config -> default).
func NewFeedbackServiceWithCmd(cmd *cobra.Command) (*apiclient.FeedbackService, error) {
	_ = godotenv.Load()

	flags := cmd.Flags()
	source, baseURL, err := ResolveAPIURL(stringFlag(flags, "api-url"))
	if err != nil {
		return nil, err
	}

	timeout, err := flags.GetDuration("timeout")
	if err != nil {
		timeout = apiclient.DefaultTimeout
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("--timeout must be positive, got %s", timeout)
	}

	logger.Named("cli").Debugw("using feedback API", "url", baseURL, "source", string(source), "timeout", timeout.String())

	client := apiclient.NewClient(apiclient.Config{
		BaseURL: baseURL,
		Timeout: timeout,
	})
	return apiclient.NewFeedbackService(client), nil
}

func stringFlag(flags *pflag.FlagSet, name string) string {
	v, err := flags.GetString(name)
	if err != nil {
		return ""
	}
	return v
}

func boolFlag(flags *pflag.FlagSet, name string) bool {
	v, err := flags.GetBool(name)
	if err != nil {
		return false
	}
	return v
}

// AddGlobalFlags registers the flags every client command understands.
func AddGlobalFlags(flags *pflag.FlagSet) {
	flags.Bool("output", false, "Output as JSON")
	flags.String("api-url", "", "API base URL (overrides env and config)")
	flags.Duration("timeout", 30*time.Second, "HTTP request timeout")
}
