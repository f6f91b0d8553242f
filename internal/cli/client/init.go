package client

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// InitCmd stores the API URL in the global config so later commands pick it up.
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [api-url]",
		Short: "Save the feedback API URL to the user config",
		Long: `Saves the API base URL to config.json in the user config directory.

The URL comes from the argument, then --api-url, then FEEDBACK_API_URL,
falling back to ` + defaultAPIURL + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flagURL := stringFlag(cmd.Flags(), "api-url")
			if len(args) == 1 {
				flagURL = args[0]
			}
			return runInit(cmd, flagURL)
		},
	}
}

func runInit(cmd *cobra.Command, flagURL string) error {
	apiURL := flagURL
	if apiURL == "" {
		apiURL = defaultAPIURL
		if env := os.Getenv(envAPIURL); env != "" {
			apiURL = env
		}
	}

	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if err := validateAPIURL(apiURL); err != nil {
		return err
	}

	if err := SaveGlobalConfig(&GlobalConfig{APIURL: apiURL}); err != nil {
		return err
	}

	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	if boolFlag(cmd.Flags(), "output") {
		return printJSON(cmd.OutOrStdout(), map[string]string{"api_url": apiURL, "config_path": path})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved API URL %s to %s\n", apiURL, path)
	return nil
}

func validateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid API URL %q: missing host", raw)
	}
	return nil
}
