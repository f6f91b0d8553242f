package client

import (
	"github.com/cloo-solutions/feedback/internal/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the feedback CLI.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "feedback",
		Short: "Feedback CLI - submit and look up provider feedback",
		Long: `Feedback CLI submits member feedback for providers and looks it up again.

Environment variables:
  FEEDBACK_API_URL     API base URL (default: ` + defaultAPIURL + `)
  FEEDBACK_LOG_LEVEL   Log level (debug, info, warn, error)`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd.PersistentFlags())
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(InitCmd())
	rootCmd.AddCommand(SubmitCmd())
	rootCmd.AddCommand(LookupCmd())
	rootCmd.AddCommand(GetCmd())
	rootCmd.AddCommand(ListCmd())

	return rootCmd
}
