package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/feedback/internal/cli"
	"github.com/cloo-solutions/feedback/internal/cli/admin"
	"github.com/cloo-solutions/feedback/internal/logger"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "feedbackd",
		Short:        "Feedback API daemon",
		Long:         "Feedback daemon for running the API server, the HTML views and database migrations",
		SilenceUsage: true,
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.WebCmd())
	rootCmd.AddCommand(admin.MigrateCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	err := rootCmd.Execute()
	_ = logger.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
