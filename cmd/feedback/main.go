package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/feedback/internal/cli"
	"github.com/cloo-solutions/feedback/internal/cli/client"
	"github.com/cloo-solutions/feedback/internal/logger"
)

var version = "dev"

func main() {
	rootCmd := client.NewRootCmd(version)

	cli.CheckHelpJSON(rootCmd)
	err := rootCmd.Execute()
	_ = logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
