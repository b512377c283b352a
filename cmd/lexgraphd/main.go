package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexgraph-ai/lexgraph/internal/cli"
	"github.com/lexgraph-ai/lexgraph/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lexgraphd",
		Short: "Lexgraph daemon and CLI",
		Long:  "Lexgraph daemon for running the legal diagnosis API server and managing the document graph",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.SeedCmd())
	rootCmd.AddCommand(admin.StatsCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
