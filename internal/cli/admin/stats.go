package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexgraph-ai/lexgraph/internal/config"
	"github.com/lexgraph-ai/lexgraph/internal/graph"
)

// StatsCmd returns the stats command, printing member and document counts
// from the graph as JSON.
func StatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print graph statistics",
		Long:  "Print aggregate member and document statistics, or one member's stats with --email",
		RunE:  runStats,
	}

	cmd.Flags().String("email", "", "Show stats for one member")

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasNeo4j() {
		return fmt.Errorf("NEO4J_URI is required")
	}

	graphClient, err := graph.NewClient(ctx, graph.ClientConfig{
		URI:      cfg.Neo4jURI,
		User:     cfg.Neo4jUser,
		Password: cfg.Neo4jPassword,
		Database: cfg.Neo4jDatabase,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to graph store: %w", err)
	}
	defer graphClient.Close(ctx)

	store := graph.NewStore(graphClient)

	var result any
	if email, _ := cmd.Flags().GetString("email"); email != "" {
		result, err = store.MemberStats(ctx, email)
	} else {
		result, err = store.AggregateStats(ctx)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
