package admin

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexgraph-ai/lexgraph/internal/config"
	"github.com/lexgraph-ai/lexgraph/internal/graph"
	"github.com/lexgraph-ai/lexgraph/internal/service"
)

// SeedCmd returns the seed command. It loads a directory of legal reference
// documents into the graph as default documents, which rank highest in
// retrieval and cannot be deleted through the member API.
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load default legal documents into the graph",
		Long:  "Ingest every supported file in a directory as a default document",
		RunE:  runSeed,
	}

	cmd.Flags().StringP("dir", "d", "seed", "Directory of documents to ingest")
	cmd.Flags().String("email", "system@lexgraph.local", "Owner recorded on seeded documents")
	cmd.Flags().String("org", "", "Organization recorded on seeded documents")

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasNeo4j() {
		return fmt.Errorf("NEO4J_URI is required")
	}

	dir, _ := cmd.Flags().GetString("dir")
	email, _ := cmd.Flags().GetString("email")
	org, _ := cmd.Flags().GetString("org")

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

	graphClient.EnsureSchema(ctx)
	store := graph.NewStore(graphClient)
	uploadSvc := service.NewUploadService(store, nil, cfg.MaxUploadBytes)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read seed directory: %w", err)
	}

	ingested := 0
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		result, err := uploadSvc.Upload(ctx, service.UploadInput{
			FileName:     entry.Name(),
			Data:         data,
			MemberEmail:  email,
			Organization: org,
			IsDefault:    true,
		})
		if err != nil {
			log.Printf("seed: skipping %s: %v", entry.Name(), err)
			continue
		}

		log.Printf("seed: ingested %s (%d chunks, %d pages)", result.FileName, result.ChunkCount, result.PageCount)
		ingested++
	}

	log.Printf("seed: %d documents ingested from %s", ingested, dir)
	return nil
}
