// Package graph provides access to the Neo4j store that holds documents,
// chunks, entities, members, and web-derived legal updates.
package graph

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ClientConfig holds connection settings for the graph store.
type ClientConfig struct {
	URI      string
	User     string
	Password string
	Database string
	Timeout  time.Duration
	MaxPool  int
}

// Client wraps the Neo4j driver. Sessions are opened per call; the driver
// itself pools connections.
type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
}

// NewClient connects to the graph store and verifies connectivity.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("graph: NEO4J_URI is required")
	}
	if cfg.User == "" {
		cfg.User = "neo4j"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxPool <= 0 {
		cfg.MaxPool = 50
	}

	auth := neo4j.BasicAuth(cfg.User, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = cfg.MaxPool
		c.SocketConnectTimeout = cfg.Timeout
	})
	if err != nil {
		return nil, fmt.Errorf("graph: init driver: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("graph: verify connectivity: %w", err)
	}

	return &Client{Driver: driver, Database: cfg.Database}, nil
}

// Close releases the underlying driver.
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}

func (c *Client) readSession(ctx context.Context) neo4j.SessionWithContext {
	return c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: c.Database,
	})
}

func (c *Client) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: c.Database,
	})
}

// EnsureSchema creates constraints and indexes. Best-effort: restricted
// users may not be allowed to run schema statements.
func (c *Client) EnsureSchema(ctx context.Context) {
	session := c.writeSession(ctx)
	defer session.Close(ctx)

	statements := []string{
		`CREATE CONSTRAINT member_email_unique IF NOT EXISTS FOR (m:Member) REQUIRE m.email IS UNIQUE`,
		`CREATE CONSTRAINT entity_name_unique IF NOT EXISTS FOR (e:Entity) REQUIRE e.name IS UNIQUE`,
		`CREATE INDEX document_file_owner_idx IF NOT EXISTS FOR (d:Document) ON (d.fileName, d.uploadedBy)`,
		`CREATE INDEX chunk_created_idx IF NOT EXISTS FOR (c:Chunk) ON (c.createdAt)`,
	}
	for _, stmt := range statements {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			log.Printf("graph: schema init failed (continuing): %v", err)
			continue
		}
		_, _ = res.Consume(ctx)
	}
}

// timeFormat is how timestamps are stored on nodes. RFC3339 in UTC keeps
// lexicographic ordering equal to chronological ordering.
const timeFormat = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func stringValue(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func intValue(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func floatValue(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func boolValue(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}
