package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Neo4jContainer represents a Neo4j container for testing
type Neo4jContainer struct {
	Container testcontainers.Container
	Host      string
	Port      string
	User      string
	Password  string
}

// NewNeo4jContainer creates and starts a Neo4j container
func NewNeo4jContainer(ctx context.Context, t *testing.T) *Neo4jContainer {
	req := testcontainers.ContainerRequest{
		Image:        "neo4j:5.26-community",
		ExposedPorts: []string{"7687/tcp"},
		Env: map[string]string{
			"NEO4J_AUTH": "neo4j/lexgraph-test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("Started."),
			wait.ForListeningPort("7687/tcp"),
		).WithStartupTimeout(120 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to create neo4j container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "7687")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	return &Neo4jContainer{
		Container: container,
		Host:      host,
		Port:      port.Port(),
		User:      "neo4j",
		Password:  "lexgraph-test",
	}
}

// BoltURI returns the bolt connection URI
func (nc *Neo4jContainer) BoltURI() string {
	return fmt.Sprintf("bolt://%s:%s", nc.Host, nc.Port)
}

// Terminate stops and removes the container
func (nc *Neo4jContainer) Terminate(ctx context.Context) error {
	return testcontainers.TerminateContainer(nc.Container)
}

// RustFSContainer represents a RustFS container for testing the upload archive
type RustFSContainer struct {
	Container testcontainers.Container
	Host      string
	Port      string
}

// NewRustFSContainer creates and starts a RustFS container
func NewRustFSContainer(ctx context.Context, t *testing.T) *RustFSContainer {
	req := testcontainers.ContainerRequest{
		Image:        "rustfs/rustfs:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"RUSTFS_ACCESS_KEY": "rustfsadmin",
			"RUSTFS_SECRET_KEY": "rustfsadmin",
		},
		WaitingFor: wait.ForListeningPort("9000/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to create rustfs container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "9000")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	return &RustFSContainer{
		Container: container,
		Host:      host,
		Port:      port.Port(),
	}
}

// Endpoint returns the RustFS endpoint URL
func (rc *RustFSContainer) Endpoint() string {
	return fmt.Sprintf("http://%s:%s", rc.Host, rc.Port)
}

// Terminate stops and removes the container
func (rc *RustFSContainer) Terminate(ctx context.Context) error {
	return testcontainers.TerminateContainer(rc.Container)
}
