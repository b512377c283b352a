//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/lexgraph-ai/lexgraph/internal/api/handlers"
	"github.com/lexgraph-ai/lexgraph/internal/graph"
	"github.com/lexgraph-ai/lexgraph/internal/ratelimit"
	"github.com/lexgraph-ai/lexgraph/internal/server"
	"github.com/lexgraph-ai/lexgraph/internal/service"
	"github.com/lexgraph-ai/lexgraph/internal/testutil"
)

// E2ETestEnv holds all resources needed for E2E tests. The completion API
// and web search are left unconfigured on purpose: the suite exercises the
// rule-engine and template fallback paths against a real graph store.
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	Neo4jC       *testutil.Neo4jContainer
	GraphClient  *graph.Client
	Store        *graph.Store
	ServerURL    string
	ServerCloser func()
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with a Neo4j container
// and a running server
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	neo4jC := testutil.NewNeo4jContainer(ctx, t)

	graphClient, err := graph.NewClient(ctx, graph.ClientConfig{
		URI:      neo4jC.BoltURI(),
		User:     neo4jC.User,
		Password: neo4jC.Password,
	})
	if err != nil {
		neo4jC.Terminate(ctx)
		t.Fatalf("failed to connect to neo4j container: %v", err)
	}
	graphClient.EnsureSchema(ctx)

	store := graph.NewStore(graphClient)

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, store, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		Neo4jC:       neo4jC,
		GraphClient:  graphClient,
		Store:        store,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.GraphClient != nil {
		e.GraphClient.Close(e.Ctx)
	}
	if e.Neo4jC != nil {
		e.Neo4jC.Terminate(e.Ctx)
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path string) (int, *APIResponse, error) {
	return e.doRequest(http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body
func (e *E2ETestEnv) Post(path string, body interface{}) (int, *APIResponse, error) {
	return e.doRequest(http.MethodPost, path, body)
}

// Delete performs a DELETE request
func (e *E2ETestEnv) Delete(path string) (int, *APIResponse, error) {
	return e.doRequest(http.MethodDelete, path, nil)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}) (int, *APIResponse, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, e.ServerURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}
	return resp.StatusCode, &apiResp, nil
}

// UploadDocument posts one file through the multipart upload endpoint
func (e *E2ETestEnv) UploadDocument(fileName, content, email string) (int, *APIResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return 0, nil, err
	}
	if _, err := part.Write([]byte(content)); err != nil {
		return 0, nil, err
	}
	if err := writer.WriteField("memberEmail", email); err != nil {
		return 0, nil, err
	}
	if err := writer.Close(); err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequest(http.MethodPost, e.ServerURL+"/api/upload", &buf)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}
	return resp.StatusCode, &apiResp, nil
}

// startServer starts the HTTP server with all handlers against the store
func startServer(t *testing.T, store *graph.Store, port int) (string, func()) {
	const maxUploadBytes = 10 * 1024 * 1024

	diagnosisSvc := service.NewDiagnosisService(store, nil, nil)
	generatorSvc := service.NewGeneratorService(nil)
	uploadSvc := service.NewUploadService(store, nil, maxUploadBytes)
	documentSvc := service.NewDocumentService(store, nil)
	learningSvc := service.NewLearningService(nil, store)

	cfg := server.RouterConfig{
		Limiter:          ratelimit.NewMemoryLimiter(ratelimit.DefaultRules()),
		DiagnosisHandler: handlers.NewDiagnosisHandler(diagnosisSvc),
		GeneratorHandler: handlers.NewGeneratorHandler(generatorSvc),
		UploadHandler:    handlers.NewUploadHandler(uploadSvc, maxUploadBytes),
		DocumentHandler:  handlers.NewDocumentHandler(documentSvc),
		SearchHandler:    handlers.NewSearchHandler(store),
		LearningHandler:  handlers.NewLearningHandler(learningSvc),
		MemberHandler:    handlers.NewMemberHandler(store),
	}

	router := server.NewRouter(cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
