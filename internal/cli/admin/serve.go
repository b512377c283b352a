package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/lexgraph-ai/lexgraph/internal/anthropic"
	"github.com/lexgraph-ai/lexgraph/internal/api"
	"github.com/lexgraph-ai/lexgraph/internal/api/handlers"
	"github.com/lexgraph-ai/lexgraph/internal/config"
	"github.com/lexgraph-ai/lexgraph/internal/graph"
	"github.com/lexgraph-ai/lexgraph/internal/jobs"
	"github.com/lexgraph-ai/lexgraph/internal/ratelimit"
	"github.com/lexgraph-ai/lexgraph/internal/server"
	"github.com/lexgraph-ai/lexgraph/internal/service"
	"github.com/lexgraph-ai/lexgraph/internal/storage"
	"github.com/lexgraph-ai/lexgraph/internal/tavily"
	"github.com/lexgraph-ai/lexgraph/internal/telemetry"
)

const limiterSweepInterval = time.Minute

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the lexgraph API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	api.DebugMode = cfg.Debug

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
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
	log.Println("connected to graph store")

	graphClient.EnsureSchema(ctx)
	store := graph.NewStore(graphClient)

	var completer service.Completer
	if cfg.HasAnthropic() {
		completer = anthropic.NewClientWithConfig(anthropic.Config{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.ModelName,
		})
		log.Printf("completion API configured (model: %s)", cfg.ModelName)
	} else {
		log.Println("completion API not configured; diagnoses fall back to the rule engine")
	}

	var webSearcher service.WebSearcher
	if cfg.HasTavily() {
		webSearcher = tavily.NewClient(cfg.TavilyAPIKey)
		log.Println("web search configured")
	}

	var archive service.Archiver
	var docArchive service.DocumentArchive
	if cfg.HasS3() {
		s3Archive, err := storage.NewArchive(ctx, storage.ArchiveConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create upload archive: %w", err)
		}
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure archive bucket: %w", err)
		}
		log.Printf("upload archive bucket '%s' ready", cfg.S3Bucket)
		archive = s3Archive
		docArchive = s3Archive
	}

	var limiter ratelimit.Limiter
	var sweeper *jobs.Worker
	if cfg.HasRedis() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		defer redisClient.Close()
		limiter = ratelimit.NewRedisLimiter(redisClient, ratelimit.DefaultRules())
		log.Println("rate limiter backed by redis")
	} else {
		memLimiter := ratelimit.NewMemoryLimiter(ratelimit.DefaultRules())
		limiter = memLimiter
		sweeper = jobs.NewWorker("ratelimit-sweep", &ratelimit.SweepProcessor{Limiter: memLimiter}, limiterSweepInterval)
		go sweeper.Start(ctx)
	}

	diagnosisSvc := service.NewDiagnosisService(store, webSearcher, completer)
	generatorSvc := service.NewGeneratorService(completer)
	uploadSvc := service.NewUploadService(store, archive, cfg.MaxUploadBytes)
	documentSvc := service.NewDocumentService(store, docArchive)
	learningSvc := service.NewLearningService(webSearcher, store)

	routerCfg := server.RouterConfig{
		Limiter:          limiter,
		DiagnosisHandler: handlers.NewDiagnosisHandler(diagnosisSvc),
		GeneratorHandler: handlers.NewGeneratorHandler(generatorSvc),
		UploadHandler:    handlers.NewUploadHandler(uploadSvc, cfg.MaxUploadBytes),
		DocumentHandler:  handlers.NewDocumentHandler(documentSvc),
		SearchHandler:    handlers.NewSearchHandler(store),
		LearningHandler:  handlers.NewLearningHandler(learningSvc),
		MemberHandler:    handlers.NewMemberHandler(store),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if sweeper != nil {
		sweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
