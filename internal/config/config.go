package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// Graph store. No credential defaults on purpose: a missing password
	// must fail loudly instead of silently hitting a shared instance.
	Neo4jURI      string `envconfig:"NEO4J_URI"`
	Neo4jUser     string `envconfig:"NEO4J_USER" default:"neo4j"`
	Neo4jPassword string `envconfig:"NEO4J_PASSWORD"`
	Neo4jDatabase string `envconfig:"NEO4J_DATABASE"`

	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	ModelName       string `envconfig:"MODEL_NAME" default:"claude-sonnet-4-20250514"`

	TavilyAPIKey string `envconfig:"TAVILY_API_KEY"`

	// Optional Redis backing for the rate limiter. Empty means the
	// per-process in-memory window, which does not survive restarts or
	// horizontal scaling.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	// Optional S3-compatible archival of raw uploads.
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"lexgraph-uploads"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	// Single authoritative upload limit, applied by both the route body
	// check and the moderation pass.
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("LEXGRAPH", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasNeo4j() bool {
	return c.Neo4jURI != ""
}

func (c *Config) HasAnthropic() bool {
	return c.AnthropicAPIKey != ""
}

func (c *Config) HasTavily() bool {
	return c.TavilyAPIKey != ""
}

func (c *Config) HasRedis() bool {
	return c.RedisAddr != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
