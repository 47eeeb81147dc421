package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/arkanhadi/ragrader/internal/logger"
)

// Defaults match the tunables the system was calibrated with.
const (
	DefaultOpenRouterURL  = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel          = "z-ai/glm-4.5"
	DefaultEmbeddingModel = "all-MiniLM-L6-v2"
	DefaultChunkSize      = 1000
	DefaultChunkOverlap   = 200
	DefaultTopKRetrieval  = 5
	DefaultSimThreshold   = 0.65
	DefaultMinConfidence  = 0.6
	DefaultDataFolder     = "data"
	DefaultOutputFolder   = "output"
	DefaultRubricFile     = "data/rubrik.json"
)

// Config holds every tunable of a grading run. Loaded once at startup and
// read-only afterwards.
type Config struct {
	OpenRouterKey string
	OpenRouterURL string
	Model         string

	EmbeddingModel string
	// EmbeddingURL points at an OpenAI-style /embeddings endpoint. When
	// empty, the deterministic local embedder is used instead.
	EmbeddingURL string
	EmbeddingDim int

	// MilvusAddr enables the optional persistent evidence corpus when set.
	MilvusAddr string

	ChunkSize           int
	ChunkOverlap        int
	TopKRetrieval       int
	SimilarityThreshold float64

	MinConfidenceThreshold float64
	Temperature            float64

	DataFolder   string
	OutputFolder string
	RubricFile   string

	LogLevel string
}

// Load reads the configuration from environment variables, falling back to
// defaults. Call godotenv.Load first if a .env file should be honored.
func Load() *Config {
	return &Config{
		OpenRouterKey: os.Getenv("OPENROUTER_KEY"),
		OpenRouterURL: getEnvWithDefault("OPENROUTER_URL", DefaultOpenRouterURL),
		Model:         getEnvWithDefault("MODEL", DefaultModel),

		EmbeddingModel: getEnvWithDefault("EMBEDDING_MODEL", DefaultEmbeddingModel),
		EmbeddingURL:   os.Getenv("EMBEDDING_URL"),
		EmbeddingDim:   getEnvInt("EMBEDDING_DIM", 384),

		MilvusAddr: os.Getenv("MILVUS_ADDR"),

		ChunkSize:           getEnvInt("CHUNK_SIZE", DefaultChunkSize),
		ChunkOverlap:        getEnvInt("CHUNK_OVERLAP", DefaultChunkOverlap),
		TopKRetrieval:       getEnvInt("TOP_K_RETRIEVAL", DefaultTopKRetrieval),
		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", DefaultSimThreshold),

		MinConfidenceThreshold: DefaultMinConfidence,
		Temperature:            0.0,

		DataFolder:   getEnvWithDefault("DATA_FOLDER", DefaultDataFolder),
		OutputFolder: getEnvWithDefault("OUTPUT_FOLDER", DefaultOutputFolder),
		RubricFile:   getEnvWithDefault("RUBRIC_FILE", DefaultRubricFile),

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration eagerly, before any document is touched.
// It returns a list of human-readable problems; a non-empty list aborts the
// whole run.
func (c *Config) Validate() []string {
	var errors []string

	if c.OpenRouterKey == "" {
		errors = append(errors, "OPENROUTER_KEY not found in environment or .env file")
	}
	if c.ChunkSize <= 0 {
		errors = append(errors, fmt.Sprintf("CHUNK_SIZE must be > 0, got %d", c.ChunkSize))
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		errors = append(errors, fmt.Sprintf("CHUNK_OVERLAP must be between 0 and CHUNK_SIZE, got %d", c.ChunkOverlap))
	}
	if c.TopKRetrieval <= 0 {
		errors = append(errors, fmt.Sprintf("TOP_K_RETRIEVAL must be > 0, got %d", c.TopKRetrieval))
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		errors = append(errors, fmt.Sprintf("SIMILARITY_THRESHOLD must be between 0 and 1, got %g", c.SimilarityThreshold))
	}
	if c.EmbeddingDim <= 0 {
		errors = append(errors, fmt.Sprintf("EMBEDDING_DIM must be > 0, got %d", c.EmbeddingDim))
	}

	return errors
}

// LogSummary logs the active configuration at startup. The credential itself
// is never logged.
func (c *Config) LogSummary() {
	logger.Info("Model: %s", c.Model)
	logger.Info("Embedding Model: %s (dim=%d)", c.EmbeddingModel, c.EmbeddingDim)
	logger.Info("Chunk Size: %d", c.ChunkSize)
	logger.Info("Chunk Overlap: %d", c.ChunkOverlap)
	logger.Info("Top-K Retrieval: %d", c.TopKRetrieval)
	logger.Info("Similarity Threshold: %g", c.SimilarityThreshold)
	if c.MilvusAddr != "" {
		logger.Info("Milvus corpus store: %s", c.MilvusAddr)
	}
}

// getEnvWithDefault gets an environment variable or returns a default value.
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Warn("Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logger.Warn("Invalid number for %s: %q, using default %g", key, value, defaultValue)
		return defaultValue
	}
	return f
}
