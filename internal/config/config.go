package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Index      IndexConfig
	Vectorizer VectorizerConfig
	Recommend  RecommendConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

// IndexConfig describes the vector collection and how the bulk builder fills it.
type IndexConfig struct {
	Collection           string
	EmbeddingDim         int
	Metric               string // "cosine" or "l2", must match what the collection was built with
	BatchSize            int
	MaxConcurrentUploads int
	CorpusPath           string
	MinPlaylistLength    int
}

type VectorizerConfig struct {
	Provider      string // "tfidf" or "ollama"
	ArtifactPath  string
	MaxFeatures   int
	OllamaBaseURL string
	OllamaModel   string
}

type RecommendConfig struct {
	MaxNeighbors        int // playlist scan cap for the collaborative path
	StoreTimeoutSeconds int
	EmbedCacheTTLHours  int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Index: IndexConfig{
			Collection:           getEnv("INDEX_COLLECTION", "playlists"),
			EmbeddingDim:         getEnvAsInt("EMBEDDING_DIM", 1000),
			Metric:               getEnv("INDEX_METRIC", "cosine"),
			BatchSize:            getEnvAsInt("INDEX_BATCH_SIZE", 512),
			MaxConcurrentUploads: getEnvAsInt("INDEX_MAX_CONCURRENT_UPLOADS", 8),
			CorpusPath:           getEnv("CORPUS_PATH", "data/playlists.jsonl"),
			MinPlaylistLength:    getEnvAsInt("MIN_PLAYLIST_LENGTH", 5),
		},
		Vectorizer: VectorizerConfig{
			Provider:      getEnv("EMBEDDING_PROVIDER", "tfidf"),
			ArtifactPath:  getEnv("VECTORIZER_ARTIFACT_PATH", "data/vectorizer.json"),
			MaxFeatures:   getEnvAsInt("VECTORIZER_MAX_FEATURES", 1000),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:   getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Recommend: RecommendConfig{
			MaxNeighbors:        getEnvAsInt("RECOMMEND_MAX_NEIGHBORS", 500),
			StoreTimeoutSeconds: getEnvAsInt("RECOMMEND_STORE_TIMEOUT_SECONDS", 10),
			EmbedCacheTTLHours:  getEnvAsInt("RECOMMEND_EMBED_CACHE_TTL_HOURS", 12),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
