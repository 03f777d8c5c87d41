package bootstrap

import (
	"fmt"
	"time"

	"playlist-recommender-be/internal/config"
	"playlist-recommender-be/internal/controller"
	"playlist-recommender-be/internal/pkg/logger"
	"playlist-recommender-be/internal/repository/contract"
	"playlist-recommender-be/internal/repository/implementation"
	"playlist-recommender-be/internal/service"
	"playlist-recommender-be/pkg/vectorizer"

	"gorm.io/gorm"
)

type Container struct {
	RecommendController controller.IRecommendController
	Logger              logger.ILogger
}

// NewContainer wires the request-time dependency graph. The REST process
// consumes a fitted vectorizer artifact; fitting belongs to cmd/indexer.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	metric, err := contract.ParseMetric(cfg.Index.Metric)
	if err != nil {
		return nil, err
	}

	provider, err := NewEmbeddingProvider(cfg)
	if err != nil {
		return nil, err
	}

	repo := implementation.NewPlaylistIndexRepository(db, cfg.Index.Collection, metric)

	storeTimeout := time.Duration(cfg.Recommend.StoreTimeoutSeconds) * time.Second
	embedCacheTTL := time.Duration(cfg.Recommend.EmbedCacheTTLHours) * time.Hour

	collaborativeService := service.NewCollaborativeService(repo, cfg.Recommend.MaxNeighbors, storeTimeout, sysLogger)
	clusteringService := service.NewClusteringService(repo, provider, embedCacheTTL, storeTimeout, sysLogger)
	hybridService := service.NewHybridService(collaborativeService, clusteringService, sysLogger)

	recommendController := controller.NewRecommendController(collaborativeService, clusteringService, hybridService)

	return &Container{
		RecommendController: recommendController,
		Logger:              sysLogger,
	}, nil
}

// NewEmbeddingProvider resolves the configured embed(text)->vector capability.
func NewEmbeddingProvider(cfg *config.Config) (vectorizer.Provider, error) {
	switch cfg.Vectorizer.Provider {
	case "tfidf", "":
		return vectorizer.LoadTFIDF(cfg.Vectorizer.ArtifactPath)
	case "ollama":
		return vectorizer.NewOllamaProvider(
			cfg.Vectorizer.OllamaBaseURL,
			cfg.Vectorizer.OllamaModel,
			cfg.Index.EmbeddingDim,
		), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Vectorizer.Provider)
	}
}
