package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"playlist-recommender-be/internal/config"
	"playlist-recommender-be/internal/pkg/logger"
	"playlist-recommender-be/internal/repository/contract"
	"playlist-recommender-be/internal/repository/implementation"
	"playlist-recommender-be/internal/service"
	"playlist-recommender-be/pkg/corpus"
	"playlist-recommender-be/pkg/database"
	"playlist-recommender-be/pkg/vectorizer"
)

// The indexer is a one-shot offline pipeline: load the playlist corpus, fit
// or load the vectorizer, and rebuild the vector collection from scratch.
// Partial batch failures are reported, not fatal; rerun to rebuild fully.
func main() {
	var (
		corpusPath      = flag.String("corpus", "", "path to the playlist corpus (.json or .jsonl), overrides CORPUS_PATH")
		validTracksPath = flag.String("valid-tracks", "", "optional JSON array of track URIs to keep")
		refit           = flag.Bool("refit", false, "refit the tf-idf vectorizer even if an artifact exists")
	)
	flag.Parse()

	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	path := cfg.Index.CorpusPath
	if *corpusPath != "" {
		path = *corpusPath
	}

	if err := run(cfg, sysLogger, path, *validTracksPath, *refit); err != nil {
		sysLogger.Error("indexer", "index build aborted", map[string]interface{}{
			"error": err.Error(),
		})
		sysLogger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, sysLogger logger.ILogger, corpusPath, validTracksPath string, refit bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Corpus
	playlists, err := corpus.Load(corpusPath)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	sysLogger.Info("indexer", "loaded playlist corpus", map[string]interface{}{
		"path":      corpusPath,
		"playlists": len(playlists),
	})

	if validTracksPath != "" {
		valid, err := corpus.LoadTrackSet(validTracksPath)
		if err != nil {
			return fmt.Errorf("load valid track set: %w", err)
		}
		playlists = corpus.FilterValidTracks(playlists, valid)
	}

	playlists = corpus.FilterMinLength(playlists, cfg.Index.MinPlaylistLength)
	sysLogger.Info("indexer", "filtered corpus", map[string]interface{}{
		"retained":   len(playlists),
		"min_length": cfg.Index.MinPlaylistLength,
	})

	// 2. Embedding model: fit or load
	provider, err := resolveProvider(cfg, sysLogger, playlists, refit)
	if err != nil {
		return err
	}

	dim := provider.Dimension()
	if dim <= 0 {
		dim = cfg.Index.EmbeddingDim
	}

	metric, err := contract.ParseMetric(cfg.Index.Metric)
	if err != nil {
		return err
	}

	// 3. Store and builder
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		return fmt.Errorf("connect to store: %w", err)
	}

	repo := implementation.NewPlaylistIndexRepository(gormDB, cfg.Index.Collection, metric)
	indexer := service.NewIndexerService(
		repo,
		provider,
		cfg.Index.Collection,
		dim,
		metric,
		cfg.Index.BatchSize,
		cfg.Index.MaxConcurrentUploads,
		sysLogger,
	)

	report, err := indexer.Build(ctx, playlists)
	if err != nil {
		return err
	}

	if !report.Complete() {
		sysLogger.Warn("indexer", "build finished with failed batches, rerun to rebuild fully", map[string]interface{}{
			"committed_records": report.CommittedRecords,
			"failed_batches":    report.FailedBatches(),
		})
	}
	return nil
}

// resolveProvider loads the tf-idf artifact when present, otherwise fits a
// fresh model on the corpus names and saves it for the REST process.
func resolveProvider(cfg *config.Config, sysLogger logger.ILogger, playlists []corpus.Playlist, refit bool) (vectorizer.Provider, error) {
	if cfg.Vectorizer.Provider == "ollama" {
		return vectorizer.NewOllamaProvider(
			cfg.Vectorizer.OllamaBaseURL,
			cfg.Vectorizer.OllamaModel,
			cfg.Index.EmbeddingDim,
		), nil
	}

	artifactPath := cfg.Vectorizer.ArtifactPath
	if !refit {
		if _, err := os.Stat(artifactPath); err == nil {
			sysLogger.Info("indexer", "loading tf-idf artifact", map[string]interface{}{
				"path": artifactPath,
			})
			return vectorizer.LoadTFIDF(artifactPath)
		}
	}

	names := make([]string, len(playlists))
	for i, pl := range playlists {
		names[i] = pl.Name
	}

	v := vectorizer.NewTFIDFVectorizer(cfg.Vectorizer.MaxFeatures)
	if err := v.Fit(names); err != nil {
		return nil, fmt.Errorf("fit tf-idf vectorizer: %w", err)
	}
	if err := v.Save(artifactPath); err != nil {
		return nil, fmt.Errorf("save tf-idf artifact: %w", err)
	}

	sysLogger.Info("indexer", "fitted tf-idf vectorizer", map[string]interface{}{
		"path":      artifactPath,
		"dimension": v.Dimension(),
	})
	return v, nil
}
