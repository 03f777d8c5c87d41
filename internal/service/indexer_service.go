package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"playlist-recommender-be/internal/entity"
	"playlist-recommender-be/internal/pkg/apperrors"
	"playlist-recommender-be/internal/pkg/logger"
	"playlist-recommender-be/internal/repository/contract"
	"playlist-recommender-be/pkg/corpus"
	"playlist-recommender-be/pkg/vectorizer"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

type IIndexerService interface {
	// Build replaces the collection with a fresh index over the corpus.
	// Single-batch upload failures are aggregated into the report, not fatal;
	// dimension mismatches and collection lifecycle failures abort the build.
	Build(ctx context.Context, playlists []corpus.Playlist) (*entity.BuildReport, error)
}

type indexerService struct {
	repo        contract.PlaylistIndexRepository
	provider    vectorizer.Provider
	collection  string
	dim         int
	metric      contract.Metric
	batchSize   int
	maxInFlight int64
	log         logger.ILogger
}

func NewIndexerService(
	repo contract.PlaylistIndexRepository,
	provider vectorizer.Provider,
	collection string,
	dim int,
	metric contract.Metric,
	batchSize int,
	maxConcurrentUploads int,
	log logger.ILogger,
) IIndexerService {
	if batchSize <= 0 {
		batchSize = 512
	}
	if maxConcurrentUploads <= 0 {
		maxConcurrentUploads = 1
	}
	return &indexerService{
		repo:        repo,
		provider:    provider,
		collection:  collection,
		dim:         dim,
		metric:      metric,
		batchSize:   batchSize,
		maxInFlight: int64(maxConcurrentUploads),
		log:         log,
	}
}

func (s *indexerService) Build(ctx context.Context, playlists []corpus.Playlist) (*entity.BuildReport, error) {
	if len(playlists) == 0 {
		return nil, errors.New("cannot build index from an empty corpus")
	}

	buildId := uuid.New()
	started := time.Now()

	s.log.Info("indexer", "starting index build", map[string]interface{}{
		"build_id":   buildId.String(),
		"collection": s.collection,
		"records":    len(playlists),
		"batch_size": s.batchSize,
		"metric":     string(s.metric),
	})

	// 1. Vectorize the whole corpus. Record ids are corpus positions so a
	// rebuild over the same corpus yields identical (id, payload) pairs.
	records := make([]*contract.IndexRecord, len(playlists))
	for i, pl := range playlists {
		vec, err := s.provider.Transform(pl.Name)
		if err != nil {
			return nil, apperrors.EmbeddingFailure(err)
		}
		if len(vec) != s.dim {
			return nil, apperrors.DimensionMismatch(i, len(vec), s.dim)
		}
		records[i] = &contract.IndexRecord{
			Id:        int64(i),
			Name:      pl.Name,
			Tracks:    pl.Tracks,
			Embedding: vec,
		}
	}

	// 2. Replace the collection. A crash after this point leaves a partial
	// collection that must be rebuilt, never patched.
	has, err := s.repo.HasCollection(ctx)
	if err != nil {
		return nil, err
	}
	if has {
		s.log.Info("indexer", "dropping existing collection", map[string]interface{}{
			"collection": s.collection,
		})
		if err := s.repo.DropCollection(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.repo.CreateCollection(ctx, s.dim, s.metric); err != nil {
		return nil, err
	}

	// 3. Upload batches with a bounded number in flight. Batches complete in
	// arbitrary order; the report only accumulates counts and ranges.
	report := &entity.BuildReport{
		BuildId:      buildId,
		Collection:   s.collection,
		TotalRecords: len(records),
		StartedAt:    started,
	}

	sem := semaphore.NewWeighted(s.maxInFlight)
	var wg sync.WaitGroup
	var mu sync.Mutex

	total := len(records)
	for start := 0; start < total; start += s.batchSize {
		end := start + s.batchSize
		if end > total {
			end = total
		}
		report.AttemptedBatches++

		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled: in-flight batches finish, the rest fail.
			mu.Lock()
			report.FailedRanges = append(report.FailedRanges, entity.BatchRange{Start: start, End: end})
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(start, end int, batch []*contract.IndexRecord) {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.repo.UpsertBatch(ctx, batch); err != nil {
				batchErr := &apperrors.BatchUploadError{Start: start, End: end, Err: err}
				s.log.Error("indexer", "batch upload failed", map[string]interface{}{
					"build_id":    buildId.String(),
					"batch_start": start,
					"batch_end":   end,
					"error":       batchErr.Error(),
				})
				mu.Lock()
				report.FailedRanges = append(report.FailedRanges, entity.BatchRange{Start: start, End: end})
				mu.Unlock()
				return
			}

			mu.Lock()
			report.CommittedBatches++
			report.CommittedRecords += len(batch)
			mu.Unlock()
		}(start, end, records[start:end])
	}

	wg.Wait()

	sort.Slice(report.FailedRanges, func(i, j int) bool {
		return report.FailedRanges[i].Start < report.FailedRanges[j].Start
	})
	report.Duration = time.Since(started)

	s.log.Info("indexer", "index build finished", map[string]interface{}{
		"build_id":          buildId.String(),
		"committed_records": report.CommittedRecords,
		"committed_batches": report.CommittedBatches,
		"failed_batches":    report.FailedBatches(),
		"duration":          report.Duration.String(),
	})

	return report, nil
}
