package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"playlist-recommender-be/internal/pkg/apperrors"
	"playlist-recommender-be/internal/pkg/logger"
	"playlist-recommender-be/internal/repository/contract"
	"playlist-recommender-be/pkg/corpus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corpusFixture(n int) []corpus.Playlist {
	playlists := make([]corpus.Playlist, n)
	for i := range playlists {
		playlists[i] = corpus.Playlist{
			Name:   fmt.Sprintf("playlist %d", i),
			Tracks: []string{fmt.Sprintf("t%d", i), fmt.Sprintf("t%d", i+1)},
		}
	}
	return playlists
}

func newIndexer(repo *mockIndexRepository, provider *mockProvider, batchSize, concurrency int) IIndexerService {
	return NewIndexerService(repo, provider, "playlists", provider.dim, contract.MetricCosine, batchSize, concurrency, logger.NewNopLogger())
}

func TestIndexerBuildsAllBatches(t *testing.T) {
	repo := &mockIndexRepository{}
	provider := &mockProvider{dim: 8}

	report, err := newIndexer(repo, provider, 100, 4).Build(context.Background(), corpusFixture(1000))

	require.NoError(t, err)
	assert.Equal(t, 1000, report.TotalRecords)
	assert.Equal(t, 10, report.AttemptedBatches)
	assert.Equal(t, 10, report.CommittedBatches)
	assert.Equal(t, 1000, report.CommittedRecords)
	assert.True(t, report.Complete())
	assert.Equal(t, 1, repo.createCalls)
	assert.Equal(t, 8, repo.createdDim)
	assert.Equal(t, contract.MetricCosine, repo.createdMetric)
}

func TestIndexerPartialBatchFailure(t *testing.T) {
	// 1,000 records, batch size 100: exactly 10 batches. Two fail; the build
	// still succeeds with 800 committed and both ranges reported.
	repo := &mockIndexRepository{
		upsertErr: func(start int) error {
			if start == 200 || start == 700 {
				return errors.New("write refused")
			}
			return nil
		},
	}
	provider := &mockProvider{dim: 8}

	report, err := newIndexer(repo, provider, 100, 4).Build(context.Background(), corpusFixture(1000))

	require.NoError(t, err, "partial batch failure must not fail the build")
	assert.Equal(t, 10, report.AttemptedBatches)
	assert.Equal(t, 8, report.CommittedBatches)
	assert.Equal(t, 800, report.CommittedRecords)
	assert.Equal(t, 2, report.FailedBatches())
	assert.Equal(t, []int{200, 700}, []int{report.FailedRanges[0].Start, report.FailedRanges[1].Start})
	assert.Equal(t, []int{300, 800}, []int{report.FailedRanges[0].End, report.FailedRanges[1].End})
}

func TestIndexerReplacesExistingCollection(t *testing.T) {
	repo := &mockIndexRepository{hasCollection: true}
	provider := &mockProvider{dim: 4}

	_, err := newIndexer(repo, provider, 10, 2).Build(context.Background(), corpusFixture(25))

	require.NoError(t, err)
	assert.Equal(t, 1, repo.dropCalls, "existing collection must be dropped first")
	assert.Equal(t, 1, repo.createCalls)
}

func TestIndexerAssignsSequentialIds(t *testing.T) {
	repo := &mockIndexRepository{}
	provider := &mockProvider{dim: 4}
	playlists := corpusFixture(25)

	_, err := newIndexer(repo, provider, 10, 2).Build(context.Background(), playlists)

	require.NoError(t, err)
	committed := repo.committedRecords()
	require.Len(t, committed, 25)
	for i := 0; i < 25; i++ {
		rec, ok := committed[int64(i)]
		require.True(t, ok, "record %d missing", i)
		assert.Equal(t, playlists[i].Name, rec.Name)
		assert.Equal(t, playlists[i].Tracks, rec.Tracks)
	}
}

func TestIndexerRebuildIsIdempotent(t *testing.T) {
	provider := &mockProvider{dim: 4}
	playlists := corpusFixture(30)

	repo := &mockIndexRepository{}
	idx := newIndexer(repo, provider, 7, 3)

	first, err := idx.Build(context.Background(), playlists)
	require.NoError(t, err)
	firstRecords := repo.committedRecords()

	second, err := idx.Build(context.Background(), playlists)
	require.NoError(t, err)
	secondRecords := repo.committedRecords()

	assert.Equal(t, first.CommittedRecords, second.CommittedRecords)
	require.Equal(t, len(firstRecords), len(secondRecords))
	for id, rec := range firstRecords {
		other := secondRecords[id]
		require.NotNil(t, other)
		assert.Equal(t, rec.Name, other.Name)
		assert.Equal(t, rec.Tracks, other.Tracks)
	}
}

func TestIndexerDimensionMismatchAborts(t *testing.T) {
	repo := &mockIndexRepository{}
	provider := &mockProvider{dim: 4}
	// Builder declares 8 but the provider emits 4-dimensional vectors.
	idx := NewIndexerService(repo, provider, "playlists", 8, contract.MetricCosine, 10, 2, logger.NewNopLogger())

	report, err := idx.Build(context.Background(), corpusFixture(5))

	assert.Nil(t, report)
	assert.ErrorIs(t, err, apperrors.ErrDimensionMismatch)
	assert.Equal(t, 0, repo.createCalls, "mismatch must abort before touching the collection")
	assert.Empty(t, repo.upsertedBatches)
}

func TestIndexerEmbeddingFailureAborts(t *testing.T) {
	repo := &mockIndexRepository{}
	provider := &mockProvider{dim: 4, err: errors.New("model failure")}

	report, err := newIndexer(repo, provider, 10, 2).Build(context.Background(), corpusFixture(5))

	assert.Nil(t, report)
	assert.ErrorIs(t, err, apperrors.ErrEmbeddingFailure)
}

func TestIndexerEmptyCorpusRejected(t *testing.T) {
	repo := &mockIndexRepository{}
	provider := &mockProvider{dim: 4}

	report, err := newIndexer(repo, provider, 10, 2).Build(context.Background(), nil)

	assert.Nil(t, report)
	assert.Error(t, err)
}
