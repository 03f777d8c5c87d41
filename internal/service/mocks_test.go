package service

import (
	"context"
	"sync"

	"playlist-recommender-be/internal/entity"
	"playlist-recommender-be/internal/repository/contract"
)

// mockIndexRepository is a hand-rolled in-memory stand-in for the store
// adapter. Call counters let tests assert which paths were exercised.
type mockIndexRepository struct {
	mu sync.Mutex

	playlists []*entity.Playlist
	neighbors []*contract.NeighborPlaylist

	findErr   error
	searchErr error
	upsertErr func(start int) error // keyed by the first record id of the batch

	findCalls     int
	searchCalls   int
	lastFindLimit int
	lastSearchK   int

	hasCollection bool
	dropCalls     int
	createCalls   int
	createdDim    int
	createdMetric contract.Metric

	upsertedBatches [][]*contract.IndexRecord
}

func (m *mockIndexRepository) FindContainingAny(ctx context.Context, trackURIs []string, limit int) ([]*entity.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	m.lastFindLimit = limit
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.playlists, nil
}

func (m *mockIndexRepository) SearchNearest(ctx context.Context, embedding []float32, limit int) ([]*contract.NeighborPlaylist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	m.lastSearchK = limit
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if limit < len(m.neighbors) {
		return m.neighbors[:limit], nil
	}
	return m.neighbors, nil
}

func (m *mockIndexRepository) HasCollection(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasCollection, nil
}

func (m *mockIndexRepository) DropCollection(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropCalls++
	m.hasCollection = false
	return nil
}

func (m *mockIndexRepository) CreateCollection(ctx context.Context, dim int, metric contract.Metric) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	m.createdDim = dim
	m.createdMetric = metric
	m.hasCollection = true
	m.upsertedBatches = nil
	return nil
}

func (m *mockIndexRepository) UpsertBatch(ctx context.Context, records []*contract.IndexRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil && len(records) > 0 {
		if err := m.upsertErr(int(records[0].Id)); err != nil {
			return err
		}
	}
	m.upsertedBatches = append(m.upsertedBatches, records)
	return nil
}

func (m *mockIndexRepository) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, batch := range m.upsertedBatches {
		n += int64(len(batch))
	}
	return n, nil
}

// committedRecords flattens uploaded batches keyed by record id.
func (m *mockIndexRepository) committedRecords() map[int64]*contract.IndexRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]*contract.IndexRecord)
	for _, batch := range m.upsertedBatches {
		for _, rec := range batch {
			out[rec.Id] = rec
		}
	}
	return out
}

// mockProvider returns a fixed-dimension vector whose first component encodes
// the text length, keeping outputs deterministic and distinct.
type mockProvider struct {
	dim   int
	err   error
	calls int
}

func (p *mockProvider) Transform(text string) ([]float32, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	vec := make([]float32, p.dim)
	if p.dim > 0 {
		vec[0] = float32(len(text))
	}
	return vec, nil
}

func (p *mockProvider) Dimension() int { return p.dim }

// Stubs for the hybrid merge tests.

type stubCollaborative struct {
	result []string
	err    error
	calls  int
	gotK   int
}

func (s *stubCollaborative) RecommendTracks(ctx context.Context, seedURIs []string, k int) ([]string, error) {
	s.calls++
	s.gotK = k
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubClustering struct {
	result []string
	err    error
	calls  int
	gotK   int
	gotN   int
}

func (s *stubClustering) RecommendTracks(ctx context.Context, playlistName string, k, nNeighbors int) ([]string, error) {
	s.calls++
	s.gotK = k
	s.gotN = nNeighbors
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}
