package service

import (
	"context"
	"strings"
	"time"

	"playlist-recommender-be/internal/pkg/apperrors"
	"playlist-recommender-be/internal/pkg/logger"
	"playlist-recommender-be/internal/repository/contract"
	"playlist-recommender-be/pkg/vectorizer"

	gocache "github.com/patrickmn/go-cache"
)

type IClusteringService interface {
	// RecommendTracks harvests tracks from the nNeighbors playlists whose
	// name-embedding is nearest to the query text, nearest first.
	RecommendTracks(ctx context.Context, playlistName string, k, nNeighbors int) ([]string, error)
}

type clusteringService struct {
	repo         contract.PlaylistIndexRepository
	provider     vectorizer.Provider
	embedCache   *gocache.Cache
	storeTimeout time.Duration
	log          logger.ILogger
}

func NewClusteringService(
	repo contract.PlaylistIndexRepository,
	provider vectorizer.Provider,
	embedCacheTTL time.Duration,
	storeTimeout time.Duration,
	log logger.ILogger,
) IClusteringService {
	return &clusteringService{
		repo:         repo,
		provider:     provider,
		embedCache:   gocache.New(embedCacheTTL, 2*embedCacheTTL),
		storeTimeout: storeTimeout,
		log:          log,
	}
}

func (s *clusteringService) RecommendTracks(ctx context.Context, playlistName string, k, nNeighbors int) ([]string, error) {
	// Blank query text is a request error, never a silent empty result.
	if strings.TrimSpace(playlistName) == "" {
		return nil, apperrors.ErrEmptyQueryText
	}
	if k <= 0 || nNeighbors <= 0 {
		return []string{}, nil
	}

	queryVector, err := s.embed(playlistName)
	if err != nil {
		return nil, apperrors.EmbeddingFailure(err)
	}

	if s.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
	}

	neighbors, err := s.repo.SearchNearest(ctx, queryVector, nNeighbors)
	if err != nil {
		return nil, err
	}

	s.log.Info("clustering", "retrieved similar playlists", map[string]interface{}{
		"playlist_name": playlistName,
		"neighbors":     len(neighbors),
	})

	// Concatenate nearest-first, dedupe keeping first occurrence, cut to k.
	seen := make(map[string]struct{})
	result := make([]string, 0, k)
	for _, n := range neighbors {
		for _, uri := range n.Playlist.Tracks {
			if _, dup := seen[uri]; dup {
				continue
			}
			seen[uri] = struct{}{}
			result = append(result, uri)
			if len(result) == k {
				return result, nil
			}
		}
	}
	return result, nil
}

// embed memoizes vectorization per query text. Safe because providers are
// deterministic for identical input and model version.
func (s *clusteringService) embed(text string) ([]float32, error) {
	if cached, ok := s.embedCache.Get(text); ok {
		return cached.([]float32), nil
	}

	vec, err := s.provider.Transform(text)
	if err != nil {
		return nil, err
	}

	s.embedCache.SetDefault(text, vec)
	return vec, nil
}
