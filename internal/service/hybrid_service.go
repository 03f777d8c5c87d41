package service

import (
	"context"

	"playlist-recommender-be/internal/pkg/logger"
)

type IHybridService interface {
	// RecommendTracks combines the collaborative and clustering paths under
	// a short-circuit fallback: the clustering retriever runs only when the
	// collaborative result is under quota.
	RecommendTracks(ctx context.Context, seedURIs []string, playlistName string, k, nNeighbors int) ([]string, error)
}

type hybridService struct {
	collaborative ICollaborativeService
	clustering    IClusteringService
	log           logger.ILogger
}

func NewHybridService(
	collaborative ICollaborativeService,
	clustering IClusteringService,
	log logger.ILogger,
) IHybridService {
	return &hybridService{
		collaborative: collaborative,
		clustering:    clustering,
		log:           log,
	}
}

func (s *hybridService) RecommendTracks(ctx context.Context, seedURIs []string, playlistName string, k, nNeighbors int) ([]string, error) {
	// Without a collaborative baseline there is no hybrid result.
	collab, err := s.collaborative.RecommendTracks(ctx, seedURIs, k)
	if err != nil {
		return nil, err
	}

	s.log.Info("hybrid", "collaborative stage finished", map[string]interface{}{
		"tracks": len(collab),
		"quota":  k,
	})

	if len(collab) >= k {
		return dedupeTruncate(collab, k), nil
	}

	remaining := k - len(collab)

	clust, err := s.clustering.RecommendTracks(ctx, playlistName, remaining, nNeighbors)
	if err != nil {
		// Degrade to the partial collaborative result. An under-quota
		// collaborative-only answer is a valid success, not an error.
		s.log.Warn("hybrid", "clustering fallback failed, returning collaborative-only result", map[string]interface{}{
			"error":  err.Error(),
			"tracks": len(collab),
		})
		return dedupeTruncate(collab, k), nil
	}

	s.log.Info("hybrid", "clustering fallback finished", map[string]interface{}{
		"tracks": len(clust),
	})

	combined := make([]string, 0, len(collab)+len(clust))
	combined = append(combined, collab...)
	combined = append(combined, clust...)

	// Collaborative entries win ties because they come first. No blended
	// re-ranking across the two tiers.
	return dedupeTruncate(combined, k), nil
}

// dedupeTruncate removes duplicates preserving first-occurrence order and
// cuts the result to at most k entries.
func dedupeTruncate(uris []string, k int) []string {
	seen := make(map[string]struct{}, len(uris))
	result := make([]string, 0, k)
	for _, uri := range uris {
		if _, dup := seen[uri]; dup {
			continue
		}
		seen[uri] = struct{}{}
		result = append(result, uri)
		if len(result) == k {
			break
		}
	}
	return result
}
