package service

import (
	"context"
	"sort"
	"time"

	"playlist-recommender-be/internal/pkg/logger"
	"playlist-recommender-be/internal/repository/contract"
)

type ICollaborativeService interface {
	// RecommendTracks ranks tracks by how often they co-occur with the seed
	// URIs across indexed playlists, excluding the seeds themselves.
	RecommendTracks(ctx context.Context, seedURIs []string, k int) ([]string, error)
}

type collaborativeService struct {
	repo         contract.PlaylistIndexRepository
	maxNeighbors int // playlist scan cap
	storeTimeout time.Duration
	log          logger.ILogger
}

func NewCollaborativeService(
	repo contract.PlaylistIndexRepository,
	maxNeighbors int,
	storeTimeout time.Duration,
	log logger.ILogger,
) ICollaborativeService {
	return &collaborativeService{
		repo:         repo,
		maxNeighbors: maxNeighbors,
		storeTimeout: storeTimeout,
		log:          log,
	}
}

func (s *collaborativeService) RecommendTracks(ctx context.Context, seedURIs []string, k int) ([]string, error) {
	seeds, seedSet := dedupeSeeds(seedURIs)

	// Without seeds the containment filter matches nothing meaningful;
	// return empty instead of scanning the corpus.
	if len(seeds) == 0 || s.maxNeighbors <= 0 || k <= 0 {
		return []string{}, nil
	}

	if s.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
	}

	playlists, err := s.repo.FindContainingAny(ctx, seeds, s.maxNeighbors)
	if err != nil {
		return nil, err
	}

	// Per-request occurrence counter. The order slice pins first-seen
	// positions so count ties break deterministically by scan order.
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, pl := range playlists {
		for _, uri := range pl.Tracks {
			if _, seen := counts[uri]; !seen {
				order = append(order, uri)
			}
			counts[uri]++
		}
	}

	s.log.Info("collaborative", "scanned playlist corpus", map[string]interface{}{
		"seeds":             len(seeds),
		"matched_playlists": len(playlists),
		"unique_tracks":     len(order),
	})

	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})

	result := make([]string, 0, k)
	for _, uri := range ranked {
		if _, isSeed := seedSet[uri]; isSeed {
			continue
		}
		result = append(result, uri)
		if len(result) == k {
			break
		}
	}
	return result, nil
}

// dedupeSeeds coalesces duplicate seed URIs and drops empty strings, keeping
// first-occurrence order.
func dedupeSeeds(uris []string) ([]string, map[string]struct{}) {
	set := make(map[string]struct{}, len(uris))
	unique := make([]string, 0, len(uris))
	for _, uri := range uris {
		if uri == "" {
			continue
		}
		if _, ok := set[uri]; ok {
			continue
		}
		set[uri] = struct{}{}
		unique = append(unique, uri)
	}
	return unique, set
}
