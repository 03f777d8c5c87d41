package contract

import (
	"context"
	"fmt"

	"playlist-recommender-be/internal/entity"
)

// Metric is the distance metric a collection was built with. The retriever
// must query under the same metric, so both sides take it from one config value.
type Metric string

const (
	MetricCosine Metric = "cosine"
	MetricL2     Metric = "l2"
)

func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricCosine, MetricL2:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("unknown distance metric %q (want cosine or l2)", s)
	}
}

// Operator returns the pgvector distance operator for the metric.
func (m Metric) Operator() string {
	if m == MetricL2 {
		return "<->"
	}
	return "<=>"
}

// IndexRecord is one playlist prepared for bulk upload: sequential id derived
// from corpus position, name-embedding, and the retrievable payload.
type IndexRecord struct {
	Id        int64
	Name      string
	Tracks    []string
	Embedding []float32
}

// NeighborPlaylist pairs a playlist with its distance to the query vector.
type NeighborPlaylist struct {
	Playlist *entity.Playlist
	Distance float64
}

// PlaylistIndexRepository is the narrow store-adapter surface the recommenders
// and the bulk builder depend on. The two retrieval methods never mutate; the
// collection lifecycle and upsert methods belong to the builder alone.
type PlaylistIndexRepository interface {
	// FindContainingAny returns up to limit playlists containing at least one
	// of the given track URIs, in store scan order.
	FindContainingAny(ctx context.Context, trackURIs []string, limit int) ([]*entity.Playlist, error)

	// SearchNearest returns the limit playlists nearest to the embedding
	// under the repository's configured metric, nearest first.
	SearchNearest(ctx context.Context, embedding []float32, limit int) ([]*NeighborPlaylist, error)

	HasCollection(ctx context.Context) (bool, error)
	DropCollection(ctx context.Context) error
	CreateCollection(ctx context.Context, dim int, metric Metric) error
	UpsertBatch(ctx context.Context, records []*IndexRecord) error
	Count(ctx context.Context) (int64, error)
}
