package implementation

import (
	"context"
	"fmt"
	"regexp"

	"playlist-recommender-be/internal/entity"
	"playlist-recommender-be/internal/mapper"
	"playlist-recommender-be/internal/model"
	"playlist-recommender-be/internal/pkg/apperrors"
	"playlist-recommender-be/internal/repository/contract"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Collection names end up interpolated into DDL, so they are restricted to
// plain lowercase identifiers.
var collectionNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type PlaylistIndexRepositoryImpl struct {
	db         *gorm.DB
	collection string
	metric     contract.Metric
	mapper     *mapper.PlaylistMapper
}

func NewPlaylistIndexRepository(db *gorm.DB, collection string, metric contract.Metric) contract.PlaylistIndexRepository {
	return &PlaylistIndexRepositoryImpl{
		db:         db,
		collection: collection,
		metric:     metric,
		mapper:     mapper.NewPlaylistMapper(),
	}
}

func (r *PlaylistIndexRepositoryImpl) FindContainingAny(ctx context.Context, trackURIs []string, limit int) ([]*entity.Playlist, error) {
	var models []*model.Playlist

	// text[] overlap; the GIN index on tracks serves this filter.
	err := r.db.WithContext(ctx).
		Table(r.collection).
		Select("id", "name", "tracks").
		Where("tracks && ?", pq.StringArray(trackURIs)).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	return r.mapper.ToEntities(models), nil
}

// neighborRow is flat on purpose: gorm scans raw selects by column name.
type neighborRow struct {
	Id       int64
	Name     string
	Tracks   pq.StringArray `gorm:"type:text[]"`
	Distance float64
}

func (r *PlaylistIndexRepositoryImpl) SearchNearest(ctx context.Context, embedding []float32, limit int) ([]*contract.NeighborPlaylist, error) {
	var rows []neighborRow

	op := r.metric.Operator()
	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table(r.collection).
		Select(fmt.Sprintf("id, name, tracks, embedding %s ? AS distance", op), queryVector).
		Order("distance ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	neighbors := make([]*contract.NeighborPlaylist, len(rows))
	for i, row := range rows {
		neighbors[i] = &contract.NeighborPlaylist{
			Playlist: &entity.Playlist{
				Id:     row.Id,
				Name:   row.Name,
				Tracks: []string(row.Tracks),
			},
			Distance: row.Distance,
		}
	}
	return neighbors, nil
}

func (r *PlaylistIndexRepositoryImpl) HasCollection(ctx context.Context) (bool, error) {
	return r.db.WithContext(ctx).Migrator().HasTable(r.collection), nil
}

func (r *PlaylistIndexRepositoryImpl) DropCollection(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Migrator().DropTable(r.collection); err != nil {
		return apperrors.StoreFailure(err)
	}
	return nil
}

func (r *PlaylistIndexRepositoryImpl) CreateCollection(ctx context.Context, dim int, metric contract.Metric) error {
	if !collectionNamePattern.MatchString(r.collection) {
		return fmt.Errorf("invalid collection name %q", r.collection)
	}
	if dim <= 0 {
		return fmt.Errorf("invalid embedding dimension %d", dim)
	}

	opsClass := "vector_cosine_ops"
	if metric == contract.MetricL2 {
		opsClass = "vector_l2_ops"
	}

	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf(
			"CREATE TABLE %s (id bigint PRIMARY KEY, name text NOT NULL, tracks text[] NOT NULL, embedding vector(%d) NOT NULL)",
			r.collection, dim,
		),
		fmt.Sprintf("CREATE INDEX %s_tracks_idx ON %s USING gin (tracks)", r.collection, r.collection),
		fmt.Sprintf("CREATE INDEX %s_embedding_idx ON %s USING hnsw (embedding %s)", r.collection, r.collection, opsClass),
	}

	for _, stmt := range stmts {
		if err := r.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return apperrors.StoreFailure(err)
		}
	}
	return nil
}

func (r *PlaylistIndexRepositoryImpl) UpsertBatch(ctx context.Context, records []*contract.IndexRecord) error {
	if len(records) == 0 {
		return nil
	}

	models := r.mapper.RecordsToModels(records)

	err := r.db.WithContext(ctx).
		Table(r.collection).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&models).Error
	if err != nil {
		return apperrors.StoreFailure(err)
	}
	return nil
}

func (r *PlaylistIndexRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table(r.collection).Count(&count).Error; err != nil {
		return 0, apperrors.StoreFailure(err)
	}
	return count, nil
}
