package mapper

import (
	"playlist-recommender-be/internal/entity"
	"playlist-recommender-be/internal/model"
	"playlist-recommender-be/internal/repository/contract"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

type PlaylistMapper struct{}

func NewPlaylistMapper() *PlaylistMapper {
	return &PlaylistMapper{}
}

func (m *PlaylistMapper) ToEntity(p *model.Playlist) *entity.Playlist {
	if p == nil {
		return nil
	}

	return &entity.Playlist{
		Id:     p.Id,
		Name:   p.Name,
		Tracks: []string(p.Tracks),
	}
}

func (m *PlaylistMapper) ToEntities(playlists []*model.Playlist) []*entity.Playlist {
	entities := make([]*entity.Playlist, len(playlists))
	for i, p := range playlists {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *PlaylistMapper) RecordToModel(r *contract.IndexRecord) *model.Playlist {
	if r == nil {
		return nil
	}

	return &model.Playlist{
		Id:        r.Id,
		Name:      r.Name,
		Tracks:    pq.StringArray(r.Tracks),
		Embedding: pgvector.NewVector(r.Embedding),
	}
}

func (m *PlaylistMapper) RecordsToModels(records []*contract.IndexRecord) []*model.Playlist {
	models := make([]*model.Playlist, len(records))
	for i, r := range records {
		models[i] = m.RecordToModel(r)
	}
	return models
}
