package model

import (
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// Playlist is the persistence shape of one indexed playlist. The table name
// is the logical collection name and is supplied per query; the vector column
// dimension is declared by the collection DDL, not by a tag here.
type Playlist struct {
	Id        int64           `gorm:"primaryKey"`
	Name      string          `gorm:"type:text;not null"`
	Tracks    pq.StringArray  `gorm:"type:text[];not null"`
	Embedding pgvector.Vector `gorm:"not null"`
}
