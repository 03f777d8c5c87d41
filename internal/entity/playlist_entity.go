package entity

// Playlist is a read-only view over one indexed playlist: a display name and
// the ordered track URIs it contains. Identity is the sequential id assigned
// during the bulk build.
type Playlist struct {
	Id     int64
	Name   string
	Tracks []string
}
