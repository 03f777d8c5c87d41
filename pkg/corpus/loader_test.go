package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSONArray(t *testing.T) {
	path := writeFile(t, "corpus.json", `[
		{"name": "road trip", "tracks": ["t1", "t2"]},
		{"name": "chill", "tracks": ["t3"]}
	]`)

	playlists, err := Load(path)
	require.NoError(t, err)

	require.Len(t, playlists, 2)
	assert.Equal(t, "road trip", playlists[0].Name)
	assert.Equal(t, []string{"t1", "t2"}, playlists[0].Tracks)
	assert.Equal(t, []string{"t3"}, playlists[1].Tracks)
}

func TestLoadJSONL(t *testing.T) {
	path := writeFile(t, "corpus.jsonl",
		`{"name": "road trip", "tracks": ["t1", "t2"]}

{"name": "chill", "tracks": ["t3"]}
`)

	playlists, err := Load(path)
	require.NoError(t, err)

	require.Len(t, playlists, 2)
	assert.Equal(t, "chill", playlists[1].Name)
}

func TestLoadJSONLReportsBadLine(t *testing.T) {
	path := writeFile(t, "corpus.jsonl",
		`{"name": "ok", "tracks": ["t1"]}
not json
`)

	playlists, err := Load(path)
	assert.Nil(t, playlists)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ":2")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadTrackSet(t *testing.T) {
	path := writeFile(t, "tracks.json", `["t1", "t2", "t1"]`)

	set, err := LoadTrackSet(path)
	require.NoError(t, err)

	assert.Len(t, set, 2)
	_, ok := set["t2"]
	assert.True(t, ok)
}

func TestFilterValidTracks(t *testing.T) {
	playlists := []Playlist{
		{Name: "a", Tracks: []string{"t1", "dead", "t2"}},
		{Name: "b", Tracks: []string{"dead"}},
	}
	valid := map[string]struct{}{"t1": {}, "t2": {}}

	filtered := FilterValidTracks(playlists, valid)

	require.Len(t, filtered, 2)
	assert.Equal(t, []string{"t1", "t2"}, filtered[0].Tracks)
	assert.Empty(t, filtered[1].Tracks)
}

func TestFilterMinLength(t *testing.T) {
	playlists := []Playlist{
		{Name: "long", Tracks: []string{"t1", "t2", "t3"}},
		{Name: "short", Tracks: []string{"t1"}},
	}

	filtered := FilterMinLength(playlists, 2)
	require.Len(t, filtered, 1)
	assert.Equal(t, "long", filtered[0].Name)

	assert.Len(t, FilterMinLength(playlists, 0), 2)
}
