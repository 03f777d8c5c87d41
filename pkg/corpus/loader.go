package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Playlist is one corpus record for the bulk index build: a display name and
// the track URIs it contains.
type Playlist struct {
	Name   string   `json:"name"`
	Tracks []string `json:"tracks"`
}

// Load reads a playlist corpus from disk. Files ending in .jsonl are read one
// JSON object per line; anything else is parsed as a single JSON array.
func Load(path string) ([]Playlist, error) {
	if strings.HasSuffix(path, ".jsonl") {
		return loadJSONL(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var playlists []Playlist
	if err := json.Unmarshal(data, &playlists); err != nil {
		return nil, fmt.Errorf("invalid corpus file %s: %w", path, err)
	}
	return playlists, nil
}

func loadJSONL(path string) ([]Playlist, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var playlists []Playlist
	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024) // playlists can carry thousands of tracks

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var pl Playlist
		if err := json.Unmarshal([]byte(raw), &pl); err != nil {
			return nil, fmt.Errorf("invalid corpus record at %s:%d: %w", path, line, err)
		}
		playlists = append(playlists, pl)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return playlists, nil
}

// LoadTrackSet reads a JSON array of track URIs into a membership set, used
// to drop tracks the catalog no longer knows about before indexing.
func LoadTrackSet(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var uris []string
	if err := json.Unmarshal(data, &uris); err != nil {
		return nil, fmt.Errorf("invalid track set file %s: %w", path, err)
	}

	set := make(map[string]struct{}, len(uris))
	for _, uri := range uris {
		set[uri] = struct{}{}
	}
	return set, nil
}

// FilterValidTracks removes tracks not present in the valid set. Playlists
// keep their positions; names are untouched.
func FilterValidTracks(playlists []Playlist, valid map[string]struct{}) []Playlist {
	filtered := make([]Playlist, 0, len(playlists))
	for _, pl := range playlists {
		kept := make([]string, 0, len(pl.Tracks))
		for _, t := range pl.Tracks {
			if _, ok := valid[t]; ok {
				kept = append(kept, t)
			}
		}
		filtered = append(filtered, Playlist{Name: pl.Name, Tracks: kept})
	}
	return filtered
}

// FilterMinLength drops playlists with fewer than min tracks. Short playlists
// carry too little co-occurrence signal to be worth indexing.
func FilterMinLength(playlists []Playlist, min int) []Playlist {
	if min <= 0 {
		return playlists
	}
	filtered := make([]Playlist, 0, len(playlists))
	for _, pl := range playlists {
		if len(pl.Tracks) >= min {
			filtered = append(filtered, pl)
		}
	}
	return filtered
}
