package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"TrackDrop/model"
)

// Persister loads and saves the full track list.
type Persister interface {
	Load() ([]model.Track, error)
	Save(tracks []model.Track) error
}

// JSONFilePersister mirrors the track list to a single pretty-printed JSON file.
// Every Save rewrites the whole file in place; a crash mid-write can leave it truncated.
type JSONFilePersister struct {
	Path string
}

// NewJSONFilePersister creates a persister for the given metadata file.
func NewJSONFilePersister(path string) *JSONFilePersister {
	return &JSONFilePersister{Path: path}
}

// Load reads and parses the metadata file. A missing file yields an error wrapping os.ErrNotExist.
func (p *JSONFilePersister) Load() ([]model.Track, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file %s: %w", p.Path, err)
	}

	var tracks []model.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("failed to parse metadata file %s: %w", p.Path, err)
	}
	return tracks, nil
}

// Save serializes tracks with two-space indentation and overwrites the file.
func (p *JSONFilePersister) Save(tracks []model.Track) error {
	if tracks == nil {
		tracks = []model.Track{}
	}
	data, err := json.MarshalIndent(tracks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tracks: %w", err)
	}
	if err := os.WriteFile(p.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file %s: %w", p.Path, err)
	}
	return nil
}
