package repository

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"TrackDrop/logger"
	"TrackDrop/model"
)

var (
	// ErrTrackNotFound is returned by by-id mutations when no track has the id.
	ErrTrackNotFound = errors.New("track not found")
	// ErrEmptyComment is returned when a comment is blank after trimming.
	ErrEmptyComment = errors.New("empty comment")
)

// TrackStore owns the ordered track list and keeps its persisted mirror in sync.
// Insertion order is upload order.
type TrackStore struct {
	mu        sync.Mutex
	tracks    []*model.Track
	persister Persister
}

// NewTrackStore creates an empty store backed by persister. Call Load to read persisted state.
func NewTrackStore(persister Persister) *TrackStore {
	return &TrackStore{persister: persister}
}

// Load replaces the in-memory list with the persisted one.
// Unreadable or malformed state is not an error: the store starts empty.
func (s *TrackStore) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracks = nil
	tracks, err := s.persister.Load()
	if err != nil {
		logger.Warn("Starting with an empty track store", logger.ErrorField(err))
		return
	}

	for i := range tracks {
		t := tracks[i]
		if t.Comments == nil {
			t.Comments = []string{}
		}
		s.tracks = append(s.tracks, &t)
	}
	logger.Info("Track store loaded", logger.Int("tracks", len(s.tracks)))
}

// List returns a snapshot of all tracks in insertion order.
func (s *TrackStore) List() []model.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Get returns a copy of the track with the given id.
func (s *TrackStore) Get(id string) (model.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return model.Track{}, false
	}
	return t.Clone(), true
}

// Len returns the number of stored tracks.
func (s *TrackStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tracks)
}

// Create appends track and persists the store.
func (s *TrackStore) Create(track model.Track) (model.Track, error) {
	stored := track.Clone()
	if stored.Likes < 0 {
		stored.Likes = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracks = append(s.tracks, &stored)
	if err := s.flush(); err != nil {
		return stored.Clone(), err
	}
	return stored.Clone(), nil
}

// Like increments the like count of the track and returns the new count.
func (s *TrackStore) Like(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return 0, ErrTrackNotFound
	}
	t.Likes++
	return t.Likes, s.flush()
}

// AddComment appends the trimmed text to the track's comments and returns all comments.
func (s *TrackStore) AddComment(id, text string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return nil, ErrTrackNotFound
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	t.Comments = append(t.Comments, text)
	comments := append([]string{}, t.Comments...)
	return comments, s.flush()
}

// Comments returns the track's comments. An unknown id yields an empty list, not an error.
func (s *TrackStore) Comments(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return []string{}
	}
	return append([]string{}, t.Comments...)
}

func (s *TrackStore) find(id string) *model.Track {
	for _, t := range s.tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *TrackStore) snapshot() []model.Track {
	out := make([]model.Track, 0, len(s.tracks))
	for _, t := range s.tracks {
		out = append(out, t.Clone())
	}
	return out
}

// flush writes the whole list through the persister. Callers hold mu.
func (s *TrackStore) flush() error {
	if err := s.persister.Save(s.snapshot()); err != nil {
		logger.Error("Failed to persist track store", logger.ErrorField(err))
		return fmt.Errorf("persist track store: %w", err)
	}
	return nil
}
