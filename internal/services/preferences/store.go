// Package preferences persists the dashboard's chart and range choices.
package preferences

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/logger"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

// Store keeps preferences in memory and mirrors them to a JSON file.
type Store struct {
	path  string
	prefs models.Preferences
	mu    sync.RWMutex
}

// Open loads preferences from path. A missing or unreadable file yields
// defaults; unknown values are replaced by their defaults.
func Open(path string) *Store {
	s := &Store{
		path:  path,
		prefs: models.DefaultPreferences(),
	}
	if path == "" {
		return s
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed to read preferences, using defaults", "path", path, "error", err)
		}
		return s
	}

	// Start from defaults so absent keys keep their default.
	prefs := models.DefaultPreferences()
	if err := json.Unmarshal(data, &prefs); err != nil {
		logger.Warn("ignoring corrupt preferences file", "path", path, "error", err)
		return s
	}
	s.prefs = prefs.Sanitize()
	return s
}

// Path returns the backing file, empty for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

// Get returns the current preferences.
func (s *Store) Get() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Update applies fn, sanitizes the result and saves it. The in-memory value
// changes even when saving fails.
func (s *Store) Update(fn func(*models.Preferences)) (models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := s.prefs
	fn(&prefs)
	s.prefs = prefs.Sanitize()

	return s.prefs, s.saveLocked()
}

// saveLocked writes through a temp file so a crash never leaves half a file.
func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".preferences-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close preferences: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace preferences: %w", err)
	}
	return nil
}
