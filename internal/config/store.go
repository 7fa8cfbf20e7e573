package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrUnknownSection is returned for section names outside the known set.
var ErrUnknownSection = errors.New("unknown settings section")

// settingsFile is the on-disk shape of the settings store. Sections hold
// the typed key-value settings; Data holds opaque blobs owned by other
// packages (LLM configs, templates, api keys).
type settingsFile struct {
	Sections map[string]map[string]any  `json:"sections"`
	Data     map[string]json.RawMessage `json:"data,omitempty"`
}

// Store is a mutex-guarded settings store backed by one JSON file. Every
// operation loads, mutates, and rewrites the file; the file is the single
// source of truth.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore opens the settings store at path, creating and seeding the file
// with defaults if it does not exist.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("settings path is empty")
	}
	s := &Store{path: path}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.loadLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the settings file path.
func (s *Store) Path() string { return s.path }

// Get returns one setting value. Missing keys fall back to the section
// default; missing defaults return nil.
func (s *Store) Get(section, key string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	sec, ok := f.Sections[section]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	return sec[key], nil
}

// Set writes one setting value.
func (s *Store) Set(section, key string, value any) error {
	if key == "" {
		return errors.New("settings key is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.loadLocked()
	if err != nil {
		return err
	}
	sec, ok := f.Sections[section]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	sec[key] = value
	return s.saveLocked(f)
}

// GetSection returns a copy of one section's settings.
func (s *Store) GetSection(section string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	sec, ok := f.Sections[section]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	out := make(map[string]any, len(sec))
	for k, v := range sec {
		out[k] = v
	}
	return out, nil
}

// SetSection merges the given values into a section.
func (s *Store) SetSection(section string, values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.loadLocked()
	if err != nil {
		return err
	}
	sec, ok := f.Sections[section]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	for k, v := range values {
		sec[k] = v
	}
	return s.saveLocked(f)
}

// GetAll returns a copy of every section.
func (s *Store) GetAll() (map[string]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]any, len(f.Sections))
	for name, sec := range f.Sections {
		cp := make(map[string]any, len(sec))
		for k, v := range sec {
			cp[k] = v
		}
		out[name] = cp
	}
	return out, nil
}

// ResetSection restores one section to its seeded defaults.
func (s *Store) ResetSection(section string) error {
	def, ok := defaults()[section]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.loadLocked()
	if err != nil {
		return err
	}
	f.Sections[section] = def
	return s.saveLocked(f)
}

// ResetAll restores every section to its seeded defaults. Opaque data blobs
// are left untouched.
func (s *Store) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.loadLocked()
	if err != nil {
		return err
	}
	f.Sections = defaults()
	return s.saveLocked(f)
}

// GetData unmarshals an opaque blob into out. Returns false when the blob
// has never been written.
func (s *Store) GetData(name string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.loadLocked()
	if err != nil {
		return false, err
	}
	raw, ok := f.Data[name]
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s data: %w", name, err)
	}
	return true, nil
}

// SetData stores an opaque blob under name.
func (s *Store) SetData(name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s data: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.loadLocked()
	if err != nil {
		return err
	}
	if f.Data == nil {
		f.Data = make(map[string]json.RawMessage)
	}
	f.Data[name] = raw
	return s.saveLocked(f)
}

// loadLocked reads the settings file, seeding defaults for any missing
// section or key and creating the file on first use.
func (s *Store) loadLocked() (*settingsFile, error) {
	f := &settingsFile{Sections: defaults()}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		if err := s.saveLocked(f); err != nil {
			return nil, err
		}
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var onDisk settingsFile
	if err := json.Unmarshal(data, &onDisk); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}
	for name, sec := range onDisk.Sections {
		if _, known := f.Sections[name]; !known {
			continue
		}
		for k, v := range sec {
			f.Sections[name][k] = v
		}
	}
	f.Data = onDisk.Data
	return f, nil
}

func (s *Store) saveLocked(f *settingsFile) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// Int reads a numeric setting, tolerating the float64 shape JSON decoding
// produces.
func Int(v any, fallback int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return fallback
}

// Bool reads a boolean setting.
func Bool(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

// String reads a string setting.
func String(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}
