package adtpulse

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Entry is one persisted credential record, keyed by username.
type Entry struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Fingerprint string `json:"fingerprint"`
	Host        string `json:"host"`
}

// ErrAlreadyConfigured is returned when adding an entry for a username that
// already has one. Reauthentication goes through Update instead.
var ErrAlreadyConfigured = errors.New("account already configured")

// ErrEntryNotFound is returned when updating an entry that does not exist.
var ErrEntryNotFound = errors.New("entry not found")

// EntryStore persists credential entries to a JSON file on disk.
type EntryStore struct {
	path string
	mu   sync.Mutex
}

func NewEntryStore(path string) *EntryStore {
	return &EntryStore{path: filepath.Clean(path)}
}

// Get returns the entry for a username, if any.
func (s *EntryStore) Get(username string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return Entry{}, false, err
	}
	entry, ok := entries[username]
	return entry, ok, nil
}

// Add persists a new entry. Re-submission for an already configured
// username aborts with ErrAlreadyConfigured.
func (s *EntryStore) Add(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[entry.Username]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyConfigured, entry.Username)
	}
	entries[entry.Username] = entry
	return s.save(entries)
}

// Update replaces the stored entry for an existing username, the
// reauthentication path.
func (s *EntryStore) Update(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[entry.Username]; !ok {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, entry.Username)
	}
	entries[entry.Username] = entry
	return s.save(entries)
}

func (s *EntryStore) load() (map[string]Entry, error) {
	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]Entry{}, nil
		}
		return nil, fmt.Errorf("could not read entries: %w", err)
	}
	entries := map[string]Entry{}
	if err := json.Unmarshal(contents, &entries); err != nil {
		return nil, fmt.Errorf("could not decode entries: %w", err)
	}
	return entries, nil
}

func (s *EntryStore) save(entries map[string]Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode entries: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("could not write entries: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("could not write entries: %w", err)
	}
	return nil
}
