package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const transcriptCacheVersion = "1.0"

// TranscriptCache keeps the last fetched transcript of each session on disk
// so history and export still work while the backend is down.
type TranscriptCache struct {
	cacheDir string
	apiURL   string
}

// CacheMetadata stores metadata about the cache
type CacheMetadata struct {
	APIURL       string    `yaml:"api_url"`
	CacheVersion string    `yaml:"cache_version"`
	CreatedAt    time.Time `yaml:"created_at"`
	UpdatedAt    time.Time `yaml:"updated_at"`
}

// TranscriptIndexEntry represents a cached transcript in the index
type TranscriptIndexEntry struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name,omitempty"`
	MessageCount int       `yaml:"message_count"`
	FetchedAt    time.Time `yaml:"fetched_at"`
}

// TranscriptIndex represents the YAML index of all cached transcripts
type TranscriptIndex struct {
	Transcripts []TranscriptIndexEntry `yaml:"transcripts"`
	Metadata    CacheMetadata          `yaml:"metadata"`
}

// NewTranscriptCache creates a cache in cacheDir for the given backend
func NewTranscriptCache(cacheDir, apiURL string) *TranscriptCache {
	return &TranscriptCache{
		cacheDir: cacheDir,
		apiURL:   apiURL,
	}
}

// EnsureCacheDir ensures the cache directory exists
func (tc *TranscriptCache) EnsureCacheDir() error {
	return os.MkdirAll(tc.cacheDir, 0755)
}

// GetIndexPath returns the path to the index YAML file
func (tc *TranscriptCache) GetIndexPath() string {
	return filepath.Join(tc.cacheDir, "index.yaml")
}

// GetTranscriptPath returns the path to a session's cache file
func (tc *TranscriptCache) GetTranscriptPath(sessionID string) string {
	return filepath.Join(tc.cacheDir, filepath.Base(sessionID)+".json")
}

// IsCacheValid reports whether the cache was written for this backend
func (tc *TranscriptCache) IsCacheValid() bool {
	index, err := tc.LoadIndex()
	if err != nil || index == nil {
		return false
	}
	return index.Metadata.APIURL == tc.apiURL && index.Metadata.CacheVersion == transcriptCacheVersion
}

// LoadIndex loads the index. A missing index is not an error.
func (tc *TranscriptCache) LoadIndex() (*TranscriptIndex, error) {
	data, err := os.ReadFile(tc.GetIndexPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var index TranscriptIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}
	return &index, nil
}

func (tc *TranscriptCache) saveIndex(index *TranscriptIndex) error {
	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	return os.WriteFile(tc.GetIndexPath(), data, 0644)
}

// loadOrCreateIndex returns the index for this backend, starting over when
// the one on disk belongs to another backend
func (tc *TranscriptCache) loadOrCreateIndex() *TranscriptIndex {
	if tc.IsCacheValid() {
		if index, err := tc.LoadIndex(); err == nil && index != nil {
			return index
		}
	}
	now := time.Now().UTC()
	return &TranscriptIndex{
		Transcripts: make([]TranscriptIndexEntry, 0),
		Metadata: CacheMetadata{
			APIURL:       tc.apiURL,
			CacheVersion: transcriptCacheVersion,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

// Save writes a transcript and updates the index
func (tc *TranscriptCache) Save(transcript *Transcript) error {
	if err := tc.EnsureCacheDir(); err != nil {
		return err
	}

	index := tc.loadOrCreateIndex()

	data, err := json.MarshalIndent(transcript, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	if err := os.WriteFile(tc.GetTranscriptPath(transcript.SessionID), data, 0644); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}

	now := time.Now().UTC()
	entry := TranscriptIndexEntry{
		ID:           transcript.SessionID,
		Name:         transcript.Name,
		MessageCount: len(transcript.Messages),
		FetchedAt:    now,
	}
	found := false
	for i, existing := range index.Transcripts {
		if existing.ID == transcript.SessionID {
			index.Transcripts[i] = entry
			found = true
			break
		}
	}
	if !found {
		index.Transcripts = append(index.Transcripts, entry)
	}
	index.Metadata.UpdatedAt = now

	return tc.saveIndex(index)
}

// Load returns the cached transcript of sessionID, or nil when there is none
// for this backend
func (tc *TranscriptCache) Load(sessionID string) (*Transcript, error) {
	if !tc.IsCacheValid() {
		return nil, nil
	}

	data, err := os.ReadFile(tc.GetTranscriptPath(sessionID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var transcript Transcript
	if err := json.Unmarshal(data, &transcript); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return &transcript, nil
}

// Remove drops sessionID from the cache
func (tc *TranscriptCache) Remove(sessionID string) error {
	if err := os.Remove(tc.GetTranscriptPath(sessionID)); err != nil && !os.IsNotExist(err) {
		return err
	}

	index, err := tc.LoadIndex()
	if err != nil || index == nil {
		return err
	}
	kept := index.Transcripts[:0]
	for _, entry := range index.Transcripts {
		if entry.ID != sessionID {
			kept = append(kept, entry)
		}
	}
	index.Transcripts = kept
	index.Metadata.UpdatedAt = time.Now().UTC()
	return tc.saveIndex(index)
}

// ClearCache removes every cached transcript and the index
func (tc *TranscriptCache) ClearCache() error {
	index, err := tc.LoadIndex()
	if err == nil && index != nil {
		for _, entry := range index.Transcripts {
			_ = os.Remove(tc.GetTranscriptPath(entry.ID))
		}
	}

	if err := os.Remove(tc.GetIndexPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
