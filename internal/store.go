package internal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const defaultSessionListTTL = 5 * time.Second

// Store tracks the active session and the locally known session list.
// The active id is the only piece of it that is persisted.
type Store struct {
	mu sync.RWMutex

	api      SessionAPI
	state    StateStore
	cache    *SessionCache
	snapshot *SnapshotManager
	history  *TranscriptCache
	now      func() time.Time

	active     string
	generation uint64
	sessions   []Session
	lastMinted int64
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithSessionCache shares a session list cache with other consumers
func WithSessionCache(c *SessionCache) StoreOption {
	return func(s *Store) { s.cache = c }
}

// WithSnapshot persists every successfully fetched list to disk
func WithSnapshot(sm *SnapshotManager) StoreOption {
	return func(s *Store) { s.snapshot = sm }
}

// WithTranscriptCache keeps every fetched history on disk
func WithTranscriptCache(tc *TranscriptCache) StoreOption {
	return func(s *Store) { s.history = tc }
}

// WithClock overrides the wall clock used to mint session ids
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore restores the active session id from state, minting and persisting
// a fresh one when nothing is stored.
func NewStore(api SessionAPI, state StateStore, opts ...StoreOption) *Store {
	s := &Store{
		api:   api,
		state: state,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = NewSessionCache(defaultSessionListTTL)
	}

	if s.snapshot != nil {
		snap, err := s.snapshot.Load()
		if err != nil {
			LogWarn("Failed to load session snapshot: %v", err)
		} else if snap != nil {
			s.sessions = cloneSessions(snap.Sessions)
			LogDebug("Seeded %d session(s) from snapshot taken %s", len(snap.Sessions), snap.FetchedAt.Format(time.RFC3339))
		}
	}

	stored, ok, err := state.Get(ActiveSessionKey)
	if err != nil {
		LogWarn("Failed to read active session: %v", err)
	}
	if ok && stored != "" {
		s.active = stored
	} else {
		s.active = s.mintLocked()
		s.persistLocked()
	}
	return s
}

// Active returns the active session id. It is never empty.
func (s *Store) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Generation increases every time the active session changes
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Sessions returns a copy of the locally known session list
func (s *Store) Sessions() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSessions(s.sessions)
}

// SelectSession makes id the active session. No network call is made.
func (s *Store) SelectSession(id string) error {
	if id == "" {
		return errors.New("session id must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = id
	s.generation++
	s.persistLocked()
	LogDebug("Selected session %s", id)
	return nil
}

// CreateSession mints a new session id, activates it and returns it
func (s *Store) CreateSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = s.mintLocked()
	s.generation++
	s.persistLocked()
	LogDebug("Created session %s", s.active)
	return s.active
}

// RefreshSessionList replaces the local list with the backend's. On failure
// the previous list is kept and the error is returned.
func (s *Store) RefreshSessionList(ctx context.Context) error {
	resp, err := s.api.ListSessions(ctx)
	if err != nil {
		LogWarn("Failed to load sessions: %v", err)
		return fmt.Errorf("failed to refresh session list: %w", err)
	}

	sessions := resp.Sessions
	if sessions == nil {
		sessions = []Session{}
	}
	s.cache.Set(sessions)

	s.mu.Lock()
	s.sessions = cloneSessions(sessions)
	s.mu.Unlock()

	if s.snapshot != nil {
		if err := s.snapshot.Save(sessions); err != nil {
			LogWarn("Failed to save session snapshot: %v", err)
		}
	}
	LogDebug("Refreshed session list: %d session(s)", len(sessions))
	return nil
}

// ResolveActiveName returns the display name of the active session. The
// shared cache is consulted first; the backend is only asked when it is cold.
func (s *Store) ResolveActiveName(ctx context.Context) string {
	active := s.Active()

	sessions, ok := s.cache.Get()
	if !ok {
		resp, err := s.api.ListSessions(ctx)
		if err != nil {
			LogWarn("Failed to resolve session name: %v", err)
			return DisplayName(active)
		}
		sessions = resp.Sessions
		s.cache.Set(sessions)
	}

	for _, sess := range sessions {
		if sess.ID == active {
			return sess.DisplayName()
		}
	}
	return DisplayName(active)
}

// DeleteSession deletes id on the backend, refreshes the list and, if id
// was active, switches to a freshly minted session. A failed delete is
// logged and returned; nothing local is rolled back.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := s.api.DeleteSession(ctx, id); err != nil {
		LogError("Failed to delete session %s: %v", id, err)
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	LogInfo("Deleted session %s", id)
	s.forgetTranscript(id)

	s.cache.Invalidate()
	_ = s.RefreshSessionList(ctx)

	if s.Active() == id {
		s.CreateSession()
	}
	return nil
}

// ClearSession resets the backend history of id without deleting it
func (s *Store) ClearSession(ctx context.Context, id string) error {
	if err := s.api.ClearSession(ctx, id); err != nil {
		LogError("Failed to clear session %s: %v", id, err)
		return fmt.Errorf("failed to clear session %s: %w", id, err)
	}
	LogInfo("Cleared session %s", id)
	s.forgetTranscript(id)
	return nil
}

// History fetches the backend history of id
func (s *Store) History(ctx context.Context, id string) (*HistoryResponse, error) {
	resp, err := s.api.SessionHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %s: %w", id, err)
	}
	if s.history != nil && resp.Exists {
		transcript := resp.Transcript()
		transcript.Name = s.displayName(id)
		if err := s.history.Save(transcript); err != nil {
			LogWarn("Failed to cache transcript of %s: %v", id, err)
		}
	}
	return resp, nil
}

// CachedTranscript returns the last transcript of id fetched from this
// backend, or nil if none was cached
func (s *Store) CachedTranscript(id string) *Transcript {
	if s.history == nil {
		return nil
	}
	transcript, err := s.history.Load(id)
	if err != nil {
		LogWarn("Failed to read cached transcript of %s: %v", id, err)
		return nil
	}
	return transcript
}

func (s *Store) forgetTranscript(id string) {
	if s.history == nil {
		return
	}
	if err := s.history.Remove(id); err != nil {
		LogWarn("Failed to drop cached transcript of %s: %v", id, err)
	}
}

// displayName looks id up in the local list
func (s *Store) displayName(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess.DisplayName()
		}
	}
	return DisplayName(id)
}

// mintLocked returns session_<millis>, strictly increasing within the process
// and never equal to the active id or a listed session.
func (s *Store) mintLocked() string {
	ms := s.now().UnixMilli()
	if ms <= s.lastMinted {
		ms = s.lastMinted + 1
	}
	for {
		id := fmt.Sprintf("%s%d", sessionPrefix, ms)
		if !s.knownLocked(id) {
			s.lastMinted = ms
			return id
		}
		ms++
	}
}

func (s *Store) knownLocked(id string) bool {
	if id == s.active {
		return true
	}
	for _, sess := range s.sessions {
		if sess.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) persistLocked() {
	if err := s.state.Set(ActiveSessionKey, s.active); err != nil {
		LogWarn("Failed to persist active session: %v", err)
	}
}
