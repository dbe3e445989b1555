package cmd

import (
	"context"
	"fmt"

	"github.com/iksnae/ktienda-chat/internal"
)

// session bundles what most commands need: the backend client and the
// session store backed by the local state database
type session struct {
	paths  internal.StatePaths
	client *internal.Client
	state  *internal.SQLiteState
	store  *internal.Store
}

func openSession() (*session, error) {
	paths, err := cfg.Paths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve state directory: %w", err)
	}
	if err := paths.Ensure(); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	state, err := internal.OpenSQLiteState(paths.DatabasePath())
	if err != nil {
		return nil, err
	}

	client := internal.NewClient(cfg.APIURL, cfg.Timeout)
	store := internal.NewStore(client, state,
		internal.WithSessionCache(internal.NewSessionCache(cfg.SessionListTTL)),
		internal.WithSnapshot(internal.NewSnapshotManager(paths.SnapshotPath(), client.BaseURL())),
		internal.WithTranscriptCache(internal.NewTranscriptCache(paths.HistoryDir(), client.BaseURL())),
	)
	return &session{paths: paths, client: client, state: state, store: store}, nil
}

func (s *session) Close() {
	if err := s.state.Close(); err != nil {
		internal.LogWarn("Failed to close state database: %v", err)
	}
}

// transcript fetches the history of id, falling back to the cached copy when
// the backend cannot be reached. ok is false when the session has no messages.
func (s *session) transcript(ctx context.Context, id string) (t *internal.Transcript, ok bool, err error) {
	history, err := s.store.History(ctx, id)
	if err != nil {
		cached := s.store.CachedTranscript(id)
		if cached == nil {
			return nil, false, err
		}
		internal.PrintWarning(fmt.Sprintf("Could not reach the backend, showing the copy cached for %s", cached.Name))
		return cached, true, nil
	}
	if !history.Exists {
		return nil, false, nil
	}
	return history.Transcript(), true, nil
}

// requestContext bounds a single backend call
func requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, cfg.Timeout)
}
