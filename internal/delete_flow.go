package internal

import "context"

// SessionDeleter is what the delete flow needs from the session store
type SessionDeleter interface {
	DeleteSession(ctx context.Context, id string) error
}

// DeleteFlow is the two-state delete confirmation: idle or pending(id)
type DeleteFlow struct {
	pending string
	active  bool
}

// Request asks for confirmation to delete id
func (f *DeleteFlow) Request(id string) {
	f.pending = id
	f.active = true
}

// Pending returns the session awaiting confirmation, if any
func (f *DeleteFlow) Pending() (string, bool) {
	return f.pending, f.active
}

// Cancel returns to idle without deleting
func (f *DeleteFlow) Cancel() {
	f.pending = ""
	f.active = false
}

// Confirm deletes the pending session and returns to idle whether or not
// the delete succeeded. It does nothing when idle.
func (f *DeleteFlow) Confirm(ctx context.Context, store SessionDeleter) error {
	id, ok := f.Pending()
	if !ok {
		return nil
	}
	defer f.Cancel()
	return store.DeleteSession(ctx, id)
}
