package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/ktienda-chat/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptCache_SaveAndLoad(t *testing.T) {
	dir := filepath.Join(testutil.CreateTempDir(t), "history")
	cache := NewTranscriptCache(dir, "http://backend")

	missing, err := cache.Load("session_1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, cache.Save(CreateTestTranscript("session_1")))
	require.NoError(t, cache.Save(CreateTestTranscript("session_2")))

	loaded, err := cache.Load("session_1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Conversación 1", loaded.Name)
	require.Len(t, loaded.Messages, 2)
	require.Len(t, loaded.Messages[1].ToolCalls, 1)
	assert.Equal(t, "check_stock", loaded.Messages[1].ToolCalls[0].Tool)

	index, err := cache.LoadIndex()
	require.NoError(t, err)
	require.Len(t, index.Transcripts, 2)
	assert.Equal(t, 2, index.Transcripts[0].MessageCount)
	assert.Equal(t, "http://backend", index.Metadata.APIURL)
}

func TestTranscriptCache_SaveReplacesEntry(t *testing.T) {
	cache := NewTranscriptCache(testutil.CreateTempDir(t), "http://backend")

	require.NoError(t, cache.Save(CreateTestTranscript("session_1")))
	shorter := CreateTestTranscriptWithMessages("session_1", []Message{{Role: RoleUser, Content: "hola"}})
	require.NoError(t, cache.Save(shorter))

	index, err := cache.LoadIndex()
	require.NoError(t, err)
	require.Len(t, index.Transcripts, 1)
	assert.Equal(t, 1, index.Transcripts[0].MessageCount)
}

func TestTranscriptCache_OtherBackendIsIgnored(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	require.NoError(t, NewTranscriptCache(dir, "http://old").Save(CreateTestTranscript("session_1")))

	cache := NewTranscriptCache(dir, "http://new")
	assert.False(t, cache.IsCacheValid())
	loaded, err := cache.Load("session_1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// saving for the new backend starts a fresh index
	require.NoError(t, cache.Save(CreateTestTranscript("session_2")))
	index, err := cache.LoadIndex()
	require.NoError(t, err)
	require.Len(t, index.Transcripts, 1)
	assert.Equal(t, "session_2", index.Transcripts[0].ID)
}

func TestTranscriptCache_Remove(t *testing.T) {
	cache := NewTranscriptCache(testutil.CreateTempDir(t), "http://backend")
	require.NoError(t, cache.Save(CreateTestTranscript("session_1")))
	require.NoError(t, cache.Save(CreateTestTranscript("session_2")))

	require.NoError(t, cache.Remove("session_1"))
	require.NoError(t, cache.Remove("session_unknown"))

	loaded, err := cache.Load("session_1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	index, err := cache.LoadIndex()
	require.NoError(t, err)
	require.Len(t, index.Transcripts, 1)
	assert.Equal(t, "session_2", index.Transcripts[0].ID)
}

func TestTranscriptCache_ClearCache(t *testing.T) {
	cache := NewTranscriptCache(testutil.CreateTempDir(t), "http://backend")
	require.NoError(t, cache.ClearCache(), "clearing an empty cache is fine")

	require.NoError(t, cache.Save(CreateTestTranscript("session_1")))
	require.NoError(t, cache.ClearCache())

	_, err := os.Stat(cache.GetTranscriptPath("session_1"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(cache.GetIndexPath())
	assert.True(t, os.IsNotExist(err))
}

func TestTranscriptCache_PathStaysInsideDir(t *testing.T) {
	cache := NewTranscriptCache("/tmp/history", "http://backend")
	assert.Equal(t, filepath.Join("/tmp/history", "x.json"), cache.GetTranscriptPath("../../x"))
}
