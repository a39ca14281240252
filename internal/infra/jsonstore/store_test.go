package jsonstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/vifapro/vifa-history/internal/domain/history"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "analysis_history.json"))
	require.NoError(t, err)
	return s
}

func record(id string) *domain.Analysis {
	return &domain.Analysis{
		ID:        domain.AnalysisID(id),
		Timestamp: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		VideoName: "bukti.mp4",
	}
}

func TestNewCreatesEmptyCollection(t *testing.T) {
	s := newStore(t)

	records, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, records)

	// file harus sudah ada berisi list kosong
	data, err := os.ReadFile(s.path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestLoadAllSelfHealsOnCorruption(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Append(record("a")))

	require.NoError(t, os.WriteFile(s.path, []byte("{not json"), 0o644))

	records, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, records)

	// setelah self-heal, save berikutnya harus normal
	require.NoError(t, s.Append(record("b")))
	records, err = s.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.AnalysisID("b"), records[0].ID)
}

func TestAppendAndGet(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Append(record("a")))
	require.NoError(t, s.Append(record("b")))

	got, err := s.Get("b")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "bukti.mp4", got.VideoName)

	got, err = s.Get("zzz")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRemove(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Append(record("a")))
	require.NoError(t, s.Append(record("b")))

	found, err := s.Remove("a")
	require.NoError(t, err)
	assert.True(t, found)

	records, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.AnalysisID("b"), records[0].ID)

	// id tak dikenal: koleksi tidak berubah
	found, err = s.Remove("zzz")
	require.NoError(t, err)
	assert.False(t, found)

	records, err = s.LoadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestReset(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Append(record("a")))
	require.NoError(t, s.Reset())

	records, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}
