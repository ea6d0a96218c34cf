package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/citematch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoltStore_RoundTripAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := NewBoltStore(path)
	require.NoError(t, err)

	fetched := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	entry := Entry{
		Records: []models.CandidateRecord{{
			Title:   "General Theory of Everything",
			Authors: []string{"John Smith"},
			Years:   []string{"1999"},
		}},
		FetchedAt: fetched,
	}
	require.NoError(t, s.Set("crossref|general theory", entry))
	require.NoError(t, s.Close())

	s, err = NewBoltStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, ok, err := s.Get("crossref|general theory")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, fetched.Equal(got.FetchedAt))
	require.Len(t, got.Records, 1)
	assert.Equal(t, entry.Records[0].Title, got.Records[0].Title)
	assert.Equal(t, []string{"1999"}, got.Records[0].Years)

	require.NoError(t, s.Delete("crossref|general theory"))
	_, ok, err = s.Get("crossref|general theory")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBoltStore_Missing(t *testing.T) {
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBoltStore_BadPath(t *testing.T) {
	_, err := NewBoltStore(filepath.Join(t.TempDir(), "missing-dir", "cache.db"))
	assert.Error(t, err)
}
