package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/reel/internal/catalog"
	"github.com/justchokingaround/reel/internal/config"
	"github.com/justchokingaround/reel/internal/database"
	"github.com/justchokingaround/reel/internal/genre"
)

func newTestService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{
		Path:           filepath.Join(t.TempDir(), "reel.db"),
		MaxConnections: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	now := time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)
	svc := NewService(db)
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestService_RecordAndRecent(t *testing.T) {
	svc, now := newTestService(t)

	fightClub := catalog.Movie{ID: 550, Title: "Fight Club", VoteAverage: 8.4, ReleaseDate: "1999-10-15"}
	dune := catalog.Movie{ID: 438631, Title: "Dune", VoteAverage: 7.8}
	heat := catalog.Movie{ID: 949, Title: "Heat", VoteAverage: 7.9}

	require.NoError(t, svc.Record(fightClub))
	*now = now.Add(time.Minute)
	require.NoError(t, svc.Record(dune))
	*now = now.Add(time.Minute)
	require.NoError(t, svc.Record(heat))
	*now = now.Add(time.Minute)
	require.NoError(t, svc.Record(fightClub))

	entries, err := svc.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 550, entries[0].MovieID)
	assert.Equal(t, 2, entries[0].Views)
	assert.Equal(t, "1999-10-15", entries[0].ReleaseDate)
	assert.Equal(t, 949, entries[1].MovieID)
	assert.Equal(t, 438631, entries[2].MovieID)

	t.Run("limit", func(t *testing.T) {
		entries, err := svc.Recent(2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, []int{550, 949}, []int{entries[0].MovieID, entries[1].MovieID})
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, svc.Clear())
		entries, err := svc.Recent(10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestEntry_ViewedAgo(t *testing.T) {
	now := time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)
	e := Entry{ViewedAt: now.Add(-3 * time.Minute)}
	assert.Equal(t, "3 minutes ago", e.ViewedAgo(now))
}

func TestService_Selection(t *testing.T) {
	svc, _ := newTestService(t)

	sel, err := svc.LastSelection()
	require.NoError(t, err)
	assert.True(t, sel.Empty())

	require.NoError(t, svc.SaveSelection(genre.NewSelection(35, 28)))
	sel, err = svc.LastSelection()
	require.NoError(t, err)
	assert.Equal(t, []int{28, 35}, sel.IDs())

	require.NoError(t, svc.SaveSelection(genre.Selection{}))
	sel, err = svc.LastSelection()
	require.NoError(t, err)
	assert.True(t, sel.Empty())
}

func TestService_NilDB(t *testing.T) {
	svc := NewService(nil)

	assert.Error(t, svc.Record(catalog.Movie{ID: 1}))
	_, err := svc.Recent(1)
	assert.Error(t, err)
	_, err = svc.LastSelection()
	assert.Error(t, err)
	assert.Error(t, svc.SaveSelection(genre.NewSelection(1)))
}
