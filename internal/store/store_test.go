package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matches.db")
	s, err := NewStore(DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate())
	return s, path
}

func TestStore_LoadMatches(t *testing.T) {
	s, _ := newSQLiteStore(t)

	_, err := s.DB.Exec(`
INSERT INTO matches (match_date, home_team, away_team, fthg, ftag, hthg, htag,
    home_shots, away_shots, home_shots_on_target, away_shots_on_target,
    home_corners, away_corners, home_yellow, away_yellow, home_red, away_red)
VALUES
    ('2023-08-12', 'Sheffield Utd', 'Crystal Palace', 0, 1, 0, 0, 8, 13, 3, 5, 6, 5, 1, 1, 0, 0),
    ('2023-08-13', 'Brentford', 'Tottenham', 2, 2, 2, 2, 12, 15, 5, 6, 4, 9, 2, 3, NULL, 0)`)
	require.NoError(t, err)

	matches, err := s.LoadMatches(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 2)

	first := matches[0]
	assert.Equal(t, "Sheffield Utd", first.HomeTeam)
	assert.Equal(t, "2023-08-12", first.Date.Format("2006-01-02"))
	assert.Equal(t, 1.0, first.AwayWin)
	assert.Equal(t, 1.0, first.AwayCleanSheet)
	assert.Equal(t, 13.0, first.AwayShots)

	second := matches[1]
	assert.Equal(t, 1.0, second.Draw)
	assert.Equal(t, 1.0, second.BTTS)
	assert.Equal(t, 4.0, second.TotalGoalsHT)
	assert.True(t, math.IsNaN(second.HomeRed), "NULL stays missing")
}

func TestStore_MigrateIsIdempotent(t *testing.T) {
	s, _ := newSQLiteStore(t)
	assert.NoError(t, s.Migrate())
}

func TestLoad_SQLite(t *testing.T) {
	s, path := newSQLiteStore(t)
	_, err := s.DB.Exec(`INSERT INTO matches (match_date, home_team, away_team, fthg, ftag)
VALUES ('2023-08-12', 'Newcastle', 'Aston Villa', 5, 1)`)
	require.NoError(t, err)

	matches, err := Load(context.Background(), Source{Driver: DriverSQLite, Path: path})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 4.0, matches[0].HomeGoalDiff)
	assert.True(t, math.IsNaN(matches[0].TotalGoalsHT))
}

func TestNewStore_UnsupportedDriver(t *testing.T) {
	_, err := NewStore("mysql", "whatever")
	assert.ErrorContains(t, err, "unsupported driver")
}
