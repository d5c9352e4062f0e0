package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/utakatalp/form-predictor/internal/league"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store wraps a SQL connection holding historical fixtures.
type Store struct {
	DB     *sql.DB
	driver string
}

// NewStore opens a connection for the given driver ("postgres" or "sqlite").
func NewStore(driver, connStr string) (*Store, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// verify early
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{DB: db, driver: driver}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Migrate creates the matches table if it does not exist.
func (s *Store) Migrate() error {
	id, date := "SERIAL PRIMARY KEY", "DATE"
	if s.driver == DriverSQLite {
		id, date = "INTEGER PRIMARY KEY AUTOINCREMENT", "TEXT"
	}
	q := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS matches (
	    id                   %s,
	    match_date           %s NOT NULL,
	    home_team            TEXT NOT NULL,
	    away_team            TEXT NOT NULL,
	    fthg                 INT,
	    ftag                 INT,
	    hthg                 INT,
	    htag                 INT,
	    home_shots           INT,
	    away_shots           INT,
	    home_shots_on_target INT,
	    away_shots_on_target INT,
	    home_corners         INT,
	    away_corners         INT,
	    home_yellow          INT,
	    away_yellow          INT,
	    home_red             INT,
	    away_red             INT
	);`, id, date)
	if _, err := s.DB.Exec(q); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}
	return nil
}

// LoadMatches fetches every stored fixture in insertion order and derives
// the outcome indicators from the scores.
func (s *Store) LoadMatches(ctx context.Context) ([]league.Match, error) {
	const q = `
SELECT match_date, home_team, away_team,
       fthg, ftag, hthg, htag,
       home_shots, away_shots,
       home_shots_on_target, away_shots_on_target,
       home_corners, away_corners,
       home_yellow, away_yellow,
       home_red, away_red
FROM matches
ORDER BY id;
`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var matches []league.Match
	for rows.Next() {
		var date string
		var stats [14]sql.NullFloat64
		m := league.NewMatch()
		dest := []any{&date, &m.HomeTeam, &m.AwayTeam}
		for i := range stats {
			dest = append(dest, &stats[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		if m.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("match %s v %s: %w", m.HomeTeam, m.AwayTeam, err)
		}

		fields := []*float64{
			&m.HomeGoals, &m.AwayGoals, &m.HomeGoalsHT, &m.AwayGoalsHT,
			&m.HomeShots, &m.AwayShots,
			&m.HomeShotsOnTarget, &m.AwayShotsOnTarget,
			&m.HomeCorners, &m.AwayCorners,
			&m.HomeYellow, &m.AwayYellow,
			&m.HomeRed, &m.AwayRed,
		}
		for i, f := range fields {
			if stats[i].Valid {
				*f = stats[i].Float64
			}
		}
		m.Derive()
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
