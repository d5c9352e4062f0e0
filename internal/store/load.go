package store

import (
	"context"
	"fmt"

	"github.com/utakatalp/form-predictor/internal/league"
)

const (
	DriverXLSX = "xlsx"
	DriverCSV  = "csv"
)

// Source describes where the historical fixtures live.
type Source struct {
	Driver string // xlsx, csv, postgres or sqlite
	Path   string // file path or DSN
	Sheet  string // xlsx only
}

// Load reads every fixture from src. An empty result is an error: the
// service has nothing to compute form from.
func Load(ctx context.Context, src Source) ([]league.Match, error) {
	var (
		matches []league.Match
		err     error
	)
	switch src.Driver {
	case DriverXLSX, "":
		matches, err = LoadSpreadsheet(src.Path, src.Sheet)
	case DriverCSV:
		matches, err = LoadCSV(src.Path)
	case DriverPostgres, DriverSQLite:
		var s *Store
		if s, err = NewStore(src.Driver, src.Path); err != nil {
			return nil, err
		}
		defer s.Close()
		matches, err = s.LoadMatches(ctx)
	default:
		return nil, fmt.Errorf("unknown data driver %q", src.Driver)
	}
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no matches in %s source %s", src.Driver, src.Path)
	}
	return matches, nil
}
