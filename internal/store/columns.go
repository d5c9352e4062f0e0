package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/utakatalp/form-predictor/internal/league"
	"github.com/xuri/excelize/v2"
)

type setter func(m *league.Match, v float64)

// numericColumns maps football-data style headers to match fields.
var numericColumns = map[string]setter{
	"FTHG":           func(m *league.Match, v float64) { m.HomeGoals = v },
	"FTAG":           func(m *league.Match, v float64) { m.AwayGoals = v },
	"HTHG":           func(m *league.Match, v float64) { m.HomeGoalsHT = v },
	"HTAG":           func(m *league.Match, v float64) { m.AwayGoalsHT = v },
	"HS":             func(m *league.Match, v float64) { m.HomeShots = v },
	"AS":             func(m *league.Match, v float64) { m.AwayShots = v },
	"HST":            func(m *league.Match, v float64) { m.HomeShotsOnTarget = v },
	"AST":            func(m *league.Match, v float64) { m.AwayShotsOnTarget = v },
	"HC":             func(m *league.Match, v float64) { m.HomeCorners = v },
	"AC":             func(m *league.Match, v float64) { m.AwayCorners = v },
	"HY":             func(m *league.Match, v float64) { m.HomeYellow = v },
	"AY":             func(m *league.Match, v float64) { m.AwayYellow = v },
	"HR":             func(m *league.Match, v float64) { m.HomeRed = v },
	"AR":             func(m *league.Match, v float64) { m.AwayRed = v },
	"TotalGoalsHT":   func(m *league.Match, v float64) { m.TotalGoalsHT = v },
	"HomeWin":        func(m *league.Match, v float64) { m.HomeWin = v },
	"Draw":           func(m *league.Match, v float64) { m.Draw = v },
	"AwayWin":        func(m *league.Match, v float64) { m.AwayWin = v },
	"HomeCleanSheet": func(m *league.Match, v float64) { m.HomeCleanSheet = v },
	"AwayCleanSheet": func(m *league.Match, v float64) { m.AwayCleanSheet = v },
	"BTTS":           func(m *league.Match, v float64) { m.BTTS = v },
	"HomeGoalDiff":   func(m *league.Match, v float64) { m.HomeGoalDiff = v },
	"AwayGoalDiff":   func(m *league.Match, v float64) { m.AwayGoalDiff = v },
}

var requiredColumns = []string{
	"Date", "HomeTeam", "AwayTeam",
	"HS", "AS", "HST", "AST", "HC", "AC", "HY", "AY", "HR", "AR",
}

// derivable lists indicator columns and the goal columns that can stand in for them.
var derivable = map[string][]string{
	"TotalGoalsHT":   {"HTHG", "HTAG"},
	"HomeWin":        {"FTHG", "FTAG"},
	"Draw":           {"FTHG", "FTAG"},
	"AwayWin":        {"FTHG", "FTAG"},
	"HomeCleanSheet": {"FTHG", "FTAG"},
	"AwayCleanSheet": {"FTHG", "FTAG"},
	"BTTS":           {"FTHG", "FTAG"},
	"HomeGoalDiff":   {"FTHG", "FTAG"},
	"AwayGoalDiff":   {"FTHG", "FTAG"},
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/06",
	"2006/01/02",
}

// decodeRows turns a header row plus data rows into matches.
// Rows shorter than the header are padded with empty cells.
func decodeRows(rows [][]string) ([]league.Match, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	matches := make([]league.Match, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		line := i + 2
		cell := func(name string) string {
			idx, ok := index[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		m := league.NewMatch()
		if m.Date, err = parseDate(cell("Date")); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		m.HomeTeam = cell("HomeTeam")
		m.AwayTeam = cell("AwayTeam")
		var blanks []string
		for name, set := range numericColumns {
			if _, ok := index[name]; !ok {
				continue
			}
			v, err := parseNumber(cell(name))
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", line, name, err)
			}
			if _, ok := derivable[name]; ok && math.IsNaN(v) {
				blanks = append(blanks, name)
			}
			set(&m, v)
		}
		// only columns the sheet lacks are derived; its blank cells stay missing
		m.Derive()
		for _, name := range blanks {
			numericColumns[name](&m, math.NaN())
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	for name, fallback := range derivable {
		if _, ok := index[name]; ok {
			continue
		}
		for _, f := range fallback {
			if _, ok := index[f]; !ok {
				return nil, fmt.Errorf("missing column %q and no %q to derive it from", name, f)
			}
		}
	}
	return index, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	// spreadsheet serial day number
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func parseNumber(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "", "nan", "na", "null":
		return math.NaN(), nil
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", s, err)
	}
	return v, nil
}
