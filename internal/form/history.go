package form

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/utakatalp/form-predictor/internal/league"
)

const (
	colDate     = "Date"
	colHomeTeam = "HomeTeam"
	colAwayTeam = "AwayTeam"
)

var numericColumns = []struct {
	name string
	get  func(m league.Match) float64
}{
	{"HS", func(m league.Match) float64 { return m.HomeShots }},
	{"AS", func(m league.Match) float64 { return m.AwayShots }},
	{"HST", func(m league.Match) float64 { return m.HomeShotsOnTarget }},
	{"AST", func(m league.Match) float64 { return m.AwayShotsOnTarget }},
	{"HC", func(m league.Match) float64 { return m.HomeCorners }},
	{"AC", func(m league.Match) float64 { return m.AwayCorners }},
	{"HY", func(m league.Match) float64 { return m.HomeYellow }},
	{"AY", func(m league.Match) float64 { return m.AwayYellow }},
	{"HR", func(m league.Match) float64 { return m.HomeRed }},
	{"AR", func(m league.Match) float64 { return m.AwayRed }},
	{"TotalGoalsHT", func(m league.Match) float64 { return m.TotalGoalsHT }},
	{"HomeWin", func(m league.Match) float64 { return m.HomeWin }},
	{"Draw", func(m league.Match) float64 { return m.Draw }},
	{"AwayWin", func(m league.Match) float64 { return m.AwayWin }},
	{"HomeCleanSheet", func(m league.Match) float64 { return m.HomeCleanSheet }},
	{"AwayCleanSheet", func(m league.Match) float64 { return m.AwayCleanSheet }},
	{"BTTS", func(m league.Match) float64 { return m.BTTS }},
	{"HomeGoalDiff", func(m league.Match) float64 { return m.HomeGoalDiff }},
	{"AwayGoalDiff", func(m league.Match) float64 { return m.AwayGoalDiff }},
}

// TeamCount reports how many stored fixtures a team played in each role.
type TeamCount struct {
	Name string `json:"name"`
	Home int    `json:"home_matches"`
	Away int    `json:"away_matches"`
}

// History is the immutable table of historical fixtures. It is safe for
// concurrent reads; nothing mutates it after NewHistory returns.
type History struct {
	frame  dataframe.DataFrame
	teams  []TeamCount
	counts map[string]TeamCount
}

// NewHistory builds the table from loaded matches.
func NewHistory(matches []league.Match) (*History, error) {
	n := len(matches)
	dates := make([]int, n)
	homes := make([]string, n)
	aways := make([]string, n)
	values := make([][]float64, len(numericColumns))
	for c := range values {
		values[c] = make([]float64, n)
	}

	counts := make(map[string]TeamCount)
	for i, m := range matches {
		dates[i] = int(m.Date.Unix())
		homes[i] = m.HomeTeam
		aways[i] = m.AwayTeam
		for c, col := range numericColumns {
			values[c][i] = col.get(m)
		}

		home := counts[m.HomeTeam]
		home.Name = m.HomeTeam
		home.Home++
		counts[m.HomeTeam] = home

		away := counts[m.AwayTeam]
		away.Name = m.AwayTeam
		away.Away++
		counts[m.AwayTeam] = away
	}

	cols := []series.Series{
		series.New(dates, series.Int, colDate),
		series.New(homes, series.String, colHomeTeam),
		series.New(aways, series.String, colAwayTeam),
	}
	for c, col := range numericColumns {
		cols = append(cols, series.New(values[c], series.Float, col.name))
	}
	frame := dataframe.New(cols...)
	if frame.Err != nil {
		return nil, fmt.Errorf("building history frame: %w", frame.Err)
	}

	teams := make([]TeamCount, 0, len(counts))
	for _, t := range counts {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool {
		return teams[i].Name < teams[j].Name
	})

	return &History{frame: frame, teams: teams, counts: counts}, nil
}

// Len returns the number of stored fixtures.
func (h *History) Len() int {
	return h.frame.Nrow()
}

// Teams returns every team name seen on either side, sorted by name.
func (h *History) Teams() []TeamCount {
	out := make([]TeamCount, len(h.teams))
	copy(out, h.teams)
	return out
}

// Count returns how many fixtures team played in role.
func (h *History) Count(team string, role league.Role) int {
	c := h.counts[team]
	if role == league.Away {
		return c.Away
	}
	return c.Home
}

// Recent returns at most n of team's fixtures in role, most recent first.
// Fixtures on the same date keep their source order.
func (h *History) Recent(team string, role league.Role, n int) (dataframe.DataFrame, error) {
	col := colHomeTeam
	if role == league.Away {
		col = colAwayTeam
	}

	matches := h.frame.Filter(dataframe.F{
		Colname:    col,
		Comparator: series.Eq,
		Comparando: team,
	})
	if matches.Err != nil {
		return matches, fmt.Errorf("filtering %s fixtures for %s: %w", role, team, matches.Err)
	}

	recent := matches.Arrange(dataframe.RevSort(colDate))
	if recent.Err != nil {
		return recent, fmt.Errorf("sorting %s fixtures for %s: %w", role, team, recent.Err)
	}
	if recent.Nrow() <= n {
		return recent, nil
	}

	head := make([]int, n)
	for i := range head {
		head[i] = i
	}
	recent = recent.Subset(head)
	if recent.Err != nil {
		return recent, fmt.Errorf("windowing %s fixtures for %s: %w", role, team, recent.Err)
	}
	return recent, nil
}
