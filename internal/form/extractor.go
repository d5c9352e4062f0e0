package form

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/utakatalp/form-predictor/internal/league"
	"gonum.org/v1/gonum/stat"
)

// DefaultWindow is the number of recent fixtures each form is computed over.
const DefaultWindow = 10

// roleColumns names the history columns that describe one side of a fixture.
type roleColumns struct {
	win, cleanSheet, goalDiff     string
	shots, shotsOnTarget, corners string
	yellow, red                   string
}

var columnsFor = map[league.Role]roleColumns{
	league.Home: {
		win: "HomeWin", cleanSheet: "HomeCleanSheet", goalDiff: "HomeGoalDiff",
		shots: "HS", shotsOnTarget: "HST", corners: "HC",
		yellow: "HY", red: "HR",
	},
	league.Away: {
		win: "AwayWin", cleanSheet: "AwayCleanSheet", goalDiff: "AwayGoalDiff",
		shots: "AS", shotsOnTarget: "AST", corners: "AC",
		yellow: "AY", red: "AR",
	},
}

// Extractor turns the fixture history into model features.
type Extractor struct {
	history *History
	window  int
}

func NewExtractor(h *History, window int) *Extractor {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Extractor{history: h, window: window}
}

func (e *Extractor) Window() int { return e.window }

// Compute returns the home team's home form followed by the away team's
// away form. Unknown teams are not an error: their half is all zeros.
func (e *Extractor) Compute(homeTeam, awayTeam string) (league.Features, error) {
	home, err := e.Form(homeTeam, league.Home)
	if err != nil {
		return league.Features{}, err
	}
	away, err := e.Form(awayTeam, league.Away)
	if err != nil {
		return league.Features{}, err
	}
	return league.Features{Home: home, Away: away}, nil
}

// Form summarises team's last window fixtures in role. Undefined statistics are 0.
func (e *Extractor) Form(team string, role league.Role) (league.Form, error) {
	if e.history.Count(team, role) == 0 {
		return league.Form{}, nil
	}
	recent, err := e.history.Recent(team, role, e.window)
	if err != nil {
		return league.Form{}, err
	}
	return summarize(recent, columnsFor[role]).Defined(), nil
}

func summarize(df dataframe.DataFrame, c roleColumns) league.Form {
	win := df.Col(c.win).Float()
	draw := df.Col("Draw").Float()

	// loss rate comes from the per-row win+draw sum, not from the two rates
	decided := make([]float64, len(win))
	for i := range win {
		decided[i] = win[i] + draw[i]
	}

	return league.Form{
		WinRate:          mean(win),
		DrawRate:         mean(draw),
		LossRate:         1 - mean(decided),
		CleanSheetRate:   mean(df.Col(c.cleanSheet).Float()),
		BTTSRate:         mean(df.Col("BTTS").Float()),
		AvgGoalDiff:      mean(df.Col(c.goalDiff).Float()),
		AvgTotalGoals:    mean(df.Col("TotalGoalsHT").Float()),
		AvgShots:         mean(df.Col(c.shots).Float()),
		AvgShotsOnTarget: mean(df.Col(c.shotsOnTarget).Float()),
		AvgCorners:       mean(df.Col(c.corners).Float()),
		AvgCardsY:        mean(df.Col(c.yellow).Float()),
		AvgCardsR:        mean(df.Col(c.red).Float()),
	}
}

// mean skips missing values and is NaN when nothing is left.
func mean(values []float64) float64 {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return math.NaN()
	}
	return stat.Mean(present, nil)
}
