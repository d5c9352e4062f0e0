package league

import (
	"math"
	"time"
)

// Role is the side a team played on in a fixture.
type Role int

const (
	Home Role = iota
	Away
)

func (r Role) String() string {
	if r == Away {
		return "Away"
	}
	return "Home"
}

// Match is one historical fixture row.
// Numeric fields hold NaN when the source cell was empty.
type Match struct {
	Date     time.Time
	HomeTeam string
	AwayTeam string

	HomeGoals, AwayGoals     float64 // full time
	HomeGoalsHT, AwayGoalsHT float64

	HomeShots, AwayShots                 float64
	HomeShotsOnTarget, AwayShotsOnTarget float64
	HomeCorners, AwayCorners             float64
	HomeYellow, AwayYellow               float64
	HomeRed, AwayRed                     float64

	TotalGoalsHT float64

	HomeWin, Draw, AwayWin         float64
	HomeCleanSheet, AwayCleanSheet float64
	BTTS                           float64
	HomeGoalDiff, AwayGoalDiff     float64
}

// Form summarises a team's most recent matches in one role.
type Form struct {
	WinRate          float64
	DrawRate         float64
	LossRate         float64
	CleanSheetRate   float64
	BTTSRate         float64
	AvgGoalDiff      float64
	AvgTotalGoals    float64
	AvgShots         float64
	AvgShotsOnTarget float64
	AvgCorners       float64
	AvgCardsY        float64
	AvgCardsR        float64
}

// FormFields lists the Form statistics in model order.
var FormFields = []string{
	"WinRate",
	"DrawRate",
	"LossRate",
	"CleanSheetRate",
	"BTTSRate",
	"AvgGoalDiff",
	"AvgTotalGoals",
	"AvgShots",
	"AvgShotsOnTarget",
	"AvgCorners",
	"AvgCardsY",
	"AvgCardsR",
}

// Values returns the statistics in FormFields order.
func (f Form) Values() []float64 {
	return []float64{
		f.WinRate,
		f.DrawRate,
		f.LossRate,
		f.CleanSheetRate,
		f.BTTSRate,
		f.AvgGoalDiff,
		f.AvgTotalGoals,
		f.AvgShots,
		f.AvgShotsOnTarget,
		f.AvgCorners,
		f.AvgCardsY,
		f.AvgCardsR,
	}
}

// Defined returns a copy of f with every NaN statistic replaced by 0.
func (f Form) Defined() Form {
	z := func(v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		return v
	}
	return Form{
		WinRate:          z(f.WinRate),
		DrawRate:         z(f.DrawRate),
		LossRate:         z(f.LossRate),
		CleanSheetRate:   z(f.CleanSheetRate),
		BTTSRate:         z(f.BTTSRate),
		AvgGoalDiff:      z(f.AvgGoalDiff),
		AvgTotalGoals:    z(f.AvgTotalGoals),
		AvgShots:         z(f.AvgShots),
		AvgShotsOnTarget: z(f.AvgShotsOnTarget),
		AvgCorners:       z(f.AvgCorners),
		AvgCardsY:        z(f.AvgCardsY),
		AvgCardsR:        z(f.AvgCardsR),
	}
}

// FeatureCount is the width of the combined feature vector.
const FeatureCount = 24

// Features is the combined home-side and away-side form for one fixture.
type Features struct {
	Home Form
	Away Form
}

// Vector flattens the features: home statistics first, then away.
func (f Features) Vector() []float64 {
	v := make([]float64, 0, FeatureCount)
	v = append(v, f.Home.Values()...)
	return append(v, f.Away.Values()...)
}

// FeatureNames returns the column names the models were fitted on, in Vector order.
func FeatureNames() []string {
	names := make([]string, 0, FeatureCount)
	for _, r := range []Role{Home, Away} {
		for _, field := range FormFields {
			names = append(names, r.String()+"_"+field)
		}
	}
	return names
}

// Prediction holds the five model outputs for one fixture.
type Prediction struct {
	Over15  float64
	Over25  float64
	BTTS    float64
	HomeWin float64
	Draw    float64
	AwayWin float64
	Corners float64
}
