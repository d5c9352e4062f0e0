// internal/league/logic.go
package league

import (
	"fmt"
	"math"
)

// NewMatch returns a match with every numeric field unset (NaN).
func NewMatch() Match {
	var m Match
	for _, p := range m.numeric() {
		*p = math.NaN()
	}
	return m
}

func (m *Match) numeric() []*float64 {
	return []*float64{
		&m.HomeGoals, &m.AwayGoals,
		&m.HomeGoalsHT, &m.AwayGoalsHT,
		&m.HomeShots, &m.AwayShots,
		&m.HomeShotsOnTarget, &m.AwayShotsOnTarget,
		&m.HomeCorners, &m.AwayCorners,
		&m.HomeYellow, &m.AwayYellow,
		&m.HomeRed, &m.AwayRed,
		&m.TotalGoalsHT,
		&m.HomeWin, &m.Draw, &m.AwayWin,
		&m.HomeCleanSheet, &m.AwayCleanSheet,
		&m.BTTS,
		&m.HomeGoalDiff, &m.AwayGoalDiff,
	}
}

func (m *Match) ScoreLine() string {
	return fmt.Sprintf("%s %s - %s %s",
		m.HomeTeam, goals(m.HomeGoals),
		goals(m.AwayGoals), m.AwayTeam,
	)
}

func goals(v float64) string {
	if math.IsNaN(v) {
		return "?"
	}
	return fmt.Sprintf("%.0f", v)
}

// Derive fills outcome indicators that are still unset from the goal columns.
// Indicators already present (for example read from a spreadsheet) are kept.
func (m *Match) Derive() {
	// 1) half-time total
	if math.IsNaN(m.TotalGoalsHT) {
		m.TotalGoalsHT = m.HomeGoalsHT + m.AwayGoalsHT
	}

	// 2) nothing else can be derived without a full-time score
	if math.IsNaN(m.HomeGoals) || math.IsNaN(m.AwayGoals) {
		return
	}

	// 3) result
	var homeWin, draw, awayWin float64
	switch {
	case m.HomeGoals > m.AwayGoals:
		homeWin = 1
	case m.HomeGoals < m.AwayGoals:
		awayWin = 1
	default:
		draw = 1
	}
	fill(&m.HomeWin, homeWin)
	fill(&m.Draw, draw)
	fill(&m.AwayWin, awayWin)

	// 4) clean sheets, btts and goal difference
	fill(&m.HomeCleanSheet, indicator(m.AwayGoals == 0))
	fill(&m.AwayCleanSheet, indicator(m.HomeGoals == 0))
	fill(&m.BTTS, indicator(m.HomeGoals > 0 && m.AwayGoals > 0))
	fill(&m.HomeGoalDiff, m.HomeGoals-m.AwayGoals)
	fill(&m.AwayGoalDiff, m.AwayGoals-m.HomeGoals)
}

func fill(dst *float64, v float64) {
	if math.IsNaN(*dst) {
		*dst = v
	}
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
