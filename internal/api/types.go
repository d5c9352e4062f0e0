package api

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/utakatalp/form-predictor/internal/league"
)

// ErrMissingField is returned when a required request field is absent or null.
var ErrMissingField = errors.New("missing required field")

// FixtureRequest is the body of /predict and /features.
type FixtureRequest struct {
	HomeTeam *string `json:"home_team"`
	AwayTeam *string `json:"away_team"`
}

// Teams returns both names. Empty strings are allowed; they simply match no fixtures.
func (r FixtureRequest) Teams() (home, away string, err error) {
	if r.HomeTeam == nil {
		return "", "", fmt.Errorf("%w: home_team", ErrMissingField)
	}
	if r.AwayTeam == nil {
		return "", "", fmt.Errorf("%w: away_team", ErrMissingField)
	}
	return *r.HomeTeam, *r.AwayTeam, nil
}

// PredictResponse carries probabilities as two-decimal strings and the
// corner estimate as a number rounded to two decimals.
type PredictResponse struct {
	Over15  string  `json:"over_15"`
	Over25  string  `json:"over_25"`
	BTTS    string  `json:"btts"`
	HomeWin string  `json:"home_win"`
	Draw    string  `json:"draw"`
	AwayWin string  `json:"away_win"`
	Corners float64 `json:"corners"`
}

func NewPredictResponse(p league.Prediction) PredictResponse {
	return PredictResponse{
		Over15:  twoDecimals(p.Over15),
		Over25:  twoDecimals(p.Over25),
		BTTS:    twoDecimals(p.BTTS),
		HomeWin: twoDecimals(p.HomeWin),
		Draw:    twoDecimals(p.Draw),
		AwayWin: twoDecimals(p.AwayWin),
		Corners: roundTwo(p.Corners),
	}
}

func twoDecimals(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// roundTwo rounds to two decimals with exact ties going to the even digit,
// so the number always agrees with its two-decimal string.
func roundTwo(v float64) float64 {
	r, err := strconv.ParseFloat(twoDecimals(v), 64)
	if err != nil {
		return v
	}
	return r
}

// FeaturesResponse exposes the raw combined feature vector for one fixture.
type FeaturesResponse struct {
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	Window   int       `json:"window"`
	Names    []string  `json:"names"`
	Values   []float64 `json:"values"`
}
