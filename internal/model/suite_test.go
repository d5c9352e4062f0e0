package model

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utakatalp/form-predictor/internal/league"
)

func zeros() []float64 { return make([]float64, league.FeatureCount) }

func unit(i int, w float64) []float64 {
	v := zeros()
	v[i] = w
	return v
}

func ones() []float64 {
	v := zeros()
	for i := range v {
		v[i] = 1
	}
	return v
}

// suiteArtifacts is a small hand-fitted model set over the full feature layout:
// over 1.5 is a coin flip, over 2.5 is 0.75, btts follows the home win rate,
// results are 1:2:3 and corners are 10 plus half the home corner average.
func suiteArtifacts() map[string]Artifact {
	files := DefaultFiles()
	return map[string]Artifact{
		files.Scaler: {Type: TypeStandard, Mean: zeros(), Scale: ones(), FeatureNames: league.FeatureNames()},
		files.Over15: {Type: TypeLogistic, Coef: [][]float64{zeros()}, Intercept: []float64{0}},
		files.Over25: {Type: TypeLogistic, Coef: [][]float64{zeros()}, Intercept: []float64{math.Log(3)}},
		files.BTTS:   {Type: TypeLogistic, Coef: [][]float64{unit(0, 1)}, Classes: []Label{"0", "1"}},
		files.Result: {
			Type:      TypeLogistic,
			Coef:      [][]float64{zeros(), zeros(), zeros()},
			Intercept: []float64{0, math.Log(2), math.Log(3)},
		},
		files.Corners: {Type: TypeLinear, Coef: [][]float64{unit(9, 0.5)}, Intercept: []float64{10}},
	}
}

func writeArtifacts(t *testing.T, artifacts map[string]Artifact) string {
	t.Helper()
	dir := t.TempDir()
	for name, a := range artifacts {
		raw, err := json.Marshal(a)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), raw, 0o644))
	}
	return dir
}

func TestLoad_AndPredict(t *testing.T) {
	dir := writeArtifacts(t, suiteArtifacts())

	s, err := Load(dir, DefaultFiles())
	require.NoError(t, err)
	assert.Equal(t, PositionalOrder, s.ResultOrder)

	f := league.Features{Home: league.Form{WinRate: 0, AvgCorners: 6}}
	p, err := s.Predict(context.Background(), f)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, p.Over15, 1e-12)
	assert.InDelta(t, 0.75, p.Over25, 1e-12)
	assert.InDelta(t, 0.5, p.BTTS, 1e-12)
	assert.InDelta(t, 1.0/6, p.HomeWin, 1e-12)
	assert.InDelta(t, 2.0/6, p.Draw, 1e-12)
	assert.InDelta(t, 3.0/6, p.AwayWin, 1e-12)
	assert.InDelta(t, 13.0, p.Corners, 1e-12)

	again, err := s.Predict(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestLoad_ModelsScoreScaledFeatures(t *testing.T) {
	files := DefaultFiles()
	artifacts := suiteArtifacts()
	twos := ones()
	for i := range twos {
		twos[i] = 2
	}
	artifacts[files.Scaler] = Artifact{Type: TypeStandard, Mean: ones(), Scale: twos}
	artifacts[files.Over15] = Artifact{Type: TypeLogistic, Coef: [][]float64{unit(9, 1)}}
	artifacts[files.Over25] = Artifact{Type: TypeLogistic, Coef: [][]float64{unit(21, 1)}}
	artifacts[files.BTTS] = Artifact{Type: TypeLogistic, Coef: [][]float64{unit(0, 1)}}
	artifacts[files.Result] = Artifact{Type: TypeLogistic, Coef: [][]float64{unit(9, 1), zeros(), unit(21, 1)}}
	artifacts[files.Corners] = Artifact{Type: TypeLinear, Coef: [][]float64{unit(9, 2)}, Intercept: []float64{4}}

	s, err := Load(writeArtifacts(t, artifacts), files)
	require.NoError(t, err)

	// scaled: home corners (7-1)/2 = 3, away corners (3-1)/2 = 1, home win rate 0
	f := league.Features{
		Home: league.Form{WinRate: 1, AvgCorners: 7},
		Away: league.Form{AvgCorners: 3},
	}
	p, err := s.Predict(context.Background(), f)
	require.NoError(t, err)

	total := math.Exp(3) + 1 + math.E
	assert.InDelta(t, 1/(1+math.Exp(-3)), p.Over15, 1e-12)
	assert.InDelta(t, 1/(1+math.Exp(-1)), p.Over25, 1e-12)
	assert.InDelta(t, 0.5, p.BTTS, 1e-12)
	assert.InDelta(t, math.Exp(3)/total, p.HomeWin, 1e-12)
	assert.InDelta(t, 1/total, p.Draw, 1e-12)
	assert.InDelta(t, math.E/total, p.AwayWin, 1e-12)
	assert.InDelta(t, 10.0, p.Corners, 1e-12)
}

func TestLoad_OutcomeLabelsReorderResult(t *testing.T) {
	artifacts := suiteArtifacts()
	files := DefaultFiles()
	result := artifacts[files.Result]
	result.Classes = []Label{"A", "D", "H"}
	result.OutcomeLabels = map[string]string{"home": "H", "draw": "D", "away": "A"}
	artifacts[files.Result] = result

	s, err := Load(writeArtifacts(t, artifacts), files)
	require.NoError(t, err)
	assert.Equal(t, [3]int{2, 1, 0}, s.ResultOrder)

	p, err := s.Predict(context.Background(), league.Features{})
	require.NoError(t, err)
	assert.InDelta(t, 3.0/6, p.HomeWin, 1e-12)
	assert.InDelta(t, 1.0/6, p.AwayWin, 1e-12)
}

func TestLoad_Errors(t *testing.T) {
	files := DefaultFiles()
	cases := []struct {
		name   string
		mutate func(map[string]Artifact)
		want   string
	}{
		{"missing file", func(a map[string]Artifact) { delete(a, files.Corners) }, "reading artifact"},
		{"narrow model", func(a map[string]Artifact) {
			a[files.Over15] = Artifact{Type: TypeLogistic, Coef: [][]float64{{1, 2, 3}}}
		}, ErrWidth.Error()},
		{"renamed feature", func(a map[string]Artifact) {
			names := league.FeatureNames()
			names[3] = "Home_Possession"
			scaler := a[files.Scaler]
			scaler.FeatureNames = names
			a[files.Scaler] = scaler
		}, `"Home_Possession"`},
		{"multiclass over model", func(a map[string]Artifact) {
			a[files.BTTS] = a[files.Result]
		}, "not a binary classifier"},
		{"binary result model", func(a map[string]Artifact) {
			a[files.Result] = a[files.Over15]
		}, "needs 3 classes"},
		{"classifier as regressor", func(a map[string]Artifact) {
			a[files.Corners] = a[files.Over15]
		}, "unsupported regressor type"},
		{"regressor as classifier", func(a map[string]Artifact) {
			a[files.Over25] = a[files.Corners]
		}, "unsupported classifier type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			artifacts := suiteArtifacts()
			tc.mutate(artifacts)
			_, err := Load(writeArtifacts(t, artifacts), files)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestResolveResultOrder(t *testing.T) {
	three := [][]float64{{0}, {0}, {0}}

	order, err := ResolveResultOrder(&Artifact{Coef: three, Classes: []Label{"0", "1", "2"}})
	require.NoError(t, err)
	assert.Equal(t, PositionalOrder, order)

	order, err = ResolveResultOrder(&Artifact{
		Coef:          three,
		Classes:       []Label{"-1", "0", "1"},
		OutcomeLabels: map[string]string{"home": "1", "draw": "0", "away": "-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, [3]int{2, 1, 0}, order)

	_, err = ResolveResultOrder(&Artifact{
		Coef:          three,
		Classes:       []Label{"A", "D", "H"},
		OutcomeLabels: map[string]string{"home": "H", "draw": "X", "away": "A"},
	})
	assert.ErrorContains(t, err, `"X" is not a class`)

	_, err = ResolveResultOrder(&Artifact{
		Coef:          three,
		Classes:       []Label{"A", "D", "H"},
		OutcomeLabels: map[string]string{"home": "H", "draw": "D"},
	})
	assert.ErrorContains(t, err, `no outcome label for "away"`)

	_, err = ResolveResultOrder(&Artifact{Coef: three, OutcomeLabels: map[string]string{"home": "H"}})
	assert.Error(t, err)
}

type stubScaler struct {
	shift float64
	err   error
}

func (s stubScaler) Transform(x []float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v + s.shift
	}
	return out, s.err
}

// recorder keeps every vector it is asked to score.
type recorder struct {
	proba []float64
	seen  [][]float64
}

func (r *recorder) PredictProba(x []float64) ([]float64, error) {
	r.seen = append(r.seen, x)
	return r.proba, nil
}

func (r *recorder) Predict(x []float64) (float64, error) {
	r.seen = append(r.seen, x)
	return 0, nil
}

type stubClassifier []float64

func (c stubClassifier) PredictProba([]float64) ([]float64, error) { return c, nil }

type stubRegressor float64

func (r stubRegressor) Predict([]float64) (float64, error) { return float64(r), nil }

func stubSuite() *Suite {
	return &Suite{
		Scaler:      stubScaler{},
		Over15:      stubClassifier{0.2, 0.8},
		Over25:      stubClassifier{0.6, 0.4},
		BTTS:        stubClassifier{0.5, 0.5},
		Result:      stubClassifier{0.1, 0.3, 0.6},
		Corners:     stubRegressor(9.5),
		ResultOrder: PositionalOrder,
	}
}

func TestSuite_PredictWithStubs(t *testing.T) {
	p, err := stubSuite().Predict(context.Background(), league.Features{})
	require.NoError(t, err)
	assert.Equal(t, league.Prediction{
		Over15: 0.8, Over25: 0.4, BTTS: 0.5,
		HomeWin: 0.1, Draw: 0.3, AwayWin: 0.6,
		Corners: 9.5,
	}, p)
}

func TestSuite_PredictScalesOnceForEveryModel(t *testing.T) {
	binary := func() *recorder { return &recorder{proba: []float64{0.5, 0.5}} }
	over15, over25, btts := binary(), binary(), binary()
	result := &recorder{proba: []float64{0.2, 0.3, 0.5}}
	corners := &recorder{}
	s := &Suite{
		Scaler:      stubScaler{shift: 1},
		Over15:      over15,
		Over25:      over25,
		BTTS:        btts,
		Result:      result,
		Corners:     corners,
		ResultOrder: PositionalOrder,
	}

	f := league.Features{Home: league.Form{AvgShots: 12}, Away: league.Form{AvgCardsR: 0.5}}
	_, err := s.Predict(context.Background(), f)
	require.NoError(t, err)

	want := f.Vector()
	for i := range want {
		want[i]++
	}
	for name, r := range map[string]*recorder{
		"over15": over15, "over25": over25, "btts": btts, "result": result, "corners": corners,
	} {
		require.Len(t, r.seen, 1, name)
		assert.Equal(t, want, r.seen[0], name)
	}
}

func TestSuite_PredictErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := stubSuite().Predict(ctx, league.Features{})
	assert.ErrorIs(t, err, context.Canceled)

	s := stubSuite()
	s.Scaler = stubScaler{err: errors.New("boom")}
	_, err = s.Predict(context.Background(), league.Features{})
	assert.ErrorContains(t, err, "scaling features")

	s = stubSuite()
	s.Result = stubClassifier{0.5, 0.5}
	_, err = s.Predict(context.Background(), league.Features{})
	assert.ErrorContains(t, err, "returned 2 probabilities")

	s = stubSuite()
	s.BTTS = stubClassifier{1}
	_, err = s.Predict(context.Background(), league.Features{})
	assert.ErrorContains(t, err, "btts model")
}
