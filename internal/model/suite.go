package model

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/utakatalp/form-predictor/internal/league"
)

// Files names the artifact for each fitted component, relative to the model dir.
type Files struct {
	Over15  string `mapstructure:"MODEL_OVER15"`
	Over25  string `mapstructure:"MODEL_OVER25"`
	BTTS    string `mapstructure:"MODEL_BTTS"`
	Result  string `mapstructure:"MODEL_RESULT"`
	Corners string `mapstructure:"MODEL_CORNERS"`
	Scaler  string `mapstructure:"MODEL_SCALER"`
}

func DefaultFiles() Files {
	return Files{
		Over15:  "lr_model_over_1_5.json",
		Over25:  "lr_model_over_2_5.json",
		BTTS:    "btts_model.json",
		Result:  "win_model.json",
		Corners: "corner_model.json",
		Scaler:  "scaler_model.json",
	}
}

// Suite holds the scaler and the five fitted models. It is read-only after
// construction and safe for concurrent use.
type Suite struct {
	Scaler  Scaler
	Over15  Classifier
	Over25  Classifier
	BTTS    Classifier
	Result  Classifier
	Corners Regressor

	// ResultOrder holds the result classifier's output index for home win, draw and away win.
	ResultOrder [3]int
}

// PositionalOrder reads result probabilities as home, draw, away.
var PositionalOrder = [3]int{0, 1, 2}

type widther interface {
	Width() int
}

// Load reads every artifact in files from dir and checks they agree on the
// feature layout.
func Load(dir string, files Files) (*Suite, error) {
	path := func(name string) string { return filepath.Join(dir, name) }

	// 1) scaler
	a, err := readChecked(path(files.Scaler))
	if err != nil {
		return nil, err
	}
	scaler, err := NewScaler(a)
	if err != nil {
		return nil, fmt.Errorf("scaler %s: %w", files.Scaler, err)
	}

	// 2) binary classifiers
	binary := make([]*Logistic, 0, 3)
	for _, name := range []string{files.Over15, files.Over25, files.BTTS} {
		c, _, err := loadLogistic(path(name))
		if err != nil {
			return nil, err
		}
		if rows, _ := c.weights.Dims(); rows != 1 {
			return nil, fmt.Errorf("model %s is not a binary classifier", name)
		}
		binary = append(binary, c)
	}

	// 3) result classifier
	result, artifact, err := loadLogistic(path(files.Result))
	if err != nil {
		return nil, err
	}
	order, err := ResolveResultOrder(artifact)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", files.Result, err)
	}

	// 4) corners regressor
	a, err = readChecked(path(files.Corners))
	if err != nil {
		return nil, err
	}
	if a.Type != TypeLinear {
		return nil, fmt.Errorf("model %s: unsupported regressor type %q", files.Corners, a.Type)
	}
	corners, err := NewLinear(a)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", files.Corners, err)
	}

	// 5) every component must take the full feature vector
	components := map[string]widther{
		files.Scaler:  scaler.(widther),
		files.Over15:  binary[0],
		files.Over25:  binary[1],
		files.BTTS:    binary[2],
		files.Result:  result,
		files.Corners: corners,
	}
	for name, c := range components {
		if c.Width() != league.FeatureCount {
			return nil, fmt.Errorf("%s: %w: fitted on %d features, want %d",
				name, ErrWidth, c.Width(), league.FeatureCount)
		}
	}

	return &Suite{
		Scaler:      scaler,
		Over15:      binary[0],
		Over25:      binary[1],
		BTTS:        binary[2],
		Result:      result,
		Corners:     corners,
		ResultOrder: order,
	}, nil
}

func loadLogistic(path string) (*Logistic, *Artifact, error) {
	a, err := readChecked(path)
	if err != nil {
		return nil, nil, err
	}
	if a.Type != TypeLogistic {
		return nil, nil, fmt.Errorf("model %s: unsupported classifier type %q", path, a.Type)
	}
	c, err := NewLogistic(a)
	if err != nil {
		return nil, nil, fmt.Errorf("model %s: %w", path, err)
	}
	return c, a, nil
}

// readChecked reads an artifact and rejects it when its recorded feature
// names differ from the combined feature layout.
func readChecked(path string) (*Artifact, error) {
	a, err := ReadArtifact(path)
	if err != nil {
		return nil, err
	}
	if len(a.FeatureNames) == 0 {
		return a, nil
	}
	want := league.FeatureNames()
	if len(a.FeatureNames) != len(want) {
		return nil, fmt.Errorf("artifact %s: %w: %d feature names, want %d",
			path, ErrWidth, len(a.FeatureNames), len(want))
	}
	for i, name := range a.FeatureNames {
		if name != want[i] {
			return nil, fmt.Errorf("artifact %s: feature %d is %q, want %q", path, i, name, want[i])
		}
	}
	return a, nil
}

// ResolveResultOrder maps home win, draw and away win to the result model's
// output positions. Without outcome labels the outputs are read positionally.
func ResolveResultOrder(a *Artifact) ([3]int, error) {
	if len(a.Coef) != 3 {
		return [3]int{}, fmt.Errorf("result classifier needs 3 classes, got %d", len(a.Coef))
	}
	if len(a.OutcomeLabels) == 0 {
		return PositionalOrder, nil
	}
	if len(a.Classes) != 3 {
		return [3]int{}, fmt.Errorf("outcome labels given without 3 classes")
	}

	var order [3]int
	for i, outcome := range []string{"home", "draw", "away"} {
		label, ok := a.OutcomeLabels[outcome]
		if !ok {
			return [3]int{}, fmt.Errorf("no outcome label for %q", outcome)
		}
		idx := -1
		for j, c := range a.Classes {
			if string(c) == label {
				idx = j
			}
		}
		if idx < 0 {
			return [3]int{}, fmt.Errorf("outcome %q label %q is not a class", outcome, label)
		}
		order[i] = idx
	}
	return order, nil
}

// Predict scales the features once and runs every model on the scaled vector.
func (s *Suite) Predict(ctx context.Context, f league.Features) (league.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return league.Prediction{}, err
	}
	x, err := s.Scaler.Transform(f.Vector())
	if err != nil {
		return league.Prediction{}, fmt.Errorf("scaling features: %w", err)
	}

	var p league.Prediction
	if p.Over15, err = positive(s.Over15, x); err != nil {
		return league.Prediction{}, fmt.Errorf("over 1.5 model: %w", err)
	}
	if p.Over25, err = positive(s.Over25, x); err != nil {
		return league.Prediction{}, fmt.Errorf("over 2.5 model: %w", err)
	}
	if p.BTTS, err = positive(s.BTTS, x); err != nil {
		return league.Prediction{}, fmt.Errorf("btts model: %w", err)
	}

	result, err := s.Result.PredictProba(x)
	if err != nil {
		return league.Prediction{}, fmt.Errorf("result model: %w", err)
	}
	if len(result) < 3 {
		return league.Prediction{}, fmt.Errorf("result model returned %d probabilities", len(result))
	}
	p.HomeWin = result[s.ResultOrder[0]]
	p.Draw = result[s.ResultOrder[1]]
	p.AwayWin = result[s.ResultOrder[2]]

	if p.Corners, err = s.Corners.Predict(x); err != nil {
		return league.Prediction{}, fmt.Errorf("corners model: %w", err)
	}
	return p, nil
}

// positive returns the probability of the second (positive) class.
func positive(c Classifier, x []float64) (float64, error) {
	proba, err := c.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if len(proba) < 2 {
		return 0, fmt.Errorf("classifier returned %d probabilities", len(proba))
	}
	return proba[1], nil
}
