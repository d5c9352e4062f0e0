package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Label is a class label as exported by the fitting toolchain. Integer and
// string labels are both kept as text.
type Label string

func (l *Label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	}
	*l = Label(b)
	return nil
}

// Artifact is the exported form of a fitted estimator or scaler.
//
// Classifiers and regressors carry Coef (one row per output) and Intercept.
// Scalers carry Mean/Scale (standard) or Min/Scale (minmax).
type Artifact struct {
	Type         string   `json:"type" yaml:"type"`
	FeatureNames []string `json:"feature_names,omitempty" yaml:"feature_names,omitempty"`

	Classes       []Label           `json:"classes,omitempty" yaml:"classes,omitempty"`
	MultiClass    string            `json:"multi_class,omitempty" yaml:"multi_class,omitempty"`
	OutcomeLabels map[string]string `json:"outcome_labels,omitempty" yaml:"outcome_labels,omitempty"`
	Coef          [][]float64       `json:"coef,omitempty" yaml:"coef,omitempty"`
	Intercept     []float64         `json:"intercept,omitempty" yaml:"intercept,omitempty"`

	Mean  []float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	Scale []float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
	Min   []float64 `json:"min,omitempty" yaml:"min,omitempty"`
}

const (
	TypeLogistic = "logistic_regression"
	TypeLinear   = "linear_regression"
	TypeStandard = "standard"
	TypeMinMax   = "minmax"
)

// ReadArtifact decodes a YAML (.yaml, .yml) or JSON artifact file.
func ReadArtifact(path string) (*Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}

	var a Artifact
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &a)
	default:
		err = json.Unmarshal(raw, &a)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding artifact %s: %w", path, err)
	}
	if a.Type == "" {
		return nil, fmt.Errorf("artifact %s has no type", path)
	}
	return &a, nil
}
