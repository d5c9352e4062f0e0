package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Standard applies (x - mean) / scale. Either part may be absent.
type Standard struct {
	mean, scale []float64
	width       int
}

// MinMax applies x*scale + min.
type MinMax struct {
	min, scale []float64
}

// NewScaler builds the scaler described by a.
func NewScaler(a *Artifact) (Scaler, error) {
	switch a.Type {
	case TypeStandard:
		width := len(a.Mean)
		if width == 0 {
			width = len(a.Scale)
		}
		if width == 0 {
			return nil, fmt.Errorf("standard scaler has neither mean nor scale")
		}
		if (a.Mean != nil && len(a.Mean) != width) || (a.Scale != nil && len(a.Scale) != width) {
			return nil, fmt.Errorf("standard scaler mean and scale widths differ")
		}
		return &Standard{mean: a.Mean, scale: a.Scale, width: width}, nil
	case TypeMinMax:
		if len(a.Min) == 0 || len(a.Min) != len(a.Scale) {
			return nil, fmt.Errorf("minmax scaler needs min and scale of equal width")
		}
		return &MinMax{min: a.Min, scale: a.Scale}, nil
	default:
		return nil, fmt.Errorf("unknown scaler type %q", a.Type)
	}
}

func (s *Standard) Width() int { return s.width }

func (s *Standard) Transform(x []float64) ([]float64, error) {
	if len(x) != s.width {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrWidth, len(x), s.width)
	}
	out := make([]float64, len(x))
	copy(out, x)
	if s.mean != nil {
		floats.Sub(out, s.mean)
	}
	if s.scale != nil {
		floats.Div(out, s.scale)
	}
	return out, nil
}

func (s *MinMax) Width() int { return len(s.min) }

func (s *MinMax) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.min) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrWidth, len(x), len(s.min))
	}
	out := make([]float64, len(x))
	floats.MulTo(out, x, s.scale)
	floats.Add(out, s.min)
	return out, nil
}
