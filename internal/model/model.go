package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrWidth is returned when an input vector does not match the fitted width.
var ErrWidth = errors.New("feature width mismatch")

type Scaler interface {
	Transform(x []float64) ([]float64, error)
}

// Classifier returns one probability per class, in the fitted class order.
type Classifier interface {
	PredictProba(x []float64) ([]float64, error)
}

type Regressor interface {
	Predict(x []float64) (float64, error)
}

// Logistic is a fitted logistic regression. A single coefficient row is a
// binary model; more rows are multiclass, combined by softmax
// ("multinomial") or by normalised one-vs-rest sigmoids ("ovr").
type Logistic struct {
	weights *mat.Dense
	bias    *mat.VecDense
	ovr     bool
	classes []Label
}

func NewLogistic(a *Artifact) (*Logistic, error) {
	weights, bias, err := coefficients(a)
	if err != nil {
		return nil, err
	}
	k, _ := weights.Dims()
	outputs := k
	if k == 1 {
		outputs = 2
	}
	if len(a.Classes) != 0 && len(a.Classes) != outputs {
		return nil, fmt.Errorf("%d classes for %d outputs", len(a.Classes), outputs)
	}
	return &Logistic{
		weights: weights,
		bias:    bias,
		ovr:     a.MultiClass == "ovr",
		classes: a.Classes,
	}, nil
}

func (l *Logistic) Width() int {
	_, n := l.weights.Dims()
	return n
}

func (l *Logistic) Classes() []Label { return l.classes }

func (l *Logistic) PredictProba(x []float64) ([]float64, error) {
	k, n := l.weights.Dims()
	if len(x) != n {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrWidth, len(x), n)
	}
	z := mat.NewVecDense(k, nil)
	z.MulVec(l.weights, mat.NewVecDense(n, x))
	z.AddVec(z, l.bias)

	if k == 1 {
		p := sigmoid(z.AtVec(0))
		return []float64{1 - p, p}, nil
	}

	proba := make([]float64, k)
	if l.ovr {
		for i := range proba {
			proba[i] = sigmoid(z.AtVec(i))
		}
	} else {
		// shift by the max logit before exponentiating
		logits := mat.Col(nil, 0, z)
		top := floats.Max(logits)
		for i, v := range logits {
			proba[i] = math.Exp(v - top)
		}
	}
	floats.Scale(1/floats.Sum(proba), proba)
	return proba, nil
}

// Linear is a fitted linear regressor with a single output.
type Linear struct {
	coef      []float64
	intercept float64
}

func NewLinear(a *Artifact) (*Linear, error) {
	if len(a.Coef) != 1 {
		return nil, fmt.Errorf("linear regressor needs one coefficient row, got %d", len(a.Coef))
	}
	var intercept float64
	switch len(a.Intercept) {
	case 0:
	case 1:
		intercept = a.Intercept[0]
	default:
		return nil, fmt.Errorf("linear regressor needs one intercept, got %d", len(a.Intercept))
	}
	return &Linear{coef: a.Coef[0], intercept: intercept}, nil
}

func (l *Linear) Width() int { return len(l.coef) }

func (l *Linear) Predict(x []float64) (float64, error) {
	if len(x) != len(l.coef) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrWidth, len(x), len(l.coef))
	}
	return floats.Dot(l.coef, x) + l.intercept, nil
}

func coefficients(a *Artifact) (*mat.Dense, *mat.VecDense, error) {
	k := len(a.Coef)
	if k == 0 || len(a.Coef[0]) == 0 {
		return nil, nil, fmt.Errorf("artifact has no coefficients")
	}
	n := len(a.Coef[0])
	data := make([]float64, 0, k*n)
	for i, row := range a.Coef {
		if len(row) != n {
			return nil, nil, fmt.Errorf("coefficient row %d has %d values, want %d", i, len(row), n)
		}
		data = append(data, row...)
	}

	bias := make([]float64, k)
	switch len(a.Intercept) {
	case 0:
	case k:
		copy(bias, a.Intercept)
	default:
		return nil, nil, fmt.Errorf("%d intercepts for %d coefficient rows", len(a.Intercept), k)
	}
	return mat.NewDense(k, n, data), mat.NewVecDense(k, bias), nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
