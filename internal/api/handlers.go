package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/utakatalp/form-predictor/internal/form"
	"github.com/utakatalp/form-predictor/internal/league"
)

// Predictor runs the fitted models on one fixture's features.
type Predictor interface {
	Predict(ctx context.Context, f league.Features) (league.Prediction, error)
}

// Handler contains dependencies for HTTP handlers. Everything it holds is
// read-only after startup.
type Handler struct {
	history   *form.History
	extractor *form.Extractor
	models    Predictor
}

func NewHandler(history *form.History, extractor *form.Extractor, models Predictor) *Handler {
	return &Handler{
		history:   history,
		extractor: extractor,
		models:    models,
	}
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "predictor",
		"matches": h.history.Len(),
	})
}

// Teams lists every team in the history with its home and away fixture counts.
func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"teams": h.history.Teams(),
	})
}

// Predict computes both teams' form and returns every model's estimate.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	_, _, features, ok := h.fixture(w, r)
	if !ok {
		return
	}

	p, err := h.models.Predict(r.Context(), features)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			requestLog(r).WithError(err).Warn("prediction abandoned")
			respondError(w, http.StatusGatewayTimeout, "request timed out")
			return
		}
		requestLog(r).WithError(err).Error("prediction failed")
		respondError(w, http.StatusInternalServerError, "prediction failed")
		return
	}
	if math.IsNaN(p.Corners) || math.IsInf(p.Corners, 0) {
		requestLog(r).WithField("corners", p.Corners).Error("corners model returned a non-finite value")
		respondError(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	respondJSON(w, http.StatusOK, NewPredictResponse(p))
}

// Features returns the unscaled combined feature vector for a fixture.
func (h *Handler) Features(w http.ResponseWriter, r *http.Request) {
	home, away, features, ok := h.fixture(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, FeaturesResponse{
		HomeTeam: home,
		AwayTeam: away,
		Window:   h.extractor.Window(),
		Names:    league.FeatureNames(),
		Values:   features.Vector(),
	})
}

// fixture decodes the request body and extracts the fixture's features. It
// writes the error response itself when ok is false.
func (h *Handler) fixture(w http.ResponseWriter, r *http.Request) (home, away string, f league.Features, ok bool) {
	var req FixtureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return "", "", league.Features{}, false
	}
	home, away, err := req.Teams()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return "", "", league.Features{}, false
	}

	features, err := h.extractor.Compute(home, away)
	if err != nil {
		requestLog(r).WithError(err).WithFields(logrus.Fields{
			"home_team": home,
			"away_team": away,
		}).Error("feature extraction failed")
		respondError(w, http.StatusInternalServerError, "feature extraction failed")
		return "", "", league.Features{}, false
	}
	return home, away, features, true
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
