// Package analysis provides the optional statistical routines of the
// dashboard: a least-squares regression of the risk score against a chosen
// predictor, and a k-means clustering pass over county score vectors.
package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/nri-explorer/internal/domain"
)

// Predictor selects the x variable for the regression.
type Predictor string

const (
	PredictorPopulation Predictor = "population"
	PredictorSovi       Predictor = "sovi"
	PredictorResl       Predictor = "resl"
	PredictorEAL        Predictor = "eal"
)

// ParsePredictor validates a predictor parameter value. Empty defaults to
// population, the original dashboard's scatter axis.
func ParsePredictor(s string) (Predictor, error) {
	switch Predictor(s) {
	case PredictorPopulation, PredictorSovi, PredictorResl, PredictorEAL:
		return Predictor(s), nil
	case "":
		return PredictorPopulation, nil
	default:
		return "", fmt.Errorf("unknown predictor %q", s)
	}
}

func (p Predictor) value(rec domain.CountyRecord) float64 {
	switch p {
	case PredictorSovi:
		return rec.SoviScore
	case PredictorResl:
		return rec.ReslScore
	case PredictorEAL:
		return rec.EAL
	default:
		return rec.Population
	}
}

// Regression summarizes an ordinary least squares fit of
// RiskScore = Intercept + Slope·x.
type Regression struct {
	Predictor Predictor `json:"predictor"`
	Slope     float64   `json:"slope"`
	Intercept float64   `json:"intercept"`
	RSquared  float64   `json:"r_squared"`
	N         int       `json:"n"`
}

// Fit runs the regression over the filtered records. It requires at least
// two points and a predictor with non-zero variance.
func Fit(records []domain.CountyRecord, predictor Predictor) (Regression, error) {
	if len(records) < 2 {
		return Regression{}, errors.New("regression requires at least 2 records")
	}

	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	for i, rec := range records {
		xs[i] = predictor.value(rec)
		ys[i] = rec.RiskScore
	}

	if stat.Variance(xs, nil) == 0 {
		return Regression{}, fmt.Errorf("predictor %s has zero variance", predictor)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, intercept, slope)

	return Regression{
		Predictor: predictor,
		Slope:     slope,
		Intercept: intercept,
		RSquared:  r2,
		N:         len(records),
	}, nil
}
