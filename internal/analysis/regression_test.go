package analysis

import (
	"testing"

	"github.com/couchcryptid/nri-explorer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePredictor(t *testing.T) {
	p, err := ParsePredictor("")
	require.NoError(t, err)
	assert.Equal(t, PredictorPopulation, p)

	for _, name := range []string{"population", "sovi", "resl", "eal"} {
		p, err := ParsePredictor(name)
		require.NoError(t, err)
		assert.Equal(t, Predictor(name), p)
	}

	_, err = ParsePredictor("risk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "risk")
}

func TestFit_ExactLine(t *testing.T) {
	// RiskScore = 2·population + 1, an exact fit.
	records := []domain.CountyRecord{
		{Population: 1, RiskScore: 3},
		{Population: 2, RiskScore: 5},
		{Population: 3, RiskScore: 7},
		{Population: 4, RiskScore: 9},
	}

	reg, err := Fit(records, PredictorPopulation)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, reg.Slope, 1e-9)
	assert.InDelta(t, 1.0, reg.Intercept, 1e-9)
	assert.InDelta(t, 1.0, reg.RSquared, 1e-9)
	assert.Equal(t, 4, reg.N)
	assert.Equal(t, PredictorPopulation, reg.Predictor)
}

func TestFit_SoviPredictor(t *testing.T) {
	records := []domain.CountyRecord{
		{SoviScore: 10, RiskScore: 20},
		{SoviScore: 20, RiskScore: 35},
		{SoviScore: 30, RiskScore: 55},
		{SoviScore: 40, RiskScore: 70},
	}

	reg, err := Fit(records, PredictorSovi)
	require.NoError(t, err)
	assert.Greater(t, reg.Slope, 0.0)
	assert.Greater(t, reg.RSquared, 0.95)
}

func TestFit_TooFewRecords(t *testing.T) {
	_, err := Fit([]domain.CountyRecord{{Population: 1, RiskScore: 1}}, PredictorPopulation)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2")
}

func TestFit_ZeroVariance(t *testing.T) {
	records := []domain.CountyRecord{
		{Population: 5, RiskScore: 1},
		{Population: 5, RiskScore: 9},
	}
	_, err := Fit(records, PredictorPopulation)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero variance")
}
