package domain

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ScatterPoint is one county on the population-vs-risk scatter view.
type ScatterPoint struct {
	State      string  `json:"state"`
	County     string  `json:"county"`
	Population float64 `json:"population"`
	RiskScore  float64 `json:"risk_score"`
}

// ScatterPoints projects records onto population/risk coordinates. When
// excludeOutliers is set, points falling outside the 1.5×IQR fences on
// either axis are dropped; fences are computed over the input set before
// any exclusion.
func ScatterPoints(records []CountyRecord, excludeOutliers bool) []ScatterPoint {
	points := make([]ScatterPoint, 0, len(records))
	for _, rec := range records {
		points = append(points, ScatterPoint{
			State:      rec.State,
			County:     rec.County,
			Population: rec.Population,
			RiskScore:  rec.RiskScore,
		})
	}
	if !excludeOutliers || len(points) < 4 {
		return points
	}

	popLo, popHi := iqrFences(values(points, func(p ScatterPoint) float64 { return p.Population }))
	riskLo, riskHi := iqrFences(values(points, func(p ScatterPoint) float64 { return p.RiskScore }))

	kept := points[:0]
	for _, p := range points {
		if p.Population < popLo || p.Population > popHi {
			continue
		}
		if p.RiskScore < riskLo || p.RiskScore > riskHi {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// iqrFences returns the Tukey fences q1-1.5*IQR and q3+1.5*IQR.
func iqrFences(xs []float64) (lo, hi float64) {
	sort.Float64s(xs)
	q1 := stat.Quantile(0.25, stat.LinInterp, xs, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, xs, nil)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

func values(points []ScatterPoint, get func(ScatterPoint) float64) []float64 {
	xs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = get(p)
	}
	return xs
}
