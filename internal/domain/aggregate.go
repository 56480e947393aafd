package domain

import (
	"fmt"
	"sort"
)

// GroupBy selects the grouping key for aggregations.
type GroupBy string

const (
	GroupByState  GroupBy = "state"
	GroupByRegion GroupBy = "region"
)

// ParseGroupBy validates a group_by parameter value.
func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(s) {
	case GroupByState, GroupByRegion:
		return GroupBy(s), nil
	case "":
		return GroupByState, nil
	default:
		return "", fmt.Errorf("unknown group_by %q", s)
	}
}

// GroupStat is the aggregated risk score for one group.
type GroupStat struct {
	Group    string  `json:"group"`
	MeanRisk float64 `json:"mean_risk"`
	Counties int     `json:"counties"`
	TotalPop float64 `json:"total_population"`
	TotalEAL float64 `json:"total_eal"`
	MeanSovi float64 `json:"mean_sovi"`
	MeanResl float64 `json:"mean_resl"`
}

// MeanRiskByGroup computes the arithmetic mean risk score per group, along
// with supporting aggregates. Every group with at least one row appears in
// the result. Groups are ordered by mean risk descending, ties broken by
// group name, matching the dashboard's bar chart ordering.
func MeanRiskByGroup(records []CountyRecord, by GroupBy) []GroupStat {
	type acc struct {
		risk, sovi, resl, pop, eal float64
		n                          int
	}
	groups := make(map[string]*acc)

	for _, rec := range records {
		key := rec.State
		if by == GroupByRegion {
			key = rec.Region
		}
		if key == "" {
			continue
		}
		a := groups[key]
		if a == nil {
			a = &acc{}
			groups[key] = a
		}
		a.risk += rec.RiskScore
		a.sovi += rec.SoviScore
		a.resl += rec.ReslScore
		a.pop += rec.Population
		a.eal += rec.EAL
		a.n++
	}

	stats := make([]GroupStat, 0, len(groups))
	for name, a := range groups {
		n := float64(a.n)
		stats = append(stats, GroupStat{
			Group:    name,
			MeanRisk: a.risk / n,
			Counties: a.n,
			TotalPop: a.pop,
			TotalEAL: a.eal,
			MeanSovi: a.sovi / n,
			MeanResl: a.resl / n,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].MeanRisk != stats[j].MeanRisk {
			return stats[i].MeanRisk > stats[j].MeanRisk
		}
		return stats[i].Group < stats[j].Group
	})
	return stats
}

// ChoroplethPoint is the per-county payload for the risk map.
type ChoroplethPoint struct {
	FIPS      string  `json:"fips"`
	State     string  `json:"state"`
	County    string  `json:"county"`
	RiskScore float64 `json:"risk_score"`
}

// ChoroplethPoints projects records onto the fields the county map needs,
// preserving input order.
func ChoroplethPoints(records []CountyRecord) []ChoroplethPoint {
	points := make([]ChoroplethPoint, len(records))
	for i, rec := range records {
		points[i] = ChoroplethPoint{
			FIPS:      rec.FIPS,
			State:     rec.State,
			County:    rec.County,
			RiskScore: rec.RiskScore,
		}
	}
	return points
}
