package domain

import "sort"

// Census region labels used by the dashboard.
const (
	RegionNortheast = "Northeast"
	RegionMidwest   = "Midwest"
	RegionSouth     = "South"
	RegionWest      = "West"
)

// stateRegions maps full state names (as they appear in the NRI STATE
// column) to their US Census region. Covers the 50 states plus DC;
// territories are intentionally absent and derive an empty region.
var stateRegions = map[string]string{
	"Connecticut":   RegionNortheast,
	"Maine":         RegionNortheast,
	"Massachusetts": RegionNortheast,
	"New Hampshire": RegionNortheast,
	"Rhode Island":  RegionNortheast,
	"Vermont":       RegionNortheast,
	"New Jersey":    RegionNortheast,
	"New York":      RegionNortheast,
	"Pennsylvania":  RegionNortheast,

	"Illinois":     RegionMidwest,
	"Indiana":      RegionMidwest,
	"Michigan":     RegionMidwest,
	"Ohio":         RegionMidwest,
	"Wisconsin":    RegionMidwest,
	"Iowa":         RegionMidwest,
	"Kansas":       RegionMidwest,
	"Minnesota":    RegionMidwest,
	"Missouri":     RegionMidwest,
	"Nebraska":     RegionMidwest,
	"North Dakota": RegionMidwest,
	"South Dakota": RegionMidwest,

	"Delaware":             RegionSouth,
	"Florida":              RegionSouth,
	"Georgia":              RegionSouth,
	"Maryland":             RegionSouth,
	"North Carolina":       RegionSouth,
	"South Carolina":       RegionSouth,
	"Virginia":             RegionSouth,
	"District of Columbia": RegionSouth,
	"West Virginia":        RegionSouth,
	"Alabama":              RegionSouth,
	"Kentucky":             RegionSouth,
	"Mississippi":          RegionSouth,
	"Tennessee":            RegionSouth,
	"Arkansas":             RegionSouth,
	"Louisiana":            RegionSouth,
	"Oklahoma":             RegionSouth,
	"Texas":                RegionSouth,

	"Arizona":    RegionWest,
	"Colorado":   RegionWest,
	"Idaho":      RegionWest,
	"Montana":    RegionWest,
	"Nevada":     RegionWest,
	"New Mexico": RegionWest,
	"Utah":       RegionWest,
	"Wyoming":    RegionWest,
	"Alaska":     RegionWest,
	"California": RegionWest,
	"Hawaii":     RegionWest,
	"Oregon":     RegionWest,
	"Washington": RegionWest,
}

// RegionFor returns the Census region for a state name, or "" when the
// state has no lookup entry.
func RegionFor(state string) string {
	return stateRegions[state]
}

// RegionNames returns the known region labels in sorted order.
func RegionNames() []string {
	seen := make(map[string]struct{}, 4)
	for _, r := range stateRegions {
		seen[r] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for r := range seen {
		names = append(names, r)
	}
	sort.Strings(names)
	return names
}
