package domain

import "sort"

// Filter is a cascading region/state/county selection. An empty slice on any
// axis means "all"; a non-empty slice keeps only rows whose value is in the
// selection.
type Filter struct {
	Regions  []string
	States   []string
	Counties []string
}

// IsZero reports whether the filter selects everything.
func (f Filter) IsZero() bool {
	return len(f.Regions) == 0 && len(f.States) == 0 && len(f.Counties) == 0
}

// Matches reports whether a record satisfies every non-empty selection.
func (f Filter) Matches(rec CountyRecord) bool {
	if len(f.Regions) > 0 && !contains(f.Regions, rec.Region) {
		return false
	}
	if len(f.States) > 0 && !contains(f.States, rec.State) {
		return false
	}
	if len(f.Counties) > 0 && !contains(f.Counties, rec.County) {
		return false
	}
	return true
}

// Apply returns the records matching the filter, preserving input order.
func (f Filter) Apply(records []CountyRecord) []CountyRecord {
	if f.IsZero() {
		out := make([]CountyRecord, len(records))
		copy(out, records)
		return out
	}
	out := make([]CountyRecord, 0, len(records))
	for _, rec := range records {
		if f.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterOptions holds the selectable values for each filter axis given the
// selections made so far.
type FilterOptions struct {
	Regions  []string `json:"regions"`
	States   []string `json:"states"`
	Counties []string `json:"counties"`
}

// Options computes the cascading option lists: region options span the whole
// dataset (rows with an unset region excluded), state options honor the
// region selection, and county options honor both the region and state
// selections. All lists are sorted and de-duplicated.
func Options(records []CountyRecord, f Filter) FilterOptions {
	regionFilter := Filter{}
	stateFilter := Filter{Regions: f.Regions}
	countyFilter := Filter{Regions: f.Regions, States: f.States}

	regions := make(map[string]struct{})
	states := make(map[string]struct{})
	counties := make(map[string]struct{})

	for _, rec := range records {
		if rec.Region != "" && regionFilter.Matches(rec) {
			regions[rec.Region] = struct{}{}
		}
		if stateFilter.Matches(rec) {
			states[rec.State] = struct{}{}
		}
		if countyFilter.Matches(rec) {
			counties[rec.County] = struct{}{}
		}
	}

	return FilterOptions{
		Regions:  sortedKeys(regions),
		States:   sortedKeys(states),
		Counties: sortedKeys(counties),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
