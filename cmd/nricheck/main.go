// Command nricheck runs data integrity checks over an NRI county table: it
// loads the dataset from a local CSV file or by downloading the published
// archive, then verifies identity columns, FIPS formats, region coverage,
// score ranges, and aggregation consistency. It exits non-zero when any
// phase fails.
//
// Usage:
//
//	go run ./cmd/nricheck -file data/NRI_Table_Counties.csv
//	go run ./cmd/nricheck -url https://hazards.fema.gov/.../NRI_Table_Counties.zip
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/nri-explorer/internal/config"
	"github.com/couchcryptid/nri-explorer/internal/dataset"
	"github.com/couchcryptid/nri-explorer/internal/domain"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "", "path to a local NRI county CSV")
	url := flag.String("url", config.DefaultDatasetURL, "dataset archive URL (used when -file is not set)")
	timeout := flag.Duration("timeout", 120*time.Second, "download timeout")
	flag.Parse()

	if code := run(*file, *url, *timeout); code != 0 {
		os.Exit(code)
	}
}

func run(file, url string, timeout time.Duration) int {
	records, err := load(file, url, timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load dataset: %v\n", err)
		return 1
	}
	fmt.Printf("loaded %d county records\n\n", len(records))

	phases := []*phase{
		checkIdentity(records),
		checkRegions(records),
		checkScores(records),
		checkAggregation(records),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      %s\n", e)
		}
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Printf("\nall %d phases passed\n", len(phases))
	return 0
}

func load(file, url string, timeout time.Duration) ([]domain.CountyRecord, error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return dataset.ParseCSV(f)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := dataset.NewFetcher(url, timeout, logger)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	records, _, err := fetcher.Fetch(ctx)
	return records, err
}

// checkIdentity verifies every record carries a state, county, and a
// 5-digit FIPS code, and that FIPS codes are unique.
func checkIdentity(records []domain.CountyRecord) *phase {
	p := &phase{name: "identity columns"}
	seen := make(map[string]string, len(records))
	for _, rec := range records {
		if rec.State == "" || rec.County == "" {
			p.errorf("record %s missing state or county", rec.FIPS)
		}
		if len(rec.FIPS) != 5 {
			p.errorf("%s, %s: FIPS %q is not 5 digits", rec.County, rec.State, rec.FIPS)
			continue
		}
		if prev, dup := seen[rec.FIPS]; dup {
			p.errorf("FIPS %s shared by %q and %q", rec.FIPS, prev, rec.County)
		}
		seen[rec.FIPS] = rec.County
	}
	return p
}

// checkRegions verifies the referential invariant: region is non-empty iff
// the state has a lookup entry.
func checkRegions(records []domain.CountyRecord) *phase {
	p := &phase{name: "region derivation"}
	unmapped := make(map[string]int)
	for _, rec := range records {
		want := domain.RegionFor(rec.State)
		if rec.Region != want {
			p.errorf("%s, %s: region %q, want %q", rec.County, rec.State, rec.Region, want)
		}
		if want == "" {
			unmapped[rec.State]++
		}
	}
	for state, n := range unmapped {
		fmt.Printf("note: %d records for %s have no region mapping\n", n, state)
	}
	return p
}

// checkScores verifies index scores stay inside the NRI's 0–100 scale and
// that population and EAL are non-negative.
func checkScores(records []domain.CountyRecord) *phase {
	p := &phase{name: "score ranges"}
	for _, rec := range records {
		for name, v := range map[string]float64{
			"RISK_SCORE": rec.RiskScore,
			"SOVI_SCORE": rec.SoviScore,
			"RESL_SCORE": rec.ReslScore,
		} {
			if v < 0 || v > 100 {
				p.errorf("%s, %s: %s %.2f out of range", rec.County, rec.State, name, v)
			}
		}
		if rec.Population < 0 {
			p.errorf("%s, %s: negative population", rec.County, rec.State)
		}
		if rec.EAL < 0 {
			p.errorf("%s, %s: negative EAL", rec.County, rec.State)
		}
	}
	return p
}

// checkAggregation verifies that the per-state aggregation covers every
// state exactly once and that county counts reconcile.
func checkAggregation(records []domain.CountyRecord) *phase {
	p := &phase{name: "aggregation consistency"}

	stats := domain.MeanRiskByGroup(records, domain.GroupByState)
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.State]++
	}

	if len(stats) != len(counts) {
		p.errorf("aggregation has %d states, dataset has %d", len(stats), len(counts))
	}
	total := 0
	for _, s := range stats {
		if counts[s.Group] != s.Counties {
			p.errorf("%s: aggregated %d counties, dataset has %d", s.Group, s.Counties, counts[s.Group])
		}
		total += s.Counties
	}
	if total != len(records) {
		p.errorf("aggregated county total %d, dataset has %d rows", total, len(records))
	}
	return p
}
