package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/nri-explorer/internal/domain"
)

// NRI county table column names.
const (
	colState      = "STATE"
	colCounty     = "COUNTY"
	colFIPS       = "STCOFIPS"
	colPopulation = "POPULATION"
	colRiskScore  = "RISK_SCORE"
	colRiskRating = "RISK_RATNG"
	colSoviScore  = "SOVI_SCORE"
	colReslScore  = "RESL_SCORE"
	colEAL        = "EAL_VALT"
)

// ParseCSV reads the NRI county CSV into records with derived regions.
// Columns are resolved by header name so the very wide source table can gain
// or reorder columns without breaking ingest. Rows missing a state or county
// are skipped; empty numeric cells parse as zero.
func ParseCSV(r io.Reader) ([]domain.CountyRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	cols := indexColumns(header)
	for _, required := range []string{colState, colCounty, colFIPS, colRiskScore} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("dataset missing required column %s", required)
		}
	}

	var records []domain.CountyRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row: %w", err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		state := field(colState)
		county := field(colCounty)
		if state == "" || county == "" {
			continue
		}

		records = append(records, domain.CountyRecord{
			State:      state,
			County:     county,
			FIPS:       PadFIPS(field(colFIPS)),
			Population: parseFloatOrZero(field(colPopulation)),
			RiskScore:  parseFloatOrZero(field(colRiskScore)),
			RiskRating: field(colRiskRating),
			SoviScore:  parseFloatOrZero(field(colSoviScore)),
			ReslScore:  parseFloatOrZero(field(colReslScore)),
			EAL:        parseFloatOrZero(field(colEAL)),
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("dataset contains no county rows")
	}

	domain.DeriveRegions(records)
	return records, nil
}

// indexColumns maps normalized header names to their positions. The first
// occurrence wins.
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToUpper(strings.TrimSpace(h))
		if _, ok := cols[name]; !ok {
			cols[name] = i
		}
	}
	return cols
}

// PadFIPS zero-pads a state+county FIPS code to 5 digits. Source data often
// drops the leading zero when the code is stored numerically.
func PadFIPS(fips string) string {
	fips = strings.TrimSpace(fips)
	if fips == "" || len(fips) >= 5 {
		return fips
	}
	return strings.Repeat("0", 5-len(fips)) + fips
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
