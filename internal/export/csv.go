// Package export serializes filtered county tables to the CSV download
// format and parses them back.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/couchcryptid/nri-explorer/internal/domain"
)

// Header is the canonical column layout of an exported table.
var Header = []string{
	"REGION", "STATE", "COUNTY", "STCOFIPS", "POPULATION",
	"RISK_SCORE", "RISK_RATNG", "SOVI_SCORE", "RESL_SCORE", "EAL_VALT",
}

// WriteCSV writes records in the canonical export layout. Floats are
// rendered with the minimal digits needed to round-trip exactly.
func WriteCSV(w io.Writer, records []domain.CountyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Region,
			rec.State,
			rec.County,
			rec.FIPS,
			formatFloat(rec.Population),
			formatFloat(rec.RiskScore),
			rec.RiskRating,
			formatFloat(rec.SoviScore),
			formatFloat(rec.ReslScore),
			formatFloat(rec.EAL),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses an exported table back into records. It is the exact
// inverse of WriteCSV and rejects files whose header deviates from the
// canonical layout.
func ReadCSV(r io.Reader) ([]domain.CountyRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read export header: %w", err)
	}
	if len(header) != len(Header) {
		return nil, fmt.Errorf("export header has %d columns, want %d", len(header), len(Header))
	}
	for i, want := range Header {
		if header[i] != want {
			return nil, fmt.Errorf("export column %d is %q, want %q", i, header[i], want)
		}
	}

	records := []domain.CountyRecord{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read export row: %w", err)
		}

		rec := domain.CountyRecord{
			Region:     row[0],
			State:      row[1],
			County:     row[2],
			FIPS:       row[3],
			RiskRating: row[6],
		}
		if rec.Population, err = parseFloat(row[4]); err != nil {
			return nil, err
		}
		if rec.RiskScore, err = parseFloat(row[5]); err != nil {
			return nil, err
		}
		if rec.SoviScore, err = parseFloat(row[7]); err != nil {
			return nil, err
		}
		if rec.ReslScore, err = parseFloat(row[8]); err != nil {
			return nil, err
		}
		if rec.EAL, err = parseFloat(row[9]); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse export value %q: %w", s, err)
	}
	return v, nil
}
