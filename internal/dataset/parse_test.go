package dataset

import (
	"strings"
	"testing"

	"github.com/couchcryptid/nri-explorer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `OID_,STATE,STATEABBRV,COUNTY,STCOFIPS,POPULATION,BUILDVALUE,RISK_SCORE,RISK_RATNG,EAL_VALT,SOVI_SCORE,RESL_SCORE
1,Alabama,AL,Autauga,1001,58805,7000000000,74.38,Relatively High,33000000,55.2,48.1
2,Texas,TX,Harris,48201,4731145,500000000000,84.91,Very High,990000000,61.7,52.3
3,Vermont,VT,Orange,50017,29277,4100000000,8.44,Very Low,2100000,18.9,57.6
4,Puerto Rico,PR,San Juan,72127,342259,39000000000,61.32,Relatively High,87000000,77.4,41.0
`

func TestParseCSV(t *testing.T) {
	records, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 4)

	autauga := records[0]
	assert.Equal(t, "Alabama", autauga.State)
	assert.Equal(t, "Autauga", autauga.County)
	assert.Equal(t, "01001", autauga.FIPS, "leading zero restored")
	assert.InDelta(t, 58805, autauga.Population, 1e-9)
	assert.InDelta(t, 74.38, autauga.RiskScore, 1e-9)
	assert.Equal(t, "Relatively High", autauga.RiskRating)
	assert.InDelta(t, 55.2, autauga.SoviScore, 1e-9)
	assert.InDelta(t, 48.1, autauga.ReslScore, 1e-9)
	assert.InDelta(t, 33000000, autauga.EAL, 1e-9)
	assert.Equal(t, domain.RegionSouth, autauga.Region)

	assert.Equal(t, "48201", records[1].FIPS)
	assert.Equal(t, domain.RegionNortheast, records[2].Region)

	// Territory without a region lookup entry keeps an empty region.
	assert.Empty(t, records[3].Region)
}

func TestParseCSV_SkipsRowsWithoutIdentity(t *testing.T) {
	csv := "STATE,COUNTY,STCOFIPS,RISK_SCORE\n" +
		"Texas,Travis,48453,40.2\n" +
		",Nowhere,99999,50\n" +
		"Ohio,,39000,12\n"

	records, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Travis", records[0].County)
}

func TestParseCSV_EmptyNumericCellsAreZero(t *testing.T) {
	csv := "STATE,COUNTY,STCOFIPS,POPULATION,RISK_SCORE,SOVI_SCORE,RESL_SCORE,EAL_VALT\n" +
		"Texas,Loving,48301,,,,,\n"

	records, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Zero(t, records[0].Population)
	assert.Zero(t, records[0].RiskScore)
	assert.Zero(t, records[0].EAL)
}

func TestParseCSV_MissingRequiredColumn(t *testing.T) {
	csv := "STATE,COUNTY,POPULATION\nTexas,Travis,100\n"
	_, err := ParseCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STCOFIPS")
}

func TestParseCSV_NoRows(t *testing.T) {
	csv := "STATE,COUNTY,STCOFIPS,RISK_SCORE\n"
	_, err := ParseCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no county rows")
}

func TestPadFIPS(t *testing.T) {
	assert.Equal(t, "01001", PadFIPS("1001"))
	assert.Equal(t, "48201", PadFIPS("48201"))
	assert.Equal(t, "00001", PadFIPS("1"))
	assert.Empty(t, PadFIPS(""))
	assert.Empty(t, PadFIPS("  "))
}
