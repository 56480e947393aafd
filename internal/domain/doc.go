// Package domain models FEMA National Risk Index (NRI) county data.
//
// # Data Source
//
// County records originate from the FEMA NRI county table, published as a
// zip archive containing a single CSV file at
// https://hazards.fema.gov/nri/Content/StaticDocuments/DataDownload/NRI_Table_Counties/NRI_Table_Counties.zip.
// Each row describes one county: identity columns (STATE, COUNTY, STCOFIPS),
// population, and the NRI index scores.
//
// # NRI Column Conventions
//
// Score columns:
//
//	RISK_SCORE  composite hazard risk index, 0–100 percentile scale.
//	SOVI_SCORE  social vulnerability index score.
//	RESL_SCORE  community resilience index score.
//	EAL_VALT    expected annual loss, total, in dollars.
//
// FIPS codes:
//
//	STCOFIPS is the 5-digit state+county FIPS code. Source data sometimes
//	drops the leading zero (e.g. 1001 for Autauga County, AL), so codes are
//	zero-padded back to 5 digits on ingest.
//
// Missing values:
//
//	Empty numeric cells are treated as zero (unmeasured). Rows without a
//	STATE or COUNTY value are dropped on ingest.
//
// # Region Derivation
//
// Each record carries a derived Region label from the static Census-region
// lookup in [RegionFor]: Northeast, Midwest, South, or West, covering the 50
// states plus the District of Columbia. States absent from the lookup
// (territories such as Puerto Rico) keep an empty Region; Region is
// non-empty if and only if the state name has a lookup entry.
//
// # Filtering
//
// [Filter] implements the dashboard's cascading selection: chosen regions
// constrain the state options, chosen regions and states constrain the
// county options, and an empty selection on any axis means "all". Every row
// in a filtered result satisfies all non-empty selections.
package domain
