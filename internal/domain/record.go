package domain

// CountyRecord is one row of the NRI county table after ingest.
type CountyRecord struct {
	Region     string  `json:"region,omitempty"`
	State      string  `json:"state"`
	County     string  `json:"county"`
	FIPS       string  `json:"fips"` // 5-digit STCOFIPS, zero-padded
	Population float64 `json:"population"`
	RiskScore  float64 `json:"risk_score"`
	RiskRating string  `json:"risk_rating,omitempty"`
	SoviScore  float64 `json:"sovi_score"`
	ReslScore  float64 `json:"resl_score"`
	EAL        float64 `json:"eal"` // expected annual loss, total dollars
}

// DeriveRegions fills in the Region field for every record in place from the
// static state→region lookup. States without a lookup entry keep an empty
// Region.
func DeriveRegions(records []CountyRecord) {
	for i := range records {
		records[i].Region = RegionFor(records[i].State)
	}
}
