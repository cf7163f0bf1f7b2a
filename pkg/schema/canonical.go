package schema

import "strconv"

// Enterprise is a top-level legal registry entity, built once per row of the
// enterprise source. Name may later be backfilled from the denomination index.
type Enterprise struct {
	EnterpriseNumber string `json:"enterpriseNumber"`
	Name             string `json:"name"`
	Status           string `json:"status"`
	StartDate        string `json:"startDate"`
	PostalCode       string `json:"postalCode"`
	City             string `json:"city"`
	Address          string `json:"address"`
	Website          string `json:"website"`
}

// Establishment is a physical branch belonging to one enterprise.
// Many establishments may share the same EnterpriseNumber.
type Establishment struct {
	EnterpriseNumber    string `json:"enterpriseNumber"`
	EstablishmentNumber string `json:"establishmentNumber"`
	Address             string `json:"address"`
	PostalCode          string `json:"postalCode"`
	City                string `json:"city"`
}

// AddressRecord is an optional external enrichment keyed by establishment
// number. Its fields only fill gaps, never overwrite establishment values.
type AddressRecord struct {
	EstablishmentNumber string `json:"establishmentNumber"`
	Address             string `json:"address"`
	PostalCode          string `json:"postalCode"`
	City                string `json:"city"`
}

// ContactSummary aggregates contact channels per enterprise.
// First non-empty value wins per field; a WEB contact implies HasWebsite.
type ContactSummary struct {
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Website    string `json:"website"`
	HasWebsite bool   `json:"hasWebsite"`
}

// Lead is the exported unit, assembled once per qualifying enterprise and
// immutable after assembly.
type Lead struct {
	EnterpriseNumber   string `json:"enterpriseNumber"`
	Name               string `json:"name"`
	Status             string `json:"status"`
	StartDate          string `json:"startDate"`
	Address            string `json:"address"`
	PostalCode         string `json:"postalCode"`
	City               string `json:"city"`
	NaceCodes          string `json:"naceCodes"`
	SectorBucket       string `json:"sectorBucket"`
	HasWebsite         string `json:"hasWebsite"`
	Website            string `json:"website"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	ScoreTotal         int    `json:"scoreTotal"`
	ScoreReasons       string `json:"scoreReasons"`
	SourceFilesVersion string `json:"sourceFilesVersion"`
}

// OutputColumns is the fixed column order of the exported CSV.
var OutputColumns = []string{
	"enterprise_number",
	"name",
	"status",
	"start_date",
	"address",
	"postal_code",
	"city",
	"nace_codes",
	"sector_bucket",
	"has_website",
	"website",
	"phone",
	"email",
	"score_total",
	"score_reasons",
	"source_files_version",
}

// Row returns the lead's values in OutputColumns order.
func (l *Lead) Row() []string {
	return []string{
		l.EnterpriseNumber,
		l.Name,
		l.Status,
		l.StartDate,
		l.Address,
		l.PostalCode,
		l.City,
		l.NaceCodes,
		l.SectorBucket,
		l.HasWebsite,
		l.Website,
		l.Phone,
		l.Email,
		strconv.Itoa(l.ScoreTotal),
		l.ScoreReasons,
		l.SourceFilesVersion,
	}
}
