package schema

import (
	"sort"
	"strings"
)

// Candidate column names per canonical field, in lookup priority order.
// The lists carry both underscore and PascalCase-derived forms because the
// key normalizer folds "EnterpriseNumber" to "enterprisenumber" but
// "enterprise_number" stays as-is.
var (
	EnterpriseNumberKeys = []string{"enterprise_number", "enterprisenumber", "entity_number"}

	EstablishmentNumberKeys = []string{"establishment_number", "establishmentnumber", "entity_number"}

	AddressEstablishmentKeys = []string{
		"establishment_number", "establishmentnumber", "entitynumber", "entity_number",
	}

	NameKeys = []string{
		"name", "denomination", "denomination_nl", "denomination_fr", "legal_name", "tradename",
	}

	StatusKeys    = []string{"status", "enterprise_status"}
	StartDateKeys = []string{"start_date", "startdate", "creation_date"}

	StreetKeys      = []string{"street", "street_nl", "street_fr", "street_de", "street_name"}
	HouseNumberKeys = []string{"house_number", "housenumber", "number"}
	BoxKeys         = []string{"box", "bus", "box_number"}

	PostalCodeKeys = []string{"postal_code", "postcode", "post_code", "zip_code", "zip"}
	CityKeys       = []string{
		"city", "municipality", "municipality_nl", "municipality_fr", "municipality_de", "commune",
	}

	FullAddressKeys = []string{"address", "full_address"}
	WebsiteKeys     = []string{"website", "web", "url"}
	NaceCodeKeys    = []string{"nace_code", "nacecode", "nace", "nacebel", "activity_code", "code_nace"}
)

// FirstNonEmpty returns the trimmed value of the first candidate key that is
// present and non-empty in the row.
func FirstNonEmpty(row map[string]string, candidates []string) string {
	for _, key := range candidates {
		if value := strings.TrimSpace(row[key]); value != "" {
			return value
		}
	}
	return ""
}

// FindByKeywords scans the columns of a row for one whose name contains any
// of the keywords (case-insensitive) and returns its first non-empty value.
// Fallback for schema variants the candidate lists do not anticipate. Keys
// are visited in sorted order so two matching columns always resolve to the
// same value; candidate lists stay authoritative for real priority.
func FindByKeywords(row map[string]string, keywords []string) string {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		lowered := strings.ToLower(key)
		for _, keyword := range keywords {
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				if cleaned := strings.TrimSpace(row[key]); cleaned != "" {
					return cleaned
				}
			}
		}
	}
	return ""
}
