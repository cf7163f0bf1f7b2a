package loader

import (
	"strings"

	"leadradar/pkg/schema"
)

// Role values marking a contact row as establishment-scoped; such rows are
// re-keyed to the owning enterprise through the establishment FK.
var establishmentRoles = map[string]struct{}{
	"EST":           {},
	"ESTABLISHMENT": {},
	"VESTIGING":     {},
}

// applyContact folds one typed contact value into a summary. First non-empty
// value wins per field, so re-applying the same source is idempotent. A WEB
// value implies HasWebsite. FAX is recognized but not stored.
func applyContact(summary *schema.ContactSummary, contactType, value string) {
	if value == "" {
		return
	}
	switch contactType {
	case "TEL":
		if summary.Phone == "" {
			summary.Phone = value
		}
	case "EMAIL":
		if summary.Email == "" {
			summary.Email = value
		}
	case "WEB":
		if summary.Website == "" {
			summary.Website = value
			summary.HasWebsite = true
		}
	}
}

// LoadContactsByEnterprise builds the per-enterprise contact summary from
// the optional contact source. Rows carry either a typed value column
// (TEL/EMAIL/WEB/FAX) or legacy phone/email/website columns.
// Establishment-scoped rows are resolved through the establishment FK;
// rows whose scope cannot be resolved to a known enterprise are discarded.
func (s *Source) LoadContactsByEnterprise(establishments []schema.Establishment) (map[string]schema.ContactSummary, error) {
	r, err := s.reader("contact")
	if err != nil {
		if optional(err) {
			return map[string]schema.ContactSummary{}, nil
		}
		return nil, err
	}

	establishmentToEnterprise := make(map[string]string, len(establishments))
	for _, est := range establishments {
		if est.EstablishmentNumber != "" && est.EnterpriseNumber != "" {
			establishmentToEnterprise[est.EstablishmentNumber] = est.EnterpriseNumber
		}
	}

	contacts := make(map[string]schema.ContactSummary)
	discarded := 0
	err = r.Each(func(row map[string]string) error {
		entityNumber := schema.NormalizeID(schema.FirstNonEmpty(row, []string{
			"entitynumber", "entity_number", "enterprise_number", "enterprisenumber",
			"establishment_number", "establishmentnumber",
		}))
		role := strings.ToUpper(strings.TrimSpace(schema.FirstNonEmpty(row, []string{"entitycontact", "entity_contact"})))
		contactType := strings.ToUpper(strings.TrimSpace(schema.FirstNonEmpty(row, []string{"contacttype", "contact_type"})))

		enterpriseNumber := entityNumber
		if _, scoped := establishmentRoles[role]; scoped {
			enterpriseNumber = establishmentToEnterprise[entityNumber]
		}
		if enterpriseNumber == "" {
			discarded++
			return nil
		}

		summary := contacts[enterpriseNumber]
		switch contactType {
		case "TEL", "EMAIL", "WEB", "FAX":
			applyContact(&summary, contactType, strings.TrimSpace(row["value"]))
		default:
			applyContact(&summary, "TEL", strings.TrimSpace(row["phone"]))
			applyContact(&summary, "EMAIL", strings.TrimSpace(row["email"]))
			website := strings.TrimSpace(row["website"])
			if website == "" {
				website = strings.TrimSpace(row["web"])
			}
			applyContact(&summary, "WEB", website)
		}
		contacts[enterpriseNumber] = summary
		return nil
	})
	if err != nil {
		return nil, err
	}
	if discarded > 0 {
		s.Log.Debug("contact rows with unresolvable scope discarded", "count", discarded)
	}
	return contacts, nil
}
