package engine

import (
	"strings"

	"leadradar/pkg/schema"
)

// PreferEstablishment decides whether candidate should replace existing as
// the representative establishment of an enterprise. The ranking picks the
// most geographically useful branch: postal-code presence first, then
// address presence, otherwise the first-seen row stays.
func PreferEstablishment(existing, candidate schema.Establishment) bool {
	existingPostal := schema.NormalizePostalCode(existing.PostalCode) != ""
	candidatePostal := schema.NormalizePostalCode(candidate.PostalCode) != ""
	if candidatePostal != existingPostal {
		return candidatePostal
	}

	existingAddress := strings.TrimSpace(existing.Address) != ""
	candidateAddress := strings.TrimSpace(candidate.Address) != ""
	return candidateAddress && !existingAddress
}

// BuildEstablishmentIndex keeps exactly one establishment per enterprise,
// chosen by PreferEstablishment. Rows without an enterprise number are
// dropped.
func BuildEstablishmentIndex(establishments []schema.Establishment) map[string]schema.Establishment {
	index := make(map[string]schema.Establishment)
	for _, est := range establishments {
		if est.EnterpriseNumber == "" {
			continue
		}
		existing, ok := index[est.EnterpriseNumber]
		if !ok || PreferEstablishment(existing, est) {
			index[est.EnterpriseNumber] = est
		}
	}
	return index
}

// OverlayAddresses fills empty establishment fields from the optional
// address source, matched by establishment number. A non-empty
// establishment value is never overwritten.
func OverlayAddresses(establishments []schema.Establishment, addresses map[string]schema.AddressRecord) {
	if len(addresses) == 0 {
		return
	}
	for i := range establishments {
		est := &establishments[i]
		if est.EstablishmentNumber == "" {
			continue
		}
		addr, ok := addresses[est.EstablishmentNumber]
		if !ok {
			continue
		}
		if est.Address == "" {
			est.Address = addr.Address
		}
		if est.PostalCode == "" {
			est.PostalCode = addr.PostalCode
		}
		if est.City == "" {
			est.City = addr.City
		}
	}
}
