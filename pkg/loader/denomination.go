package loader

import (
	"strings"

	"leadradar/pkg/schema"
)

// Denomination type codes: legal denominations ("001") outrank abbreviations
// ("002"), which outrank unknown types.
var denominationTypeRanks = map[string]int{"001": 0, "1": 0, "002": 1, "2": 1}

const unknownTypeRank = 2

// Preferred language order, with one-letter abbreviations treated as equal
// to the full codes.
var languageRanks = map[string]int{
	"nl": 0, "n": 0,
	"fr": 1, "f": 1,
	"en": 2, "e": 2,
	"de": 3, "d": 3,
}

const unknownLanguageRank = 4

// DenominationRank is the deterministic total order used to pick the single
// best name among an enterprise's denomination rows: type, then language,
// then first-seen row order, with lexicographic name as the final tiebreak.
type DenominationRank struct {
	TypeRank     int
	LanguageRank int
	Order        int
	Name         string
}

// RankDenomination computes the rank tuple for one denomination row.
func RankDenomination(denominationType, language string, order int, name string) DenominationRank {
	typeRank, ok := denominationTypeRanks[strings.TrimSpace(denominationType)]
	if !ok {
		typeRank = unknownTypeRank
	}
	languageRank, ok := languageRanks[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		languageRank = unknownLanguageRank
	}
	return DenominationRank{TypeRank: typeRank, LanguageRank: languageRank, Order: order, Name: name}
}

// Less reports whether r outranks other.
func (r DenominationRank) Less(other DenominationRank) bool {
	if r.TypeRank != other.TypeRank {
		return r.TypeRank < other.TypeRank
	}
	if r.LanguageRank != other.LanguageRank {
		return r.LanguageRank < other.LanguageRank
	}
	if r.Order != other.Order {
		return r.Order < other.Order
	}
	return r.Name < other.Name
}

// LoadDenominationsByEnterprise reads the optional denomination source into
// a map of enterprise number to its single best name.
func (s *Source) LoadDenominationsByEnterprise() (map[string]string, error) {
	r, err := s.reader("denomination")
	if err != nil {
		if optional(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	selected := make(map[string]DenominationRank)
	order := 0
	err = r.Each(func(row map[string]string) error {
		index := order
		order++

		enterpriseNumber := schema.NormalizeID(schema.FirstNonEmpty(row, []string{
			"entity_number", "enterprise_number", "entitynumber",
		}))
		name := schema.FirstNonEmpty(row, []string{"denomination", "name"})
		if enterpriseNumber == "" || name == "" {
			return nil
		}

		rank := RankDenomination(
			schema.FirstNonEmpty(row, []string{"type_of_denomination", "typeofdenomination"}),
			schema.FirstNonEmpty(row, []string{"language", "language_code", "lang"}),
			index,
			name,
		)
		if previous, ok := selected[enterpriseNumber]; !ok || rank.Less(previous) {
			selected[enterpriseNumber] = rank
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(selected))
	for enterpriseNumber, rank := range selected {
		names[enterpriseNumber] = rank.Name
	}
	return names, nil
}
