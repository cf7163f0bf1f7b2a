package schema

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Pre-compiled regular expressions for normalization.
var (
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9]+`)
	underscoreRe = regexp.MustCompile(`_+`)
	nonDigitRe   = regexp.MustCompile(`\D`)
	postal4Re    = regexp.MustCompile(`^\d{4}$`)
	postalRunRe  = regexp.MustCompile(`\b(\d{4})\b`)
)

// keyAliases maps normalized column names to their canonical key. Applied as
// the last step of NormalizeKey so source-specific spellings collapse onto
// the keys the loaders look up.
var keyAliases = map[string]string{
	"zipcode":        "postal_code",
	"municipalitynl": "city",
	"municipalityfr": "city_fr",
	"streetnl":       "street",
	"housenumber":    "house_number",
}

// NormalizeKey canonicalizes a raw column name: Unicode decompose, strip
// combining marks, lowercase, collapse non-alphanumeric runs to a single
// underscore, trim underscores, then apply the alias table. Pure and
// deterministic; an empty input yields an empty key.
func NormalizeKey(name string) string {
	s := stripDiacritics(strings.ToLower(strings.TrimSpace(name)))
	s = nonAlnumRe.ReplaceAllString(s, "_")
	s = underscoreRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if alias, ok := keyAliases[s]; ok {
		return alias
	}
	return s
}

// NormalizeHeader rewrites a header row through NormalizeKey. When two raw
// columns collapse onto the same key, the first column claims it and later
// duplicates are blanked, keeping row mapping deterministic.
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		key := NormalizeKey(name)
		if _, dup := seen[key]; dup {
			out[i] = ""
			continue
		}
		seen[key] = struct{}{}
		out[i] = key
	}
	return out
}

// stripDiacritics removes diacritical marks by NFKD decomposition and
// dropping combining marks (Mn category).
func stripDiacritics(s string) string {
	decomposed := norm.NFKD.String(s)
	var result strings.Builder
	result.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

// NormalizeID reduces an enterprise or establishment identifier to its
// digits. Quotes, dots, spaces and every other non-digit character are
// stripped, so differently formatted identifiers for the same registry
// entity compare equal. Empty after stripping means absent.
func NormalizeID(value string) string {
	cleaned := strings.Trim(strings.TrimSpace(value), `"'`)
	return nonDigitRe.ReplaceAllString(cleaned, "")
}

// NormalizePostalCode returns the trimmed value when it is already exactly
// four digits, otherwise the first standalone four-digit run found inside it
// (registries sometimes prepend a country prefix), otherwise the trimmed
// original so downstream membership checks simply fail to match.
func NormalizePostalCode(value string) string {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return ""
	}
	if postal4Re.MatchString(cleaned) {
		return cleaned
	}
	if m := postalRunRe.FindStringSubmatch(cleaned); m != nil {
		return m[1]
	}
	return cleaned
}

// statusAbbreviations maps the registry's two-letter status codes to their
// display form.
var statusAbbreviations = map[string]string{
	"AC": "ACTIVE",
	"IN": "INACTIVE",
}

// NormalizeStatus maps known two-letter abbreviations to their long form and
// returns the trimmed original otherwise.
func NormalizeStatus(value string) string {
	cleaned := strings.TrimSpace(value)
	if mapped, ok := statusAbbreviations[strings.ToUpper(cleaned)]; ok {
		return mapped
	}
	return cleaned
}

// IsActiveStatus reports whether a raw status denotes an operating
// enterprise. Both the raw abbreviation and the mapped form count as active.
func IsActiveStatus(value string) bool {
	cleaned := strings.ToUpper(strings.TrimSpace(value))
	return cleaned == "AC" || NormalizeStatus(cleaned) == "ACTIVE"
}

// placeholderDates are literal zero-dates some dumps use for "unknown".
var placeholderDates = map[string]struct{}{
	"0":          {},
	"0000-00-00": {},
	"00-00-0000": {},
	"0000/00/00": {},
}

// dateLayouts are the accepted start-date formats, most common first.
var dateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006"}

// ParseDate parses a registry start date. Empty strings and placeholder
// zero-dates parse to nil rather than an error; callers treat nil as
// "age unknown".
func ParseDate(value string) *time.Time {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return nil
	}
	if _, placeholder := placeholderDates[cleaned]; placeholder {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return &t
		}
	}
	return nil
}

// MonthsSince returns the age of a start date in whole calendar months
// relative to today, or nil when the date cannot be parsed. Calendar month
// arithmetic, not elapsed days: January 31st is one month old on February 1st.
func MonthsSince(startDate string, today time.Time) *int {
	started := ParseDate(startDate)
	if started == nil {
		return nil
	}
	months := (today.Year()-started.Year())*12 + int(today.Month()) - int(started.Month())
	return &months
}
