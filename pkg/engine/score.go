package engine

import (
	"fmt"
	"strings"
)

// Ordered NACE prefix rules. More specific prefixes must come before broader
// ones: 96.02 (hair and beauty treatment) is claimed before any rule that
// would cover the wider 96 range.
var nacePrefixBuckets = []struct {
	Prefix string
	Bucket string
}{
	{"96.02", "beauty"},
	{"56", "horeca"},
	{"86", "health"},
	{"47", "retail"},
	{"43", "service_trades"},
	{"81", "service_trades"},
	{"95", "service_trades"},
}

var allowedBuckets = map[string]struct{}{
	"beauty":         {},
	"horeca":         {},
	"health":         {},
	"retail":         {},
	"service_trades": {},
	"other":          {},
}

// Buckets earning the sector bonus.
var sectorBonusBuckets = map[string]struct{}{
	"beauty": {},
	"horeca": {},
	"health": {},
}

// NormalizeNACECode brings a raw NACE code into comparable dotted form.
func NormalizeNACECode(code string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(code)), ",", ".")
}

// BucketFromNACE maps a NACE code onto a coarse sector bucket via the first
// matching prefix rule. Empty or unmatched codes map to "other".
func BucketFromNACE(code string) string {
	normalized := NormalizeNACECode(code)
	if normalized == "" {
		return "other"
	}
	for _, rule := range nacePrefixBuckets {
		if strings.HasPrefix(normalized, rule.Prefix) {
			return rule.Bucket
		}
	}
	return "other"
}

// EnsureBucket clamps externally supplied bucket values onto the supported
// set, defaulting to "other".
func EnsureBucket(bucket string) string {
	value := strings.ToLower(strings.TrimSpace(bucket))
	if _, ok := allowedBuckets[value]; ok {
		return value
	}
	return "other"
}

// ScoreRecord applies the rule-based point system to an already-joined
// record. Pure: no I/O, no clock; the caller supplies the age. Rules are
// evaluated in a fixed order and summed, each contributing a reason tag:
//
//	age known and <= maxMonths  +30  new<Nm
//	sector bonus bucket         +15  sector_high
//	no activity code             -5  no_nace
//	phone present                +5  has_phone
//	email present                +3  has_email
//	website present              +0  has_website (informational)
//
// The total is clamped to [0, 100]; reasons are joined with "|" preserving
// rule order.
func ScoreRecord(ageMonths *int, sectorBucket string, hasNace, hasPhone, hasEmail, hasWebsite bool, maxMonths int) (int, string) {
	score := 0
	var reasons []string

	if ageMonths != nil && *ageMonths <= maxMonths {
		score += 30
		reasons = append(reasons, fmt.Sprintf("new<%dm", maxMonths))
	}
	if _, bonus := sectorBonusBuckets[sectorBucket]; bonus {
		score += 15
		reasons = append(reasons, "sector_high")
	}
	if !hasNace {
		score -= 5
		reasons = append(reasons, "no_nace")
	}
	if hasPhone {
		score += 5
		reasons = append(reasons, "has_phone")
	}
	if hasEmail {
		score += 3
		reasons = append(reasons, "has_email")
	}
	if hasWebsite {
		reasons = append(reasons, "has_website")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, strings.Join(reasons, "|")
}
