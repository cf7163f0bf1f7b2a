package engine

import (
	"fmt"
	"regexp"
	"strings"

	"leadradar/pkg/schema"
)

// Score bounds enforced on every exported record.
const (
	ScoreMin = 0
	ScoreMax = 100
)

var postalCodeRe = regexp.MustCompile(`^\d{4}$`)

// ValidateLead asserts the invariants of an exportable record. A violation
// here means a pipeline defect, not bad input, so callers abort the run
// instead of dropping the record.
func ValidateLead(lead *schema.Lead) error {
	if strings.TrimSpace(lead.EnterpriseNumber) == "" {
		return fmt.Errorf("invalid record: enterprise_number must not be empty")
	}
	if !postalCodeRe.MatchString(strings.TrimSpace(lead.PostalCode)) {
		return fmt.Errorf("invalid record %s: postal_code %q must be exactly 4 digits",
			lead.EnterpriseNumber, lead.PostalCode)
	}
	if lead.ScoreTotal < ScoreMin || lead.ScoreTotal > ScoreMax {
		return fmt.Errorf("invalid record %s: score_total %d outside range %d-%d",
			lead.EnterpriseNumber, lead.ScoreTotal, ScoreMin, ScoreMax)
	}
	return nil
}
