package engine

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"leadradar/pkg/loader"
	"leadradar/pkg/parser"
	"leadradar/pkg/schema"
)

// Options configures one record-building run. All values are injected
// explicitly so tests can override the defaults per case.
type Options struct {
	// Postcodes restricts output to these postal codes; empty means no
	// postcode filtering.
	Postcodes map[string]struct{}
	// MaxMonths is the maximum age in whole calendar months.
	MaxMonths int
	// MinScore drops records scoring below it.
	MinScore int
	// Limit caps the accepted record count; 0 means unlimited. First-N by
	// input order, not by score; score ordering happens at export time.
	Limit int
	// City, when set, requires a case-insensitive substring match on the
	// record's city.
	City string
	// Query, when set, requires a case-insensitive substring match against
	// the record's name and sector bucket combined.
	Query string
	// Lite skips activity/NACE processing and zeroes scoring.
	Lite bool
	// Verbose emits diagnostic counters and samples to the log.
	Verbose bool
	// MaxBadLines is the per-file malformed-line ceiling; 0 selects the
	// default.
	MaxBadLines int
	// Today anchors age calculation; the zero value means the wall clock.
	Today time.Time
	Log   *slog.Logger
}

// Stats carries the diagnostic counters of one run.
type Stats struct {
	EnterprisesLoaded    int
	EstablishmentsLoaded int
	ContactsLoaded       int
	ActiveKept           int
	WithEstablishment    int
	WithContact          int
	PostcodeKept         int
	SourceVersion        string
}

// postcodeSample feeds the verbose postcode diagnostics.
type postcodeSample struct {
	enterpriseNumber string
	computed         string
}

// BuildRecords runs the full pipeline over one input directory: load all
// sources, join and enrich, score, filter, validate. Returned leads are in
// input order; export sorts by score. Filters short-circuit so a record
// failing the postcode check never incurs scoring cost.
func BuildRecords(inputDir string, opts Options) ([]schema.Lead, *Stats, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	today := opts.Today
	if today.IsZero() {
		today = time.Now().UTC()
	}

	resolvedDir := parser.DetectInputDir(inputDir, log)
	src := loader.NewSource(resolvedDir, opts.MaxBadLines, log)
	stats := &Stats{SourceVersion: sourceVersion(resolvedDir)}

	enterprises, err := src.LoadEnterprises()
	if err != nil {
		return nil, nil, fmt.Errorf("load enterprises: %w", err)
	}
	establishments, err := src.LoadEstablishments()
	if err != nil {
		return nil, nil, fmt.Errorf("load establishments: %w", err)
	}
	addresses, err := src.LoadAddressesByEstablishment()
	if err != nil {
		return nil, nil, fmt.Errorf("load addresses: %w", err)
	}
	OverlayAddresses(establishments, addresses)

	contacts, err := src.LoadContactsByEnterprise(establishments)
	if err != nil {
		return nil, nil, fmt.Errorf("load contacts: %w", err)
	}
	denominations, err := src.LoadDenominationsByEnterprise()
	if err != nil {
		return nil, nil, fmt.Errorf("load denominations: %w", err)
	}

	activities := map[string][]string{}
	if !opts.Lite {
		activities, err = src.LoadActivitiesByEnterprise()
		if err != nil {
			return nil, nil, fmt.Errorf("load activities: %w", err)
		}
	}

	stats.EnterprisesLoaded = len(enterprises)
	stats.EstablishmentsLoaded = len(establishments)
	stats.ContactsLoaded = len(contacts)
	if opts.Verbose {
		log.Info("loaded counts",
			"enterprises", len(enterprises),
			"establishments", len(establishments),
			"contacts", len(contacts))
	}

	establishmentByEnterprise := BuildEstablishmentIndex(establishments)

	var leads []schema.Lead
	var samples []postcodeSample

	for _, enterprise := range enterprises {
		if !schema.IsActiveStatus(enterprise.Status) {
			continue
		}
		stats.ActiveKept++

		est, hasEst := establishmentByEnterprise[enterprise.EnterpriseNumber]
		if hasEst {
			stats.WithEstablishment++
		}
		contact, hasContact := contacts[enterprise.EnterpriseNumber]
		if hasContact {
			stats.WithContact++
		}

		estPostal := schema.NormalizePostalCode(est.PostalCode)
		entPostal := schema.NormalizePostalCode(enterprise.PostalCode)
		postalCode := estPostal
		if postalCode == "" {
			postalCode = entPostal
		}
		if opts.Verbose {
			samples = append(samples, postcodeSample{
				enterpriseNumber: enterprise.EnterpriseNumber,
				computed:         postalCode,
			})
		}

		startDate := strings.TrimSpace(enterprise.StartDate)
		if startDate == "" {
			continue
		}
		ageMonths := schema.MonthsSince(startDate, today)

		if len(opts.Postcodes) > 0 {
			if _, ok := opts.Postcodes[postalCode]; !ok {
				continue
			}
		}
		stats.PostcodeKept++

		// Unknown age is treated as too old once an age bound applies.
		if ageMonths == nil || *ageMonths > opts.MaxMonths {
			continue
		}

		var naceCodes []string
		sectorBucket := ""
		if !opts.Lite {
			naceCodes = activities[enterprise.EnterpriseNumber]
			firstNace := ""
			if len(naceCodes) > 0 {
				// Only the first code feeds bucketing even when several are
				// recorded; secondary activities are exported but not ranked.
				firstNace = naceCodes[0]
			}
			sectorBucket = BucketFromNACE(firstNace)
		}

		website := contact.Website
		if website == "" {
			website = strings.TrimSpace(enterprise.Website)
		}
		hasWebsite := website != ""
		phone := contact.Phone
		email := contact.Email

		var scoreTotal int
		var scoreReasons string
		if opts.Lite {
			reasons := []string{"lite_mode"}
			if phone != "" {
				reasons = append(reasons, "has_phone")
			}
			if email != "" {
				reasons = append(reasons, "has_email")
			}
			if hasWebsite {
				reasons = append(reasons, "has_website")
			}
			scoreReasons = strings.Join(reasons, "|")
		} else {
			scoreTotal, scoreReasons = ScoreRecord(
				ageMonths, sectorBucket, len(naceCodes) > 0,
				phone != "", email != "", hasWebsite, opts.MaxMonths)
		}

		name := strings.TrimSpace(enterprise.Name)
		if name == "" {
			name = denominations[enterprise.EnterpriseNumber]
		}

		lead := schema.Lead{
			EnterpriseNumber:   enterprise.EnterpriseNumber,
			Name:               name,
			Status:             schema.NormalizeStatus(enterprise.Status),
			StartDate:          startDate,
			Address:            firstTrimmed(est.Address, enterprise.Address),
			PostalCode:         postalCode,
			City:               firstTrimmed(est.City, enterprise.City),
			NaceCodes:          strings.Join(naceCodes, ","),
			SectorBucket:       sectorBucket,
			HasWebsite:         yesNo(hasWebsite),
			Website:            website,
			Phone:              phone,
			Email:              email,
			ScoreTotal:         scoreTotal,
			ScoreReasons:       scoreReasons,
			SourceFilesVersion: stats.SourceVersion,
		}

		if opts.City != "" && !strings.Contains(strings.ToLower(lead.City), strings.ToLower(opts.City)) {
			continue
		}
		if opts.Query != "" {
			haystack := strings.ToLower(lead.Name + " " + lead.SectorBucket)
			if !strings.Contains(haystack, strings.ToLower(opts.Query)) {
				continue
			}
		}
		if lead.ScoreTotal < opts.MinScore {
			continue
		}
		if err := ValidateLead(&lead); err != nil {
			return nil, nil, err
		}
		leads = append(leads, lead)
		if opts.Limit > 0 && len(leads) >= opts.Limit {
			break
		}
	}

	if opts.Verbose {
		logVerbose(log, stats, samples, leads)
	}
	return leads, stats, nil
}

// logVerbose emits the diagnostic counters, postcode distribution and a
// short record preview.
func logVerbose(log *slog.Logger, stats *Stats, samples []postcodeSample, leads []schema.Lead) {
	log.Info("pipeline counters",
		"enterprises_loaded", stats.EnterprisesLoaded,
		"active_kept", stats.ActiveKept,
		"with_establishment", stats.WithEstablishment,
		"with_contact", stats.WithContact,
		"postcode_kept", stats.PostcodeKept)

	if len(samples) > 0 {
		empty := 0
		counts := make(map[string]int)
		for _, sample := range samples {
			if sample.computed == "" {
				empty++
			} else {
				counts[sample.computed]++
			}
		}
		type pair struct {
			postcode string
			count    int
		}
		top := make([]pair, 0, len(counts))
		for postcode, count := range counts {
			top = append(top, pair{postcode, count})
		}
		sort.Slice(top, func(i, j int) bool {
			if top[i].count != top[j].count {
				return top[i].count > top[j].count
			}
			return top[i].postcode < top[j].postcode
		})
		if len(top) > 10 {
			top = top[:10]
		}
		summary := make([]string, 0, len(top))
		for _, p := range top {
			summary = append(summary, fmt.Sprintf("%s=%d", p.postcode, p.count))
		}
		log.Info("postcode diagnostics",
			"total", len(samples), "empty", empty, "non_empty", len(samples)-empty,
			"top10", strings.Join(summary, ","))
	}

	if stats.EnterprisesLoaded > 0 {
		log.Info("join stats",
			"establishment_ratio_pct", ratio(stats.WithEstablishment, stats.EnterprisesLoaded),
			"contact_ratio_pct", ratio(stats.WithContact, stats.EnterprisesLoaded))
	}

	preview := leads
	if len(preview) > 3 {
		preview = preview[:3]
	}
	for _, lead := range preview {
		log.Info("preview record",
			"enterprise_number", lead.EnterpriseNumber,
			"name", lead.Name,
			"postal_code", lead.PostalCode,
			"city", lead.City,
			"score", lead.ScoreTotal)
	}
}

func ratio(part, total int) float64 {
	return float64(part) / float64(total) * 100
}

func firstTrimmed(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// sourceVersion derives source_files_version from the resolved directory
// name.
func sourceVersion(dir string) string {
	return filepath.Base(filepath.Clean(dir))
}
