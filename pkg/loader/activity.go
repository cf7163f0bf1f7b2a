package loader

import (
	"leadradar/pkg/schema"
)

// LoadActivitiesByEnterprise reads the activity source into a map of
// enterprise number to its NACE codes in first-seen order. The file is
// required outside lite mode, so a miss is returned as-is.
func (s *Source) LoadActivitiesByEnterprise() (map[string][]string, error) {
	r, err := s.reader("activity")
	if err != nil {
		return nil, err
	}

	activities := make(map[string][]string)
	err = r.Each(func(row map[string]string) error {
		enterpriseNumber := schema.NormalizeID(schema.FirstNonEmpty(row, schema.EnterpriseNumberKeys))
		naceCode := schema.FirstNonEmpty(row, schema.NaceCodeKeys)
		if enterpriseNumber != "" && naceCode != "" {
			activities[enterpriseNumber] = append(activities[enterpriseNumber], naceCode)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return activities, nil
}
