package loader

import (
	"leadradar/pkg/schema"
)

// MapEnterpriseRow maps a canonically keyed raw row onto an Enterprise.
// Status, address and postal code stay in raw form here; display
// normalization happens at record-assembly time.
func MapEnterpriseRow(row map[string]string) schema.Enterprise {
	return schema.Enterprise{
		EnterpriseNumber: schema.NormalizeID(schema.FirstNonEmpty(row, schema.EnterpriseNumberKeys)),
		Name:             schema.FirstNonEmpty(row, schema.NameKeys),
		Status:           schema.FirstNonEmpty(row, schema.StatusKeys),
		StartDate:        schema.FirstNonEmpty(row, schema.StartDateKeys),
		PostalCode:       schema.FirstNonEmpty(row, schema.PostalCodeKeys),
		City:             schema.FirstNonEmpty(row, schema.CityKeys),
		Address:          schema.FirstNonEmpty(row, []string{"address", "street", "street_name"}),
		Website:          schema.FirstNonEmpty(row, schema.WebsiteKeys),
	}
}

// LoadEnterprises reads the required enterprise source.
func (s *Source) LoadEnterprises() ([]schema.Enterprise, error) {
	r, err := s.reader("enterprise")
	if err != nil {
		return nil, err
	}
	var enterprises []schema.Enterprise
	err = r.Each(func(row map[string]string) error {
		enterprises = append(enterprises, MapEnterpriseRow(row))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return enterprises, nil
}
