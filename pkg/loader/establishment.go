package loader

import (
	"strings"

	"leadradar/pkg/schema"
)

// assembleAddress builds a display address from street-style columns:
// street plus house number, with "box <n>" appended when a box or suite
// value is present. When no street-style fields exist at all it falls back
// to a single pre-joined address column. Returns address, postal code, city.
func assembleAddress(row map[string]string) (string, string, string) {
	street := schema.FirstNonEmpty(row, schema.StreetKeys)
	if street == "" {
		street = schema.FindByKeywords(row, []string{"street"})
	}
	houseNumber := schema.FirstNonEmpty(row, schema.HouseNumberKeys)
	if houseNumber == "" {
		houseNumber = schema.FindByKeywords(row, []string{"house"})
	}
	box := schema.FirstNonEmpty(row, schema.BoxKeys)

	postalCode := schema.FirstNonEmpty(row, schema.PostalCodeKeys)
	if postalCode == "" {
		postalCode = schema.FindByKeywords(row, []string{"postcode", "postalcode", "post_code"})
	}
	city := schema.FirstNonEmpty(row, schema.CityKeys)
	if city == "" {
		city = schema.FindByKeywords(row, []string{"municipality", "city"})
	}

	if street == "" {
		if legacy := schema.FirstNonEmpty(row, schema.FullAddressKeys); legacy != "" {
			return legacy, postalCode, city
		}
	}

	parts := make([]string, 0, 2)
	for _, part := range []string{street, houseNumber} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	address := strings.Join(parts, " ")
	if box != "" {
		if address != "" {
			address += " box " + box
		} else {
			address = box
		}
	}
	return address, postalCode, city
}

// MapEstablishmentRow maps a canonically keyed raw row onto an Establishment.
func MapEstablishmentRow(row map[string]string) schema.Establishment {
	address, postalCode, city := assembleAddress(row)
	if address == "" {
		address = schema.FirstNonEmpty(row, schema.FullAddressKeys)
	}
	return schema.Establishment{
		EnterpriseNumber:    schema.NormalizeID(schema.FirstNonEmpty(row, schema.EnterpriseNumberKeys)),
		EstablishmentNumber: schema.NormalizeID(schema.FirstNonEmpty(row, schema.EstablishmentNumberKeys)),
		Address:             address,
		PostalCode:          postalCode,
		City:                city,
	}
}

// LoadEstablishments reads the required establishment source.
func (s *Source) LoadEstablishments() ([]schema.Establishment, error) {
	r, err := s.reader("establishment")
	if err != nil {
		return nil, err
	}
	var establishments []schema.Establishment
	err = r.Each(func(row map[string]string) error {
		establishments = append(establishments, MapEstablishmentRow(row))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return establishments, nil
}

// LoadAddressesByEstablishment reads the optional address source into a map
// keyed by normalized establishment number. Rows without an establishment
// number, or with neither address nor postal code, are skipped. A missing
// file is not an error; enrichment is simply skipped.
func (s *Source) LoadAddressesByEstablishment() (map[string]schema.AddressRecord, error) {
	r, err := s.reader("address")
	if err != nil {
		if optional(err) {
			return map[string]schema.AddressRecord{}, nil
		}
		return nil, err
	}

	addresses := make(map[string]schema.AddressRecord)
	err = r.Each(func(row map[string]string) error {
		number := schema.FirstNonEmpty(row, schema.AddressEstablishmentKeys)
		if number == "" {
			number = schema.FindByKeywords(row, []string{"establishment"})
		}
		establishmentNumber := schema.NormalizeID(number)
		if establishmentNumber == "" {
			return nil
		}

		address, postalCode, city := assembleAddress(row)
		if address == "" && postalCode == "" {
			return nil
		}
		addresses[establishmentNumber] = schema.AddressRecord{
			EstablishmentNumber: establishmentNumber,
			Address:             address,
			PostalCode:          postalCode,
			City:                city,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return addresses, nil
}
