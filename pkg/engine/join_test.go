package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadradar/pkg/schema"
)

func TestPreferEstablishment(t *testing.T) {
	withPostal := schema.Establishment{PostalCode: "9400"}
	withAddress := schema.Establishment{Address: "Kerkplein 1"}
	bare := schema.Establishment{}

	assert.True(t, PreferEstablishment(bare, withPostal))
	assert.True(t, PreferEstablishment(withAddress, withPostal), "postal presence beats address presence")
	assert.True(t, PreferEstablishment(bare, withAddress))
	assert.False(t, PreferEstablishment(withPostal, withAddress))
	assert.False(t, PreferEstablishment(withPostal, bare))
	assert.False(t, PreferEstablishment(bare, bare), "equal rank keeps first-seen")
	assert.False(t, PreferEstablishment(withPostal, schema.Establishment{PostalCode: "9300"}),
		"equal rank keeps first-seen even with different values")
}

func TestBuildEstablishmentIndex(t *testing.T) {
	establishments := []schema.Establishment{
		{EnterpriseNumber: "1", EstablishmentNumber: "10"},
		{EnterpriseNumber: "1", EstablishmentNumber: "11", Address: "Kerkplein 1"},
		{EnterpriseNumber: "1", EstablishmentNumber: "12", PostalCode: "9400"},
		{EnterpriseNumber: "1", EstablishmentNumber: "13", PostalCode: "9300"},
		{EnterpriseNumber: "2", EstablishmentNumber: "20"},
		{EstablishmentNumber: "99"},
	}
	index := BuildEstablishmentIndex(establishments)

	require.Len(t, index, 2)
	assert.Equal(t, "12", index["1"].EstablishmentNumber,
		"first establishment with a postal code is kept")
	assert.Equal(t, "20", index["2"].EstablishmentNumber)
}

func TestOverlayAddressesFillsOnlyGaps(t *testing.T) {
	establishments := []schema.Establishment{
		{EstablishmentNumber: "10", Address: "Kerkplein 1"},
		{EstablishmentNumber: "11"},
		{EstablishmentNumber: "12"},
	}
	addresses := map[string]schema.AddressRecord{
		"10": {Address: "Overwritten?", PostalCode: "9400", City: "Ninove"},
		"11": {Address: "Stationsstraat 12", PostalCode: "9300", City: "Aalst"},
	}
	OverlayAddresses(establishments, addresses)

	assert.Equal(t, "Kerkplein 1", establishments[0].Address, "existing value never overwritten")
	assert.Equal(t, "9400", establishments[0].PostalCode, "empty field filled")
	assert.Equal(t, "Stationsstraat 12", establishments[1].Address)
	assert.Equal(t, "Aalst", establishments[1].City)
	assert.Equal(t, "", establishments[2].Address, "no enrichment without a match")
}
