package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"leadradar/pkg/schema"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "leads.xlsx")
	leads := []schema.Lead{
		{EnterpriseNumber: "0123456789", Name: "Salon Mira", PostalCode: "9400", ScoreTotal: 50},
		{EnterpriseNumber: "0666666666", Name: "Cafe Centraal", PostalCode: "9300", ScoreTotal: 45},
	}
	require.NoError(t, WriteXLSX(path, leads))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Leads"}, f.GetSheetList(), "default sheet removed")

	rows, err := f.GetRows("Leads")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, schema.OutputColumns, rows[0])
	assert.Equal(t, "0123456789", rows[1][0])
	assert.Equal(t, "Salon Mira", rows[1][1])
	assert.Equal(t, "50", rows[1][13])
	assert.Equal(t, "Cafe Centraal", rows[2][1])
}
