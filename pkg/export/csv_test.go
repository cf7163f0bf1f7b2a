package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadradar/pkg/schema"
)

func TestSortByScore(t *testing.T) {
	leads := []schema.Lead{
		{EnterpriseNumber: "1", ScoreTotal: 30},
		{EnterpriseNumber: "2", ScoreTotal: 50},
		{EnterpriseNumber: "3", ScoreTotal: 30},
		{EnterpriseNumber: "4", ScoreTotal: 95},
	}
	SortByScore(leads)

	got := make([]string, len(leads))
	for i := range leads {
		got[i] = leads[i].EnterpriseNumber
	}
	assert.Equal(t, []string{"4", "2", "1", "3"}, got, "stable: ties keep first-seen order")
}

func TestWriteCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "leads.csv")
	leads := []schema.Lead{
		{
			EnterpriseNumber: "0123456789", Name: "Salon Mira", Status: "ACTIVE",
			StartDate: "2026-02-10", Address: "Stationsstraat 12", PostalCode: "9400",
			City: "Ninove", NaceCodes: "96.021", SectorBucket: "beauty",
			HasWebsite: "no", Phone: "+32 478 00 00 00", ScoreTotal: 50,
			ScoreReasons: "new<18m|sector_high|has_phone", SourceFilesVersion: "dump",
		},
	}
	require.NoError(t, WriteCSV(path, leads))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, schema.OutputColumns, records[0])
	assert.Equal(t, leads[0].Row(), records[1])
}

func TestWriteCSVEmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, WriteCSV(path, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
	assert.Equal(t, schema.OutputColumns, records[0])
}

func TestWriteSummary(t *testing.T) {
	leads := []schema.Lead{
		{SectorBucket: "beauty"},
		{SectorBucket: "beauty"},
		{SectorBucket: "horeca"},
		{SectorBucket: ""},
	}
	var buf bytes.Buffer
	WriteSummary(&buf, 120, leads)

	out := buf.String()
	assert.Contains(t, out, "Total records: 120")
	assert.Contains(t, out, "After filters: 4")
	assert.Contains(t, out, "- beauty: 2\n")
	assert.Contains(t, out, "- horeca: 1\n")
	assert.Contains(t, out, "- (none): 1\n")
}

func TestExportLeads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	leads := []schema.Lead{
		{EnterpriseNumber: "1", PostalCode: "9400", ScoreTotal: 10, SectorBucket: "other"},
		{EnterpriseNumber: "2", PostalCode: "9400", ScoreTotal: 90, SectorBucket: "beauty"},
	}

	var buf bytes.Buffer
	n, err := ExportLeads(path, leads, 2, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2", records[1][0], "highest score first")
	assert.Contains(t, buf.String(), "After filters: 2")
}

func TestWriteCSVBulk(t *testing.T) {
	faker := gofakeit.New(11)

	buckets := []string{"beauty", "horeca", "health", "retail", "service_trades", "other"}
	leads := make([]schema.Lead, 500)
	for i := range leads {
		leads[i] = schema.Lead{
			EnterpriseNumber:   strconv.Itoa(1000000000 + i),
			Name:               faker.Company(),
			Status:             "ACTIVE",
			StartDate:          "2026-01-15",
			Address:            faker.Street(),
			PostalCode:         "9400",
			City:               faker.City(),
			SectorBucket:       buckets[i%len(buckets)],
			HasWebsite:         "no",
			ScoreTotal:         faker.Number(0, 100),
			SourceFilesVersion: "dump",
		}
	}
	path := filepath.Join(t.TempDir(), "leads.csv")
	SortByScore(leads)
	require.NoError(t, WriteCSV(path, leads))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 501)

	previous := 101
	for _, record := range records[1:] {
		score, err := strconv.Atoi(record[13])
		require.NoError(t, err)
		assert.LessOrEqual(t, score, previous)
		previous = score
	}
}
