package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRows() []SubscriptionRow {
	next := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	return []SubscriptionRow{
		{
			SubscriptionId:  uuid.New(),
			Company:         "Acme Corp",
			Plan:            "Pro",
			MonthlyPrice:    199.90,
			Status:          "active",
			StartDate:       time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			NextBillingDate: &next,
			EstimatedLTV:    999.50,
		},
		{
			SubscriptionId: uuid.New(),
			Company:        "Globex",
			Plan:           "Basic",
			MonthlyPrice:   99.90,
			Status:         "canceled",
			StartDate:      time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
			EstimatedLTV:   299.70,
		},
	}
}

func sampleSummary() Summary {
	return Summary{
		TotalSubscriptions: 2,
		ActiveCount:        1,
		CanceledCount:      1,
		MRR:                199.90,
		AvgTicket:          199.90,
		ChurnPct:           50,
		GeneratedAt:        time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestWriteCSVHasBOMAndHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, utf8BOM), "CSV must start with a UTF-8 BOM for Excel")

	records, err := csv.NewReader(bytes.NewReader(raw[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows
	assert.Equal(t, columns, records[0])
	assert.Equal(t, "Acme Corp", records[1][1])
	assert.Equal(t, "199.90", records[1][3])
	assert.Equal(t, "", records[2][6], "missing next billing renders empty")
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestWriteExcelBufferHasBothSheets(t *testing.T) {
	buf, err := WriteExcelBuffer(sampleRows(), sampleSummary())
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), sheetSubscriptions)
	assert.Contains(t, f.GetSheetList(), sheetSummary)

	company, err := f.GetCellValue(sheetSubscriptions, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", company)

	label, err := f.GetCellValue(sheetSummary, "A5")
	require.NoError(t, err)
	assert.Equal(t, "MRR", label)
}
