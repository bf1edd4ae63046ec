// FILE: pkg/export/excel.go
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSubscriptions = "Subscriptions"
	sheetSummary       = "Summary"
)

// BuildWorkbook renders the detailed report plus a summary sheet: styled
// header, money and date formats, auto-filter and a frozen header row.
func BuildWorkbook(rows []SubscriptionRow, summary Summary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetSubscriptions); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2F5496"}},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("yyyy-mm-dd")})
	if err != nil {
		return nil, err
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetSubscriptions, cell, col); err != nil {
			return nil, err
		}
	}
	if err := f.SetRowStyle(sheetSubscriptions, 1, 1, headerStyle); err != nil {
		return nil, err
	}

	for i, row := range rows {
		r := i + 2
		f.SetCellValue(sheetSubscriptions, fmt.Sprintf("A%d", r), row.SubscriptionId.String())
		f.SetCellValue(sheetSubscriptions, fmt.Sprintf("B%d", r), row.Company)
		f.SetCellValue(sheetSubscriptions, fmt.Sprintf("C%d", r), row.Plan)
		f.SetCellValue(sheetSubscriptions, fmt.Sprintf("D%d", r), row.MonthlyPrice)
		f.SetCellValue(sheetSubscriptions, fmt.Sprintf("E%d", r), row.Status)
		f.SetCellValue(sheetSubscriptions, fmt.Sprintf("F%d", r), row.StartDate)
		if row.NextBillingDate != nil {
			f.SetCellValue(sheetSubscriptions, fmt.Sprintf("G%d", r), *row.NextBillingDate)
		}
		f.SetCellValue(sheetSubscriptions, fmt.Sprintf("H%d", r), row.EstimatedLTV)
	}

	lastRow := len(rows) + 1
	if len(rows) > 0 {
		f.SetCellStyle(sheetSubscriptions, "D2", fmt.Sprintf("D%d", lastRow), moneyStyle)
		f.SetCellStyle(sheetSubscriptions, "H2", fmt.Sprintf("H%d", lastRow), moneyStyle)
		f.SetCellStyle(sheetSubscriptions, "F2", fmt.Sprintf("G%d", lastRow), dateStyle)
	}

	f.SetColWidth(sheetSubscriptions, "A", "A", 38)
	f.SetColWidth(sheetSubscriptions, "B", "C", 28)
	f.SetColWidth(sheetSubscriptions, "D", "H", 16)

	if err := f.AutoFilter(sheetSubscriptions, fmt.Sprintf("A1:H%d", lastRow), nil); err != nil {
		return nil, err
	}
	if err := f.SetPanes(sheetSubscriptions, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, summary, moneyStyle, headerStyle); err != nil {
		return nil, err
	}
	return f, nil
}

func writeSummarySheet(f *excelize.File, s Summary, moneyStyle, headerStyle int) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}

	f.SetCellValue(sheetSummary, "A1", "Indicator")
	f.SetCellValue(sheetSummary, "B1", "Value")
	f.SetRowStyle(sheetSummary, 1, 1, headerStyle)

	lines := []struct {
		label string
		value interface{}
		money bool
	}{
		{"Total Subscriptions", s.TotalSubscriptions, false},
		{"Active Subscriptions", s.ActiveCount, false},
		{"Canceled Subscriptions", s.CanceledCount, false},
		{"MRR", s.MRR, true},
		{"Average Ticket", s.AvgTicket, true},
		{"Churn Rate (%)", s.ChurnPct, false},
		{"Generated At", s.GeneratedAt.Format("2006-01-02 15:04"), false},
	}
	for i, line := range lines {
		r := i + 2
		f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", r), line.label)
		f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", r), line.value)
		if line.money {
			f.SetCellStyle(sheetSummary, fmt.Sprintf("B%d", r), fmt.Sprintf("B%d", r), moneyStyle)
		}
	}
	f.SetColWidth(sheetSummary, "A", "A", 26)
	f.SetColWidth(sheetSummary, "B", "B", 20)
	return nil
}

// WriteExcelBuffer renders the workbook in memory for HTTP downloads.
func WriteExcelBuffer(rows []SubscriptionRow, summary Summary) (*bytes.Buffer, error) {
	f, err := BuildWorkbook(rows, summary)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.WriteToBuffer()
}

// WriteExcelFile renders the workbook to disk, used by the batch ETL.
func WriteExcelFile(path string, rows []SubscriptionRow, summary Summary) error {
	f, err := BuildWorkbook(rows, summary)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func strPtr(s string) *string {
	return &s
}
