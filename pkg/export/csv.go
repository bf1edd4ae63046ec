// FILE: pkg/export/csv.go
package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// utf8BOM makes Excel open the file with the right encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the detailed subscription report as UTF-8 CSV with a BOM.
func WriteCSV(w io.Writer, rows []SubscriptionRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		nextBilling := ""
		if row.NextBillingDate != nil {
			nextBilling = row.NextBillingDate.Format("2006-01-02")
		}
		record := []string{
			row.SubscriptionId.String(),
			row.Company,
			row.Plan,
			fmt.Sprintf("%.2f", row.MonthlyPrice),
			row.Status,
			row.StartDate.Format("2006-01-02"),
			nextBilling,
			fmt.Sprintf("%.2f", row.EstimatedLTV),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
