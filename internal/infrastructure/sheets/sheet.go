// Package sheets holds the adapters that append voucher rows to a spreadsheet.
package sheets

import (
	"fmt"

	"github.com/garyjia/voucher-bot/internal/domain/conversation"
)

const (
	// headerRange covers the four columns of the first row
	headerRange = "A1:D1"
	// dataColumns is the append target; the store picks the first empty row
	dataColumns = "A:D"
)

// headerValues returns the header as generic cell values
func headerValues() []interface{} {
	header := conversation.HeaderRow()
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	return row
}

// isBlankRow reports whether every cell is nil or an empty string
func isBlankRow(rows [][]interface{}) bool {
	for _, row := range rows {
		for _, cell := range row {
			switch v := cell.(type) {
			case nil:
			case string:
				if v != "" {
					return false
				}
			default:
				return false
			}
		}
	}
	return true
}

func qualify(sheetID, rng string) string {
	if sheetID == "" {
		return rng
	}
	return fmt.Sprintf("%s!%s", sheetID, rng)
}
