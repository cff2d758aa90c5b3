package conversation

import "time"

// TimestampLayout is the fixed format of the Date column (server-local time)
const TimestampLayout = "2006-01-02 15:04:05"

// VoucherRecord is one completed conversation, appended as a spreadsheet row
type VoucherRecord struct {
	Timestamp   time.Time
	Name        string
	VoucherType string
	Amount      float64
}

// HeaderRow returns the fixed 4-column header of the voucher sheet
func HeaderRow() []string {
	return []string{"Date", "Name", "Voucher Type", "Amount"}
}

// FormattedTimestamp returns the Date column value
func (r *VoucherRecord) FormattedTimestamp() string {
	return r.Timestamp.Format(TimestampLayout)
}

// Row returns the cell values in header order. Amount stays numeric.
func (r *VoucherRecord) Row() []interface{} {
	return []interface{}{r.FormattedTimestamp(), r.Name, r.VoucherType, r.Amount}
}
