package conversation

// KeyboardKind is a presentational hint for the transport; it never affects validation
type KeyboardKind string

const (
	KeyboardNone    KeyboardKind = ""
	KeyboardSuggest KeyboardKind = "suggest"
	KeyboardRemove  KeyboardKind = "remove"
)

// Keyboard carries suggested replies or an instruction to remove them
type Keyboard struct {
	Kind KeyboardKind
	Rows [][]string
}

// Reply is one outbound message
type Reply struct {
	Text     string
	Keyboard Keyboard
}

// TextReply creates a reply without keyboard hints
func TextReply(text string) Reply {
	return Reply{Text: text}
}

// SuggestionReply creates a reply paired with a suggestion keyboard
func SuggestionReply(text string, rows [][]string) Reply {
	return Reply{Text: text, Keyboard: Keyboard{Kind: KeyboardSuggest, Rows: rows}}
}

// RemoveKeyboardReply creates a reply that clears any suggestion keyboard
func RemoveKeyboardReply(text string) Reply {
	return Reply{Text: text, Keyboard: Keyboard{Kind: KeyboardRemove}}
}

// voucherSuggestions groups merchants for display only; the grouping has no meaning
var voucherSuggestions = [][]string{
	{"Amazon", "eBay", "Target"},
	{"Walmart", "Best Buy"},
	{"Nike", "Adidas", "H&M"},
	{"Sephora", "Ulta Beauty"},
	{"Spotify", "Netflix", "Xbox"},
	{"PlayStation", "Steam"},
	{"Starbucks", "Domino's", "Uber Eats"},
	{"Other"},
}

// VoucherSuggestions returns a copy of the advisory voucher type list
func VoucherSuggestions() [][]string {
	rows := make([][]string, len(voucherSuggestions))
	for i, row := range voucherSuggestions {
		rows[i] = append([]string{}, row...)
	}
	return rows
}
