// Package messages holds the user-facing text of the bot, per locale.
// Nothing here may contain internal error detail.
package messages

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/garyjia/voucher-bot/internal/domain/conversation"
)

// Texts is one locale's set of messages. Format verbs are documented per field.
type Texts struct {
	Welcome string
	// AskVoucherType takes the user's name
	AskVoucherType string
	AskAmount      string
	InvalidAmount  string
	// Saved takes date, name, voucher type and amount
	Saved         string
	SaveFailed    string
	NotConfigured string
	Cancelled     string
	Help          string
}

var supported = []language.Tag{
	language.Indonesian,
	language.English,
}

var catalogs = map[language.Tag]Texts{
	language.Indonesian: indonesian,
	language.English:    english,
}

var matcher = language.NewMatcher(supported)

// Catalog renders messages for one locale, chosen once at startup
type Catalog struct {
	tag   language.Tag
	texts Texts
}

// New returns the catalog best matching the locale (BCP 47, e.g. "id", "en-US").
// Unknown or empty locales fall back to Indonesian.
func New(locale string) *Catalog {
	tag := supported[0]
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			_, index, confidence := matcher.Match(parsed)
			if confidence != language.No {
				tag = supported[index]
			}
		}
	}
	return &Catalog{tag: tag, texts: catalogs[tag]}
}

// Locale returns the selected language tag
func (c *Catalog) Locale() language.Tag {
	return c.tag
}

func (c *Catalog) Welcome() string {
	return c.texts.Welcome
}

func (c *Catalog) AskVoucherType(name string) string {
	return fmt.Sprintf(c.texts.AskVoucherType, name)
}

func (c *Catalog) AskAmount() string {
	return c.texts.AskAmount
}

func (c *Catalog) InvalidAmount() string {
	return c.texts.InvalidAmount
}

// Saved echoes all four recorded fields back to the user
func (c *Catalog) Saved(record *conversation.VoucherRecord) string {
	return fmt.Sprintf(c.texts.Saved,
		record.FormattedTimestamp(),
		record.Name,
		record.VoucherType,
		conversation.FormatAmount(record.Amount))
}

func (c *Catalog) SaveFailed() string {
	return c.texts.SaveFailed
}

func (c *Catalog) NotConfigured() string {
	return c.texts.NotConfigured
}

func (c *Catalog) Cancelled() string {
	return c.texts.Cancelled
}

func (c *Catalog) Help() string {
	return c.texts.Help
}
