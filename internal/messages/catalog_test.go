package messages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/garyjia/voucher-bot/internal/domain/conversation"
)

func TestNew_LocaleMatching(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"", language.Indonesian},
		{"id", language.Indonesian},
		{"id-ID", language.Indonesian},
		{"en", language.English},
		{"en-US", language.English},
		{"not a locale!", language.Indonesian},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.locale).Locale())
		})
	}
}

func TestCatalog_Saved(t *testing.T) {
	record := &conversation.VoucherRecord{
		Timestamp:   time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local),
		Name:        "Alice",
		VoucherType: "Netflix",
		Amount:      25.5,
	}

	for _, locale := range []string{"id", "en"} {
		t.Run(locale, func(t *testing.T) {
			text := New(locale).Saved(record)
			assert.Contains(t, text, "2024-05-06 07:08:09")
			assert.Contains(t, text, "Alice")
			assert.Contains(t, text, "Netflix")
			assert.Contains(t, text, "$25.5")
		})
	}
}

func TestCatalog_AskVoucherTypeIncludesName(t *testing.T) {
	assert.Contains(t, New("en").AskVoucherType("Bob"), "Thank you, Bob!")
	assert.Contains(t, New("id").AskVoucherType("Bob"), "Terima kasih, Bob!")
}

func TestCatalogs_Complete(t *testing.T) {
	for tag, texts := range catalogs {
		t.Run(tag.String(), func(t *testing.T) {
			assert.NotEmpty(t, texts.Welcome)
			assert.NotEmpty(t, texts.AskVoucherType)
			assert.NotEmpty(t, texts.AskAmount)
			assert.NotEmpty(t, texts.InvalidAmount)
			assert.NotEmpty(t, texts.Saved)
			assert.NotEmpty(t, texts.SaveFailed)
			assert.NotEmpty(t, texts.NotConfigured)
			assert.NotEmpty(t, texts.Cancelled)
			assert.Contains(t, texts.Help, "/start")
			assert.Contains(t, texts.Help, "/cancel")
			assert.Contains(t, texts.Help, "/help")
		})
	}
}
