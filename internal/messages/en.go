package messages

var english = Texts{
	Welcome: "Welcome to the Farm House Bot! 🏡\n\n" +
		"I will help you record voucher data.\n\n" +
		"Please enter your name:",
	AskVoucherType: "Thank you, %s!\n\n" +
		"Choose or type the voucher type:",
	AskAmount: "What is the voucher amount in dollars? (example: 50)\n" +
		"Enter numbers only:",
	InvalidAmount: "❌ Invalid input. Please enter numbers only.\n" +
		"Example: 50 or 25.5",
	Saved: "✅ Data saved successfully!\n\n" +
		"📅 Date: %s\n" +
		"👤 Name: %s\n" +
		"🎫 Voucher Type: %s\n" +
		"💵 Amount: $%s\n\n" +
		"Type /start to add another entry or /cancel to stop.",
	SaveFailed: "❌ Sorry, something went wrong while saving to the spreadsheet.\n" +
		"Please try again or contact an admin.",
	NotConfigured: "❌ The spreadsheet connection is not available yet.\n" +
		"Please check the configuration.",
	Cancelled: "Operation cancelled. Type /start to begin again.",
	Help: "📖 Farm House Bot Help\n\n" +
		"Available commands:\n" +
		"/start - Start adding voucher data\n" +
		"/cancel - Cancel the current operation\n" +
		"/help - Show this help message\n\n" +
		"This bot records:\n" +
		"• Date (automatic)\n" +
		"• Name\n" +
		"• Voucher Type\n" +
		"• Amount in Dollars",
}
