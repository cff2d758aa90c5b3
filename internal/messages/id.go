package messages

var indonesian = Texts{
	Welcome: "Selamat datang di Bot Farm House! 🏡\n\n" +
		"Saya akan membantu Anda mencatat data voucher.\n\n" +
		"Silakan masukkan nama Anda:",
	AskVoucherType: "Terima kasih, %s!\n\n" +
		"Pilih atau ketik jenis voucher:",
	AskAmount: "Berapa jumlah voucher dalam dollar? (contoh: 50)\n" +
		"Masukkan hanya angka:",
	InvalidAmount: "❌ Input tidak valid. Mohon masukkan angka saja.\n" +
		"Contoh: 50 atau 25.5",
	Saved: "✅ Data berhasil disimpan!\n\n" +
		"📅 Tanggal: %s\n" +
		"👤 Nama: %s\n" +
		"🎫 Jenis Voucher: %s\n" +
		"💵 Jumlah: $%s\n\n" +
		"Ketik /start untuk menambah data baru atau /cancel untuk berhenti.",
	SaveFailed: "❌ Maaf, terjadi kesalahan saat menyimpan ke spreadsheet.\n" +
		"Silakan coba lagi atau hubungi admin.",
	NotConfigured: "❌ Koneksi ke spreadsheet belum tersedia.\n" +
		"Silakan periksa konfigurasi.",
	Cancelled: "Operasi dibatalkan. Ketik /start untuk memulai lagi.",
	Help: "📖 Bantuan Bot Farm House\n\n" +
		"Perintah yang tersedia:\n" +
		"/start - Mulai menambahkan data voucher\n" +
		"/cancel - Batalkan operasi saat ini\n" +
		"/help - Tampilkan pesan bantuan ini\n\n" +
		"Bot ini akan mencatat:\n" +
		"• Tanggal (otomatis)\n" +
		"• Nama\n" +
		"• Jenis Voucher\n" +
		"• Jumlah dalam Dollar",
}
