package i18n

// loadUzbekMessages loads all Uzbek translations.
// The wording follows the original deployment of the bot.
func loadUzbekMessages() {
	messages[LangUZ] = map[string]string{
		// Main menu
		"welcome": "🤖 QR Code Bot'ga xush kelibsiz!\n\n" +
			"Men quyidagi funksiyalarni bajaraman:\n" +
			"📝 Matndan QR kod yaratish\n" +
			"📷 QR koddan matnni o'qish\n\n" +
			"Kerakli funksiyani tanlang 👇",
		"help": "📖 Yordam\n\n" +
			"Buyruqlar:\n" +
			"/start — asosiy menyu\n" +
			"/help — yordam\n\n" +
			"📝 Matn → QR kod: istalgan matnni QR kodga aylantirish\n" +
			"📷 QR kod → Matn: QR kod rasmidan matnni o'qish\n\n" +
			"Maksimal uzunlik: %d belgi",
		"info": "ℹ️ QR Code Bot haqida\n\n" +
			"⚡️ Funksiyalar:\n" +
			"• Matndan QR kod yaratish\n" +
			"• QR koddan matnni o'qish\n" +
			"• Avtomatik fayl tozalash\n\n" +
			"🔒 Maxfiylik:\n" +
			"barcha fayllar %s ichida avtomatik o'chiriladi",
		"stats": "📊 Statistika\n\n" +
			"👤 Foydalanuvchi ID: %d\n" +
			"📁 Temp fayllar: %d ta\n\n" +
			"Barcha fayllar %s ichida avtomatik o'chiriladi",

		// Buttons
		"button.text_to_qr": "📝 Matn → QR kod",
		"button.qr_to_text": "📷 QR kod → Matn",
		"button.info":       "ℹ️ Ma'lumot",
		"button.stats":      "📊 Statistika",
		"button.cancel":     "❌ Bekor qilish",

		// Prompts
		"prompt.text": "📝 QR kodga aylantirmoqchi bo'lgan matningizni yuboring.\n\n" +
			"Masalan:\n" +
			"• URL: https://example.com\n" +
			"• Matn: Salom dunyo!\n" +
			"• Wi-Fi: WIFI:T:WPA;S:MyNetwork;P:password;;\n\n" +
			"Maksimal uzunlik: %d belgi",
		"prompt.image": "📷 QR kod rasmini yuboring.\n\n" +
			"• Rasmni to'g'ridan-to'g'ri yoki fayl sifatida yuboring\n" +
			"• QR kod aniq ko'rinishi kerak\n\n" +
			"Qo'llab-quvvatlanadigan formatlar: JPG, PNG",

		// Encode pipeline
		"encode.caption": "✅ QR kod tayyor!\n\n📊 Belgilar soni: %d",
		"encode.failed":  "❌ QR kod yaratishda xatolik yuz berdi.\nIltimos, qayta urinib ko'ring.",
		"error.too_long": "❌ Matn juda uzun! Maksimal %d belgi.\nIltimos, qisqaroq matn yuboring.",

		// Decode pipeline
		"decode.success":          "✅ QR kod muvaffaqiyatli o'qildi!\n\n📝 Matn:\n%s\n\n📊 Belgilar soni: %d",
		"decode.truncated_note":   "\n\n… (jami %d belgi)",
		"decode.document_caption": "📄 To'liq matn fayl ko'rinishida",
		"decode.not_found": "❌ QR kod topilmadi!\n\n" +
			"Iltimos:\n" +
			"• Aniq rasm yuboring\n" +
			"• QR kod to'liq ko'rinishini tekshiring\n" +
			"• Yaxshi yorug'likda suratga oling",
		"decode.failed":   "❌ QR kodni o'qishda xatolik yuz berdi.\nIltimos, boshqa rasm yuboring.",
		"error.not_image": "❌ Faqat rasm fayllarini yuboring!",

		// Session flow
		"cancel.ack": "❌ Operatsiya bekor qilindi",
		"unexpected": "❓ Noma'lum buyruq.\n/start buyrug'ini yuboring yoki quyidagi tugmalardan birini bosing.",
		"unexpected.awaiting_text":  "✍️ Matn kutilmoqda. Matn yuboring yoki ❌ Bekor qilish tugmasini bosing.",
		"unexpected.awaiting_image": "🖼 Rasm kutilmoqda. Rasm yuboring yoki ❌ Bekor qilish tugmasini bosing.",
		"rate_limited":              "⏳ So'rovlar juda ko'p. Iltimos, biroz kuting.",
	}
}
