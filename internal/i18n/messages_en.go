package i18n

// loadEnglishMessages loads all English translations.
func loadEnglishMessages() {
	messages[LangEN] = map[string]string{
		// Main menu
		"welcome": "🤖 Welcome to QR Code Bot!\n\n" +
			"I can do the following:\n" +
			"📝 Create a QR code from text\n" +
			"📷 Read the text inside a QR code\n\n" +
			"Pick a function below 👇",
		"help": "📖 Help\n\n" +
			"Commands:\n" +
			"/start — main menu\n" +
			"/help — this message\n\n" +
			"📝 Text → QR: turns any text into a QR code\n" +
			"📷 QR → Text: reads the text from a QR code image\n\n" +
			"Supported content: plain text, URLs, phone numbers,\n" +
			"Wi-Fi credentials, email addresses and more.\n\n" +
			"Maximum length: %d characters",
		"info": "ℹ️ About QR Code Bot\n\n" +
			"⚡️ Functions:\n" +
			"• Create QR codes from text\n" +
			"• Read text from QR codes\n" +
			"• Automatic file cleanup\n\n" +
			"🔒 Privacy:\n" +
			"every file is deleted automatically within %s",
		"stats": "📊 Statistics\n\n" +
			"👤 Your ID: %d\n" +
			"📁 Live artifacts: %d\n\n" +
			"All files are deleted automatically within %s",

		// Buttons
		"button.text_to_qr": "📝 Text → QR code",
		"button.qr_to_text": "📷 QR code → Text",
		"button.info":       "ℹ️ Info",
		"button.stats":      "📊 Statistics",
		"button.cancel":     "❌ Cancel",

		// Prompts
		"prompt.text": "📝 Send the text you want to turn into a QR code.\n\n" +
			"For example:\n" +
			"• URL: https://example.com\n" +
			"• Text: Hello world!\n" +
			"• Wi-Fi: WIFI:T:WPA;S:MyNetwork;P:password;;\n\n" +
			"Maximum length: %d characters",
		"prompt.image": "📷 Send the QR code image.\n\n" +
			"• Send the photo directly, or as a file\n" +
			"• The QR code must be clearly visible\n\n" +
			"Supported formats: JPG, PNG",

		// Encode pipeline
		"encode.caption": "✅ QR code ready!\n\n📊 Characters: %d",
		"encode.failed":  "❌ Could not create the QR code.\nPlease try again.",
		"error.too_long": "❌ Text is too long! Maximum %d characters.\nPlease send a shorter text.",

		// Decode pipeline
		"decode.success":          "✅ QR code read successfully!\n\n📝 Text:\n%s\n\n📊 Characters: %d",
		"decode.truncated_note":   "\n\n… (total %d characters)",
		"decode.document_caption": "📄 Full text as a file",
		"decode.not_found": "❌ No QR code found!\n\n" +
			"Please:\n" +
			"• Send a sharp image\n" +
			"• Make sure the whole QR code is visible\n" +
			"• Take the photo in good light",
		"decode.failed":   "❌ Could not read the QR code.\nPlease send another image.",
		"error.not_image": "❌ Please send image files only!",

		// Session flow
		"cancel.ack": "❌ Operation cancelled",
		"unexpected": "❓ Unknown command.\nSend /start or pick one of the buttons below.",
		"unexpected.awaiting_text":  "✍️ I am waiting for text. Send the text, or press ❌ Cancel.",
		"unexpected.awaiting_image": "🖼 I am waiting for an image. Send a photo, or press ❌ Cancel.",
		"rate_limited":              "⏳ Too many requests. Please slow down.",
	}
}
