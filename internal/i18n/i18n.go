// Package i18n provides the user-facing message catalog for the bot.
//
// Messages are keyed strings grouped per language. English is the default
// and the fallback for missing keys; the Uzbek catalog carries the wording
// of the original deployment.
package i18n

import (
	"fmt"
	"os"
	"strings"
)

// Supported languages
const (
	LangEN = "en"
	LangUZ = "uz"
)

// currentLang holds the current language setting
var currentLang = LangEN

// messages stores all translations
var messages = make(map[string]map[string]string)

func init() {
	loadEnglishMessages()
	loadUzbekMessages()
}

// Init initializes the i18n system with the specified language.
func Init(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))

	switch lang {
	case "en", "en-us", "english":
		currentLang = LangEN
	case "uz", "uz-uz", "uzbek":
		currentLang = LangUZ
	default:
		// Check environment variable before falling back to English
		if envLang := os.Getenv("QR_LANG"); envLang != "" && !strings.EqualFold(envLang, lang) {
			Init(envLang)
			return
		}
		currentLang = LangEN
	}
}

// Language returns the current language code.
func Language() string {
	return currentLang
}

// T returns the translated message for the given key.
// Falls back to English, then to the key itself, if no translation exists.
func T(key string) string {
	if msg, ok := messages[currentLang][key]; ok {
		return msg
	}
	if msg, ok := messages[LangEN][key]; ok {
		return msg
	}
	return key
}

// Tf returns the translated message formatted with args.
func Tf(key string, args ...any) string {
	return fmt.Sprintf(T(key), args...)
}
