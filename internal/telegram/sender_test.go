package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j31732830-dot/Qr/internal/bot"
	"github.com/j31732830-dot/Qr/internal/i18n"
)

func TestSender_DeliverMessageWithMainKeyboard(t *testing.T) {
	t.Parallel()
	i18nOnce.Do(func() { i18n.Init(i18n.LangEN) })

	api := newAPIServer(t)
	api.on("sendMessage", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Text        string               `json:"text"`
			ReplyMarkup *ReplyKeyboardMarkup `json:"reply_markup"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "hi", payload.Text)
		require.NotNil(t, payload.ReplyMarkup)
		require.Len(t, payload.ReplyMarkup.Keyboard, 2)
		assert.Equal(t, i18n.T("button.text_to_qr"), payload.ReplyMarkup.Keyboard[0][0].Text)
		assert.Equal(t, i18n.T("button.stats"), payload.ReplyMarkup.Keyboard[1][1].Text)
		ok(w, Message{MessageID: 1})
	})

	s := NewSender(api.client())
	err := s.Deliver(context.Background(), 100, bot.Reply{
		Kind:     bot.ReplyMessage,
		Text:     "hi",
		Keyboard: bot.KeyboardMain,
	})
	require.NoError(t, err)
}

func TestSender_DeliverPhoto(t *testing.T) {
	t.Parallel()
	api := newAPIServer(t)
	api.on("sendPhoto", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("photo")
		require.NoError(t, err)
		assert.Equal(t, "qr_code.png", header.Filename)
		ok(w, Message{MessageID: 2})
	})

	s := NewSender(api.client())
	err := s.Deliver(context.Background(), 100, bot.Reply{
		Kind:     bot.ReplyPhoto,
		Payload:  []byte("png"),
		Filename: "qr_code.png",
		Text:     "caption",
	})
	require.NoError(t, err)
}

func TestSender_DeliverDocument(t *testing.T) {
	t.Parallel()
	api := newAPIServer(t)
	api.on("sendDocument", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("document")
		require.NoError(t, err)
		assert.Equal(t, "qr_text.txt", header.Filename)
		ok(w, Message{MessageID: 3})
	})

	s := NewSender(api.client())
	err := s.Deliver(context.Background(), 100, bot.Reply{
		Kind:     bot.ReplyDocument,
		Payload:  []byte("full text"),
		Filename: "qr_text.txt",
	})
	require.NoError(t, err)
}

func TestKeyboardMarkup_NoneIsNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, keyboardMarkup(bot.KeyboardNone))
	assert.NotNil(t, keyboardMarkup(bot.KeyboardCancel))
}
