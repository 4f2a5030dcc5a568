package telegram

import (
	"context"
	"errors"

	"github.com/j31732830-dot/Qr/internal/bot"
	"github.com/j31732830-dot/Qr/internal/i18n"
)

// Sender implements bot.Transport over the Bot API client.
type Sender struct {
	api *Client
}

// NewSender creates a Sender.
func NewSender(api *Client) *Sender {
	return &Sender{api: api}
}

// Deliver sends one reply to the chat identified by userID.
func (s *Sender) Deliver(ctx context.Context, userID int64, reply bot.Reply) error {
	kb := keyboardMarkup(reply.Keyboard)
	switch reply.Kind {
	case bot.ReplyMessage:
		return s.api.SendMessage(ctx, userID, reply.Text, kb)
	case bot.ReplyPhoto:
		return s.api.SendPhoto(ctx, userID, reply.Payload, reply.Filename, reply.Text, kb)
	case bot.ReplyDocument:
		return s.api.SendDocument(ctx, userID, reply.Payload, reply.Filename, reply.Text, kb)
	default:
		return errors.New("unknown reply kind")
	}
}

// keyboardMarkup translates the keyboard hint into Bot API markup.
func keyboardMarkup(k bot.Keyboard) *ReplyKeyboardMarkup {
	switch k {
	case bot.KeyboardMain:
		return &ReplyKeyboardMarkup{
			Keyboard: [][]KeyboardButton{
				{{Text: i18n.T("button.text_to_qr")}, {Text: i18n.T("button.qr_to_text")}},
				{{Text: i18n.T("button.info")}, {Text: i18n.T("button.stats")}},
			},
			ResizeKeyboard: true,
		}
	case bot.KeyboardCancel:
		return &ReplyKeyboardMarkup{
			Keyboard:       [][]KeyboardButton{{{Text: i18n.T("button.cancel")}}},
			ResizeKeyboard: true,
		}
	default:
		return nil
	}
}
