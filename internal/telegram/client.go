package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// DefaultBaseURL is the production Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// maxDownloadBytes caps uploaded file downloads. The Bot API itself refuses
// files over 20 MB.
const maxDownloadBytes = 20 * 1024 * 1024

// Client is a minimal Telegram Bot API client covering the methods the bot
// needs: identity, long polling, message/photo/document delivery and file
// downloads.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a Client. A nil httpClient gets a 60s-timeout default.
func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: baseURL, token: token}
}

// User is the Bot API user object (the fields the bot reads).
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// Chat is the Bot API chat object.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// PhotoSize is one resolution of an uploaded photo.
type PhotoSize struct {
	FileID   string `json:"file_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileSize int64  `json:"file_size"`
}

// Document is a generic file upload.
type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

// Message is the Bot API message object (the fields the bot reads).
type Message struct {
	MessageID int64       `json:"message_id"`
	From      *User       `json:"from"`
	Chat      *Chat       `json:"chat"`
	Text      string      `json:"text"`
	Caption   string      `json:"caption"`
	Photo     []PhotoSize `json:"photo"`
	Document  *Document   `json:"document"`
}

// Update is one long-poll update.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// File is the Bot API file descriptor used for downloads.
type File struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path"`
	FileSize int64  `json:"file_size"`
}

// KeyboardButton is one reply-keyboard button.
type KeyboardButton struct {
	Text string `json:"text"`
}

// ReplyKeyboardMarkup is a reply keyboard layout.
type ReplyKeyboardMarkup struct {
	Keyboard              [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard        bool               `json:"resize_keyboard"`
	InputFieldPlaceholder string             `json:"input_field_placeholder,omitempty"`
}

// apiResponse is the Bot API envelope.
type apiResponse struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

// call POSTs a JSON payload to method and decodes result into out (may be nil).
func (c *Client) call(ctx context.Context, method string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding %s payload: %w", method, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), body)
	if err != nil {
		return fmt.Errorf("building %s request: %w", method, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}
	defer resp.Body.Close()

	return decodeAPIResponse(resp.Body, method, out)
}

func decodeAPIResponse(r io.Reader, method string, out any) error {
	var env apiResponse
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}
	if !env.Ok {
		return fmt.Errorf("%s: api error %d: %s", method, env.ErrorCode, env.Description)
	}
	if out != nil {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return fmt.Errorf("decoding %s result: %w", method, err)
		}
	}
	return nil
}

// GetMe returns the bot's own identity.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var me User
	if err := c.call(ctx, "getMe", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// GetUpdates long-polls for updates after offset and returns them together
// with the next offset to use.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, int64, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         int(timeout.Seconds()),
		"allowed_updates": []string{"message"},
	}

	// The request must outlive the server-side long poll.
	ctx, cancel := context.WithTimeout(ctx, timeout+10*time.Second)
	defer cancel()

	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, offset, err
	}
	next := offset
	for _, u := range updates {
		if u.UpdateID >= next {
			next = u.UpdateID + 1
		}
	}
	return updates, next, nil
}

// SendMessage sends a plain text message, optionally with a reply keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *ReplyKeyboardMarkup) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

// SendPhoto uploads photo bytes with a caption.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photo []byte, filename, caption string, keyboard *ReplyKeyboardMarkup) error {
	return c.upload(ctx, "sendPhoto", "photo", chatID, photo, filename, caption, keyboard)
}

// SendDocument uploads document bytes with a caption.
func (c *Client) SendDocument(ctx context.Context, chatID int64, doc []byte, filename, caption string, keyboard *ReplyKeyboardMarkup) error {
	return c.upload(ctx, "sendDocument", "document", chatID, doc, filename, caption, keyboard)
}

// upload POSTs a multipart form with one file field plus metadata.
func (c *Client) upload(ctx context.Context, method, field string, chatID int64, data []byte, filename, caption string, keyboard *ReplyKeyboardMarkup) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("building %s form: %w", method, err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return fmt.Errorf("building %s form: %w", method, err)
		}
	}
	if keyboard != nil {
		markup, err := json.Marshal(keyboard)
		if err != nil {
			return fmt.Errorf("encoding %s keyboard: %w", method, err)
		}
		if err := w.WriteField("reply_markup", string(markup)); err != nil {
			return fmt.Errorf("building %s form: %w", method, err)
		}
	}
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("building %s form: %w", method, err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("building %s form: %w", method, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("building %s form: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), &buf)
	if err != nil {
		return fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}
	defer resp.Body.Close()

	return decodeAPIResponse(resp.Body, method, nil)
}

// GetFile resolves a file ID to a download path.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	var f File
	payload := map[string]any{"file_id": fileID}
	if err := c.call(ctx, "getFile", payload, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// DownloadFile fetches the file contents for a path returned by GetFile.
func (c *Client) DownloadFile(ctx context.Context, filePath string) ([]byte, error) {
	u := fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.token, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading file body: %w", err)
	}
	if len(data) > maxDownloadBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", maxDownloadBytes)
	}
	return data, nil
}
