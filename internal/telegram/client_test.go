package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123456:TEST"

// apiServer fakes the Bot API: one handler per method name.
type apiServer struct {
	t        *testing.T
	handlers map[string]http.HandlerFunc
	srv      *httptest.Server
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()
	a := &apiServer{t: t, handlers: make(map[string]http.HandlerFunc)}
	a.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := "/bot" + testToken + "/"
		if len(r.URL.Path) > len(prefix) && r.URL.Path[:len(prefix)] == prefix {
			method := r.URL.Path[len(prefix):]
			if h, ok := a.handlers[method]; ok {
				h(w, r)
				return
			}
		}
		if h, ok := a.handlers[r.URL.Path]; ok {
			h(w, r)
			return
		}
		t.Errorf("unexpected request: %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(a.srv.Close)
	return a
}

func (a *apiServer) on(method string, h http.HandlerFunc) { a.handlers[method] = h }

func (a *apiServer) client() *Client {
	return NewClient(a.srv.Client(), a.srv.URL, testToken)
}

func ok(w http.ResponseWriter, result any) {
	data, _ := json.Marshal(result)
	fmt.Fprintf(w, `{"ok":true,"result":%s}`, data)
}

func TestClient_GetMe(t *testing.T) {
	t.Parallel()
	api := newAPIServer(t)
	api.on("getMe", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		ok(w, User{ID: 42, IsBot: true, Username: "qr_test_bot"})
	})

	me, err := api.client().GetMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), me.ID)
	assert.Equal(t, "qr_test_bot", me.Username)
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()
	api := newAPIServer(t)
	api.on("getMe", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	})

	_, err := api.client().GetMe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestClient_GetUpdatesOffset(t *testing.T) {
	t.Parallel()
	api := newAPIServer(t)
	api.on("getUpdates", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Offset         int64    `json:"offset"`
			Timeout        int      `json:"timeout"`
			AllowedUpdates []string `json:"allowed_updates"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, int64(5), payload.Offset)
		assert.Equal(t, 30, payload.Timeout)
		assert.Equal(t, []string{"message"}, payload.AllowedUpdates)

		ok(w, []Update{
			{UpdateID: 5, Message: &Message{Text: "a"}},
			{UpdateID: 7, Message: &Message{Text: "b"}},
		})
	})

	updates, next, err := api.client().GetUpdates(context.Background(), 5, 30*time.Second)
	require.NoError(t, err)
	assert.Len(t, updates, 2)
	assert.Equal(t, int64(8), next, "next offset is max update ID + 1")
}

func TestClient_GetUpdatesKeepsOffsetOnError(t *testing.T) {
	t.Parallel()
	api := newAPIServer(t)
	api.on("getUpdates", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error_code":502,"description":"bad gateway"}`)
	})

	_, next, err := api.client().GetUpdates(context.Background(), 9, time.Second)
	require.Error(t, err)
	assert.Equal(t, int64(9), next)
}

func TestClient_SendMessage(t *testing.T) {
	t.Parallel()
	api := newAPIServer(t)
	api.on("sendMessage", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			ChatID      int64                `json:"chat_id"`
			Text        string               `json:"text"`
			ReplyMarkup *ReplyKeyboardMarkup `json:"reply_markup"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, int64(100), payload.ChatID)
		assert.Equal(t, "hello", payload.Text)
		require.NotNil(t, payload.ReplyMarkup)
		assert.True(t, payload.ReplyMarkup.ResizeKeyboard)

		ok(w, Message{MessageID: 1})
	})

	kb := &ReplyKeyboardMarkup{
		Keyboard:       [][]KeyboardButton{{{Text: "x"}}},
		ResizeKeyboard: true,
	}
	err := api.client().SendMessage(context.Background(), 100, "hello", kb)
	require.NoError(t, err)
}

func TestClient_SendPhotoMultipart(t *testing.T) {
	t.Parallel()
	api := newAPIServer(t)
	api.on("sendPhoto", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "100", r.FormValue("chat_id"))
		assert.Equal(t, "here you go", r.FormValue("caption"))

		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "qr_code.png", header.Filename)

		var buf bytes.Buffer
		_, err = buf.ReadFrom(file)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", buf.String())

		ok(w, Message{MessageID: 2})
	})

	err := api.client().SendPhoto(context.Background(), 100, []byte("png-bytes"), "qr_code.png", "here you go", nil)
	require.NoError(t, err)
}

func TestClient_SendDocumentMultipart(t *testing.T) {
	t.Parallel()
	api := newAPIServer(t)
	api.on("sendDocument", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("document")
		require.NoError(t, err)
		assert.Equal(t, "qr_text.txt", header.Filename)
		ok(w, Message{MessageID: 3})
	})

	err := api.client().SendDocument(context.Background(), 100, []byte("text"), "qr_text.txt", "", nil)
	require.NoError(t, err)
}

func TestClient_GetFileAndDownload(t *testing.T) {
	t.Parallel()
	api := newAPIServer(t)
	api.on("getFile", func(w http.ResponseWriter, r *http.Request) {
		ok(w, File{FileID: "abc", FilePath: "photos/file_1.jpg", FileSize: 3})
	})
	api.on("/file/bot"+testToken+"/photos/file_1.jpg", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpg"))
	})

	c := api.client()
	f, err := c.GetFile(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "photos/file_1.jpg", f.FilePath)

	data, err := c.DownloadFile(context.Background(), f.FilePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpg"), data)
}

func TestClient_DownloadStatusError(t *testing.T) {
	t.Parallel()
	api := newAPIServer(t)
	api.on("/file/bot"+testToken+"/missing.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := api.client().DownloadFile(context.Background(), "missing.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
