package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/impostor/pkg/game"
	"github.com/smith3v/impostor/pkg/internal/testutil"
	"github.com/smith3v/impostor/pkg/logger"
	"github.com/smith3v/impostor/pkg/store"
)

type recordedRequest struct {
	path        string
	method      string
	contentType string
	body        []byte
}

type mockClient struct {
	requests []recordedRequest
	response string
}

func newMockClient() *mockClient {
	return &mockClient{
		response: `{"ok":true,"result":{}}`,
	}
}

func (m *mockClient) Do(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if err := req.Body.Close(); err != nil {
		return nil, fmt.Errorf("failed to close request body: %w", err)
	}
	m.requests = append(m.requests, recordedRequest{
		path:        req.URL.Path,
		method:      req.Method,
		contentType: req.Header.Get("Content-Type"),
		body:        body,
	})

	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(m.response)),
		Header:     make(http.Header),
	}
	return resp, nil
}

// lastField returns a form field of the most recent request to method, for
// example "sendMessage" or "answerCallbackQuery".
func (m *mockClient) lastField(t *testing.T, method, fieldName string) (string, string) {
	t.Helper()
	for i := len(m.requests) - 1; i >= 0; i-- {
		req := m.requests[i]
		if !strings.HasSuffix(req.path, "/"+method) {
			continue
		}
		value, filename, ok := multipartField(t, req, fieldName)
		if !ok {
			t.Fatalf("field %q not found in %s request", fieldName, method)
		}
		return value, filename
	}
	t.Fatalf("no %s request recorded", method)
	return "", ""
}

func (m *mockClient) lastMessageText(t *testing.T) string {
	t.Helper()
	text, _ := m.lastField(t, "sendMessage", "text")
	return text
}

func (m *mockClient) count(method string) int {
	n := 0
	for _, req := range m.requests {
		if strings.HasSuffix(req.path, "/"+method) {
			n++
		}
	}
	return n
}

func multipartField(t *testing.T, req recordedRequest, fieldName string) (string, string, bool) {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(req.contentType)
	if err != nil {
		t.Fatalf("failed to parse media type: %v", err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		t.Fatalf("unexpected media type: %s", mediaType)
	}

	reader := multipart.NewReader(bytes.NewReader(req.body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return "", "", false
		}
		if err != nil {
			t.Fatalf("failed to read multipart part: %v", err)
		}
		if part.FormName() == fieldName {
			data, err := io.ReadAll(part)
			if err != nil {
				t.Fatalf("failed to read multipart field: %v", err)
			}
			return string(data), part.FileName(), true
		}
	}
}

func newTestTelegramBot(t *testing.T, client *mockClient) *telegram.Bot {
	t.Helper()
	b, err := telegram.New("test-token",
		telegram.WithSkipGetMe(),
		telegram.WithHTTPClient(time.Second, client),
	)
	if err != nil {
		t.Fatalf("failed to create test bot: %v", err)
	}
	return b
}

func newTestUpdate(text string, userID int64) *models.Update {
	return &models.Update{
		Message: &models.Message{
			From: &models.User{
				ID: userID,
			},
			Chat: models.Chat{
				ID:   userID,
				Type: models.ChatTypePrivate,
			},
			Text: text,
		},
	}
}

func newTestDocumentUpdate(fileName, fileID string, userID int64) *models.Update {
	return &models.Update{
		Message: &models.Message{
			From: &models.User{
				ID: userID,
			},
			Chat: models.Chat{
				ID:   userID,
				Type: models.ChatTypePrivate,
			},
			Document: &models.Document{
				FileID:   fileID,
				FileName: fileName,
			},
		},
	}
}

func newTestCallbackUpdate(data string, userID, chatID int64, messageID int) *models.Update {
	return &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "callback-1",
			From: models.User{ID: userID},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Type: models.MaybeInaccessibleMessageTypeMessage,
				Message: &models.Message{
					ID: messageID,
					Chat: models.Chat{
						ID:   chatID,
						Type: models.ChatTypePrivate,
					},
				},
			},
		},
	}
}

type fixedRand struct{}

func (fixedRand) Intn(int) int { return 0 }

// newTestHandlers wires handlers to a fresh in-memory store. The fixed rand
// deals the first word and puts the impostors in the first seats.
func newTestHandlers(t *testing.T) (*Handlers, *store.Store) {
	t.Helper()
	logger.SetLogLevel(logger.ERROR)
	s := store.New(testutil.SetupTestDB(t))
	clock := func() time.Time { return time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC) }
	return New(s, game.NewManager(s, fixedRand{}, clock)), s
}
