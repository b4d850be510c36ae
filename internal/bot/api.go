package bot

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

const (
	defaultAPIBase = "https://api.telegram.org"

	// Long poll wait for getUpdates; the HTTP timeout leaves headroom
	// over it so the server can answer an empty poll.
	pollTimeoutSec = 30
)

// API is a minimal Telegram Bot API client covering the calls the bot
// needs: getUpdates long-polling, sendMessage with inline keyboards,
// answerCallbackQuery, and sendDocument for the log export.
type API struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewAPI creates a Telegram API client.
// botToken: Bot API token from @BotFather
func NewAPI(botToken string) *API {
	return &API{
		token:   botToken,
		baseURL: defaultAPIBase,
		client: &http.Client{
			Timeout: (pollTimeoutSec + 5) * time.Second,
		},
	}
}

// Update is one item from getUpdates.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

// Message is an inbound or referenced chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

// CallbackQuery is a button press on an inline keyboard.
type CallbackQuery struct {
	ID      string   `json:"id"`
	Message *Message `json:"message"`
	Data    string   `json:"data"`
}

// InlineKeyboardMarkup mirrors the Bot API reply_markup object.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// apiResponse is the Bot API envelope around every result.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (a *API) url(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", a.baseURL, a.token, method)
}

func (a *API) call(ctx context.Context, method string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal %s: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url(method), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp.Body, method, out)
}

func decodeResponse(r io.Reader, method string, out interface{}) error {
	var envelope apiResponse
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return fmt.Errorf("telegram: decode %s: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram: %s failed: %s", method, envelope.Description)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("telegram: decode %s result: %w", method, err)
		}
	}
	return nil
}

// GetUpdates long-polls for updates past offset.
func (a *API) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	var updates []Update
	err := a.call(ctx, "getUpdates", map[string]interface{}{
		"offset":  offset,
		"timeout": pollTimeoutSec,
	}, &updates)
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends text to a chat, optionally with an inline keyboard.
func (a *API) SendMessage(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboardMarkup) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	return a.call(ctx, "sendMessage", payload, nil)
}

// AnswerCallback acknowledges a callback query so the client stops
// showing the progress spinner.
func (a *API) AnswerCallback(ctx context.Context, callbackID string) error {
	return a.call(ctx, "answerCallbackQuery", map[string]interface{}{
		"callback_query_id": callbackID,
	}, nil)
}

// SendDocument uploads a file to a chat as an attachment.
func (a *API) SendDocument(ctx context.Context, chatID int64, filename string, content io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("telegram: sendDocument: %w", err)
	}
	fw, err := mw.CreateFormFile("document", filename)
	if err != nil {
		return fmt.Errorf("telegram: sendDocument: %w", err)
	}
	if _, err := io.Copy(fw, content); err != nil {
		return fmt.Errorf("telegram: sendDocument: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("telegram: sendDocument: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url("sendDocument"), &buf)
	if err != nil {
		return fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: sendDocument: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp.Body, "sendDocument", nil)
}
