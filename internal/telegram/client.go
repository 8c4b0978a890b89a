package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultAPIURL はBot APIのデフォルトのベースURL。
	DefaultAPIURL = "https://api.telegram.org"

	// sendTimeout は送信系メソッド1回あたりのタイムアウト。
	sendTimeout = 15 * time.Second

	// pollGrace はロングポーリングのタイムアウトに上乗せするHTTPタイムアウトの余裕。
	pollGrace = 10 * time.Second

	maxResponseSize = 1 << 20
)

// apiResponse はBot APIの共通レスポンス形式。
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Client はBot APIのHTTPクライアント。
// 送信系メソッドはトークンバケットで送信レートを制限する。失敗時のリトライは行わない。
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient は新しいClientを生成する。
// sendRatePerSecが0以下の場合は送信レートを制限しない。
func NewClient(baseURL, token string, sendRatePerSec float64) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	limit := rate.Inf
	if sendRatePerSec > 0 {
		limit = rate.Limit(sendRatePerSec)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// GetUpdates はoffset以降のアップデートをロングポーリングで取得する。
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout+pollGrace)
	defer cancel()

	payload := map[string]any{
		"offset":          offset,
		"timeout":         int(timeout.Seconds()),
		"allowed_updates": []string{"message"},
	}

	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage はテキストメッセージを送信する。
func (c *Client) SendMessage(ctx context.Context, msg OutgoingMessage) error {
	return c.send(ctx, "sendMessage", msg)
}

// SendPhoto はURL指定の画像をキャプション付きで送信する。
func (c *Client) SendPhoto(ctx context.Context, photo OutgoingPhoto) error {
	return c.send(ctx, "sendPhoto", photo)
}

// SetWebhook はWebhookのURLとシークレットトークンを登録する。
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	payload := map[string]any{
		"url":             webhookURL,
		"allowed_updates": []string{"message"},
	}
	if secret != "" {
		payload["secret_token"] = secret
	}
	return c.call(ctx, "setWebhook", payload, nil)
}

// DeleteWebhook は登録済みのWebhookを解除する。ロングポーリング開始前に呼び出す。
func (c *Client) DeleteWebhook(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	return c.call(ctx, "deleteWebhook", map[string]any{}, nil)
}

func (c *Client) send(ctx context.Context, method string, payload any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram %s: rate limiter: %w", method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	return c.call(ctx, method, payload, nil)
}

// call はBot APIメソッドをJSONで呼び出し、resultをoutにデコードする。
// outがnilの場合はresultを捨てる。
func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram %s: failed to encode request: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram %s: failed to create request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error はトークンを含むURLを出力するため、メソッド名のみで包み直す
		return fmt.Errorf("telegram %s: request failed: %w", method, unwrapURLError(err))
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&apiResp); err != nil {
		return fmt.Errorf("telegram %s: failed to decode response (status %d): %w", method, resp.StatusCode, err)
	}

	if !apiResp.OK {
		code := apiResp.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return &APIError{Method: method, Code: code, Description: apiResp.Description}
	}

	if out != nil && len(apiResp.Result) > 0 {
		if err := json.Unmarshal(apiResp.Result, out); err != nil {
			return fmt.Errorf("telegram %s: failed to decode result: %w", method, err)
		}
	}
	return nil
}

func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
