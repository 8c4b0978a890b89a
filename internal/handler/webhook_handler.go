package handler

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/hitoshi/outsourcebot/internal/middleware"
	"github.com/hitoshi/outsourcebot/internal/telegram"
)

// SecretTokenHeader はsetWebhookで登録したシークレットをTelegramが付与するヘッダー名。
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// maxUpdateSize はWebhookで受け付けるアップデートの最大サイズ。
const maxUpdateSize = 1 << 20

// WebhookHandler はTelegramからのWebhookを受信し、アップデートを同期的に処理する。
type WebhookHandler struct {
	updates telegram.UpdateHandler
	secret  string
}

// NewWebhookHandler は新しいWebhookHandlerを生成する。
// secretが空の場合はシークレットトークンを検証しない。
func NewWebhookHandler(updates telegram.UpdateHandler, secret string) *WebhookHandler {
	return &WebhookHandler{updates: updates, secret: secret}
}

// ServeHTTP はアップデート1件をデコードして処理し、200を返す。
// 処理中のエラーはディスパッチャ側でログに出力されるため、Telegramへは常に成功を返す。
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" {
		got := r.Header.Get(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			slog.Warn("webhook rejected: invalid secret token",
				slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
			)
			middleware.WriteErrorResponse(w, http.StatusUnauthorized, "INVALID_SECRET", "invalid secret token")
			return
		}
	}

	var update telegram.Update
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUpdateSize)).Decode(&update); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, "INVALID_UPDATE", "request body is not a valid update")
		return
	}

	h.updates.HandleUpdate(r.Context(), update)
	w.WriteHeader(http.StatusOK)
}
