// Package telegram はTelegram Bot APIとのやり取りを提供する。
// Bot APIクライアント、ロングポーリングのPoller、アップデートのハンドラーインターフェースを含む。
package telegram

import (
	"context"
	"fmt"
	"strings"
)

// ParseModeHTML はHTMLパースモード。
const ParseModeHTML = "HTML"

// Update はBot APIから受け取る1件のアップデート。
// テキストメッセージ以外の種類は扱わないため、messageのみをデコードする。
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message は受信メッセージ。
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text,omitempty"`
}

// User はメッセージの送信者。
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// FullName は姓名をスペースで連結した表示名を返す。
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Chat はメッセージが属するチャット。
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// KeyboardButton はリプライキーボードの1ボタン。
type KeyboardButton struct {
	Text string `json:"text"`
}

// ReplyKeyboardMarkup はリプライキーボード。
type ReplyKeyboardMarkup struct {
	Keyboard       [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard bool               `json:"resize_keyboard"`
}

// OutgoingMessage はsendMessageのリクエストボディ。
type OutgoingMessage struct {
	ChatID      int64                `json:"chat_id"`
	Text        string               `json:"text"`
	ParseMode   string               `json:"parse_mode,omitempty"`
	ReplyMarkup *ReplyKeyboardMarkup `json:"reply_markup,omitempty"`
}

// OutgoingPhoto はsendPhotoのリクエストボディ。PhotoにはURLを指定する。
type OutgoingPhoto struct {
	ChatID      int64                `json:"chat_id"`
	Photo       string               `json:"photo"`
	Caption     string               `json:"caption,omitempty"`
	ParseMode   string               `json:"parse_mode,omitempty"`
	ReplyMarkup *ReplyKeyboardMarkup `json:"reply_markup,omitempty"`
}

// APIError はBot APIが ok=false を返した場合のエラー。
type APIError struct {
	Method      string
	Code        int
	Description string
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s failed (%d): %s", e.Method, e.Code, e.Description)
}

// UpdateHandler は受信したアップデートを処理するインターフェース。
// Poller とWebhookハンドラーから1件ずつ呼び出される。
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update Update)
}

// UpdateHandlerFunc は関数をUpdateHandlerとして扱うアダプター。
type UpdateHandlerFunc func(ctx context.Context, update Update)

// HandleUpdate はf(ctx, update)を呼び出す。
func (f UpdateHandlerFunc) HandleUpdate(ctx context.Context, update Update) {
	f(ctx, update)
}
