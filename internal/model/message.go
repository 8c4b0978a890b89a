package model

// IncomingMessage はトランスポートから受け取る1ターン分のテキストメッセージ。
type IncomingMessage struct {
	ChatID int64
	Sender Sender
	Text   string
}

// Keyboard はリプライキーボードのボタンラベルを行ごとに並べたもの。
type Keyboard [][]string

// Reply はトランスポートへ渡す返信の内容。
// PhotoURLが設定されている場合は画像付きで送信し、Textはキャプションになる。
// 画像送信に失敗した場合はFallbackが設定されていればそれを送信する。
type Reply struct {
	Text     string
	HTML     bool
	Keyboard Keyboard
	PhotoURL string
	Fallback *Reply
}
