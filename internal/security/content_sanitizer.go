// Package security は返信テキストに埋め込む文字列の無害化を提供する。
//
// 返信はTelegramのHTMLパースモードで送信されるため、利用者が入力したテキストや
// DBに保存された文字列をそのまま埋め込むとタグとして解釈されてしまう。
// TextSanitizer はbluemondayのStrictPolicyで全てのタグを除去し、
// 残ったテキストをHTMLエスケープした状態で返す。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はHTML返信に埋め込むテキストを無害化するインターフェース。
type TextSanitizer interface {
	// Sanitize は全てのタグを除去し、HTMLエスケープ済みのテキストを返す。
	// 空文字列の入力には空文字列を返す。
	Sanitize(text string) string
}

// textSanitizer はTextSanitizerの実装。
// bluemondayのポリシーはスレッドセーフなので、1つのインスタンスを共有できる。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
func NewTextSanitizer() TextSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は全てのタグを除去し、HTMLエスケープ済みのテキストを返す。
func (s *textSanitizer) Sanitize(text string) string {
	if text == "" {
		return ""
	}
	return s.policy.Sanitize(text)
}
