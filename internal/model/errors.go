package model

import "fmt"

// BotError は利用者に表示できるエラーを表す。
// Messageはそのまま返信テキストとして使用される。
type BotError struct {
	Code    string // エラーコード
	Message string // 返信メッセージ
}

// Error はerrorインターフェースを実装する。
func (e *BotError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is はエラーコードが一致する場合にtrueを返す。
// errors.Is(err, model.ErrNotFound) のように判定できる。
func (e *BotError) Is(target error) bool {
	t, ok := target.(*BotError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// 定義済みエラーコード
const (
	ErrCodePermissionDenied  = "PERMISSION_DENIED"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeMalformedArgument = "MALFORMED_ARGUMENT"
)

// errors.Is 判定用のセンチネル。
var (
	ErrPermissionDenied  = &BotError{Code: ErrCodePermissionDenied}
	ErrNotFound          = &BotError{Code: ErrCodeNotFound}
	ErrMalformedArgument = &BotError{Code: ErrCodeMalformedArgument}
)

// NewPermissionDeniedError は管理者権限がない場合のエラーを生成する。
func NewPermissionDeniedError() *BotError {
	return &BotError{
		Code:    ErrCodePermissionDenied,
		Message: "⛔ У вас нет прав администратора",
	}
}

// NewNotFoundError は削除対象が存在しない場合のエラーを生成する。
// messageにはエンティティごとの文言を指定する（例: "❌ Заявка не найдена"）。
func NewNotFoundError(message string) *BotError {
	return &BotError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// NewMalformedArgumentError は管理コマンドの引数が不正な場合のエラーを生成する。
// commandはスラッシュなしのコマンド名。
func NewMalformedArgumentError(command string) *BotError {
	return &BotError{
		Code:    ErrCodeMalformedArgument,
		Message: fmt.Sprintf("❌ Использование: /%s [id]", command),
	}
}
