// Package model はドメインモデルを定義する。
package model

import "time"

// User はボットと対話したメッセンジャーの利用者を表す。
// IDはプラットフォーム側で採番された値で、作成後は変更されない。
type User struct {
	ID               int64
	Username         string // @なしのハンドル。未設定の場合は空文字列
	FullName         string
	RegistrationDate time.Time
	LastActivity     time.Time
}

// Sender は受信メッセージの送信者情報を表す。
// Userの登録・更新に使用する。
type Sender struct {
	ID       int64
	Username string
	FullName string
}
