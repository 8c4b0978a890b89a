package model

import "time"

// RequestStatus はリクエスト（案件問い合わせ）の状態を表す。
type RequestStatus string

// StatusNew は作成直後のリクエストの状態。
const StatusNew RequestStatus = "new"

// Request は利用者が送信した自由記述の案件問い合わせを表す。
// 参照先のServiceOptionが削除された場合、ServiceOptionIDはnilになりRequest自体は残る。
type Request struct {
	ID              int64
	UserID          int64
	Text            string
	CreatedAt       time.Time
	Status          RequestStatus
	ServiceOptionID *int64
}
