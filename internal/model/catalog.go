package model

// Service はサービスカテゴリ（例: Web開発）を表す。
// Nameは自由入力テキストとの完全一致検索キーになる。
type Service struct {
	ID          int64
	Name        string
	Description string
}

// ServiceOption はサービス内の価格付きバリエーションを表す。
// 所属するServiceが削除されると一緒に削除される。
type ServiceOption struct {
	ID          int64
	ServiceID   int64
	Name        string
	Description string
	Price       string // 表示用文字列（例: "от 30 000₽"）。数値としては扱わない
}

// ServiceOptionWithService は所属サービス名を付加したServiceOption。
type ServiceOptionWithService struct {
	ServiceOption
	ServiceName string
}

// FaqEntry はよくある質問とその回答を表す。
// Questionは自由入力テキストとの完全一致検索キーになる。
type FaqEntry struct {
	ID       int64
	Question string
	Answer   string
}
