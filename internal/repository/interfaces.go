// Package repository はデータ永続化のインターフェースとPostgreSQL実装を提供する。
package repository

import (
	"context"

	"github.com/hitoshi/outsourcebot/internal/model"
)

// UserRepository は利用者データの永続化インターフェース。
type UserRepository interface {
	// Upsert は利用者を登録する。既に存在する場合は名前・ハンドル・最終利用日時を更新する。
	// 同じIDで2行目が作られることはない。
	Upsert(ctx context.Context, sender model.Sender) error

	// FindByID は指定IDの利用者を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// List は全利用者を登録日時の新しい順で返す。
	List(ctx context.Context) ([]*model.User, error)

	// DeleteByID は指定IDの利用者を削除し、削除件数を返す。
	// 利用者のrequestsはCASCADE削除される。
	DeleteByID(ctx context.Context, id int64) (int64, error)
}

// ServiceRepository はサービスデータの永続化インターフェース。
type ServiceRepository interface {
	// List は全サービスをID順で返す。
	List(ctx context.Context) ([]*model.Service, error)

	// FindByName は名前が完全一致するサービスを返す。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Service, error)

	// DeleteByID は指定IDのサービスを削除し、削除件数を返す。
	// service_optionsはCASCADE削除され、それを参照するrequestsの参照はNULLになる。
	DeleteByID(ctx context.Context, id int64) (int64, error)
}

// ServiceOptionRepository はサービスバリエーションの永続化インターフェース。
type ServiceOptionRepository interface {
	// ListByServiceID は指定サービスのバリエーションをID順で返す。
	ListByServiceID(ctx context.Context, serviceID int64) ([]*model.ServiceOption, error)

	// FindByName は名前が完全一致するバリエーションを所属サービス名付きで返す。
	// 見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.ServiceOptionWithService, error)
}

// FaqRepository はFAQデータの永続化インターフェース。
type FaqRepository interface {
	// List は全FAQをID順で返す。
	List(ctx context.Context) ([]*model.FaqEntry, error)

	// FindByQuestion は質問文が完全一致するFAQを返す。見つからない場合はnilを返す。
	FindByQuestion(ctx context.Context, question string) (*model.FaqEntry, error)

	// DeleteByID は指定IDのFAQを削除し、削除件数を返す。
	DeleteByID(ctx context.Context, id int64) (int64, error)
}

// RequestRepository は案件リクエストの永続化インターフェース。
type RequestRepository interface {
	// Create はstatus "new" でリクエストを作成し、採番されたIDを返す。
	// optionIDがnilの場合はバリエーション参照なしで作成する。
	Create(ctx context.Context, userID int64, text string, optionID *int64) (int64, error)

	// FindByID は指定IDのリクエストを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Request, error)

	// List は全リクエストを作成日時の新しい順で返す。
	List(ctx context.Context) ([]*model.Request, error)

	// DeleteByID は指定IDのリクエストを削除し、削除件数を返す。
	DeleteByID(ctx context.Context, id int64) (int64, error)

	// DeleteAll は全リクエストを無条件に削除し、削除件数を返す。
	DeleteAll(ctx context.Context) (int64, error)

	// DeleteOlderThan は作成からretentionDays日を超えたリクエストを削除し、削除件数を返す。
	DeleteOlderThan(ctx context.Context, retentionDays int) (int64, error)
}
