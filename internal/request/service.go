// Package request は案件リクエストの作成・一覧・削除を提供する。
package request

import (
	"context"
	"log/slog"

	"github.com/hitoshi/outsourcebot/internal/model"
	"github.com/hitoshi/outsourcebot/internal/repository"
)

// Service は案件リクエストのライフサイクルを管理するサービス。
type Service struct {
	repo repository.RequestRepository
}

// NewService は新しいリクエストServiceを生成する。
func NewService(repo repository.RequestRepository) *Service {
	return &Service{repo: repo}
}

// Create はstatus "new" のリクエストを作成し、採番されたIDを返す。
// DBエラーはリトライせずにそのまま返す。
func (s *Service) Create(ctx context.Context, userID int64, text string, optionID *int64) (int64, error) {
	id, err := s.repo.Create(ctx, userID, text, optionID)
	if err != nil {
		return 0, err
	}

	slog.Info("request created",
		slog.Int64("request_id", id),
		slog.Int64("user_id", userID),
	)
	return id, nil
}

// List は全リクエストを作成日時の新しい順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Request, error) {
	return s.repo.List(ctx)
}

// Delete は指定IDのリクエストを削除する。削除した場合はtrueを返す。
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear は全リクエストを削除する。確認なしで実行され、元に戻せない。
func (s *Service) Clear(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	slog.Info("all requests deleted", slog.Int64("deleted_count", n))
	return n, nil
}
