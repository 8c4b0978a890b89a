// Package cleanup は保持期間を超過した案件リクエストの自動削除ジョブを提供する。
// 保持日数が0の場合は起動しない。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultInterval はジョブの実行間隔。
const DefaultInterval = 24 * time.Hour

// RequestPurger は古いリクエストを削除するインターフェース。
// repository.RequestRepository がこれを満たす。
type RequestPurger interface {
	DeleteOlderThan(ctx context.Context, retentionDays int) (int64, error)
}

// CleanupJob は保持期間を超過したリクエストの自動削除ジョブ。
// 冪等な削除処理のため、同じ期間で何度実行しても結果は変わらない。
type CleanupJob struct {
	purger        RequestPurger
	logger        *slog.Logger
	RetentionDays int
}

// NewCleanupJob は新しいCleanupJobを生成する。
func NewCleanupJob(purger RequestPurger, logger *slog.Logger, retentionDays int) *CleanupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanupJob{
		purger:        purger,
		logger:        logger,
		RetentionDays: retentionDays,
	}
}

// Run は作成からRetentionDays日を超えたリクエストを削除する。
// 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	if j.RetentionDays <= 0 {
		return nil
	}

	start := time.Now()

	deletedCount, err := j.purger.DeleteOlderThan(ctx, j.RetentionDays)
	if err != nil {
		j.logger.Error("リクエストクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
			slog.Int("retention_days", j.RetentionDays),
		)
		return fmt.Errorf("リクエストクリーンアップの実行に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("リクエストクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Int("retention_days", j.RetentionDays),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// Start は起動直後に1回、その後interval間隔でRunを実行する。
// コンテキストがキャンセルされるまで実行を継続する。失敗は次回の実行に持ち越さない。
func (j *CleanupJob) Start(ctx context.Context, interval time.Duration) {
	if j.RetentionDays <= 0 {
		j.logger.Info("リクエストクリーンアップジョブは無効です")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	_ = j.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = j.Run(ctx)
		}
	}
}
