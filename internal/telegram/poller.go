package telegram

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// UpdatesFetcher はアップデート取得のインターフェース。Client がこれを満たす。
type UpdatesFetcher interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)
}

// defaultErrorPause はgetUpdates失敗後に次のポーリングまで待つ時間。
const defaultErrorPause = 3 * time.Second

// Poller はgetUpdatesのロングポーリングでアップデートを受信し、
// 1件ずつ順番にUpdateHandlerへ渡す。
// 各アップデートはハンドラーの処理完了後にオフセットを進めるため、同時に処理されることはない。
type Poller struct {
	fetcher    UpdatesFetcher
	handler    UpdateHandler
	logger     *slog.Logger
	timeout    time.Duration
	errorPause time.Duration
	offset     int64
}

// NewPoller はPollerの新しいインスタンスを生成する。
// timeoutはロングポーリングの待機秒数としてBot APIに渡される。
func NewPoller(fetcher UpdatesFetcher, handler UpdateHandler, logger *slog.Logger, timeout time.Duration) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		fetcher:    fetcher,
		handler:    handler,
		logger:     logger,
		timeout:    timeout,
		errorPause: defaultErrorPause,
	}
}

// Run はコンテキストがキャンセルされるまでポーリングを継続する。
// getUpdatesの失敗はログに出力して一定時間後に再開する。個々のメッセージの再処理は行わない。
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("ロングポーリングを開始しました",
		slog.Duration("timeout", p.timeout),
	)

	for {
		if ctx.Err() != nil {
			p.logger.Info("ロングポーリングを停止しました")
			return
		}

		if err := p.PollOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				p.logger.Info("ロングポーリングを停止しました")
				return
			}
			p.logger.Error("アップデートの取得に失敗しました",
				slog.String("error", err.Error()),
			)

			select {
			case <-ctx.Done():
				p.logger.Info("ロングポーリングを停止しました")
				return
			case <-time.After(p.errorPause):
			}
		}
	}
}

// PollOnce はgetUpdatesを1回呼び出し、取得したアップデートを順番に処理する。
// 処理中のアップデートはctxがキャンセルされても最後まで実行する。
// キャンセル後は残りのアップデートを処理せず、オフセットも進めない。
func (p *Poller) PollOnce(ctx context.Context) error {
	updates, err := p.fetcher.GetUpdates(ctx, p.offset, p.timeout)
	if err != nil {
		return err
	}

	handleCtx := context.WithoutCancel(ctx)
	for _, u := range updates {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.handler.HandleUpdate(handleCtx, u)
		if u.UpdateID >= p.offset {
			p.offset = u.UpdateID + 1
		}
	}
	return nil
}

// Offset は次回のgetUpdatesで指定するオフセットを返す。
func (p *Poller) Offset() int64 {
	return p.offset
}
