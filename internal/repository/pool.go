package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Pool は操作ごとに接続を1本取得して処理を実行するためのハンドル。
// 全リポジトリが同じPoolを共有し、起動時に生成して終了時にCloseする。
type Pool struct {
	db             *sql.DB
	acquireTimeout time.Duration
}

// NewPool はPoolを生成する。
// acquireTimeoutはプールが枯渇している場合に接続の空きを待つ上限時間で、0以下なら待ち時間を制限しない。
func NewPool(db *sql.DB, acquireTimeout time.Duration) *Pool {
	return &Pool{db: db, acquireTimeout: acquireTimeout}
}

// PingContext はデータベースへの疎通を確認する。
func (p *Pool) PingContext(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close はプールの全接続を閉じる。
func (p *Pool) Close() error {
	return p.db.Close()
}

// withConn は接続を1本取得してfnを実行する。
// 接続はfnの成否にかかわらずプールへ返却される。
func (p *Pool) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	acquireCtx := ctx
	if p.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, p.acquireTimeout)
		defer cancel()
	}

	conn, err := p.db.Conn(acquireCtx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

// execAffected はクエリを実行して影響を受けた行数を返す。
func (p *Pool) execAffected(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := p.withConn(ctx, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		return nil
	})
	return affected, err
}
