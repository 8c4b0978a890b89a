package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/outsourcebot/internal/model"
)

// PostgresRequestRepo はPostgreSQLを使用した案件リクエストリポジトリ。
type PostgresRequestRepo struct {
	pool *Pool
}

// NewPostgresRequestRepo はPostgresRequestRepoを生成する。
func NewPostgresRequestRepo(pool *Pool) *PostgresRequestRepo {
	return &PostgresRequestRepo{pool: pool}
}

const requestColumns = `request_id, user_id, request_text, request_date, COALESCE(status, ''), service_option_id`

// Create はstatus "new" でリクエストを作成し、採番されたIDを返す。
func (r *PostgresRequestRepo) Create(ctx context.Context, userID int64, text string, optionID *int64) (int64, error) {
	var option sql.NullInt64
	if optionID != nil {
		option = sql.NullInt64{Int64: *optionID, Valid: true}
	}

	var id int64
	err := r.pool.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx,
			`INSERT INTO requests (user_id, request_text, status, service_option_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING request_id`,
			userID, text, string(model.StatusNew), option,
		).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	return id, nil
}

// FindByID は指定IDのリクエストを取得する。見つからない場合はnilを返す。
func (r *PostgresRequestRepo) FindByID(ctx context.Context, id int64) (*model.Request, error) {
	var req *model.Request
	err := r.pool.withConn(ctx, func(conn *sql.Conn) error {
		var err error
		req, err = scanRequest(conn.QueryRowContext(ctx,
			`SELECT `+requestColumns+` FROM requests WHERE request_id = $1`,
			id,
		))
		return err
	})

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find request by ID: %w", err)
	}
	return req, nil
}

// List は全リクエストを作成日時の新しい順で返す。
// 同時刻のリクエストはIDの大きい順に並ぶ。
func (r *PostgresRequestRepo) List(ctx context.Context) ([]*model.Request, error) {
	var requests []*model.Request
	err := r.pool.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			`SELECT `+requestColumns+` FROM requests ORDER BY request_date DESC, request_id DESC`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			req, err := scanRequest(rows)
			if err != nil {
				return err
			}
			requests = append(requests, req)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// DeleteByID は指定IDのリクエストを削除し、削除件数を返す。
func (r *PostgresRequestRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	n, err := r.pool.execAffected(ctx, `DELETE FROM requests WHERE request_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete request: %w", err)
	}
	return n, nil
}

// DeleteAll は全リクエストを無条件に削除し、削除件数を返す。
func (r *PostgresRequestRepo) DeleteAll(ctx context.Context) (int64, error) {
	n, err := r.pool.execAffected(ctx, `DELETE FROM requests`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete all requests: %w", err)
	}
	return n, nil
}

// DeleteOlderThan は作成からretentionDays日を超えたリクエストを削除し、削除件数を返す。
// request_dateはタイムゾーンなしのため、比較はDB側のNOW()基準で行う。
func (r *PostgresRequestRepo) DeleteOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	interval := fmt.Sprintf("%d days", retentionDays)
	n, err := r.pool.execAffected(ctx, `DELETE FROM requests WHERE request_date < NOW() - $1::interval`, interval)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old requests: %w", err)
	}
	return n, nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*model.Request, error) {
	req := &model.Request{}
	var status string
	var userID, option sql.NullInt64
	if err := row.Scan(&req.ID, &userID, &req.Text, &req.CreatedAt, &status, &option); err != nil {
		return nil, err
	}
	req.UserID = userID.Int64
	req.Status = model.RequestStatus(status)
	if option.Valid {
		id := option.Int64
		req.ServiceOptionID = &id
	}
	return req, nil
}

// compile-time interface check
var _ RequestRepository = (*PostgresRequestRepo)(nil)
