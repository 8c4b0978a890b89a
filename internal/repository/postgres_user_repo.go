package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/outsourcebot/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用した利用者リポジトリ。
type PostgresUserRepo struct {
	pool *Pool
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(pool *Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

// Upsert は利用者を登録する。既存の場合は名前・ハンドル・最終利用日時を更新する。
// 登録日時は初回登録時の値が維持される。
func (r *PostgresUserRepo) Upsert(ctx context.Context, sender model.Sender) error {
	var username sql.NullString
	if sender.Username != "" {
		username = sql.NullString{String: sender.Username, Valid: true}
	}

	err := r.pool.withConn(ctx, func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx,
			`INSERT INTO users (user_id, username, full_name)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (user_id)
			 DO UPDATE SET last_activity = NOW(), username = EXCLUDED.username, full_name = EXCLUDED.full_name`,
			sender.ID, username, sender.FullName,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// FindByID は指定IDの利用者を取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	err := r.pool.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx,
			`SELECT user_id, COALESCE(username, ''), full_name, registration_date, last_activity
			 FROM users WHERE user_id = $1`,
			id,
		).Scan(&user.ID, &user.Username, &user.FullName, &user.RegistrationDate, &user.LastActivity)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// List は全利用者を登録日時の新しい順で返す。
func (r *PostgresUserRepo) List(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := r.pool.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			`SELECT user_id, COALESCE(username, ''), full_name, registration_date, last_activity
			 FROM users ORDER BY registration_date DESC, user_id DESC`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			u := &model.User{}
			if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.RegistrationDate, &u.LastActivity); err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// DeleteByID は指定IDの利用者を削除し、削除件数を返す。
// 利用者のrequestsはCASCADE削除される。
func (r *PostgresUserRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	n, err := r.pool.execAffected(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}
	return n, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
