package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/outsourcebot/internal/model"
)

// PostgresServiceRepo はPostgreSQLを使用したサービスリポジトリ。
type PostgresServiceRepo struct {
	pool *Pool
}

// NewPostgresServiceRepo はPostgresServiceRepoを生成する。
func NewPostgresServiceRepo(pool *Pool) *PostgresServiceRepo {
	return &PostgresServiceRepo{pool: pool}
}

// List は全サービスをID順で返す。
func (r *PostgresServiceRepo) List(ctx context.Context) ([]*model.Service, error) {
	var services []*model.Service
	err := r.pool.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			`SELECT service_id, name, COALESCE(description, '') FROM services ORDER BY service_id`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			s := &model.Service{}
			if err := rows.Scan(&s.ID, &s.Name, &s.Description); err != nil {
				return err
			}
			services = append(services, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

// FindByName は名前が完全一致するサービスを返す。見つからない場合はnilを返す。
// 同名のサービスが複数ある場合はIDが最小のものを返す。
func (r *PostgresServiceRepo) FindByName(ctx context.Context, name string) (*model.Service, error) {
	s := &model.Service{}
	err := r.pool.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx,
			`SELECT service_id, name, COALESCE(description, '')
			 FROM services WHERE name = $1 ORDER BY service_id LIMIT 1`,
			name,
		).Scan(&s.ID, &s.Name, &s.Description)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find service by name: %w", err)
	}
	return s, nil
}

// DeleteByID は指定IDのサービスを削除し、削除件数を返す。
// service_optionsはCASCADE削除され、それを参照するrequestsのservice_option_idはNULLになる。
func (r *PostgresServiceRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	n, err := r.pool.execAffected(ctx, `DELETE FROM services WHERE service_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete service: %w", err)
	}
	return n, nil
}

// compile-time interface check
var _ ServiceRepository = (*PostgresServiceRepo)(nil)
