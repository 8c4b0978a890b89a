package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/outsourcebot/internal/model"
)

// PostgresServiceOptionRepo はPostgreSQLを使用したサービスバリエーションリポジトリ。
type PostgresServiceOptionRepo struct {
	pool *Pool
}

// NewPostgresServiceOptionRepo はPostgresServiceOptionRepoを生成する。
func NewPostgresServiceOptionRepo(pool *Pool) *PostgresServiceOptionRepo {
	return &PostgresServiceOptionRepo{pool: pool}
}

// ListByServiceID は指定サービスのバリエーションをID順で返す。
func (r *PostgresServiceOptionRepo) ListByServiceID(ctx context.Context, serviceID int64) ([]*model.ServiceOption, error) {
	var options []*model.ServiceOption
	err := r.pool.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			`SELECT option_id, service_id, name, COALESCE(description, ''), COALESCE(price, '')
			 FROM service_options WHERE service_id = $1 ORDER BY option_id`,
			serviceID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			o := &model.ServiceOption{}
			if err := rows.Scan(&o.ID, &o.ServiceID, &o.Name, &o.Description, &o.Price); err != nil {
				return err
			}
			options = append(options, o)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list service options: %w", err)
	}
	return options, nil
}

// FindByName は名前が完全一致するバリエーションを所属サービス名付きで返す。
// 見つからない場合はnilを返す。
func (r *PostgresServiceOptionRepo) FindByName(ctx context.Context, name string) (*model.ServiceOptionWithService, error) {
	o := &model.ServiceOptionWithService{}
	err := r.pool.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx,
			`SELECT so.option_id, so.service_id, so.name, COALESCE(so.description, ''), COALESCE(so.price, ''), s.name
			 FROM service_options so
			 JOIN services s ON so.service_id = s.service_id
			 WHERE so.name = $1
			 ORDER BY so.option_id LIMIT 1`,
			name,
		).Scan(&o.ID, &o.ServiceID, &o.Name, &o.Description, &o.Price, &o.ServiceName)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find service option by name: %w", err)
	}
	return o, nil
}

// compile-time interface check
var _ ServiceOptionRepository = (*PostgresServiceOptionRepo)(nil)
