package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/outsourcebot/internal/model"
)

// PostgresFaqRepo はPostgreSQLを使用したFAQリポジトリ。
type PostgresFaqRepo struct {
	pool *Pool
}

// NewPostgresFaqRepo はPostgresFaqRepoを生成する。
func NewPostgresFaqRepo(pool *Pool) *PostgresFaqRepo {
	return &PostgresFaqRepo{pool: pool}
}

// List は全FAQをID順で返す。
func (r *PostgresFaqRepo) List(ctx context.Context) ([]*model.FaqEntry, error) {
	var entries []*model.FaqEntry
	err := r.pool.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			`SELECT faq_id, question, answer FROM faq ORDER BY faq_id`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			f := &model.FaqEntry{}
			if err := rows.Scan(&f.ID, &f.Question, &f.Answer); err != nil {
				return err
			}
			entries = append(entries, f)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list faq: %w", err)
	}
	return entries, nil
}

// FindByQuestion は質問文が完全一致するFAQを返す。見つからない場合はnilを返す。
func (r *PostgresFaqRepo) FindByQuestion(ctx context.Context, question string) (*model.FaqEntry, error) {
	f := &model.FaqEntry{}
	err := r.pool.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx,
			`SELECT faq_id, question, answer FROM faq WHERE question = $1 ORDER BY faq_id LIMIT 1`,
			question,
		).Scan(&f.ID, &f.Question, &f.Answer)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find faq by question: %w", err)
	}
	return f, nil
}

// DeleteByID は指定IDのFAQを削除し、削除件数を返す。
func (r *PostgresFaqRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	n, err := r.pool.execAffected(ctx, `DELETE FROM faq WHERE faq_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete faq: %w", err)
	}
	return n, nil
}

// compile-time interface check
var _ FaqRepository = (*PostgresFaqRepo)(nil)
