package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// SeedOption は初期データとして投入するサービスバリエーション。
type SeedOption struct {
	Name        string
	Description string
	Price       string
}

// SeedService は初期データとして投入するサービスとそのバリエーション。
type SeedService struct {
	Name        string
	Description string
	Options     []SeedOption
}

// SeedFAQ は初期データとして投入するFAQ。
type SeedFAQ struct {
	Question string
	Answer   string
}

// DefaultServices はservicesテーブルが空の場合に投入するサービス一覧を返す。
func DefaultServices() []SeedService {
	return []SeedService{
		{
			Name:        "🌐 Веб-разработка",
			Description: "Полный цикл разработки веб-приложений и сайтов",
			Options: []SeedOption{
				{
					Name:        "Лендинг",
					Description: "• Адаптивный дизайн\n• Интеграция с CRM\n• SEO-оптимизация\n• Срок: 5-10 дней",
					Price:       "от 30 000₽",
				},
				{
					Name:        "Корпоративный сайт",
					Description: "• Современный дизайн\n• Админ-панель\n• Мультиязычность\n• Срок: 2-3 недели",
					Price:       "от 80 000₽",
				},
				{
					Name:        "Интернет-магазин",
					Description: "• Каталог товаров\n• Корзина и оплата\n• Интеграция с 1С\n• Срок: 3-4 недели",
					Price:       "от 150 000₽",
				},
			},
		},
		{
			Name:        "📱 Мобильные приложения",
			Description: "Разработка мобильных приложений для iOS и Android",
			Options: []SeedOption{
				{
					Name:        "Простое приложение",
					Description: "• Кроссплатформенное\n• Базовый функционал\n• Срок: 3-4 недели",
					Price:       "от 120 000₽",
				},
				{
					Name:        "Приложение средней сложности",
					Description: "• Нативный дизайн\n• API интеграции\n• Push-уведомления\n• Срок: 6-8 недели",
					Price:       "от 250 000₽",
				},
				{
					Name:        "Комплексное решение",
					Description: "• Собственный бэкенд\n• Сложная логика\n• Высокая нагрузка\n• Срок: 3-6 месяцев",
					Price:       "от 500 000₽",
				},
			},
		},
	}
}

// DefaultFAQ はfaqテーブルが空の場合に投入するFAQ一覧を返す。
func DefaultFAQ() []SeedFAQ {
	return []SeedFAQ{
		{
			Question: "Что такое IT-аутсорсинг?",
			Answer: "IT-аутсорсинг — это передача задач по разработке и поддержке IT-решений внешней команде специалистов. " +
				"Вы получаете качественный результат без необходимости содержать собственный IT-отдел.",
		},
		{
			Question: "Преимущества аутсорсинга",
			Answer: "• Экономия на зарплатах и оборудовании\n" +
				"• Доступ к экспертам с разными навыками\n" +
				"• Быстрый старт проектов\n" +
				"• Гибкость в масштабировании\n" +
				"• Предсказуемые расходы",
		},
		{
			Question: "Как оформить заказ?",
			Answer: "1. Опишите ваш проект через кнопку 'Оставить заявку'\n" +
				"2. Мы оценим задачу и предложим решение\n" +
				"3. Заключим договор и приступим к работе\n" +
				"4. Вы получите готовый продукт в согласованные сроки",
		},
	}
}

// Seed はservicesとfaqテーブルが空の場合に初期データを投入する。
// テーブルごとに1トランザクションで件数確認と投入を行うため、途中まで投入された状態は見えない。
// 件数確認は排他ロックを取らないので、複数プロセスが同時に初回起動すると重複投入が起こりうる。
// 単一プロセス運用を前提としてこの制約を許容している。
func Seed(ctx context.Context, db *sql.DB) error {
	seeded, err := seedServices(ctx, db, DefaultServices())
	if err != nil {
		return err
	}
	if seeded {
		slog.Info("seeded default services")
	}

	seeded, err = seedFAQ(ctx, db, DefaultFAQ())
	if err != nil {
		return err
	}
	if seeded {
		slog.Info("seeded default faq")
	}

	return nil
}

// seedServices はservicesテーブルが空の場合のみサービスとバリエーションを投入する。
// 投入した場合はtrueを返す。
func seedServices(ctx context.Context, db *sql.DB, services []SeedService) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM services`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count services: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	for _, s := range services {
		var serviceID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO services (name, description) VALUES ($1, $2) RETURNING service_id`,
			s.Name, s.Description,
		).Scan(&serviceID)
		if err != nil {
			return false, fmt.Errorf("failed to insert service %q: %w", s.Name, err)
		}

		for _, o := range s.Options {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO service_options (service_id, name, description, price)
				 VALUES ($1, $2, $3, $4)`,
				serviceID, o.Name, o.Description, o.Price,
			)
			if err != nil {
				return false, fmt.Errorf("failed to insert service option %q: %w", o.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

// seedFAQ はfaqテーブルが空の場合のみFAQを投入する。
// 投入した場合はtrueを返す。
func seedFAQ(ctx context.Context, db *sql.DB, entries []SeedFAQ) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM faq`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count faq: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	for _, f := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO faq (question, answer) VALUES ($1, $2)`,
			f.Question, f.Answer,
		)
		if err != nil {
			return false, fmt.Errorf("failed to insert faq %q: %w", f.Question, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}
