// Package app はアプリケーションの初期化と依存関係のワイヤリングを行う。
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/outsourcebot/internal/admin"
	"github.com/hitoshi/outsourcebot/internal/bot"
	"github.com/hitoshi/outsourcebot/internal/catalog"
	"github.com/hitoshi/outsourcebot/internal/config"
	"github.com/hitoshi/outsourcebot/internal/database"
	"github.com/hitoshi/outsourcebot/internal/handler"
	"github.com/hitoshi/outsourcebot/internal/logger"
	"github.com/hitoshi/outsourcebot/internal/metrics"
	"github.com/hitoshi/outsourcebot/internal/repository"
	"github.com/hitoshi/outsourcebot/internal/request"
	"github.com/hitoshi/outsourcebot/internal/security"
	"github.com/hitoshi/outsourcebot/internal/telegram"
	"github.com/hitoshi/outsourcebot/internal/worker/cleanup"
)

// shutdownTimeout はHTTPサーバーのグレースフルシャットダウンの待ち時間。
const shutdownTimeout = 30 * time.Second

// Init はアプリケーションの初期化を行う。
// カレントディレクトリに.envがあれば読み込み、JSON構造化ログをセットアップしてから
// 環境変数からConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. .envの読み込み（既に設定されている環境変数は上書きしない）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// 2. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 3. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("bot_mode", string(cfg.BotMode)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	case CommandSeed:
		return runSeed(cfg)
	default:
		return runBot(cfg)
	}
}

// runBot はボットを起動する。
// DB接続を開いてマイグレーションと初期データ投入を行い、全依存関係をワイヤリングした後、
// HTTPサーバーとアップデートの受信（ロングポーリングまたはWebhook）を開始する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runBot(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. DB接続・マイグレーション・初期データ投入
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if err := database.Seed(ctx, db); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	// 2. リポジトリの初期化
	pool := repository.NewPool(db, cfg.DBAcquireTimeout)
	userRepo := repository.NewPostgresUserRepo(pool)
	serviceRepo := repository.NewPostgresServiceRepo(pool)
	optionRepo := repository.NewPostgresServiceOptionRepo(pool)
	faqRepo := repository.NewPostgresFaqRepo(pool)
	requestRepo := repository.NewPostgresRequestRepo(pool)

	// 3. メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// 4. ドメインサービスの初期化
	catalogService := catalog.NewService(serviceRepo, optionRepo, faqRepo)
	requestService := request.NewService(requestRepo)
	adminHandler := admin.NewHandler(
		cfg, requestService, userRepo, serviceRepo, faqRepo,
		security.NewTextSanitizer(), collector,
	)

	// 5. ルーターとディスパッチャ
	router := bot.NewRouter(catalogService, requestService, userRepo, adminHandler, cfg.StartImageURL)
	client := telegram.NewClient(cfg.TelegramAPIURL, cfg.BotToken, cfg.SendRatePerSec)
	dispatcher := bot.NewDispatcher(router, client, slog.Default(), collector)

	// 6. HTTPサーバーの起動
	deps := &handler.RouterDeps{
		Logger:        slog.Default(),
		HealthChecker: pool,
		Gatherer:      registry,
	}
	if cfg.BotMode == config.BotModeWebhook {
		deps.Updates = dispatcher
		deps.WebhookSecret = cfg.WebhookSecret
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handler.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			stop()
		}
	}()

	// 7. クリーンアップジョブを日次でバックグラウンド実行
	cleanupJob := cleanup.NewCleanupJob(requestRepo, slog.Default(), cfg.RequestRetentionDays)
	go cleanupJob.Start(ctx, cleanup.DefaultInterval)

	// 8. アップデートの受信
	if err := receiveUpdates(ctx, cfg, client, dispatcher); err != nil {
		slog.Error("failed to start receiving updates", slog.String("error", err.Error()))
		stop()
	}

	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	select {
	case err := <-serverErr:
		return fmt.Errorf("server listen error: %w", err)
	default:
	}

	slog.Info("bot stopped gracefully")
	return nil
}

// receiveUpdates は設定されたモードでアップデートの受信を行い、ctxがキャンセルされるまでブロックする。
// ロングポーリングの場合は登録済みのWebhookを解除してから開始する。
func receiveUpdates(ctx context.Context, cfg *config.Config, client *telegram.Client, dispatcher *bot.Dispatcher) error {
	switch cfg.BotMode {
	case config.BotModeWebhook:
		if err := client.SetWebhook(ctx, cfg.WebhookURL, cfg.WebhookSecret); err != nil {
			return fmt.Errorf("failed to set webhook: %w", err)
		}
		slog.Info("webhook registered", slog.String("path", handler.WebhookPath))
		<-ctx.Done()
		return nil

	default:
		if err := client.DeleteWebhook(ctx); err != nil {
			return fmt.Errorf("failed to delete webhook: %w", err)
		}
		telegram.NewPoller(client, dispatcher, slog.Default(), cfg.PollTimeout).Run(ctx)
		return nil
	}
}

// openDatabase はコネクションプールを構成してDBへの疎通を確認する。
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := database.Open(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		MaxIdleTime:  cfg.DBMaxIdleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DBAcquireTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
		slog.Int("max_open_conns", cfg.DBMaxOpenConns),
	)
	return db, nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runSeed はマイグレーションを適用した後、空のテーブルに初期データを投入する。
func runSeed(cfg *config.Config) error {
	if err := runMigrate(cfg); err != nil {
		return err
	}

	ctx := context.Background()
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Seed(ctx, db); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	endpoint := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(endpoint)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}
