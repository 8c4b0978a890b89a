package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/outsourcebot/internal/metrics"
	"github.com/hitoshi/outsourcebot/internal/middleware"
	"github.com/hitoshi/outsourcebot/internal/telegram"
)

// WebhookPath はTelegramのWebhookを受信するパス。
const WebhookPath = "/telegram/webhook"

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger        *slog.Logger
	HealthChecker HealthChecker
	Gatherer      prometheus.Gatherer

	// Updates がnilの場合（ロングポーリングモード）はWebhookルートを登録しない。
	Updates       telegram.UpdateHandler
	WebhookSecret string
}

// NewRouter はHTTPエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Logging → Recovery
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger, "/health", "/metrics"))
	r.Use(middleware.NewRecoveryMiddleware(logger))

	r.Method(http.MethodGet, "/health", NewHealthHandler(deps.HealthChecker))

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	if deps.Updates != nil {
		r.Method(http.MethodPost, WebhookPath, NewWebhookHandler(deps.Updates, deps.WebhookSecret))
	}

	return r
}
