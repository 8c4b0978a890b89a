// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ディスパッチャや管理コマンドハンドラから利用する。
type MetricsCollector interface {
	RecordMessage(route string)
	RecordRequestCreated()
	RecordAdminCommand(command, outcome string)
	RecordSendFailure(method string)
	RecordHandleLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	messages        *prometheus.CounterVec
	requestsCreated prometheus.Counter
	adminCommands   *prometheus.CounterVec
	sendFailures    *prometheus.CounterVec
	handleLatency   prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outsourcebot_messages_total",
			Help: "分類結果別の受信メッセージ数",
		}, []string{"route"}),
		requestsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "outsourcebot_requests_created_total",
			Help: "作成された案件リクエストの合計数",
		}),
		adminCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outsourcebot_admin_commands_total",
			Help: "コマンドと結果別の管理コマンド実行数",
		}, []string{"command", "outcome"}),
		sendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outsourcebot_send_failures_total",
			Help: "Bot APIへの送信失敗数",
		}, []string{"method"}),
		handleLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "outsourcebot_handle_latency_seconds",
			Help:    "1メッセージの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.messages,
		c.requestsCreated,
		c.adminCommands,
		c.sendFailures,
		c.handleLatency,
	)

	return c
}

// RecordMessage は分類結果ごとの受信メッセージを記録する。
func (c *Collector) RecordMessage(route string) {
	c.messages.WithLabelValues(route).Inc()
}

// RecordRequestCreated は案件リクエストの作成を記録する。
func (c *Collector) RecordRequestCreated() {
	c.requestsCreated.Inc()
}

// RecordAdminCommand は管理コマンドの実行結果を記録する。
func (c *Collector) RecordAdminCommand(command, outcome string) {
	c.adminCommands.WithLabelValues(command, outcome).Inc()
}

// RecordSendFailure はBot APIへの送信失敗を記録する。
func (c *Collector) RecordSendFailure(method string) {
	c.sendFailures.WithLabelValues(method).Inc()
}

// RecordHandleLatency は1メッセージの処理時間を記録する。
func (c *Collector) RecordHandleLatency(duration time.Duration) {
	c.handleLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NopCollector は何も記録しないMetricsCollector。テストやメトリクス無効時に使用する。
type NopCollector struct{}

func (NopCollector) RecordMessage(string) {}
func (NopCollector) RecordRequestCreated() {}
func (NopCollector) RecordAdminCommand(string, string) {}
func (NopCollector) RecordSendFailure(string) {}
func (NopCollector) RecordHandleLatency(time.Duration) {}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = NopCollector{}
)
