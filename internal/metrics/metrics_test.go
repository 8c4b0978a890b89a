package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// findMetricFamily は収集結果から指定名のメトリクスファミリーを返す。
func findMetricFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("%s metric not found", name)
	return nil
}

// labelValue は指定ラベルの値を返す。
func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	if c := NewCollector(reg); c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordMessage_CountsPerRoute は分類結果ごとにカウンタが分かれることを検証する。
func TestRecordMessage_CountsPerRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordMessage("fallback")
	c.RecordMessage("fallback")
	c.RecordMessage("menu")

	mf := findMetricFamily(t, reg, "outsourcebot_messages_total")
	got := map[string]float64{}
	for _, m := range mf.GetMetric() {
		got[labelValue(m, "route")] = m.GetCounter().GetValue()
	}
	if got["fallback"] != 2 {
		t.Errorf("fallback = %v, want 2", got["fallback"])
	}
	if got["menu"] != 1 {
		t.Errorf("menu = %v, want 1", got["menu"])
	}
}

func TestRecordRequestCreated_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequestCreated()
	c.RecordRequestCreated()
	c.RecordRequestCreated()

	mf := findMetricFamily(t, reg, "outsourcebot_requests_created_total")
	if v := mf.GetMetric()[0].GetCounter().GetValue(); v != 3 {
		t.Errorf("requests_created_total = %v, want 3", v)
	}
}

// TestRecordAdminCommand_LabelsCommandAndOutcome はコマンドと結果のラベルが付くことを検証する。
func TestRecordAdminCommand_LabelsCommandAndOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAdminCommand("delete_request", "denied")

	mf := findMetricFamily(t, reg, "outsourcebot_admin_commands_total")
	if len(mf.GetMetric()) != 1 {
		t.Fatalf("expected 1 metric, got %d", len(mf.GetMetric()))
	}
	m := mf.GetMetric()[0]
	if labelValue(m, "command") != "delete_request" {
		t.Errorf("command label = %q", labelValue(m, "command"))
	}
	if labelValue(m, "outcome") != "denied" {
		t.Errorf("outcome label = %q", labelValue(m, "outcome"))
	}
}

func TestRecordSendFailure_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSendFailure("sendPhoto")

	mf := findMetricFamily(t, reg, "outsourcebot_send_failures_total")
	m := mf.GetMetric()[0]
	if labelValue(m, "method") != "sendPhoto" {
		t.Errorf("method label = %q, want sendPhoto", labelValue(m, "method"))
	}
	if m.GetCounter().GetValue() != 1 {
		t.Errorf("send_failures_total = %v, want 1", m.GetCounter().GetValue())
	}
}

func TestRecordHandleLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHandleLatency(120 * time.Millisecond)
	c.RecordHandleLatency(2 * time.Second)

	mf := findMetricFamily(t, reg, "outsourcebot_handle_latency_seconds")
	h := mf.GetMetric()[0].GetHistogram()
	if h.GetSampleCount() != 2 {
		t.Errorf("sample count = %d, want 2", h.GetSampleCount())
	}
	if h.GetSampleSum() < 2.1 || h.GetSampleSum() > 2.13 {
		t.Errorf("sample sum = %v, want ~2.12", h.GetSampleSum())
	}
}

// TestHandler_ServesPrometheusFormat は/metricsでテキスト形式のメトリクスが返ることを検証する。
func TestHandler_ServesPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRequestCreated()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "outsourcebot_requests_created_total 1") {
		t.Errorf("response should contain requests_created_total, got:\n%s", body)
	}
}

func TestMultipleCollectors_IndependentRegistries(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	reg2 := prometheus.NewRegistry()

	c1 := NewCollector(reg1)
	_ = NewCollector(reg2)

	c1.RecordRequestCreated()

	if v := findMetricFamily(t, reg2, "outsourcebot_requests_created_total").GetMetric()[0].GetCounter().GetValue(); v != 0 {
		t.Errorf("second registry should be unaffected, got %v", v)
	}
}

func TestNopCollector_DoesNotPanic(t *testing.T) {
	var c MetricsCollector = NopCollector{}
	c.RecordMessage("menu")
	c.RecordRequestCreated()
	c.RecordAdminCommand("requests", "ok")
	c.RecordSendFailure("sendMessage")
	c.RecordHandleLatency(time.Millisecond)
}
