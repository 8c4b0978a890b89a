package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/outsourcebot/internal/metrics"
	"github.com/hitoshi/outsourcebot/internal/telegram"
)

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	return m.err
}

type recordingUpdates struct {
	updates []telegram.Update
}

func (r *recordingUpdates) HandleUpdate(ctx context.Context, u telegram.Update) {
	r.updates = append(r.updates, u)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestRouter(checker HealthChecker, updates telegram.UpdateHandler, secret string) (http.Handler, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	metrics.NewCollector(reg).RecordRequestCreated()
	return NewRouter(&RouterDeps{
		Logger:        discardLogger(),
		HealthChecker: checker,
		Gatherer:      reg,
		Updates:       updates,
		WebhookSecret: secret,
	}), reg
}

func TestHealth_DBReachable_Returns200(t *testing.T) {
	router, _ := newTestRouter(&mockHealthChecker{}, nil, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestHealth_DBUnreachable_Returns503(t *testing.T) {
	router, _ := newTestRouter(&mockHealthChecker{err: errors.New("connection refused")}, nil, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestMetrics_Served(t *testing.T) {
	router, _ := newTestRouter(&mockHealthChecker{}, nil, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "outsourcebot_requests_created_total 1") {
		t.Errorf("metrics output missing counter:\n%s", w.Body.String())
	}
}

// TestWebhook_PollingMode_NotRegistered はロングポーリングモードでWebhookルートが存在しないことを検証する。
func TestWebhook_PollingMode_NotRegistered(t *testing.T) {
	router, _ := newTestRouter(&mockHealthChecker{}, nil, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, WebhookPath, strings.NewReader(`{}`)))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestWebhook_DispatchesUpdate(t *testing.T) {
	updates := &recordingUpdates{}
	router, _ := newTestRouter(&mockHealthChecker{}, updates, "s3cret")

	body := `{"update_id":100,"message":{"message_id":1,"from":{"id":42,"first_name":"Anna"},"chat":{"id":42,"type":"private"},"text":"Лендинг"}}`
	req := httptest.NewRequest(http.MethodPost, WebhookPath, bytes.NewBufferString(body))
	req.Header.Set(SecretTokenHeader, "s3cret")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(updates.updates) != 1 {
		t.Fatalf("dispatched %d updates, want 1", len(updates.updates))
	}
	u := updates.updates[0]
	if u.UpdateID != 100 || u.Message == nil || u.Message.Text != "Лендинг" {
		t.Errorf("unexpected update: %+v", u)
	}
}

// TestWebhook_InvalidSecret_Rejected はシークレットが一致しないリクエストを処理しないことを検証する。
func TestWebhook_InvalidSecret_Rejected(t *testing.T) {
	updates := &recordingUpdates{}
	router, _ := newTestRouter(&mockHealthChecker{}, updates, "s3cret")

	for _, secret := range []string{"", "wrong"} {
		req := httptest.NewRequest(http.MethodPost, WebhookPath, strings.NewReader(`{"update_id":1}`))
		if secret != "" {
			req.Header.Set(SecretTokenHeader, secret)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("secret %q: status = %d, want 401", secret, w.Code)
		}
	}
	if len(updates.updates) != 0 {
		t.Errorf("no update should be dispatched, got %d", len(updates.updates))
	}
}

func TestWebhook_NoSecretConfigured_Accepts(t *testing.T) {
	updates := &recordingUpdates{}
	router, _ := newTestRouter(&mockHealthChecker{}, updates, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, WebhookPath, strings.NewReader(`{"update_id":1}`)))

	if w.Code != http.StatusOK || len(updates.updates) != 1 {
		t.Errorf("status = %d, dispatched = %d", w.Code, len(updates.updates))
	}
}

func TestWebhook_MalformedBody_Returns400(t *testing.T) {
	updates := &recordingUpdates{}
	router, _ := newTestRouter(&mockHealthChecker{}, updates, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, WebhookPath, strings.NewReader(`not json`)))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if len(updates.updates) != 0 {
		t.Error("malformed body should not be dispatched")
	}
}

// TestWebhook_PanicInHandler_Returns500 はハンドラー内のpanicがプロセスを落とさないことを検証する。
func TestWebhook_PanicInHandler_Returns500(t *testing.T) {
	panicking := telegram.UpdateHandlerFunc(func(ctx context.Context, u telegram.Update) {
		panic("boom")
	})
	router, _ := newTestRouter(&mockHealthChecker{}, panicking, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, WebhookPath, strings.NewReader(`{"update_id":1}`)))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
