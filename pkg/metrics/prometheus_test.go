package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPrometheusExporterWriteMetrics(t *testing.T) {
	c := NewCollector(Labels{"instance": "test"})

	c.EncryptorOpened()
	c.RecordModuleEncrypted(1000)
	c.RecordEncryptLatency(100 * time.Microsecond)

	exp := NewPrometheusExporter(c, "parquet_crypto")

	var buf bytes.Buffer
	exp.WriteMetrics(&buf)

	output := buf.String()

	expectedMetrics := []string{
		"parquet_crypto_encryptors_active",
		"parquet_crypto_encryptors_total",
		"parquet_crypto_modules_encrypted_total",
		"parquet_crypto_encrypt_duration_microseconds",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(output, metric) {
			t.Errorf("expected metric %q in output", metric)
		}
	}

	if !strings.Contains(output, `instance="test"`) {
		t.Error("expected label instance=\"test\" in output")
	}

	if !strings.Contains(output, "# HELP parquet_crypto_encryptors_active") {
		t.Error("expected HELP line for encryptors_active")
	}
	if !strings.Contains(output, "# TYPE parquet_crypto_encryptors_active gauge") {
		t.Error("expected TYPE line for encryptors_active")
	}
}

func TestPrometheusExporterHandler(t *testing.T) {
	c := NewCollector(nil)
	c.EncryptorOpened()

	exp := NewPrometheusExporter(c, "test")
	handler := exp.Handler()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/plain") {
		t.Errorf("expected text/plain content type, got %s", contentType)
	}

	body := w.Body.String()
	if !strings.Contains(body, "test_encryptors_active") {
		t.Error("expected encryptors_active metric in response")
	}
}

func TestPrometheusExporterHistogram(t *testing.T) {
	c := NewCollector(nil)
	c.RecordEncryptLatency(50 * time.Microsecond)
	c.RecordEncryptLatency(150 * time.Microsecond)

	exp := NewPrometheusExporter(c, "test")

	var buf bytes.Buffer
	exp.WriteMetrics(&buf)

	output := buf.String()

	if !strings.Contains(output, "_bucket{le=") {
		t.Error("expected histogram bucket format")
	}
	if !strings.Contains(output, "_sum") {
		t.Error("expected histogram sum")
	}
	if !strings.Contains(output, "_count") {
		t.Error("expected histogram count")
	}
	if !strings.Contains(output, `le="+Inf"`) {
		t.Error("expected +Inf bucket")
	}
}

func TestPrometheusExporterLabelEscaping(t *testing.T) {
	c := NewCollector(Labels{
		"path":    "/api/v1",
		"message": "hello \"world\"",
		"newline": "line1\nline2",
	})

	exp := NewPrometheusExporter(c, "test")

	var buf bytes.Buffer
	exp.WriteMetrics(&buf)

	output := buf.String()

	if strings.Contains(output, "\n\"") {
		t.Error("newline should be escaped in labels")
	}
	if strings.Contains(output, `"hello "world""`) {
		t.Error("quotes should be escaped in labels")
	}
}

func TestPrometheusExporterAllMetricTypes(t *testing.T) {
	c := NewCollector(nil)

	c.EncryptorOpened()
	c.EncryptorClosed()
	c.DecryptorOpened()
	c.DecryptorClosed()
	c.RecordModuleEncrypted(100)
	c.RecordModuleDecrypted(200)
	c.RecordAuthFailure()
	c.RecordNonceExhaustion()
	c.RecordMalformedFrame()
	c.RecordEncryptError()
	c.RecordDecryptError()
	c.RecordEncryptLatency(10 * time.Microsecond)
	c.RecordDecryptLatency(15 * time.Microsecond)

	exp := NewPrometheusExporter(c, "parquet")

	var buf bytes.Buffer
	exp.WriteMetrics(&buf)

	output := buf.String()

	expectedMetrics := []string{
		"encryptors_active",
		"encryptors_total",
		"decryptors_active",
		"decryptors_total",
		"modules_encrypted_total",
		"modules_decrypted_total",
		"bytes_encrypted_total",
		"bytes_decrypted_total",
		"auth_failures_total",
		"nonce_exhaustions_total",
		"malformed_frames_total",
		"encrypt_errors_total",
		"decrypt_errors_total",
		"uptime_seconds",
		"encrypt_duration_microseconds",
		"decrypt_duration_microseconds",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(output, "parquet_"+metric) {
			t.Errorf("missing metric: parquet_%s", metric)
		}
	}
}

func TestPrometheusExporterEmptyLabels(t *testing.T) {
	c := NewCollector(nil)
	c.EncryptorOpened()

	exp := NewPrometheusExporter(c, "test")

	var buf bytes.Buffer
	exp.WriteMetrics(&buf)

	output := buf.String()

	lines := strings.Split(output, "\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "test_encryptors_active") {
			if strings.Contains(line, "{") && !strings.Contains(line, "_bucket") {
				t.Errorf("gauge metric should not have labels: %s", line)
			}
		}
	}
}
