package metrics

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
)

// PrometheusExporter exports metrics in Prometheus text format.
type PrometheusExporter struct {
	collector *Collector
	namespace string
}

// NewPrometheusExporter creates a new Prometheus exporter for the given collector.
// The namespace is prepended to all metric names (e.g., "parquet_crypto").
func NewPrometheusExporter(c *Collector, namespace string) *PrometheusExporter {
	return &PrometheusExporter{
		collector: c,
		namespace: namespace,
	}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (e *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		e.WriteMetrics(w)
	})
}

// WriteMetrics writes all metrics in Prometheus text format to the writer.
func (e *PrometheusExporter) WriteMetrics(w io.Writer) {
	snap := e.collector.Snapshot()
	labels := e.formatLabels(snap.Labels)

	// --- Lifecycle Metrics ---
	e.writeHelp(w, "encryptors_active", "Number of currently open FileEncryptor instances")
	e.writeType(w, "encryptors_active", "gauge")
	e.writeMetric(w, "encryptors_active", labels, float64(snap.EncryptorsActive))

	e.writeHelp(w, "encryptors_total", "Total number of FileEncryptor instances created")
	e.writeType(w, "encryptors_total", "counter")
	e.writeMetric(w, "encryptors_total", labels, float64(snap.EncryptorsTotal))

	e.writeHelp(w, "decryptors_active", "Number of currently open FileDecryptor instances")
	e.writeType(w, "decryptors_active", "gauge")
	e.writeMetric(w, "decryptors_active", labels, float64(snap.DecryptorsActive))

	e.writeHelp(w, "decryptors_total", "Total number of FileDecryptor instances created")
	e.writeType(w, "decryptors_total", "counter")
	e.writeMetric(w, "decryptors_total", labels, float64(snap.DecryptorsTotal))

	// --- Throughput Metrics ---
	e.writeHelp(w, "modules_encrypted_total", "Total modules encrypted")
	e.writeType(w, "modules_encrypted_total", "counter")
	e.writeMetric(w, "modules_encrypted_total", labels, float64(snap.ModulesEncrypted))

	e.writeHelp(w, "modules_decrypted_total", "Total modules decrypted")
	e.writeType(w, "modules_decrypted_total", "counter")
	e.writeMetric(w, "modules_decrypted_total", labels, float64(snap.ModulesDecrypted))

	e.writeHelp(w, "bytes_encrypted_total", "Total plaintext bytes encrypted")
	e.writeType(w, "bytes_encrypted_total", "counter")
	e.writeMetric(w, "bytes_encrypted_total", labels, float64(snap.BytesEncrypted))

	e.writeHelp(w, "bytes_decrypted_total", "Total plaintext bytes decrypted")
	e.writeType(w, "bytes_decrypted_total", "counter")
	e.writeMetric(w, "bytes_decrypted_total", labels, float64(snap.BytesDecrypted))

	// --- Cryptographic Failure Metrics ---
	e.writeHelp(w, "auth_failures_total", "Total GCM authentication-tag mismatches")
	e.writeType(w, "auth_failures_total", "counter")
	e.writeMetric(w, "auth_failures_total", labels, float64(snap.AuthFailures))

	e.writeHelp(w, "nonce_exhaustions_total", "Total counter-nonce wraparound events")
	e.writeType(w, "nonce_exhaustions_total", "counter")
	e.writeMetric(w, "nonce_exhaustions_total", labels, float64(snap.NonceExhaustions))

	e.writeHelp(w, "malformed_frames_total", "Total truncated or malformed encrypted module frames")
	e.writeType(w, "malformed_frames_total", "counter")
	e.writeMetric(w, "malformed_frames_total", labels, float64(snap.MalformedFrames))

	// --- Error Metrics ---
	e.writeHelp(w, "encrypt_errors_total", "Total encryption errors")
	e.writeType(w, "encrypt_errors_total", "counter")
	e.writeMetric(w, "encrypt_errors_total", labels, float64(snap.EncryptErrors))

	e.writeHelp(w, "decrypt_errors_total", "Total decryption errors")
	e.writeType(w, "decrypt_errors_total", "counter")
	e.writeMetric(w, "decrypt_errors_total", labels, float64(snap.DecryptErrors))

	// --- Uptime ---
	e.writeHelp(w, "uptime_seconds", "Time since the collector was created")
	e.writeType(w, "uptime_seconds", "gauge")
	e.writeMetric(w, "uptime_seconds", labels, snap.Uptime.Seconds())

	// --- Histograms ---
	e.writeHistogram(w, "encrypt_duration_microseconds", "Module Seal duration in microseconds", labels, snap.EncryptLatency)
	e.writeHistogram(w, "decrypt_duration_microseconds", "Module Open duration in microseconds", labels, snap.DecryptLatency)
}

// writeHelp writes a HELP line.
func (e *PrometheusExporter) writeHelp(w io.Writer, name, help string) {
	fmt.Fprintf(w, "# HELP %s_%s %s\n", e.namespace, name, help)
}

// writeType writes a TYPE line.
func (e *PrometheusExporter) writeType(w io.Writer, name, typ string) {
	fmt.Fprintf(w, "# TYPE %s_%s %s\n", e.namespace, name, typ)
}

// writeMetric writes a single metric line.
func (e *PrometheusExporter) writeMetric(w io.Writer, name, labels string, value float64) {
	if labels != "" {
		fmt.Fprintf(w, "%s_%s{%s} %g\n", e.namespace, name, labels, value)
	} else {
		fmt.Fprintf(w, "%s_%s %g\n", e.namespace, name, value)
	}
}

// writeHistogram writes a histogram in Prometheus format.
func (e *PrometheusExporter) writeHistogram(w io.Writer, name, help, labels string, h HistogramSummary) {
	e.writeHelp(w, name, help)
	e.writeType(w, name, "histogram")

	fullName := e.namespace + "_" + name

	// Write bucket counts
	for _, b := range h.Buckets {
		le := fmt.Sprintf("%g", b.UpperBound)
		if math.IsInf(b.UpperBound, 1) {
			le = "+Inf"
		}
		if labels != "" {
			fmt.Fprintf(w, "%s_bucket{%s,le=\"%s\"} %d\n", fullName, labels, le, b.Count)
		} else {
			fmt.Fprintf(w, "%s_bucket{le=\"%s\"} %d\n", fullName, le, b.Count)
		}
	}

	// Write sum and count
	if labels != "" {
		fmt.Fprintf(w, "%s_sum{%s} %g\n", fullName, labels, h.Sum)
		fmt.Fprintf(w, "%s_count{%s} %d\n", fullName, labels, h.Count)
	} else {
		fmt.Fprintf(w, "%s_sum %g\n", fullName, h.Sum)
		fmt.Fprintf(w, "%s_count %d\n", fullName, h.Count)
	}
}

// formatLabels converts Labels to Prometheus label format.
func (e *PrometheusExporter) formatLabels(labels Labels) string {
	if len(labels) == 0 {
		return ""
	}

	// Sort keys for consistent output
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		// Escape label values
		v := escapePromValue(labels[k])
		parts = append(parts, fmt.Sprintf("%s=\"%s\"", k, v))
	}

	return strings.Join(parts, ",")
}

// escapePromValue escapes a string for use as a Prometheus label value.
func escapePromValue(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// --- Convenience Functions ---

// ServePrometheus starts an HTTP server serving Prometheus metrics.
// This is a convenience function for simple use cases.
func ServePrometheus(addr string, c *Collector, namespace string) error {
	exp := NewPrometheusExporter(c, namespace)
	http.Handle("/metrics", exp.Handler())
	return http.ListenAndServe(addr, nil)
}
