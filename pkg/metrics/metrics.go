// Package metrics provides observability primitives for the module encryption core.
//
// The package includes:
//   - A Collector of module counters, and the Histogram metric type
//   - Prometheus-compatible metrics export
//   - OpenTelemetry tracing support
//   - Structured logging with levels
//   - Health check functionality
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector aggregates metrics from module encryption and decryption operations.
type Collector struct {
	// Encryptor/decryptor lifecycle
	encryptorsActive atomic.Uint64
	encryptorsTotal  atomic.Uint64
	decryptorsActive atomic.Uint64
	decryptorsTotal  atomic.Uint64

	// Module throughput
	modulesEncrypted atomic.Uint64
	modulesDecrypted atomic.Uint64
	bytesEncrypted   atomic.Uint64
	bytesDecrypted   atomic.Uint64

	// Cryptographic failure metrics
	authFailures     atomic.Uint64
	nonceExhaustions atomic.Uint64
	malformedFrames  atomic.Uint64

	// Error metrics
	encryptErrors atomic.Uint64
	decryptErrors atomic.Uint64

	// Performance histograms
	encryptLatency *Histogram
	decryptLatency *Histogram

	// Creation time for uptime tracking
	createdAt time.Time

	// Labels for this collector instance
	labels Labels
}

// Labels represents key-value pairs for metric labeling.
type Labels map[string]string

// NewCollector creates a new metrics collector.
func NewCollector(labels Labels) *Collector {
	if labels == nil {
		labels = make(Labels)
	}

	return &Collector{
		encryptLatency: NewHistogram(LatencyBuckets),
		decryptLatency: NewHistogram(LatencyBuckets),
		createdAt:      time.Now(),
		labels:         labels,
	}
}

// LatencyBuckets are the default histogram buckets for seal/open operations
// (microseconds).
var LatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}

// --- Encryptor/Decryptor Lifecycle ---

// EncryptorOpened increments active and total FileEncryptor counters.
func (c *Collector) EncryptorOpened() {
	c.encryptorsActive.Add(1)
	c.encryptorsTotal.Add(1)
}

// EncryptorClosed decrements the active FileEncryptor counter.
func (c *Collector) EncryptorClosed() {
	decrementSaturating(&c.encryptorsActive)
}

// DecryptorOpened increments active and total FileDecryptor counters.
func (c *Collector) DecryptorOpened() {
	c.decryptorsActive.Add(1)
	c.decryptorsTotal.Add(1)
}

// DecryptorClosed decrements the active FileDecryptor counter.
func (c *Collector) DecryptorClosed() {
	decrementSaturating(&c.decryptorsActive)
}

func decrementSaturating(v *atomic.Uint64) {
	for {
		current := v.Load()
		if current == 0 {
			return
		}
		if v.CompareAndSwap(current, current-1) {
			return
		}
	}
}

// --- Module Throughput ---

// RecordModuleEncrypted records one encrypted module of n plaintext bytes.
func (c *Collector) RecordModuleEncrypted(n uint64) {
	c.modulesEncrypted.Add(1)
	c.bytesEncrypted.Add(n)
}

// RecordModuleDecrypted records one decrypted module of n plaintext bytes.
func (c *Collector) RecordModuleDecrypted(n uint64) {
	c.modulesDecrypted.Add(1)
	c.bytesDecrypted.Add(n)
}

// --- Cryptographic Failure Metrics ---

// RecordAuthFailure increments the GCM authentication-tag-mismatch counter.
func (c *Collector) RecordAuthFailure() {
	c.authFailures.Add(1)
}

// RecordNonceExhaustion increments the counter-nonce wraparound counter.
func (c *Collector) RecordNonceExhaustion() {
	c.nonceExhaustions.Add(1)
}

// RecordMalformedFrame increments the truncated/malformed-frame counter.
func (c *Collector) RecordMalformedFrame() {
	c.malformedFrames.Add(1)
}

// --- Error Metrics ---

// RecordEncryptError increments the encryption error counter.
func (c *Collector) RecordEncryptError() {
	c.encryptErrors.Add(1)
}

// RecordDecryptError increments the decryption error counter.
func (c *Collector) RecordDecryptError() {
	c.decryptErrors.Add(1)
}

// --- Performance Metrics ---

// RecordEncryptLatency records a module Seal duration.
func (c *Collector) RecordEncryptLatency(d time.Duration) {
	c.encryptLatency.Observe(float64(d.Microseconds()))
}

// RecordDecryptLatency records a module Open duration.
func (c *Collector) RecordDecryptLatency(d time.Duration) {
	c.decryptLatency.Observe(float64(d.Microseconds()))
}

// --- Snapshot ---

// Snapshot returns a point-in-time snapshot of all metrics.
type Snapshot struct {
	// Timestamp of the snapshot
	Timestamp time.Time

	// Uptime since collector creation
	Uptime time.Duration

	// Encryptor/decryptor lifecycle
	EncryptorsActive uint64
	EncryptorsTotal  uint64
	DecryptorsActive uint64
	DecryptorsTotal  uint64

	// Module throughput
	ModulesEncrypted uint64
	ModulesDecrypted uint64
	BytesEncrypted   uint64
	BytesDecrypted   uint64

	// Cryptographic failure metrics
	AuthFailures     uint64
	NonceExhaustions uint64
	MalformedFrames  uint64

	// Error metrics
	EncryptErrors uint64
	DecryptErrors uint64

	// Histogram summaries
	EncryptLatency HistogramSummary
	DecryptLatency HistogramSummary

	// Labels
	Labels Labels
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Timestamp:        time.Now(),
		Uptime:           time.Since(c.createdAt),
		EncryptorsActive: c.encryptorsActive.Load(),
		EncryptorsTotal:  c.encryptorsTotal.Load(),
		DecryptorsActive: c.decryptorsActive.Load(),
		DecryptorsTotal:  c.decryptorsTotal.Load(),
		ModulesEncrypted: c.modulesEncrypted.Load(),
		ModulesDecrypted: c.modulesDecrypted.Load(),
		BytesEncrypted:   c.bytesEncrypted.Load(),
		BytesDecrypted:   c.bytesDecrypted.Load(),
		AuthFailures:     c.authFailures.Load(),
		NonceExhaustions: c.nonceExhaustions.Load(),
		MalformedFrames:  c.malformedFrames.Load(),
		EncryptErrors:    c.encryptErrors.Load(),
		DecryptErrors:    c.decryptErrors.Load(),
		EncryptLatency:   c.encryptLatency.Summary(),
		DecryptLatency:   c.decryptLatency.Summary(),
		Labels:           c.labels,
	}
}

// Reset clears all metrics (useful for testing).
func (c *Collector) Reset() {
	c.encryptorsActive.Store(0)
	c.encryptorsTotal.Store(0)
	c.decryptorsActive.Store(0)
	c.decryptorsTotal.Store(0)
	c.modulesEncrypted.Store(0)
	c.modulesDecrypted.Store(0)
	c.bytesEncrypted.Store(0)
	c.bytesDecrypted.Store(0)
	c.authFailures.Store(0)
	c.nonceExhaustions.Store(0)
	c.malformedFrames.Store(0)
	c.encryptErrors.Store(0)
	c.decryptErrors.Store(0)
	c.encryptLatency.Reset()
	c.decryptLatency.Reset()
	c.createdAt = time.Now()
}

// --- Global Collector ---

var (
	globalCollector     *Collector
	globalCollectorOnce sync.Once
)

// Global returns the global metrics collector.
// Creates one with default settings if not already initialized.
func Global() *Collector {
	globalCollectorOnce.Do(func() {
		globalCollector = NewCollector(Labels{"instance": "default"})
	})
	return globalCollector
}

// SetGlobal sets the global metrics collector.
// Should be called during initialization before any metrics are recorded.
func SetGlobal(c *Collector) {
	// Consume the Once so a later Global call does not replace c.
	globalCollectorOnce.Do(func() {})
	globalCollector = c
}
