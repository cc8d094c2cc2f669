// Package metrics provides observability primitives for the Parquet modular
// encryption core.
//
// # Overview
//
// The metrics package offers a complete observability solution including:
//   - Metrics collection (counters, gauges, histograms)
//   - Prometheus-compatible metrics export
//   - Distributed tracing support (OpenTelemetry-compatible interface)
//   - Structured logging with levels
//   - Health check endpoints
//
// # Quick Start
//
// Basic usage with global collector:
//
//	import "github.com/parquetcrypt/core/pkg/metrics"
//
//	// Record metrics
//	metrics.Global().EncryptorOpened()
//	metrics.Global().RecordModuleEncrypted(uint64(len(plaintext)))
//	metrics.Global().RecordEncryptLatency(d)
//
//	// Start Prometheus server
//	go metrics.ServePrometheus(":9090", metrics.Global(), "parquet_crypto")
//
// # Metrics Collection
//
// The Collector type aggregates metrics from encryptor/decryptor instances:
//
//	collector := metrics.NewCollector(metrics.Labels{
//		"instance": "node-1",
//		"region":   "us-west-2",
//	})
//
//	// Lifecycle metrics
//	collector.EncryptorOpened()
//	collector.DecryptorOpened()
//
//	// Throughput metrics
//	collector.RecordModuleEncrypted(n)
//	collector.RecordModuleDecrypted(n)
//
//	// Cryptographic failure metrics
//	collector.RecordAuthFailure()
//	collector.RecordNonceExhaustion()
//
//	// Get snapshot
//	snap := collector.Snapshot()
//
// # Prometheus Export
//
// Export metrics in Prometheus format:
//
//	exporter := metrics.NewPrometheusExporter(collector, "parquet_crypto")
//	http.Handle("/metrics", exporter.Handler())
//
// # Tracing
//
// The package provides a Tracer interface compatible with OpenTelemetry:
//
//	// Use the simple tracer for testing
//	tracer := metrics.NewSimpleTracer()
//	metrics.SetTracer(tracer)
//
//	// OpenTelemetry adapter (uses global provider)
//	otelTracer := metrics.NewOTelTracer("parquet-crypto")
//	metrics.SetTracer(otelTracer)
//	// Build with -tags otel to enable the adapter.
//
//	// Start spans
//	ctx, end := metrics.StartSpan(ctx, metrics.SpanModuleEncrypt)
//	defer end(nil) // or end(err) on error
//
//	// Use with OpenTelemetry SDK (implement the Tracer interface)
//	// metrics.SetTracer(myOTelAdapter)
//
// # Structured Logging
//
// The Logger provides structured logging with levels:
//
//	logger := metrics.NewLogger(
//		metrics.WithLevel(metrics.LevelInfo),
//		metrics.WithFormat(metrics.FormatJSON),
//		metrics.WithFields(metrics.Fields{"service": "parquet-crypto"}),
//	)
//
//	logger.Info("module decrypted", metrics.Fields{
//		"module_type": "ColumnData",
//		"row_group":   rowGroup,
//	})
//
//	// Child loggers
//	pageLog := logger.Named("page").With(metrics.Fields{"column": columnIdx})
//	pageLog.Debug("encrypting page")
//
// # Health Checks
//
// Provide health check endpoints for Kubernetes and load balancers:
//
//	health := metrics.NewHealthCheck(collector, "1.0.0")
//	health.AddCheck("crypto", func() error {
//		// Verify crypto subsystem
//		return nil
//	})
//
//	http.Handle("/health", health.Handler())
//	http.Handle("/healthz", health.LivenessHandler())
//	http.Handle("/readyz", health.ReadinessHandler())
//
// # Observability Server
//
// Start a complete observability server:
//
//	server := metrics.NewServer(metrics.ServerConfig{
//		Collector:        collector,
//		Version:          "1.0.0",
//		Namespace:        "parquet_crypto",
//		EnablePrometheus: true,
//		EnableHealth:     true,
//	})
//
//	go server.ListenAndServe(":9090")
//
// This provides:
//   - /metrics - Prometheus metrics
//   - /health  - Detailed health status
//   - /healthz - Kubernetes liveness probe
//   - /readyz  - Kubernetes readiness probe
package metrics
