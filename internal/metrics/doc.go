// Package metrics provides an observability framework for manifest
// generation runs.
//
// # Design Philosophy
//
// This package implements the Null Object pattern to enable metrics collection
// without requiring explicit nil checks throughout the codebase. By default,
// all components use NoopRecorder which implements the Recorder interface with
// no-op methods that inline to nothing at compile time.
//
// # Architecture
//
// The metrics system has three components:
//
//  1. Recorder interface - Defines all metrics operations
//  2. NoopRecorder - Default implementation that does nothing (zero overhead)
//  3. PrometheusRecorder - Prometheus adapter, activated by the daemon
//
// # Usage Pattern
//
// Components receive a Recorder through dependency injection:
//
//	gen := generator.New(cfg, workDir).WithRecorder(metrics.NoopRecorder{})
//
// # Activation
//
// To expose metrics, swap in the Prometheus implementation and serve its
// registry:
//
//	reg := prom.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
//
// This approach allows:
//   - Zero overhead when metrics are disabled (noop methods inline away)
//   - Metrics activation without code changes (just swap implementation)
//   - Clean testing (inject mock recorder for verification)
//
// One-shot CLI commands stay on NoopRecorder; the daemon activates the
// Prometheus recorder when a metrics listen address is configured.
package metrics
