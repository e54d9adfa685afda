// Package ringbuf is a fixed-capacity ring buffer library with a small
// operational shell around it.
//
// The buffer itself lives in pkg/buffer. Everything else supports running it
// inside a process:
//
//	┌─────────────────────────────────────┐
//	│         cmd/ringdemo                │  Flags, env fallback,
//	│   (drive, print, serve metrics)     │  signal handling
//	└─────────────────────────────────────┘
//	           ↓ loads
//	┌─────────────────────────────────────┐
//	│         config                      │  YAML layers, JSON schema,
//	│   (defaults, layers, env)           │  RINGBUF_* overrides
//	└─────────────────────────────────────┘
//	           ↓ builds
//	┌─────────────────────────────────────┐
//	│         pkg/buffer                  │  Double-ended ring,
//	│   (RingBuffer, Iterator)            │  random-access iterators
//	└─────────────────────────────────────┘
//	           ↓ reports to
//	┌─────────────────────────────────────┐
//	│   metric            health          │  Prometheus collectors,
//	│   (registry, HTTP)  (monitor)       │  eviction-rate health
//	└─────────────────────────────────────┘
//
// errors carries the classified error sentinels shared by every layer.
//
// # Packages
//
//   - pkg/buffer: RingBuffer, Iterator, search helpers, statistics, Dump
//   - config: layered configuration with schema validation
//   - metric: Prometheus registry wrapper and the /metrics server
//   - health: buffer health statuses and a polling monitor
//   - errors: sentinel errors with invalid, transient and fatal classes
//
// # Running the Demo
//
//	go run ./cmd/ringdemo -capacity 8 -count 10
//	go run ./cmd/ringdemo -config ring.yaml -serve -metrics-port 9090
//
// With -serve the process keeps running and exposes /metrics and /health
// until interrupted.
package ringbuf
