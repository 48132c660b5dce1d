// Package config centralizes the wire-level constants and per-run options
// shared by the sender and receiver engines, modeled on the teacher's
// core.Config/loadConfig() plus the validate-on-construct pattern used by
// doublezero-uping's SenderConfig.Validate().
package config

import (
	"fmt"
	"time"
)

// Bit-exact constants from spec.md §3/§6.
const (
	ServerPort       = 5005
	DefaultPeerAddr  = "127.0.0.1"
	BufferSize       = 1024
	MSS              = 1000
	InitialSeq       = 100
	InitialSSThresh  = 64000
	DefaultCipherKey = "Redes2026"

	// Burst pacing default (spec.md §4.5): K sends before draining ACKs.
	DefaultBurstSize = 5

	// Timer defaults (spec.md §5).
	InteractiveTimeout = 2 * time.Second
	BenchmarkTimeout   = 200 * time.Millisecond

	// Loss-injection default (spec.md §4.7): disabled in production.
	// Exposed on cmd/rudpserver's --loss-probability flag, since only the
	// receiver side (the server, in this client/server split) ever runs
	// a receiver.Engine to apply it to.
	DefaultLossProbability = 0.0

	// Benchmark workload shape (spec.md §6).
	BenchmarkPayloadCount = 10000
	BenchmarkPayloadSize  = 500
	DemoPayloadCount      = 8
	DemoPayloadSize       = 24
)

// Options bundles the per-run knobs for a single endpoint. The zero value is
// not ready for use; build one with Default() or DefaultBenchmark() and
// override fields before calling Validate.
type Options struct {
	PeerAddr        string
	Port            int
	Timeout         time.Duration
	BurstSize       int
	CryptoEnabled   bool
	CipherKey       []byte
	LossProbability float64
	Verbose         bool
}

// Default returns the interactive-demo configuration (spec.md §6: "No
// flag: 8 demo payloads, 2.0s timeout, verbose logging").
func Default() Options {
	return Options{
		PeerAddr:        DefaultPeerAddr,
		Port:            ServerPort,
		Timeout:         InteractiveTimeout,
		BurstSize:       DefaultBurstSize,
		CipherKey:       []byte(DefaultCipherKey),
		LossProbability: DefaultLossProbability,
		Verbose:         true,
	}
}

// DefaultBenchmark returns the benchmark configuration (spec.md §6:
// "10,000 synthetic payloads of ~500B each, 0.2s timeout, non-verbose").
func DefaultBenchmark() Options {
	o := Default()
	o.Timeout = BenchmarkTimeout
	o.Verbose = false
	return o
}

// Validate enforces the invariants the sender/receiver engines rely on.
func (o *Options) Validate() error {
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", o.Port)
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", o.Timeout)
	}
	if o.BurstSize <= 0 {
		return fmt.Errorf("config: burst size must be positive, got %d", o.BurstSize)
	}
	if o.LossProbability < 0 || o.LossProbability > 1 {
		return fmt.Errorf("config: loss probability %f out of [0,1]", o.LossProbability)
	}
	if len(o.CipherKey) == 0 {
		o.CipherKey = []byte(DefaultCipherKey)
	}
	return nil
}
