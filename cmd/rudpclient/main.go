// Command rudpclient drives a sender.Engine against rudpserver, exposing
// the two flags spec.md §6 preserves for compatibility: -c/--crypto and
// -b/--benchmark/--eval.
//
// Grounded on the teacher's core/main.go (banner + loadConfig + graceful
// shutdown) restructured around github.com/spf13/cobra instead of a
// hand-rolled Config struct.
package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rudpnet/reliudp/internal/cipher"
	"github.com/rudpnet/reliudp/internal/config"
	"github.com/rudpnet/reliudp/internal/sender"
	"github.com/rudpnet/reliudp/internal/telemetry"
	"github.com/rudpnet/reliudp/internal/workload"
)

const component = "rudpclient"

func main() {
	var (
		peerAddr  string
		port      int
		crypto    bool
		benchmark bool
	)

	root := &cobra.Command{
		Use:   "rudpclient",
		Short: "Reliable-UDP transport client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(peerAddr, port, crypto, benchmark)
		},
	}
	root.Flags().StringVar(&peerAddr, "host", config.DefaultPeerAddr, "server host to connect to")
	root.Flags().IntVarP(&port, "port", "p", config.ServerPort, "server port to connect to")
	root.Flags().BoolVarP(&crypto, "crypto", "c", false, "enable the ENC handshake before data")
	root.Flags().BoolVarP(&benchmark, "benchmark", "b", false, "benchmark mode: 10,000 synthetic payloads, 0.2s timeout, non-verbose")
	root.Flags().BoolVar(&benchmark, "eval", false, "alias of --benchmark")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(peerAddr string, port int, crypto, benchmark bool) error {
	opts := config.Default()
	if benchmark {
		opts = config.DefaultBenchmark()
	}
	opts.CryptoEnabled = crypto
	if err := opts.Validate(); err != nil {
		return err
	}

	var sink telemetry.Sink = telemetry.NoopSink{}
	if opts.Verbose {
		sink = telemetry.NewLogrusSink(true)
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		return fmt.Errorf("rudpclient: listen: %w", err)
	}
	defer conn.Close()

	peer, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", peerAddr, port))
	if err != nil {
		return fmt.Errorf("rudpclient: resolve peer: %w", err)
	}

	eng := sender.New(conn, peer, opts, sender.WithSink(sink))

	if opts.CryptoEnabled {
		key := cipher.GenerateKey()
		if err := eng.Handshake(key); err != nil {
			telemetry.Warnf(sink, component, "handshake failed, proceeding in clear: %v", err)
		}
	}

	var payloads [][]byte
	if benchmark {
		payloads = workload.Benchmark()
	} else {
		payloads = workload.Demo()
	}

	telemetry.Infof(sink, component, "sending %d payloads to %s", len(payloads), peer)
	start := time.Now()

	sent := 0
	for sent < len(payloads) {
		n, err := eng.SendBurst(payloads[sent:])
		if err != nil {
			return fmt.Errorf("rudpclient: send burst: %w", err)
		}
		sent += n
		if n == 0 {
			if _, err := eng.PollAck(); err != nil {
				return fmt.Errorf("rudpclient: poll ack: %w", err)
			}
		}
	}

	elapsed := time.Since(start)
	telemetry.Infof(sink, component, "delivered %d payloads in %s", len(payloads), elapsed)
	fmt.Printf("sent=%d elapsed=%s\n", len(payloads), elapsed)
	return nil
}
