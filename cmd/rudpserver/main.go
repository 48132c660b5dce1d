// Command rudpserver listens on the reliable-UDP port and drives one
// receiver.Engine per peer address, replying with cumulative ACKs.
//
// Grounded on the teacher's core/main.go (banner, loadConfig, graceful
// shutdown on signal) and source/server/server.go's listen-loop-spawns-
// per-client-handler shape, with the handler map now addressed by
// net.Addr instead of RakNet GUID.
package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/rudpnet/reliudp/internal/config"
	"github.com/rudpnet/reliudp/internal/metrics"
	"github.com/rudpnet/reliudp/internal/receiver"
	"github.com/rudpnet/reliudp/internal/telemetry"
)

const component = "rudpserver"

func main() {
	var (
		port            int
		verbose         bool
		metricAddr      string
		lossProbability float64
	)

	root := &cobra.Command{
		Use:   "rudpserver",
		Short: "Reliable-UDP transport server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(port, verbose, metricAddr, lossProbability)
		},
	}
	root.Flags().IntVarP(&port, "port", "p", config.ServerPort, "UDP port to listen on")
	root.Flags().BoolVarP(&verbose, "verbose", "v", true, "enable debug-level logging")
	root.Flags().StringVar(&metricAddr, "metrics-addr", "", "address to serve /metrics on (empty disables)")
	root.Flags().Float64Var(&lossProbability, "loss-probability", config.DefaultLossProbability, "probability of silently dropping an inbound datagram (testability affordance, spec.md §4.7)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(port int, verbose bool, metricAddr string, lossProbability float64) error {
	sink := telemetry.NewLogrusSink(verbose)

	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return fmt.Errorf("rudpserver: listen: %w", err)
	}
	defer conn.Close()
	telemetry.Infof(sink, component, "listening on :%d", port)

	var reg *prometheus.Registry
	if metricAddr != "" {
		reg = prometheus.NewRegistry()
		go serveMetrics(metricAddr, reg, sink)
	}

	srv := &server{
		conn:            conn,
		sink:            sink,
		reg:             reg,
		lossProbability: lossProbability,
		engines:         make(map[string]*receiver.Engine),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.listen() }()

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		telemetry.Warnf(sink, component, "received signal %v, shutting down", sig)
		return nil
	}
}

// server fans inbound datagrams out to one receiver.Engine per peer
// address, exactly as the teacher's Server.listen() dispatches to one
// Session per client GUID.
type server struct {
	conn            *net.UDPConn
	sink            telemetry.Sink
	reg             *prometheus.Registry
	lossProbability float64

	mu      sync.Mutex
	engines map[string]*receiver.Engine
}

func (s *server) listen() error {
	buf := make([]byte, config.BufferSize+64)
	for {
		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			return fmt.Errorf("rudpserver: read: %w", err)
		}
		raw := make([]byte, n)
		copy(raw, buf[:n])

		eng := s.engineFor(addr)
		reply, handleErr := eng.Handle(raw)
		if handleErr != nil {
			telemetry.Errorf(s.sink, component, "handle from %s: %v", addr, handleErr)
			continue
		}
		if reply == nil {
			continue
		}
		if _, err := s.conn.WriteToUDP(reply, addr); err != nil {
			telemetry.Errorf(s.sink, component, "write to %s: %v", addr, err)
		}
	}
}

func (s *server) engineFor(addr *net.UDPAddr) *receiver.Engine {
	key := addr.String()

	s.mu.Lock()
	defer s.mu.Unlock()
	if eng, ok := s.engines[key]; ok {
		return eng
	}

	opts := []receiver.Option{receiver.WithSink(s.sink)}
	if s.reg != nil {
		opts = append(opts, receiver.WithMetrics(metrics.NewPrometheusRecorder(s.reg, key)))
	}
	if s.lossProbability > 0 {
		opts = append(opts, receiver.WithLossProbability(s.lossProbability))
	}
	eng := receiver.New(opts...)
	s.engines[key] = eng
	telemetry.Infof(s.sink, component, "new peer %s", key)
	return eng
}

func serveMetrics(addr string, reg *prometheus.Registry, sink telemetry.Sink) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	telemetry.Infof(sink, component, "serving metrics on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		telemetry.Errorf(sink, component, "metrics server: %v", err)
	}
}
