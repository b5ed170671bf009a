// FILE: cmd/beacond/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lixenwraith/beacon"
	"github.com/lixenwraith/beacon/compat"
	"github.com/lixenwraith/beacon/ingest"
)

const (
	defaultConfigFile = "beacon.toml"
	defaultHTTPAddr   = ":8080"
	defaultTCPAddr    = "127.0.0.1:9000"
	shutdownTimeout   = 5 * time.Second
)

// envOr returns the environment value for key, or def when unset. "-" disables a listener.
func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "beacond: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := beacon.NewConfigFromFile(envOr("BEACON_CONFIG", defaultConfigFile), os.Args[1:])
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	builder := compat.NewBuilder().WithConfig(cfg)
	logger, err := builder.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() {
		if err := logger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "beacond: failed to close logger: %v\n", err)
		}
	}()

	httpAdapter, err := builder.BuildFastHTTP()
	if err != nil {
		return err
	}
	gnetAdapter, err := builder.BuildGnet(compat.WithFatalHandler(func(msg string) {
		logger.Error("msg", "gnet fatal, shutting down", "reason", msg)
		_ = syscall.Kill(os.Getpid(), syscall.SIGTERM)
	}))
	if err != nil {
		return err
	}

	httpAddr := envOr("BEACON_HTTP_ADDR", defaultHTTPAddr)
	tcpAddr := envOr("BEACON_TCP_ADDR", defaultTCPAddr)

	var httpServer *ingest.HTTPServer
	var tcpServer *ingest.TCPServer
	errChan := make(chan error, 2)
	var wg sync.WaitGroup

	if httpAddr != "-" {
		httpServer = ingest.NewHTTPServer(logger, ingest.WithHTTPLogger(httpAdapter))
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("msg", "http ingest listening", "addr", httpAddr)
			if err := httpServer.ListenAndServe(httpAddr); err != nil {
				errChan <- fmt.Errorf("http ingest: %w", err)
			}
		}()
	}

	if tcpAddr != "-" {
		tcpServer = ingest.NewTCPServer(logger, tcpAddr,
			ingest.WithMulticore(true),
			ingest.WithTCPLogger(gnetAdapter),
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("msg", "tcp ingest listening", "addr", tcpAddr)
			if err := tcpServer.Run(); err != nil {
				errChan <- fmt.Errorf("tcp ingest: %w", err)
			}
		}()
	}

	if httpServer == nil && tcpServer == nil {
		return errors.New("no listener enabled")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case sig := <-sigChan:
		logger.Info("msg", "signal received, shutting down", "signal", sig.String())
	case runErr = <-errChan:
		logger.Error("msg", "listener failed, shutting down", "error", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if httpServer != nil {
		if err := httpServer.Shutdown(); err != nil {
			logger.Warn("msg", "http shutdown failed", "error", err)
		}
	}
	if tcpServer != nil {
		if err := tcpServer.Stop(ctx); err != nil {
			logger.Warn("msg", "tcp shutdown failed", "error", err)
		}
	}
	wg.Wait()

	st := logger.Stats()
	logger.Info("msg", "stopped", "records", st.Records, "rotations", st.Rotations)
	return runErr
}
