package runtime

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

type ServiceCtx struct {
	deps            *dependencies
	shutdownChannel chan os.Signal
	serverCtx       context.Context
	serverStopFunc  context.CancelFunc
	serverReady     chan struct{}
}

func New(opts ...ServiceOption) *ServiceCtx {
	ctx := &ServiceCtx{
		shutdownChannel: make(chan os.Signal, 1),
	}

	for _, opt := range opts {
		opt(ctx)
	}

	return ctx
}

// Run serves HTTP until SIGINT/SIGTERM or until the server fails, then
// drains in-flight requests and releases every dependency.
func (c *ServiceCtx) Run() {
	if err := c.build(); err != nil {
		log.Fatalf("failed to build service: %v", err)
	}

	c.shutdownHook()
	c.monitorConfigChanges()

	group, groupCtx := errgroup.WithContext(c.serverCtx)

	group.Go(c.serve)
	group.Go(func() error {
		select {
		case <-groupCtx.Done():
		case <-c.shutdownChannel:
			c.deps.infra.logger.Info().Msg("shutdown signal received")
		}

		return c.shutdown()
	})

	if err := group.Wait(); err != nil {
		c.deps.infra.logger.Error().Err(err).Msg("service stopped with error")
		os.Exit(1)
	}

	c.deps.infra.logger.Info().Msg("service shutdown complete")
}

func (c *ServiceCtx) build() error {
	c.serverCtx, c.serverStopFunc = context.WithCancel(context.Background())

	var err error

	c.deps, err = initializeDependencies(c.serverCtx)
	if err != nil {
		return fmt.Errorf("initializing dependencies: %w", err)
	}

	return nil
}

func (c *ServiceCtx) serve() error {
	server := c.deps.infra.httpServer

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		c.serverStopFunc()

		return fmt.Errorf("listening on %s: %w", server.Addr, err)
	}

	c.deps.infra.logger.Info().
		Str("address", listener.Addr().String()).
		Str("database", c.deps.config.Database.Driver).
		Bool("cache", c.deps.config.Cache.Enabled).
		Msg("starting the http server")

	if c.serverReady != nil {
		close(c.serverReady)
	}

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		c.serverStopFunc()

		return fmt.Errorf("http server: %w", err)
	}

	return nil
}

func (c *ServiceCtx) monitorConfigChanges() {
	if c.deps.configLoader == nil {
		return
	}

	reloadErrors := c.deps.configLoader.WatchConfigSignals(c.serverCtx)
	go func() {
		for err := range reloadErrors {
			if err != nil {
				c.deps.infra.logger.Error().Err(err).Msg("config reload failed")
			} else {
				c.deps.infra.logger.Info().Msg("config reloaded successfully")
			}
		}
	}()
}

func (c *ServiceCtx) shutdownHook() {
	signal.Notify(c.shutdownChannel, syscall.SIGINT, syscall.SIGTERM)
}

func (c *ServiceCtx) shutdown() error {
	c.deps.infra.logger.Info().Msg("shutting down service...")

	signal.Stop(c.shutdownChannel)
	c.serverStopFunc()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.deps.config.HTTPServer.ShutdownTimeout)
	defer cancel()

	err := c.deps.infra.httpServer.Shutdown(shutdownCtx)
	if err != nil {
		err = fmt.Errorf("draining http server: %w", err)
	}

	c.cleanup(shutdownCtx)

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		return errors.Join(err, errors.New("graceful shutdown timed out"))
	}

	return err
}

// WaitForServer blocks until the http server is listening.
// The service must be created with WithWaitingForServer.
//
// Example:
//
//	srv := runtime.New(runtime.WithWaitingForServer())
//	go srv.Run()
//
//	srv.WaitForServer()
func (c *ServiceCtx) WaitForServer() {
	if c.serverReady != nil {
		<-c.serverReady
	}
}

func (c *ServiceCtx) cleanup(shutdownCtx context.Context) {
	c.deps.infra.logger.Info().Msg("cleaning up resources...")
	c.deps.releaseAll(shutdownCtx)
	c.deps.infra.logger.Info().Msg("cleanup completed")
}
