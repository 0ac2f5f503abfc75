package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/reetreev/dashboard/internal/config"
)

// Server runs the dashboard's HTTP surface and drains in-flight requests
// when its context is canceled.
type Server struct {
	addr            string
	shutdownTimeout time.Duration
	handler         http.Handler
	logger          *slog.Logger
}

func New(cfg config.Config, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		addr:            net.JoinHostPort("", cfg.HTTPPort),
		shutdownTimeout: cfg.ShutdownTimeout,
		handler:         handler,
		logger:          logger,
	}
}

// Run blocks until the context is canceled and the listener has drained,
// or until serving fails outright.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.addr,
		Handler: s.handler,
	}

	go func() {
		<-ctx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(drainCtx); err != nil {
			s.logger.Error("shutdown did not drain cleanly", slog.Any("error", err))
		}
	}()

	s.logger.Info("dashboard listening", slog.String("addr", s.addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
