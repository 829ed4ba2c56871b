package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Ani07-05/brickdash/pkg/config"
	"github.com/Ani07-05/brickdash/pkg/logger"
)

// Server wraps http.Server with the app's timeouts and graceful shutdown.
type Server struct {
	httpServer *http.Server
	logg       *logger.Logger
	shutdown   time.Duration
}

func NewServer(cfg *config.Config, handler http.Handler, logg *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.App.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logg:     logg,
		shutdown: cfg.App.ShutdownTimeout,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if s.logg != nil {
		s.logg.Info(context.Background(), "shutting down http server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
