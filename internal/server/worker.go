package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/libp2p/go-reuseport"
	"github.com/sirupsen/logrus"

	"users-api/internal/config"
	apphttp "users-api/internal/http"
	"users-api/internal/repository"
	"users-api/internal/repository/memory"
	"users-api/internal/repository/sqlite"
	"users-api/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Worker is one HTTP server process with its own record store.
type Worker struct {
	logger *logrus.Logger
	server *http.Server
	db     *sql.DB
}

// NewWorker builds an empty record store of the configured driver and the
// router serving it.
func NewWorker(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*Worker, error) {
	if logger == nil {
		logger = logrus.New()
	}
	w := &Worker{logger: logger}

	repo, err := w.openRepository(ctx, cfg.Store.Driver)
	if err != nil {
		w.Close()
		return nil, err
	}

	router := gin.New()
	apphttp.NewHandler(service.NewUserService(repo), logger).RegisterRoutes(router)

	w.server = &http.Server{
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout,
	}
	return w, nil
}

func (w *Worker) openRepository(ctx context.Context, driver string) (repository.UserRepository, error) {
	var repo repository.UserRepository
	switch driver {
	case config.StoreMemory, "":
		repo = memory.NewUserRepository()
	case config.StoreSQLite:
		db, err := sqlite.Open()
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		w.db = db
		repo = sqlite.NewUserRepository(db)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}

	if err := repo.Init(ctx); err != nil {
		return nil, fmt.Errorf("init user repository: %w", err)
	}
	return repo, nil
}

// Handler exposes the worker's router.
func (w *Worker) Handler() http.Handler {
	return w.server.Handler
}

// Serve accepts connections on ln until ctx is cancelled, then shuts the
// server down gracefully.
func (w *Worker) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		w.logger.Infof("worker %d listening on %s", os.Getpid(), ln.Addr())
		if err := w.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	w.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := w.server.Shutdown(shutdownCtx); err != nil {
		w.logger.Warnf("http shutdown: %v", err)
	}
	return nil
}

// Close releases the record store.
func (w *Worker) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}

// Listen binds addr with SO_REUSEPORT so that every worker can bind the same
// port and the kernel spreads connections across them.
func Listen(addr string) (net.Listener, error) {
	if !reuseport.Available() {
		return nil, errors.New("SO_REUSEPORT is not available on this platform")
	}
	ln, err := reuseport.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

// Run boots a worker on cfg.Addr() and serves until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	worker, err := NewWorker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer worker.Close()

	ln, err := Listen(cfg.Addr())
	if err != nil {
		return err
	}
	return worker.Serve(ctx, ln)
}
