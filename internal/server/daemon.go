package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"atelier/internal/config"
	"atelier/internal/logging"
	"atelier/internal/store"
)

// Daemon ties the store and HTTP server together and enforces single-instance
// execution through a lock file.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  store.Store
	server *Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status is the payload served on GET /api/status.
type Status struct {
	Running      bool   `json:"running"`
	PID          int    `json:"pid"`
	StoreBackend string `json:"storeBackend"`
	DataDir      string `json:"dataDir"`
	UploadDir    string `json:"uploadDir"`
	LockFilePath string `json:"lockFilePath"`
	Address      string `json:"address"`
}

// NewDaemon constructs a daemon with initialized dependencies.
func NewDaemon(cfg *config.Config, st store.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "atelierd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	srv, err := New(cfg, st, logger, func(ctx context.Context) any {
		return d.Status()
	})
	if err != nil {
		return nil, err
	}
	d.server = srv
	return d, nil
}

// Start acquires the daemon lock and begins serving.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another atelier daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.server.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("atelier daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.server.Addr()))
	return nil
}

// Stop shuts down the server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("atelier daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr returns the bound API address once started.
func (d *Daemon) Addr() string {
	return d.server.Addr()
}

// Status reports current runtime information.
func (d *Daemon) Status() Status {
	backend := d.cfg.Store.Backend
	if backend == "" {
		backend = "memory"
	}
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		StoreBackend: backend,
		DataDir:      d.cfg.Paths.DataDir,
		UploadDir:    d.cfg.Paths.UploadDir,
		LockFilePath: d.lockPath,
		Address:      d.server.Addr(),
	}
}
