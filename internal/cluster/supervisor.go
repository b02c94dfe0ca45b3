package cluster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNoWorkers is returned by Run when no worker process is left running.
var ErrNoWorkers = errors.New("no worker processes running")

type Config struct {
	// Workers is the number of worker processes; zero means one per CPU.
	Workers         int
	ShutdownTimeout time.Duration
	Logger          *logrus.Logger
}

// Supervisor is the coordinator process. It keeps Workers processes
// running, replacing every worker that exits immediately and without
// backoff. Workers share nothing with the coordinator or each other.
type Supervisor struct {
	cfg     Config
	spawner Spawner
	live    map[int]Process
	exits   chan workerExit
}

type workerExit struct {
	pid int
	err error
}

func NewSupervisor(cfg Config, spawner Spawner) *Supervisor {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Supervisor{
		cfg:     cfg,
		spawner: spawner,
		live:    make(map[int]Process),
		exits:   make(chan workerExit),
	}
}

// Workers reports the configured worker count.
func (s *Supervisor) Workers() int {
	return s.cfg.Workers
}

// Run starts the workers and supervises them until ctx is cancelled, then
// terminates them. It returns ErrNoWorkers if no worker is running after a
// start or restart attempt.
func (s *Supervisor) Run(ctx context.Context) error {
	log := s.cfg.Logger
	log.Infof("coordinator started, pid %d", os.Getpid())
	log.Infof("starting %d workers", s.cfg.Workers)

	for i := 0; i < s.cfg.Workers; i++ {
		if err := s.spawn(ctx); err != nil {
			log.Errorf("spawn worker: %v", err)
		}
	}
	if len(s.live) == 0 {
		return ErrNoWorkers
	}

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case ex := <-s.exits:
			delete(s.live, ex.pid)
			log.WithField("pid", ex.pid).Warnf("worker exited (%v), restarting", exitReason(ex.err))
			// refill every slot, including ones lost to earlier failed restarts
			for len(s.live) < s.cfg.Workers {
				if err := s.spawn(ctx); err != nil {
					log.Errorf("restart worker: %v", err)
					if len(s.live) == 0 {
						return fmt.Errorf("%w: %v", ErrNoWorkers, err)
					}
					break
				}
			}
		}
	}
}

func (s *Supervisor) spawn(ctx context.Context) error {
	proc, err := s.spawner.Spawn(ctx)
	if err != nil {
		return err
	}
	pid := proc.Pid()
	s.live[pid] = proc
	s.cfg.Logger.WithField("pid", pid).Info("worker started")

	go func() {
		err := proc.Wait()
		s.exits <- workerExit{pid: pid, err: err}
	}()
	return nil
}

// shutdown sends SIGTERM to every live worker and waits for them to exit,
// killing the ones still running after ShutdownTimeout.
func (s *Supervisor) shutdown() {
	log := s.cfg.Logger
	log.Infof("stopping %d workers", len(s.live))

	for pid, proc := range s.live {
		if err := proc.Signal(syscall.SIGTERM); err != nil {
			log.WithField("pid", pid).Warnf("signal worker: %v", err)
		}
	}

	timer := time.NewTimer(s.cfg.ShutdownTimeout)
	defer timer.Stop()

	for len(s.live) > 0 {
		select {
		case ex := <-s.exits:
			delete(s.live, ex.pid)
			log.WithField("pid", ex.pid).Debugf("worker stopped (%v)", exitReason(ex.err))
		case <-timer.C:
			for pid, proc := range s.live {
				log.WithField("pid", pid).Warn("worker did not stop in time, killing")
				_ = proc.Signal(os.Kill)
			}
			// wait goroutines still deliver their exits
			for len(s.live) > 0 {
				ex := <-s.exits
				delete(s.live, ex.pid)
			}
		}
	}
	log.Info("all workers stopped")
}

func exitReason(err error) string {
	if err == nil {
		return "exit status 0"
	}
	return err.Error()
}
