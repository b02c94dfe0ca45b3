package cluster

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Process is a running worker.
type Process interface {
	Pid() int
	Wait() error
	Signal(sig os.Signal) error
}

// Spawner starts worker processes.
type Spawner interface {
	Spawn(ctx context.Context) (Process, error)
}

// ExecSpawner starts workers by executing Path with Args. Workers inherit
// the environment of the coordinator.
type ExecSpawner struct {
	Path   string
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
}

// SelfSpawner returns an ExecSpawner that re-executes the running binary.
func SelfSpawner(args ...string) (*ExecSpawner, error) {
	path, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	return &ExecSpawner{
		Path:   path,
		Args:   args,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, nil
}

func (s *ExecSpawner) Spawn(ctx context.Context) (Process, error) {
	cmd := exec.Command(s.Path, s.Args...)
	cmd.Env = os.Environ()
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start worker: %w", err)
	}
	return &execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Wait() error {
	return p.cmd.Wait()
}

func (p *execProcess) Signal(sig os.Signal) error {
	return p.cmd.Process.Signal(sig)
}
