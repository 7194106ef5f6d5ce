// pattern: Imperative Shell

// Package backend supervises the local research backend process and reports
// its health. The backend owns all content semantics (chat, findings,
// timeline data); this package only keeps it alive and observable.
package backend

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/creack/pty"

	"notebench/internal/logging"
)

// RestartPolicy controls when the backend is restarted after exit.
type RestartPolicy int

const (
	Never     RestartPolicy = iota // never restart
	OnFailure                      // restart only on non-zero exit
	Always                         // always restart (unless Stop is called)
)

// ParseRestartPolicy maps a config string to a policy, defaulting to
// OnFailure.
func ParseRestartPolicy(s string) RestartPolicy {
	switch s {
	case "never":
		return Never
	case "always":
		return Always
	default:
		return OnFailure
	}
}

// Config describes the backend process to supervise.
type Config struct {
	Command    string
	Args       []string
	RestartOn  RestartPolicy
	MaxRetries int
	RetryDelay time.Duration
}

// Supervisor manages the backend's lifecycle. The child runs under a pty so
// it keeps line discipline and color; output is streamed line-by-line into
// the structured log with escape sequences stripped.
type Supervisor struct {
	cfg    Config
	logger *logging.ScopedLogger

	mu      sync.Mutex
	cmd     *exec.Cmd
	running bool
	stopped bool
	done    chan struct{}
}

// NewSupervisor creates a backend supervisor.
func NewSupervisor(cfg Config, logger *logging.ScopedLogger) *Supervisor {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	return &Supervisor{
		cfg:    cfg,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start launches the backend in a goroutine. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("backend: already running")
	}
	if s.cfg.Command == "" {
		s.mu.Unlock()
		return errors.New("backend: no command configured")
	}
	s.running = true
	s.mu.Unlock()

	go s.run(ctx)
	return nil
}

// Stop sends SIGTERM and waits up to 5 seconds, then SIGKILL. Safe to call
// without a prior Start.
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	s.stopped = true
	if !s.running && s.cmd == nil {
		// Never started: the run goroutine that closes done does not
		// exist, so there is nothing to wait for.
		s.mu.Unlock()
		return nil
	}
	cmd := s.cmd
	s.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		<-s.done
		return nil
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Already gone.
		<-s.done
		return nil
	}

	select {
	case <-s.done:
		return nil
	case <-time.After(5 * time.Second):
	}

	s.mu.Lock()
	cmd = s.cmd
	s.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}

	<-s.done
	return nil
}

// Done returns a channel closed when the supervisor exits for good.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

// Running reports whether the backend process is currently alive.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Supervisor) run(ctx context.Context) {
	defer close(s.done)
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	retries := 0
	for {
		err := s.runOnce(ctx)

		s.mu.Lock()
		stopped := s.stopped
		s.mu.Unlock()
		if stopped || ctx.Err() != nil {
			return
		}

		switch s.cfg.RestartOn {
		case Never:
			return
		case OnFailure:
			if err == nil {
				return
			}
		}

		retries++
		if retries > s.cfg.MaxRetries {
			s.logger.Error("backend gave up restarting",
				"retries", s.cfg.MaxRetries, "error", err)
			return
		}

		s.logger.Warn("backend exited, restarting",
			"attempt", retries, "delay", s.cfg.RetryDelay.String(), "error", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cfg.RetryDelay):
		}
	}
}

// runOnce starts the process and blocks until it exits, streaming its pty
// output into the log.
func (s *Supervisor) runOnce(ctx context.Context) error {
	cmd := exec.Command(s.cfg.Command, s.cfg.Args...)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = ptmx.Close() }()

	s.mu.Lock()
	s.cmd = cmd
	s.mu.Unlock()

	s.logger.Info("backend started", "command", s.cfg.Command, "pid", cmd.Process.Pid)

	// Kill the child if the surrounding context is cancelled mid-run.
	ctxDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = cmd.Process.Signal(syscall.SIGTERM)
		case <-ctxDone:
		}
	}()
	defer close(ctxDone)

	scanner := bufio.NewScanner(ptmx)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := ansi.Strip(scanner.Text())
		if line != "" {
			s.logger.Info(line)
		}
	}
	// The pty read errors with EIO when the child exits; Wait has the truth.

	err = cmd.Wait()

	s.mu.Lock()
	s.cmd = nil
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("backend exited", "error", err)
	} else {
		s.logger.Info("backend exited cleanly")
	}
	return err
}
