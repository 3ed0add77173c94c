package ptybackend

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// DefaultWriteTimeout bounds how long Write waits before reporting
// ErrWriteTimeout, grounded on the teacher's WritePTY hang-detection
// pattern (spec §4.3 determinism boundary: the block is on a real OS
// pipe, not engine logic, so a wall-clock bound here is the hang
// detector itself, not a correctness dependency).
const DefaultWriteTimeout = 5 * time.Second

// UnixBackend is the sole concrete Backend, implemented against
// github.com/creack/pty (spec §4.3 supplement).
type UnixBackend struct {
	cmd  *exec.Cmd
	ptmx *os.File

	writeTimeout time.Duration

	readCh chan []byte
	errCh  chan error

	mu           sync.Mutex
	pending      []byte
	eofDelivered bool
	eofPending   bool

	waitOnce   sync.Once
	waitDone   chan struct{}
	waitStatus WaitStatus

	closeOnce sync.Once
}

// New returns a Backend ready to Spawn. writeTimeout <= 0 uses
// DefaultWriteTimeout.
func New(writeTimeout time.Duration) *UnixBackend {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &UnixBackend{
		writeTimeout: writeTimeout,
		readCh:       make(chan []byte, 64),
		errCh:        make(chan error, 1),
		waitDone:     make(chan struct{}),
	}
}

func (b *UnixBackend) Spawn(command string, args []string, extraEnv map[string]string, size Size) error {
	b.cmd = exec.Command(command, args...)
	b.cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if len(extraEnv) > 0 {
		env := make([]string, 0, len(os.Environ())+len(extraEnv))
		for _, e := range os.Environ() {
			key := e
			if idx := strings.Index(e, "="); idx >= 0 {
				key = e[:idx]
			}
			if _, override := extraEnv[key]; !override {
				env = append(env, e)
			}
		}
		for k, v := range extraEnv {
			env = append(env, k+"="+v)
		}
		b.cmd.Env = env
	}

	ptmx, err := pty.StartWithSize(b.cmd, &pty.Winsize{
		Rows: uint16(size.Rows),
		Cols: uint16(size.Cols),
	})
	if err != nil {
		return &SpawnError{Command: command, Err: err}
	}
	b.ptmx = ptmx

	go b.readLoop()
	go b.waitLoop()
	return nil
}

// readLoop feeds PTY output into a buffered channel so Read can drain it
// without blocking, budgeted by the scheduler (spec §4.3, grounded on
// the e2e session.go readLoop pattern).
func (b *UnixBackend) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := b.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			b.readCh <- chunk
		}
		if err != nil {
			b.errCh <- err
			return
		}
	}
}

func (b *UnixBackend) waitLoop() {
	defer close(b.waitDone)
	err := b.cmd.Wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.waitStatus = WaitStatus{State: StatusExited, ExitCode: 0}
		return
	}
	var exitErr *exec.ExitError
	if ok := asExitError(err, &exitErr); ok {
		ws := exitErr.Sys().(syscall.WaitStatus)
		if ws.Signaled() {
			b.waitStatus = WaitStatus{
				State:      StatusSignaled,
				Signal:     int(ws.Signal()),
				SignalName: ws.Signal().String(),
			}
			return
		}
		b.waitStatus = WaitStatus{State: StatusExited, ExitCode: ws.ExitStatus()}
		return
	}
	b.waitStatus = WaitStatus{State: StatusExited, ExitCode: -1}
}

func asExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}

func (b *UnixBackend) Write(p []byte) (int, error) {
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := b.ptmx.Write(p)
		ch <- result{n, err}
	}()
	timer := time.NewTimer(b.writeTimeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		return r.n, r.err
	case <-timer.C:
		return 0, ErrWriteTimeout
	}
}

// Read drains whatever output is ready right now, up to budget bytes,
// without blocking on the PTY (spec §4.3 determinism boundary).
func (b *UnixBackend) Read(budget int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.pending) == 0 {
		b.drainAvailable()
	}

	if len(b.pending) == 0 {
		if b.eofPending && !b.eofDelivered {
			b.eofDelivered = true
			return nil, ErrEOF
		}
		return nil, nil
	}

	if budget <= 0 || budget >= len(b.pending) {
		out := b.pending
		b.pending = nil
		return out, nil
	}
	out := b.pending[:budget]
	b.pending = b.pending[budget:]
	return out, nil
}

func (b *UnixBackend) drainAvailable() {
	for {
		select {
		case chunk := <-b.readCh:
			b.pending = append(b.pending, chunk...)
		case <-b.errCh:
			b.eofPending = true
			return
		default:
			return
		}
	}
}

func (b *UnixBackend) Resize(size Size) error {
	if err := pty.Setsize(b.ptmx, &pty.Winsize{
		Rows: uint16(size.Rows),
		Cols: uint16(size.Cols),
	}); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	// pty.Setsize's TIOCSWINSZ ioctl makes the kernel deliver SIGWINCH to
	// the foreground process group; an explicit send covers the case
	// where the child hasn't yet claimed the controlling terminal.
	return b.signalProcessGroup(syscall.SIGWINCH)
}

func (b *UnixBackend) SendSignal(sig Signal) error {
	return b.signalProcessGroup(toSyscallSignal(sig))
}

func (b *UnixBackend) signalProcessGroup(sig syscall.Signal) error {
	if b.cmd == nil || b.cmd.Process == nil {
		return nil
	}
	pgid, err := syscall.Getpgid(b.cmd.Process.Pid)
	if err != nil {
		return b.cmd.Process.Signal(sig)
	}
	return syscall.Kill(-pgid, sig)
}

func toSyscallSignal(sig Signal) syscall.Signal {
	switch sig {
	case SIGINT:
		return syscall.SIGINT
	case SIGTERM:
		return syscall.SIGTERM
	case SIGKILL:
		return syscall.SIGKILL
	case SIGSTOP:
		return syscall.SIGSTOP
	case SIGCONT:
		return syscall.SIGCONT
	case SIGHUP:
		return syscall.SIGHUP
	default:
		return syscall.SIGTERM
	}
}

func (b *UnixBackend) WaitStatus() WaitStatus {
	select {
	case <-b.waitDone:
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.waitStatus
	default:
		return WaitStatus{State: StatusAlive}
	}
}

// Close idempotently kills the child (if still alive) and closes the PTY
// master, guaranteeing no orphan descriptors or zombies (spec §4.3).
func (b *UnixBackend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		if b.cmd != nil && b.cmd.Process != nil {
			if b.WaitStatus().State == StatusAlive {
				_ = b.signalProcessGroup(syscall.SIGKILL)
			}
		}
		if b.ptmx != nil {
			err = b.ptmx.Close()
		}
		if b.cmd != nil {
			<-b.waitDone
		}
	})
	return err
}
