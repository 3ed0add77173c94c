package ptybackend

import (
	"bytes"
	"testing"
	"time"
)

func TestSpawnWriteReadWait(t *testing.T) {
	b := New(time.Second)
	if err := b.Spawn("/bin/echo", []string{"hello"}, nil, Size{Cols: 80, Rows: 24}); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	defer b.Close()

	var out []byte
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		chunk, err := b.Read(4096)
		if len(chunk) > 0 {
			out = append(out, chunk...)
		}
		if err == ErrEOF {
			break
		}
		if b.WaitStatus().State != StatusAlive && len(chunk) == 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !bytes.Contains(out, []byte("hello")) {
		t.Fatalf("output = %q, want it to contain %q", out, "hello")
	}
}

func TestSpawnBadCommandReturnsSpawnError(t *testing.T) {
	b := New(time.Second)
	err := b.Spawn("/no/such/binary-xyz", nil, nil, Size{Cols: 80, Rows: 24})
	if err == nil {
		t.Fatalf("expected an error spawning a nonexistent binary")
	}
	if _, ok := err.(*SpawnError); !ok {
		t.Fatalf("error type = %T, want *SpawnError", err)
	}
}

func TestSendSignalTerminatesChild(t *testing.T) {
	b := New(time.Second)
	if err := b.Spawn("/bin/sleep", []string{"30"}, nil, Size{Cols: 80, Rows: 24}); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	defer b.Close()

	if err := b.SendSignal(SIGTERM); err != nil {
		t.Fatalf("send signal: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.WaitStatus().State != StatusAlive {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("child did not terminate after SIGTERM")
}

func TestResizeDoesNotError(t *testing.T) {
	b := New(time.Second)
	if err := b.Spawn("/bin/sleep", []string{"5"}, nil, Size{Cols: 80, Rows: 24}); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	defer b.Close()

	if err := b.Resize(Size{Cols: 40, Rows: 10}); err != nil {
		t.Fatalf("resize: %v", err)
	}
}
