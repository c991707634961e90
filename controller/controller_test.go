package controller

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mtx sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.buf.String()
}

// fakePort reads firmware output from a pipe and records what the host writes
type fakePort struct {
	r       *io.PipeReader
	written syncBuffer
	closed  bool
}

func (p *fakePort) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *fakePort) Write(b []byte) (int, error) { return p.written.Write(b) }

func (p *fakePort) Close() error {
	p.closed = true
	return p.r.Close()
}

func newFakePort(t *testing.T) (*fakePort, *io.PipeWriter) {
	t.Helper()
	r, w := io.Pipe()
	t.Cleanup(func() { w.Close() })
	return &fakePort{r: r}, w
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRun(t *testing.T) {
	port, firmware := newFakePort(t)
	c := newController(port)

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}

	done := make(chan error)
	go func() {
		done <- c.Run(ctx, strings.NewReader("d\n\n v \nH\n"), out)
	}()

	expectedOut := "[-] state=Calibrating signal=Lost\r\n"
	_, err := firmware.Write([]byte(expectedOut))
	if err != nil {
		t.Fatalf("unexpected error writing firmware output: %v", err)
	}

	waitFor(t, func() bool {
		return out.String() == expectedOut && port.written.String() == "DVH"
	})

	cancel()
	err = <-done
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunSerialClosed(t *testing.T) {
	port, firmware := newFakePort(t)
	c := newController(port)

	done := make(chan error)
	go func() {
		done <- c.Run(context.Background(), strings.NewReader(""), io.Discard)
	}()

	firmware.Close()

	err := <-done
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestSend(t *testing.T) {
	tests := []struct {
		name     string
		in       []string
		expected string
	}{
		{"Single", []string{"D"}, "D"},
		{"Lowercase", []string{"v"}, "V"},
		{"Whitespace", []string{"  d\t"}, "D"},
		{"Empty", []string{"", " "}, ""},
		{"Many", []string{"d", "V", "h"}, "DVH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port, _ := newFakePort(t)
			c := newController(port)

			for _, cmd := range tt.in {
				err := c.Send(cmd)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			if port.written.String() != tt.expected {
				t.Errorf("expected=%q, got=%q", tt.expected, port.written.String())
			}
		})
	}
}

func TestNewWithoutPort(t *testing.T) {
	for _, name := range []string{"", SerialPortNone} {
		_, err := New(Config{SerialPort: name, BaudRate: 115200})
		if !errors.Is(err, ErrNoPort) {
			t.Errorf("expected ErrNoPort for %q, got %v", name, err)
		}
	}
}

func TestClose(t *testing.T) {
	port, _ := newFakePort(t)
	c := newController(port)

	err := c.Close()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !port.closed {
		t.Error("expected port to be closed")
	}
}
