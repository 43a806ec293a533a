package logging

import (
	"io"
	"os"
	"sync"
)

// swapWriter forwards writes to a target that can be replaced while loggers
// hold on to it. Every logger writing to stderr shares one instance.
type swapWriter struct {
	mu     sync.RWMutex
	target io.Writer
}

func (s *swapWriter) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target.Write(p)
}

func (s *swapWriter) swap(w io.Writer) io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.target
	s.target = w
	return prev
}

var stderrSink = &swapWriter{target: os.Stderr}

// SetGlobalOutput redirects the stderr output of every logger to w, or back
// to os.Stderr when w is nil. The returned func restores the previous target.
//
//	restore := logging.SetGlobalOutput(&buf)
//	defer restore()
func SetGlobalOutput(w io.Writer) (restore func()) {
	if w == nil {
		w = os.Stderr
	}
	prev := stderrSink.swap(w)
	return func() { stderrSink.swap(prev) }
}

// GetGlobalOutput returns the shared writer loggers use for stderr.
func GetGlobalOutput() io.Writer {
	return stderrSink
}
