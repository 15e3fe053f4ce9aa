package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// fanoutWriter writes every line to all sinks under one lock so lines never interleave.
type fanoutWriter struct {
	mu     sync.Mutex
	sinks  []*bufio.Writer
	closed bool
	err    error
}

func newFanoutWriter(writers []io.Writer, bufSize int) *fanoutWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	w := &fanoutWriter{}
	for _, out := range writers {
		if out != nil {
			w.sinks = append(w.sinks, bufio.NewWriterSize(out, bufSize))
		}
	}
	return w
}

// Write sends one formatted line to every sink and flushes it.
// The first sink error is sticky and returned from all later calls.
func (w *fanoutWriter) Write(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	if w.closed {
		return errWriterClosed
	}
	for _, sink := range w.sinks {
		if _, err := sink.Write(p); err != nil {
			w.err = err
			return err
		}
		if err := sink.Flush(); err != nil {
			w.err = err
			return err
		}
	}
	return nil
}

// Flush flushes all sinks.
func (w *fanoutWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, sink := range w.sinks {
		if err := sink.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close flushes and rejects further writes. It reports the first write error seen.
func (w *fanoutWriter) Close() error {
	flushErr := w.Flush()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return errors.Join(w.err, flushErr)
}

var errWriterClosed = errors.New("logger: writer closed")
