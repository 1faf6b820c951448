// cmd/arena/replay.go
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/opd-ai/go-breakout/pkg/replay"
)

// replaySink buffers a Recorder's frames in front of its destination
type replaySink struct {
	*replay.Recorder
	w   *bufio.Writer
	dst io.Closer
}

func newReplaySink(dst io.WriteCloser) *replaySink {
	w := bufio.NewWriter(dst)
	return &replaySink{Recorder: replay.NewRecorder(w), w: w, dst: dst}
}

func createReplay(path string) (*replaySink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create replay file: %w", err)
	}
	return newReplaySink(f), nil
}

// Close detaches the recorder, flushes the buffer and closes the
// destination. The destination is closed even when an earlier step fails,
// and the first error is returned.
func (s *replaySink) Close() error {
	err := s.Recorder.Close()
	if ferr := s.w.Flush(); err == nil && ferr != nil {
		err = fmt.Errorf("failed to flush replay: %w", ferr)
	}
	if cerr := s.dst.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close replay file: %w", cerr)
	}
	return err
}
