// Package replay streams arena events to a compact msgpack log and reads
// them back.
package replay

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/opd-ai/go-breakout/pkg/entity"
	"github.com/opd-ai/go-breakout/pkg/event"
)

// Frame is one recorded event
type Frame struct {
	Arena    int       `msgpack:"arena"`
	Tick     uint64    `msgpack:"tick"`
	Kind     string    `msgpack:"kind"`
	A        entity.ID `msgpack:"a,omitempty"`
	B        entity.ID `msgpack:"b,omitempty"`
	ContactX float64   `msgpack:"cx,omitempty"`
	ContactY float64   `msgpack:"cy,omitempty"`
}

// RecordedTypes lists every event type a Recorder captures
var RecordedTypes = append([]event.Type{
	event.BlockDestroyed,
	event.BallLost,
	event.BallThrown,
	event.ArenaReset,
	event.LevelCleared,
	event.GameOver,
}, event.CollisionTypes...)

// Recorder writes frames from any number of buses to one stream. It is
// safe to attach buses that publish from different goroutines.
type Recorder struct {
	mu     sync.Mutex
	enc    *msgpack.Encoder
	err    error
	frames int
	subs   []*event.Subscription
}

// NewRecorder creates a recorder writing to w
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: msgpack.NewEncoder(w)}
}

// Attach records every event published on bus, tagging frames with arena
// and the tick reported by clock at publish time.
func (r *Recorder) Attach(arena int, bus *event.Bus, clock func() uint64) {
	subs := bus.SubscribeMany(RecordedTypes, func(e event.Event) {
		r.Record(frameOf(arena, clock(), e))
	})
	r.mu.Lock()
	r.subs = append(r.subs, subs...)
	r.mu.Unlock()
}

func frameOf(arena int, tick uint64, e event.Event) Frame {
	f := Frame{Arena: arena, Tick: tick, Kind: string(e.GetType())}
	switch ev := e.(type) {
	case *event.CollisionEvent:
		f.A, f.B = ev.EntityA, ev.EntityB
		f.ContactX, f.ContactY = ev.Contact.X, ev.Contact.Y
	case *event.ItemEvent:
		f.A = ev.ItemID
	}
	return f
}

// Record writes one frame. After the first write error further frames are
// dropped and the error is reported by Err and Close.
func (r *Recorder) Record(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	if err := r.enc.Encode(&f); err != nil {
		r.err = fmt.Errorf("failed to encode replay frame: %w", err)
		return
	}
	r.frames++
}

// Frames returns the number of frames written
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Err returns the first write error
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close detaches from every bus and returns the first write error
func (r *Recorder) Close() error {
	r.mu.Lock()
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}
	return r.Err()
}

// Reader decodes frames written by a Recorder
type Reader struct {
	dec *msgpack.Decoder
}

// NewReader creates a reader over r
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: msgpack.NewDecoder(r)}
}

// Next returns the next frame, or io.EOF at the end of the stream
func (r *Reader) Next() (Frame, error) {
	var f Frame
	if err := r.dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("failed to decode replay frame: %w", err)
	}
	return f, nil
}

// ReadAll decodes every remaining frame
func ReadAll(r io.Reader) ([]Frame, error) {
	reader := NewReader(r)
	var frames []Frame
	for {
		f, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
}
