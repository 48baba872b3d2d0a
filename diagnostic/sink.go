package diagnostic

import (
	"io"
	"sync"
)

// Sink fans a line of evaluator output (message()/warning()/error()
// builtin text, or a rendered *Error) out to every writer registered
// for its stream, plus every writer registered for the catch-all stream
// "". The streams are "message", "warning" and "error", each evicting a
// writer on its first failed write; writers are plain io.Writer since
// the evaluator never needs to close them.
type Sink struct {
	mu      sync.Mutex
	streams map[string]map[io.Writer]struct{}
}

// NewSink returns an empty Sink.
func NewSink() *Sink {
	return &Sink{streams: make(map[string]map[io.Writer]struct{})}
}

// AddWriter registers w to receive every Write to stream, plus every
// Write regardless of stream if stream == "".
func (s *Sink) AddWriter(w io.Writer, stream string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streams[stream] == nil {
		s.streams[stream] = make(map[io.Writer]struct{})
	}
	s.streams[stream][w] = struct{}{}
}

// Write sends line to every writer registered for stream and every
// writer registered for "". A failing writer is evicted, matching
// BroadcastWriter.Write's eviction-on-error behavior.
func (s *Sink) Write(stream, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := []byte(line)
	keys := []string{stream}
	if stream != "" {
		keys = append(keys, "")
	}
	for _, key := range keys {
		writers, ok := s.streams[key]
		if !ok {
			continue
		}
		for w := range writers {
			if _, err := w.Write(b); err != nil {
				delete(writers, w)
			}
		}
	}
}
