package capture

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

type fakeStream struct {
	kinds  []Kind
	level  byte
	pcm    io.Reader
	closed atomic.Int32
	reads  atomic.Int32
}

func (s *fakeStream) Kinds() []Kind { return s.kinds }

func (s *fakeStream) FrequencyData(dst []byte) int {
	s.reads.Add(1)
	for i := range dst {
		dst[i] = s.level
	}
	return len(dst)
}

func (s *fakeStream) Close() error {
	s.closed.Add(1)
	return nil
}

type pcmStream struct {
	*fakeStream
}

func (s pcmStream) PCM() io.Reader { return s.pcm }

type fakeMedia struct {
	mu       sync.Mutex
	calls    int
	requests []Request
	stream   Stream
	err      error
	gate     chan struct{}
}

func (m *fakeMedia) Acquire(ctx context.Context, req Request) (Stream, error) {
	m.mu.Lock()
	m.calls++
	m.requests = append(m.requests, req)
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.stream, nil
}

func (m *fakeMedia) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type fakeRecognizer struct {
	segments []string
	err      error
	calls    atomic.Int32
	stops    atomic.Int32
}

func (r *fakeRecognizer) Recognize(_ context.Context, _ io.Reader, onFinal func(string)) (Recognition, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	for _, segment := range r.segments {
		onFinal(segment)
	}
	return recognitionFunc(func() error {
		r.stops.Add(1)
		return nil
	}), nil
}

type recognitionFunc func() error

func (f recognitionFunc) Stop() error { return f() }

type fakePreview struct {
	attached atomic.Int32
	detached atomic.Int32
}

func (p *fakePreview) Attach([]Kind) { p.attached.Add(1) }
func (p *fakePreview) Detach()       { p.detached.Add(1) }

type noticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

func (l *noticeLog) add(n Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, n)
}

func (l *noticeLog) kinds() []NoticeKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]NoticeKind, 0, len(l.notices))
	for _, n := range l.notices {
		out = append(out, n.Kind)
	}
	return out
}

var errDenied = errors.Join(ErrPermissionDenied, errors.New("user dismissed prompt"))

func newPCMStream(level byte, kinds ...Kind) pcmStream {
	return pcmStream{&fakeStream{kinds: kinds, level: level, pcm: strings.NewReader("")}}
}
