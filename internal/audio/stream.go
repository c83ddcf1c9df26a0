package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"

	"github.com/rbright/mockprep/internal/capture"
)

const (
	sampleRate     = 16000
	chunkSizeBytes = 640 // 20ms @ 16kHz mono s16
)

// Stream is one open Pulse record stream feeding an Analyser and a PCM reader.
type Stream struct {
	device Device

	client *pulse.Client
	record *pulse.RecordStream

	analyser *Analyser
	chunks   chan []byte
	stopCh   chan struct{}
	reader   *chunkReader

	mu      sync.Mutex
	pending []byte
	stopped bool

	inflight sync.WaitGroup
	bytes    atomic.Int64
	dropped  atomic.Int64
}

func newStream(device Device) *Stream {
	s := &Stream{
		device:   device,
		analyser: NewAnalyser(),
		chunks:   make(chan []byte, 128),
		stopCh:   make(chan struct{}),
	}
	s.reader = &chunkReader{chunks: s.chunks}
	return s
}

// Open starts a 16kHz mono s16 record stream on device.
func Open(ctx context.Context, device Device) (*Stream, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	source, err := client.SourceByID(device.ID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("resolve source %q: %w", device.ID, err)
	}

	stream := newStream(device)
	stream.client = client

	writer := pulse.NewWriter(writerFunc(stream.onPCM), pulseproto.FormatInt16LE)
	record, err := client.NewRecord(
		writer,
		pulse.RecordSource(source),
		pulse.RecordMono,
		pulse.RecordSampleRate(sampleRate),
		pulse.RecordBufferFragmentSize(chunkSizeBytes),
		pulse.RecordMediaName("mockprep interview"),
	)
	if err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("create pulse record stream: %w", err)
	}

	stream.record = record
	record.Start()

	go func() {
		select {
		case <-ctx.Done():
			_ = stream.Close()
		case <-stream.stopCh:
		}
	}()

	return stream, nil
}

// Device returns the source backing the stream.
func (s *Stream) Device() Device {
	return s.device
}

// Kinds reports the tracks of the stream. Pulse provides audio only.
func (s *Stream) Kinds() []capture.Kind {
	return []capture.Kind{capture.KindAudio}
}

// FrequencyData fills dst with byte frequency magnitudes of the latest samples.
func (s *Stream) FrequencyData(dst []byte) int {
	return s.analyser.FrequencyData(dst)
}

// PCM returns the raw sample stream. It reaches io.EOF after Close.
func (s *Stream) PCM() io.Reader {
	return s.reader
}

// BytesCaptured reports total bytes accepted from Pulse.
func (s *Stream) BytesCaptured() int64 {
	return s.bytes.Load()
}

// Dropped reports PCM bytes discarded because no reader kept up.
func (s *Stream) Dropped() int64 {
	return s.dropped.Load()
}

// Close halts recording, flushes residual PCM, and closes the PCM stream exactly once.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	close(s.stopCh)
	s.mu.Unlock()

	if s.record != nil {
		s.record.Stop()
		s.record.Close()
	}
	if s.client != nil {
		s.client.Close()
	}

	s.inflight.Wait()

	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(pending) > 0 {
		select {
		case s.chunks <- pending:
		default:
			s.dropped.Add(int64(len(pending)))
		}
	}

	close(s.chunks)
	return nil
}

// onPCM receives Pulse frames, feeds the analyser, and emits fixed-size chunks.
func (s *Stream) onPCM(buffer []byte) (int, error) {
	if len(buffer) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return 0, io.EOF
	}
	// Add under the same mutex as stopped so Close never races Wait.
	s.inflight.Add(1)

	s.pending = append(s.pending, buffer...)
	chunks := make([][]byte, 0, len(s.pending)/chunkSizeBytes)
	for len(s.pending) >= chunkSizeBytes {
		chunk := make([]byte, chunkSizeBytes)
		copy(chunk, s.pending[:chunkSizeBytes])
		s.pending = s.pending[chunkSizeBytes:]
		chunks = append(chunks, chunk)
	}
	s.mu.Unlock()
	defer s.inflight.Done()

	s.bytes.Add(int64(len(buffer)))
	s.analyser.WriteS16LE(buffer)

	for _, chunk := range chunks {
		select {
		case s.chunks <- chunk:
		default:
			s.dropped.Add(int64(len(chunk)))
		}
	}
	return len(buffer), nil
}

// chunkReader exposes a chunk channel as an io.Reader.
type chunkReader struct {
	chunks <-chan []byte
	rest   []byte
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.rest) == 0 {
		chunk, ok := <-r.chunks
		if !ok {
			return 0, io.EOF
		}
		r.rest = chunk
	}
	n := copy(p, r.rest)
	r.rest = r.rest[n:]
	return n, nil
}

// writerFunc adapts a function to io.Writer for pulse.NewWriter.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) {
	return f(b)
}

// Media grants Pulse microphone streams to the capture adapter.
type Media struct {
	Input    string
	Fallback string
	Logger   *slog.Logger
}

// Acquire selects an input device and opens a stream. Video is never granted.
func (m Media) Acquire(ctx context.Context, req capture.Request) (capture.Stream, error) {
	if !req.Audio {
		return nil, fmt.Errorf("video-only capture: %w", capture.ErrUnsupported)
	}

	selection, err := SelectDevice(ctx, m.Input, m.Fallback)
	if err != nil {
		if errors.Is(err, capture.ErrNoDevice) {
			return nil, err
		}
		return nil, errors.Join(capture.ErrUnsupported, err)
	}
	if selection.Warning != "" && m.Logger != nil {
		m.Logger.Warn("audio device fallback", "warning", selection.Warning)
	}

	stream, err := Open(ctx, selection.Device)
	if err != nil {
		return nil, errors.Join(capture.ErrPermissionDenied, err)
	}
	if m.Logger != nil {
		m.Logger.Info("audio stream open", "device", selection.Device.ID, "fallback", selection.Fallback)
	}
	return stream, nil
}
