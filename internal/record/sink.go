// Package record persists processed audio blocks to a WAV file through a
// bounded queue, keeping all file I/O off the real-time audio thread.
package record

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/clearvoice/superhear/internal/conf"
	"github.com/clearvoice/superhear/internal/errors"
	"github.com/clearvoice/superhear/internal/observability"
)

// DefaultQueueDepth is the number of blocks the recording queue buffers
// before the producer starts replacing the oldest pending block.
const DefaultQueueDepth = 64

// job is one recording session: target file, encoder, bounded queue and
// the writer goroutine draining it. It exists from Start to Stop.
type job struct {
	path  string
	file  *os.File
	enc   *wav.Encoder
	queue chan []float64
	stop  chan struct{}
	wg    sync.WaitGroup

	// scratch int buffer reused by the writer for PCM conversion
	intBuf []int
}

// Sink is the asynchronous recording sink. The audio thread is the sole
// producer (Enqueue); a dedicated writer goroutine is the sole consumer.
// Enqueue never blocks: when the queue is full the oldest pending block is
// dropped so backpressure cannot propagate into the real-time path.
type Sink struct {
	sampleRate int
	queueDepth int

	logger  *slog.Logger
	metrics *observability.PipelineMetrics

	mu      sync.Mutex // serializes Start/Stop from control threads
	current atomic.Pointer[job]

	pool sync.Pool // recycles block copies between Enqueue and the writer
}

// NewSink creates a sink for the given session sample rate. metrics and
// logger may be nil.
func NewSink(sampleRate int, metrics *observability.PipelineMetrics, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		sampleRate: sampleRate,
		queueDepth: DefaultQueueDepth,
		logger:     logger.With("component", "recording_sink"),
		metrics:    metrics,
	}
}

// DefaultFilePath returns a timestamped WAV filename inside dir.
func DefaultFilePath(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("recording_%s.wav", time.Now().Format("20060102_150405")))
}

// Start opens the WAV target and spins the writer goroutine. Starting an
// already recording sink is a no-op.
func (s *Sink) Start(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Load() != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		if s.metrics != nil {
			s.metrics.RecordRecordingError("open")
		}
		return errors.New(err).
			Component(errors.ComponentRecord).
			Category(errors.CategoryFileIO).
			Context("operation", "start_recording").
			Context("path", path).
			Build()
	}

	file, err := os.Create(path)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordRecordingError("open")
		}
		return errors.New(err).
			Component(errors.ComponentRecord).
			Category(errors.CategoryFileIO).
			Context("operation", "start_recording").
			Context("path", path).
			Build()
	}

	j := &job{
		path:  path,
		file:  file,
		enc:   wav.NewEncoder(file, s.sampleRate, conf.BitDepth, conf.NumChannels, 1),
		queue: make(chan []float64, s.queueDepth),
		stop:  make(chan struct{}),
	}

	j.wg.Add(1)
	go s.writeLoop(j)

	s.current.Store(j)
	s.logger.Info("recording started", "path", path)
	return nil
}

// Stop signals the writer, waits until every block already queued has been
// written, and finalizes the WAV file. Stopping a stopped sink is a no-op.
func (s *Sink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j := s.current.Swap(nil)
	if j == nil {
		return nil
	}

	close(j.stop)
	j.wg.Wait()

	var firstErr error
	if err := j.enc.Close(); err != nil {
		firstErr = errors.New(err).
			Component(errors.ComponentRecord).
			Category(errors.CategoryFileIO).
			Context("operation", "finalize_recording").
			Context("path", j.path).
			Build()
		if s.metrics != nil {
			s.metrics.RecordRecordingError("finalize")
		}
	}
	if err := j.file.Close(); err != nil && firstErr == nil {
		firstErr = errors.New(err).
			Component(errors.ComponentRecord).
			Category(errors.CategoryFileIO).
			Context("operation", "finalize_recording").
			Context("path", j.path).
			Build()
	}

	s.logger.Info("recording stopped", "path", j.path)
	return firstErr
}

// Active reports whether a recording job is in flight.
func (s *Sink) Active() bool {
	return s.current.Load() != nil
}

// Enqueue copies block and pushes the copy onto the recording queue without
// ever blocking. When recording is inactive it is a cheap no-op. When the
// queue is full, the oldest pending block is dropped to make room.
func (s *Sink) Enqueue(block []float64) {
	j := s.current.Load()
	if j == nil {
		return
	}

	buf := s.getBuffer(len(block))
	copy(buf, block)

	select {
	case j.queue <- buf:
		return
	default:
	}

	// Queue full: evict the oldest pending block, then retry once. If the
	// writer won the race for the last slot the new block is dropped
	// instead; either way exactly one block is lost and nothing blocks.
	select {
	case old := <-j.queue:
		s.putBuffer(old)
		if s.metrics != nil {
			s.metrics.RecordRecordingBlockDropped()
		}
	default:
	}

	select {
	case j.queue <- buf:
	default:
		s.putBuffer(buf)
		if s.metrics != nil {
			s.metrics.RecordRecordingBlockDropped()
		}
	}
}

// writeLoop drains the queue into the WAV encoder. After a stop signal it
// writes out everything still queued before returning, so a graceful stop
// loses no audio. A write failure abandons the job: remaining blocks are
// discarded and the sink reverts to stopped.
func (s *Sink) writeLoop(j *job) {
	defer j.wg.Done()

	for {
		select {
		case block := <-j.queue:
			if !s.writeBlock(j, block) {
				s.drainDiscard(j)
				return
			}
		case <-j.stop:
			for {
				select {
				case block := <-j.queue:
					if !s.writeBlock(j, block) {
						s.drainDiscard(j)
						return
					}
				default:
					return
				}
			}
		}
	}
}

// writeBlock converts one block to 16-bit PCM and appends it to the file.
// It reports false when the encoder failed and the job should be abandoned.
func (s *Sink) writeBlock(j *job, block []float64) bool {
	if cap(j.intBuf) < len(block) {
		j.intBuf = make([]int, len(block))
	}
	j.intBuf = j.intBuf[:len(block)]

	for i, sample := range block {
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		j.intBuf[i] = int(int16(sample * 32767.0))
	}
	s.putBuffer(block)

	err := j.enc.Write(&audio.IntBuffer{
		Data:   j.intBuf,
		Format: &audio.Format{SampleRate: s.sampleRate, NumChannels: conf.NumChannels},
	})
	if err != nil {
		s.logger.Error("recording write failed, stopping recording", "error", err, "path", j.path)
		if s.metrics != nil {
			s.metrics.RecordRecordingError("write")
		}
		return false
	}

	if s.metrics != nil {
		s.metrics.RecordRecordingBlockWritten()
	}
	return true
}

// drainDiscard empties the queue after a write failure and detaches the
// job so Enqueue becomes a no-op again.
func (s *Sink) drainDiscard(j *job) {
	s.current.CompareAndSwap(j, nil)
	for {
		select {
		case block := <-j.queue:
			s.putBuffer(block)
		default:
			if err := j.file.Close(); err != nil {
				s.logger.Debug("closing failed recording file", "error", err)
			}
			return
		}
	}
}

func (s *Sink) getBuffer(n int) []float64 {
	if v := s.pool.Get(); v != nil {
		buf := v.([]float64)
		if cap(buf) >= n {
			return buf[:n]
		}
	}
	return make([]float64, n)
}

func (s *Sink) putBuffer(buf []float64) {
	s.pool.Put(buf[:0])
}
