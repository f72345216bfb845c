// Package transport moves audio between the capture/playback device and the
// signal chain. The miniaudio data callback only copies bytes in and out of
// ring buffers; block assembly and processing happen on a monitor goroutine
// so the device callback never does DSP or I/O.
package transport

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/smallnest/ringbuffer"

	"github.com/clearvoice/superhear/internal/conf"
	"github.com/clearvoice/superhear/internal/errors"
	"github.com/clearvoice/superhear/internal/pipeline"
	"github.com/clearvoice/superhear/internal/record"
)

const (
	// pollInterval is how often the monitor goroutine checks the input
	// ring for complete blocks.
	pollInterval = 2 * time.Millisecond

	// ringBlocks is the ring buffer capacity in processing blocks. It
	// bounds the latency the transport can accumulate before dropping.
	ringBlocks = 16
)

// Engine owns the duplex audio device and the goroutine that feeds captured
// blocks through the signal chain back to the playback side.
type Engine struct {
	sampleRate int
	blockSize  int
	deviceName string
	debug      bool

	chain *pipeline.SignalChain
	sink  *record.Sink

	logger *slog.Logger

	inputRing  *ringbuffer.RingBuffer
	outputRing *ringbuffer.RingBuffer

	// scratch buffers, touched only by the monitor goroutine
	blockBytes []byte
	block      []float64
	outBytes   []byte

	levelChan chan LevelData

	inputDrops  atomic.Uint64
	outputDrops atomic.Uint64
	underruns   atomic.Uint64

	mu       sync.Mutex
	started  bool
	quitChan chan struct{}
	wg       sync.WaitGroup

	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
}

// NewEngine wires a duplex engine for the given session settings. The sink
// may be nil when recording is disabled.
func NewEngine(settings *conf.Settings, chain *pipeline.SignalChain, sink *record.Sink, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	blockSize := settings.Audio.BlockSize
	blockBytes := blockSize * conf.BitDepth / 8

	return &Engine{
		sampleRate: settings.Audio.SampleRate,
		blockSize:  blockSize,
		deviceName: settings.Audio.Device,
		debug:      settings.Debug,
		chain:      chain,
		sink:       sink,
		logger:     logger.With("component", "transport"),
		inputRing:  ringbuffer.New(blockBytes * ringBlocks),
		outputRing: ringbuffer.New(blockBytes * ringBlocks),
		blockBytes: make([]byte, blockBytes),
		block:      make([]float64, blockSize),
		outBytes:   make([]byte, blockBytes),
		levelChan:  make(chan LevelData, 4),
	}
}

// Levels exposes the per-block output level meter. Readings are dropped
// when nobody is listening.
func (e *Engine) Levels() <-chan LevelData {
	return e.levelChan
}

// Start opens the duplex device and begins streaming. It is a no-op when
// the engine is already running.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}

	malgoCtx, err := malgo.InitContext(preferredBackend(), malgo.ContextConfig{}, func(message string) {
		if e.debug {
			e.logger.Debug("miniaudio", "message", message)
		}
	})
	if err != nil {
		return errors.New(err).
			Component(errors.ComponentTransport).
			Category(errors.CategoryDevice).
			Context("operation", "init_context").
			Build()
	}

	infos, err := malgoCtx.Devices(malgo.Capture)
	if err != nil {
		malgoCtx.Uninit() //nolint:errcheck
		return errors.New(err).
			Component(errors.ComponentTransport).
			Category(errors.CategoryDevice).
			Context("operation", "enumerate_devices").
			Build()
	}

	source, err := selectCaptureSource(infos, e.deviceName)
	if err != nil {
		malgoCtx.Uninit() //nolint:errcheck
		return err
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Duplex)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = conf.NumChannels
	deviceConfig.Capture.DeviceID = source.Pointer
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = conf.NumChannels
	deviceConfig.SampleRate = uint32(e.sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: e.onFrames,
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		malgoCtx.Uninit() //nolint:errcheck
		return errors.New(err).
			Component(errors.ComponentTransport).
			Category(errors.CategoryDevice).
			Context("operation", "init_device").
			Context("device", e.deviceName).
			Build()
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		malgoCtx.Uninit() //nolint:errcheck
		return errors.New(err).
			Component(errors.ComponentTransport).
			Category(errors.CategoryDevice).
			Context("operation", "start_device").
			Context("device", e.deviceName).
			Build()
	}

	e.malgoCtx = malgoCtx
	e.device = device
	e.quitChan = make(chan struct{})
	e.started = true

	e.wg.Add(1)
	go e.monitorLoop(e.quitChan)

	e.logger.Info("streaming started",
		"device", source.Name,
		"samplerate", e.sampleRate,
		"blocksize", e.blockSize)
	return nil
}

// Stop halts the device and the monitor goroutine. Blocks already pulled
// from the input ring are processed before the goroutine exits. It is a
// no-op when the engine is not running.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}

	e.device.Uninit()
	e.malgoCtx.Uninit() //nolint:errcheck
	e.device = nil
	e.malgoCtx = nil

	close(e.quitChan)
	e.wg.Wait()
	e.started = false

	e.logger.Info("streaming stopped",
		"input_drops", e.inputDrops.Load(),
		"output_drops", e.outputDrops.Load(),
		"underruns", e.underruns.Load())
}

// onFrames is the miniaudio data callback. It stages captured PCM into the
// input ring and fills the playback buffer from the output ring, padding
// with silence on underrun. No processing happens here.
func (e *Engine) onFrames(outputSamples, inputSamples []byte, framecount uint32) {
	if len(inputSamples) > 0 {
		// Refuse partial writes: a truncated write would shift the 16-bit
		// sample framing for the rest of the session.
		if e.inputRing.Free() < len(inputSamples) {
			e.inputDrops.Add(1)
		} else if _, err := e.inputRing.Write(inputSamples); err != nil {
			e.inputDrops.Add(1)
		}
	}

	if len(outputSamples) > 0 {
		n, _ := e.outputRing.Read(outputSamples)
		if n < len(outputSamples) {
			for i := n; i < len(outputSamples); i++ {
				outputSamples[i] = 0
			}
			e.underruns.Add(1)
		}
	}
}

// monitorLoop polls the input ring and processes every complete block.
// After a quit signal it drains what is already staged so no captured
// audio is lost on graceful shutdown.
func (e *Engine) monitorLoop(quitChan chan struct{}) {
	defer e.wg.Done()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-quitChan:
			e.processPending()
			return
		case <-ticker.C:
			e.processPending()
		}
	}
}

// processPending assembles and processes every complete block currently in
// the input ring, returning the number of blocks handled.
func (e *Engine) processPending() int {
	blocks := 0
	for e.inputRing.Length() >= len(e.blockBytes) {
		n, err := e.inputRing.Read(e.blockBytes)
		if err != nil || n < len(e.blockBytes) {
			break
		}

		BytesToFloat64(e.block, e.blockBytes)
		e.chain.Process(e.block)
		if e.sink != nil {
			e.sink.Enqueue(e.block)
		}
		Float64ToBytes(e.outBytes, e.block)

		if e.outputRing.Free() < len(e.outBytes) {
			// Playback side is not draining, drop rather than block.
			e.outputDrops.Add(1)
		} else if _, err := e.outputRing.Write(e.outBytes); err != nil {
			e.outputDrops.Add(1)
		}

		select {
		case e.levelChan <- calculateLevel(e.block):
		default:
		}

		blocks++
	}
	return blocks
}
