// Package enhance runs the real-time enhancement session: it wires the
// parameter store, signal chain, recording sink and audio transport
// together and supervises them until shutdown.
package enhance

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/clearvoice/superhear/internal/conf"
	"github.com/clearvoice/superhear/internal/logging"
	"github.com/clearvoice/superhear/internal/observability"
	"github.com/clearvoice/superhear/internal/pipeline"
	"github.com/clearvoice/superhear/internal/record"
	"github.com/clearvoice/superhear/internal/transport"
)

// Realtime starts the enhancement session and blocks until SIGINT or
// SIGTERM. On shutdown the transport drains staged blocks and the
// recording sink flushes its queue before the function returns.
func Realtime(settings *conf.Settings) error {
	logger := logging.ForService("realtime")
	if logger == nil {
		logger = slog.Default()
	}

	metrics, err := observability.NewPipelineMetrics(prometheus.NewRegistry())
	if err != nil {
		return err
	}

	store, err := pipeline.NewParameterStore(
		pipeline.ConfigFromSettings(&settings.Chain),
		float64(settings.Audio.SampleRate),
		metrics, logger)
	if err != nil {
		return err
	}
	chain := pipeline.NewSignalChain(store, metrics, logger)

	sink := record.NewSink(settings.Audio.SampleRate, metrics, logger)
	if settings.Audio.Export.Enabled {
		if err := sink.Start(record.DefaultFilePath(settings.Audio.Export.Path)); err != nil {
			return err
		}
	}

	engine := transport.NewEngine(settings, chain, sink, logger)
	if err := engine.Start(); err != nil {
		if stopErr := sink.Stop(); stopErr != nil {
			logger.Error("failed to stop recording sink", "error", stopErr)
		}
		return err
	}

	logger.Info("enhancement session started",
		"samplerate", settings.Audio.SampleRate,
		"blocksize", settings.Audio.BlockSize,
		"recording", sink.Active())

	var wg sync.WaitGroup
	quitChan := make(chan struct{})

	if settings.Telemetry.Enabled {
		endpoint := observability.NewEndpoint(settings.Telemetry.Listen, metrics, logger)
		endpoint.Start(&wg, quitChan)
	}

	startLevelMonitor(&wg, engine, quitChan, settings.Debug, logger)
	monitorCtrlC(quitChan, logger)

	<-quitChan

	engine.Stop()
	if err := sink.Stop(); err != nil {
		logger.Error("failed to finalize recording", "error", err)
	}
	wg.Wait()

	logger.Info("enhancement session stopped")
	return nil
}

// startLevelMonitor drains the transport's level meter so it never stalls
// and surfaces clipping in the logs.
func startLevelMonitor(wg *sync.WaitGroup, engine *transport.Engine, quitChan <-chan struct{}, debug bool, logger *slog.Logger) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-quitChan:
				return
			case level := <-engine.Levels():
				if level.Clipping {
					logger.Warn("output clipping", "level", level.Level)
				} else if debug {
					logger.Debug("output level", "level", level.Level)
				}
			}
		}
	}()
}

// monitorCtrlC closes quitChan on SIGINT or SIGTERM.
func monitorCtrlC(quitChan chan struct{}, logger *slog.Logger) {
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		<-sigChan

		logger.Info("shutdown signal received")
		close(quitChan)
	}()
}
