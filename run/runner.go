package run

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/puzpuzpuz/xsync"
	"github.com/relex/gotils/channels"
	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/defs"
	"github.com/relex/zmqlogwriter/input/zeekascii"
	"github.com/relex/zmqlogwriter/publish"
)

// headerTimeLayout is the format of #open and #close directives
const headerTimeLayout = "2006-01-02-15-04-05"

// Runner replays log files through one writer per file, all sharing the same transport context
//
// Each file is a stream run in its own goroutine. Two files of the same stream path cannot be replayed at the same time.
type Runner struct {
	logger        logger.Logger
	config        *Config
	metricFactory *base.MetricFactory
	writerFactory *publish.WriterFactory
	activePaths   *xsync.MapOf[string] // stream path => file path
	stopRequest   *channels.SignalAwaitable
	metrics       runnerMetrics
	numRecords    int64
	numErrors     int64
}

// Summary is the result of Replay
type Summary struct {
	Streams int   // number of files
	Failed  int   // number of files failed to open, parse header or init writer
	Records int64 // number of records passed to writers
	Errors  int64 // number of errors reported by writers
}

type runnerMetrics struct {
	streamsTotal   *prometheus.CounterVec
	finishedTotal  prometheus.Counter
	failedTotal    prometheus.Counter
	activeStreams  prometheus.Gauge
	reportedErrors prometheus.Counter
}

// NewRunner creates a Runner on the given transport context
func NewRunner(parentLogger logger.Logger, config *Config, transport base.TransportContext, metricFactory *base.MetricFactory) (*Runner, error) {
	writerFactory, err := publish.NewWriterFactory(parentLogger, transport, config.PublishSettings(), metricFactory)
	if err != nil {
		return nil, err
	}
	replayFactory := metricFactory.NewSubFactory("replay_", nil, nil)
	streamsTotal := replayFactory.AddOrGetCounterVec("streams_total", "Numbers of replayed streams by result", []string{"result"}, nil)
	return &Runner{
		logger:        parentLogger.WithField(defs.LabelComponent, "Runner"),
		config:        config,
		metricFactory: metricFactory,
		writerFactory: writerFactory,
		activePaths:   xsync.NewMapOf[string](),
		stopRequest:   channels.NewSignalAwaitable(),
		metrics: runnerMetrics{
			streamsTotal:   streamsTotal,
			finishedTotal:  streamsTotal.WithLabelValues("finished"),
			failedTotal:    streamsTotal.WithLabelValues("failed"),
			activeStreams:  replayFactory.AddOrGetGauge("active_streams", "Numbers of streams in progress", nil, nil),
			reportedErrors: replayFactory.AddOrGetCounter("reported_errors_total", "Numbers of errors reported by writers", nil, nil),
		},
	}, nil
}

// Replay replays the files concurrently and waits until all of them are done or Stop is called
//
// Returns an error if any stream failed to start or the streams didn't finish within defs.WriterStopTimeout of Stop.
func (runner *Runner) Replay(files []string) (Summary, error) {
	summary := Summary{Streams: len(files)}
	var failed int64
	wg := &sync.WaitGroup{}
	for _, file := range files {
		wg.Add(1)
		go func(file string) {
			defer wg.Done()
			if err := runner.replayFile(file); err != nil {
				runner.logger.Errorf("failed to replay '%s': %s", file, err.Error())
				runner.metrics.failedTotal.Inc()
				atomic.AddInt64(&failed, 1)
				return
			}
			runner.metrics.finishedTotal.Inc()
		}(file)
	}

	allDone := channels.NewWaitGroupAwaitable(wg)
	select {
	case <-allDone.Channel():
	case <-runner.stopRequest.Channel():
		runner.logger.Info("stop requested, waiting for streams to finish")
		if !allDone.Wait(defs.WriterStopTimeout) {
			return runner.summarize(summary, &failed), fmt.Errorf("timeout waiting for streams to finish")
		}
	}

	summary = runner.summarize(summary, &failed)
	runner.logger.Infof("replayed %d streams: failed=%d records=%d errors=%d", summary.Streams, summary.Failed, summary.Records, summary.Errors)
	if summary.Failed > 0 {
		return summary, fmt.Errorf("%d of %d streams failed", summary.Failed, summary.Streams)
	}
	return summary, nil
}

// Stop requests all streams to finish after their current record
func (runner *Runner) Stop() {
	runner.stopRequest.Signal()
}

func (runner *Runner) summarize(summary Summary, failed *int64) Summary {
	summary.Failed = int(atomic.LoadInt64(failed))
	summary.Records = atomic.LoadInt64(&runner.numRecords)
	summary.Errors = atomic.LoadInt64(&runner.numErrors)
	return summary
}

func (runner *Runner) replayFile(file string) error {
	flogger := runner.logger.WithField(defs.LabelFile, file)
	reader, err := zeekascii.OpenFile(flogger, file, runner.metricFactory)
	if err != nil {
		return err
	}
	defer reader.Close()

	header, err := reader.ReadHeader()
	if err != nil {
		return fmt.Errorf("invalid header: %w", err)
	}
	path := reader.StreamPath()
	if otherFile, loaded := runner.activePaths.LoadOrStore(path, file); loaded {
		return fmt.Errorf("stream path '%s' is already active for '%s'", path, otherFile)
	}
	defer runner.activePaths.Delete(path)

	runner.metrics.activeStreams.Inc()
	defer runner.metrics.activeStreams.Dec()

	host := &streamHost{
		logger: flogger.WithField(defs.LabelPath, path),
		runner: runner,
	}
	writer := runner.writerFactory.NewWriter(host)
	info := base.WriterInfo{Path: path, Config: runner.config.LookupStreamConfig(path)}
	if !writer.Init(info, reader.Schema()) {
		return fmt.Errorf("failed to start stream '%s'", path)
	}
	host.logger.Infof("start replaying to %s", writer.Publisher().Endpoint())

	ticker := time.NewTicker(runner.config.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-runner.stopRequest.Channel():
			host.logger.Info("stop requested")
			writer.Finish(time.Now())
			return nil
		case now := <-ticker.C:
			writer.Heartbeat(now, now)
		default:
		}

		record, rerr := reader.Next()
		if rerr != nil {
			if !errors.Is(rerr, io.EOF) {
				host.ReportError(fmt.Errorf("failed to read: %w", rerr))
			}
			break
		}
		if !writer.Write(reader.Schema(), record.Values) {
			host.logger.Warn("writer stopped accepting records")
			break
		}
		atomic.AddInt64(&runner.numRecords, 1)
	}

	// a file with #close has been rotated by its producer
	if rotation, ok := rotationFromHeader(file, reader.Header()); ok {
		writer.Rotate(rotation)
	}
	writer.Finish(time.Now())
	host.logger.Infof("finished with %d dropped lines, header opened at %s", reader.NumDropped(), header.Open)
	return nil
}

func rotationFromHeader(file string, header zeekascii.Header) (base.RotationInfo, bool) {
	if header.Close == "" {
		return base.RotationInfo{}, false
	}
	closeTime, err := time.ParseInLocation(headerTimeLayout, header.Close, time.Local)
	if err != nil {
		return base.RotationInfo{}, false
	}
	openTime, err := time.ParseInLocation(headerTimeLayout, header.Open, time.Local)
	if err != nil {
		openTime = closeTime
	}
	return base.RotationInfo{
		RotatedPath: file,
		OpenTime:    openTime,
		CloseTime:   closeTime,
		Terminating: true,
	}, true
}

// streamHost receives errors and rotation results of one stream's writer
type streamHost struct {
	logger logger.Logger
	runner *Runner
}

func (host *streamHost) ReportError(err error) {
	atomic.AddInt64(&host.runner.numErrors, 1)
	host.runner.metrics.reportedErrors.Inc()
	host.logger.Warnf("writer error: %s", err.Error())
}

func (host *streamHost) FinishedRotation(rotation base.RotationInfo) bool {
	host.logger.Infof("rotation finished: %s (%s - %s)", rotation.RotatedPath,
		rotation.OpenTime.Format(time.RFC3339), rotation.CloseTime.Format(time.RFC3339))
	return true
}
