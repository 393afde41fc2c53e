// Package test provides self-benchmarks of serializers and publishers on sample log files
package test

import (
	"fmt"
	"time"

	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/output"
	"github.com/relex/zmqlogwriter/output/zeromq"
	"github.com/relex/zmqlogwriter/publish"
	"github.com/relex/zmqlogwriter/util"
)

type benchmarkMetric struct {
	fmt string
	val float64
}

// RunBenchmarkSerializer benchmarks serialization of the loaded records without any transport
func RunBenchmarkSerializer(inputPattern string, format string, repeat int) {
	mfactory := base.NewMetricFactory("benchserializer_", nil, nil)
	newSerializer, err := output.LookupSerializer(format)
	if err != nil {
		logger.Fatal(err)
	}
	streams := loadInputStreams(inputPattern, mfactory)

	numRecords := 0
	rawSize := int64(0)
	outputSize := int64(0)
	costTracker := NewCostTracker()
	for _, stream := range streams {
		if len(stream.records) == 0 {
			continue
		}
		serializer := newSerializer(logger.Root(), stream.records[0].schema)
		for i := 0; i < repeat; i++ {
			for _, rec := range stream.records {
				payload, serr := serializer.Serialize(rec.schema, rec.values)
				if serr != nil {
					logger.Fatalf("error serializing %s: %v", stream.path, serr)
				}
				outputSize += int64(len(payload))
			}
		}
		numRecords += len(stream.records) * repeat
		rawSize += stream.rawSize * int64(repeat)
	}
	report := costTracker.Report()

	metrics := costMetrics(numRecords, rawSize, report)
	metrics = append(metrics, benchmarkMetric{fmt: "%.0f MB out", val: float64(outputSize) / 1048576})
	printBenchmarkMetrics("BenchmarkSerializer", metrics)
}

// RunBenchmarkPublisher benchmarks publishing of the loaded records to a ZeroMQ endpoint
//
// Records are dropped by the transport if there is no subscriber, which still measures everything up to the socket.
func RunBenchmarkPublisher(inputPattern string, format string, hostname string, port uint16, repeat int) {
	mfactory := base.NewMetricFactory("benchpublisher_", nil, nil)
	streams := loadInputStreams(inputPattern, mfactory)

	transport, err := zeromq.NewContext(logger.Root())
	if err != nil {
		logger.Fatal(err)
	}
	endpoint := publish.DefaultEndpoint()
	endpoint.Hostname = hostname
	endpoint.Port = port
	writerFactory, err := publish.NewWriterFactory(logger.Root(), transport, publish.Settings{Endpoint: endpoint, Format: format}, mfactory)
	if err != nil {
		logger.Fatal(err)
	}

	host := &benchmarkHost{}
	numRecords := 0
	rawSize := int64(0)
	costTracker := NewCostTracker()
	for _, stream := range streams {
		if len(stream.records) == 0 {
			continue
		}
		writer := writerFactory.NewWriter(host)
		if !writer.Init(base.WriterInfo{Path: stream.path}, stream.records[0].schema) {
			logger.Fatalf("failed to init writer for %s", stream.path)
		}
		for i := 0; i < repeat; i++ {
			for _, rec := range stream.records {
				writer.Write(rec.schema, rec.values)
			}
		}
		writer.Finish(time.Now())
		numRecords += len(stream.records) * repeat
		rawSize += stream.rawSize * int64(repeat)
	}
	report := costTracker.Report()

	if err := transport.Close(); err != nil {
		logger.Error(err)
	}

	numPublished := util.SumMetricValues(mfactory.AddOrGetCounterVec("writer_published_records_total", "", nil, nil))
	if int(numPublished) != numRecords {
		logger.Errorf("numbers of published records don't match: %d, should be %d", int(numPublished), numRecords)
	}
	numBytes := util.SumMetricValues(mfactory.AddOrGetCounterVec("writer_sent_bytes_total", "", nil, nil))

	metrics := costMetrics(numRecords, rawSize, report)
	metrics = append(metrics, benchmarkMetric{fmt: "%.0f MB out", val: numBytes / 1048576})
	metrics = append(metrics, benchmarkMetric{fmt: "%.0f errors", val: float64(host.numErrors)})
	printBenchmarkMetrics("BenchmarkPublisher", metrics)
	logger.Info(mfactory.DumpMetrics(false))
}

type benchmarkHost struct {
	numErrors int
}

func (host *benchmarkHost) ReportError(err error) {
	if host.numErrors == 0 {
		logger.Warn("first error: ", err)
	}
	host.numErrors++
}

func (host *benchmarkHost) FinishedRotation(rotation base.RotationInfo) bool {
	return true
}

func costMetrics(numLogs int, sizeOfLogs int64, report CostReport) []benchmarkMetric {
	return []benchmarkMetric{
		{fmt: "%.0f log/sec", val: float64(numLogs) / report.RealTime.Seconds()},
		{fmt: "%.0f MB/sec", val: float64(sizeOfLogs) / 1048576 / report.RealTime.Seconds()},
		{fmt: "%0.2f alloc/log", val: float64(report.NumHeapAllocs) / float64(numLogs)},
		{fmt: "%0.2f%% user", val: 100.0 * report.UserTime.Seconds() / report.RealTime.Seconds()},
		{fmt: "%0.2f%% sys", val: 100.0 * report.SystemTime.Seconds() / report.RealTime.Seconds()},
		{fmt: "%0.2f%% gc", val: 100.0 * report.GCCPUFraction},
		{fmt: "%.0f GC cycles", val: float64(report.NumGC)},
		{fmt: "%.02f sec", val: report.RealTime.Seconds()},
		{fmt: "%.0f MB in", val: float64(sizeOfLogs) / 1048576},
	}
}

func printBenchmarkMetrics(title string, metrics []benchmarkMetric) {
	sb := make([]byte, 0, 200)
	sb = append(sb, fmt.Sprintf("%s:", title)...)
	for _, m := range metrics {
		sb = append(sb, fmt.Sprintf("\t"+m.fmt, m.val)...)
	}
	fmt.Println(string(sb))
}
