package test

import (
	"io"

	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/input/zeekascii"
	"github.com/relex/zmqlogwriter/util"
)

// loadedStream is one input file loaded into memory
type loadedStream struct {
	path    string // stream path, e.g. "conn"
	records []loadedRecord
	rawSize int64
}

type loadedRecord struct {
	schema base.LogSchema
	values []base.LogValue
}

// loadInputStreams loads all records of the input files for benchmarks, so that reading and parsing are not measured
func loadInputStreams(inputPattern string, metricFactory *base.MetricFactory) []loadedStream {
	pathList, gerr := util.ListFiles(inputPattern)
	if gerr != nil {
		logger.Fatal(gerr)
	} else if len(pathList) == 0 {
		logger.Fatal("no input files")
	}
	streams := make([]loadedStream, 0, len(pathList))
	for _, path := range pathList {
		streams = append(streams, loadInputStream(path, metricFactory))
	}
	return streams
}

func loadInputStream(path string, metricFactory *base.MetricFactory) loadedStream {
	reader, err := zeekascii.OpenFile(logger.Root(), path, metricFactory)
	if err != nil {
		logger.Fatalf("error opening %s: %v", path, err)
	}
	defer reader.Close()

	if _, err := reader.ReadHeader(); err != nil {
		logger.Fatalf("error reading header of %s: %v", path, err)
	}
	stream := loadedStream{
		path:    reader.StreamPath(),
		records: make([]loadedRecord, 0, 1000),
	}
	for {
		record, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Fatalf("error reading %s: %v", path, err)
		}
		stream.records = append(stream.records, loadedRecord{schema: reader.Schema(), values: record.Values})
		stream.rawSize += int64(record.RawLength) + 1
	}
	logger.Infof("loaded %s: %d records, %d bytes, %d dropped lines", path, len(stream.records), stream.rawSize, reader.NumDropped())
	return stream
}
