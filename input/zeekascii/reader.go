// Package zeekascii reads typed log records from ASCII TSV log files with '#' header directives
//
// A file starts with directives such as "#separator", "#path", "#fields" and "#types", followed by one record per
// line. Field values are parsed by the types declared in "#types". Malformed lines are counted and skipped.
// Files ending in ".gz" are decompressed on the fly.
package zeekascii

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/defs"
)

const maxLoggingLineSize = 200 // enough to include the first fields of a line

// Reader reads records from one log file
//
// NOT thread-safe
type Reader struct {
	logger        logger.Logger
	name          string
	input         *bufio.Reader
	closers       []io.Closer
	lineBuffer    []byte
	lineNumber    int
	header        Header
	schema        base.LogSchema
	schemaValid   bool
	closed        bool
	passedRecords prometheus.Counter
	passedBytes   prometheus.Counter
	droppedLines  prometheus.Counter
	numDropped    int
}

// OpenFile opens a log file for reading, decompressing it if the name ends with ".gz"
func OpenFile(parentLogger logger.Logger, path string, metricFactory *base.MetricFactory) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return NewReader(parentLogger, file, path, metricFactory, file), nil
	}
	gzipReader, err := gzip.NewReader(bufio.NewReader(file))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to open gzip stream in '%s': %w", path, err)
	}
	return NewReader(parentLogger, gzipReader, path, metricFactory, gzipReader, file), nil
}

// NewReader creates a Reader on the given input. The closers are closed in order by Close.
func NewReader(parentLogger logger.Logger, input io.Reader, name string, metricFactory *base.MetricFactory, closers ...io.Closer) *Reader {
	inputFactory := metricFactory.NewSubFactory("input_", []string{defs.LabelFile}, []string{filepath.Base(name)})
	return &Reader{
		logger:        parentLogger.WithFields(logger.Fields{defs.LabelComponent: "ZeekASCIIReader", defs.LabelFile: name}),
		name:          name,
		input:         bufio.NewReaderSize(input, 64*1024),
		closers:       closers,
		lineBuffer:    make([]byte, 0, 4096),
		header:        DefaultHeader(),
		passedRecords: inputFactory.AddOrGetCounter("passed_records_total", "Numbers of parsed records", nil, nil),
		passedBytes:   inputFactory.AddOrGetCounter("passed_record_bytes_total", "Total length in bytes of parsed records", nil, nil),
		droppedLines:  inputFactory.AddOrGetCounter("dropped_lines_total", "Numbers of malformed or oversized lines", nil, nil),
	}
}

// Header returns the directives read so far
func (r *Reader) Header() Header {
	return r.header
}

// StreamPath returns the #path directive, or the file name before the first dot if #path is not found
//
// e.g. "conn" for "/logs/conn.00:00:00-01:00:00.log.gz"
func (r *Reader) StreamPath() string {
	if r.header.Path != "" {
		return r.header.Path
	}
	stem, _, _ := strings.Cut(filepath.Base(r.name), ".")
	return stem
}

// Schema returns the schema of the last record returned by Next
func (r *Reader) Schema() base.LogSchema {
	return r.schema
}

// NumDropped returns the number of dropped lines so far
func (r *Reader) NumDropped() int {
	return r.numDropped
}

// ReadHeader reads directives until the schema is known, without consuming any data line
func (r *Reader) ReadHeader() (Header, error) {
	for !r.schemaValid {
		c, err := r.input.Peek(1)
		if err != nil {
			if err == io.EOF {
				return r.header, fmt.Errorf("no #fields and #types before end of file")
			}
			return r.header, err
		}
		if c[0] != '#' {
			return r.header, fmt.Errorf("data before #fields and #types at line %d", r.lineNumber+1)
		}
		line, tooLong, err := r.readLine()
		if err != nil {
			return r.header, err
		}
		if tooLong {
			r.onMalformed("oversized line", nil)
			continue
		}
		r.processDirective(string(line))
	}
	return r.header, nil
}

// Next reads the next record, skipping directives and malformed lines
//
// Returns io.EOF at the end of input. The schema may change at directives between records; see Schema.
func (r *Reader) Next() (*base.LogRecord, error) {
	for {
		line, tooLong, err := r.readLine()
		if err != nil {
			return nil, err
		}
		if tooLong {
			r.onMalformed("oversized line", nil)
			continue
		}
		if len(line) == 0 {
			continue
		}
		text := string(line)
		if text[0] == '#' {
			r.processDirective(text)
			continue
		}
		if !r.schemaValid {
			r.onMalformed("record before #fields and #types", line)
			continue
		}
		record, perr := r.parseRecord(text)
		if perr != nil {
			r.onMalformed(perr.Error(), line)
			continue
		}
		r.passedRecords.Inc()
		r.passedBytes.Add(float64(record.RawLength))
		return record, nil
	}
}

// Close closes the underlying input. It may be called more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	var firstErr error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Reader) parseRecord(text string) (*base.LogRecord, error) {
	fields := r.schema.GetFields()
	parts := strings.Split(text, r.header.Separator)
	if len(parts) != len(fields) {
		return nil, fmt.Errorf("%d values for %d fields", len(parts), len(fields))
	}
	values := make([]base.LogValue, len(fields))
	for i, field := range fields {
		value, err := parseField(&r.header, field, parts[i])
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", field.Name, err)
		}
		values[i] = value
	}
	return &base.LogRecord{Values: values, RawLength: len(text)}, nil
}

func (r *Reader) processDirective(line string) {
	schemaChanged, err := r.header.applyDirective(line)
	if err != nil {
		r.onMalformed(err.Error(), []byte(line))
		return
	}
	if !schemaChanged || !r.header.HasSchema() {
		return
	}
	schema, err := r.header.Schema()
	if err != nil {
		// the other one of #fields / #types may follow
		r.logger.Debugf("schema incomplete at line %d: %s", r.lineNumber, err.Error())
		r.schemaValid = false
		return
	}
	r.schema = schema
	r.schemaValid = true
	r.logger.Infof("schema at line %d: %s", r.lineNumber, schema)
}

// readLine reads the next line without trailing newline. Oversized lines are consumed and returned as tooLong.
func (r *Reader) readLine() ([]byte, bool, error) {
	r.lineBuffer = r.lineBuffer[:0]
	tooLong := false
	for {
		fragment, isPrefix, err := r.input.ReadLine()
		if err != nil {
			return nil, false, err
		}
		if !tooLong {
			if len(r.lineBuffer)+len(fragment) > defs.InputLogMaxLineBytes {
				tooLong = true
				r.lineBuffer = r.lineBuffer[:0]
			} else {
				r.lineBuffer = append(r.lineBuffer, fragment...)
			}
		}
		if !isPrefix {
			r.lineNumber++
			return r.lineBuffer, tooLong, nil
		}
	}
}

func (r *Reader) onMalformed(warning string, line []byte) {
	r.droppedLines.Inc()
	r.numDropped++
	if len(line) > maxLoggingLineSize {
		r.logger.Warnf("%s at line %d: %s...", warning, r.lineNumber, line[:maxLoggingLineSize])
	} else {
		r.logger.Warnf("%s at line %d: %s", warning, r.lineNumber, line)
	}
}
