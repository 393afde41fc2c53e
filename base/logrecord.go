package base

// LogRecord defines one log record as typed values in the order of its LogSchema
//
// Records are immutable once passed to a writer, and writers must not keep references after the call.
type LogRecord struct {
	Values    []LogValue // Typed values, same length as fields in LogSchema
	RawLength int        // Input length or approximated length of entire record, for statistics
}
