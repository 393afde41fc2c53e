package base

// LogStream represents one serialized log record. The data is temporary and owned by the serializer.
type LogStream []byte
