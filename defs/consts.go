package defs

// Common labels for logging
const (
	LabelComponent = "component"
	LabelPath      = "path"
	LabelFile      = "file"
)

// Keys of per-stream writer configuration
const (
	ConfigKeyHostname = "hostname"
	ConfigKeyPort     = "port"
	ConfigKeyLinger   = "linger"
	ConfigKeyFormat   = "format"
)
