package publish

import (
	"fmt"
	"strconv"
	"time"

	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/defs"
)

// DefaultEndpoint returns the process-wide default endpoint from defs
func DefaultEndpoint() base.Endpoint {
	return base.Endpoint{
		Hostname: defs.DefaultHostname,
		Port:     defs.DefaultPort,
		Linger:   defs.DefaultLinger,
	}
}

// ResolveEndpoint merges per-stream config into the defaults
//
// Each non-empty override replaces the default independently, e.g. a stream may override only the port. Socket options
// other than linger can only be set in defaults.
func ResolveEndpoint(defaults base.Endpoint, streamConfig map[string]string) (base.Endpoint, error) {
	endpoint := defaults
	if hostname := streamConfig[defs.ConfigKeyHostname]; hostname != "" {
		endpoint.Hostname = hostname
	}
	if portText := streamConfig[defs.ConfigKeyPort]; portText != "" {
		port, err := ParsePort(portText)
		if err != nil {
			return base.Endpoint{}, &base.ConfigError{Key: defs.ConfigKeyPort, Value: portText, Err: err}
		}
		endpoint.Port = port
	}
	if lingerText := streamConfig[defs.ConfigKeyLinger]; lingerText != "" {
		linger, err := time.ParseDuration(lingerText)
		if err == nil && linger < 0 {
			err = fmt.Errorf("must not be negative")
		}
		if err != nil {
			return base.Endpoint{}, &base.ConfigError{Key: defs.ConfigKeyLinger, Value: lingerText, Err: err}
		}
		endpoint.Linger = linger
	}
	if endpoint.Hostname == "" {
		return base.Endpoint{}, &base.ConfigError{Key: defs.ConfigKeyHostname, Value: "", Err: fmt.Errorf("no hostname in config or defaults")}
	}
	if endpoint.Port == 0 {
		return base.Endpoint{}, &base.ConfigError{Key: defs.ConfigKeyPort, Value: "", Err: fmt.Errorf("no port in config or defaults")}
	}
	return endpoint, nil
}

// ParsePort parses a decimal TCP port number between 1 and 65535
func ParsePort(text string) (uint16, error) {
	port, err := strconv.ParseUint(text, 10, 16)
	if err != nil || port == 0 {
		return 0, fmt.Errorf("must be an integer between 1 and 65535")
	}
	return uint16(port), nil
}
