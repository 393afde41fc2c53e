// Package output registers the list of all record formats and the transport to publish them
package output

import (
	"fmt"
	"sort"

	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/output/jsonformat"
	"github.com/relex/zmqlogwriter/output/msgpackformat"
)

// NewSerializerFunc creates a LogSerializer for records of the given schema
type NewSerializerFunc func(parentLogger logger.Logger, schema base.LogSchema) base.LogSerializer

// DefaultFormat is the format used when none is configured
const DefaultFormat = "json"

var serializerConstructorTable = map[string]NewSerializerFunc{
	"json":    jsonformat.NewEventSerializer,
	"msgpack": msgpackformat.NewEventSerializer,
}

// LookupSerializer finds the serializer constructor by format name. Empty name means DefaultFormat.
func LookupSerializer(format string) (NewSerializerFunc, error) {
	if format == "" {
		format = DefaultFormat
	}
	newSerializer, ok := serializerConstructorTable[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format '%s', must be one of %v", format, ListFormats())
	}
	return newSerializer, nil
}

// ListFormats lists the names of all formats in alphabetical order
func ListFormats() []string {
	names := make([]string, 0, len(serializerConstructorTable))
	for name := range serializerConstructorTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
