// Package jsonformat provides a LogSerializer to encode each record as one JSON object
//
// Keys follow the schema order. Times and intervals are numbers of seconds since epoch, with fractional part.
// Unset fields are omitted.
package jsonformat

import (
	"strconv"

	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/defs"
	"golang.org/x/exp/slices"
)

const initialBufferCapacity = 4096

type eventSerializer struct {
	logger         logger.Logger
	fields         []base.LogField // fields of the schema which serializedKeys are made for
	serializedKeys [][]byte        // pre-serialized `"name":` of each field
	buffer         []byte
}

// NewEventSerializer creates a JSON LogSerializer. Keys are pre-serialized for the given schema.
func NewEventSerializer(parentLogger logger.Logger, schema base.LogSchema) base.LogSerializer {
	s := &eventSerializer{
		logger: parentLogger.WithField(defs.LabelComponent, "JSONEventSerializer"),
		buffer: make([]byte, 0, initialBufferCapacity),
	}
	s.prepareKeys(schema)
	return s
}

// Serialize encodes the values into a JSON object
func (s *eventSerializer) Serialize(schema base.LogSchema, values []base.LogValue) (base.LogStream, error) {
	if err := base.VerifyValues(schema, values); err != nil {
		return nil, err
	}
	if !slices.Equal(s.fields, schema.GetFields()) {
		s.logger.Infof("schema changed to %s", schema)
		s.prepareKeys(schema)
	}

	buf := append(s.buffer[:0], '{')
	first := true
	for i, value := range values {
		if !value.Present {
			continue
		}
		if !first {
			buf = append(buf, ',')
		}
		first = false
		buf = append(buf, s.serializedKeys[i]...)
		buf = appendValue(buf, value)
	}
	buf = append(buf, '}')

	s.buffer = buf
	return buf, nil
}

func (s *eventSerializer) prepareKeys(schema base.LogSchema) {
	s.fields = append([]base.LogField(nil), schema.GetFields()...)
	s.serializedKeys = make([][]byte, len(s.fields))
	for i, field := range s.fields {
		key := appendString(make([]byte, 0, len(field.Name)+3), field.Name)
		s.serializedKeys[i] = append(key, ':')
	}
}

func appendValue(dst []byte, value base.LogValue) []byte {
	if !value.Present {
		return append(dst, "null"...)
	}
	switch value.Type {
	case base.TypeBool:
		return appendBool(dst, value.Bool)
	case base.TypeInt:
		return strconv.AppendInt(dst, value.Int, 10)
	case base.TypeCount, base.TypePort:
		return strconv.AppendUint(dst, value.Count, 10)
	case base.TypeDouble:
		return appendFloat(dst, value.Double)
	case base.TypeTime:
		return appendFloat(dst, value.EpochSeconds())
	case base.TypeInterval:
		return appendFloat(dst, value.Interval.Seconds())
	case base.TypeSet, base.TypeVector:
		dst = append(dst, '[')
		for i, elem := range value.Elems {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendValue(dst, elem)
		}
		return append(dst, ']')
	default:
		return appendString(dst, value.Text)
	}
}
