// Package msgpackformat provides a LogSerializer to encode each record as one msgpack map, in the same shape as JSON
package msgpackformat

import (
	"bytes"
	"math"

	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/defs"
	"github.com/vmihailenco/msgpack/v4"
)

type eventSerializer struct {
	logger  logger.Logger
	buffer  *bytes.Buffer
	encoder *msgpack.Encoder
}

// NewEventSerializer creates a msgpack LogSerializer
func NewEventSerializer(parentLogger logger.Logger, schema base.LogSchema) base.LogSerializer {
	buffer := &bytes.Buffer{}
	buffer.Grow(4096)
	return &eventSerializer{
		logger:  parentLogger.WithField(defs.LabelComponent, "MsgpackEventSerializer"),
		buffer:  buffer,
		encoder: msgpack.NewEncoder(buffer),
	}
}

// Serialize encodes the values into a msgpack map of field names to values
func (s *eventSerializer) Serialize(schema base.LogSchema, values []base.LogValue) (base.LogStream, error) {
	if err := base.VerifyValues(schema, values); err != nil {
		return nil, err
	}
	s.buffer.Reset()

	numPresent := 0
	for _, value := range values {
		if value.Present {
			numPresent++
		}
	}
	if err := s.encoder.EncodeMapLen(numPresent); err != nil {
		return nil, err
	}
	for i, field := range schema.GetFields() {
		value := values[i]
		if !value.Present {
			continue
		}
		if err := s.encoder.EncodeString(field.Name); err != nil {
			return nil, err
		}
		if err := s.encodeValue(value); err != nil {
			return nil, &base.SerializationError{Field: field.Name, Reason: err.Error()}
		}
	}
	return s.buffer.Bytes(), nil
}

func (s *eventSerializer) encodeValue(value base.LogValue) error {
	if !value.Present {
		return s.encoder.EncodeNil()
	}
	switch value.Type {
	case base.TypeBool:
		return s.encoder.EncodeBool(value.Bool)
	case base.TypeInt:
		return s.encoder.EncodeInt(value.Int)
	case base.TypeCount, base.TypePort:
		return s.encoder.EncodeUint(value.Count)
	case base.TypeDouble:
		if math.IsNaN(value.Double) || math.IsInf(value.Double, 0) {
			return s.encoder.EncodeNil() // same as JSON
		}
		return s.encoder.EncodeFloat64(value.Double)
	case base.TypeTime:
		return s.encoder.EncodeFloat64(value.EpochSeconds())
	case base.TypeInterval:
		return s.encoder.EncodeFloat64(value.Interval.Seconds())
	case base.TypeSet, base.TypeVector:
		if err := s.encoder.EncodeArrayLen(len(value.Elems)); err != nil {
			return err
		}
		for _, elem := range value.Elems {
			if err := s.encodeValue(elem); err != nil {
				return err
			}
		}
		return nil
	default:
		return s.encoder.EncodeString(value.Text)
	}
}
