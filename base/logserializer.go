package base

import (
	"fmt"
)

// LogSerializer serializes log records into a self-contained payload of certain format, e.g. JSON or msgpack
type LogSerializer interface {
	// Serialize serializes the values of one record described by schema
	//
	// Returns SerializationError if the values don't match the schema. The input values are not retained.
	// Output LogStream is transient and only usable before the next call
	Serialize(schema LogSchema, values []LogValue) (LogStream, error)
}

// VerifyValues checks the number and types of values against schema
func VerifyValues(schema LogSchema, values []LogValue) error {
	fields := schema.GetFields()
	if len(values) != len(fields) {
		return &SerializationError{Reason: fmt.Sprintf("%d values for %d fields", len(values), len(fields))}
	}
	for i, field := range fields {
		if !values[i].MatchField(field) {
			return &SerializationError{Field: field.Name, Reason: fmt.Sprintf("value type %s doesn't match %s", values[i].Type, field)}
		}
	}
	return nil
}
