package base

import (
	"fmt"
	"strings"

	"github.com/relex/gotils/logger"
	"golang.org/x/exp/slices"
)

// LogField defines a named and typed field in LogSchema
type LogField struct {
	Name     string
	Type     LogFieldType
	ElemType LogFieldType // element type for set and vector, TypeInvalid otherwise
}

func (f LogField) String() string {
	if f.Type.IsContainer() {
		return fmt.Sprintf("%s:%s[%s]", f.Name, f.Type, f.ElemType)
	}
	return fmt.Sprintf("%s:%s", f.Name, f.Type)
}

// LogSchema defines the ordered fields shared by all records of one log stream
type LogSchema struct {
	fields     []LogField
	fieldNames []string
}

// MustNewLogSchema creates a new LogSchema or panic
func MustNewLogSchema(fields []LogField) LogSchema {
	schema, err := NewLogSchema(fields)
	if err != nil {
		logger.Panic("failed to create schema: ", err)
	}
	return schema
}

// NewLogSchema creates a new LogSchema from fields
func NewLogSchema(fields []LogField) (LogSchema, error) {
	m := make(map[string]bool, len(fields)*2)
	names := make([]string, len(fields))
	for i, field := range fields {
		if len(field.Name) == 0 {
			return LogSchema{}, fmt.Errorf("invalid %dth field '%s'", i, field.Name)
		}
		if _, exists := m[field.Name]; exists {
			return LogSchema{}, fmt.Errorf("duplicated %dth field '%s'", i, field.Name)
		}
		if field.Type == TypeInvalid {
			return LogSchema{}, fmt.Errorf("%dth field '%s' has no type", i, field.Name)
		}
		if field.Type.IsContainer() && (field.ElemType == TypeInvalid || field.ElemType.IsContainer()) {
			return LogSchema{}, fmt.Errorf("%dth field '%s' has invalid element type %s", i, field.Name, field.ElemType)
		}
		m[field.Name] = true
		names[i] = field.Name
	}
	return LogSchema{
		fields:     append([]LogField(nil), fields...),
		fieldNames: names,
	}, nil
}

// ParseLogSchema creates a LogSchema from parallel lists of names and type names, e.g. "#fields" and "#types"
func ParseLogSchema(names []string, typeNames []string) (LogSchema, error) {
	if len(names) != len(typeNames) {
		return LogSchema{}, fmt.Errorf("%d field names but %d types", len(names), len(typeNames))
	}
	fields := make([]LogField, len(names))
	for i, name := range names {
		t, elem, err := ParseLogFieldType(typeNames[i])
		if err != nil {
			return LogSchema{}, fmt.Errorf("field '%s': %w", name, err)
		}
		fields[i] = LogField{Name: name, Type: t, ElemType: elem}
	}
	return NewLogSchema(fields)
}

// CreateFieldLocator creates a LogFieldLocator by field name
func (s *LogSchema) CreateFieldLocator(name string) (LogFieldLocator, error) {
	index := slices.Index(s.fieldNames, name)
	if index == -1 {
		return MissingFieldLocator, fmt.Errorf("field '%s' is not defined in schema", name)
	}
	return LogFieldLocator(index), nil
}

// MustCreateFieldLocator creates LogFieldLocator by field name or panic (if field doesn't exist in schema)
func (s *LogSchema) MustCreateFieldLocator(name string) LogFieldLocator {
	loc, err := s.CreateFieldLocator(name)
	if err != nil {
		logger.Panicf("failed to create locator for field [%s]: %s", name, err.Error())
	}
	return loc
}

// GetFieldNames returns all the field names in the same order
func (s *LogSchema) GetFieldNames() []string {
	return s.fieldNames
}

// GetFields returns all the fields in the same order
func (s *LogSchema) GetFields() []LogField {
	return s.fields
}

// NumFields returns the number of fields
func (s *LogSchema) NumFields() int {
	return len(s.fields)
}

func (s LogSchema) String() string {
	parts := make([]string, len(s.fields))
	for i, f := range s.fields {
		parts[i] = f.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// NewTestRecord creates new record with the given values for testing, or panic if the number of values mismatches
func (s *LogSchema) NewTestRecord(values ...LogValue) *LogRecord {
	if len(values) != len(s.fields) {
		logger.Panicf("wrong numbers of test log values: %d, should be %d", len(values), len(s.fields))
	}
	return &LogRecord{Values: values}
}
