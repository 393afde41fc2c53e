package base

import (
	"fmt"
	"strings"
	"time"
)

// LogValue is a typed field value of LogRecord
//
// Only the member matching Type is meaningful. Unset values have Present=false and are omitted from output.
type LogValue struct {
	Type     LogFieldType
	Present  bool
	Bool     bool
	Int      int64
	Count    uint64 // count and port
	Double   float64
	Time     time.Time
	Interval time.Duration
	Text     string // string, addr, subnet and enum
	ElemType LogFieldType
	Elems    []LogValue // set and vector
}

// UnsetValue creates an unset value of the given type
func UnsetValue(t LogFieldType) LogValue {
	return LogValue{Type: t}
}

// BoolValue creates a bool value
func BoolValue(v bool) LogValue {
	return LogValue{Type: TypeBool, Present: true, Bool: v}
}

// IntValue creates an int value
func IntValue(v int64) LogValue {
	return LogValue{Type: TypeInt, Present: true, Int: v}
}

// CountValue creates a count value
func CountValue(v uint64) LogValue {
	return LogValue{Type: TypeCount, Present: true, Count: v}
}

// PortValue creates a port value
func PortValue(v uint64) LogValue {
	return LogValue{Type: TypePort, Present: true, Count: v}
}

// DoubleValue creates a double value
func DoubleValue(v float64) LogValue {
	return LogValue{Type: TypeDouble, Present: true, Double: v}
}

// TimeValue creates a time value
func TimeValue(v time.Time) LogValue {
	return LogValue{Type: TypeTime, Present: true, Time: v}
}

// IntervalValue creates an interval value
func IntervalValue(v time.Duration) LogValue {
	return LogValue{Type: TypeInterval, Present: true, Interval: v}
}

// StringValue creates a string value
func StringValue(v string) LogValue {
	return LogValue{Type: TypeString, Present: true, Text: v}
}

// AddrValue creates an address value, e.g. "10.0.0.1"
func AddrValue(v string) LogValue {
	return LogValue{Type: TypeAddr, Present: true, Text: v}
}

// SubnetValue creates a subnet value, e.g. "10.0.0.0/8"
func SubnetValue(v string) LogValue {
	return LogValue{Type: TypeSubnet, Present: true, Text: v}
}

// EnumValue creates an enum value
func EnumValue(v string) LogValue {
	return LogValue{Type: TypeEnum, Present: true, Text: v}
}

// SetValue creates a set of elements of the given type
func SetValue(elemType LogFieldType, elems ...LogValue) LogValue {
	return LogValue{Type: TypeSet, Present: true, ElemType: elemType, Elems: elems}
}

// VectorValue creates a vector of elements of the given type
func VectorValue(elemType LogFieldType, elems ...LogValue) LogValue {
	return LogValue{Type: TypeVector, Present: true, ElemType: elemType, Elems: elems}
}

// EpochSeconds returns the time as seconds since Unix epoch with fractional part
func (v LogValue) EpochSeconds() float64 {
	return float64(v.Time.Unix()) + float64(v.Time.Nanosecond())/1e9
}

// MatchField checks whether the value is acceptable for the given field
func (v LogValue) MatchField(field LogField) bool {
	if v.Type != field.Type {
		return false
	}
	if !v.Present || !field.Type.IsContainer() {
		return true
	}
	if v.ElemType != field.ElemType {
		return false
	}
	for _, e := range v.Elems {
		if e.Present && e.Type != field.ElemType {
			return false
		}
	}
	return true
}

func (v LogValue) String() string {
	if !v.Present {
		return "-"
	}
	switch v.Type {
	case TypeBool:
		if v.Bool {
			return "T"
		}
		return "F"
	case TypeInt:
		return fmt.Sprint(v.Int)
	case TypeCount, TypePort:
		return fmt.Sprint(v.Count)
	case TypeDouble:
		return fmt.Sprint(v.Double)
	case TypeTime:
		return fmt.Sprintf("%.6f", v.EpochSeconds())
	case TypeInterval:
		return fmt.Sprintf("%.6f", v.Interval.Seconds())
	case TypeSet, TypeVector:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return v.Text
	}
}
