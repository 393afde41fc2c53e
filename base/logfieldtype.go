package base

import (
	"fmt"
	"strings"
)

// LogFieldType defines the type of a log field, following the type names of the host log framework
type LogFieldType int

// Supported field types
//
// Container types (set, vector) carry their element type separately in LogField.ElemType
const (
	TypeInvalid LogFieldType = iota
	TypeBool
	TypeInt
	TypeCount
	TypePort
	TypeDouble
	TypeTime
	TypeInterval
	TypeString
	TypeAddr
	TypeSubnet
	TypeEnum
	TypeSet
	TypeVector
)

var fieldTypeNames = [...]string{
	TypeInvalid:  "invalid",
	TypeBool:     "bool",
	TypeInt:      "int",
	TypeCount:    "count",
	TypePort:     "port",
	TypeDouble:   "double",
	TypeTime:     "time",
	TypeInterval: "interval",
	TypeString:   "string",
	TypeAddr:     "addr",
	TypeSubnet:   "subnet",
	TypeEnum:     "enum",
	TypeSet:      "set",
	TypeVector:   "vector",
}

func (t LogFieldType) String() string {
	if t < 0 || int(t) >= len(fieldTypeNames) {
		return fmt.Sprintf("LogFieldType(%d)", int(t))
	}
	return fieldTypeNames[t]
}

// IsContainer returns true for set and vector
func (t LogFieldType) IsContainer() bool {
	return t == TypeSet || t == TypeVector
}

// ParseLogFieldType parses type names such as "count" or "set[string]"
//
// Returns (type, element type or TypeInvalid, error)
func ParseLogFieldType(name string) (LogFieldType, LogFieldType, error) {
	if open := strings.IndexByte(name, '['); open != -1 {
		if !strings.HasSuffix(name, "]") {
			return TypeInvalid, TypeInvalid, fmt.Errorf("unterminated container type '%s'", name)
		}
		containerType := lookupScalarOrContainerType(name[:open])
		if !containerType.IsContainer() {
			return TypeInvalid, TypeInvalid, fmt.Errorf("'%s' is not a container type", name[:open])
		}
		elemType := lookupScalarOrContainerType(name[open+1 : len(name)-1])
		if elemType == TypeInvalid || elemType.IsContainer() {
			return TypeInvalid, TypeInvalid, fmt.Errorf("invalid element type in '%s'", name)
		}
		return containerType, elemType, nil
	}
	t := lookupScalarOrContainerType(name)
	if t == TypeInvalid || t.IsContainer() {
		return TypeInvalid, TypeInvalid, fmt.Errorf("unsupported type '%s'", name)
	}
	return t, TypeInvalid, nil
}

func lookupScalarOrContainerType(name string) LogFieldType {
	for i, n := range fieldTypeNames {
		if i != int(TypeInvalid) && n == name {
			return LogFieldType(i)
		}
	}
	// "func" fields are logged as strings by the host
	if name == "func" {
		return TypeString
	}
	return TypeInvalid
}
