package zeekascii

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/util/stringunescape"
)

var hexUnescaper = stringunescape.NewUnescaper('\\', 'x', nil)

// parseField parses the text of one field, including the unset and empty placeholders
func parseField(header *Header, field base.LogField, text string) (base.LogValue, error) {
	if text == header.UnsetField {
		return base.UnsetValue(field.Type), nil
	}
	if field.Type.IsContainer() {
		return parseContainer(header, field, text)
	}
	if text == header.EmptyField {
		if field.Type == base.TypeString {
			return base.StringValue(""), nil
		}
		return base.UnsetValue(field.Type), nil
	}
	return parseScalar(field.Type, text)
}

func parseContainer(header *Header, field base.LogField, text string) (base.LogValue, error) {
	var elems []base.LogValue
	if text != header.EmptyField {
		parts := strings.Split(text, header.SetSeparator)
		elems = make([]base.LogValue, len(parts))
		for i, part := range parts {
			if part == header.UnsetField {
				elems[i] = base.UnsetValue(field.ElemType)
				continue
			}
			elem, err := parseScalar(field.ElemType, part)
			if err != nil {
				return base.LogValue{}, fmt.Errorf("element %d: %w", i, err)
			}
			elems[i] = elem
		}
	}
	if field.Type == base.TypeSet {
		return base.SetValue(field.ElemType, elems...), nil
	}
	return base.VectorValue(field.ElemType, elems...), nil
}

func parseScalar(t base.LogFieldType, text string) (base.LogValue, error) {
	switch t {
	case base.TypeBool:
		switch text {
		case "T":
			return base.BoolValue(true), nil
		case "F":
			return base.BoolValue(false), nil
		default:
			return base.LogValue{}, fmt.Errorf("invalid bool '%s'", text)
		}
	case base.TypeInt:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return base.LogValue{}, fmt.Errorf("invalid int '%s'", text)
		}
		return base.IntValue(v), nil
	case base.TypeCount:
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return base.LogValue{}, fmt.Errorf("invalid count '%s'", text)
		}
		return base.CountValue(v), nil
	case base.TypePort:
		v, err := strconv.ParseUint(text, 10, 16)
		if err != nil {
			return base.LogValue{}, fmt.Errorf("invalid port '%s'", text)
		}
		return base.PortValue(v), nil
	case base.TypeDouble:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return base.LogValue{}, fmt.Errorf("invalid double '%s'", text)
		}
		return base.DoubleValue(v), nil
	case base.TypeTime:
		sec, nsec, err := parseSecondsAndNanos(text)
		if err != nil {
			return base.LogValue{}, fmt.Errorf("invalid time '%s'", text)
		}
		return base.TimeValue(time.Unix(sec, nsec)), nil
	case base.TypeInterval:
		sec, nsec, err := parseSecondsAndNanos(text)
		if err != nil {
			return base.LogValue{}, fmt.Errorf("invalid interval '%s'", text)
		}
		return base.IntervalValue(time.Duration(sec)*time.Second + time.Duration(nsec)), nil
	case base.TypeString:
		return base.StringValue(hexUnescaper.Run(text)), nil
	case base.TypeAddr:
		return base.AddrValue(text), nil
	case base.TypeSubnet:
		return base.SubnetValue(text), nil
	case base.TypeEnum:
		return base.EnumValue(text), nil
	default:
		return base.LogValue{}, fmt.Errorf("unsupported type %s", t)
	}
}

// parseSecondsAndNanos parses decimal seconds like "1700000000.123456" without going through float64
//
// The nanoseconds have the same sign as seconds, e.g. "-1.5" is (-1, -500000000)
func parseSecondsAndNanos(text string) (int64, int64, error) {
	intPart, fracPart, _ := strings.Cut(text, ".")
	negative := strings.HasPrefix(intPart, "-")
	sec, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	if len(fracPart) == 0 {
		return sec, 0, nil
	}
	if len(fracPart) > 9 {
		fracPart = fracPart[:9]
	}
	nsec, err := strconv.ParseUint(fracPart, 10, 32)
	if err != nil {
		return 0, 0, err
	}
	for i := len(fracPart); i < 9; i++ {
		nsec *= 10
	}
	if negative {
		return sec, -int64(nsec), nil
	}
	return sec, int64(nsec), nil
}
