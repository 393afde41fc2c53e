package zeekascii

import (
	"fmt"
	"strings"

	"github.com/relex/zmqlogwriter/base"
)

// Header holds the directives of a log file, which precede the data lines
type Header struct {
	Separator    string // field separator, "\t" by default
	SetSeparator string // separator of elements in sets and vectors
	EmptyField   string // placeholder of empty containers or strings
	UnsetField   string // placeholder of unset values
	Path         string // log path / stream name, e.g. "conn"
	Open         string // time when the file was opened, as written
	Close        string // time when the file was closed, as written
	Fields       []string
	Types        []string
}

// DefaultHeader returns the header assumed before any directive is read
func DefaultHeader() Header {
	return Header{
		Separator:    "\t",
		SetSeparator: ",",
		EmptyField:   "(empty)",
		UnsetField:   "-",
	}
}

// HasSchema checks whether both #fields and #types have been read
func (h *Header) HasSchema() bool {
	return len(h.Fields) > 0 && len(h.Types) > 0
}

// Schema builds the LogSchema from #fields and #types
func (h *Header) Schema() (base.LogSchema, error) {
	if !h.HasSchema() {
		return base.LogSchema{}, fmt.Errorf("missing #fields or #types")
	}
	return base.ParseLogSchema(h.Fields, h.Types)
}

// applyDirective parses one header line starting with '#'
//
// Returns true if #fields or #types is changed, which invalidates the current schema
func (h *Header) applyDirective(line string) (bool, error) {
	// "#separator" is always followed by a space and escaped value, e.g. "#separator \x09"
	if rest, ok := strings.CutPrefix(line, "#separator "); ok {
		sep := hexUnescaper.Run(rest)
		if sep == "" {
			return false, fmt.Errorf("empty separator")
		}
		h.Separator = sep
		return false, nil
	}

	name, value, found := strings.Cut(line[1:], h.Separator)
	if !found {
		return false, fmt.Errorf("directive without value: %s", name)
	}
	switch name {
	case "set_separator":
		h.SetSeparator = hexUnescaper.Run(value)
	case "empty_field":
		h.EmptyField = hexUnescaper.Run(value)
	case "unset_field":
		h.UnsetField = hexUnescaper.Run(value)
	case "path":
		h.Path = hexUnescaper.Run(value)
	case "open":
		h.Open = value
	case "close":
		h.Close = value
	case "fields":
		h.Fields = strings.Split(value, h.Separator)
		return true, nil
	case "types":
		h.Types = strings.Split(value, h.Separator)
		return true, nil
	default:
		return false, fmt.Errorf("unknown directive: %s", name)
	}
	return false, nil
}
