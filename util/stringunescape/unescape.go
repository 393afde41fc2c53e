// Package stringunescape provides Unescaper for strings with escaped bytes such as `\x09` or `\n`
package stringunescape

import (
	"strings"

	"github.com/relex/zmqlogwriter/util"
)

// Unescaper searches and unescapes hexadecimal escapes like `\x2c` and optionally mapped escapes like `\n`
//
// Invalid escapes are kept as they are. Unescaper instances contain no buffer and may be copied or concurrently used.
type Unescaper struct {
	escapeChar       byte
	hexPrefix        byte // e.g. 'x' for `\xHH`
	escapableCharMap []byte
}

// NewUnescaper creates an Unescaper for hexadecimal escapes of escapeChar + hexPrefix + two hex digits, plus the
// single-character escapes in mapping. The mapping may be nil.
func NewUnescaper(escapeChar byte, hexPrefix byte, mapping map[byte]byte) Unescaper {
	cmap := make([]byte, 256)
	for key, val := range mapping {
		cmap[key] = val
	}
	cmap[escapeChar] = escapeChar
	return Unescaper{
		escapeChar:       escapeChar,
		hexPrefix:        hexPrefix,
		escapableCharMap: cmap,
	}
}

// FindFirst finds the index of the first escape char, or -1
func (e Unescaper) FindFirst(str string) int {
	return strings.IndexByte(str, e.escapeChar)
}

// Run unescapes the given string
func (e Unescaper) Run(src string) string {
	first := strings.IndexByte(src, e.escapeChar)
	if first == -1 {
		return src
	}
	return e.RunFromFirst(src, first)
}

// RunFromFirst unescapes the given string, starting from the position of first escape char
func (e Unescaper) RunFromFirst(src string, first int) string {
	dst := make([]byte, len(src))
	dend := e.RunToBuffer(src, first, dst)
	return util.StringFromBytes(dst[:dend])
}

// RunToBuffer unescapes the given string to destination buffer, starting from the position of first escape char
//
// The buffer must be at least as long as src. Returns the end / length in the destination buffer.
func (e Unescaper) RunToBuffer(src string, first int, dst []byte) int {
	si := first
	di := copy(dst, src[:si])
	for si < len(src) {
		if src[si] != e.escapeChar || si+1 >= len(src) {
			dst[di] = src[si]
			di++
			si++
			continue
		}
		next := src[si+1]
		if next == e.hexPrefix && si+3 < len(src) && isHexDigit(src[si+2]) && isHexDigit(src[si+3]) {
			dst[di] = hexValue(src[si+2])<<4 | hexValue(src[si+3])
			di++
			si += 4
		} else if c := e.escapableCharMap[next]; c != 0 {
			dst[di] = c
			di++
			si += 2
		} else {
			dst[di] = e.escapeChar
			dst[di+1] = next
			di += 2
			si += 2
		}
		// copy all chars before next escape char
		n := strings.IndexByte(src[si:], e.escapeChar)
		if n == -1 {
			n = len(src) - si
		}
		di += copy(dst[di:], src[si:si+n])
		si += n
	}
	return di
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}
