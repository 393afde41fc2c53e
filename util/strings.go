package util

import (
	"unsafe"
)

// MutableString is a string backed by raw []byte, instead of in the immutable memory area like normal Go strings.
//
// Its contents may be changed. But we cannot create a new type or string functions wouldn't work with it.
type MutableString = string

// StringFromBytes makes a string backed by a specified []byte.
//
// There is no copying and the resulting string shares the same []byte contents. The caller must not modify the []byte
// afterwards unless the string is meant to reflect the changes.
func StringFromBytes(buf []byte) MutableString {
	return unsafe.String(unsafe.SliceData(buf), len(buf))
}
