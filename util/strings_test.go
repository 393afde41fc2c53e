package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringFromBytes(t *testing.T) {
	orig := []byte("hello")
	str := StringFromBytes(orig)
	assert.Equal(t, "hello", str)

	orig[0] = 'H'
	assert.Equal(t, "Hello", str)

	assert.Equal(t, "", StringFromBytes(nil))
	assert.Equal(t, "", StringFromBytes(orig[:0]))
}
