package stringunescape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnescapeHex(t *testing.T) {
	u := NewUnescaper('\\', 'x', nil)
	assert.Equal(t, "hello", u.Run("hello"))
	assert.Equal(t, "\t", u.Run(`\x09`))
	assert.Equal(t, "a,b\\c-", u.Run(`a\x2cb\x5cc\x2D`))
	assert.Equal(t, "\xff\x00end", u.Run(`\xff\x00end`))
	assert.Equal(t, `\xzz\x1`, u.Run(`\xzz\x1`), "Unescape invalid hex")
	assert.Equal(t, `x\`, u.Run(`x\`), "Unescape trailing backslash")
	assert.Equal(t, `\x41`, u.Run(`\\x41`), "Unescape escaped backslash")
	assert.Equal(t, `\y`, u.Run(`\y`))
	assert.Equal(t, 1, u.FindFirst(`a\x20`))
}

func TestUnescapeMapped(t *testing.T) {
	u := NewUnescaper('\\', 'x', map[byte]byte{
		'n': '\n',
		't': '\t',
	})
	assert.Equal(t, "hello\nworld\n123", u.Run(`hello\nworld\n123`))
	assert.Equal(t, "\nhello\x20world", u.Run(`\nhello\x20world`))
	assert.Equal(t, "x\\Xhello\n", u.Run(`x\Xhello\n`), "Unescape invalid escape character")
	assert.Equal(t, "x\n\n\txx\\N", u.Run(`x\n\n\txx\N`), "Unescape invalid escape char at end")
	assert.Equal(t, "x\n\n\txx\\", u.Run(`x\n\n\txx\\`))
}
