package output

import (
	"testing"

	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/base"
	"github.com/stretchr/testify/assert"
)

func TestLookupSerializer(t *testing.T) {
	assert.Equal(t, []string{"json", "msgpack"}, ListFormats())

	schema := base.MustNewLogSchema([]base.LogField{{Name: "n", Type: base.TypeCount}})
	newSerializer, err := LookupSerializer("")
	if assert.NoError(t, err) {
		stream, serr := newSerializer(logger.Root(), schema).Serialize(schema, []base.LogValue{base.CountValue(3)})
		assert.NoError(t, serr)
		assert.Equal(t, `{"n":3}`, string(stream))
	}

	_, err = LookupSerializer("msgpack")
	assert.NoError(t, err)

	_, err = LookupSerializer("xml")
	assert.EqualError(t, err, "unsupported format 'xml', must be one of [json msgpack]")
}
