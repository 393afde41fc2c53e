package base

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogSchema(t *testing.T) {
	_, err1 := NewLogSchema([]LogField{{Name: "a", Type: TypeString}, {Name: "", Type: TypeString}})
	assert.ErrorContains(t, err1, "invalid 1th field")

	_, err2 := NewLogSchema([]LogField{{Name: "a", Type: TypeString}, {Name: "b", Type: TypeCount}, {Name: "b", Type: TypeTime}})
	assert.ErrorContains(t, err2, "duplicated 2th field 'b'")

	_, err3 := NewLogSchema([]LogField{{Name: "a"}})
	assert.ErrorContains(t, err3, "has no type")

	_, err4 := NewLogSchema([]LogField{{Name: "tags", Type: TypeSet}})
	assert.ErrorContains(t, err4, "invalid element type")
}

func TestParseLogSchema(t *testing.T) {
	schema, err := ParseLogSchema(
		[]string{"ts", "uid", "id.orig_p", "tunnel_parents", "duration"},
		[]string{"time", "string", "port", "set[string]", "interval"})
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, []string{"ts", "uid", "id.orig_p", "tunnel_parents", "duration"}, schema.GetFieldNames())
	assert.Equal(t, LogField{Name: "tunnel_parents", Type: TypeSet, ElemType: TypeString}, schema.GetFields()[3])
	assert.Equal(t, "[ts:time, uid:string, id.orig_p:port, tunnel_parents:set[string], duration:interval]", schema.String())

	_, err = ParseLogSchema([]string{"a", "b"}, []string{"time"})
	assert.ErrorContains(t, err, "2 field names but 1 types")

	_, err = ParseLogSchema([]string{"a"}, []string{"table[string]"})
	assert.ErrorContains(t, err, "field 'a'")
}

func TestParseLogFieldType(t *testing.T) {
	typ, elem, err := ParseLogFieldType("vector[count]")
	assert.NoError(t, err)
	assert.Equal(t, TypeVector, typ)
	assert.Equal(t, TypeCount, elem)

	typ, elem, err = ParseLogFieldType("func")
	assert.NoError(t, err)
	assert.Equal(t, TypeString, typ)
	assert.Equal(t, TypeInvalid, elem)

	_, _, err = ParseLogFieldType("set")
	assert.ErrorContains(t, err, "unsupported type 'set'")

	_, _, err = ParseLogFieldType("set[vector[int]]")
	assert.Error(t, err)

	_, _, err = ParseLogFieldType("count[string]")
	assert.ErrorContains(t, err, "not a container type")

	_, _, err = ParseLogFieldType("set[string")
	assert.ErrorContains(t, err, "unterminated")
}

func TestLogSchema(t *testing.T) {
	schema := MustNewLogSchema([]LogField{{Name: "a", Type: TypeString}, {Name: "b", Type: TypeCount}})

	_, err1 := schema.CreateFieldLocator("c")
	assert.ErrorContains(t, err1, "field 'c' is not defined in schema")

	b := schema.MustCreateFieldLocator("b")
	assert.Equal(t, "b", b.Name(schema))
	values := []LogValue{StringValue("first"), CountValue(2)}
	assert.Equal(t, CountValue(2), b.Get(values))
	b.Set(values, CountValue(3))
	assert.Equal(t, uint64(3), values[1].Count)

	assert.Panics(t, func() { schema.NewTestRecord(StringValue("x")) })
	assert.Len(t, schema.NewTestRecord(StringValue("x"), UnsetValue(TypeCount)).Values, 2)
}
