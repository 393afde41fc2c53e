package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type yamlParentType struct {
	Name     string        `yaml:"name"`
	Interval time.Duration `yaml:"interval"`
	Child    yamlChildType `yaml:"child"`
}

type yamlChildType struct {
	Tags []string `yaml:"tags,omitempty"`
}

func TestYAMLMarshal(t *testing.T) {
	y, err := MarshalYaml(&yamlParentType{
		Name:     "succ",
		Interval: 1500 * time.Millisecond,
		Child:    yamlChildType{Tags: []string{"a"}},
	})
	assert.Nil(t, err)
	assert.Equal(t, "name: succ\ninterval: 1.5s\nchild:\n  tags:\n    - a\n", y)
}

func TestYAMLUnmarshal(t *testing.T) {
	var yp yamlParentType
	assert.Nil(t, UnmarshalYamlString("name: hi\ninterval: 2s\nchild:\n  tags: [x, y]\n", &yp))
	assert.Equal(t, yamlParentType{Name: "hi", Interval: 2 * time.Second, Child: yamlChildType{Tags: []string{"x", "y"}}}, yp)

	assert.ErrorContains(t, UnmarshalYamlString("name: hi\nunknown: 1\n", &yp), "field unknown not found")
}

func TestYAMLUnmarshalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	assert.Nil(t, os.WriteFile(path, []byte("name: file\n"), 0644))

	var yp yamlParentType
	assert.Nil(t, UnmarshalYamlFile(path, &yp))
	assert.Equal(t, "file", yp.Name)

	assert.NotNil(t, UnmarshalYamlFile(filepath.Join(t.TempDir(), "missing.yml"), &yp))
}
