package util

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListFiles(t *testing.T) {
	rootPath := t.TempDir()

	assert.Nil(t, os.Mkdir(path.Join(rootPath, "subDir1"), 0755))
	assert.Nil(t, os.Mkdir(path.Join(rootPath, "subDir1", "nested"), 0755))
	assert.Nil(t, os.Mkdir(path.Join(rootPath, "subDir2"), 0755))
	assert.Nil(t, os.Mkdir(path.Join(rootPath, "subDir3"), 0755))
	assert.Nil(t, os.WriteFile(path.Join(rootPath, "subDir1", "test1b"), []byte("Hello1b"), 0644))
	assert.Nil(t, os.WriteFile(path.Join(rootPath, "subDir1", "test1a"), []byte("Hello1a"), 0644))
	assert.Nil(t, os.WriteFile(path.Join(rootPath, "subDir1", ".hidden"), []byte("Hidden"), 0644))
	assert.Nil(t, os.WriteFile(path.Join(rootPath, "subDir2", "test2"), []byte("Hello2"), 0644))
	assert.Nil(t, os.WriteFile(path.Join(rootPath, "subDir3", "test3"), []byte("Hello3"), 0644))

	t.Run("list dirs", func(tt *testing.T) {
		files, err := ListFiles(path.Join(rootPath, "subDir[13]"))
		assert.Nil(tt, err)
		assert.Equal(tt, []string{
			path.Join(rootPath, "subDir1", "test1a"),
			path.Join(rootPath, "subDir1", "test1b"),
			path.Join(rootPath, "subDir3", "test3"),
		}, files)
	})

	t.Run("list files", func(tt *testing.T) {
		files, err := ListFiles(path.Join(rootPath, "subDir*", "test[23]"))
		assert.Nil(tt, err)
		assert.Equal(tt, []string{
			path.Join(rootPath, "subDir2", "test2"),
			path.Join(rootPath, "subDir3", "test3"),
		}, files)
	})

	t.Run("no match", func(tt *testing.T) {
		files, err := ListFiles(path.Join(rootPath, "none*"))
		assert.Nil(tt, err)
		assert.Empty(tt, files)
	})

	t.Run("bad pattern", func(tt *testing.T) {
		_, err := ListFiles(path.Join(rootPath, "["))
		assert.NotNil(tt, err)
	})
}
