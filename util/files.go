package util

import (
	"os"
	"path/filepath"
	"sort"
)

// ListFiles lists non-dir files or first level files under the directories in the given path pattern
//
// Hidden files under directories are skipped, e.g. partial uploads like ".conn.log.swp"
func ListFiles(directoryOrFilePattern string) ([]string, error) {
	inputList, gerr := filepath.Glob(directoryOrFilePattern)
	if gerr != nil {
		return nil, gerr
	}
	pathList := make([]string, 0, len(inputList)*2+10)
	for _, input := range inputList {
		stat, serr := os.Stat(input)
		if serr != nil {
			return nil, serr
		}
		if stat.IsDir() {
			fileList, rerr := os.ReadDir(input)
			if rerr != nil {
				return nil, rerr
			}
			for _, file := range fileList {
				if file.IsDir() || file.Name()[0] == '.' {
					continue
				}
				pathList = append(pathList, filepath.Join(input, file.Name()))
			}
		} else {
			pathList = append(pathList, input)
		}
	}
	sort.Strings(pathList)
	return pathList, nil
}
