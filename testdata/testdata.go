// Package testdata provides access to shared sample logs and config for testing
package testdata

import (
	"path/filepath"
	"runtime"
	"testing"
)

var absoluteDirPath string

func init() {
	_, thisFile, _, _ := runtime.Caller(0)
	absoluteDirPath = filepath.Dir(thisFile)
}

// GetConfigPath returns the path of the sample config
func GetConfigPath() string {
	return filepath.Join(absoluteDirPath, "config_sample.yml")
}

// GetInputPattern returns the wildcard pattern of sample logs with the given name pattern, e.g. "*" or "conn"
func GetInputPattern(pattern string) string {
	return filepath.Join(absoluteDirPath, "samples", pattern+".log")
}

// ListInputFiles lists sample logs matching the given name pattern
func ListInputFiles(t *testing.T, pattern string) []string {
	fullPattern := GetInputPattern(pattern)

	inFiles, globErr := filepath.Glob(fullPattern)
	if globErr != nil {
		t.Fatalf("failed to scan test files at path %s: %v", fullPattern, globErr)
	}
	if len(inFiles) == 0 {
		t.Fatalf("failed to find test files at path %s: no match", fullPattern)
	}
	return inFiles
}
