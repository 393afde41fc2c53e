package cmd

import (
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/relex/gotils/logger"
)

type rootCommandState struct {
	CPUProfile string `name:"cpuprofile" help:"Write CPU profile to file."`
	MemProfile string `name:"memprofile" help:"Write memory profile to file."`
	Trace      string `help:"Write trace to file."`

	cpuProfileFile *os.File
	memProfileFile *os.File
	traceFile      *os.File
}

var rootCmd rootCommandState

func (cmd *rootCommandState) preRun() {
	if cmd.CPUProfile != "" {
		cmd.cpuProfileFile = createProfileFile("CPU profile", cmd.CPUProfile)
		if err := pprof.StartCPUProfile(cmd.cpuProfileFile); err != nil {
			logger.Fatalf("failed to start CPU profiling: %s", err.Error())
		}
	}

	if cmd.MemProfile != "" {
		cmd.memProfileFile = createProfileFile("memory profile", cmd.MemProfile)
	}

	if cmd.Trace != "" {
		cmd.traceFile = createProfileFile("trace", cmd.Trace)
		if err := trace.Start(cmd.traceFile); err != nil {
			logger.Fatalf("failed to start tracing: %s", err.Error())
		}
	}
}

func (cmd *rootCommandState) postRun() {
	if cmd.cpuProfileFile != nil {
		pprof.StopCPUProfile()
		closeProfileFile(cmd.cpuProfileFile)
	}

	if cmd.memProfileFile != nil {
		runtime.GC()
		if err := pprof.WriteHeapProfile(cmd.memProfileFile); err != nil {
			logger.Errorf("failed to write memory profile: %s", err.Error())
		}
		closeProfileFile(cmd.memProfileFile)
	}

	if cmd.traceFile != nil {
		trace.Stop()
		closeProfileFile(cmd.traceFile)
	}
}

func createProfileFile(kind string, path string) *os.File {
	f, err := os.Create(path)
	if err != nil {
		logger.Fatalf("failed to create %s %s: %s", kind, path, err.Error())
	}
	logger.Infof("start writing %s to %s", kind, path)
	return f
}

func closeProfileFile(f *os.File) {
	if err := f.Close(); err != nil {
		logger.Errorf("failed to close %s: %s", f.Name(), err.Error())
	}
}
