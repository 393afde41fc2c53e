package cmd

import (
	"context"
	"os"

	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/defs"
	"github.com/relex/zmqlogwriter/run"
	"github.com/relex/zmqlogwriter/util"
)

type replayCommandState struct {
	Config      string `help:"Configuration file path, optional"`
	MetricsAddr string `help:"The listener address to expose Prometheus metrics and debug information"`
	TestMode    bool   `help:"Use test mode config: short heartbeat interval and stop timeout"`
}

var replayCmd = replayCommandState{
	Config:      "",
	MetricsAddr: ":9335",
	TestMode:    false,
}

func (cmd *replayCommandState) run(args []string) {
	if cmd.TestMode {
		defs.EnableTestMode()
	}

	files := make([]string, 0, len(args))
	for _, arg := range args {
		pathList, err := util.ListFiles(arg)
		if err != nil {
			logger.Fatalf("invalid input '%s': %s", arg, err.Error())
		}
		if len(pathList) == 0 {
			logger.Fatalf("no input files in '%s'", arg)
		}
		files = append(files, pathList...)
	}
	if len(files) == 0 {
		logger.Fatal("no input files")
	}

	msrv := util.LaunchMetricsListener(cmd.MetricsAddr)

	ok := run.Replay(cmd.Config, files, "zmqlogwriter_")

	if err := msrv.Shutdown(context.Background()); err != nil {
		logger.Errorf("error shutting down metrics listener: %v", err)
	}
	if !ok {
		os.Exit(1)
	}
}
