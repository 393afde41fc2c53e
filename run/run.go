// Package run replays log files through the publisher, as the host of all stream writers
package run

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/defs"
	"github.com/relex/zmqlogwriter/output/zeromq"
	"github.com/relex/zmqlogwriter/util"
)

// Replay publishes the given log files until they are all done or stopped by signals
//
// The config file is optional. Returns false if any of the streams failed.
func Replay(configFile string, files []string, metricPrefix string) bool {
	runLogger := logger.WithField(defs.LabelComponent, "Launcher")

	config := NewDefaultConfig()
	if configFile != "" {
		var err error
		config, err = LoadConfigFile(configFile)
		if err != nil {
			logger.Fatalf("failed to load config '%s': %s", configFile, err.Error())
		}
	}

	if dump, err := util.MarshalYaml(config); err == nil {
		runLogger.Infof("effective config:\n%s", dump)
	}

	transport, err := zeromq.NewContext(logger.Root())
	if err != nil {
		logger.Fatal(err)
	}

	runner, err := NewRunner(logger.Root(), config, transport, base.NewMetricFactory(metricPrefix, nil, nil))
	if err != nil {
		logger.Fatal(err)
	}

	// stop on shutdown signal
	sigChan := make(chan os.Signal, 10)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigChan)
		close(sigChan)
	}()
	go func() {
		if s, ok := <-sigChan; ok {
			runLogger.Infof("received %s, shutting down", s)
			runner.Stop()
		}
	}()

	_, replayErr := runner.Replay(files)
	if replayErr != nil {
		runLogger.Error(replayErr)
	}

	// refused while any session is still open
	if err := transport.Close(); err != nil {
		runLogger.Error(err)
		return false
	}
	runLogger.Info("clean exit")
	return replayErr == nil
}
