// Package cmd provides list of commands including replay and self-benchmarks
package cmd

import (
	"github.com/relex/gotils/config"
)

func init() {
	config.AddParentCmdWithArgs("", "zmqlogwriter publishes Zeek-style log records to ZeroMQ subscribers", &rootCmd, rootCmd.preRun, rootCmd.postRun)
	config.AddCmdWithArgs("benchmark <type> ...", "Run benchmark of specified type", &benchCmd, nil)
	config.AddCmdWithArgs("benchmark serializer ...", "Benchmark serialization of sample records", nil, benchCmd.runBenchmarkSerializerCommand)
	config.AddCmdWithArgs("benchmark publisher ...", "Benchmark publishing of sample records without subscriber", nil, benchCmd.runBenchmarkPublisherCommand)
	config.AddCmdWithArgs("replay <file> ...", "Replay log files to subscribers", &replayCmd, replayCmd.run)
}

// Execute parses the command line and runs the specified command
func Execute() {
	// trigger init

	config.Execute()
}
