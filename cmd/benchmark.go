package cmd

import (
	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/defs"
	"github.com/relex/zmqlogwriter/publish"
	"github.com/relex/zmqlogwriter/test"
)

type benchmarkCommandState struct {
	Input    string `help:"Input file path or wildcard pattern (Zeek ASCII logs, optionally gzipped)."`
	Format   string `help:"Record format: json or msgpack"`
	Hostname string `help:"Hostname to publish to, for publisher benchmark"`
	Port     string `help:"Port to publish to, for publisher benchmark"`
	Repeat   int    `help:"Repeat times"`
}

var benchCmd = benchmarkCommandState{
	Input:    "testdata/samples/*.log",
	Format:   "json",
	Hostname: "127.0.0.1",
	Port:     "5556",
	Repeat:   100,
}

func (cmd *benchmarkCommandState) runBenchmarkSerializerCommand(_ []string) {
	defs.EnableTestMode()
	test.RunBenchmarkSerializer(cmd.Input, cmd.Format, cmd.Repeat)
}

func (cmd *benchmarkCommandState) runBenchmarkPublisherCommand(_ []string) {
	defs.EnableTestMode()
	port, err := publish.ParsePort(cmd.Port)
	if err != nil {
		logger.Fatalf("invalid port '%s': %s", cmd.Port, err.Error())
	}
	test.RunBenchmarkPublisher(cmd.Input, cmd.Format, cmd.Hostname, port, cmd.Repeat)
}
