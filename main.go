package main

import (
	"fmt"
	"runtime"

	"github.com/pebbe/zmq4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/relex/gotils/logger"
	"github.com/relex/zmqlogwriter/cmd"
)

var version string

func main() {
	logger.Infof("version: %s", version)
	logger.Infof("GOMAXPROCS: %d", runtime.GOMAXPROCS(0))

	registerInfoMetric()

	cmd.Execute()
}

func registerInfoMetric() {
	major, minor, patch := zmq4.Version()
	opts := prometheus.GaugeOpts{}
	opts.Name = "zmqlogwriter_info"
	opts.Help = "zmqlogwriter application information"
	gauge := prometheus.NewGaugeVec(opts, []string{"version", "libzmq"})
	gauge.WithLabelValues(version, fmt.Sprintf("%d.%d.%d", major, minor, patch)).Set(1)
	prometheus.MustRegister(gauge)
}
