package main

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix:          appName,
	ReportTimestamp: true,
})

func setVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
		return
	}
	logger.SetLevel(log.InfoLevel)
}
