package main

import (
	_ "bankrec/cmd"
	"bankrec/cmd/root"
	"bankrec/internal/config"
	"bankrec/internal/logger"
	"os"
)

func main() {
	// Server mode mirrors logs to the console in addition to the log file
	isServerMode := len(os.Args) > 1 && os.Args[1] == "server"

	logger.InitLoggerWithMode(&config.Config.Log, isServerMode)

	if err := root.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}
