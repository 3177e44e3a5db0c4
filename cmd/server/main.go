package main

import (
	"github.com/causamap/backend/internal/server"
	"github.com/causamap/backend/internal/util"
	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
