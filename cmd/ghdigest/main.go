package main

import "ghdigest/internal/platform/logger"

func main() {
	logger.Init(logger.FromEnv())
	execute()
}
