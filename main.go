// Package main is the entry point for the streamplay application.
package main

import (
	"github.com/samber/lo"
	"github.com/streamplay-cli/streamplay/cmd"
	"github.com/streamplay-cli/streamplay/config"
	"github.com/streamplay-cli/streamplay/internal/cache"
	"github.com/streamplay-cli/streamplay/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
