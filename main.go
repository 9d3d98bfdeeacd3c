// Package main is the entry point for the rateplot CLI.
package main

import (
	"github.com/huangsam/rateplot/cmd"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseStores()

	if err := cmd.Execute(); err != nil {
		iocache.CloseStores()
		contract.LogFatal("Command failed", err)
	}
}
