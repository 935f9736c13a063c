// main is the entry point of the blqdash CLI.
package main

import (
	"github.com/huangsam/blqdash/cmd"
	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()

	iocache.CloseCaching()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Cannot stop profiling", perr)
	}
	if err != nil {
		contract.LogFatal("blqdash failed", err)
	}
}
