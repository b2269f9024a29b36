package main

import (
	"log"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Runtime statistics server location.
const (
	statsAddress = "localhost:12600"
	statsPath    = "/debug/statsview"
)

// launchStats starts the runtime statistics server in the background.
func launchStats() {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(statsAddress))
		mgr := statsview.New()
		mgr.Start()
	}()

	log.Printf("stats server available at http://%s%s", statsAddress, statsPath)
}
