package main

import (
	"log"
	"os"

	"github.com/bradleyjkemp/memviz"
)

// dumpState writes a graphviz rendering of the machine to the file named
// by the -dump-state flag, if any.
func (a *App) dumpState() {
	if a.config.DumpState == "" || a.cpu == nil {
		return
	}

	fd, err := os.Create(a.config.DumpState)
	if err != nil {
		log.Println(err)
		return
	}

	defer fd.Close()

	memviz.Map(fd, a.cpu.Machine())
	log.Println("machine state written to", a.config.DumpState)
}
