package main

import (
	"log"
	"os"
	"time"

	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/devices/fffe/tty"
)

// runTerminal runs the program in the terminal. Trace output goes to
// stderr so it does not mix with the display. Breakpoints are ignored
// since the terminal has no debugger controls.
func (a *App) runTerminal() error {
	a.traceOut = os.Stderr

	term := tty.New(os.Stdin, os.Stdout)
	a.newController(append([]devices.Device{term}, a.peripherals()...)...)
	defer a.disposeTerminal()

	if err := a.cpu.Startup(); err != nil {
		return err
	}

	if err := a.loadProgram(); err != nil {
		return err
	}

	a.cpu.Start()

	for !term.Quit() {
		if a.cpu.Running() {
			if err := a.cpu.Run(false); err != nil {
				log.Println(err)
			}
		}

		a.cpu.Update()
		time.Sleep(time.Millisecond)
	}

	return nil
}

// disposeTerminal restores the terminal and releases peripherals.
func (a *App) disposeTerminal() {
	a.cpu.Stop()
	a.dumpState()

	if err := a.cpu.Shutdown(); err != nil {
		log.Println(err)
	}
}
