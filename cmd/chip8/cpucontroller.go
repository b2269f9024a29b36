package main

import (
	"log"
	"time"

	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/devices/fffe/clock"
	"github.com/hexaflex/chip8/devices/fffe/cpu"
)

// CPUController controls the execution of a machine and its peripherals.
type CPUController struct {
	machine     *cpu.Machine
	devices     devices.Map
	clock       *clock.Device
	breakpoints map[uint16]bool
	start       time.Time
	cycleCount  uint64
	running     bool
	resumed     bool
}

// NewCPUController creates a new CPU controller, pacing execution with
// the given clock.
func NewCPUController(trace cpu.TraceFunc, clk *clock.Device, devs ...devices.Device) *CPUController {
	c := &CPUController{
		machine:     cpu.New(trace),
		clock:       clk,
		breakpoints: make(map[uint16]bool),
	}

	c.devices.Connect(clk)
	for _, dev := range devs {
		if !c.devices.Connect(dev) {
			log.Println(dev.ID(), "already connected")
		}
	}

	return c
}

// Machine returns the controlled machine.
func (c *CPUController) Machine() *cpu.Machine {
	return c.machine
}

// SetBreakpoints replaces the set of breakpoint addresses.
func (c *CPUController) SetBreakpoints(addrs []uint16) {
	c.breakpoints = make(map[uint16]bool, len(addrs))
	for _, addr := range addrs {
		c.breakpoints[addr] = true
	}
}

// Running returns true if the CPU is currently running.
func (c *CPUController) Running() bool {
	return c.running
}

// Frequency returns the measured clock frequency in herz.
func (c *CPUController) Frequency() float64 {
	if !c.running {
		return 0
	}
	return float64(c.cycleCount) / time.Since(c.start).Seconds()
}

// ToggleRun starts or stops program execution.
func (c *CPUController) ToggleRun() {
	c.setRunning(!c.running)
}

// Start begins execution of the program.
func (c *CPUController) Start() {
	c.setRunning(true)
}

// Stop pauses execution of the program.
func (c *CPUController) Stop() {
	c.setRunning(false)
}

// Step performs a single execution cycle.
// Execution stops if the cycle faults.
func (c *CPUController) Step() error {
	c.cycleCount++

	err := c.machine.Cycle()
	if err != nil {
		c.setRunning(false)
		return err
	}

	return nil
}

// Run performs the cycles which are due according to the clock.
// If useBreakpoints is set, execution stops before an instruction
// at a breakpoint address.
func (c *CPUController) Run(useBreakpoints bool) error {
	n := c.clock.Due()

	for i := 0; i < n && c.running; i++ {
		if useBreakpoints && !c.resumed && c.breakpoints[c.machine.PC] {
			log.Printf("breakpoint at %04x", c.machine.PC)
			c.Stop()
			return nil
		}

		c.resumed = false

		if err := c.Step(); err != nil {
			return err
		}
	}

	return nil
}

// Update exchanges state between the machine and its peripherals.
func (c *CPUController) Update() {
	c.devices.Update(c.machine)
}

// Load resets the machine and loads the given program.
func (c *CPUController) Load(rom []byte) error {
	c.machine.Reset()
	return c.machine.Load(rom)
}

// Startup initializes connected peripherals.
func (c *CPUController) Startup() error {
	return c.devices.Startup()
}

// Shutdown disposes of peripheral resources.
func (c *CPUController) Shutdown() error {
	return c.devices.Shutdown()
}

// setRunning determines if the CPU is running or is paused.
func (c *CPUController) setRunning(v bool) {
	c.running = v
	c.resumed = v
	c.start = time.Now()
	c.cycleCount = 0
	c.clock.Reset()
}
