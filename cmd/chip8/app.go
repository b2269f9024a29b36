package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/devices/fffe/buzzer"
	"github.com/hexaflex/chip8/devices/fffe/clock"
	"github.com/hexaflex/chip8/devices/fffe/cpu"
	"github.com/hexaflex/chip8/devices/fffe/hexkey"
	"github.com/hexaflex/chip8/devices/fffe/lores"
	"github.com/hexaflex/chip8/devices/fffe/wavrec"
	"github.com/hexaflex/chip8/snapshot"
	"github.com/hexaflex/chip8/translate"
)

// App defines application context.
type App struct {
	config       *Config        // Application configuration.
	window       *glfw.Window   // OpenGL/GLFW context.
	cpu          *CPUController // Machine with program to be run.
	display      *lores.Device  // Virtual display peripheral.
	keypad       *hexkey.Device // Virtual keypad peripheral.
	traceOut     io.Writer      // Destination for trace output.
	titleUpdated time.Time      // Value used to periodically update window title.
	lastRendered time.Time      // Last time a frame was rendered.
}

// NewApp creates a new application instance using the given configuration.
func NewApp(config *Config) *App {
	return &App{
		config:   config,
		traceOut: os.Stdout,
	}
}

// Run runs the application and does not return until it is finished
// or an error occured during initialization.
func (a *App) Run() error {
	if a.config.StatsView {
		launchStats()
	}

	if a.config.Terminal {
		return a.runTerminal()
	}

	return a.runWindow()
}

// runWindow runs the program in a GLFW window.
func (a *App) runWindow() error {
	defer a.dispose()

	if err := a.initGL(); err != nil {
		return err
	}

	a.display = lores.New(a.config.Background, a.config.Foreground)
	a.keypad = hexkey.New(a.window)
	a.newController(append([]devices.Device{a.keypad, a.display}, a.peripherals()...)...)

	if err := a.cpu.Startup(); err != nil {
		return err
	}

	log.Println(Version())
	printHelp()

	if err := a.loadProgram(); err != nil {
		return err
	}

	if !a.config.Debug {
		a.cpu.Start()
	}

	for !a.window.ShouldClose() {
		a.mainLoop()
	}

	return nil
}

// newController creates the cpu controller with the given peripherals.
func (a *App) newController(devs ...devices.Device) {
	a.cpu = NewCPUController(a.printTrace, clock.New(a.config.Frequency), devs...)
	a.cpu.SetBreakpoints(a.config.Breakpoints)

	if a.config.Seed != 0 {
		a.cpu.Machine().SetRand(cpu.NewRand(a.config.Seed))
	}
}

// peripherals returns the optional devices shared by both frontends.
func (a *App) peripherals() []devices.Device {
	var devs []devices.Device

	if !a.config.Mute {
		devs = append(devs, buzzer.New(a.config.Volume))
	}

	if a.config.RecordAudio != "" {
		devs = append(devs, wavrec.New(a.config.RecordAudio, a.config.Volume))
	}

	return devs
}

// mainLoop performs all main loop operations.
func (a *App) mainLoop() {
	if a.cpu.Running() {
		if err := a.cpu.Run(a.config.Debug); err != nil {
			log.Println(err)
		}
	}

	a.cpu.Update()

	// Periodically render display contents.
	if time.Since(a.lastRendered) >= time.Second/60 {
		a.lastRendered = time.Now()
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		a.display.Draw()
		a.window.SwapBuffers()
	}

	// Periodically update the window title to show the current cpu clock frequency.
	if time.Since(a.titleUpdated) >= time.Second*2 {
		a.titleUpdated = time.Now()
		freq := prettyFrequency(a.cpu.Frequency())
		a.window.SetTitle(fmt.Sprintf("%s %s - %s", AppName, AppVersion, freq))
	}

	glfw.PollEvents()
	time.Sleep(time.Millisecond)
}

// dispose ensures openGL/GLFW and other resources are cleaned up.
func (a *App) dispose() {
	if a.cpu != nil {
		a.cpu.Stop()
		a.dumpState()

		if err := a.cpu.Shutdown(); err != nil {
			log.Println(err)
		}

		a.cpu = nil
	}

	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}

	glfw.Terminate()
}

func (a *App) keyCallback(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	var err error

	switch key {
	case glfw.KeyEscape:
		a.window.SetShouldClose(true)
	case glfw.KeyF1:
		printHelp()
	case glfw.KeyF2:
		a.config.Debug = !a.config.Debug
		log.Println("debug mode:", a.config.Debug)
	case glfw.KeyF3:
		a.cpu.ToggleRun()
	case glfw.KeyF4:
		err = a.cpu.Step()
	case glfw.KeyF5:
		err = a.loadProgram()
	case glfw.KeyF6:
		err = a.saveState()
	case glfw.KeyF8:
		a.config.PrintTrace = !a.config.PrintTrace
	case glfw.KeyF9:
		err = a.loadState()
	case glfw.KeyF12:
		err = a.screenshot()
	}

	if err != nil {
		log.Println(err)
	}
}

// initGL initializes GLFW and openGL.
func (a *App) initGL() error {
	err := glfw.Init()
	if err != nil {
		return errors.Wrapf(err, "glfw.Init failed")
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.True)
	glfw.WindowHint(glfw.Focused, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor

	width := lores.DisplayWidth * a.config.ScaleFactor
	height := lores.DisplayHeight * a.config.ScaleFactor

	if a.config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()

		width = mode.Width
		height = mode.Height

		glfw.WindowHint(glfw.Decorated, glfw.False)
		glfw.WindowHint(glfw.Maximized, glfw.True)
	} else {
		glfw.WindowHint(glfw.Decorated, glfw.True)
		glfw.WindowHint(glfw.Maximized, glfw.False)
	}

	a.window, err = glfw.CreateWindow(width, height, AppName, monitor, nil)
	if err != nil {
		return errors.Wrapf(err, "glfw.CreateWindow failed")
	}

	a.window.MakeContextCurrent()
	a.window.SetKeyCallback(a.keyCallback)

	glfw.SwapInterval(0)

	err = gl.Init()
	if err != nil {
		return errors.Wrapf(err, "gl.Init failed")
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0, 0, 0, 1.0)
	return nil
}

// loadProgram loads the current program from disk and resets the machine.
func (a *App) loadProgram() error {
	log.Println("loading", a.config.Program)

	rom, err := os.ReadFile(a.config.Program)
	if err != nil {
		return errors.Wrapf(err, "failed to read program")
	}

	return a.cpu.Load(rom)
}

// saveState writes the machine state to the snapshot file.
func (a *App) saveState() error {
	if err := snapshot.SaveFile(a.config.Snapshot, a.cpu.Machine()); err != nil {
		return err
	}

	log.Println("state saved to", a.config.Snapshot)
	return nil
}

// loadState restores the machine state from the snapshot file.
func (a *App) loadState() error {
	if err := snapshot.LoadFile(a.config.Snapshot, a.cpu.Machine()); err != nil {
		return err
	}

	log.Println("state loaded from", a.config.Snapshot)
	return nil
}

// screenshot writes the display contents to a new PNG file.
func (a *App) screenshot() error {
	file, err := writeScreenshot(a.config.ScreenshotDir, a.cpu.Machine().Framebuffer(),
		a.config.ScaleFactor, a.config.Background, a.config.Foreground)
	if err != nil {
		return err
	}

	log.Println("screenshot saved to", file)
	return nil
}

// printTrace prints instruction trace data. This can be toggled
// on off through a.config.PrintTrace.
func (a *App) printTrace(i *arch.Instruction) {
	if !a.config.PrintTrace {
		return
	}

	fmt.Fprintln(a.traceOut, traceLine(a.cpu.Machine(), i))
}

// printHelp writes a short overview of supported shortcut keys to stdout.
func printHelp() {
	f := translate.From

	var sb strings.Builder
	sb.WriteString(f("shortcut keys:") + "\n")
	sb.WriteString(" ESC      " + f("Exit the program.") + "\n")
	sb.WriteString(" F1       " + f("Display this help.") + "\n")
	sb.WriteString(" F2       " + f("Enable/Disable debug mode.") + "\n")
	sb.WriteString(" F3       " + f("Start/Stop program execution.") + "\n")
	sb.WriteString(" F4       " + f("Perform a single execution step.") + "\n")
	sb.WriteString(" F5       " + f("(re)load the program from disk and reset the machine.") + "\n")
	sb.WriteString(" F6       " + f("Save the machine state.") + "\n")
	sb.WriteString(" F8       " + f("Enable/Disable debug trace output.") + "\n")
	sb.WriteString(" F9       " + f("Restore the saved machine state.") + "\n")
	sb.WriteString(" F12      " + f("Save a screenshot.") + "\n")
	sb.WriteString(f("keypad:") + "\n")
	sb.WriteString(" 1 2 3 4      1 2 3 C\n")
	sb.WriteString(" Q W E R  ->  4 5 6 D\n")
	sb.WriteString(" A S D F      7 8 9 E\n")
	sb.WriteString(" Z X C V      A 0 B F")
	log.Println(sb.String())
}

// prettyFrequency returns a human-readable version of the given clock frequency in herz.
func prettyFrequency(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.2f MHz", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2f KHz", v/1e3)
	default:
		return fmt.Sprintf("%.2f Hz", v)
	}
}
