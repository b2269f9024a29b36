package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hexaflex/chip8/devices/fffe/clock"
	"github.com/hexaflex/chip8/devices/fffe/lores"
	"github.com/hexaflex/chip8/devices/tone"
)

// Config defines program configuration.
type Config struct {
	Program       string   // Path to the ROM file to load.
	ScaleFactor   int      // Amount by which each pixel is scaled (virtual resolution)
	Fullscreen    bool     // Run in fullscreen?
	Debug         bool     // Enable debug mode? This handles breakpoints if enabled.
	PrintTrace    bool     // Print instruction trace data?
	Frequency     int      // Cycles per second.
	Seed          int64    // Seed for the random number generator. 0 uses the clock.
	Terminal      bool     // Run in the terminal instead of a window.
	Volume        float64  // Buzzer volume in the range [0, 1].
	Mute          bool     // Disable audio output.
	RecordAudio   string   // Optional WAV file receiving the audio signal.
	Snapshot      string   // State file used by the save and restore keys.
	ScreenshotDir string   // Directory receiving screenshots.
	StatsView     bool     // Run the runtime statistics server?
	DumpState     string   // Optional graphviz file receiving the machine state on exit.
	Breakpoints   []uint16 // Addresses at which execution pauses in debug mode.
	Background    int      // Display background color as 0xRRGGBB.
	Foreground    int      // Display foreground color as 0xRRGGBB.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.ScaleFactor = 10
	c.Frequency = clock.DefaultFrequency
	c.Volume = tone.DefaultVolume
	c.ScreenshotDir = "."
	c.Background = lores.DefaultBackground
	c.Foreground = lores.DefaultForeground

	flag.Usage = func() {
		fmt.Printf("%s [options] <rom file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.BoolVar(&c.Debug, "debug", c.Debug, "Run in debug mode: start paused with trace output and breakpoints enabled.")
	flag.BoolVar(&c.PrintTrace, "trace", c.PrintTrace, "Print instruction trace data.")
	flag.IntVar(&c.ScaleFactor, "scale-factor", c.ScaleFactor, "Pixel scale factor for the display.")
	flag.BoolVar(&c.Fullscreen, "fullscreen", c.Fullscreen, "Run the display in fullscreen or windowed mode.")
	flag.IntVar(&c.Frequency, "frequency", c.Frequency, "Number of instructions executed per second.")
	flag.Int64Var(&c.Seed, "seed", c.Seed, "Random number seed. 0 seeds from the system clock.")
	flag.BoolVar(&c.Terminal, "terminal", c.Terminal, "Run in the terminal instead of opening a window.")
	flag.Float64Var(&c.Volume, "volume", c.Volume, "Buzzer volume in the range [0, 1].")
	flag.BoolVar(&c.Mute, "mute", c.Mute, "Disable audio output.")
	flag.StringVar(&c.RecordAudio, "record-audio", c.RecordAudio, "Record the buzzer to the given WAV file.")
	flag.StringVar(&c.Snapshot, "snapshot", c.Snapshot, "State file for F6/F9. Defaults to the rom path with a .state extension.")
	flag.StringVar(&c.ScreenshotDir, "screenshot-dir", c.ScreenshotDir, "Directory receiving F12 screenshots.")
	flag.BoolVar(&c.StatsView, "statsview", c.StatsView, "Serve runtime statistics at "+statsAddress+statsPath+".")
	flag.StringVar(&c.DumpState, "dump-state", c.DumpState, "Write a graphviz dump of the machine to the given file on exit.")
	flag.Func("background", "Display background color as RRGGBB.", colorFlag(&c.Background))
	flag.Func("foreground", "Display foreground color as RRGGBB.", colorFlag(&c.Foreground))
	flag.Func("break", "Comma separated list of hex breakpoint addresses.", func(v string) error {
		addrs, err := parseAddresses(v)
		c.Breakpoints = append(c.Breakpoints, addrs...)
		return err
	})

	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	c.Program = flag.Arg(0)
	c.PrintTrace = c.PrintTrace || c.Debug

	if c.Snapshot == "" {
		c.Snapshot = strings.TrimSuffix(c.Program, ".ch8") + ".state"
	}

	return &c
}

// parseAddresses parses a comma separated list of hexadecimal addresses.
func parseAddresses(v string) ([]uint16, error) {
	var out []uint16

	for _, field := range strings.Split(v, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		field = strings.TrimPrefix(strings.ToLower(field), "0x")
		field = strings.TrimPrefix(field, "$")

		n, err := strconv.ParseUint(field, 16, 12)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q", field)
		}

		out = append(out, uint16(n))
	}

	return out, nil
}

// colorFlag returns a flag handler which parses a RRGGBB color into dst.
func colorFlag(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.ParseUint(strings.TrimPrefix(v, "#"), 16, 24)
		if err != nil {
			return fmt.Errorf("invalid color %q", v)
		}
		*dst = int(n)
		return nil
	}
}
