package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hexaflex/chip8/devices/fffe/cpu"
)

// Config defines program configuration.
type Config struct {
	Input  string // ROM file to disassemble.
	Output string // Path to store output in. Empty means stdout.
	Origin uint16 // Load address of the first ROM byte.
	Hex    bool   // Include the raw instruction words in the output?
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.Origin = cpu.ProgramOffset

	flag.Usage = func() {
		fmt.Printf("%s [options] <rom file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	origin := flag.String("origin", fmt.Sprintf("%03x", c.Origin), "Hex load address of the rom.")
	flag.StringVar(&c.Output, "out", c.Output, "Output file. Defaults to stdout.")
	flag.BoolVar(&c.Hex, "hex", c.Hex, "Include raw instruction words in the listing.")
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

	n, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(*origin), "0x"), 16, 12)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid origin %q\n", *origin)
		os.Exit(1)
	}

	c.Origin = uint16(n)
	c.Input = flag.Arg(0)
	return &c
}
